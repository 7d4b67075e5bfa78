package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/Spok95/qc-tracker/internal/models"
)

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, users)
}

type createUserRequest struct {
	Name string      `json:"name"`
	Role models.Role `json:"role"`
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	u, err := h.svc.CreateUser(c.Request.Context(), currentUser(c), req.Name, req.Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	Created(c, u)
}

type roleRequest struct {
	Role models.Role `json:"role"`
}

func (h *Handler) setRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	u, err := h.svc.SetRole(c.Request.Context(), currentUser(c), c.Param("id"), req.Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, u)
}

type telegramRequest struct {
	TelegramID *int64 `json:"telegramId"`
}

func (h *Handler) linkTelegram(c *gin.Context) {
	var req telegramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	u, err := h.svc.LinkTelegram(c.Request.Context(), currentUser(c), c.Param("id"), req.TelegramID)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, u)
}

func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	Success(c, nil)
}

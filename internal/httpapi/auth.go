package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/Spok95/qc-tracker/internal/models"
)

type loginRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"`
	User      *models.User `json:"user"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.UserID == "" && req.Name == "" {
		BadRequest(c, "userId or name is required")
		return
	}
	sess, u, err := h.svc.Login(c.Request.Context(), req.UserID, req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	token, err := IssueToken(h.secret, sess)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, loginResponse{Token: token, ExpiresAt: sess.ExpiresAt.UnixMilli(), User: u})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), c.GetString(ctxSessionID)); err != nil {
		h.fail(c, err)
		return
	}
	Success(c, nil)
}

func (h *Handler) me(c *gin.Context) {
	Success(c, currentUser(c))
}

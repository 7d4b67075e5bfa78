package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/Spok95/qc-tracker/internal/models"
	"github.com/Spok95/qc-tracker/internal/production"
	"github.com/Spok95/qc-tracker/internal/service"
)

type daySummaryResponse struct {
	production.DaySummary
	Accuracy float64 `json:"accuracy"`
}

func (h *Handler) productionSummary(c *gin.Context) {
	days, err := h.svc.ProductionSummary(c.Request.Context(), currentUser(c), c.Query("userId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]daySummaryResponse, 0, len(days))
	for _, d := range days {
		out = append(out, daySummaryResponse{DaySummary: d, Accuracy: d.Accuracy()})
	}
	Success(c, out)
}

func (h *Handler) productionBreakdown(c *gin.Context) {
	recs, err := h.svc.ProductionBreakdown(c.Request.Context(), currentUser(c), c.Param("userId"), c.Param("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if recs == nil {
		recs = []models.ProductionRecord{}
	}
	Success(c, recs)
}

func (h *Handler) logProduction(c *gin.Context) {
	var in service.ProductionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	rec, err := h.svc.LogProduction(c.Request.Context(), currentUser(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	Created(c, rec)
}

func (h *Handler) updateProduction(c *gin.Context) {
	var in service.ProductionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	rec, err := h.svc.UpdateProduction(c.Request.Context(), currentUser(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, rec)
}

func (h *Handler) deleteProduction(c *gin.Context) {
	if err := h.svc.DeleteProduction(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	Success(c, nil)
}

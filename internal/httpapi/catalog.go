package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/Spok95/qc-tracker/internal/models"
	"github.com/Spok95/qc-tracker/internal/service"
)

type catalogResponse struct {
	Errors          []models.QCError        `json:"errors"`
	Projects        []string                `json:"projects"`
	TrackerProjects []models.TrackerProject `json:"trackerProjects"`
	TimeSlots       []string                `json:"timeSlots"`
	Today           string                  `json:"today"`
}

func (h *Handler) catalog(c *gin.Context) {
	cat := h.svc.Catalog
	Success(c, catalogResponse{
		Errors:          cat.Errors,
		Projects:        cat.Projects,
		TrackerProjects: cat.TrackerProjects,
		TimeSlots:       cat.TimeSlots,
		Today:           h.svc.Today(),
	})
}

type generateRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (h *Handler) generateSamples(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	samples, err := h.svc.GenerateSamples(req.Start, req.End)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, samples)
}

func (h *Handler) scoreSamples(c *gin.Context) {
	var req service.Draft
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	out, err := h.svc.ScoreDraft(req)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, out)
}

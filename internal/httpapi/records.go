package httpapi

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/qc-tracker/internal/analytics"
	"github.com/Spok95/qc-tracker/internal/export"
	"github.com/Spok95/qc-tracker/internal/models"
	"github.com/Spok95/qc-tracker/internal/service"
)

func recordQuery(c *gin.Context) service.RecordQuery {
	return service.RecordQuery{
		Search:  c.Query("q"),
		Project: c.Query("project"),
		Agent:   c.Query("agent"),
		From:    c.Query("from"),
		To:      c.Query("to"),
	}
}

func (h *Handler) listRecords(c *gin.Context) {
	recs, err := h.svc.ListRecords(c.Request.Context(), currentUser(c), recordQuery(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if recs == nil {
		recs = []models.QCRecord{}
	}
	Success(c, recs)
}

func (h *Handler) getRecord(c *gin.Context) {
	rec, err := h.svc.GetRecord(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, rec)
}

func (h *Handler) createRecord(c *gin.Context) {
	var in models.QCRecord
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	rec, err := h.svc.SaveRecord(c.Request.Context(), currentUser(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	Created(c, rec)
}

func (h *Handler) updateRecord(c *gin.Context) {
	var in models.QCRecord
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	in.ID = c.Param("id")
	rec, err := h.svc.SaveRecord(c.Request.Context(), currentUser(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, rec)
}

func (h *Handler) deleteRecord(c *gin.Context) {
	if err := h.svc.DeleteRecord(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	Success(c, nil)
}

type reviewRequest struct {
	Status models.AgentReviewStatus `json:"status"`
	Note   string                   `json:"note"`
}

func (h *Handler) reviewRecord(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	rec, err := h.svc.ReviewRecord(c.Request.Context(), currentUser(c), c.Param("id"), req.Status, req.Note)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, rec)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) exportCSV(c *gin.Context) {
	recs, err := h.svc.ExportRecords(c.Request.Context(), currentUser(c), recordQuery(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, recs); err != nil {
		h.fail(c, err)
		return
	}
	attachment(c, export.Filename(h.svc.Now(), "csv"), "text/csv; charset=utf-8", buf.Bytes())
}

func (h *Handler) exportXLSX(c *gin.Context) {
	recs, err := h.svc.ExportRecords(c.Request.Context(), currentUser(c), recordQuery(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, recs); err != nil {
		h.fail(c, err)
		return
	}
	attachment(c, export.Filename(h.svc.Now(), "xlsx"), xlsxContentType, buf.Bytes())
}

func attachment(c *gin.Context, name, contentType string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, contentType, body)
}

func (h *Handler) dashboard(c *gin.Context) {
	f := analytics.Filter{From: c.Query("from"), To: c.Query("to"), Project: c.Query("project")}
	if agents := strings.TrimSpace(c.Query("agents")); agents != "" {
		for _, a := range strings.Split(agents, ",") {
			if a = strings.TrimSpace(a); a != "" {
				f.Agents = append(f.Agents, a)
			}
		}
	}
	d, err := h.svc.Dashboard(c.Request.Context(), currentUser(c), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, d)
}

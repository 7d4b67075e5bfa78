// Package httpapi is the JSON API of the QC tracker.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Spok95/qc-tracker/internal/metrics"
	"github.com/Spok95/qc-tracker/internal/service"
)

type Handler struct {
	svc    *service.Service
	log    *zap.Logger
	secret []byte
}

func NewHandler(svc *service.Service, log *zap.Logger, secret string) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log, secret: []byte(secret)}
}

// NewRouter wires the API, /healthz and /metrics on one engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Logger(h.log), gin.Recovery())

	r.GET("/healthz", h.health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	v1.POST("/auth/login", h.login)

	api := v1.Group("", h.Auth())
	api.POST("/auth/logout", h.logout)
	api.GET("/auth/me", h.me)

	api.GET("/catalog", h.catalog)
	api.POST("/samples/generate", h.generateSamples)
	api.POST("/samples/score", h.scoreSamples)

	api.GET("/records", h.listRecords)
	api.GET("/records/export.csv", h.exportCSV)
	api.GET("/records/export.xlsx", h.exportXLSX)
	api.GET("/records/:id", h.getRecord)
	api.POST("/records", h.createRecord)
	api.PUT("/records/:id", h.updateRecord)
	api.DELETE("/records/:id", h.deleteRecord)
	api.POST("/records/:id/review", h.reviewRecord)

	api.GET("/dashboard", h.dashboard)

	api.GET("/production", h.productionSummary)
	api.GET("/production/:userId/:date", h.productionBreakdown)
	api.POST("/production", h.logProduction)
	api.PUT("/production/:id", h.updateProduction)
	api.DELETE("/production/:id", h.deleteProduction)

	api.GET("/users", h.listUsers)
	api.POST("/users", h.createUser)
	api.PATCH("/users/:id/role", h.setRole)
	api.PATCH("/users/:id/telegram", h.linkTelegram)
	api.DELETE("/users/:id", h.deleteUser)

	return r
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 800*time.Millisecond)
	defer cancel()
	t0 := time.Now()
	if err := h.svc.Ping(ctx); err != nil {
		c.String(http.StatusServiceUnavailable, "store not ok: "+err.Error())
		return
	}
	metrics.ObserveDBPing(time.Since(t0))
	c.String(http.StatusOK, "ok")
}

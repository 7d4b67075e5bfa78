package httpapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Spok95/qc-tracker/internal/ctxutil"
	"github.com/Spok95/qc-tracker/internal/metrics"
	"github.com/Spok95/qc-tracker/internal/models"
)

// gin context keys
const (
	ctxRequestID = "request_id"
	ctxUserID    = "user_id"
	ctxUser      = "user"
	ctxSessionID = "session_id"
)

// Logger writes one line per request and counts it.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", latency),
			zap.String("request_id", c.GetString(ctxRequestID)),
		}
		if userID := c.GetString(ctxUserID); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}

		switch {
		case status >= 500:
			logger.Error("server error", fields...)
		case status >= 400:
			logger.Warn("client error", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ctxRequestID, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(ctxutil.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// Auth resolves the bearer token to a live session and its user.
func (h *Handler) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var raw string
		if parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
			raw = parts[1]
		}
		if raw == "" {
			Error(c, 40100, "authorization is required")
			return
		}
		claims, err := ParseToken(h.secret, raw)
		if err != nil {
			Error(c, 40102, "invalid or expired token")
			return
		}
		u, sess, err := h.svc.Authenticate(c.Request.Context(), claims.SessionID)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.Set(ctxUser, u)
		c.Set(ctxUserID, u.ID)
		c.Set(ctxSessionID, sess.ID)
		c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), u.ID))
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	v, _ := c.Get(ctxUser)
	u, _ := v.(*models.User)
	return u
}

package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Spok95/qc-tracker/internal/apperr"
	"github.com/Spok95/qc-tracker/internal/observability"
)

// Response is the envelope of every JSON reply. Code 0 is success; errors
// carry the HTTP status times 100.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "success", Data: data})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(statusCode, Response{Code: code, Message: message})
}

func BadRequest(c *gin.Context, message string) { Error(c, 40000, message) }

var kindCodes = map[apperr.Kind]int{
	apperr.Invalid:      40000,
	apperr.Unauthorized: 40100,
	apperr.Forbidden:    40300,
	apperr.NotFound:     40400,
	apperr.Conflict:     40900,
}

// fail maps an error to its envelope. Unclassified errors are logged,
// reported to Sentry and hidden from the client.
func (h *Handler) fail(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		if code, ok := kindCodes[ae.Kind]; ok {
			Error(c, code, ae.Msg)
			return
		}
	}
	_ = c.Error(err)
	h.log.Error("request failed",
		zap.Error(err),
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString(ctxRequestID)),
	)
	observability.CaptureErr(err)
	Error(c, 50000, "internal error")
}

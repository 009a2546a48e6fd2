package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an ID and logs it once the handler
// chain has finished.
func RequestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		requestID := ctx.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.Header(RequestIDHeader, requestID)

		ctx.Next()

		entry := logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     ctx.Request.Method,
			"path":       ctx.Request.URL.Path,
			"status":     ctx.Writer.Status(),
			"latency":    time.Since(start).String(),
		})
		if len(ctx.Errors) > 0 {
			entry.Warn(ctx.Errors.String())
			return
		}
		entry.Info("request")
	}
}

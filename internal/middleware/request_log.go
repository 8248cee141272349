package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/mindbridge-api/internal/logger"
)

const (
	RequestIDHeader  = "X-Request-ID"
	ContextRequestID = "requestID"
)

// RequestLogger tags each request with an id, attaches a scoped logger and
// writes one access log line when the handler returns.
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.NewString()
		}
		c.Set(ContextRequestID, reqID)
		c.Header(RequestIDHeader, reqID)

		c.Set(logger.ContextKey, base.With(zap.String("request_id", reqID)))

		c.Next()

		lg := logger.FromGin(c)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			lg.Error("request", fields...)
		case status >= 400:
			lg.Warn("request", fields...)
		default:
			lg.Info("request", fields...)
		}
	}
}

// RequestID returns the id RequestLogger assigned, if any.
func RequestID(c *gin.Context) string {
	return c.GetString(ContextRequestID)
}

func zapUser(userID uint, role string) []zap.Field {
	return []zap.Field{
		zap.Uint("user_id", userID),
		zap.String("role", role),
	}
}

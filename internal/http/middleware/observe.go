package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/you/authsvc/internal/logging"
	"github.com/you/authsvc/internal/metrics"
)

// RequestLogger writes one structured line per request
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	logger = logger.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if userID := c.GetString(ContextUserID); userID != "" {
			args = append(args, "user_id", userID)
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error(c.Request.Context(), "request", args...)
		case status >= 400:
			logger.Warn(c.Request.Context(), "request", args...)
		default:
			logger.Info(c.Request.Context(), "request", args...)
		}
	}
}

// Metrics observes request latency labelled by the matched route template
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

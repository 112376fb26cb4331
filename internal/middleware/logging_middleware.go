// internal/middleware/logging_middleware.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"device-gateway/internal/utils"
)

// LoggingMiddleware records one entry per HTTP request with method, path,
// client and latency. For WebSocket upgrades the entry is written when the
// session ends, so its duration covers the whole session.
func LoggingMiddleware(logger *utils.ServiceLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		// Handlers may rewrite the URL; keep the path the client asked for
		path := c.Request.URL.Path

		c.Next()

		logger.LogAPIRequest(
			c.Request.Method,
			path,
			c.Request.UserAgent(),
			c.ClientIP(),
			c.Writer.Status(),
			time.Since(start),
		)
	}
}

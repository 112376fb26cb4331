// internal/middleware/recovery_middleware.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"device-gateway/internal/utils"
)

// RecoveryMiddleware turns a handler panic into a 500 response instead of
// a dropped connection. The request id, when already assigned, ties the
// stack trace back to the failed request.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log := logger
		if requestID, ok := c.Get("request_id"); ok {
			log = utils.LoggerWithRequestID(logger, requestID.(string))
		}

		log.Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stacktrace"),
		)

		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error", nil)
	})
}

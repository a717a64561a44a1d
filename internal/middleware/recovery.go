package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hh727w/portfolio-api/pkg/logger"
	"go.uber.org/zap"
)

// UnexpectedErrorMessage is returned to clients when a handler panics
const UnexpectedErrorMessage = "Unexpected error. Please try again later."

// RecoveryMiddleware turns handler panics into a generic 500 JSON response.
// The panic value is logged and never sent to the client.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		fields := append(logger.TraceFields(c.Request.Context()),
			zap.String("panic", fmt.Sprint(recovered)),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", RequestID(c)),
			zap.Stack("stack"),
		)
		logger.Error("Recovered from handler panic", fields...)

		_ = c.Error(fmt.Errorf("panic: %v", recovered)) //nolint:errcheck
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": UnexpectedErrorMessage})
	})
}

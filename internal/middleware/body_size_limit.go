package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodySizeLimitMiddleware caps request bodies at maxBodySize bytes. Requests
// that declare a larger Content-Length are rejected with 400 and
// rejectMessage; bodies without a length are cut off by the reader, which
// surfaces as a decode error in the handler.
func BodySizeLimitMiddleware(maxBodySize int64, rejectMessage string) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBodySize {
			_ = c.Error(&http.MaxBytesError{Limit: maxBodySize}) //nolint:errcheck
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": rejectMessage})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
		c.Next()
	}
}

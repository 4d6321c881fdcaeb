package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects bodies declared larger than maxBytes and caps the rest
// of the stream at the same size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return BodyLimitWithUploads(maxBytes, maxBytes)
}

// BodyLimitWithUploads is BodyLimit with a separate ceiling for
// multipart/form-data requests, which carry images
func BodyLimitWithUploads(maxBytes, uploadMaxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := maxBytes
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			limit = uploadMaxBytes
		}

		if c.Request.ContentLength > limit {
			abortWithError(c, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

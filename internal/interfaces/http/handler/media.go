package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// MediaHandler serves images kept by the in-memory image store.
// It is only mounted when no bucket is configured.
type MediaHandler struct {
	BaseHandler
	images *storage.MemoryImageStorage
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(images *storage.MemoryImageStorage) *MediaHandler {
	return &MediaHandler{images: images}
}

// Get godoc
// @ID           getMedia
// @Summary      Fetch uploaded image
// @Tags         media
// @Produce      image/jpeg,image/png
// @Param        key path string true "Object key"
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Router       /media/{key} [get]
func (h *MediaHandler) Get(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	obj, ok := h.images.Get(key)
	if !ok {
		h.Error(c, dto.ErrCodeNotFound, "Image not found")
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, obj.ContentType, obj.Data)
}

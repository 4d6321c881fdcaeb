package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// The guards below answer before the service is reached, so a nil service is fine
func TestCartHandlerClearRequiresConfirmation(t *testing.T) {
	h := NewCartHandler(nil)
	c, w := newTestContext(http.MethodDelete, "/cart", nil)
	c.Params = gin.Params{{Key: "storeId", Value: uuid.NewString()}}

	h.Clear(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "CONFIRMATION_REQUIRED", decodeResponse(t, w).Error.Code)
}

func TestCartHandlerRejectsMalformedStore(t *testing.T) {
	h := NewCartHandler(nil)

	for name, serve := range map[string]gin.HandlerFunc{
		"get":      h.Get,
		"clear":    h.Clear,
		"checkout": h.Checkout,
	} {
		t.Run(name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "/cart?confirm=true", nil)
			c.Params = gin.Params{{Key: "storeId", Value: "acme"}}

			serve(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "BAD_REQUEST", decodeResponse(t, w).Error.Code)
		})
	}
}

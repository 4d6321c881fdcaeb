package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
)

func TestInFlight_RejectsConcurrentDuplicate(t *testing.T) {
	guard := cache.NewInMemoryInFlightGuard()
	defer guard.Close()

	entered := make(chan struct{})
	release := make(chan struct{})

	router := gin.New()
	router.Use(RequestID(), func(c *gin.Context) {
		c.Set(SessionIDKey, "s1")
		c.Next()
	})
	router.POST("/stores/:storeId/cart/checkout", InFlight(guard, time.Minute, SessionRequestKey, nil), func(c *gin.Context) {
		if c.Query("block") == "1" {
			close(entered)
			<-release
		}
		c.Status(http.StatusOK)
	})

	done := make(chan int)
	go func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stores/abc/cart/checkout?block=1", nil))
		done <- rec.Code
	}()
	<-entered

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stores/abc/cart/checkout", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "REQUEST_IN_FLIGHT", decodeError(t, rec).Code)

	close(release)
	assert.Equal(t, http.StatusOK, <-done)

	// key is released once the first request finishes
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stores/abc/cart/checkout", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInFlight_SerializesMutationsOfOneCart(t *testing.T) {
	guard := cache.NewInMemoryInFlightGuard()
	defer guard.Close()

	entered := make(chan struct{})
	release := make(chan struct{})

	router := gin.New()
	router.Use(RequestID(), func(c *gin.Context) {
		c.Set(SessionIDKey, "s1")
		c.Next()
	})
	inFlight := InFlight(guard, time.Minute, SessionRequestKey, nil)
	router.PATCH("/stores/:storeId/cart/items/:productId", inFlight, func(c *gin.Context) {
		close(entered)
		<-release
		c.Status(http.StatusOK)
	})
	router.DELETE("/stores/:storeId/cart/items/:productId", inFlight, okHandler)

	done := make(chan int)
	go func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/stores/abc/cart/items/p1", nil))
		done <- rec.Code
	}()
	<-entered

	// another line of the same cart waits for the first mutation
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/stores/abc/cart/items/p2", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "REQUEST_IN_FLIGHT", decodeError(t, rec).Code)

	// the cart of another store is independent
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/stores/xyz/cart/items/p2", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	close(release)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestInFlight_EmptyKeySkipsGuard(t *testing.T) {
	guard := cache.NewInMemoryInFlightGuard()
	defer guard.Close()

	router := gin.New()
	router.POST("/test", InFlight(guard, time.Minute, OwnerRequestKey, nil), okHandler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/test", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, guard.Size())
}

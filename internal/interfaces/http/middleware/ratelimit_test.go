package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
)

func TestRateLimit(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), RateLimit(cache.NewInMemoryRateLimiter(2, time.Minute), nil, nil))
	router.GET("/test", okHandler)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", decodeError(t, rec).Code)
}

func TestRateLimit_SeparateKeys(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(cache.NewInMemoryRateLimiter(1, time.Minute), func(c *gin.Context) string {
		return c.GetHeader("X-Client")
	}, nil))
	router.GET("/test", okHandler)

	for _, client := range []string{"a", "b"} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Client", client)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (cache.RateDecision, error) {
	return cache.RateDecision{}, errors.New("redis down")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(failingLimiter{}, nil, nil))
	router.GET("/test", okHandler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

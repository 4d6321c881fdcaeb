package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RateLimitKeyFunc picks the bucket a request is counted in
type RateLimitKeyFunc func(c *gin.Context) string

// ClientIPKey counts requests per client IP
func ClientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// RateLimit answers 429 RATE_LIMITED once a key exceeds its window and sets
// the X-RateLimit-* headers on every response
func RateLimit(limiter cache.RateLimiter, keyFn RateLimitKeyFunc, log *zap.Logger) gin.HandlerFunc {
	if keyFn == nil {
		keyFn = ClientIPKey
	}
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), keyFn(c))
		if err != nil {
			log.Error("Rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(decision.ResetIn.Seconds())))

		if !decision.Allowed {
			c.Header("Retry-After", strconv.Itoa(max(1, int(decision.ResetIn.Seconds()))))
			abortWithError(c, dto.ErrCodeRateLimited, "Too many requests. Please try again later")
			return
		}
		c.Next()
	}
}

package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// DefaultInFlightTTL bounds how long a crashed request can hold its key
const DefaultInFlightTTL = 30 * time.Second

// InFlightKeyFunc builds the guard key of a request. An empty key skips the guard.
type InFlightKeyFunc func(c *gin.Context) string

// InFlight rejects a request with 409 REQUEST_IN_FLIGHT while an identical
// one, as identified by keyFn, is still being processed
func InFlight(guard shared.InFlightGuard, ttl time.Duration, keyFn InFlightKeyFunc, log *zap.Logger) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = DefaultInFlightTTL
	}
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := keyFn(c)
		if key == "" {
			c.Next()
			return
		}

		acquired, err := guard.Acquire(c.Request.Context(), key, ttl)
		if err != nil {
			log.Error("In-flight guard unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			abortWithError(c, dto.ErrCodeInFlight, shared.ErrInFlight.Message)
			return
		}

		defer func() {
			// the request context may already be canceled
			ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), time.Second)
			defer cancel()
			if err := guard.Release(ctx, key); err != nil {
				log.Warn("Failed to release in-flight key", zap.String("key", key), zap.Error(err))
			}
		}()
		c.Next()
	}
}

// SessionRequestKey keys a request by the cart it touches: store and shopper
// session. Every mutation of one cart shares the key, so they run one at a time.
func SessionRequestKey(c *gin.Context) string {
	sessionID := GetSessionID(c)
	if sessionID == "" {
		return ""
	}
	return "cart:" + c.Param("storeId") + ":" + sessionID
}

// OwnerRequestKey keys a request by method, path and authenticated owner
func OwnerRequestKey(c *gin.Context) string {
	ownerID := c.GetString(JWTOwnerIDKey)
	if ownerID == "" {
		return ""
	}
	return c.Request.Method + ":" + c.Request.URL.Path + ":" + ownerID
}

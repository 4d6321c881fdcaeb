package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTOwnerIDKey = "owner_id"
	JWTStoreIDKey = "store_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// RevocationChecker reports whether a validated access token was revoked
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, claims *auth.Claims) (bool, error)
}

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// Revocations is optional; nil skips the logout check
	Revocations RevocationChecker
	Logger      *zap.Logger
}

// JWTAuthMiddleware authenticates the store owner from the Bearer token and
// puts the claims, the owner id and the store id in the gin context
func JWTAuthMiddleware(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortWithError(c, dto.ErrCodeUnauthorized, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortWithError(c, dto.ErrCodeUnauthorized, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		if tokenString == "" {
			abortWithError(c, dto.ErrCodeUnauthorized, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			log.Debug("JWT authentication failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
			handleAuthError(c, err)
			return
		}

		if cfg.Revocations != nil {
			revoked, err := cfg.Revocations.IsTokenRevoked(c.Request.Context(), claims)
			if err != nil {
				// fail open: a blacklist outage must not lock every owner out
				log.Error("Failed to check token revocation", zap.String("jti", claims.ID), zap.Error(err))
			} else if revoked {
				abortWithError(c, dto.ErrCodeTokenRevoked, "Token has been revoked")
				return
			}
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTOwnerIDKey, claims.OwnerID)
		c.Set(JWTStoreIDKey, claims.StoreID)

		ctx := logger.WithOwnerID(c.Request.Context(), claims.OwnerID)
		ctx = logger.WithStoreID(ctx, claims.StoreID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		abortWithError(c, dto.ErrCodeTokenExpired, "Token has expired")
	case errors.Is(err, auth.ErrInvalidTokenType):
		abortWithError(c, dto.ErrCodeTokenInvalid, "Invalid token type")
	default:
		abortWithError(c, dto.ErrCodeTokenInvalid, "Invalid token")
	}
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetOwnerID returns the authenticated owner id
func GetOwnerID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.GetString(JWTOwnerIDKey))
}

// GetStoreID returns the store the authenticated owner manages
func GetStoreID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.GetString(JWTStoreIDKey))
}

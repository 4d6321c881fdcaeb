package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

// SessionIDKey is the gin context key of the shopper session id
const SessionIDKey = "session_id"

// MaxSessionIDLength caps client supplied session ids
const MaxSessionIDLength = 64

// Session resolves the anonymous shopper session that carts are keyed by.
// The id comes from the session header, then the session cookie. A new uuid
// is issued when neither carries a usable value and is echoed in both.
func Session(cfg config.CartConfig) gin.HandlerFunc {
	header := cfg.SessionHeader
	if header == "" {
		header = "X-Session-ID"
	}
	cookieName := cfg.SessionCookie
	if cookieName == "" {
		cookieName = "sf_session"
	}
	maxAge := int(cfg.CookieMaxAge.Seconds())

	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(c.GetHeader(header))
		if !validSessionID(sessionID) {
			sessionID, _ = c.Cookie(cookieName)
		}
		if !validSessionID(sessionID) {
			sessionID = uuid.NewString()
		}

		c.Set(SessionIDKey, sessionID)
		c.Header(header, sessionID)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, sessionID, maxAge, "/", "", cfg.CookieSecure, true)

		c.Request = c.Request.WithContext(logger.WithSessionID(c.Request.Context(), sessionID))
		c.Next()
	}
}

// GetSessionID returns the id resolved by Session
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

func validSessionID(id string) bool {
	if id == "" || len(id) > MaxSessionIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

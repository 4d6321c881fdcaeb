package identity

import (
	"time"

	"github.com/google/uuid"
)

// RegisterInput contains the input for owner registration
type RegisterInput struct {
	Email     string
	Password  string
	StoreName string
	Whatsapp  string
}

// LoginInput contains the input for owner login
type LoginInput struct {
	Email    string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login or registration
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	Owner                 OwnerInfo
}

// OwnerInfo contains basic owner information returned after login
type OwnerInfo struct {
	ID          uuid.UUID
	StoreID     uuid.UUID
	Email       string
	DisplayName string
	LastLoginAt *time.Time
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for owner logout
type LogoutInput struct {
	OwnerID  uuid.UUID
	StoreID  uuid.UUID
	TokenJTI string        // JWT ID of the access token being revoked
	TokenTTL time.Duration // remaining lifetime of that token
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	OwnerID     uuid.UUID
	OldPassword string
	NewPassword string
}

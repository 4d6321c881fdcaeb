package handler

import "time"

// RegisterRequest represents the owner sign-up request
// @Description Sign-up request creating an owner and their store
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=200" example:"owner@example.com"`
	Password  string `json:"password" binding:"required,min=6,max=72" example:"secret123"`
	StoreName string `json:"store_name" binding:"required,min=1,max=200" example:"Tienda Luna"`
	Whatsapp  string `json:"whatsapp" binding:"required,whatsapp" example:"+54 9 11 5555-1234"`
}

// LoginRequest represents the login request
// @Description Login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,max=200" example:"owner@example.com"`
	Password string `json:"password" binding:"required,max=72" example:"secret123"`
}

// RefreshTokenRequest represents the token refresh request
// @Description Refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest represents the password change request
// @Description Password change request
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}

// TokenResponse represents a token pair
// @Description JWT token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type" example:"Bearer"`
}

// OwnerResponse represents the signed-in owner
// @Description Authenticated owner
type OwnerResponse struct {
	ID          string     `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	StoreID     string     `json:"store_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Email       string     `json:"email" example:"owner@example.com"`
	DisplayName string     `json:"display_name" example:"Tienda Luna"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// LoginResponse represents the login and sign-up response
// @Description Token pair and owner
type LoginResponse struct {
	Token TokenResponse `json:"token"`
	Owner OwnerResponse `json:"owner"`
}

package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// @ID           registerOwner
// @Summary      Register an owner
// @Description  Create an owner account together with their store and sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Sign-up data"
// @Success      201 {object} APIResponse[LoginResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), identityapp.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		StoreName: req.StoreName,
		Whatsapp:  req.Whatsapp,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toLoginResponse(result))
}

// Login godoc
// @ID           loginOwner
// @Summary      Owner login
// @Description  Authenticate with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[LoginResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toLoginResponse(result))
}

// RefreshToken godoc
// @ID           refreshToken
// @Summary      Refresh access token
// @Description  Exchange a refresh token for a new pair. The old refresh token stops working.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} APIResponse[TokenResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), identityapp.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, TokenResponse{
		AccessToken:           result.AccessToken,
		RefreshToken:          result.RefreshToken,
		AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
		TokenType:             result.TokenType,
	})
}

// Logout godoc
// @ID           logoutOwner
// @Summary      Owner logout
// @Description  Revoke the current access token until it expires
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[MessageResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	ownerID, storeID, ok := h.principal(c)
	if !ok {
		return
	}
	claims := middleware.GetJWTClaims(c)

	err := h.authService.Logout(c.Request.Context(), identityapp.LogoutInput{
		OwnerID:  ownerID,
		StoreID:  storeID,
		TokenJTI: claims.ID,
		TokenTTL: claims.GetRemainingTTL(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageResponse{Message: "Logged out successfully"})
}

// GetCurrentOwner godoc
// @ID           getCurrentOwner
// @Summary      Get current owner
// @Description  Return the authenticated owner and the id of their store
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[OwnerResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) GetCurrentOwner(c *gin.Context) {
	ownerID, storeID, ok := h.principal(c)
	if !ok {
		return
	}

	info, err := h.authService.GetCurrentOwner(c.Request.Context(), ownerID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOwnerResponse(*info))
}

// ChangePassword godoc
// @ID           changePassword
// @Summary      Change password
// @Description  Change the password after checking the current one
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Old and new password"
// @Success      200 {object} APIResponse[MessageResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	ownerID, _, ok := h.principal(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), identityapp.ChangePasswordInput{
		OwnerID:     ownerID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageResponse{Message: "Password changed successfully"})
}

func toLoginResponse(result *identityapp.LoginResult) LoginResponse {
	return LoginResponse{
		Token: TokenResponse{
			AccessToken:           result.AccessToken,
			RefreshToken:          result.RefreshToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
		Owner: toOwnerResponse(result.Owner),
	}
}

func toOwnerResponse(info identityapp.OwnerInfo) OwnerResponse {
	return OwnerResponse{
		ID:          info.ID.String(),
		StoreID:     info.StoreID.String(),
		Email:       info.Email,
		DisplayName: info.DisplayName,
		LastLoginAt: info.LastLoginAt,
	}
}

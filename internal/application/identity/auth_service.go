// Package identity implements registration and sign-in of store owners.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // Maximum failed login attempts before lock
	LockDuration     time.Duration // How long to lock account after max attempts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// Auth errors
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrAccountLocked      = shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
	ErrEmailTaken         = shared.NewDomainError("CONFLICT", "Email is already registered")
	ErrTokenRevoked       = shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
)

// AuthService handles authentication operations
type AuthService struct {
	ownerRepo  identity.OwnerRepository
	storeRepo  storefront.StoreRepository
	registrar  identity.Registrar
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service.
// A nil blacklist disables logout revocation.
func NewAuthService(
	ownerRepo identity.OwnerRepository,
	storeRepo storefront.StoreRepository,
	registrar identity.Registrar,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		ownerRepo:  ownerRepo,
		storeRepo:  storeRepo,
		registrar:  registrar,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     config,
		logger:     logger,
	}
}

// Register creates an owner together with their store and signs them in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	exists, err := s.ownerRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	owner, err := identity.NewOwner(input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if err := owner.SetDisplayName(input.StoreName); err != nil {
		return nil, err
	}

	store, err := storefront.NewStore(owner.ID, input.StoreName, owner.Email)
	if err != nil {
		return nil, err
	}
	if err := store.UpdateProfile(input.StoreName, input.Whatsapp, "", ""); err != nil {
		return nil, err
	}

	owner.RecordLoginSuccess("")
	if err := s.registrar.Register(ctx, owner, store); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("Failed to register owner", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Store registered",
		zap.String("owner_id", owner.ID.String()),
		zap.String("store_id", store.ID.String()))

	return s.issue(owner, store.ID)
}

// Login authenticates an owner and returns tokens for their store
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	owner, err := s.ownerRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if owner.IsLocked() {
		s.logger.Warn("Login attempt for locked account", zap.String("owner_id", owner.ID.String()))
		return nil, ErrAccountLocked
	}

	if !owner.VerifyPassword(input.Password) {
		locked := owner.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.ownerRepo.Save(ctx, owner); err != nil {
			s.logger.Error("Failed to update owner after login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("owner_id", owner.ID.String()),
				zap.Int("attempts", owner.FailedAttempts))
			return nil, shared.NewDomainError(ErrAccountLocked.Code, "Too many failed login attempts. Account has been locked")
		}
		return nil, ErrInvalidCredentials
	}

	store, err := s.storeRepo.FindByOwner(ctx, owner.ID)
	if err != nil {
		s.logger.Error("Owner has no store", zap.String("owner_id", owner.ID.String()), zap.Error(err))
		return nil, err
	}

	owner.RecordLoginSuccess(input.IP)
	if err := s.ownerRepo.Save(ctx, owner); err != nil {
		// Don't fail the login - just log the error
		s.logger.Error("Failed to update owner after successful login", zap.Error(err))
	}

	s.logger.Info("Owner logged in", zap.String("owner_id", owner.ID.String()))
	return s.issue(owner, store.ID)
}

// RefreshToken rotates a token pair. The old refresh token cannot be reused.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	ownerID, err := claims.GetOwnerUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid owner ID in token")
	}
	owner, err := s.ownerRepo.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Owner no longer exists")
		}
		return nil, err
	}
	if owner.IsLocked() {
		return nil, ErrAccountLocked
	}

	pair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, owner.Email)
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	if s.blacklist != nil {
		if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Warn("Failed to revoke rotated refresh token", zap.Error(err))
		}
	}

	return &RefreshTokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// Logout revokes the access token until it expires
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("Owner logout",
		zap.String("owner_id", input.OwnerID.String()),
		zap.String("store_id", input.StoreID.String()))

	if s.blacklist == nil || input.TokenJTI == "" || input.TokenTTL <= 0 {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, input.TokenJTI, input.TokenTTL); err != nil {
		s.logger.Error("Failed to revoke token on logout", zap.Error(err))
		return err
	}
	return nil
}

// IsTokenRevoked reports whether an access token was revoked by logout
func (s *AuthService) IsTokenRevoked(ctx context.Context, claims *auth.Claims) (bool, error) {
	if err := s.checkRevoked(ctx, claims); err != nil {
		if errors.Is(err, ErrTokenRevoked) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// GetCurrentOwner returns the signed-in owner and their store id
func (s *AuthService) GetCurrentOwner(ctx context.Context, ownerID, storeID uuid.UUID) (*OwnerInfo, error) {
	owner, err := s.ownerRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	info := toOwnerInfo(owner, storeID)
	return &info, nil
}

// ChangePassword changes an owner's password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	owner, err := s.ownerRepo.FindByID(ctx, input.OwnerID)
	if err != nil {
		return err
	}

	if err := owner.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.ownerRepo.Save(ctx, owner); err != nil {
		s.logger.Error("Failed to update owner after password change", zap.Error(err))
		return err
	}

	s.logger.Info("Owner password changed", zap.String("owner_id", input.OwnerID.String()))
	return nil
}

func (s *AuthService) issue(owner *identity.Owner, storeID uuid.UUID) (*LoginResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		StoreID: storeID,
		OwnerID: owner.ID,
		Email:   owner.Email,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		Owner:                 toOwnerInfo(owner, storeID),
	}, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil {
		return nil
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if !revoked {
		revoked, err = s.blacklist.IsOwnerTokenRevoked(ctx, claims.OwnerID, claims.GetIssuedAtTime())
		if err != nil {
			return err
		}
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

func toOwnerInfo(owner *identity.Owner, storeID uuid.UUID) OwnerInfo {
	return OwnerInfo{
		ID:          owner.ID,
		StoreID:     storeID,
		Email:       owner.Email,
		DisplayName: owner.DisplayName,
		LastLoginAt: owner.LastLoginAt,
	}
}

// mapTokenError maps JWT errors to domain errors
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
}

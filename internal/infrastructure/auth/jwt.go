package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// TokenType tells access and refresh tokens apart
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Token errors. Callers map them to API error codes with errors.Is.
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrInvalidClaims      = errors.New("invalid token claims")
	ErrTokenNotYetValid   = errors.New("token is not yet valid")
	ErrMaxRefreshExceeded = errors.New("maximum refresh count exceeded")
)

// Claims are the storefront JWT claims. StoreID is the tenant and OwnerID
// the signed-in principal; both are always present on a valid token.
type Claims struct {
	jwt.RegisteredClaims
	StoreID      string    `json:"store_id"`
	OwnerID      string    `json:"owner_id"`
	Email        string    `json:"email,omitempty"`
	TokenType    TokenType `json:"token_type"`
	RefreshCount int       `json:"refresh_count,omitempty"`
}

// TokenPair is what login and refresh hand back to the admin client
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// signingKey is the HMAC secret and lifetime of one token type
type signingKey struct {
	secret []byte
	ttl    time.Duration
}

// JWTService issues and verifies HS256 token pairs
type JWTService struct {
	keys            map[TokenType]signingKey
	issuer          string
	maxRefreshCount int
}

// NewJWTService creates a JWTService. Refresh tokens are signed with the
// access secret when no refresh secret is configured.
func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.Secret
	}

	return &JWTService{
		keys: map[TokenType]signingKey{
			TokenTypeAccess:  {secret: []byte(cfg.Secret), ttl: cfg.AccessTokenExpiration},
			TokenTypeRefresh: {secret: []byte(refreshSecret), ttl: cfg.RefreshTokenExpiration},
		},
		issuer:          cfg.Issuer,
		maxRefreshCount: cfg.MaxRefreshCount,
	}
}

// GenerateTokenInput identifies the principal a pair is issued for
type GenerateTokenInput struct {
	StoreID uuid.UUID
	OwnerID uuid.UUID
	Email   string
}

// GenerateTokenPair issues a fresh pair after login
func (s *JWTService) GenerateTokenPair(input GenerateTokenInput) (*TokenPair, error) {
	return s.issuePair(input, 0)
}

// RefreshTokenPair exchanges a valid refresh token for a new pair. The chain
// length is carried in the refresh token and capped by MaxRefreshCount.
func (s *JWTService) RefreshTokenPair(refreshToken, email string) (*TokenPair, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if s.maxRefreshCount > 0 && claims.RefreshCount >= s.maxRefreshCount {
		return nil, ErrMaxRefreshExceeded
	}

	storeID, err := claims.GetStoreUUID()
	if err != nil {
		return nil, ErrInvalidClaims
	}
	ownerID, err := claims.GetOwnerUUID()
	if err != nil {
		return nil, ErrInvalidClaims
	}

	return s.issuePair(GenerateTokenInput{StoreID: storeID, OwnerID: ownerID, Email: email}, claims.RefreshCount+1)
}

func (s *JWTService) issuePair(input GenerateTokenInput, refreshCount int) (*TokenPair, error) {
	now := time.Now()

	access, accessExp, err := s.sign(TokenTypeAccess, input, 0, now)
	if err != nil {
		return nil, err
	}
	// refresh tokens carry no email
	input.Email = ""
	refresh, refreshExp, err := s.sign(TokenTypeRefresh, input, refreshCount, now)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresAt:  accessExp,
		RefreshTokenExpiresAt: refreshExp,
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) sign(tokenType TokenType, input GenerateTokenInput, refreshCount int, now time.Time) (string, time.Time, error) {
	key := s.keys[tokenType]
	expiresAt := now.Add(key.ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   input.OwnerID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		StoreID:      input.StoreID.String(),
		OwnerID:      input.OwnerID.String(),
		Email:        input.Email,
		TokenType:    tokenType,
		RefreshCount: refreshCount,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateAccessToken verifies an access token and returns its claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.parse(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken verifies a refresh token and returns its claims
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.parse(tokenString, TokenTypeRefresh)
}

func (s *JWTService) parse(tokenString string, expected TokenType) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer), jwt.WithAudience(s.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.keys[expected].secret, nil
	}, opts...)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrTokenNotYetValid
	case err != nil:
		return nil, ErrInvalidToken
	case !token.Valid:
		return nil, ErrInvalidClaims
	}

	if claims.TokenType != expected {
		return nil, ErrInvalidTokenType
	}
	if claims.StoreID == "" || claims.OwnerID == "" {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// GetStoreUUID parses the tenant id
func (c *Claims) GetStoreUUID() (uuid.UUID, error) {
	return uuid.Parse(c.StoreID)
}

// GetOwnerUUID parses the principal id
func (c *Claims) GetOwnerUUID() (uuid.UUID, error) {
	return uuid.Parse(c.OwnerID)
}

// GetIssuedAtTime returns the issued-at time, zero when absent
func (c *Claims) GetIssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// GetRemainingTTL returns how long the token stays valid, never negative.
// Revocations are kept for this long.
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}

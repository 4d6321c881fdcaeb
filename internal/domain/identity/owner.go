package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// Password length limits
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Owner is the principal that signs in to manage one store
type Owner struct {
	shared.BaseEntity
	Email          string
	PasswordHash   string
	DisplayName    string
	LastLoginAt    *time.Time
	LastLoginIP    string
	FailedAttempts int
	LockedUntil    *time.Time
}

// NewOwner creates an owner with a hashed password
func NewOwner(email, password string) (*Owner, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &Owner{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: passwordHash,
	}, nil
}

// SetDisplayName sets the owner's display name
func (o *Owner) SetDisplayName(displayName string) error {
	if len(displayName) > 200 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}
	o.DisplayName = strings.TrimSpace(displayName)
	o.UpdatedAt = time.Now()
	return nil
}

// VerifyPassword checks password against the stored hash
func (o *Owner) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password))
	return err == nil
}

// ChangePassword changes the password after checking the current one
func (o *Owner) ChangePassword(oldPassword, newPassword string) error {
	if !o.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	o.PasswordHash = passwordHash
	o.UpdatedAt = time.Now()
	return nil
}

// RecordLoginSuccess records a successful login
func (o *Owner) RecordLoginSuccess(ip string) {
	now := time.Now()
	o.LastLoginAt = &now
	o.LastLoginIP = ip
	o.FailedAttempts = 0
	o.LockedUntil = nil
	o.UpdatedAt = now
}

// RecordLoginFailure records a failed login attempt
// Returns true if the account got locked
func (o *Owner) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	o.FailedAttempts++
	o.UpdatedAt = time.Now()

	if maxAttempts > 0 && o.FailedAttempts >= maxAttempts {
		until := time.Now().Add(lockDuration)
		o.LockedUntil = &until
		return true
	}
	return false
}

// IsLocked returns true while a lock is in effect
func (o *Owner) IsLocked() bool {
	return o.LockedUntil != nil && time.Now().Before(*o.LockedUntil)
}

// ValidateEmail checks the email format
func ValidateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

// ValidatePassword checks the password length
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	// bcrypt ignores bytes past 72
	if len(password) > MaxPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// OwnerIDFromString parses an owner id
func OwnerIDFromString(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, shared.ErrInvalidInput
	}
	return id, nil
}

package models

import (
	"time"

	"github.com/storefront/backend/internal/domain/identity"
)

// OwnerModel is the persistence model for the Owner domain entity.
type OwnerModel struct {
	BaseModel
	Email          string     `gorm:"type:varchar(200);not null;uniqueIndex:idx_owner_email"`
	PasswordHash   string     `gorm:"type:varchar(255);not null"`
	DisplayName    string     `gorm:"type:varchar(100)"`
	LastLoginAt    *time.Time `gorm:"type:timestamp"`
	LastLoginIP    string     `gorm:"type:varchar(45)"`
	FailedAttempts int        `gorm:"not null;default:0"`
	LockedUntil    *time.Time `gorm:"type:timestamp"`
}

// TableName returns the table name for GORM
func (OwnerModel) TableName() string {
	return "owners"
}

// ToDomain converts the persistence model to a domain Owner entity.
func (m *OwnerModel) ToDomain() *identity.Owner {
	return &identity.Owner{
		BaseEntity:     m.BaseModel.ToDomain(),
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		DisplayName:    m.DisplayName,
		LastLoginAt:    m.LastLoginAt,
		LastLoginIP:    m.LastLoginIP,
		FailedAttempts: m.FailedAttempts,
		LockedUntil:    m.LockedUntil,
	}
}

// FromDomain populates the persistence model from a domain Owner entity.
func (m *OwnerModel) FromDomain(o *identity.Owner) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.Email = o.Email
	m.PasswordHash = o.PasswordHash
	m.DisplayName = o.DisplayName
	m.LastLoginAt = o.LastLoginAt
	m.LastLoginIP = o.LastLoginIP
	m.FailedAttempts = o.FailedAttempts
	m.LockedUntil = o.LockedUntil
}

// OwnerModelFromDomain creates a new persistence model from a domain Owner entity.
func OwnerModelFromDomain(o *identity.Owner) *OwnerModel {
	m := &OwnerModel{}
	m.FromDomain(o)
	return m
}

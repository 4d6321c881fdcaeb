package models

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/storefront"
)

// StoreModel is the persistence model for the Store domain entity.
type StoreModel struct {
	BaseModel
	OwnerID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_store_owner"`
	Name           string    `gorm:"type:varchar(100);not null"`
	Email          string    `gorm:"type:varchar(200)"`
	Whatsapp       string    `gorm:"type:varchar(30)"`
	Address        string    `gorm:"type:varchar(300)"`
	MapLink        string    `gorm:"type:varchar(500)"`
	LogoURL        string    `gorm:"type:varchar(500)"`
	PrimaryColor   string    `gorm:"type:varchar(7);not null;default:'#001f3f'"`
	SecondaryColor string    `gorm:"type:varchar(7);not null;default:'#0074D9'"`
}

// TableName returns the table name for GORM
func (StoreModel) TableName() string {
	return "stores"
}

// ToDomain converts the persistence model to a domain Store entity.
func (m *StoreModel) ToDomain() *storefront.Store {
	return &storefront.Store{
		BaseEntity: m.BaseModel.ToDomain(),
		OwnerID:    m.OwnerID,
		Name:       m.Name,
		Email:      m.Email,
		Whatsapp:   m.Whatsapp,
		Address:    m.Address,
		MapLink:    m.MapLink,
		LogoURL:    m.LogoURL,
		Colors: storefront.Colors{
			Primary:   m.PrimaryColor,
			Secondary: m.SecondaryColor,
		},
	}
}

// FromDomain populates the persistence model from a domain Store entity.
func (m *StoreModel) FromDomain(s *storefront.Store) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.OwnerID = s.OwnerID
	m.Name = s.Name
	m.Email = s.Email
	m.Whatsapp = s.Whatsapp
	m.Address = s.Address
	m.MapLink = s.MapLink
	m.LogoURL = s.LogoURL
	m.PrimaryColor = s.Colors.Primary
	m.SecondaryColor = s.Colors.Secondary
}

// StoreModelFromDomain creates a new persistence model from a domain Store entity.
func StoreModelFromDomain(s *storefront.Store) *StoreModel {
	m := &StoreModel{}
	m.FromDomain(s)
	return m
}

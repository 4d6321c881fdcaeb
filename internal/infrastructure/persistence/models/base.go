package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// StoreScopedModel provides the persistence fields of records owned by a store.
// The domain calls the owning store the tenant; the column is store_id.
type StoreScopedModel struct {
	BaseModel
	StoreID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// ToTenantEntity converts StoreScopedModel to domain TenantEntity
func (m *StoreScopedModel) ToTenantEntity() shared.TenantEntity {
	return shared.TenantEntity{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.StoreID,
	}
}

// FromDomainTenantEntity populates StoreScopedModel from domain TenantEntity
func (m *StoreScopedModel) FromDomainTenantEntity(t shared.TenantEntity) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.StoreID = t.TenantID
}

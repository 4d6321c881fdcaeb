package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/storefront"
)

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	StoreScopedModel
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *storefront.Category {
	return &storefront.Category{
		TenantEntity: m.ToTenantEntity(),
		Name:         m.Name,
		Description:  m.Description,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *storefront.Category) {
	m.FromDomainTenantEntity(c.TenantEntity)
	m.Name = c.Name
	m.Description = c.Description
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *storefront.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	StoreScopedModel
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ImageURL    string          `gorm:"type:varchar(500);not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *storefront.Product {
	return &storefront.Product{
		TenantEntity: m.ToTenantEntity(),
		CategoryID:   m.CategoryID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price,
		ImageURL:     m.ImageURL,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *storefront.Product) {
	m.FromDomainTenantEntity(p.TenantEntity)
	m.CategoryID = p.CategoryID
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price
	m.ImageURL = p.ImageURL
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *storefront.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// PromotionModel is the persistence model for the Promotion domain entity.
type PromotionModel struct {
	StoreScopedModel
	Title       string                   `gorm:"type:varchar(200);not null"`
	Description string                   `gorm:"type:text"`
	Type        storefront.PromotionType `gorm:"type:varchar(20);not null;default:'discount'"`
	ImageURL    string                   `gorm:"type:varchar(500)"`
	Active      bool                     `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (PromotionModel) TableName() string {
	return "promotions"
}

// ToDomain converts the persistence model to a domain Promotion entity.
func (m *PromotionModel) ToDomain() *storefront.Promotion {
	return &storefront.Promotion{
		TenantEntity: m.ToTenantEntity(),
		Title:        m.Title,
		Description:  m.Description,
		Type:         m.Type,
		ImageURL:     m.ImageURL,
		Active:       m.Active,
	}
}

// FromDomain populates the persistence model from a domain Promotion entity.
func (m *PromotionModel) FromDomain(p *storefront.Promotion) {
	m.FromDomainTenantEntity(p.TenantEntity)
	m.Title = p.Title
	m.Description = p.Description
	m.Type = p.Type
	m.ImageURL = p.ImageURL
	m.Active = p.Active
}

// PromotionModelFromDomain creates a new persistence model from a domain Promotion entity.
func PromotionModelFromDomain(p *storefront.Promotion) *PromotionModel {
	m := &PromotionModel{}
	m.FromDomain(p)
	return m
}

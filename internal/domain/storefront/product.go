package storefront

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Product is a sellable item of a store
type Product struct {
	shared.TenantEntity
	CategoryID  *uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
}

// ProductInput carries the editable fields of a product
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  *uuid.UUID
}

// NewProduct creates a product. An image is mandatory for new products.
func NewProduct(storeID uuid.UUID, in ProductInput, imageURL string) (*Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(imageURL) == "" {
		return nil, shared.NewDomainError("IMAGE_REQUIRED", "Product image is required")
	}
	return &Product{
		TenantEntity: shared.NewTenantEntity(storeID),
		CategoryID:   in.CategoryID,
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		Price:        in.Price,
		ImageURL:     imageURL,
	}, nil
}

// Update replaces the product fields. An empty imageURL keeps the current image.
func (p *Product) Update(in ProductInput, imageURL string) error {
	if err := validateProduct(in); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.Price = in.Price
	p.CategoryID = in.CategoryID
	if imageURL != "" {
		p.ImageURL = imageURL
	}
	p.UpdatedAt = time.Now()
	return nil
}

// InCategory reports whether the product belongs to categoryID
func (p *Product) InCategory(categoryID uuid.UUID) bool {
	return p.CategoryID != nil && *p.CategoryID == categoryID
}

// DetachCategory clears the category reference
func (p *Product) DetachCategory() {
	p.CategoryID = nil
	p.UpdatedAt = time.Now()
}

// Validate checks the fields shared by create and update
func (in ProductInput) Validate() error {
	return validateProduct(in)
}

func validateProduct(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Description) == "" {
		return shared.NewDomainError("INVALID_PRODUCT", "Product name and description are required")
	}
	if len(strings.TrimSpace(in.Name)) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT", "Product name cannot exceed 200 characters")
	}
	if !in.Price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be greater than 0")
	}
	if in.CategoryID == nil || *in.CategoryID == uuid.Nil {
		return shared.NewDomainError("CATEGORY_REQUIRED", "Product category is required")
	}
	return nil
}

package storefront

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Category groups products of a store
type Category struct {
	shared.TenantEntity
	Name        string
	Description string
}

// NewCategory creates a category for the store
func NewCategory(storeID uuid.UUID, name, description string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	return &Category{
		TenantEntity: shared.NewTenantEntity(storeID),
		Name:         strings.TrimSpace(name),
		Description:  strings.TrimSpace(description),
	}, nil
}

// Update renames the category and replaces its description
func (c *Category) Update(name, description string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.Description = strings.TrimSpace(description)
	c.UpdatedAt = time.Now()
	return nil
}

func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name is required")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}

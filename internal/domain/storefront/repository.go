package storefront

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// StoreRepository defines the interface for store persistence
type StoreRepository interface {
	// FindByID finds a store by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)

	// FindByOwner finds the store owned by ownerID
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*Store, error)

	// FindByIDForOwner finds a store only if ownerID owns it
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Store, error)

	// Save creates or updates a store
	Save(ctx context.Context, store *Store) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByIDForTenant finds a category by ID within a store
	FindByIDForTenant(ctx context.Context, storeID, id uuid.UUID) (*Category, error)

	// FindAllForTenant lists the categories of a store ordered by name
	FindAllForTenant(ctx context.Context, storeID uuid.UUID) ([]Category, error)

	// ExistsByName checks for a category with the same name (case-insensitive)
	ExistsByName(ctx context.Context, storeID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// DeleteForTenant deletes a category and detaches its products in one transaction.
	// It returns the number of detached products.
	DeleteForTenant(ctx context.Context, storeID, id uuid.UUID) (int64, error)

	// CountForTenant counts the categories of a store
	CountForTenant(ctx context.Context, storeID uuid.UUID) (int64, error)
}

// ProductFilter narrows a product listing
type ProductFilter struct {
	shared.Filter
	CategoryID *uuid.UUID
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByIDForTenant finds a product by ID within a store
	FindByIDForTenant(ctx context.Context, storeID, id uuid.UUID) (*Product, error)

	// FindAllForTenant lists products newest first
	FindAllForTenant(ctx context.Context, storeID uuid.UUID, filter ProductFilter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// DeleteForTenant deletes a product within a store
	DeleteForTenant(ctx context.Context, storeID, id uuid.UUID) error

	// CountForTenant counts the products of a store
	CountForTenant(ctx context.Context, storeID uuid.UUID) (int64, error)

	// CountByCategory counts the products of a category
	CountByCategory(ctx context.Context, storeID, categoryID uuid.UUID) (int64, error)
}

// PromotionRepository defines the interface for promotion persistence
type PromotionRepository interface {
	// FindByIDForTenant finds a promotion by ID within a store
	FindByIDForTenant(ctx context.Context, storeID, id uuid.UUID) (*Promotion, error)

	// FindAllForTenant lists promotions newest first, optionally only active ones
	FindAllForTenant(ctx context.Context, storeID uuid.UUID, activeOnly bool) ([]Promotion, error)

	// Save creates or updates a promotion
	Save(ctx context.Context, promotion *Promotion) error

	// DeleteForTenant deletes a promotion within a store
	DeleteForTenant(ctx context.Context, storeID, id uuid.UUID) error

	// CountActive counts the active promotions of a store
	CountActive(ctx context.Context, storeID uuid.UUID) (int64, error)
}

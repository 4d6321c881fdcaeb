package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID finds a store by its ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*storefront.Store, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByOwner finds the store owned by ownerID
func (r *GormStoreRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*storefront.Store, error) {
	return r.first(ctx, "owner_id = ?", ownerID)
}

// FindByIDForOwner finds a store only if ownerID owns it
func (r *GormStoreRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*storefront.Store, error) {
	return r.first(ctx, "id = ? AND owner_id = ?", id, ownerID)
}

func (r *GormStoreRepository) first(ctx context.Context, query string, args ...any) (*storefront.Store, error) {
	var model models.StoreModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storefront.ErrStoreNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a store
func (r *GormStoreRepository) Save(ctx context.Context, store *storefront.Store) error {
	return r.db.WithContext(ctx).Save(models.StoreModelFromDomain(store)).Error
}

// Ensure GormStoreRepository implements StoreRepository
var _ storefront.StoreRepository = (*GormStoreRepository)(nil)

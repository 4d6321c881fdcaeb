package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByIDForTenant finds a category by ID within a store
func (r *GormCategoryRepository) FindByIDForTenant(ctx context.Context, storeID, id uuid.UUID) (*storefront.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).
		Scopes(StoreScope(storeID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists the categories of a store ordered by name
func (r *GormCategoryRepository) FindAllForTenant(ctx context.Context, storeID uuid.UUID) ([]storefront.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).
		Scopes(StoreScope(storeID)).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	categories := make([]storefront.Category, len(rows))
	for i := range rows {
		categories[i] = *rows[i].ToDomain()
	}
	return categories, nil
}

// ExistsByName checks for a category with the same name (case-insensitive)
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, storeID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Scopes(StoreScope(storeID)).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *storefront.Category) error {
	return r.db.WithContext(ctx).Save(models.CategoryModelFromDomain(category)).Error
}

// DeleteForTenant detaches the category's products and deletes the category
// in one transaction. It returns the number of detached products.
func (r *GormCategoryRepository) DeleteForTenant(ctx context.Context, storeID, id uuid.UUID) (int64, error) {
	var detached int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ProductModel{}).
			Scopes(StoreScope(storeID)).
			Where("category_id = ?", id).
			Update("category_id", nil)
		if result.Error != nil {
			return result.Error
		}
		detached = result.RowsAffected

		result = tx.Scopes(StoreScope(storeID)).
			Where("id = ?", id).
			Delete(&models.CategoryModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return detached, nil
}

// CountForTenant counts the categories of a store
func (r *GormCategoryRepository) CountForTenant(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Scopes(StoreScope(storeID)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ storefront.CategoryRepository = (*GormCategoryRepository)(nil)

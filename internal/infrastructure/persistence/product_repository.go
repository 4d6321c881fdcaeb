package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForTenant finds a product by ID within a store
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, storeID, id uuid.UUID) (*storefront.Product, error) {
	var model models.ProductModel
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

// FindAllForTenant lists the products of a store, newest first unless the
// filter names another sort field. A zero PageSize returns every match.
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, storeID uuid.UUID, filter storefront.ProductFilter) ([]storefront.Product, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Scopes(StoreScope(storeID))

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	query = query.Order(ProductSortColumns.OrderBy(filter.OrderBy, filter.OrderDir))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.ProductModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	products := make([]storefront.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *storefront.Product) error {
	return r.db.WithContext(ctx).Save(models.ProductModelFromDomain(product)).Error
}

// DeleteForTenant deletes a product within a store
func (r *GormProductRepository) DeleteForTenant(ctx context.Context, storeID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(StoreScope(storeID)).
		Where("id = ?", id).
		Delete(&models.ProductModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts the products of a store
func (r *GormProductRepository) CountForTenant(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Scopes(StoreScope(storeID)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCategory counts the products of a category
func (r *GormProductRepository) CountByCategory(ctx context.Context, storeID, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Scopes(StoreScope(storeID)).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormProductRepository implements ProductRepository
var _ storefront.ProductRepository = (*GormProductRepository)(nil)

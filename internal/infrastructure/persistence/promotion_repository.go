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

// GormPromotionRepository implements PromotionRepository using GORM
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewGormPromotionRepository creates a new GormPromotionRepository
func NewGormPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// FindByIDForTenant finds a promotion by ID within a store
func (r *GormPromotionRepository) FindByIDForTenant(ctx context.Context, storeID, id uuid.UUID) (*storefront.Promotion, error) {
	var model models.PromotionModel
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

// FindAllForTenant lists promotions newest first, optionally only active ones
func (r *GormPromotionRepository) FindAllForTenant(ctx context.Context, storeID uuid.UUID, activeOnly bool) ([]storefront.Promotion, error) {
	query := r.db.WithContext(ctx).Scopes(StoreScope(storeID))
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var rows []models.PromotionModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	promotions := make([]storefront.Promotion, len(rows))
	for i := range rows {
		promotions[i] = *rows[i].ToDomain()
	}
	return promotions, nil
}

// Save creates or updates a promotion
func (r *GormPromotionRepository) Save(ctx context.Context, promotion *storefront.Promotion) error {
	return r.db.WithContext(ctx).Save(models.PromotionModelFromDomain(promotion)).Error
}

// DeleteForTenant deletes a promotion within a store
func (r *GormPromotionRepository) DeleteForTenant(ctx context.Context, storeID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(StoreScope(storeID)).
		Where("id = ?", id).
		Delete(&models.PromotionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountActive counts the active promotions of a store
func (r *GormPromotionRepository) CountActive(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PromotionModel{}).
		Scopes(StoreScope(storeID)).
		Where("active = ?", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormPromotionRepository implements PromotionRepository
var _ storefront.PromotionRepository = (*GormPromotionRepository)(nil)

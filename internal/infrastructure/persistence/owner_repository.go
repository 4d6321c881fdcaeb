package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOwnerRepository implements OwnerRepository using GORM
type GormOwnerRepository struct {
	db *gorm.DB
}

// NewGormOwnerRepository creates a new GormOwnerRepository
func NewGormOwnerRepository(db *gorm.DB) *GormOwnerRepository {
	return &GormOwnerRepository{db: db}
}

// FindByID finds an owner by ID
func (r *GormOwnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Owner, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByEmail finds an owner by email, ignoring case
func (r *GormOwnerRepository) FindByEmail(ctx context.Context, email string) (*identity.Owner, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *GormOwnerRepository) first(ctx context.Context, query string, args ...any) (*identity.Owner, error) {
	var model models.OwnerModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByEmail checks whether the email is taken
func (r *GormOwnerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OwnerModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an owner
func (r *GormOwnerRepository) Save(ctx context.Context, owner *identity.Owner) error {
	return r.db.WithContext(ctx).Save(models.OwnerModelFromDomain(owner)).Error
}

// GormRegistrar creates an owner together with their store
type GormRegistrar struct {
	db *gorm.DB
}

// NewGormRegistrar creates a new GormRegistrar
func NewGormRegistrar(db *gorm.DB) *GormRegistrar {
	return &GormRegistrar{db: db}
}

// Register saves the owner and the store in one transaction. A taken email
// or owner surfaces as shared.ErrAlreadyExists.
func (r *GormRegistrar) Register(ctx context.Context, owner *identity.Owner, store *storefront.Store) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := NewGormOwnerRepository(tx).Save(ctx, owner); err != nil {
			return err
		}
		return NewGormStoreRepository(tx).Save(ctx, store)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// Ensure the GORM types implement their domain interfaces
var (
	_ identity.OwnerRepository = (*GormOwnerRepository)(nil)
	_ identity.Registrar       = (*GormRegistrar)(nil)
)

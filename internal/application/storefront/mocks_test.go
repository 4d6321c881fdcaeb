package storefront

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/stretchr/testify/mock"
)

// MockStoreRepository is a mock implementation of StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*storefront.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.Store), args.Error(1)
}

func (m *MockStoreRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*storefront.Store, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.Store), args.Error(1)
}

func (m *MockStoreRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*storefront.Store, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.Store), args.Error(1)
}

func (m *MockStoreRepository) Save(ctx context.Context, store *storefront.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByIDForTenant(ctx context.Context, storeID, id uuid.UUID) (*storefront.Category, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAllForTenant(ctx context.Context, storeID uuid.UUID) ([]storefront.Category, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]storefront.Category), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByName(ctx context.Context, storeID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, storeID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *storefront.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteForTenant(ctx context.Context, storeID, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, storeID, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) CountForTenant(ctx context.Context, storeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, storeID, id uuid.UUID) (*storefront.Product, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, storeID uuid.UUID, filter storefront.ProductFilter) ([]storefront.Product, error) {
	args := m.Called(ctx, storeID, filter)
	return args.Get(0).([]storefront.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *storefront.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteForTenant(ctx context.Context, storeID, id uuid.UUID) error {
	args := m.Called(ctx, storeID, id)
	return args.Error(0)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, storeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountByCategory(ctx context.Context, storeID, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, storeID, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPromotionRepository is a mock implementation of PromotionRepository
type MockPromotionRepository struct {
	mock.Mock
}

func (m *MockPromotionRepository) FindByIDForTenant(ctx context.Context, storeID, id uuid.UUID) (*storefront.Promotion, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) FindAllForTenant(ctx context.Context, storeID uuid.UUID, activeOnly bool) ([]storefront.Promotion, error) {
	args := m.Called(ctx, storeID, activeOnly)
	return args.Get(0).([]storefront.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) Save(ctx context.Context, promotion *storefront.Promotion) error {
	args := m.Called(ctx, promotion)
	return args.Error(0)
}

func (m *MockPromotionRepository) DeleteForTenant(ctx context.Context, storeID, id uuid.UUID) error {
	args := m.Called(ctx, storeID, id)
	return args.Error(0)
}

func (m *MockPromotionRepository) CountActive(ctx context.Context, storeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(int64), args.Error(1)
}

// MockImageStorage is a mock implementation of ImageStorage
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockImageStorage) Delete(ctx context.Context, imageURL string) error {
	args := m.Called(ctx, imageURL)
	return args.Error(0)
}

var fixedNow = time.UnixMilli(1700000000000)

func newTestUploader(storage ImageStorage) *ImageUploader {
	u := NewImageUploader(storage, 0)
	u.now = func() time.Time { return fixedNow }
	return u
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func pngUpload(name string) *ImageUpload {
	return &ImageUpload{Filename: name, ContentType: "image/png", Data: pngBytes}
}

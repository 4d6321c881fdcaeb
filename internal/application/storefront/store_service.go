package storefront

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"go.uber.org/zap"
)

// StoreService handles the store profile of the signed-in owner
type StoreService struct {
	storeRepo storefront.StoreRepository
	images    *ImageUploader
	logger    *zap.Logger
}

// NewStoreService creates a new StoreService
func NewStoreService(storeRepo storefront.StoreRepository, images *ImageUploader, logger *zap.Logger) *StoreService {
	return &StoreService{
		storeRepo: storeRepo,
		images:    images,
		logger:    logger,
	}
}

// VerifyOwnership returns the store only if ownerID owns it
func (s *StoreService) VerifyOwnership(ctx context.Context, ownerID, storeID uuid.UUID) (*storefront.Store, error) {
	store, err := s.storeRepo.FindByIDForOwner(ctx, ownerID, storeID)
	if err != nil {
		if errors.Is(err, storefront.ErrStoreNotFound) {
			return nil, shared.ErrForbidden
		}
		return nil, err
	}
	return store, nil
}

// Get returns the store profile of the owner
func (s *StoreService) Get(ctx context.Context, ownerID, storeID uuid.UUID) (*StoreResponse, error) {
	store, err := s.VerifyOwnership(ctx, ownerID, storeID)
	if err != nil {
		return nil, err
	}
	resp := ToStoreResponse(store)
	return &resp, nil
}

// Update replaces the contact details and theme of the store
func (s *StoreService) Update(ctx context.Context, ownerID, storeID uuid.UUID, req UpdateStoreRequest) (*StoreResponse, error) {
	store, err := s.VerifyOwnership(ctx, ownerID, storeID)
	if err != nil {
		return nil, err
	}

	if err := store.UpdateProfile(req.Name, req.Whatsapp, req.Address, req.MapLink); err != nil {
		return nil, err
	}
	if err := store.SetColors(req.PrimaryColor, req.SecondaryColor); err != nil {
		return nil, err
	}

	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}

	s.logger.Info("Store profile updated", zap.String("store_id", storeID.String()))
	resp := ToStoreResponse(store)
	return &resp, nil
}

// UploadLogo stores a new logo and removes the previous one
func (s *StoreService) UploadLogo(ctx context.Context, ownerID, storeID uuid.UUID, img *ImageUpload) (*StoreResponse, error) {
	store, err := s.VerifyOwnership(ctx, ownerID, storeID)
	if err != nil {
		return nil, err
	}

	logoURL, err := s.images.Upload(ctx, storeID, ImageKindLogo, img)
	if err != nil {
		return nil, err
	}

	previous := store.LogoURL
	store.SetLogo(logoURL)
	if err := s.storeRepo.Save(ctx, store); err != nil {
		s.discard(ctx, logoURL)
		return nil, err
	}
	s.discard(ctx, previous)

	resp := ToStoreResponse(store)
	return &resp, nil
}

func (s *StoreService) discard(ctx context.Context, imageURL string) {
	if err := s.images.Discard(ctx, imageURL); err != nil {
		s.logger.Warn("Failed to delete image", zap.String("url", imageURL), zap.Error(err))
	}
}

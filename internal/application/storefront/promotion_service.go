package storefront

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/storefront"
	"go.uber.org/zap"
)

// PromotionService handles promotion-related business operations
type PromotionService struct {
	promotionRepo storefront.PromotionRepository
	images        *ImageUploader
	logger        *zap.Logger
}

// NewPromotionService creates a new PromotionService
func NewPromotionService(promotionRepo storefront.PromotionRepository, images *ImageUploader, logger *zap.Logger) *PromotionService {
	return &PromotionService{
		promotionRepo: promotionRepo,
		images:        images,
		logger:        logger,
	}
}

// List returns every promotion of the store, active or not, newest first
func (s *PromotionService) List(ctx context.Context, storeID uuid.UUID) ([]PromotionResponse, error) {
	promotions, err := s.promotionRepo.FindAllForTenant(ctx, storeID, false)
	if err != nil {
		return nil, err
	}
	return ToPromotionResponses(promotions), nil
}

// GetByID retrieves a promotion by ID
func (s *PromotionService) GetByID(ctx context.Context, storeID, id uuid.UUID) (*PromotionResponse, error) {
	promotion, err := s.promotionRepo.FindByIDForTenant(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPromotionResponse(promotion)
	return &resp, nil
}

// Create creates a promotion with an optional image
func (s *PromotionService) Create(ctx context.Context, storeID uuid.UUID, req PromotionRequest, img *ImageUpload) (*PromotionResponse, error) {
	input := toPromotionInput(req)
	// validate before uploading so a bad form leaves no orphan image
	if _, err := storefront.NewPromotion(storeID, input, ""); err != nil {
		return nil, err
	}

	imageURL, err := s.uploadOptional(ctx, storeID, img)
	if err != nil {
		return nil, err
	}

	promotion, err := storefront.NewPromotion(storeID, input, imageURL)
	if err != nil {
		s.discard(ctx, imageURL)
		return nil, err
	}
	if err := s.promotionRepo.Save(ctx, promotion); err != nil {
		s.discard(ctx, imageURL)
		return nil, err
	}

	resp := ToPromotionResponse(promotion)
	return &resp, nil
}

// Update replaces the promotion fields. Without a new image the current one is kept.
func (s *PromotionService) Update(ctx context.Context, storeID, id uuid.UUID, req PromotionRequest, img *ImageUpload) (*PromotionResponse, error) {
	promotion, err := s.promotionRepo.FindByIDForTenant(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.uploadOptional(ctx, storeID, img)
	if err != nil {
		return nil, err
	}

	previous := promotion.ImageURL
	if err := promotion.Update(toPromotionInput(req), imageURL); err != nil {
		s.discard(ctx, imageURL)
		return nil, err
	}
	if err := s.promotionRepo.Save(ctx, promotion); err != nil {
		s.discard(ctx, imageURL)
		return nil, err
	}
	if imageURL != "" && previous != imageURL {
		s.discard(ctx, previous)
	}

	resp := ToPromotionResponse(promotion)
	return &resp, nil
}

// SetActive shows or hides a promotion on the storefront
func (s *PromotionService) SetActive(ctx context.Context, storeID, id uuid.UUID, active bool) (*PromotionResponse, error) {
	promotion, err := s.promotionRepo.FindByIDForTenant(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	promotion.SetActive(active)
	if err := s.promotionRepo.Save(ctx, promotion); err != nil {
		return nil, err
	}

	resp := ToPromotionResponse(promotion)
	return &resp, nil
}

// Toggle flips the active flag of a promotion
func (s *PromotionService) Toggle(ctx context.Context, storeID, id uuid.UUID) (*PromotionResponse, error) {
	promotion, err := s.promotionRepo.FindByIDForTenant(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	promotion.SetActive(!promotion.Active)
	if err := s.promotionRepo.Save(ctx, promotion); err != nil {
		return nil, err
	}

	resp := ToPromotionResponse(promotion)
	return &resp, nil
}

// Delete removes a promotion and its image
func (s *PromotionService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	promotion, err := s.promotionRepo.FindByIDForTenant(ctx, storeID, id)
	if err != nil {
		return err
	}
	if err := s.promotionRepo.DeleteForTenant(ctx, storeID, id); err != nil {
		return err
	}
	s.discard(ctx, promotion.ImageURL)
	return nil
}

func (s *PromotionService) uploadOptional(ctx context.Context, storeID uuid.UUID, img *ImageUpload) (string, error) {
	if img == nil {
		return "", nil
	}
	return s.images.Upload(ctx, storeID, ImageKindPromotion, img)
}

func (s *PromotionService) discard(ctx context.Context, imageURL string) {
	if err := s.images.Discard(ctx, imageURL); err != nil {
		s.logger.Warn("Failed to delete image", zap.String("url", imageURL), zap.Error(err))
	}
}

func toPromotionInput(req PromotionRequest) storefront.PromotionInput {
	return storefront.PromotionInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        storefront.PromotionType(req.Type),
		Active:      req.Active,
	}
}

package storefront

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// PromotionType classifies a promotion banner
type PromotionType string

const (
	PromotionTypeDiscount PromotionType = "discount"
	PromotionTypeShipping PromotionType = "shipping"
	PromotionTypeOffer    PromotionType = "offer"
)

// IsValid checks if the promotion type is known
func (t PromotionType) IsValid() bool {
	switch t {
	case PromotionTypeDiscount, PromotionTypeShipping, PromotionTypeOffer:
		return true
	}
	return false
}

// Promotion is a banner shown on the storefront while active
type Promotion struct {
	shared.TenantEntity
	Title       string
	Description string
	Type        PromotionType
	ImageURL    string
	Active      bool
}

// PromotionInput carries the editable fields of a promotion.
// A nil Active means active.
type PromotionInput struct {
	Title       string
	Description string
	Type        PromotionType
	Active      *bool
}

// NewPromotion creates a promotion, active and of type discount unless told otherwise
func NewPromotion(storeID uuid.UUID, in PromotionInput, imageURL string) (*Promotion, error) {
	p := &Promotion{TenantEntity: shared.NewTenantEntity(storeID)}
	if err := p.apply(in, imageURL); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the promotion fields. An empty imageURL keeps the current image.
func (p *Promotion) Update(in PromotionInput, imageURL string) error {
	if err := p.apply(in, imageURL); err != nil {
		return err
	}
	p.UpdatedAt = time.Now()
	return nil
}

// SetActive turns the promotion on or off
func (p *Promotion) SetActive(active bool) {
	p.Active = active
	p.UpdatedAt = time.Now()
}

func (p *Promotion) apply(in PromotionInput, imageURL string) error {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return shared.NewDomainError("INVALID_PROMOTION", "Promotion title and description are required")
	}
	promoType := in.Type
	if promoType == "" {
		promoType = PromotionTypeDiscount
	}
	if !promoType.IsValid() {
		return shared.NewDomainError("INVALID_PROMOTION_TYPE", "Promotion type must be discount, shipping or offer")
	}

	p.Title = title
	p.Description = description
	p.Type = promoType
	p.Active = in.Active == nil || *in.Active
	if imageURL != "" {
		p.ImageURL = imageURL
	}
	return nil
}

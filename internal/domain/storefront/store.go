// Package storefront models a store (tenant) and its catalog: categories,
// products and promotions.
package storefront

import (
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// Default store colors
const (
	DefaultPrimaryColor   = "#001f3f"
	DefaultSecondaryColor = "#0074D9"
)

// ErrStoreNotFound is returned when no store matches the lookup
var ErrStoreNotFound = shared.NewDomainError("STORE_NOT_FOUND", "Store not found")

// Colors holds the storefront theme
type Colors struct {
	Primary   string
	Secondary string
}

// DefaultColors returns the theme assigned to new stores
func DefaultColors() Colors {
	return Colors{Primary: DefaultPrimaryColor, Secondary: DefaultSecondaryColor}
}

// Store is one tenant: a shop owned by exactly one owner
type Store struct {
	shared.BaseEntity
	OwnerID  uuid.UUID
	Name     string
	Email    string
	Whatsapp string
	Address  string
	MapLink  string
	LogoURL  string
	Colors   Colors
}

// NewStore creates a store for the owner with the default theme
func NewStore(ownerID uuid.UUID, name, email string) (*Store, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Store owner is required")
	}
	if err := validateStoreName(name); err != nil {
		return nil, err
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
		}
	}

	return &Store{
		BaseEntity: shared.NewBaseEntity(),
		OwnerID:    ownerID,
		Name:       strings.TrimSpace(name),
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Colors:     DefaultColors(),
	}, nil
}

// UpdateProfile replaces the contact details of the store
func (s *Store) UpdateProfile(name, whatsapp, address, mapLink string) error {
	if err := validateStoreName(name); err != nil {
		return err
	}
	whatsapp = strings.TrimSpace(whatsapp)
	if whatsapp != "" && cart.SanitizePhone(whatsapp) == "" {
		return shared.NewDomainError("INVALID_WHATSAPP", "WhatsApp number must contain digits")
	}
	mapLink = strings.TrimSpace(mapLink)
	if mapLink != "" {
		u, err := url.Parse(mapLink)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return shared.NewDomainError("INVALID_MAP_LINK", "Map link must be an http(s) URL")
		}
	}

	s.Name = strings.TrimSpace(name)
	s.Whatsapp = whatsapp
	s.Address = strings.TrimSpace(address)
	s.MapLink = mapLink
	s.UpdatedAt = time.Now()
	return nil
}

// SetColors updates the theme. Empty values keep the current color.
func (s *Store) SetColors(primary, secondary string) error {
	if primary != "" {
		if !IsHexColor(primary) {
			return shared.NewDomainError("INVALID_COLOR", "Primary color must be #RRGGBB")
		}
		s.Colors.Primary = primary
	}
	if secondary != "" {
		if !IsHexColor(secondary) {
			return shared.NewDomainError("INVALID_COLOR", "Secondary color must be #RRGGBB")
		}
		s.Colors.Secondary = secondary
	}
	s.UpdatedAt = time.Now()
	return nil
}

// SetLogo records the public URL of the uploaded logo
func (s *Store) SetLogo(logoURL string) {
	s.LogoURL = logoURL
	s.UpdatedAt = time.Now()
}

// IsOwnedBy reports whether ownerID owns the store
func (s *Store) IsOwnedBy(ownerID uuid.UUID) bool {
	return s.OwnerID == ownerID
}

// ContactInfo returns the data checkout needs to reach the store
func (s *Store) ContactInfo() cart.ContactInfo {
	return cart.ContactInfo{Name: s.Name, WhatsappNumber: s.Whatsapp}
}

// LightPrimary is the primary color lightened for backgrounds
func (s *Store) LightPrimary() string {
	light, err := LightenColor(s.Colors.Primary, 20)
	if err != nil {
		return s.Colors.Primary
	}
	return light
}

func validateStoreName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot exceed 200 characters")
	}
	return nil
}

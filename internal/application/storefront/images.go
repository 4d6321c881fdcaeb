package storefront

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// DefaultMaxImageSize is the upload limit for a single image (5 MiB)
const DefaultMaxImageSize int64 = 5 << 20

// ImageKind is the folder an image is stored under
type ImageKind string

const (
	ImageKindLogo      ImageKind = "logo"
	ImageKindProduct   ImageKind = "products"
	ImageKindPromotion ImageKind = "promotions"
)

// Image errors
var (
	ErrInvalidImage  = shared.NewDomainError("INVALID_IMAGE", "Only JPEG and PNG images are allowed")
	ErrImageTooLarge = shared.NewDomainError("IMAGE_TOO_LARGE", "Image exceeds the maximum allowed size")
	ErrImageRequired = shared.NewDomainError("IMAGE_REQUIRED", "An image is required")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ImageStorage uploads images and returns their public URL
type ImageStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, imageURL string) error
}

// ImageUpload is an image file received from a form
type ImageUpload struct {
	Filename    string
	ContentType string // as declared by the client
	Data        []byte
}

// ValidateImage checks size and type of an upload and returns the content
// type sniffed from its bytes. Both the declared and the detected type must
// be JPEG or PNG.
func ValidateImage(img *ImageUpload, maxSize int64) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", ErrImageRequired
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxImageSize
	}
	if int64(len(img.Data)) > maxSize {
		return "", shared.NewDomainError(ErrImageTooLarge.Code,
			fmt.Sprintf("Image exceeds the maximum size of %d MB", maxSize>>20))
	}

	declared := strings.ToLower(strings.TrimSpace(strings.Split(img.ContentType, ";")[0]))
	switch declared {
	case "image/jpg":
		declared = "image/jpeg"
	case "application/octet-stream":
		// clients that do not sniff send this, trust the content instead
		declared = ""
	}
	if declared != "" && !allowedImageTypes[declared] {
		return "", ErrInvalidImage
	}

	detected := http.DetectContentType(img.Data)
	if !allowedImageTypes[detected] {
		return "", ErrInvalidImage
	}
	return detected, nil
}

// BuildImageKey returns stores/<storeId>/<kind>/<unixMillis>_<filename>
func BuildImageKey(storeID uuid.UUID, kind ImageKind, filename string, at time.Time) string {
	return fmt.Sprintf("stores/%s/%s/%d_%s", storeID, kind, at.UnixMilli(), sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" || out == "_" {
		return "image"
	}
	return out
}

// ImageUploader validates images and stores them under per-store keys
type ImageUploader struct {
	storage ImageStorage
	maxSize int64
	now     func() time.Time
}

// NewImageUploader creates an ImageUploader. A non-positive maxSize means
// DefaultMaxImageSize.
func NewImageUploader(storage ImageStorage, maxSize int64) *ImageUploader {
	if maxSize <= 0 {
		maxSize = DefaultMaxImageSize
	}
	return &ImageUploader{storage: storage, maxSize: maxSize, now: time.Now}
}

// Upload validates img and stores it, returning the public URL
func (u *ImageUploader) Upload(ctx context.Context, storeID uuid.UUID, kind ImageKind, img *ImageUpload) (string, error) {
	contentType, err := ValidateImage(img, u.maxSize)
	if err != nil {
		return "", err
	}
	key := BuildImageKey(storeID, kind, img.Filename, u.now())
	imageURL, err := u.storage.Upload(ctx, key, img.Data, contentType)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return imageURL, nil
}

// Discard deletes a previously uploaded image. Failures are returned but
// callers usually only log them.
func (u *ImageUploader) Discard(ctx context.Context, imageURL string) error {
	if imageURL == "" {
		return nil
	}
	if err := u.storage.Delete(ctx, imageURL); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

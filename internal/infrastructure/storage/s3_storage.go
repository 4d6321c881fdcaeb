// Package storage provides object storage for store logos and catalog images.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	storefrontapp "github.com/storefront/backend/internal/application/storefront"
	infraconfig "github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure S3ImageStorage implements ImageStorage
var _ storefrontapp.ImageStorage = (*S3ImageStorage)(nil)

// S3ImageStorage stores images in an S3-compatible bucket (AWS S3, MinIO,
// RustFS) and hands out public URLs for them.
type S3ImageStorage struct {
	client        *s3.Client
	bucket        string
	publicURLBase string
	logger        *zap.Logger
}

// S3ImageStorageOption is a functional option for configuring S3ImageStorage
type S3ImageStorageOption func(*S3ImageStorage)

// WithLogger sets a custom logger for S3ImageStorage
func WithLogger(logger *zap.Logger) S3ImageStorageOption {
	return func(s *S3ImageStorage) {
		s.logger = logger
	}
}

// NewS3ImageStorage creates a new S3ImageStorage from configuration
func NewS3ImageStorage(cfg *infraconfig.StorageConfig, opts ...S3ImageStorageOption) (*S3ImageStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	publicBase := strings.TrimRight(cfg.PublicURLBase, "/")
	if publicBase == "" {
		publicBase = defaultPublicBase(endpoint, region, cfg.Bucket, cfg.ForcePathStyle)
	}

	s := &S3ImageStorage{
		client:        client,
		bucket:        cfg.Bucket,
		publicURLBase: publicBase,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// normalizeEndpoint adds a scheme to bare host:port endpoints. An empty
// endpoint means AWS itself.
func normalizeEndpoint(endpoint string, useSSL bool) (string, error) {
	if endpoint == "" {
		return "", nil
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if useSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return "", fmt.Errorf("invalid storage endpoint: %w", err)
	}
	return strings.TrimRight(endpoint, "/"), nil
}

func defaultPublicBase(endpoint, region, bucket string, pathStyle bool) string {
	if endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	if pathStyle {
		return endpoint + "/" + bucket
	}
	u, _ := url.Parse(endpoint)
	return u.Scheme + "://" + bucket + "." + u.Host
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup to ensure the bucket is ready.
func (s *S3ImageStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Upload stores data under key and returns its public URL
func (s *S3ImageStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.Debug("Image uploaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return s.URLFor(key), nil
}

// Delete removes the object behind a URL previously returned by Upload.
// URLs from other hosts are ignored.
func (s *S3ImageStorage) Delete(ctx context.Context, imageURL string) error {
	key, ok := s.KeyFor(imageURL)
	if !ok {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// URLFor returns the public URL of key
func (s *S3ImageStorage) URLFor(key string) string {
	return s.publicURLBase + "/" + key
}

// KeyFor recovers the storage key from a public URL
func (s *S3ImageStorage) KeyFor(imageURL string) (string, bool) {
	return keyFromURL(s.publicURLBase, imageURL)
}

// GetBucket returns the bucket name
func (s *S3ImageStorage) GetBucket() string {
	return s.bucket
}

func keyFromURL(base, imageURL string) (string, bool) {
	prefix := base + "/"
	if !strings.HasPrefix(imageURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(imageURL, prefix)
	return key, key != ""
}

package storage

import (
	"context"
	"errors"
	"strings"
	"sync"

	storefrontapp "github.com/storefront/backend/internal/application/storefront"
)

// MemoryImageStorage keeps uploaded images in process memory. The server
// uses it when no bucket is configured and serves the bytes itself.
type MemoryImageStorage struct {
	// BaseURL prefixes returned image URLs, e.g. http://localhost:8080/media
	BaseURL string

	mu      sync.RWMutex
	objects map[string]Object
}

// Object is one stored image
type Object struct {
	Data        []byte
	ContentType string
}

// NewMemoryImageStorage creates an empty in-memory image store
func NewMemoryImageStorage(baseURL string) *MemoryImageStorage {
	return &MemoryImageStorage{
		BaseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]Object),
	}
}

// Ensure MemoryImageStorage implements ImageStorage
var _ storefrontapp.ImageStorage = (*MemoryImageStorage)(nil)

// Upload stores a copy of data under key
func (s *MemoryImageStorage) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	s.objects[key] = Object{Data: buf, ContentType: contentType}
	s.mu.Unlock()

	return s.BaseURL + "/" + key, nil
}

// Delete removes the object behind imageURL if it is one of ours
func (s *MemoryImageStorage) Delete(_ context.Context, imageURL string) error {
	key, ok := keyFromURL(s.BaseURL, imageURL)
	if !ok {
		return nil
	}
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Get returns the object stored under key
func (s *MemoryImageStorage) Get(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Len returns the number of stored objects
func (s *MemoryImageStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist revokes JWTs before they expire (logout, password change)
type TokenBlacklist interface {
	// Revoke adds a token's JTI to the blacklist for ttl,
	// normally the token's remaining lifetime
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked checks if a token's JTI is blacklisted
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// RevokeOwnerTokens rejects every token of the owner issued up to now
	RevokeOwnerTokens(ctx context.Context, ownerID string, ttl time.Duration) error

	// IsOwnerTokenRevoked reports whether a token issued at issuedAt predates
	// the owner's last RevokeOwnerTokens call
	IsOwnerTokenRevoked(ctx context.Context, ownerID string, issuedAt time.Time) (bool, error)
}

const defaultBlacklistPrefix = "storefront:token:"

// RedisTokenBlacklist implements TokenBlacklist using Redis
type RedisTokenBlacklist struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisTokenBlacklist creates a token blacklist with an existing Redis client
func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{
		client:    client,
		keyPrefix: defaultBlacklistPrefix,
	}
}

func (b *RedisTokenBlacklist) jtiKey(jti string) string {
	return b.keyPrefix + "jti:" + jti
}

func (b *RedisTokenBlacklist) ownerKey(ownerID string) string {
	return b.keyPrefix + "owner:" + ownerID
}

// Revoke adds a token's JTI to the blacklist
func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// IsRevoked checks if a token's JTI is in the blacklist
func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := b.client.Exists(ctx, b.jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return exists > 0, nil
}

// RevokeOwnerTokens stores the current Unix time as the owner's cut-off
func (b *RedisTokenBlacklist) RevokeOwnerTokens(ctx context.Context, ownerID string, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.ownerKey(ownerID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to invalidate owner tokens: %w", err)
	}
	return nil
}

// IsOwnerTokenRevoked compares issuedAt with the owner's cut-off
func (b *RedisTokenBlacklist) IsOwnerTokenRevoked(ctx context.Context, ownerID string, issuedAt time.Time) (bool, error) {
	raw, err := b.client.Get(ctx, b.ownerKey(ownerID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check owner token invalidation: %w", err)
	}

	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse invalidation timestamp: %w", err)
	}
	return issuedAt.Unix() <= cutoff, nil
}

// InMemoryTokenBlacklist keeps revocations in process memory.
// It does not share state between instances.
type InMemoryTokenBlacklist struct {
	mu      sync.Mutex
	jtis    map[string]time.Time // JTI -> expiration time
	cutoffs map[string]time.Time // ownerID -> invalidation time
}

// NewInMemoryTokenBlacklist creates a new in-memory token blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		jtis:    make(map[string]time.Time),
		cutoffs: make(map[string]time.Time),
	}
}

// Revoke adds a token's JTI to the blacklist
func (b *InMemoryTokenBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.jtis[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked checks if a token's JTI is blacklisted and not expired
func (b *InMemoryTokenBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	expiration, exists := b.jtis[jti]
	if !exists {
		return false, nil
	}
	if time.Now().After(expiration) {
		delete(b.jtis, jti)
		return false, nil
	}
	return true, nil
}

// RevokeOwnerTokens records the owner's cut-off time
func (b *InMemoryTokenBlacklist) RevokeOwnerTokens(_ context.Context, ownerID string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cutoffs[ownerID] = time.Now()
	return nil
}

// IsOwnerTokenRevoked compares issuedAt with the owner's cut-off
func (b *InMemoryTokenBlacklist) IsOwnerTokenRevoked(_ context.Context, ownerID string, issuedAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff, exists := b.cutoffs[ownerID]
	if !exists {
		return false, nil
	}
	return !issuedAt.After(cutoff), nil
}

// Ensure both blacklists implement TokenBlacklist
var (
	_ TokenBlacklist = (*RedisTokenBlacklist)(nil)
	_ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
)

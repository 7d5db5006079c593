package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/licenser/internal/shared/logger"
)

// CachedRelease is the cached form of a product's latest public release.
type CachedRelease struct {
	ID        uint       `json:"id"`
	ProductID uint       `json:"product_id"`
	Version   string     `json:"version"`
	Download  string     `json:"download"`
	Type      string     `json:"type"`
	Changelog string     `json:"changelog"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	// NotFound marks a product confirmed to have no public release.
	NotFound bool `json:"not_found,omitempty"`
}

// ReleaseCache caches the latest public release per product.
type ReleaseCache interface {
	// GetLatest returns nil, nil on a cache miss.
	GetLatest(ctx context.Context, productID uint) (*CachedRelease, error)
	SetLatest(ctx context.Context, productID uint, release *CachedRelease) error
	SetNullMarker(ctx context.Context, productID uint) error
	Invalidate(ctx context.Context, productID uint) error
}

const (
	latestReleaseKeyPrefix = "release:latest:"
	releaseTTLJitter       = 2 * time.Minute
	releaseNullMarkerTTL   = time.Minute
)

// RedisReleaseCache implements ReleaseCache with JSON string values.
type RedisReleaseCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

func NewRedisReleaseCache(client *redis.Client, ttl time.Duration, logger logger.Interface) *RedisReleaseCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisReleaseCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisReleaseCache) key(productID uint) string {
	return fmt.Sprintf("%s%d", latestReleaseKeyPrefix, productID)
}

func (c *RedisReleaseCache) GetLatest(ctx context.Context, productID uint) (*CachedRelease, error) {
	raw, err := c.client.Get(ctx, c.key(productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest release from cache: %w", err)
	}

	var cached CachedRelease
	if err := json.Unmarshal(raw, &cached); err != nil {
		c.logger.Warnw("dropping undecodable release cache entry", "product_id", productID, "error", err)
		_ = c.client.Del(ctx, c.key(productID)).Err()
		return nil, nil
	}
	return &cached, nil
}

func (c *RedisReleaseCache) SetLatest(ctx context.Context, productID uint, release *CachedRelease) error {
	raw, err := json.Marshal(release)
	if err != nil {
		return fmt.Errorf("failed to encode release: %w", err)
	}
	// Jitter keeps entries written together from expiring together.
	ttl := c.ttl + time.Duration(rand.Int64N(int64(releaseTTLJitter)))
	if err := c.client.Set(ctx, c.key(productID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache latest release: %w", err)
	}
	return nil
}

func (c *RedisReleaseCache) SetNullMarker(ctx context.Context, productID uint) error {
	raw, _ := json.Marshal(CachedRelease{ProductID: productID, NotFound: true})
	if err := c.client.Set(ctx, c.key(productID), raw, releaseNullMarkerTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache release null marker: %w", err)
	}
	return nil
}

func (c *RedisReleaseCache) Invalidate(ctx context.Context, productID uint) error {
	if err := c.client.Del(ctx, c.key(productID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate release cache: %w", err)
	}
	return nil
}

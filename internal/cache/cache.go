package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/arolitec/taskboard-api/internal/store"
)

// DefaultTTL is how long a cached listing page lives when it is not
// invalidated by a mutation first.
const DefaultTTL = 5 * time.Minute

// ListingCache caches pages of the all-tasks listing.
// Implementations must treat their backend as optional: a cache failure is
// reported as an error for the caller to log, never as corrupted data.
type ListingCache interface {
	// GetPage returns the page cached under key. The second return value
	// is false on a cache miss.
	GetPage(ctx context.Context, key string) (*store.TaskPage, bool, error)

	// SetPage stores the page under key with the cache's TTL.
	SetPage(ctx context.Context, key string, page *store.TaskPage) error

	// InvalidateListings removes every cached listing page, across all
	// page/limit/status/search combinations. Invalidating an empty
	// namespace is a no-op.
	InvalidateListings(ctx context.Context) error
}

// RedisListingCache implements ListingCache backed by Redis.
type RedisListingCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Ensure RedisListingCache implements the ListingCache interface
var _ ListingCache = (*RedisListingCache)(nil)

// NewRedisListingCache creates a Redis-backed listing cache.
// The client's lifetime is owned by the caller. A zero ttl falls back to
// DefaultTTL. If logger is nil, the default logger is used.
func NewRedisListingCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisListingCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RedisListingCache{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "listing_cache")),
	}
}

// GetPage implements ListingCache.GetPage.
func (c *RedisListingCache) GetPage(ctx context.Context, key string) (*store.TaskPage, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // cache miss
		}
		return nil, false, fmt.Errorf("cache get error: %w", err)
	}

	var page store.TaskPage
	if err := json.Unmarshal(data, &page); err != nil {
		// A corrupt entry is as good as a miss; drop it so the next
		// listing repopulates it.
		c.logger.Warn("dropping undecodable cache entry", "key", key, "error", err)
		if delErr := c.client.Del(ctx, key).Err(); delErr != nil {
			c.logger.Warn("failed to drop cache entry", "key", key, "error", delErr)
		}
		return nil, false, nil
	}

	return &page, true, nil
}

// SetPage implements ListingCache.SetPage.
func (c *RedisListingCache) SetPage(ctx context.Context, key string, page *store.TaskPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}

	return nil
}

// InvalidateListings implements ListingCache.InvalidateListings.
// It walks the listing namespace with SCAN and deletes the keys in
// batches, so a large cache never blocks the server the way KEYS would.
func (c *RedisListingCache) InvalidateListings(ctx context.Context) error {
	var cursor uint64
	var deleted int

	for {
		keys, next, err := c.client.Scan(ctx, cursor, ListingPattern(), 100).Result()
		if err != nil {
			return fmt.Errorf("cache scan error: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache delete error: %w", err)
			}
			deleted += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	if deleted > 0 {
		c.logger.Debug("invalidated cached listing pages", "keys", deleted)
	}
	return nil
}

// Ping checks that the Redis connection is healthy.
func (c *RedisListingCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

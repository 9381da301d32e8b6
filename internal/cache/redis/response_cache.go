package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/polyboard/internal/domain"
)

// ResponseCache implements domain.ResponseCache on plain Redis strings with
// per-entry TTLs. Keys carry the caller's query-mode prefix unchanged, so
// market-keyed and token-keyed holder lookups never collide.
type ResponseCache struct {
	rdb *redis.Client
}

// NewResponseCache creates a ResponseCache backed by the given Client.
func NewResponseCache(c *Client) *ResponseCache {
	return &ResponseCache{rdb: c.Underlying()}
}

// Get returns the cached body for key, or domain.ErrNotFound when the key is
// absent or expired.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, error) {
	body, err := rc.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return body, nil
}

// Set stores body under key with the given TTL. Concurrent writers racing on
// the same key are fine; the entries are identical upstream reads.
func (rc *ResponseCache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	if err := rc.rdb.Set(ctx, key, body, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.ResponseCache = (*ResponseCache)(nil)

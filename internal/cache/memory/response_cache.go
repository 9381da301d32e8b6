// Package memory provides an in-process implementation of the response cache
// for deployments that run without Redis. Entries expire lazily on read;
// duplicate concurrent population of a key resolves to last write wins, which
// is acceptable for idempotent upstream reads.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alanyoungcy/polyboard/internal/domain"
)

type entry struct {
	body      []byte
	expiresAt time.Time
}

// ResponseCache is a TTL map guarded by a RWMutex.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewResponseCache creates an empty in-process cache.
func NewResponseCache() *ResponseCache {
	return &ResponseCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached body for key, or domain.ErrNotFound when the key is
// absent or expired. Expired entries are removed on the way out.
func (rc *ResponseCache) Get(_ context.Context, key string) ([]byte, error) {
	rc.mu.RLock()
	e, ok := rc.entries[key]
	rc.mu.RUnlock()

	if !ok {
		return nil, domain.ErrNotFound
	}
	if rc.now().After(e.expiresAt) {
		rc.mu.Lock()
		delete(rc.entries, key)
		rc.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	return e.body, nil
}

// Set stores body under key for ttl.
func (rc *ResponseCache) Set(_ context.Context, key string, body []byte, ttl time.Duration) error {
	rc.mu.Lock()
	rc.entries[key] = entry{body: body, expiresAt: rc.now().Add(ttl)}
	rc.mu.Unlock()
	return nil
}

// Compile-time interface check.
var _ domain.ResponseCache = (*ResponseCache)(nil)

package domain

import (
	"context"
	"time"
)

// ResponseCache stores raw upstream response bodies keyed by request URL (with
// a query-mode prefix). Implementations must tolerate duplicate concurrent
// population of the same key; reads are idempotent so last write wins.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
}

// RateLimiter provides distributed request counting for the HTTP boundary.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/polyboard/internal/cache/memory"
	"github.com/alanyoungcy/polyboard/internal/cache/redis"
	"github.com/alanyoungcy/polyboard/internal/config"
	"github.com/alanyoungcy/polyboard/internal/domain"
	"github.com/alanyoungcy/polyboard/internal/platform/polymarket"
	"github.com/alanyoungcy/polyboard/internal/ratelimit"
	"github.com/alanyoungcy/polyboard/internal/service"
)

// Dependencies bundles everything the HTTP layer needs. It is constructed by
// Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Aggregator *service.Aggregator

	// RateLimiter is nil when Redis is not configured; the server then skips
	// per-client limiting.
	RateLimiter domain.RateLimiter
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
//
// With redis.addr set, upstream responses are cached in Redis (shared across
// replicas) and per-client rate limiting is enabled; without it, the service
// runs self-contained on an in-process cache.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	var cache domain.ResponseCache
	if cfg.Redis.Addr != "" {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		cache = redis.NewResponseCache(redisClient)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)
	} else {
		logger.InfoContext(ctx, "redis not configured, using in-process cache")
		cache = memory.NewResponseCache()
	}

	client := polymarket.NewClient(polymarket.ClientConfig{
		GammaHost: cfg.Upstream.GammaHost,
		DataHost:  cfg.Upstream.DataHost,
		Timeout:   cfg.Upstream.Timeout.Duration,
	}, cache, ratelimit.DefaultPolicy(), logger)

	deps.Aggregator = service.NewAggregator(client, logger)

	return deps, cleanup, nil
}

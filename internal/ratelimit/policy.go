// Package ratelimit computes safe request pacing and cache lifetimes from the
// rate limits Polymarket publishes for its public APIs. Everything here is
// pure computation over declared constants so callers can reason about (and
// tests can override) the policy without touching the network.
package ratelimit

import (
	"math"
	"time"
)

// Budget is a documented upstream request allowance: at most MaxRequests
// calls per Window.
type Budget struct {
	Name        string
	MaxRequests int
	Window      time.Duration
}

// EndpointKind names an upstream endpoint class for TTL selection.
type EndpointKind string

const (
	KindTags    EndpointKind = "tags"
	KindMarkets EndpointKind = "markets"
	KindHolders EndpointKind = "holders"
)

// Published Polymarket budgets (docs.polymarket.com rate-limit page).
var (
	GammaGeneral   = Budget{Name: "gamma general", MaxRequests: 750, Window: 10 * time.Second}
	GammaMarkets   = Budget{Name: "gamma /markets", MaxRequests: 125, Window: 10 * time.Second}
	GammaTags      = Budget{Name: "gamma /tags", MaxRequests: 100, Window: 10 * time.Second}
	DataAPIGeneral = Budget{Name: "data-api general", MaxRequests: 200, Window: 10 * time.Second}
)

// Policy is an immutable table of budgets and TTLs. It is injected into the
// upstream client at construction so tests can substitute their own limits.
type Policy struct {
	budgets     map[EndpointKind]Budget
	ttls        map[EndpointKind]time.Duration
	fallbackTTL time.Duration
}

// DefaultPolicy returns the policy matching Polymarket's documented limits.
// Tag taxonomies are near-static, market listings move on the order of
// minutes, and holder positions shift fast enough to need fresher reads.
func DefaultPolicy() Policy {
	return Policy{
		budgets: map[EndpointKind]Budget{
			KindTags:    GammaTags,
			KindMarkets: GammaMarkets,
			KindHolders: DataAPIGeneral,
		},
		ttls: map[EndpointKind]time.Duration{
			KindTags:    time.Hour,
			KindMarkets: 5 * time.Minute,
			KindHolders: time.Minute,
		},
		fallbackTTL: 5 * time.Minute,
	}
}

// NewPolicy builds a policy from explicit tables. Kinds missing from ttls fall
// back to fallbackTTL.
func NewPolicy(budgets map[EndpointKind]Budget, ttls map[EndpointKind]time.Duration, fallbackTTL time.Duration) Policy {
	return Policy{budgets: budgets, ttls: ttls, fallbackTTL: fallbackTTL}
}

// Budget returns the request budget for the given endpoint kind, defaulting
// to the general Gamma budget for unknown kinds.
func (p Policy) Budget(kind EndpointKind) Budget {
	if b, ok := p.budgets[kind]; ok {
		return b
	}
	return GammaGeneral
}

// CacheTTL returns how long responses from the given endpoint kind may be
// served from cache.
func (p Policy) CacheTTL(kind EndpointKind) time.Duration {
	if ttl, ok := p.ttls[kind]; ok {
		return ttl
	}
	return p.fallbackTTL
}

// MinDelay returns the minimum spacing between requests that keeps a caller
// issuing a sustained burst inside the budget, with a 10% safety margin,
// rounded up to the next whole millisecond.
func MinDelay(b Budget) time.Duration {
	if b.MaxRequests <= 0 {
		return 0
	}
	perReqMs := float64(b.Window.Milliseconds()) / float64(b.MaxRequests)
	return time.Duration(math.Ceil(perReqMs*1.1)) * time.Millisecond
}

// NearLimit reports whether requestCount has consumed 80% or more of the
// budget, the point at which callers should degrade optional enrichment
// instead of risking a hard limit.
func NearLimit(requestCount int, b Budget) bool {
	return float64(requestCount) >= 0.8*float64(b.MaxRequests)
}

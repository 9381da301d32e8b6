// Package polymarket is the REST client for the two upstream endpoint
// families this service reads from: the Gamma API (tag taxonomy, market
// listings) and the Data API (per-token holder lists). All network access
// lives behind Client; callers get raw DTOs plus classified errors.
package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/alanyoungcy/polyboard/internal/domain"
	"github.com/alanyoungcy/polyboard/internal/ratelimit"
)

// ClientConfig holds construction parameters for the upstream client.
type ClientConfig struct {
	// GammaHost is the Gamma API root, e.g. "https://gamma-api.polymarket.com".
	GammaHost string
	// DataHost is the Data API root, e.g. "https://data-api.polymarket.com".
	DataHost string
	// Timeout bounds every upstream call end to end.
	Timeout time.Duration
}

// Client performs HTTP calls to the Gamma and Data APIs, applying response
// caching and per-endpoint-class pacing derived from the rate-limit policy.
type Client struct {
	gammaHost  string
	dataHost   string
	httpClient *http.Client
	cache      domain.ResponseCache
	policy     ratelimit.Policy
	limiters   map[ratelimit.EndpointKind]*rate.Limiter
	logger     *slog.Logger
}

// NewClient creates an upstream client. cache may not be nil; wire an
// in-memory cache when Redis is not configured.
func NewClient(cfg ClientConfig, cache domain.ResponseCache, policy ratelimit.Policy, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limiters := make(map[ratelimit.EndpointKind]*rate.Limiter)
	for _, kind := range []ratelimit.EndpointKind{
		ratelimit.KindTags, ratelimit.KindMarkets, ratelimit.KindHolders,
	} {
		delay := ratelimit.MinDelay(policy.Budget(kind))
		limiters[kind] = rate.NewLimiter(rate.Every(delay), 1)
	}

	return &Client{
		gammaHost:  strings.TrimRight(cfg.GammaHost, "/"),
		dataHost:   strings.TrimRight(cfg.DataHost, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		policy:     policy,
		limiters:   limiters,
		logger:     logger.With(slog.String("component", "polymarket")),
	}
}

// ResolveTagID resolves a category keyword to a Gamma tag id by scanning the
// full taxonomy for a case-insensitive substring match against each tag's
// label, slug, and name. It returns ("", false) when nothing matches or on
// any upstream failure: absence of a tag degrades the market listing to
// unfiltered rather than failing it.
func (c *Client) ResolveTagID(ctx context.Context, label string) (string, bool) {
	body, err := c.doGet(ctx, ratelimit.KindTags, c.gammaHost+"/tags", "upstream:tags")
	if err != nil {
		c.logger.WarnContext(ctx, "tag lookup failed, listing unfiltered",
			slog.String("label", label),
			slog.String("error", err.Error()),
		)
		return "", false
	}

	var tags []Tag
	if err := json.Unmarshal(body, &tags); err != nil {
		c.logger.WarnContext(ctx, "tag payload undecodable, listing unfiltered",
			slog.String("error", err.Error()),
		)
		return "", false
	}

	needle := strings.ToLower(label)
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag.Label), needle) ||
			strings.Contains(strings.ToLower(tag.Slug), needle) ||
			strings.Contains(strings.ToLower(tag.Name), needle) {
			return string(tag.ID), true
		}
	}
	return "", false
}

// ListMarketsOptions controls the market listing query.
type ListMarketsOptions struct {
	IncludeClosed bool
	Limit         int
}

// ListMarkets fetches raw market records, optionally filtered by tag id.
// Both upstream listing shapes (bare array and {"data":[...]}) are accepted.
// Unlike the tag and holder paths this one does NOT degrade: the error is
// classified and returned so the caller can report partial failure, because
// an empty listing and a failed listing mean different things to a dashboard.
func (c *Client) ListMarkets(ctx context.Context, tagID string, opts ListMarketsOptions) ([]RawMarket, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	params := url.Values{}
	params.Set("closed", strconv.FormatBool(opts.IncludeClosed))
	params.Set("limit", strconv.Itoa(limit))
	if tagID != "" {
		params.Set("tag_id", tagID)
	}
	reqURL := c.gammaHost + "/markets?" + params.Encode()

	body, err := c.doGet(ctx, ratelimit.KindMarkets, reqURL, "upstream:markets:"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("polymarket: list markets: %w", err)
	}

	var markets []RawMarket
	if err := json.Unmarshal(body, &markets); err == nil {
		return markets, nil
	}

	var env marketsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &domain.ShapeError{Endpoint: "markets", Err: err}
	}
	return env.Data, nil
}

// ListHolders fetches the holder list for a single market/condition id.
// Three observed payload shapes are accepted: a flat holder array, an array
// of per-token wrappers (the first wrapper's list is used, matching the
// single-market query), and an object with a "holders" array.
func (c *Client) ListHolders(ctx context.Context, conditionID string, limit int) ([]RawHolder, error) {
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("market", conditionID)
	params.Set("limit", strconv.Itoa(limit))
	reqURL := c.dataHost + "/holders?" + params.Encode()

	cacheKey := fmt.Sprintf("upstream:holders:market:%s:%d", conditionID, limit)
	body, err := c.doGet(ctx, ratelimit.KindHolders, reqURL, cacheKey)
	if err != nil {
		return nil, fmt.Errorf("polymarket: list holders: %w", err)
	}

	return holdersFromPayload(body)
}

// ListTokenHolders fetches holder lists for a batch of outcome tokens in one
// request and returns the per-token wrappers. A flat-array payload is
// attributed to the sole requested token when only one was asked for.
func (c *Client) ListTokenHolders(ctx context.Context, tokenIDs []string) ([]TokenHolders, error) {
	joined := strings.Join(tokenIDs, ",")
	reqURL := c.dataHost + "/holders?tokens=" + url.QueryEscape(joined)

	// Token-keyed and market-keyed holder queries can return overlapping but
	// differently shaped sets, so they never share cache entries.
	body, err := c.doGet(ctx, ratelimit.KindHolders, reqURL, "upstream:holders:tokens:"+joined)
	if err != nil {
		return nil, fmt.Errorf("polymarket: list token holders: %w", err)
	}

	var wrappers []TokenHolders
	if err := json.Unmarshal(body, &wrappers); err == nil && wrapped(wrappers) {
		return wrappers, nil
	}

	var flat []RawHolder
	if err := json.Unmarshal(body, &flat); err == nil {
		if len(tokenIDs) == 1 {
			return []TokenHolders{{Token: flexString(tokenIDs[0]), Holders: flat}}, nil
		}
		return nil, nil
	}

	return nil, &domain.ShapeError{Endpoint: "holders", Err: fmt.Errorf("neither wrapper nor flat array")}
}

// wrapped reports whether a decoded wrapper slice actually carries token keys.
// A flat holder array also decodes into []TokenHolders, just with every field
// left zero, so decoding alone cannot tell the shapes apart.
func wrapped(ws []TokenHolders) bool {
	for _, w := range ws {
		if w.Token != "" || w.Holders != nil {
			return true
		}
	}
	return false
}

// holdersFromPayload extracts the holder list for the single-market query
// mode from any of the accepted payload shapes.
func holdersFromPayload(body []byte) ([]RawHolder, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err == nil {
		if len(elems) == 0 {
			return nil, nil
		}
		var probe holdersEnvelope
		if err := json.Unmarshal(elems[0], &probe); err == nil && probe.Holders != nil {
			return probe.Holders, nil
		}
		var flat []RawHolder
		if err := json.Unmarshal(body, &flat); err != nil {
			return nil, &domain.ShapeError{Endpoint: "holders", Err: err}
		}
		return flat, nil
	}

	var env holdersEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &domain.ShapeError{Endpoint: "holders", Err: err}
	}
	return env.Holders, nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// doGet serves the request from cache when possible, otherwise paces the call
// per the endpoint's budget, performs it, classifies failures, and caches the
// body with the endpoint kind's TTL.
func (c *Client) doGet(ctx context.Context, kind ratelimit.EndpointKind, reqURL, cacheKey string) ([]byte, error) {
	if body, err := c.cache.Get(ctx, cacheKey); err == nil && body != nil {
		return body, nil
	}

	if lim := c.limiters[kind]; lim != nil {
		if err := lim.Wait(ctx); err != nil {
			return nil, &domain.NetworkError{Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.HTTPError{Status: resp.StatusCode, Body: truncateBody(body)}
	}

	if err := c.cache.Set(ctx, cacheKey, body, c.policy.CacheTTL(kind)); err != nil {
		c.logger.WarnContext(ctx, "response cache write failed",
			slog.String("key", cacheKey),
			slog.String("error", err.Error()),
		)
	}

	return body, nil
}

// truncateBody caps error bodies so a huge upstream error page cannot bloat
// logs or responses.
func truncateBody(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

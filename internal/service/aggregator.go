// Package service orchestrates the end-to-end aggregation flows: category
// market listings and per-outcome holder rankings, assembled from upstream
// reads and returned as display-ready payloads. Upstream trouble on
// best-effort paths degrades to empty results; only the primary market
// listing reports failure, and even that as a soft-fail payload.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/polyboard/internal/domain"
	"github.com/alanyoungcy/polyboard/internal/normalize"
	"github.com/alanyoungcy/polyboard/internal/platform/polymarket"
)

// Upstream defines what the aggregator needs from the Polymarket client. It
// is declared locally so tests can substitute a fake.
type Upstream interface {
	ResolveTagID(ctx context.Context, label string) (string, bool)
	ListMarkets(ctx context.Context, tagID string, opts polymarket.ListMarketsOptions) ([]polymarket.RawMarket, error)
	ListHolders(ctx context.Context, conditionID string, limit int) ([]polymarket.RawHolder, error)
	ListTokenHolders(ctx context.Context, tokenIDs []string) ([]polymarket.TokenHolders, error)
}

// MarketListing is the market-listing payload returned to the display layer.
// Success false with an empty list means the upstream listing failed, which
// a dashboard renders differently from "no markets exist".
type MarketListing struct {
	Success   bool            `json:"success"`
	Count     int             `json:"count"`
	Markets   []domain.Market `json:"markets"`
	Error     string          `json:"error,omitempty"`
	Timestamp string          `json:"timestamp"`
}

// OutcomeHolders is the holder-ranking payload for one outcome of one market.
type OutcomeHolders struct {
	Success      bool            `json:"success"`
	ConditionID  string          `json:"conditionId"`
	OutcomeIndex *int            `json:"outcomeIndex"`
	Holders      []domain.Holder `json:"holders"`
	Count        int             `json:"count"`
	Note         string          `json:"note,omitempty"`
}

// Aggregator resolves categories, lists and normalizes markets, and ranks
// holders. It holds no per-request state.
type Aggregator struct {
	upstream Upstream
	logger   *slog.Logger
}

// NewAggregator creates an Aggregator over the given upstream client.
func NewAggregator(upstream Upstream, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		upstream: upstream,
		logger:   logger.With(slog.String("component", "aggregator")),
	}
}

// ListCategoryMarkets resolves the category to a tag id (degrading to an
// unfiltered listing when no tag matches), fetches and normalizes the raw
// records, and applies the retention filter. Upstream listing failure is
// reported inside the payload, never as an error: the caller delivers it
// with a 200 so the UI can branch on success.
func (a *Aggregator) ListCategoryMarkets(ctx context.Context, category string, limit int) MarketListing {
	var tagID string
	if category != "" {
		tagID, _ = a.upstream.ResolveTagID(ctx, category)
	}

	raw, err := a.upstream.ListMarkets(ctx, tagID, polymarket.ListMarketsOptions{Limit: limit})
	if err != nil {
		a.logger.WarnContext(ctx, "market listing failed",
			slog.String("category", category),
			slog.String("error", err.Error()),
		)
		return MarketListing{
			Success:   false,
			Markets:   []domain.Market{},
			Error:     listingError(err),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
	}

	markets := normalize.Markets(raw)
	return MarketListing{
		Success:   true,
		Count:     len(markets),
		Markets:   markets,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// listingError renders an upstream failure for the listing payload. HTTP
// failures keep their status code; everything else gets its message.
func listingError(err error) string {
	var httpErr *domain.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("API returned %d", httpErr.Status)
	}
	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		return "Failed to fetch markets"
	}
	return err.Error()
}

// OutcomeHolders fetches and ranks the top holders of one outcome of a
// market. outcomeIndex nil ranks across both outcomes. A missing conditionID
// is the caller's fault and returns a ValidationError; upstream failure is
// not, and degrades to an empty ranking with a note, because partial data
// beats an error page.
func (a *Aggregator) OutcomeHolders(ctx context.Context, conditionID string, outcomeIndex *int, limit int) (OutcomeHolders, error) {
	if conditionID == "" {
		return OutcomeHolders{}, &domain.ValidationError{Field: "conditionId", Msg: "is required"}
	}
	if limit <= 0 {
		limit = normalize.DefaultHolderLimit
	}

	result := OutcomeHolders{
		Success:      true,
		ConditionID:  conditionID,
		OutcomeIndex: outcomeIndex,
		Holders:      []domain.Holder{},
	}

	raw, err := a.upstream.ListHolders(ctx, conditionID, limit)
	if err != nil {
		a.logger.WarnContext(ctx, "holder fetch degraded",
			slog.String("condition_id", conditionID),
			slog.String("error", err.Error()),
		)
		result.Note = "Holders data not available"
		return result, nil
	}

	result.Holders = normalize.RankHolders(raw, outcomeIndex, limit)
	result.Count = len(result.Holders)
	return result, nil
}

// BothOutcomeHolders fetches the Yes and No rankings for a market with two
// independent concurrent calls, so a failure on one side never blocks the
// other and the observed latency is a single round trip.
func (a *Aggregator) BothOutcomeHolders(ctx context.Context, conditionID string, limit int) (yes, no OutcomeHolders, err error) {
	if conditionID == "" {
		return OutcomeHolders{}, OutcomeHolders{}, &domain.ValidationError{Field: "conditionId", Msg: "is required"}
	}

	yesIdx, noIdx := 0, 1
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var gerr error
		yes, gerr = a.OutcomeHolders(gctx, conditionID, &yesIdx, limit)
		return gerr
	})
	g.Go(func() error {
		var gerr error
		no, gerr = a.OutcomeHolders(gctx, conditionID, &noIdx, limit)
		return gerr
	})
	if err := g.Wait(); err != nil {
		return OutcomeHolders{}, OutcomeHolders{}, err
	}
	return yes, no, nil
}

// TokenHolders fetches holder lists for a batch of outcome tokens in one
// upstream call and returns each token's ranking (no outcome filter, the
// batch is already per-token). Tokens absent from the response map to empty
// rankings so callers can index the result without nil checks.
func (a *Aggregator) TokenHolders(ctx context.Context, tokenIDs []string, limit int) (map[string][]domain.Holder, error) {
	if len(tokenIDs) == 0 {
		return nil, &domain.ValidationError{Field: "tokens", Msg: "parameter required"}
	}
	if limit <= 0 {
		limit = normalize.DefaultHolderLimit
	}

	out := make(map[string][]domain.Holder, len(tokenIDs))
	for _, id := range tokenIDs {
		out[id] = []domain.Holder{}
	}

	wrappers, err := a.upstream.ListTokenHolders(ctx, tokenIDs)
	if err != nil {
		a.logger.WarnContext(ctx, "token holder fetch degraded",
			slog.Int("tokens", len(tokenIDs)),
			slog.String("error", err.Error()),
		)
		return out, nil
	}

	for _, w := range wrappers {
		token := string(w.Token)
		if token == "" {
			continue
		}
		out[token] = normalize.RankHolders(w.Holders, nil, limit)
	}
	return out, nil
}

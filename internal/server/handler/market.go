package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/polyboard/internal/service"
)

// MarketLister defines what the market handler requires from the aggregation
// layer. It is declared locally so the handler package does not depend on the
// concrete service implementation.
type MarketLister interface {
	ListCategoryMarkets(ctx context.Context, category string, limit int) service.MarketListing
}

// MarketHandler serves the category market-listing endpoint.
type MarketHandler struct {
	aggregator      MarketLister
	defaultCategory string
	defaultLimit    int
	logger          *slog.Logger
}

// NewMarketHandler creates a MarketHandler. defaultCategory is used when the
// request does not name one; defaultLimit bounds the upstream listing size.
func NewMarketHandler(aggregator MarketLister, defaultCategory string, defaultLimit int, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{
		aggregator:      aggregator,
		defaultCategory: defaultCategory,
		defaultLimit:    defaultLimit,
		logger:          logger,
	}
}

// ListMarkets returns active markets for a category, normalized and filtered.
// Upstream failure arrives as success:false in the body but still travels as
// a 200, so the dashboard renders a soft-fail state instead of crashing.
// GET /api/markets?category=tech&limit=100
func (h *MarketHandler) ListMarkets(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = h.defaultCategory
	}
	limit := queryInt(r, "limit", h.defaultLimit)

	listing := h.aggregator.ListCategoryMarkets(r.Context(), category, limit)

	// The listing moves on the order of minutes; let shared caches reuse it.
	w.Header().Set("Cache-Control", "public, s-maxage=300, stale-while-revalidate=600")
	writeJSON(w, http.StatusOK, listing)
}

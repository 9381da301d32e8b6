package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alanyoungcy/polyboard/internal/domain"
	"github.com/alanyoungcy/polyboard/internal/service"
)

// HolderRanker defines what the holder handler requires from the aggregation
// layer.
type HolderRanker interface {
	OutcomeHolders(ctx context.Context, conditionID string, outcomeIndex *int, limit int) (service.OutcomeHolders, error)
	BothOutcomeHolders(ctx context.Context, conditionID string, limit int) (yes, no service.OutcomeHolders, err error)
	TokenHolders(ctx context.Context, tokenIDs []string, limit int) (map[string][]domain.Holder, error)
}

// HolderHandler serves the holder-ranking endpoints.
type HolderHandler struct {
	aggregator HolderRanker
	logger     *slog.Logger
}

// NewHolderHandler creates a HolderHandler with the given aggregator.
func NewHolderHandler(aggregator HolderRanker, logger *slog.Logger) *HolderHandler {
	return &HolderHandler{aggregator: aggregator, logger: logger}
}

// GetMarketHolders returns the top holders of a market. With outcomeIndex it
// returns one side's ranking; without, both sides are fetched concurrently
// and returned together. Missing conditionId is the only hard failure.
// GET /api/market-holders?conditionId=0x..&outcomeIndex=0&limit=10
func (h *HolderHandler) GetMarketHolders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	conditionID := q.Get("conditionId")
	limit := queryInt(r, "limit", 0)

	var outcomeIndex *int
	if v := q.Get("outcomeIndex"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "outcomeIndex must be an integer")
			return
		}
		outcomeIndex = &n
	}

	if outcomeIndex != nil {
		result, err := h.aggregator.OutcomeHolders(r.Context(), conditionID, outcomeIndex, limit)
		if err != nil {
			h.writeHolderError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	yes, no, err := h.aggregator.BothOutcomeHolders(r.Context(), conditionID, limit)
	if err != nil {
		h.writeHolderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"conditionId": conditionID,
		"yes":         yes,
		"no":          no,
	})
}

// GetTokenHolders returns top holders grouped per outcome token for a batch
// of token ids, fetched with a single upstream call.
// GET /api/holders?tokens=111,222&limit=10
func (h *HolderHandler) GetTokenHolders(w http.ResponseWriter, r *http.Request) {
	tokensParam := r.URL.Query().Get("tokens")
	limit := queryInt(r, "limit", 0)

	var tokenIDs []string
	for _, t := range strings.Split(tokensParam, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tokenIDs = append(tokenIDs, t)
		}
	}

	holders, err := h.aggregator.TokenHolders(r.Context(), tokenIDs, limit)
	if err != nil {
		h.writeHolderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"holders": holders,
		"count":   len(holders),
	})
}

// writeHolderError maps aggregator errors to transport responses. Validation
// problems are the caller's and get a 400; anything else would have been
// degraded by the service already, so reaching here is unexpected.
func (h *HolderHandler) writeHolderError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	h.logger.ErrorContext(r.Context(), "handler: holder lookup failed",
		slog.String("error", err.Error()),
	)
	writeError(w, http.StatusInternalServerError, "failed to fetch holders")
}

// Package normalize maps the Gamma and Data APIs' loosely shaped records into
// the canonical entities the dashboard consumes. Every canonical field is
// resolved by its own first-match-wins alias chain, so a record missing one
// field never blocks extraction of the others, and normalization is total:
// the worst possible input yields defaults, not an error.
package normalize

import (
	"github.com/alanyoungcy/polyboard/internal/domain"
	"github.com/alanyoungcy/polyboard/internal/platform/polymarket"
)

const eventLinkBase = "https://polymarket.com/event/"

// Market maps one raw Gamma record to the canonical Market.
func Market(raw polymarket.RawMarket) domain.Market {
	conditionID := firstNonEmpty(
		raw.ConditionID,
		raw.ConditionIDAlt,
		string(raw.ID),
		string(raw.TokenID),
		firstTokenID(raw.Tokens),
	)

	slug := firstNonEmpty(raw.Slug, string(raw.ID))
	linkSlug := firstNonEmpty(raw.Slug, string(raw.ID), conditionID)

	return domain.Market{
		ID:          firstNonEmpty(string(raw.ID), raw.Slug, conditionID),
		ConditionID: conditionID,
		Question:    firstNonEmpty(raw.Question, raw.Title, raw.Name),
		Description: firstNonEmpty(raw.Description, raw.Desc),
		Slug:        slug,
		Outcomes:    outcomes(raw),
		Closed:      bool(raw.Closed) || bool(raw.IsResolved),
		EndDate:     firstNonEmpty(raw.EndDate, raw.EndDateAlt),
		Liquidity:   firstNonZero(float64(raw.Liquidity), float64(raw.TotalLiquidity)),
		Volume:      firstNonZero(float64(raw.Volume), float64(raw.TotalVolume)),
		Link:        eventLinkBase + linkSlug,
	}
}

// Markets normalizes a whole listing and applies the retention invariant:
// closed markets and markets whose condition id could not be resolved are
// dropped.
func Markets(raw []polymarket.RawMarket) []domain.Market {
	out := make([]domain.Market, 0, len(raw))
	for _, r := range raw {
		m := Market(r)
		if m.Retained() {
			out = append(out, m)
		}
	}
	return out
}

// outcomes resolves the outcome labels: an explicit outcomes array wins, then
// labels derived from the tokens array, then the binary default.
func outcomes(raw polymarket.RawMarket) []string {
	if len(raw.Outcomes) > 0 {
		return raw.Outcomes
	}
	if len(raw.Tokens) > 0 {
		labels := make([]string, 0, len(raw.Tokens))
		for _, tok := range raw.Tokens {
			labels = append(labels, firstNonEmpty(tok.Outcome, tok.Label))
		}
		return labels
	}
	return []string{"Yes", "No"}
}

func firstTokenID(tokens []polymarket.RawToken) string {
	if len(tokens) == 0 {
		return ""
	}
	return string(tokens[0].TokenID)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(vals ...float64) float64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

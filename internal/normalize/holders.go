package normalize

import (
	"sort"

	"github.com/alanyoungcy/polyboard/internal/domain"
	"github.com/alanyoungcy/polyboard/internal/platform/polymarket"
)

// DefaultHolderLimit is the ranking size when the caller does not ask for one.
const DefaultHolderLimit = 10

// RankHolders filters a raw holder list to one outcome slot, orders it by
// stake descending, truncates it to limit, and maps it to the canonical
// Holder shape.
//
// outcomeIndex nil means no filtering. When set, the comparison is exact
// integer equality on the record's own index field: a holder positioned in
// outcome 0 is a valid match, and a record missing the field never is.
// Ties keep upstream order (stable sort). Empty input yields an empty
// ranking, never an error.
func RankHolders(raw []polymarket.RawHolder, outcomeIndex *int, limit int) []domain.Holder {
	if limit <= 0 {
		limit = DefaultHolderLimit
	}

	filtered := raw
	if outcomeIndex != nil {
		filtered = make([]polymarket.RawHolder, 0, len(raw))
		for _, h := range raw {
			if h.OutcomeIndex != nil && *h.OutcomeIndex == *outcomeIndex {
				filtered = append(filtered, h)
			}
		}
	} else {
		filtered = append([]polymarket.RawHolder(nil), raw...)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return float64(filtered[i].Amount) > float64(filtered[j].Amount)
	})

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	out := make([]domain.Holder, 0, len(filtered))
	for _, h := range filtered {
		out = append(out, Holder(h))
	}
	return out
}

// Holder maps one raw holder record to the canonical shape, applying the
// display-name fallback chain and mirroring the wallet into both address
// fields.
func Holder(raw polymarket.RawHolder) domain.Holder {
	idx := 0
	if raw.OutcomeIndex != nil {
		idx = *raw.OutcomeIndex
	}

	return domain.Holder{
		ProxyWallet:  raw.ProxyWallet,
		Address:      raw.ProxyWallet,
		Pseudonym:    firstNonEmpty(raw.Pseudonym, raw.Name, domain.AnonymousName),
		Name:         firstNonEmpty(raw.Name, raw.Pseudonym, domain.AnonymousName),
		Amount:       float64(raw.Amount),
		OutcomeIndex: idx,
		ProfileImage: firstNonEmpty(raw.ProfileImage, raw.ProfileImageOptimized),
		Bio:          raw.Bio,
	}
}

package domain

// Market is the canonical, display-ready projection of an upstream market
// record. It is built fresh per request and never persisted or mutated after
// construction.
type Market struct {
	ID          string   `json:"id"`
	ConditionID string   `json:"conditionId"`
	Question    string   `json:"question"`
	Description string   `json:"description"`
	Slug        string   `json:"slug"`
	Outcomes    []string `json:"outcomes"` // index 0 conventionally "Yes", 1 "No"
	Closed      bool     `json:"closed"`
	EndDate     string   `json:"endDate,omitempty"`
	Liquidity   float64  `json:"liquidity"`
	Volume      float64  `json:"volume"`
	Link        string   `json:"link"`
}

// Retained reports whether a normalized market belongs in a listing: only
// open markets with a resolvable condition id are shown.
func (m Market) Retained() bool {
	return !m.Closed && m.ConditionID != ""
}

package normalize

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/alanyoungcy/polyboard/internal/platform/polymarket"
)

func TestMarketAliasChains(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]interface{}
	}{
		{
			name: "canonical fields win",
			raw: `{
				"id": "123",
				"conditionId": "0xabc",
				"question": "Will it ship?",
				"description": "A market.",
				"slug": "will-it-ship",
				"outcomes": ["Yes", "No"],
				"closed": false,
				"endDate": "2026-12-31T00:00:00Z",
				"liquidity": 1000.5,
				"volume": 50000
			}`,
			want: map[string]interface{}{
				"id":          "123",
				"conditionId": "0xabc",
				"question":    "Will it ship?",
				"slug":        "will-it-ship",
				"link":        "https://polymarket.com/event/will-it-ship",
				"liquidity":   1000.5,
			},
		},
		{
			name: "snake case and title fallbacks",
			raw: `{
				"id": 42,
				"condition_id": "0xdef",
				"title": "Alt title",
				"desc": "Alt description",
				"end_date": "2027-01-01",
				"totalLiquidity": "250.25",
				"totalVolume": "99"
			}`,
			want: map[string]interface{}{
				"id":          "42",
				"conditionId": "0xdef",
				"question":    "Alt title",
				"slug":        "42",
				"link":        "https://polymarket.com/event/42",
				"liquidity":   250.25,
			},
		},
		{
			name: "condition id from token list",
			raw: `{
				"name": "Token market",
				"tokens": [{"token_id": "777", "outcome": "Yes"}, {"token_id": "778", "outcome": "No"}]
			}`,
			want: map[string]interface{}{
				"id":          "777",
				"conditionId": "777",
				"question":    "Token market",
				"slug":        "",
				"link":        "https://polymarket.com/event/777",
				"liquidity":   0.0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := decodeRaw(t, tt.raw)
			m := Market(raw)

			if got := m.ID; got != tt.want["id"] {
				t.Errorf("ID = %q, want %q", got, tt.want["id"])
			}
			if got := m.ConditionID; got != tt.want["conditionId"] {
				t.Errorf("ConditionID = %q, want %q", got, tt.want["conditionId"])
			}
			if got := m.Question; got != tt.want["question"] {
				t.Errorf("Question = %q, want %q", got, tt.want["question"])
			}
			if got := m.Slug; got != tt.want["slug"] {
				t.Errorf("Slug = %q, want %q", got, tt.want["slug"])
			}
			if got := m.Link; got != tt.want["link"] {
				t.Errorf("Link = %q, want %q", got, tt.want["link"])
			}
			if got := m.Liquidity; got != tt.want["liquidity"] {
				t.Errorf("Liquidity = %v, want %v", got, tt.want["liquidity"])
			}
		})
	}
}

func TestMarketOutcomeResolution(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"explicit array", `{"outcomes": ["Up", "Down"]}`, []string{"Up", "Down"}},
		{"json encoded string", `{"outcomes": "[\"Yes\",\"No\"]"}`, []string{"Yes", "No"}},
		{"token labels", `{"tokens": [{"outcome": "Trump"}, {"label": "Harris"}]}`, []string{"Trump", "Harris"}},
		{"binary default", `{}`, []string{"Yes", "No"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := decodeRaw(t, tt.raw)
			if got := Market(raw).Outcomes; !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Outcomes = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMarketIsTotal(t *testing.T) {
	// The worst possible input yields defaults, not a panic or error.
	m := Market(polymarket.RawMarket{})
	if m.ID != "" || m.ConditionID != "" {
		t.Errorf("empty record produced ids: %+v", m)
	}
	if !reflect.DeepEqual(m.Outcomes, []string{"Yes", "No"}) {
		t.Errorf("Outcomes = %v, want binary default", m.Outcomes)
	}
	if m.Link != "https://polymarket.com/event/" {
		t.Errorf("Link = %q", m.Link)
	}
	if m.Retained() {
		t.Error("record without a condition id must not be retained")
	}
}

func TestMarketsRetentionFilter(t *testing.T) {
	raws := []polymarket.RawMarket{
		decodeRaw(t, `{"conditionId": "0x1", "question": "open"}`),
		decodeRaw(t, `{"conditionId": "0x2", "question": "closed", "closed": true}`),
		decodeRaw(t, `{"conditionId": "0x3", "question": "resolved", "isResolved": "true"}`),
		decodeRaw(t, `{"question": "no condition id"}`),
		decodeRaw(t, `{"conditionId": "0x4", "question": "string false", "closed": "false"}`),
	}

	got := Markets(raws)
	if len(got) != 2 {
		t.Fatalf("retained %d markets, want 2: %+v", len(got), got)
	}
	if got[0].ConditionID != "0x1" || got[1].ConditionID != "0x4" {
		t.Errorf("retained wrong markets: %q, %q", got[0].ConditionID, got[1].ConditionID)
	}
	for _, m := range got {
		if m.Closed {
			t.Errorf("retained closed market %q", m.ConditionID)
		}
	}
}

func decodeRaw(t *testing.T, data string) polymarket.RawMarket {
	t.Helper()
	var raw polymarket.RawMarket
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		t.Fatalf("decode raw market: %v", err)
	}
	return raw
}

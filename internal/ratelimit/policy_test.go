package ratelimit

import (
	"testing"
	"time"
)

func TestMinDelay(t *testing.T) {
	tests := []struct {
		name   string
		budget Budget
		want   time.Duration
	}{
		{"gamma general", GammaGeneral, 15 * time.Millisecond}, // 13.33ms * 1.1 rounds up to a whole ms
		{"gamma markets", GammaMarkets, 88 * time.Millisecond},
		{"gamma tags", GammaTags, 110 * time.Millisecond},
		{"data api", DataAPIGeneral, 55 * time.Millisecond},
		{"one per second", Budget{MaxRequests: 1, Window: time.Second}, 1100 * time.Millisecond},
		{"zero budget", Budget{MaxRequests: 0, Window: time.Second}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MinDelay(tt.budget); got != tt.want {
				t.Errorf("MinDelay(%+v) = %v, want %v", tt.budget, got, tt.want)
			}
		})
	}
}

func TestCacheTTL(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		kind EndpointKind
		want time.Duration
	}{
		{KindTags, time.Hour},
		{KindMarkets, 5 * time.Minute},
		{KindHolders, time.Minute},
		{EndpointKind("bogus"), 5 * time.Minute},
	}

	for _, tt := range tests {
		if got := p.CacheTTL(tt.kind); got != tt.want {
			t.Errorf("CacheTTL(%q) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestNearLimit(t *testing.T) {
	b := Budget{MaxRequests: 100, Window: 10 * time.Second}

	tests := []struct {
		count int
		want  bool
	}{
		{0, false},
		{79, false},
		{80, true}, // exactly 80% counts as near
		{100, true},
		{150, true},
	}

	for _, tt := range tests {
		if got := NearLimit(tt.count, b); got != tt.want {
			t.Errorf("NearLimit(%d, %+v) = %v, want %v", tt.count, b, got, tt.want)
		}
	}
}

func TestBudgetLookup(t *testing.T) {
	p := DefaultPolicy()

	if got := p.Budget(KindMarkets); got.MaxRequests != 125 {
		t.Errorf("Budget(markets).MaxRequests = %d, want 125", got.MaxRequests)
	}
	if got := p.Budget(EndpointKind("unknown")); got.MaxRequests != GammaGeneral.MaxRequests {
		t.Errorf("Budget(unknown) = %+v, want general budget", got)
	}
}

func TestPolicyOverride(t *testing.T) {
	p := NewPolicy(
		map[EndpointKind]Budget{KindMarkets: {MaxRequests: 2, Window: time.Second}},
		map[EndpointKind]time.Duration{KindMarkets: time.Second},
		30*time.Second,
	)

	if got := p.CacheTTL(KindMarkets); got != time.Second {
		t.Errorf("CacheTTL(markets) = %v, want 1s", got)
	}
	if got := p.CacheTTL(KindTags); got != 30*time.Second {
		t.Errorf("CacheTTL(tags) = %v, want fallback 30s", got)
	}
	if got := p.Budget(KindMarkets).MaxRequests; got != 2 {
		t.Errorf("Budget(markets).MaxRequests = %d, want 2", got)
	}
}

package polymarket

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alanyoungcy/polyboard/internal/domain"
	"github.com/alanyoungcy/polyboard/internal/ratelimit"
)

// fakeCache is an in-memory ResponseCache for client tests.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if body, ok := c.data[key]; ok {
		return body, nil
	}
	return nil, domain.ErrNotFound
}

func (c *fakeCache) Set(_ context.Context, key string, body []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = body
	c.sets++
	return nil
}

func testClient(t *testing.T, gammaURL, dataURL string, cache domain.ResponseCache) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(ClientConfig{
		GammaHost: gammaURL,
		DataHost:  dataURL,
		Timeout:   5 * time.Second,
	}, cache, ratelimit.DefaultPolicy(), logger)
}

func TestResolveTagID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tags" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, `[
			{"id": 1, "label": "Politics", "slug": "politics"},
			{"id": 42, "label": "Technology", "slug": "technology"},
			{"id": "7", "label": "Sports", "slug": "sports"}
		]`)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, srv.URL, newFakeCache())

	tests := []struct {
		label  string
		wantID string
		wantOK bool
	}{
		{"tech", "42", true},
		{"TECHNOLOGY", "42", true},
		{"sport", "7", true},
		{"weather", "", false},
	}

	for _, tt := range tests {
		id, ok := c.ResolveTagID(context.Background(), tt.label)
		if id != tt.wantID || ok != tt.wantOK {
			t.Errorf("ResolveTagID(%q) = (%q, %v), want (%q, %v)", tt.label, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestResolveTagIDDegradesOnUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, srv.URL, newFakeCache())
	if id, ok := c.ResolveTagID(context.Background(), "tech"); id != "" || ok {
		t.Errorf("ResolveTagID on 500 = (%q, %v), want (\"\", false)", id, ok)
	}
}

func TestListMarketsShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{"bare array", `[{"conditionId":"0x1"},{"conditionId":"0x2"}]`, 2},
		{"data envelope", `{"data":[{"conditionId":"0x3"}]}`, 1},
		{"empty array", `[]`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.RawQuery
				io.WriteString(w, tt.payload)
			}))
			defer srv.Close()

			c := testClient(t, srv.URL, srv.URL, newFakeCache())
			markets, err := c.ListMarkets(context.Background(), "42", ListMarketsOptions{Limit: 50})
			if err != nil {
				t.Fatalf("ListMarkets: %v", err)
			}
			if len(markets) != tt.want {
				t.Errorf("got %d markets, want %d", len(markets), tt.want)
			}
			if gotQuery != "closed=false&limit=50&tag_id=42" {
				t.Errorf("query = %q", gotQuery)
			}
		})
	}
}

func TestListMarketsHTTPErrorKeepsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, srv.URL, newFakeCache())
	_, err := c.ListMarkets(context.Background(), "", ListMarketsOptions{})
	if err == nil {
		t.Fatal("want error on 502")
	}

	var httpErr *domain.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error %v is not an HTTPError", err)
	}
	if httpErr.Status != http.StatusBadGateway {
		t.Errorf("Status = %d, want 502", httpErr.Status)
	}
}

func TestListMarketsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := testClient(t, srv.URL, srv.URL, newFakeCache())
	_, err := c.ListMarkets(context.Background(), "", ListMarketsOptions{})

	var netErr *domain.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error %v is not a NetworkError", err)
	}
}

func TestDoGetServesFromCache(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	cache := newFakeCache()
	c := testClient(t, srv.URL, srv.URL, cache)

	for i := 0; i < 3; i++ {
		if _, err := c.ListMarkets(context.Background(), "", ListMarketsOptions{}); err != nil {
			t.Fatalf("ListMarkets #%d: %v", i, err)
		}
	}

	if hits != 1 {
		t.Errorf("upstream hit %d times, want 1 (cache should absorb repeats)", hits)
	}
	if cache.sets != 1 {
		t.Errorf("cache written %d times, want 1", cache.sets)
	}
}

func TestListHoldersQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("market") != "0xcond" {
			t.Errorf("market param = %q", r.URL.Query().Get("market"))
		}
		if r.URL.Query().Get("limit") != "10" {
			t.Errorf("limit param = %q", r.URL.Query().Get("limit"))
		}
		io.WriteString(w, `[{"proxyWallet":"0xa","amount":5}]`)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, srv.URL, newFakeCache())
	holders, err := c.ListHolders(context.Background(), "0xcond", 0)
	if err != nil {
		t.Fatalf("ListHolders: %v", err)
	}
	if len(holders) != 1 || holders[0].ProxyWallet != "0xa" {
		t.Errorf("holders = %+v", holders)
	}
}

func TestListTokenHolders(t *testing.T) {
	t.Run("wrapper payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `[{"token":"t1","holders":[{"proxyWallet":"0xa"}]},{"token":"t2","holders":[]}]`)
		}))
		defer srv.Close()

		c := testClient(t, srv.URL, srv.URL, newFakeCache())
		wrappers, err := c.ListTokenHolders(context.Background(), []string{"t1", "t2"})
		if err != nil {
			t.Fatalf("ListTokenHolders: %v", err)
		}
		if len(wrappers) != 2 || string(wrappers[0].Token) != "t1" {
			t.Errorf("wrappers = %+v", wrappers)
		}
	})

	t.Run("flat payload attributed to sole token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `[{"proxyWallet":"0xa","amount":3}]`)
		}))
		defer srv.Close()

		c := testClient(t, srv.URL, srv.URL, newFakeCache())
		wrappers, err := c.ListTokenHolders(context.Background(), []string{"only"})
		if err != nil {
			t.Fatalf("ListTokenHolders: %v", err)
		}
		if len(wrappers) != 1 || string(wrappers[0].Token) != "only" {
			t.Fatalf("wrappers = %+v", wrappers)
		}
		if len(wrappers[0].Holders) != 1 || wrappers[0].Holders[0].ProxyWallet != "0xa" {
			t.Errorf("holders = %+v", wrappers[0].Holders)
		}
	})
}

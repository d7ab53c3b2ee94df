package feed

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/devJaja/kivo-scanner/internal/logger"
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.Level(0), "feed-test", nil)
}

func testConfig(coinGeckoURL, cmcURL string) ProviderConfig {
	return ProviderConfig{
		CoinGeckoURL: coinGeckoURL,
		CMCURL:       cmcURL,
		CMCAPIKey:    "test-key",
		CacheTTL:     time.Minute,
		Retries:      1,
		RetryBackoff: time.Millisecond,
		Timeout:      2 * time.Second,
	}
}

func TestUSDPricesFromCoinGecko(t *testing.T) {
	gecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/simple/price" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		ids := r.URL.Query().Get("ids")
		if !strings.Contains(ids, "weth") || !strings.Contains(ids, "usd-coin") {
			t.Errorf("ids = %q, want weth and usd-coin", ids)
		}
		json.NewEncoder(w).Encode(map[string]map[string]float64{
			"weth":     {"usd": 3000.5},
			"usd-coin": {"usd": 1.0},
		})
	}))
	defer gecko.Close()

	provider, err := NewProvider(testConfig(gecko.URL, "http://127.0.0.1:0"), testLogger())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	prices, err := provider.USDPrices(context.Background(), []string{"WETH", "USDC"})
	if err != nil {
		t.Fatalf("USDPrices: %v", err)
	}

	if !prices["WETH"].Equal(decimal.NewFromFloat(3000.5)) {
		t.Errorf("WETH = %s, want 3000.5", prices["WETH"])
	}
	if !prices["USDC"].Equal(decimal.NewFromInt(1)) {
		t.Errorf("USDC = %s, want 1", prices["USDC"])
	}
}

func TestUSDPricesFallsBackToCMC(t *testing.T) {
	gecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer gecko.Close()

	cmcCalled := false
	cmc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cmcCalled = true
		if got := r.Header.Get("X-CMC_PRO_API_KEY"); got != "test-key" {
			t.Errorf("API key header = %q, want test-key", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"WETH": map[string]any{
					"quote": map[string]any{
						"USD": map[string]any{"price": 2999.0},
					},
				},
			},
		})
	}))
	defer cmc.Close()

	provider, err := NewProvider(testConfig(gecko.URL, cmc.URL), testLogger())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	prices, err := provider.USDPrices(context.Background(), []string{"WETH"})
	if err != nil {
		t.Fatalf("USDPrices: %v", err)
	}

	if !cmcCalled {
		t.Fatal("expected fallback upstream to be called")
	}
	if !prices["WETH"].Equal(decimal.NewFromFloat(2999.0)) {
		t.Errorf("WETH = %s, want 2999", prices["WETH"])
	}
}

func TestUSDPricesServesFromCache(t *testing.T) {
	calls := 0
	gecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]map[string]float64{
			"weth": {"usd": 3000.0},
		})
	}))
	defer gecko.Close()

	provider, err := NewProvider(testConfig(gecko.URL, "http://127.0.0.1:0"), testLogger())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := provider.USDPrices(ctx, []string{"WETH"}); err != nil {
			t.Fatalf("USDPrices call %d: %v", i, err)
		}
	}

	if calls != 1 {
		t.Errorf("upstream calls = %d, want 1", calls)
	}
}

func TestUSDPricesSkipsUnknownSymbols(t *testing.T) {
	gecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Upstream only knows WETH.
		json.NewEncoder(w).Encode(map[string]map[string]float64{
			"weth": {"usd": 3000.0},
		})
	}))
	defer gecko.Close()

	provider, err := NewProvider(testConfig(gecko.URL, "http://127.0.0.1:0"), testLogger())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	prices, err := provider.USDPrices(context.Background(), []string{"WETH", "NOTACOIN"})
	if err != nil {
		t.Fatalf("USDPrices: %v", err)
	}

	if _, ok := prices["NOTACOIN"]; ok {
		t.Error("unknown symbol should be absent from the result")
	}
	if _, ok := prices["WETH"]; !ok {
		t.Error("known symbol should be present")
	}
}

type stubFeed struct {
	prices map[string]decimal.Decimal
	err    error
}

func (s *stubFeed) USDPrices(_ context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]decimal.Decimal)
	for _, sym := range symbols {
		if p, ok := s.prices[strings.ToUpper(sym)]; ok {
			out[strings.ToUpper(sym)] = p
		}
	}
	return out, nil
}

func TestHandlerMissingTokensParam(t *testing.T) {
	h := NewHandler(&stubFeed{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/prices", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected an error message in the body")
	}
}

func TestHandlerReturnsPrices(t *testing.T) {
	h := NewHandler(&stubFeed{prices: map[string]decimal.Decimal{
		"WETH": decimal.NewFromFloat(3000.5),
		"USDC": decimal.NewFromInt(1),
	}}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/prices?tokens=WETH,USDC", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]float64
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["weth"] != 3000.5 {
		t.Errorf("weth = %v, want 3000.5", body["weth"])
	}
	if body["usdc"] != 1 {
		t.Errorf("usdc = %v, want 1", body["usdc"])
	}
}

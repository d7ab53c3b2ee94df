package across

import (
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/devJaja/kivo-scanner/business/bridge/app"
	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/devJaja/kivo-scanner/internal/logger"
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.Level(0), "across-test", nil)
}

func usdcBase(t *testing.T) *asset.Asset {
	t.Helper()
	a, ok := asset.DefaultRegistry().GetBySymbolAndChain("USDC", asset.ChainIDBase)
	if !ok {
		t.Fatal("USDC not registered on Base")
	}
	return a
}

func quoteRequest(t *testing.T, amountRaw int64) app.QuoteRequest {
	t.Helper()
	token := usdcBase(t)
	return app.QuoteRequest{
		OriginChainID:      asset.ChainIDBase,
		DestinationChainID: asset.ChainIDArbitrum,
		Token:              token.Address(),
		Amount:             asset.NewAmount(token, big.NewInt(amountRaw)),
		Recipient:          common.HexToAddress("0x00000000000000000000000000000000000000aa"),
	}
}

func TestSuggestedFees(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/suggested-fees" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("originChainId") != "8453" || q.Get("destinationChainId") != "42161" {
			t.Errorf("unexpected chain params: %v", q)
		}
		if q.Get("amount") != "1000000000" {
			t.Errorf("amount = %s, want 1000000000", q.Get("amount"))
		}

		json.NewEncoder(w).Encode(map[string]any{
			"relayerFee":           map[string]string{"total": "300000", "pct": "0.0003"},
			"lpFee":                map[string]string{"total": "200000", "pct": "0.0002"},
			"isAmountTooLow":       false,
			"estimatedFillTimeSec": 12,
			"timestamp":            "1750000000",
			"spokePoolAddress":     "0x09aea4b2242abC8bb4BB78D537A67a245A7bEC64",
			"exclusiveRelayer":     "0x0000000000000000000000000000000000000000",
			"exclusivityDeadline":  "0",
		})
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{APIBaseURL: srv.URL, Timeout: 2 * time.Second}, testLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	// 1000 USDC in base units.
	quote, err := client.SuggestedFees(context.Background(), quoteRequest(t, 1_000_000_000))
	if err != nil {
		t.Fatalf("SuggestedFees: %v", err)
	}

	if quote.IsAmountTooLow {
		t.Fatal("quote should not be amount-too-low")
	}
	if got := quote.TotalFee.Raw(); got.Cmp(big.NewInt(500000)) != 0 {
		t.Errorf("TotalFee = %s, want 500000 (relayer + lp)", got)
	}
	if got := quote.NetAmount.Raw(); got.Cmp(big.NewInt(999_500_000)) != 0 {
		t.Errorf("NetAmount = %s, want 999500000", got)
	}
	if quote.EstimatedFillTime != 12*time.Second {
		t.Errorf("EstimatedFillTime = %s, want 12s", quote.EstimatedFillTime)
	}
	if quote.QuoteTimestamp != 1750000000 {
		t.Errorf("QuoteTimestamp = %d, want 1750000000", quote.QuoteTimestamp)
	}
	if quote.SpokePool != common.HexToAddress("0x09aea4b2242abC8bb4BB78D537A67a245A7bEC64") {
		t.Errorf("SpokePool = %s", quote.SpokePool.Hex())
	}
	if !quote.Usable() {
		t.Error("quote should be usable")
	}
}

func TestSuggestedFeesHonorsRateLimit(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		json.NewEncoder(w).Encode(map[string]any{
			"relayerFee":           map[string]string{"total": "300000", "pct": "0.0003"},
			"lpFee":                map[string]string{"total": "200000", "pct": "0.0002"},
			"isAmountTooLow":       false,
			"estimatedFillTimeSec": 12,
			"timestamp":            "1750000000",
			"spokePoolAddress":     "0x09aea4b2242abC8bb4BB78D537A67a245A7bEC64",
			"exclusiveRelayer":     "0x0000000000000000000000000000000000000000",
			"exclusivityDeadline":  "0",
		})
	}))
	defer srv.Close()

	// One request per 100s with a burst of one: the first call drains
	// the bucket, the second cannot be served before its deadline.
	client, err := NewClient(ClientConfig{APIBaseURL: srv.URL, Timeout: 2 * time.Second, RateLimit: 0.01}, testLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.SuggestedFees(context.Background(), quoteRequest(t, 1_000_000_000)); err != nil {
		t.Fatalf("first SuggestedFees: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, err := client.SuggestedFees(ctx, quoteRequest(t, 1_000_000_000)); err == nil {
		t.Fatal("expected rate-limited call to fail")
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1 (second call must not reach the API)", hits)
	}
}

func TestSuggestedFeesAmountTooLow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"isAmountTooLow": true,
		})
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{APIBaseURL: srv.URL, Timeout: 2 * time.Second}, testLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	quote, err := client.SuggestedFees(context.Background(), quoteRequest(t, 100))
	if err != nil {
		t.Fatalf("SuggestedFees: %v", err)
	}

	if !quote.IsAmountTooLow {
		t.Error("expected amount-too-low quote")
	}
	if quote.Usable() {
		t.Error("amount-too-low quote must not be usable")
	}
}

func TestSuggestedFeesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{APIBaseURL: srv.URL, Timeout: 2 * time.Second}, testLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.SuggestedFees(context.Background(), quoteRequest(t, 1_000_000_000)); err == nil {
		t.Fatal("expected error on upstream failure")
	}
}

func TestDepositFilled(t *testing.T) {
	status := "pending"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/deposit/status" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{APIBaseURL: srv.URL, Timeout: 2 * time.Second}, testLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	tx := common.HexToHash("0xabc")
	filled, err := client.DepositFilled(context.Background(), asset.ChainIDBase, tx)
	if err != nil {
		t.Fatalf("DepositFilled: %v", err)
	}
	if filled {
		t.Error("pending deposit reported as filled")
	}

	status = "filled"
	filled, err = client.DepositFilled(context.Background(), asset.ChainIDBase, tx)
	if err != nil {
		t.Fatalf("DepositFilled: %v", err)
	}
	if !filled {
		t.Error("filled deposit reported as pending")
	}
}

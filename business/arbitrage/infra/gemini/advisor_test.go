package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/devJaja/kivo-scanner/business/arbitrage/domain"
	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/devJaja/kivo-scanner/internal/logger"
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.Level(0), "gemini-test", nil)
}

func modelServer(t *testing.T, text string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key, query: %v", r.URL.Query())
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
			},
		})
	}))
}

func testAdvisor(t *testing.T, srv *httptest.Server) *Advisor {
	t.Helper()
	a, err := NewAdvisor(AdvisorConfig{APIURL: srv.URL, APIKey: "test-key"}, testLogger())
	if err != nil {
		t.Fatalf("NewAdvisor: %v", err)
	}
	return a
}

func testOpportunity() *domain.Opportunity {
	return &domain.Opportunity{
		ID:            domain.NewID("WETH", asset.ChainIDBase, asset.ChainIDArbitrum),
		Kind:          domain.KindCrossChain,
		Token:         "WETH",
		FromChainID:   asset.ChainIDBase,
		ToChainID:     asset.ChainIDArbitrum,
		BuyPrice:      decimal.NewFromInt(3000),
		SellPrice:     decimal.NewFromInt(3100),
		SpreadPercent: decimal.RequireFromString("3.33"),
		Profit:        domain.ProfitBreakdown{GrossUSD: decimal.NewFromInt(30)},
		Risk:          domain.RiskMedium,
	}
}

func TestApproveVerdicts(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		approved bool
	}{
		{"exact", "EXECUTE", true},
		{"lowercase", "execute", true},
		{"padded", "  Execute\n", true},
		{"skip", "SKIP", false},
		{"prose", "I would EXECUTE this trade.", false},
		{"empty verdict", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := modelServer(t, tt.text, http.StatusOK)
			defer srv.Close()

			approved, err := testAdvisor(t, srv).Approve(context.Background(), testOpportunity())
			if err != nil {
				t.Fatalf("Approve: %v", err)
			}
			if approved != tt.approved {
				t.Errorf("approved = %v for %q, want %v", approved, tt.text, tt.approved)
			}
		})
	}
}

func TestApproveUpstreamError(t *testing.T) {
	srv := modelServer(t, "", http.StatusInternalServerError)
	defer srv.Close()

	approved, err := testAdvisor(t, srv).Approve(context.Background(), testOpportunity())
	if err == nil {
		t.Fatal("want error on HTTP 500")
	}
	if approved {
		t.Error("approved must be false on error")
	}
}

func TestSuggestRoutesParsesFencedJSON(t *testing.T) {
	srv := modelServer(t, "```json\n[{\"tokens\":[\"WETH\",\"USDC\",\"DAI\",\"WETH\"],\"venues\":[\"uniswap\",\"uniswap\",\"uniswap\"]}]\n```", http.StatusOK)
	defer srv.Close()

	routes := testAdvisor(t, srv).SuggestRoutes(context.Background(), asset.ChainIDBase)
	if len(routes) != 1 {
		t.Fatalf("routes = %d, want 1", len(routes))
	}
	if routes[0].Tokens[0] != "WETH" || len(routes[0].Venues) != 3 {
		t.Errorf("route = %+v", routes[0])
	}
}

func TestSuggestRoutesMalformed(t *testing.T) {
	for _, text := range []string{
		"no routes today",
		`{"tokens":["WETH"]}`, // object, not array
		`[{"tokens":["WETH","USDC","DAI","USDC"],"venues":["a","b","c"]}]`,  // not circular
		`[{"tokens":["WETH","USDC","WETH"],"venues":["uniswap","uniswap"]}]`, // two hops
	} {
		srv := modelServer(t, text, http.StatusOK)
		routes := testAdvisor(t, srv).SuggestRoutes(context.Background(), asset.ChainIDBase)
		srv.Close()
		if len(routes) != 0 {
			t.Errorf("routes = %d for %q, want 0", len(routes), text)
		}
	}
}

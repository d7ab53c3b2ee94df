package feed

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/devJaja/kivo-scanner/business/pricing/app"
	"github.com/devJaja/kivo-scanner/internal/logger"
)

// Handler serves GET /api/prices?tokens=SYM1,SYM2 as a small proxy in
// front of the price feed, so dashboards never hit the upstreams
// directly. Prices are returned as a flat JSON object keyed by the
// lowercased symbol.
type Handler struct {
	feed   app.PriceFeed
	logger logger.LoggerInterface
}

// NewHandler creates the price proxy handler.
func NewHandler(feed app.PriceFeed, log logger.LoggerInterface) *Handler {
	return &Handler{feed: feed, logger: log}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	tokens := r.URL.Query().Get("tokens")
	if tokens == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Missing tokens query parameter"})
		return
	}

	symbols := strings.Split(tokens, ",")
	prices, err := h.feed.USDPrices(r.Context(), symbols)
	if err != nil {
		h.logger.Error(r.Context(), "price proxy lookup failed", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": "price feed unavailable"})
		return
	}

	body := make(map[string]float64, len(prices))
	for sym, price := range prices {
		f, _ := price.Float64()
		body[strings.ToLower(sym)] = f
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

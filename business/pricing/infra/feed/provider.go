// Package feed implements the PriceFeed port over CoinGecko with a
// CoinMarketCap fallback.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/devJaja/kivo-scanner/business/pricing/app"
	"github.com/devJaja/kivo-scanner/internal/apperror"
	"github.com/devJaja/kivo-scanner/internal/httpclient"
	"github.com/devJaja/kivo-scanner/internal/logger"
	"github.com/devJaja/kivo-scanner/internal/ratelimit"
)

const (
	tracerName = "feed"
	meterName  = "feed"

	defaultCoinGeckoURL = "https://api.coingecko.com/api/v3"
	defaultCMCURL       = "https://pro-api.coinmarketcap.com/v1"

	defaultCacheTTL     = time.Minute
	defaultRetries      = 3
	defaultRetryBackoff = time.Second
	defaultTimeout      = 8 * time.Second

	cacheSize = 256
)

// coinGeckoIDs maps ticker symbols to CoinGecko coin IDs. Symbols not
// listed here fall back to the lowercased symbol.
var coinGeckoIDs = map[string]string{
	"USDC":  "usd-coin",
	"USDT":  "tether",
	"DAI":   "dai",
	"WETH":  "weth",
	"ETH":   "ethereum",
	"LINK":  "chainlink",
	"UNI":   "uniswap",
	"PEPE":  "pepe",
	"AERO":  "aerodrome-finance",
	"WBTC":  "wrapped-bitcoin",
	"BRETT": "brett-base",
}

// Ensure Provider implements PriceFeed.
var _ app.PriceFeed = (*Provider)(nil)

// ProviderConfig holds configuration for the price feed provider.
type ProviderConfig struct {
	CoinGeckoURL string
	CMCURL       string
	CMCAPIKey    string
	CacheTTL     time.Duration
	Retries      int
	RetryBackoff time.Duration
	Timeout      time.Duration
}

// DefaultProviderConfig returns sensible defaults.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		CoinGeckoURL: defaultCoinGeckoURL,
		CMCURL:       defaultCMCURL,
		CacheTTL:     defaultCacheTTL,
		Retries:      defaultRetries,
		RetryBackoff: defaultRetryBackoff,
		Timeout:      defaultTimeout,
	}
}

type providerMetrics struct {
	lookupsTotal  metric.Int64Counter
	fallbackTotal metric.Int64Counter
	cacheHits     metric.Int64Counter
}

// Provider serves USD prices by symbol. Fresh lookups go to CoinGecko
// with retries; if every attempt fails the provider falls back to
// CoinMarketCap. Resolved prices are cached for CacheTTL.
type Provider struct {
	config    ProviderConfig
	coinGecko httpclient.Client
	cmc       httpclient.Client
	cache     *expirable.LRU[string, decimal.Decimal]
	limiter   *ratelimit.Limiter
	logger    logger.LoggerInterface

	tracer  trace.Tracer
	metrics *providerMetrics
}

// NewProvider creates a new price feed provider.
func NewProvider(cfg ProviderConfig, log logger.LoggerInterface) (*Provider, error) {
	if cfg.CoinGeckoURL == "" {
		cfg.CoinGeckoURL = defaultCoinGeckoURL
	}
	if cfg.CMCURL == "" {
		cfg.CMCURL = defaultCMCURL
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.Retries <= 0 {
		cfg.Retries = defaultRetries
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	tracer := otel.Tracer(tracerName)

	coinGecko, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("coingecko"),
		httpclient.WithBaseURL(cfg.CoinGeckoURL),
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithTraceOptions(tracer, httpclient.TraceRequest, httpclient.TraceResponse),
		httpclient.WithHeaders(map[string]string{
			"Accept": "application/json",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create coingecko client: %w", err)
	}

	cmcHeaders := map[string]string{"Accept": "application/json"}
	if cfg.CMCAPIKey != "" {
		cmcHeaders["X-CMC_PRO_API_KEY"] = cfg.CMCAPIKey
	}
	cmc, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("coinmarketcap"),
		httpclient.WithBaseURL(cfg.CMCURL),
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithTraceOptions(tracer, httpclient.TraceRequest, httpclient.TraceResponse),
		httpclient.WithHeaders(cmcHeaders),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create coinmarketcap client: %w", err)
	}

	p := &Provider{
		config:    cfg,
		coinGecko: coinGecko,
		cmc:       cmc,
		cache:     expirable.NewLRU[string, decimal.Decimal](cacheSize, nil, cfg.CacheTTL),
		limiter:   ratelimit.New(30), // CoinGecko free tier allowance
		logger:    log,
		tracer:    tracer,
	}

	if err := p.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return p, nil
}

func (p *Provider) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	p.metrics = &providerMetrics{}

	p.metrics.lookupsTotal, err = meter.Int64Counter(
		"feed_lookups_total",
		metric.WithDescription("Total upstream price lookups"),
	)
	if err != nil {
		return err
	}

	p.metrics.fallbackTotal, err = meter.Int64Counter(
		"feed_fallback_total",
		metric.WithDescription("Lookups served by the fallback upstream"),
	)
	if err != nil {
		return err
	}

	p.metrics.cacheHits, err = meter.Int64Counter(
		"feed_cache_hits_total",
		metric.WithDescription("Price lookups served from cache"),
	)
	if err != nil {
		return err
	}

	return nil
}

// USDPrices resolves USD prices for the given ticker symbols. Symbols
// that no upstream knows are simply absent from the returned map; an
// error is returned only when every upstream is unreachable and
// nothing could be resolved.
func (p *Provider) USDPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	ctx, span := p.tracer.Start(ctx, "feed.usd_prices",
		trace.WithAttributes(attribute.Int("symbols", len(symbols))),
	)
	defer span.End()

	prices := make(map[string]decimal.Decimal, len(symbols))
	var missing []string

	for _, s := range symbols {
		sym := strings.ToUpper(strings.TrimSpace(s))
		if sym == "" {
			continue
		}
		if price, ok := p.cache.Get(sym); ok {
			p.metrics.cacheHits.Add(ctx, 1)
			prices[sym] = price
			continue
		}
		missing = append(missing, sym)
	}

	if len(missing) == 0 {
		return prices, nil
	}

	fetched, err := p.fetchCoinGecko(ctx, missing)
	if err != nil {
		p.logger.Warn(ctx, "coingecko lookup failed, falling back", "error", err)
		p.metrics.fallbackTotal.Add(ctx, 1)
		fetched, err = p.fetchCMC(ctx, missing)
	}
	if err != nil {
		if len(prices) > 0 {
			// Serve what the cache had rather than failing the pass.
			return prices, nil
		}
		return nil, apperror.New(apperror.CodeFeedUnavailable, apperror.WithCause(err))
	}

	for sym, price := range fetched {
		p.cache.Add(sym, price)
		prices[sym] = price
	}

	span.SetAttributes(attribute.Int("resolved", len(prices)))
	return prices, nil
}

// fetchCoinGecko queries /simple/price, retrying transient failures.
func (p *Provider) fetchCoinGecko(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	ids := make([]string, 0, len(symbols))
	idToSymbol := make(map[string]string, len(symbols))
	for _, sym := range symbols {
		id, ok := coinGeckoIDs[sym]
		if !ok {
			id = strings.ToLower(sym)
		}
		ids = append(ids, id)
		idToSymbol[id] = sym
	}

	var lastErr error
	for attempt := 0; attempt < p.config.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.config.RetryBackoff):
			}
		}

		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		p.metrics.lookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("upstream", "coingecko")))

		var result map[string]struct {
			USD float64 `json:"usd"`
		}
		resp, err := p.coinGecko.NewRequestWithOptions(
			httpclient.WithLabels(httpclient.NewLabel("endpoint", "simple_price")),
		).
			SetQueryParam("ids", strings.Join(ids, ",")).
			SetQueryParam("vs_currencies", "usd").
			SetResult(&result).
			Get(ctx, "/simple/price")
		if err != nil {
			lastErr = err
			continue
		}
		if resp.IsError() {
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.String())
			continue
		}

		prices := make(map[string]decimal.Decimal, len(result))
		for id, entry := range result {
			sym, ok := idToSymbol[id]
			if !ok {
				continue
			}
			prices[sym] = decimal.NewFromFloat(entry.USD)
		}
		return prices, nil
	}

	return nil, lastErr
}

// cmcResponse mirrors the quotes/latest payload.
type cmcResponse struct {
	Data map[string]struct {
		Quote struct {
			USD struct {
				Price float64 `json:"price"`
			} `json:"USD"`
		} `json:"quote"`
	} `json:"data"`
}

// fetchCMC queries CoinMarketCap quotes/latest as the fallback upstream.
func (p *Provider) fetchCMC(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	p.metrics.lookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("upstream", "coinmarketcap")))

	var result cmcResponse
	resp, err := p.cmc.NewRequestWithOptions(
		httpclient.WithLabels(httpclient.NewLabel("endpoint", "quotes_latest")),
		httpclient.WithResponseErrorHandler(cmcErrorHandler),
	).
		SetQueryParam("symbol", strings.Join(symbols, ",")).
		SetQueryParam("convert", "USD").
		SetResult(&result).
		Get(ctx, "/cryptocurrency/quotes/latest")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.String())
	}

	prices := make(map[string]decimal.Decimal, len(result.Data))
	for _, sym := range symbols {
		entry, ok := result.Data[sym]
		if !ok {
			continue
		}
		prices[sym] = decimal.NewFromFloat(entry.Quote.USD.Price)
	}
	return prices, nil
}

// cmcStatusError represents the status block CMC returns on errors.
type cmcStatusError struct {
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
}

func (e *cmcStatusError) Error() string {
	return fmt.Sprintf("coinmarketcap error %d: %s", e.Status.ErrorCode, e.Status.ErrorMessage)
}

func cmcErrorHandler(statusCode int, body []byte) error {
	if statusCode >= 400 {
		var apiErr cmcStatusError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Status.ErrorCode != 0 {
			return &apiErr
		}
		return fmt.Errorf("HTTP %d: %s", statusCode, string(body))
	}
	return nil
}

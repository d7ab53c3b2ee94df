// Package ethereum implements the blockchain ports over go-ethereum clients.
package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/devJaja/kivo-scanner/business/blockchain/app"
	"github.com/devJaja/kivo-scanner/business/blockchain/domain"
	"github.com/devJaja/kivo-scanner/internal/cache"
	"github.com/devJaja/kivo-scanner/internal/circuitbreaker"
	"github.com/devJaja/kivo-scanner/internal/logger"
)

const (
	tracerName = "gas"
	meterName  = "gas"
)

// Ensure Estimator implements CostEstimator.
var _ app.CostEstimator = (*Estimator)(nil)

// EstimatorConfig holds configuration for the swap cost estimator.
type EstimatorConfig struct {
	Multiplier  int64         // safety multiplier applied to every estimate
	CacheTTL    time.Duration // how long to cache per-chain gas prices
	MaxGasPrice *big.Int      // ceiling on reported gas price
}

// DefaultEstimatorConfig returns sensible defaults.
func DefaultEstimatorConfig() EstimatorConfig {
	maxGas := new(big.Int)
	maxGas.SetString("500000000000", 10) // 500 gwei

	return EstimatorConfig{
		Multiplier:  5,
		CacheTTL:    12 * time.Second, // ~1 block on mainnet
		MaxGasPrice: maxGas,
	}
}

type estimatorMetrics struct {
	priceFetches metric.Int64Counter
	fallbacks    metric.Int64Counter
	gasPriceGwei metric.Float64Gauge
	cacheHits    metric.Int64Counter
}

// gasBackend is the per-chain client with its own breaker, so a dead
// RPC on one network does not degrade estimates on the others.
type gasBackend struct {
	client *ethclient.Client
	cb     *circuitbreaker.CircuitBreaker[*big.Int]
}

// Estimator reads gas prices from each chain's node and turns them
// into swap cost estimates. It never returns an error: when the node
// is unreachable it falls back to a fixed per-kind cost.
type Estimator struct {
	config EstimatorConfig
	logger logger.LoggerInterface

	backends   map[uint64]*gasBackend
	priceCache *cache.Cache[uint64, *domain.GasPrice]

	tracer  trace.Tracer
	metrics *estimatorMetrics
}

// NewEstimator creates a swap cost estimator over the given clients.
func NewEstimator(cfg EstimatorConfig, clients map[uint64]*ethclient.Client, log logger.LoggerInterface) (*Estimator, error) {
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 5
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 12 * time.Second
	}

	e := &Estimator{
		config:     cfg,
		logger:     log,
		backends:   make(map[uint64]*gasBackend, len(clients)),
		priceCache: cache.New[uint64, *domain.GasPrice](cfg.CacheTTL),
		tracer:     otel.Tracer(tracerName),
	}

	for chainID, client := range clients {
		cbCfg := circuitbreaker.DefaultConfig(fmt.Sprintf("gas-%d", chainID))
		e.backends[chainID] = &gasBackend{
			client: client,
			cb:     circuitbreaker.New[*big.Int](cbCfg),
		}
	}

	if err := e.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return e, nil
}

func (e *Estimator) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	e.metrics = &estimatorMetrics{}

	e.metrics.priceFetches, err = meter.Int64Counter(
		"gas_price_fetches_total",
		metric.WithDescription("Total gas price fetch attempts"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return err
	}

	e.metrics.fallbacks, err = meter.Int64Counter(
		"gas_fallback_estimates_total",
		metric.WithDescription("Swap cost estimates served from the fixed fallback"),
		metric.WithUnit("{estimate}"),
	)
	if err != nil {
		return err
	}

	e.metrics.gasPriceGwei, err = meter.Float64Gauge(
		"gas_price_gwei",
		metric.WithDescription("Last observed gas price in gwei"),
		metric.WithUnit("gwei"),
	)
	if err != nil {
		return err
	}

	e.metrics.cacheHits, err = meter.Int64Counter(
		"gas_cache_hits_total",
		metric.WithDescription("Gas price cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// SwapCost estimates the cost of a swap on the chain. Falls back to
// the fixed per-kind cost when the gas price cannot be fetched.
func (e *Estimator) SwapCost(ctx context.Context, chainID uint64, kind domain.SwapKind) domain.SwapCost {
	ctx, span := e.tracer.Start(ctx, "gas.swap_cost",
		trace.WithAttributes(
			attribute.Int64("chain_id", int64(chainID)),
			attribute.String("kind", string(kind)),
		),
	)
	defer span.End()

	price, err := e.gasPrice(ctx, chainID)
	if err != nil {
		e.metrics.fallbacks.Add(ctx, 1)
		span.AddEvent("fallback_estimate", trace.WithAttributes(attribute.String("error", err.Error())))
		e.logger.Warn(ctx, "gas price unavailable, using fallback cost",
			"chain_id", chainID, "kind", kind, "error", err)
		return domain.NewFallbackSwapCost(chainID, kind, e.config.Multiplier)
	}

	cost := domain.NewSwapCost(chainID, kind, price, e.config.Multiplier)
	span.SetAttributes(attribute.Float64("cost_native", cost.CostNative.InexactFloat64()))
	return cost
}

// gasPrice fetches the chain's suggested gas price with caching.
func (e *Estimator) gasPrice(ctx context.Context, chainID uint64) (*domain.GasPrice, error) {
	if price, found := e.priceCache.Get(ctx, chainID); found {
		e.metrics.cacheHits.Add(ctx, 1)
		return price, nil
	}

	backend, ok := e.backends[chainID]
	if !ok {
		return nil, fmt.Errorf("no client for chain %d", chainID)
	}

	e.metrics.priceFetches.Add(ctx, 1, metric.WithAttributes(attribute.Int64("chain_id", int64(chainID))))

	wei, err := backend.cb.Execute(func() (*big.Int, error) {
		return backend.client.SuggestGasPrice(ctx)
	})
	if err != nil {
		return nil, err
	}

	if e.config.MaxGasPrice != nil && wei.Cmp(e.config.MaxGasPrice) > 0 {
		e.logger.Warn(ctx, "gas price exceeds max, clamping",
			"chain_id", chainID, "wei", wei.String())
		wei = e.config.MaxGasPrice
	}

	price := domain.NewGasPrice(wei)
	e.priceCache.Set(ctx, chainID, price, e.config.CacheTTL)
	e.metrics.gasPriceGwei.Record(ctx, price.Gwei, metric.WithAttributes(attribute.Int64("chain_id", int64(chainID))))

	return price, nil
}

// Close releases the estimator's cache.
func (e *Estimator) Close() {
	e.priceCache.Close()
}

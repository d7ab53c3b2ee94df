// Package uniswap implements the QuoteReader port against Uniswap-style AMMs.
package uniswap

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/devJaja/kivo-scanner/business/pricing/app"
	"github.com/devJaja/kivo-scanner/business/pricing/domain"
	"github.com/devJaja/kivo-scanner/internal/apperror"
	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/devJaja/kivo-scanner/internal/circuitbreaker"
	"github.com/devJaja/kivo-scanner/internal/config"
	"github.com/devJaja/kivo-scanner/internal/logger"
)

const (
	tracerName = "uniswap"
	meterName  = "uniswap"
)

// Ensure Reader implements QuoteReader.
var _ app.QuoteReader = (*Reader)(nil)

// readerMetrics holds OTEL metric instruments.
type readerMetrics struct {
	quotesTotal  metric.Int64Counter
	quoteLatency metric.Float64Histogram
	quoteSkips   metric.Int64Counter
}

// chainBackend bundles the per-chain node client and DEX contracts.
// Each chain gets its own circuit breaker so a flaky RPC on one
// network does not stop quoting on the others.
type chainBackend struct {
	client *ethclient.Client
	quoter common.Address
	venues map[string]config.VenueConfig
	cb     *circuitbreaker.CircuitBreaker[[]byte]
}

// Reader reads swap quotes from the configured chains. V3 venues go
// through QuoterV2.quoteExactInputSingle across all fee tiers; V2
// venues use the router's getAmountsOut view call.
type Reader struct {
	chains    map[uint64]*chainBackend
	quoterABI abi.ABI
	v2ABI     abi.ABI
	feeTiers  []int

	registry *asset.Registry
	logger   logger.LoggerInterface

	tracer  trace.Tracer
	metrics *readerMetrics
}

// NewReader creates a quote reader for all configured chains.
func NewReader(clients map[uint64]*ethclient.Client, chains []config.ChainConfig, registry *asset.Registry, log logger.LoggerInterface) (*Reader, error) {
	quoterABI, err := abi.JSON(strings.NewReader(QuoterV2ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse quoter ABI: %w", err)
	}
	v2ABI, err := abi.JSON(strings.NewReader(V2RouterABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse v2 router ABI: %w", err)
	}

	r := &Reader{
		chains:    make(map[uint64]*chainBackend, len(chains)),
		quoterABI: quoterABI,
		v2ABI:     v2ABI,
		feeTiers:  []int{FeeTier001, FeeTier005, FeeTier030, FeeTier100},
		registry:  registry,
		logger:    log,
		tracer:    otel.Tracer(tracerName),
	}

	for _, chain := range chains {
		client, ok := clients[chain.ChainID]
		if !ok {
			return nil, apperror.New(apperror.CodeUnknownChain,
				apperror.WithContext(fmt.Sprintf("no client for chain %d", chain.ChainID)))
		}

		venues := make(map[string]config.VenueConfig, len(chain.Venues))
		for _, v := range chain.Venues {
			venues[v.Name] = v
		}

		cbCfg := circuitbreaker.DefaultConfig(fmt.Sprintf("quoter-%s", chain.Name))
		r.chains[chain.ChainID] = &chainBackend{
			client: client,
			quoter: chain.QuoterAddressHex(),
			venues: venues,
			cb:     circuitbreaker.New[[]byte](cbCfg),
		}
	}

	if err := r.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return r, nil
}

func (r *Reader) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	r.metrics = &readerMetrics{}

	r.metrics.quotesTotal, err = meter.Int64Counter(
		"amm_quotes_total",
		metric.WithDescription("Total quote requests"),
	)
	if err != nil {
		return err
	}

	r.metrics.quoteLatency, err = meter.Float64Histogram(
		"amm_quote_latency_ms",
		metric.WithDescription("Quote request latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	r.metrics.quoteSkips, err = meter.Int64Counter(
		"amm_quote_skips_total",
		metric.WithDescription("Total routes skipped without a quote"),
	)
	if err != nil {
		return err
	}

	return nil
}

// BestQuote quotes on the chain's canonical V3 quoter, trying every
// fee tier and keeping the highest output.
func (r *Reader) BestQuote(ctx context.Context, chainID uint64, tokenIn, tokenOut common.Address, amountIn *big.Int) domain.Result {
	backend, ok := r.chains[chainID]
	if !ok {
		return r.skip(ctx, domain.SkipRPCError, apperror.New(apperror.CodeUnknownChain,
			apperror.WithContext(fmt.Sprintf("chain %d is not configured", chainID))))
	}
	return r.quoteV3(ctx, chainID, backend, backend.quoter, "", tokenIn, tokenOut, amountIn)
}

// VenueQuote quotes on one configured venue by name.
func (r *Reader) VenueQuote(ctx context.Context, chainID uint64, venue string, tokenIn, tokenOut common.Address, amountIn *big.Int) domain.Result {
	backend, ok := r.chains[chainID]
	if !ok {
		return r.skip(ctx, domain.SkipRPCError, apperror.New(apperror.CodeUnknownChain,
			apperror.WithContext(fmt.Sprintf("chain %d is not configured", chainID))))
	}

	vcfg, ok := backend.venues[venue]
	if !ok {
		return r.skip(ctx, domain.SkipVenueUnknown, nil)
	}

	if vcfg.Type == "v2" {
		return r.quoteV2(ctx, chainID, backend, vcfg, tokenIn, tokenOut, amountIn)
	}
	return r.quoteV3(ctx, chainID, backend, vcfg.RouterAddressHex(), venue, tokenIn, tokenOut, amountIn)
}

func (r *Reader) quoteV3(ctx context.Context, chainID uint64, backend *chainBackend, quoter common.Address, venue string, tokenIn, tokenOut common.Address, amountIn *big.Int) domain.Result {
	ctx, span := r.tracer.Start(ctx, "amm.quote_v3",
		trace.WithAttributes(
			attribute.Int64("chain_id", int64(chainID)),
			attribute.String("venue", venue),
			attribute.String("token_in", tokenIn.Hex()),
			attribute.String("token_out", tokenOut.Hex()),
			attribute.String("amount_in", amountIn.String()),
		),
	)
	defer span.End()

	start := time.Now()
	r.metrics.quotesTotal.Add(ctx, 1)

	// Try each fee tier to find the best quote
	var bestQuote *QuoteResult
	var bestFeeTier int
	var lastErr error

	for _, feeTier := range r.feeTiers {
		quote, err := r.quoteFeeTier(ctx, backend, quoter, tokenIn, tokenOut, amountIn, feeTier)
		if err != nil {
			lastErr = err
			span.AddEvent("fee_tier_failed",
				trace.WithAttributes(
					attribute.Int("fee_tier", feeTier),
					attribute.String("error", err.Error()),
				),
			)
			continue
		}

		// Keep the best (highest output) quote
		if bestQuote == nil || quote.AmountOut.Cmp(bestQuote.AmountOut) > 0 {
			bestQuote = quote
			bestFeeTier = feeTier
		}
	}

	r.metrics.quoteLatency.Record(ctx, float64(time.Since(start).Milliseconds()))

	if bestQuote == nil {
		span.SetStatus(codes.Error, "no valid quote")
		if apperror.GetCode(lastErr) == apperror.CodeCircuitOpen {
			return r.skip(ctx, domain.SkipRPCError, lastErr)
		}
		// Every tier reverted: treat as a missing pool rather than a node fault.
		return r.skip(ctx, domain.SkipNoPool, nil)
	}

	assetIn := r.resolveAsset(chainID, tokenIn)
	assetOut := r.resolveAsset(chainID, tokenOut)

	result := domain.NewQuote(chainID, venue,
		assetIn, assetOut,
		asset.NewAmount(assetIn, amountIn),
		asset.NewAmount(assetOut, bestQuote.AmountOut),
		bestQuote.GasEstimate.Uint64(), bestFeeTier)

	span.SetAttributes(
		attribute.String("amount_out", bestQuote.AmountOut.String()),
		attribute.Int("fee_tier", bestFeeTier),
	)
	span.SetStatus(codes.Ok, "quote received")

	r.logger.Debug(ctx, "v3 quote",
		"chain_id", chainID,
		"venue", venue,
		"token_in", tokenIn.Hex(),
		"token_out", tokenOut.Hex(),
		"amount_out", bestQuote.AmountOut.String(),
		"fee_tier", bestFeeTier,
	)

	return domain.Ok(result)
}

// quoteFeeTier calls QuoterV2.quoteExactInputSingle for a specific fee tier.
func (r *Reader) quoteFeeTier(ctx context.Context, backend *chainBackend, quoter common.Address, tokenIn, tokenOut common.Address, amountIn *big.Int, feeTier int) (*QuoteResult, error) {
	callData, err := r.quoterABI.Pack("quoteExactInputSingle", QuoteExactInputSingleParams{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		AmountIn:          amountIn,
		Fee:               big.NewInt(int64(feeTier)),
		SqrtPriceLimitX96: big.NewInt(0), // No price limit
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode call: %w", err)
	}

	result, err := backend.cb.Execute(func() ([]byte, error) {
		return backend.client.CallContract(ctx, ethereum.CallMsg{
			To:   &quoter,
			Data: callData,
		}, nil)
	})
	if err != nil {
		if apperror.GetCode(err) == apperror.CodeCircuitOpen {
			return nil, err
		}
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("quoter call failed for fee tier %d", feeTier)))
	}

	outputs, err := r.quoterABI.Unpack("quoteExactInputSingle", result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}

	if len(outputs) < 4 {
		return nil, fmt.Errorf("unexpected output length: %d", len(outputs))
	}

	return &QuoteResult{
		AmountOut:               outputs[0].(*big.Int),
		SqrtPriceX96After:       outputs[1].(*big.Int),
		InitializedTicksCrossed: outputs[2].(uint32),
		GasEstimate:             outputs[3].(*big.Int),
	}, nil
}

func (r *Reader) quoteV2(ctx context.Context, chainID uint64, backend *chainBackend, vcfg config.VenueConfig, tokenIn, tokenOut common.Address, amountIn *big.Int) domain.Result {
	ctx, span := r.tracer.Start(ctx, "amm.quote_v2",
		trace.WithAttributes(
			attribute.Int64("chain_id", int64(chainID)),
			attribute.String("venue", vcfg.Name),
			attribute.String("token_in", tokenIn.Hex()),
			attribute.String("token_out", tokenOut.Hex()),
		),
	)
	defer span.End()

	start := time.Now()
	r.metrics.quotesTotal.Add(ctx, 1)

	callData, err := r.v2ABI.Pack("getAmountsOut", amountIn, []common.Address{tokenIn, tokenOut})
	if err != nil {
		return r.skip(ctx, domain.SkipRPCError, fmt.Errorf("failed to encode call: %w", err))
	}

	router := vcfg.RouterAddressHex()
	result, err := backend.cb.Execute(func() ([]byte, error) {
		return backend.client.CallContract(ctx, ethereum.CallMsg{
			To:   &router,
			Data: callData,
		}, nil)
	})

	r.metrics.quoteLatency.Record(ctx, float64(time.Since(start).Milliseconds()))

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if apperror.GetCode(err) == apperror.CodeCircuitOpen {
			return r.skip(ctx, domain.SkipRPCError, err)
		}
		// getAmountsOut reverts when the pair has no reserves.
		return r.skip(ctx, domain.SkipNoPool, nil)
	}

	outputs, err := r.v2ABI.Unpack("getAmountsOut", result)
	if err != nil {
		return r.skip(ctx, domain.SkipRPCError, fmt.Errorf("failed to decode result: %w", err))
	}

	amounts, ok := outputs[0].([]*big.Int)
	if !ok || len(amounts) < 2 {
		return r.skip(ctx, domain.SkipRPCError, fmt.Errorf("unexpected getAmountsOut output"))
	}

	assetIn := r.resolveAsset(chainID, tokenIn)
	assetOut := r.resolveAsset(chainID, tokenOut)

	quote := domain.NewQuote(chainID, vcfg.Name,
		assetIn, assetOut,
		asset.NewAmount(assetIn, amountIn),
		asset.NewAmount(assetOut, amounts[len(amounts)-1]),
		0, 0)

	span.SetStatus(codes.Ok, "quote received")

	r.logger.Debug(ctx, "v2 quote",
		"chain_id", chainID,
		"venue", vcfg.Name,
		"token_in", tokenIn.Hex(),
		"token_out", tokenOut.Hex(),
		"amount_out", quote.AmountOut.Raw().String(),
	)

	return domain.Ok(quote)
}

func (r *Reader) skip(ctx context.Context, reason domain.SkipReason, err error) domain.Result {
	r.metrics.quoteSkips.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", string(reason))))
	return domain.Skipped(reason, err)
}

// resolveAsset attempts to find the asset in the registry.
func (r *Reader) resolveAsset(chainID uint64, addr common.Address) *asset.Asset {
	if a, ok := r.registry.GetToken(chainID, addr); ok {
		return a
	}
	// Return a generic ERC20 if not found
	return asset.NewAsset(
		asset.NewTokenAssetID(chainID, addr),
		addr.Hex()[:8],
		18, // Assume 18 decimals
	)
}

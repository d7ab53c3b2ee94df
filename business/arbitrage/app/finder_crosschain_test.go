package app

import (
	"context"
	"errors"
	"io"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devJaja/kivo-scanner/business/arbitrage/domain"
	blockchainDomain "github.com/devJaja/kivo-scanner/business/blockchain/domain"
	bridgeApp "github.com/devJaja/kivo-scanner/business/bridge/app"
	bridgeDomain "github.com/devJaja/kivo-scanner/business/bridge/domain"
	pricingDomain "github.com/devJaja/kivo-scanner/business/pricing/domain"
	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/devJaja/kivo-scanner/internal/config"
	"github.com/devJaja/kivo-scanner/internal/logger"
)

func testLogger() *logger.Logger {
	return logger.New(io.Discard, logger.Level(0), "arbitrage-test", nil)
}

func testConfig() *config.Config {
	return &config.Config{
		Chains: []config.ChainConfig{
			{Name: "base", ChainID: asset.ChainIDBase},
			{Name: "arbitrum", ChainID: asset.ChainIDArbitrum},
		},
		Scanner: config.ScannerConfig{
			CrossChain: config.CrossChainConfig{
				MinProfitPercent: 0.5,
				MinNetUSD:        1,
				NotionalUSD:      1000,
			},
			Dex: config.DexConfig{
				MinProfitPercent: 0.3,
				MinNetUSD:        1,
				SlippagePercent:  0.5,
				NotionalUSD:      500,
			},
			Fast: config.FastConfig{
				MinProfitPercent: 0.1,
				MinNetUSD:        1,
				NotionalUSD:      1000,
				ScanLimit:        20,
				TopN:             20,
			},
		},
	}
}

// stubQuoteReader serves canned USD prices (token -> USDC) per chain
// and canned venue rates for round-trip routes.
type stubQuoteReader struct {
	registry *asset.Registry
	usd      map[uint64]map[string]decimal.Decimal // chain -> symbol -> USD price
	venues   map[string]decimal.Decimal            // venue -> amountOut/amountIn rate
}

func (s *stubQuoteReader) quote(chainID uint64, venue string, tokenIn, tokenOut common.Address, amountIn *big.Int, rate decimal.Decimal) pricingDomain.Result {
	in, ok := s.registry.GetToken(chainID, tokenIn)
	if !ok {
		return pricingDomain.Skipped(pricingDomain.SkipTokenUnknown, nil)
	}
	out, ok := s.registry.GetToken(chainID, tokenOut)
	if !ok {
		return pricingDomain.Skipped(pricingDomain.SkipTokenUnknown, nil)
	}

	amtIn := asset.NewAmount(in, amountIn)
	outDec := amtIn.ToDecimal().Mul(rate).Truncate(int32(out.Decimals()))
	amtOut, err := asset.ParseDecimal(out, outDec)
	if err != nil {
		return pricingDomain.Skipped(pricingDomain.SkipNoPool, nil)
	}
	return pricingDomain.Ok(pricingDomain.NewQuote(chainID, venue, in, out, amtIn, amtOut, 80000, 500))
}

func (s *stubQuoteReader) BestQuote(_ context.Context, chainID uint64, tokenIn, tokenOut common.Address, amountIn *big.Int) pricingDomain.Result {
	in, ok := s.registry.GetToken(chainID, tokenIn)
	if !ok {
		return pricingDomain.Skipped(pricingDomain.SkipTokenUnknown, nil)
	}
	rate, ok := s.usd[chainID][in.Symbol()]
	if !ok {
		return pricingDomain.Skipped(pricingDomain.SkipNoPool, nil)
	}
	return s.quote(chainID, "", tokenIn, tokenOut, amountIn, rate)
}

func (s *stubQuoteReader) VenueQuote(_ context.Context, chainID uint64, venue string, tokenIn, tokenOut common.Address, amountIn *big.Int) pricingDomain.Result {
	rate, ok := s.venues[venue]
	if !ok {
		return pricingDomain.Skipped(pricingDomain.SkipVenueUnknown, nil)
	}
	return s.quote(chainID, venue, tokenIn, tokenOut, amountIn, rate)
}

// stubBridge returns usable zero-fee quotes unless told otherwise.
type stubBridge struct {
	mu      sync.Mutex
	tooLow  bool
	err     error
	calls   int
	lastReq bridgeApp.QuoteRequest
}

func (s *stubBridge) SuggestedFees(_ context.Context, req bridgeApp.QuoteRequest) (*bridgeDomain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &bridgeDomain.Quote{
		OriginChainID:      req.OriginChainID,
		DestinationChainID: req.DestinationChainID,
		Token:              req.Amount.Asset(),
		InputAmount:        req.Amount,
		TotalFee:           asset.NewAmount(req.Amount.Asset(), big.NewInt(0)),
		NetAmount:          req.Amount,
		IsAmountTooLow:     s.tooLow,
		Timestamp:          time.Now(),
	}, nil
}

type stubGas struct {
	costUSD decimal.Decimal
}

func (s *stubGas) SwapCostUSD(_ context.Context, _ uint64, _ blockchainDomain.SwapKind) decimal.Decimal {
	return s.costUSD
}

type stubAdvisor struct {
	approve bool
	err     error
	routes  []TriangularRoute
	calls   int
}

func (s *stubAdvisor) Approve(_ context.Context, _ *domain.Opportunity) (bool, error) {
	s.calls++
	return s.approve, s.err
}

func (s *stubAdvisor) SuggestRoutes(_ context.Context, _ uint64) []TriangularRoute {
	return s.routes
}

func newCrossChainFixture(t *testing.T, advisor Advisor) (*CrossChainFinder, *stubQuoteReader, *stubBridge) {
	t.Helper()

	registry := asset.DefaultRegistry()
	reader := &stubQuoteReader{
		registry: registry,
		usd:      map[uint64]map[string]decimal.Decimal{},
	}
	bridge := &stubBridge{}
	finder := NewCrossChainFinder(
		testConfig(),
		NewCalculator(reader, registry),
		bridge,
		&stubGas{costUSD: decimal.NewFromInt(1)},
		advisor,
		registry,
		domain.NewActivityLog(),
		testLogger(),
	)
	return finder, reader, bridge
}

func TestCrossChainFinderFindsSpread(t *testing.T) {
	finder, reader, _ := newCrossChainFixture(t, nil)
	reader.usd = map[uint64]map[string]decimal.Decimal{
		asset.ChainIDBase:     {"WETH": d("3000")},
		asset.ChainIDArbitrum: {"WETH": d("3100")},
	}

	found, err := finder.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 1)

	opp := found[0]
	assert.Equal(t, domain.KindCrossChain, opp.Kind)
	assert.Equal(t, "WETH", opp.Token)
	assert.Equal(t, uint64(asset.ChainIDBase), opp.FromChainID)
	assert.Equal(t, uint64(asset.ChainIDArbitrum), opp.ToChainID)
	assert.True(t, opp.Profit.Net().GreaterThan(d("30")), "net was %s", opp.Profit.Net())
}

func TestCrossChainFinderSpreadMatchesPricingDomain(t *testing.T) {
	finder, reader, _ := newCrossChainFixture(t, nil)
	reader.usd = map[uint64]map[string]decimal.Decimal{
		asset.ChainIDBase:     {"WETH": d("3000")},
		asset.ChainIDArbitrum: {"WETH": d("3100")},
	}

	found, err := finder.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 1)

	want := pricingDomain.DirectionalSpreadPercent(d("3000"), d("3100"))
	assert.True(t, found[0].SpreadPercent.Equal(want),
		"spread %s, want %s", found[0].SpreadPercent, want)
}

func TestCrossChainFinderIgnoresThinSpread(t *testing.T) {
	finder, reader, _ := newCrossChainFixture(t, nil)
	// 0.1% spread, below the 0.5% threshold.
	reader.usd = map[uint64]map[string]decimal.Decimal{
		asset.ChainIDBase:     {"WETH": d("3000")},
		asset.ChainIDArbitrum: {"WETH": d("3003")},
	}

	found, err := finder.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestCrossChainFinderSkipsUnusableBridgeQuote(t *testing.T) {
	finder, reader, bridge := newCrossChainFixture(t, nil)
	bridge.tooLow = true
	reader.usd = map[uint64]map[string]decimal.Decimal{
		asset.ChainIDBase:     {"WETH": d("3000")},
		asset.ChainIDArbitrum: {"WETH": d("3100")},
	}

	found, err := finder.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Equal(t, 1, bridge.calls)
}

func TestCrossChainFinderAdvisorRejects(t *testing.T) {
	advisor := &stubAdvisor{approve: false}
	finder, reader, _ := newCrossChainFixture(t, advisor)
	reader.usd = map[uint64]map[string]decimal.Decimal{
		asset.ChainIDBase:     {"WETH": d("3000")},
		asset.ChainIDArbitrum: {"WETH": d("3100")},
	}

	found, err := finder.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Equal(t, 1, advisor.calls)
}

func TestCrossChainFinderAdvisorErrorRejects(t *testing.T) {
	advisor := &stubAdvisor{approve: true, err: errors.New("advisor down")}
	finder, reader, _ := newCrossChainFixture(t, advisor)
	reader.usd = map[uint64]map[string]decimal.Decimal{
		asset.ChainIDBase:     {"WETH": d("3000")},
		asset.ChainIDArbitrum: {"WETH": d("3100")},
	}

	found, err := finder.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, found, "advisor failure must degrade to deny")
}

func TestCrossChainFinderAdvisorApproves(t *testing.T) {
	advisor := &stubAdvisor{approve: true}
	finder, reader, _ := newCrossChainFixture(t, advisor)
	reader.usd = map[uint64]map[string]decimal.Decimal{
		asset.ChainIDBase:     {"WETH": d("3000")},
		asset.ChainIDArbitrum: {"WETH": d("3100")},
	}

	found, err := finder.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestCrossChainFinderReportsProgress(t *testing.T) {
	finder, reader, _ := newCrossChainFixture(t, nil)
	reader.usd = map[uint64]map[string]decimal.Decimal{}

	var events []ScanProgress
	finder.SetProgressFunc(func(p ScanProgress) { events = append(events, p) })

	_, err := finder.Scan(context.Background())
	require.NoError(t, err)

	// Every token x ordered chain pair produces one progress event.
	require.NotEmpty(t, events)
	assert.Equal(t, len(crossChainWatchlist)*2, len(events))
	last := events[len(events)-1]
	assert.Equal(t, "cross-chain", last.Strategy)
	assert.Equal(t, last.Total, last.Scanned)
}

package app

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/devJaja/kivo-scanner/business/pricing/domain"
	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/devJaja/kivo-scanner/internal/cache"
)

type countingReader struct {
	bestCalls  int
	venueCalls int
	result     domain.Result
}

func (c *countingReader) BestQuote(_ context.Context, _ uint64, _, _ common.Address, _ *big.Int) domain.Result {
	c.bestCalls++
	return c.result
}

func (c *countingReader) VenueQuote(_ context.Context, _ uint64, _ string, _, _ common.Address, _ *big.Int) domain.Result {
	c.venueCalls++
	return c.result
}

func okResult(t *testing.T) domain.Result {
	t.Helper()

	reg := asset.DefaultRegistry()
	weth, ok := reg.GetBySymbolAndChain("WETH", asset.ChainIDBase)
	if !ok {
		t.Fatal("WETH not registered on Base")
	}
	usdc, ok := reg.GetBySymbolAndChain("USDC", asset.ChainIDBase)
	if !ok {
		t.Fatal("USDC not registered on Base")
	}

	amountIn := asset.NewAmount(weth, big.NewInt(1e18))
	amountOut := asset.NewAmount(usdc, big.NewInt(3000e6))
	q := domain.NewQuote(asset.ChainIDBase, "", weth, usdc, amountIn, amountOut, 80000, 500)
	return domain.Ok(q)
}

func TestCachedReaderSingleUnderlyingCall(t *testing.T) {
	ctx := context.Background()
	inner := &countingReader{result: okResult(t)}
	reader := NewCachedReader(inner, 3*time.Second)
	defer reader.Close()

	tokenIn := common.HexToAddress("0x4200000000000000000000000000000000000006")
	tokenOut := common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")
	amount := big.NewInt(1e18)

	for i := 0; i < 5; i++ {
		res := reader.BestQuote(ctx, asset.ChainIDBase, tokenIn, tokenOut, amount)
		if !res.OK() {
			t.Fatalf("call %d: expected ok result, got %s", i, res)
		}
	}

	if inner.bestCalls != 1 {
		t.Errorf("underlying calls = %d, want 1", inner.bestCalls)
	}
}

func TestCachedReaderExpiresWithClock(t *testing.T) {
	ctx := context.Background()
	clock := cache.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	inner := &countingReader{result: okResult(t)}
	reader := NewCachedReader(inner, 3*time.Second, WithClock(clock))
	defer reader.Close()

	tokenIn := common.HexToAddress("0x4200000000000000000000000000000000000006")
	tokenOut := common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")
	amount := big.NewInt(1e18)

	reader.BestQuote(ctx, asset.ChainIDBase, tokenIn, tokenOut, amount)
	clock.Advance(2 * time.Second)
	reader.BestQuote(ctx, asset.ChainIDBase, tokenIn, tokenOut, amount)

	if inner.bestCalls != 1 {
		t.Fatalf("underlying calls before expiry = %d, want 1", inner.bestCalls)
	}

	clock.Advance(2 * time.Second) // past the 3s TTL
	reader.BestQuote(ctx, asset.ChainIDBase, tokenIn, tokenOut, amount)

	if inner.bestCalls != 2 {
		t.Errorf("underlying calls after expiry = %d, want 2", inner.bestCalls)
	}
}

func TestCachedReaderDoesNotCacheSkips(t *testing.T) {
	ctx := context.Background()
	inner := &countingReader{result: domain.Skipped(domain.SkipNoPool, nil)}
	reader := NewCachedReader(inner, 3*time.Second)
	defer reader.Close()

	tokenIn := common.HexToAddress("0x4200000000000000000000000000000000000006")
	tokenOut := common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")
	amount := big.NewInt(1e18)

	reader.VenueQuote(ctx, asset.ChainIDBase, "uniswap", tokenIn, tokenOut, amount)
	reader.VenueQuote(ctx, asset.ChainIDBase, "uniswap", tokenIn, tokenOut, amount)

	if inner.venueCalls != 2 {
		t.Errorf("underlying calls = %d, want 2 (skips are not cached)", inner.venueCalls)
	}
}

func TestCachedReaderKeysIncludeVenueAndAmount(t *testing.T) {
	ctx := context.Background()
	inner := &countingReader{result: okResult(t)}
	reader := NewCachedReader(inner, 3*time.Second)
	defer reader.Close()

	tokenIn := common.HexToAddress("0x4200000000000000000000000000000000000006")
	tokenOut := common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")

	reader.VenueQuote(ctx, asset.ChainIDBase, "uniswap", tokenIn, tokenOut, big.NewInt(1e18))
	reader.VenueQuote(ctx, asset.ChainIDBase, "sushiswap", tokenIn, tokenOut, big.NewInt(1e18))
	reader.VenueQuote(ctx, asset.ChainIDBase, "uniswap", tokenIn, tokenOut, big.NewInt(2e18))

	if inner.venueCalls != 3 {
		t.Errorf("underlying calls = %d, want 3 (distinct routes must not share cache entries)", inner.venueCalls)
	}
}

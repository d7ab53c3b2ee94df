// Package domain contains the core domain types for the pricing context.
package domain

import (
	"fmt"
	"time"

	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/shopspring/decimal"
)

// Pair represents a trading pair using typed assets.
type Pair struct {
	Base  *asset.Asset // e.g., WETH
	Quote *asset.Asset // e.g., USDC
}

// NewPair creates a new trading pair.
func NewPair(base, quote *asset.Asset) Pair {
	if base == nil || quote == nil {
		panic("pricing: nil asset in pair")
	}
	return Pair{Base: base, Quote: quote}
}

// String returns the pair symbol (e.g., "WETH-USDC").
func (p Pair) String() string {
	return p.Base.Symbol() + "-" + p.Quote.Symbol()
}

// Invert returns the inverted pair (e.g., WETH-USDC -> USDC-WETH).
func (p Pair) Invert() Pair {
	return Pair{Base: p.Quote, Quote: p.Base}
}

// Quote represents a DEX price quote on a specific chain and venue.
type Quote struct {
	ChainID     uint64
	Venue       string // configured venue name, empty for the chain's canonical quoter
	TokenIn     *asset.Asset
	TokenOut    *asset.Asset
	AmountIn    asset.Amount
	AmountOut   asset.Amount
	Price       asset.Price // Effective price (AmountOut/AmountIn adjusted)
	GasEstimate uint64
	FeeTier     int // Fee tier in hundredths of a bip (e.g., 3000 = 0.30%); 0 for V2 pools
	Timestamp   time.Time
}

// FeeTierPercent returns the fee tier as a percentage string (e.g., "0.30%").
func (q Quote) FeeTierPercent() string {
	percent := float64(q.FeeTier) / 10000.0
	return fmt.Sprintf("%.2f%%", percent)
}

// NewQuote creates a new DEX quote.
func NewQuote(chainID uint64, venue string, tokenIn, tokenOut *asset.Asset, amountIn, amountOut asset.Amount, gasEstimate uint64, feeTier int) Quote {
	rate := decimal.Zero
	if !amountIn.IsZero() {
		rate = amountOut.ToDecimal().Div(amountIn.ToDecimal())
	}
	price := asset.NewPriceNow(tokenIn, tokenOut, rate)

	return Quote{
		ChainID:     chainID,
		Venue:       venue,
		TokenIn:     tokenIn,
		TokenOut:    tokenOut,
		AmountIn:    amountIn,
		AmountOut:   amountOut,
		Price:       price,
		GasEstimate: gasEstimate,
		FeeTier:     feeTier,
		Timestamp:   time.Now(),
	}
}

// SkipReason explains why a quote could not be produced for a route.
// A skip is not a failure of the scan pass: the route is dropped and
// the pass continues.
type SkipReason string

const (
	SkipNone         SkipReason = ""
	SkipTokenUnknown SkipReason = "TOKEN_UNKNOWN" // token has no deployment on the chain
	SkipNoPool       SkipReason = "NO_POOL"       // no pool with liquidity for the pair
	SkipRPCError     SkipReason = "RPC_ERROR"     // node call failed
	SkipVenueUnknown SkipReason = "VENUE_UNKNOWN" // venue is not configured on the chain
)

// Result is the outcome of a quote request: either a Quote or a skip
// with a reason. Err carries the underlying cause for RPC skips.
type Result struct {
	Quote *Quote
	Skip  SkipReason
	Err   error
}

// Ok wraps a successful quote.
func Ok(q Quote) Result {
	return Result{Quote: &q}
}

// Skipped marks a route as unquotable. err may be nil.
func Skipped(reason SkipReason, err error) Result {
	return Result{Skip: reason, Err: err}
}

// OK reports whether the result carries a usable quote.
func (r Result) OK() bool {
	return r.Quote != nil
}

// String renders the result for logs.
func (r Result) String() string {
	if r.OK() {
		return fmt.Sprintf("quote %s->%s out=%s", r.Quote.TokenIn.Symbol(), r.Quote.TokenOut.Symbol(), r.Quote.AmountOut.String())
	}
	if r.Err != nil {
		return fmt.Sprintf("skip %s: %v", r.Skip, r.Err)
	}
	return fmt.Sprintf("skip %s", r.Skip)
}

// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/devJaja/kivo-scanner/business/pricing/domain"
)

// QuoteReader reads swap quotes from on-chain AMMs. Implementations
// never return an error for an unquotable route: the per-route outcome
// is carried in the Result.
type QuoteReader interface {
	// BestQuote quotes tokenIn -> tokenOut on the chain's canonical
	// V3 quoter, trying every fee tier and keeping the best output.
	BestQuote(ctx context.Context, chainID uint64, tokenIn, tokenOut common.Address, amountIn *big.Int) domain.Result

	// VenueQuote quotes tokenIn -> tokenOut on one configured venue
	// (a V2 router or a V3 quoter, depending on the venue type).
	VenueQuote(ctx context.Context, chainID uint64, venue string, tokenIn, tokenOut common.Address, amountIn *big.Int) domain.Result
}

// PriceFeed serves USD reference prices by ticker symbol. Symbols that
// cannot be resolved are absent from the returned map.
type PriceFeed interface {
	USDPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}

// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"context"
	"math/big"

	"github.com/devJaja/kivo-scanner/business/arbitrage/domain"
	pricingApp "github.com/devJaja/kivo-scanner/business/pricing/app"
	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/shopspring/decimal"
)

// Calculator prices tokens in USD through on-chain quotes and turns
// raw spreads into itemized profit figures. All finders share one.
type Calculator struct {
	reader   pricingApp.QuoteReader
	registry *asset.Registry
}

func NewCalculator(reader pricingApp.QuoteReader, registry *asset.Registry) *Calculator {
	return &Calculator{reader: reader, registry: registry}
}

// USDPrice quotes one whole token against USDC on the given chain.
// It returns false when the token or a pool is missing on that chain.
func (c *Calculator) USDPrice(ctx context.Context, chainID uint64, symbol string) (decimal.Decimal, bool) {
	if symbol == "USDC" {
		return decimal.NewFromInt(1), true
	}

	token, ok := c.registry.GetBySymbolAndChain(symbol, chainID)
	if !ok {
		return decimal.Zero, false
	}
	usdc, ok := c.registry.GetBySymbolAndChain("USDC", chainID)
	if !ok {
		return decimal.Zero, false
	}

	result := c.reader.BestQuote(ctx, chainID, token.Address(), usdc.Address(), OneToken(token))
	if !result.OK() {
		return decimal.Zero, false
	}
	return result.Quote.Price.Rate(), true
}

// OneToken returns one whole token in raw units.
func OneToken(a *asset.Asset) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(a.Decimals())), nil)
}

// SpreadEconomics converts a buy/sell price pair into a trade sized to
// notionalUSD and its gross profit. TradeAmount is in token units.
func SpreadEconomics(buyPrice, sellPrice, notionalUSD decimal.Decimal) (tradeAmount, grossUSD decimal.Decimal) {
	if buyPrice.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	tradeAmount = notionalUSD.Div(buyPrice)
	grossUSD = tradeAmount.Mul(sellPrice.Sub(buyPrice))
	return tradeAmount, grossUSD
}

// CrossChainProfit itemizes a bridged trade.
func CrossChainProfit(grossUSD, bridgeFeeUSD, gasUSD decimal.Decimal) domain.ProfitBreakdown {
	return domain.ProfitBreakdown{
		GrossUSD:     grossUSD,
		BridgeFeeUSD: bridgeFeeUSD,
		GasUSD:       gasUSD,
	}
}

// DexProfit itemizes a same-chain venue trade. Slippage is budgeted as
// a percentage of gross profit.
func DexProfit(grossUSD, gasUSD, slippagePercent decimal.Decimal) domain.ProfitBreakdown {
	return domain.ProfitBreakdown{
		GrossUSD:    grossUSD,
		GasUSD:      gasUSD,
		SlippageUSD: grossUSD.Mul(slippagePercent).Div(decimal.NewFromInt(100)),
	}
}

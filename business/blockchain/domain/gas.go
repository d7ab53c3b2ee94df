// Package domain contains the core domain types for the blockchain context.
package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// GasPrice represents gas price information on one chain.
type GasPrice struct {
	Wei       *big.Int
	Gwei      float64
	Timestamp time.Time
}

// NewGasPrice creates a GasPrice from wei.
func NewGasPrice(wei *big.Int) *GasPrice {
	gwei := new(big.Float).SetInt(wei)
	gwei.Quo(gwei, big.NewFloat(1e9))
	gweiFloat, _ := gwei.Float64()

	return &GasPrice{
		Wei:       wei,
		Gwei:      gweiFloat,
		Timestamp: time.Now(),
	}
}

// SwapKind selects the gas profile for a trade.
type SwapKind string

const (
	// SwapSingle is one swap on one venue.
	SwapSingle SwapKind = "single"
	// SwapMulti is a multi-hop route (two or three pools).
	SwapMulti SwapKind = "multi"
)

// GasUnits returns the fixed gas budget assumed for the swap kind.
func (k SwapKind) GasUnits() uint64 {
	if k == SwapMulti {
		return 350_000
	}
	return 180_000
}

// FallbackCostNative is the assumed base cost in the chain's gas coin
// when the node cannot be queried.
func (k SwapKind) FallbackCostNative() decimal.Decimal {
	if k == SwapMulti {
		return decimal.NewFromFloat(0.002)
	}
	return decimal.NewFromFloat(0.001)
}

// SwapCost is the estimated cost of executing a swap, expressed in the
// chain's native gas coin. The safety multiplier is already applied.
type SwapCost struct {
	ChainID    uint64
	Kind       SwapKind
	GasUnits   uint64
	GasPrice   *GasPrice // nil when the estimate fell back to the fixed cost
	CostNative decimal.Decimal
	Fallback   bool
	Timestamp  time.Time
}

var weiPerNative = decimal.New(1, 18)

// NewSwapCost computes the cost from a live gas price:
// gasUnits * gasPrice * multiplier, converted to the native coin.
func NewSwapCost(chainID uint64, kind SwapKind, price *GasPrice, multiplier int64) SwapCost {
	units := kind.GasUnits()
	wei := new(big.Int).Mul(price.Wei, new(big.Int).SetUint64(units))
	wei.Mul(wei, big.NewInt(multiplier))

	return SwapCost{
		ChainID:    chainID,
		Kind:       kind,
		GasUnits:   units,
		GasPrice:   price,
		CostNative: decimal.NewFromBigInt(wei, 0).Div(weiPerNative),
		Timestamp:  time.Now(),
	}
}

// NewFallbackSwapCost builds the fixed-cost estimate used when the
// node is unreachable: fallback base cost * multiplier.
func NewFallbackSwapCost(chainID uint64, kind SwapKind, multiplier int64) SwapCost {
	return SwapCost{
		ChainID:    chainID,
		Kind:       kind,
		GasUnits:   kind.GasUnits(),
		CostNative: kind.FallbackCostNative().Mul(decimal.NewFromInt(multiplier)),
		Fallback:   true,
		Timestamp:  time.Now(),
	}
}

// CostUSD converts the native cost at the given native coin USD price.
func (c SwapCost) CostUSD(nativeUSD decimal.Decimal) decimal.Decimal {
	return c.CostNative.Mul(nativeUSD)
}

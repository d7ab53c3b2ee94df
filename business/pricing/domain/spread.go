// Package domain contains the core domain types for the pricing context.
package domain

import "github.com/shopspring/decimal"

// Spread represents the price difference for one asset between two
// markets (two venues on a chain, or the same token on two chains).
type Spread struct {
	BuyPrice  decimal.Decimal // price on the cheaper market
	SellPrice decimal.Decimal // price on the richer market
	Absolute  decimal.Decimal // SellPrice - BuyPrice
	Percent   decimal.Decimal // Absolute / BuyPrice * 100
	Direction SpreadDirection
}

// SpreadDirection indicates which market is cheaper.
type SpreadDirection string

const (
	SpreadFirstCheaper  SpreadDirection = "FIRST_CHEAPER"  // buy on the first market
	SpreadSecondCheaper SpreadDirection = "SECOND_CHEAPER" // buy on the second market
	SpreadNone          SpreadDirection = "NONE"           // prices are equal
)

var hundred = decimal.NewFromInt(100)

// CalculateSpread orders two prices into a buy/sell spread. The percent
// is always relative to the cheaper side, so it is non-negative.
func CalculateSpread(first, second decimal.Decimal) Spread {
	var s Spread
	switch first.Cmp(second) {
	case -1:
		s.BuyPrice, s.SellPrice = first, second
		s.Direction = SpreadFirstCheaper
	case 1:
		s.BuyPrice, s.SellPrice = second, first
		s.Direction = SpreadSecondCheaper
	default:
		s.BuyPrice, s.SellPrice = first, second
		s.Direction = SpreadNone
	}

	s.Absolute = s.SellPrice.Sub(s.BuyPrice)
	if !s.BuyPrice.IsZero() {
		s.Percent = s.Absolute.Div(s.BuyPrice).Mul(hundred)
	}
	return s
}

// DirectionalSpreadPercent returns (to - from) / from * 100, signed.
// Used when the trade direction is fixed (buy on from, sell on to).
func DirectionalSpreadPercent(from, to decimal.Decimal) decimal.Decimal {
	if from.IsZero() {
		return decimal.Zero
	}
	return to.Sub(from).Div(from).Mul(hundred)
}

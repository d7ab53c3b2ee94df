package asset

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// PricePrecision is the fixed-point scale for exchange rates, matching
// 18-decimal native precision.
const PricePrecision = 18

var pricePrecisionMultiplier = new(big.Int).Exp(big.NewInt(10), big.NewInt(PricePrecision), nil)

// Price is the rate of one base asset expressed in the quote asset,
// stored fixed-point so conversions stay exact.
type Price struct {
	rate      *big.Int
	base      *Asset
	quote     *Asset
	timestamp time.Time
}

func NewPrice(base, quote *Asset, rate decimal.Decimal, timestamp time.Time) Price {
	if base == nil || quote == nil {
		panic("asset: nil base or quote in price")
	}
	if rate.IsNegative() {
		panic("asset: negative price rate")
	}

	return Price{
		rate:      rate.Shift(PricePrecision).BigInt(),
		base:      base,
		quote:     quote,
		timestamp: timestamp,
	}
}

func NewPriceNow(base, quote *Asset, rate decimal.Decimal) Price {
	return NewPrice(base, quote, rate, time.Now())
}

func (p Price) Rate() decimal.Decimal {
	if p.rate == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(p.rate, -PricePrecision)
}

func (p Price) Base() *Asset         { return p.base }
func (p Price) Quote() *Asset        { return p.quote }
func (p Price) Timestamp() time.Time { return p.timestamp }

func (p Price) IsZero() bool { return p.rate == nil || p.rate.Sign() == 0 }

// Pair returns a display label like "WETH/USDC".
func (p Price) Pair() string {
	if p.base == nil || p.quote == nil {
		return "???/???"
	}
	return fmt.Sprintf("%s/%s", p.base.Symbol(), p.quote.Symbol())
}

// Invert swaps base and quote, so WETH/USDC at 2000 becomes USDC/WETH
// at 0.0005.
func (p Price) Invert() Price {
	inverted := Price{base: p.quote, quote: p.base, timestamp: p.timestamp}
	if p.IsZero() {
		inverted.rate = big.NewInt(0)
		return inverted
	}

	precisionSquared := new(big.Int).Mul(pricePrecisionMultiplier, pricePrecisionMultiplier)
	inverted.rate = new(big.Int).Div(precisionSquared, p.rate)
	return inverted
}

// Convert turns an amount of the base asset into the equivalent amount
// of the quote asset, rescaling between the two assets' decimals.
func (p Price) Convert(amount Amount) (Amount, error) {
	if amount.Asset() == nil {
		return Amount{}, ErrNilAsset
	}
	if !amount.Asset().ID().Equals(p.base.ID()) {
		return Amount{}, fmt.Errorf("%w: expected %s, got %s",
			ErrAssetMismatch, p.base.Symbol(), amount.Asset().Symbol())
	}

	// quoteRaw = baseRaw * rate / 10^18, rescaled by the decimals gap.
	result := new(big.Int).Mul(amount.Raw(), p.rate)
	result.Div(result, pricePrecisionMultiplier)

	shift := int64(p.quote.Decimals()) - int64(p.base.Decimals())
	switch {
	case shift > 0:
		result.Mul(result, new(big.Int).Exp(big.NewInt(10), big.NewInt(shift), nil))
	case shift < 0:
		result.Div(result, new(big.Int).Exp(big.NewInt(10), big.NewInt(-shift), nil))
	}

	return NewAmount(p.quote, result), nil
}

func (p Price) String() string {
	return fmt.Sprintf("%s %s", p.Rate().String(), p.Pair())
}

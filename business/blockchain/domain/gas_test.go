package domain

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewGasPrice(t *testing.T) {
	price := NewGasPrice(big.NewInt(25_000_000_000)) // 25 gwei

	if price.Gwei != 25.0 {
		t.Errorf("Gwei = %f, want 25.0", price.Gwei)
	}
	if price.Wei.Cmp(big.NewInt(25_000_000_000)) != 0 {
		t.Errorf("Wei = %s, want 25000000000", price.Wei)
	}
}

func TestSwapKindGasUnits(t *testing.T) {
	if got := SwapSingle.GasUnits(); got != 180_000 {
		t.Errorf("SwapSingle.GasUnits() = %d, want 180000", got)
	}
	if got := SwapMulti.GasUnits(); got != 350_000 {
		t.Errorf("SwapMulti.GasUnits() = %d, want 350000", got)
	}
}

func TestNewSwapCost(t *testing.T) {
	tests := []struct {
		name       string
		kind       SwapKind
		gasPriceWei int64
		multiplier int64
		want       string // native coin
	}{
		{
			// 180000 * 1 gwei * 5 = 9e14 wei
			name:       "single swap at 1 gwei",
			kind:       SwapSingle,
			gasPriceWei: 1_000_000_000,
			multiplier: 5,
			want:       "0.0009",
		},
		{
			// 350000 * 1 gwei * 5 = 1.75e15 wei
			name:       "multi swap at 1 gwei",
			kind:       SwapMulti,
			gasPriceWei: 1_000_000_000,
			multiplier: 5,
			want:       "0.00175",
		},
		{
			// 180000 * 20 gwei * 5 = 1.8e16 wei
			name:       "single swap at 20 gwei",
			kind:       SwapSingle,
			gasPriceWei: 20_000_000_000,
			multiplier: 5,
			want:       "0.018",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost := NewSwapCost(8453, tt.kind, NewGasPrice(big.NewInt(tt.gasPriceWei)), tt.multiplier)

			if !cost.CostNative.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("CostNative = %s, want %s", cost.CostNative, tt.want)
			}
			if cost.Fallback {
				t.Error("live estimate must not be marked as fallback")
			}
			if cost.ChainID != 8453 {
				t.Errorf("ChainID = %d, want 8453", cost.ChainID)
			}
		})
	}
}

func TestNewFallbackSwapCost(t *testing.T) {
	single := NewFallbackSwapCost(42161, SwapSingle, 5)
	if !single.CostNative.Equal(decimal.RequireFromString("0.005")) {
		t.Errorf("single fallback = %s, want 0.005", single.CostNative)
	}
	if !single.Fallback {
		t.Error("fallback estimate must be marked as fallback")
	}
	if single.GasPrice != nil {
		t.Error("fallback estimate must not carry a gas price")
	}

	multi := NewFallbackSwapCost(42161, SwapMulti, 5)
	if !multi.CostNative.Equal(decimal.RequireFromString("0.01")) {
		t.Errorf("multi fallback = %s, want 0.01", multi.CostNative)
	}
}

func TestSwapCostUSD(t *testing.T) {
	cost := NewSwapCost(8453, SwapSingle, NewGasPrice(big.NewInt(1_000_000_000)), 5)

	got := cost.CostUSD(decimal.NewFromInt(3000))
	want := decimal.RequireFromString("2.7") // 0.0009 * 3000

	if !got.Equal(want) {
		t.Errorf("CostUSD = %s, want %s", got, want)
	}
}

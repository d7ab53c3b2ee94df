package app

import (
	"context"
	"math/big"
	"testing"

	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestSpreadEconomics(t *testing.T) {
	tests := []struct {
		name       string
		buy, sell  string
		notional   string
		wantAmount string
		wantGross  string
	}{
		{"two percent spread", "100", "102", "1000", "10", "20"},
		{"zero spread", "100", "100", "1000", "10", "0"},
		{"negative spread", "102", "100", "1000", "9.8039215686274510", "-19.6078431372549020"},
		{"zero buy price", "0", "100", "1000", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, gross := SpreadEconomics(d(tt.buy), d(tt.sell), d(tt.notional))
			if !amount.Equal(d(tt.wantAmount)) {
				t.Errorf("tradeAmount = %s, want %s", amount, tt.wantAmount)
			}
			if !gross.Equal(d(tt.wantGross)) {
				t.Errorf("gross = %s, want %s", gross, tt.wantGross)
			}
		})
	}
}

func TestCrossChainProfitEndToEnd(t *testing.T) {
	// Token at 100 on the origin, 102 on the destination, $1000 in.
	_, gross := SpreadEconomics(d("100"), d("102"), d("1000"))
	profit := CrossChainProfit(gross, d("0.5"), d("0.3"))

	if !profit.GrossUSD.Equal(d("20")) {
		t.Errorf("gross = %s, want 20", profit.GrossUSD)
	}
	if got := profit.Net().StringFixed(2); got != "19.20" {
		t.Errorf("net = %s, want 19.20", got)
	}
}

func TestDexProfitSlippageBudget(t *testing.T) {
	profit := DexProfit(d("100"), d("4.5"), d("2"))

	if !profit.SlippageUSD.Equal(d("2")) {
		t.Errorf("slippage = %s, want 2", profit.SlippageUSD)
	}
	if !profit.Net().Equal(d("93.5")) {
		t.Errorf("net = %s, want 93.5", profit.Net())
	}
}

func TestOneToken(t *testing.T) {
	usdc := asset.MustNewToken(asset.ChainIDBase, asset.AddrUSDCBase, "USDC", "USD Coin", 6)
	if got := OneToken(usdc); got.Cmp(big.NewInt(1_000_000)) != 0 {
		t.Errorf("OneToken(USDC) = %s, want 1000000", got)
	}
}

func TestCalculatorUSDPriceForUSDC(t *testing.T) {
	calc := NewCalculator(nil, asset.DefaultRegistry())

	price, ok := calc.USDPrice(context.Background(), asset.ChainIDBase, "USDC")
	if !ok || !price.Equal(d("1")) {
		t.Errorf("USDC price = %s ok=%v, want 1", price, ok)
	}
}

func TestCalculatorUSDPriceUnknownToken(t *testing.T) {
	calc := NewCalculator(nil, asset.DefaultRegistry())

	if _, ok := calc.USDPrice(context.Background(), asset.ChainIDBase, "DOGE"); ok {
		t.Error("unknown token should not resolve")
	}
}

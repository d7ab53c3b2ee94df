package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestProfitBreakdownNet(t *testing.T) {
	tests := []struct {
		name    string
		profit  ProfitBreakdown
		wantNet string
	}{
		{
			name: "cross-chain with bridge and gas",
			profit: ProfitBreakdown{
				GrossUSD:     d("20"),
				BridgeFeeUSD: d("0.5"),
				GasUSD:       d("0.3"),
			},
			wantNet: "19.2",
		},
		{
			name: "same-chain with slippage",
			profit: ProfitBreakdown{
				GrossUSD:    d("100"),
				GasUSD:      d("4.5"),
				SlippageUSD: d("2"),
			},
			wantNet: "93.5",
		},
		{
			name: "flat fee only",
			profit: ProfitBreakdown{
				GrossUSD:   d("1.5"),
				FlatFeeUSD: d("1"),
			},
			wantNet: "0.5",
		},
		{
			name: "costs exceed gross",
			profit: ProfitBreakdown{
				GrossUSD:     d("1"),
				BridgeFeeUSD: d("2"),
			},
			wantNet: "-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profit.Net(); !got.Equal(d(tt.wantNet)) {
				t.Errorf("Net() = %s, want %s", got, tt.wantNet)
			}
		})
	}
}

func TestProfitBreakdownNetEqualsGrossMinusCosts(t *testing.T) {
	p := ProfitBreakdown{
		GrossUSD:     d("37.125"),
		BridgeFeeUSD: d("1.005"),
		GasUSD:       d("2.25"),
		SlippageUSD:  d("0.7425"),
		FlatFeeUSD:   d("1"),
	}

	want := p.GrossUSD.Sub(p.Costs())
	tolerance := decimal.New(1, -6)
	if diff := p.Net().Sub(want).Abs(); diff.GreaterThan(tolerance) {
		t.Errorf("Net() = %s, Gross - Costs = %s", p.Net(), want)
	}
}

func TestProfitBreakdownProfitable(t *testing.T) {
	p := ProfitBreakdown{GrossUSD: d("1.06"), FlatFeeUSD: d("1")}

	if !p.Profitable(d("0.05")) {
		t.Errorf("net %s should clear 0.05", p.Net())
	}
	if p.Profitable(d("0.06")) {
		t.Errorf("net %s should not clear 0.06", p.Net())
	}
}

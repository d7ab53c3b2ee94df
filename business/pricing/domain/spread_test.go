package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculateSpread(t *testing.T) {
	tests := []struct {
		name          string
		first         string
		second        string
		wantBuy       string
		wantSell      string
		wantAbsolute  string
		wantPercent   string
		wantDirection SpreadDirection
	}{
		{
			name:          "first market cheaper",
			first:         "100",
			second:        "102",
			wantBuy:       "100",
			wantSell:      "102",
			wantAbsolute:  "2",
			wantPercent:   "2",
			wantDirection: SpreadFirstCheaper,
		},
		{
			name:          "second market cheaper",
			first:         "1.001",
			second:        "1.000",
			wantBuy:       "1.000",
			wantSell:      "1.001",
			wantAbsolute:  "0.001",
			wantPercent:   "0.1",
			wantDirection: SpreadSecondCheaper,
		},
		{
			name:          "equal prices",
			first:         "3000",
			second:        "3000",
			wantBuy:       "3000",
			wantSell:      "3000",
			wantAbsolute:  "0",
			wantPercent:   "0",
			wantDirection: SpreadNone,
		},
		{
			name:          "stablecoin deviation",
			first:         "0.9995",
			second:        "1.0005",
			wantBuy:       "0.9995",
			wantSell:      "1.0005",
			wantAbsolute:  "0.001",
			wantPercent:   "0.1000500250125063",
			wantDirection: SpreadFirstCheaper,
		},
		{
			name:          "zero buy price yields zero percent",
			first:         "0",
			second:        "5",
			wantBuy:       "0",
			wantSell:      "5",
			wantAbsolute:  "5",
			wantPercent:   "0",
			wantDirection: SpreadFirstCheaper,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := decimal.RequireFromString(tt.first)
			second := decimal.RequireFromString(tt.second)

			got := CalculateSpread(first, second)

			if !got.BuyPrice.Equal(decimal.RequireFromString(tt.wantBuy)) {
				t.Errorf("BuyPrice = %s, want %s", got.BuyPrice, tt.wantBuy)
			}
			if !got.SellPrice.Equal(decimal.RequireFromString(tt.wantSell)) {
				t.Errorf("SellPrice = %s, want %s", got.SellPrice, tt.wantSell)
			}
			if !got.Absolute.Equal(decimal.RequireFromString(tt.wantAbsolute)) {
				t.Errorf("Absolute = %s, want %s", got.Absolute, tt.wantAbsolute)
			}
			wantPercent := decimal.RequireFromString(tt.wantPercent)
			if got.Percent.Sub(wantPercent).Abs().GreaterThan(decimal.New(1, -12)) {
				t.Errorf("Percent = %s, want %s", got.Percent, tt.wantPercent)
			}
			if got.Direction != tt.wantDirection {
				t.Errorf("Direction = %s, want %s", got.Direction, tt.wantDirection)
			}
		})
	}
}

func TestCalculateSpreadPercentNonNegative(t *testing.T) {
	pairs := [][2]string{
		{"100", "102"},
		{"102", "100"},
		{"1.0005", "0.9995"},
		{"0.9995", "1.0005"},
	}

	for _, p := range pairs {
		s := CalculateSpread(decimal.RequireFromString(p[0]), decimal.RequireFromString(p[1]))
		if s.Percent.IsNegative() {
			t.Errorf("CalculateSpread(%s, %s).Percent = %s, want >= 0", p[0], p[1], s.Percent)
		}
		if s.SellPrice.LessThan(s.BuyPrice) {
			t.Errorf("CalculateSpread(%s, %s): sell %s < buy %s", p[0], p[1], s.SellPrice, s.BuyPrice)
		}
	}
}

func TestDirectionalSpreadPercent(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want string
	}{
		{name: "positive spread", from: "100", to: "102", want: "2"},
		{name: "negative spread", from: "102", to: "100", want: "-1.9607843137254902"},
		{name: "no spread", from: "3000", to: "3000", want: "0"},
		{name: "zero from price", from: "0", to: "10", want: "0"},
		{name: "sub-percent spread", from: "2000", to: "2003", want: "0.15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DirectionalSpreadPercent(
				decimal.RequireFromString(tt.from),
				decimal.RequireFromString(tt.to),
			)
			want := decimal.RequireFromString(tt.want)
			if got.Sub(want).Abs().GreaterThan(decimal.New(1, -12)) {
				t.Errorf("DirectionalSpreadPercent(%s, %s) = %s, want %s", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

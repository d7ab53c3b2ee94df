package domain

import "github.com/shopspring/decimal"

// ProfitBreakdown itemizes the USD economics of an opportunity.
// Components that do not apply to a given kind stay zero.
type ProfitBreakdown struct {
	GrossUSD     decimal.Decimal
	BridgeFeeUSD decimal.Decimal
	GasUSD       decimal.Decimal
	SlippageUSD  decimal.Decimal
	FlatFeeUSD   decimal.Decimal
}

// Net returns gross profit minus all cost components.
func (p ProfitBreakdown) Net() decimal.Decimal {
	return p.GrossUSD.
		Sub(p.BridgeFeeUSD).
		Sub(p.GasUSD).
		Sub(p.SlippageUSD).
		Sub(p.FlatFeeUSD)
}

// Costs returns the total USD cost of execution.
func (p ProfitBreakdown) Costs() decimal.Decimal {
	return p.BridgeFeeUSD.Add(p.GasUSD).Add(p.SlippageUSD).Add(p.FlatFeeUSD)
}

// Profitable reports whether the net profit clears the threshold.
func (p ProfitBreakdown) Profitable(minNetUSD decimal.Decimal) bool {
	return p.Net().GreaterThan(minNetUSD)
}

// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies how an opportunity would be executed.
type Kind string

const (
	// KindCrossChain buys on one chain, bridges, sells on another.
	KindCrossChain Kind = "cross_chain"
	// KindTwoPool buys on one venue and sells on another, same chain.
	KindTwoPool Kind = "two_pool"
	// KindTriangular routes through three pools back to the start token.
	KindTriangular Kind = "triangular"
	// KindOracle trades a DEX price against the reference feed price.
	KindOracle Kind = "oracle"
	// KindStable trades a stablecoin depeg on one chain.
	KindStable Kind = "stable"
)

// RiskLevel is a coarse execution risk classification.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Opportunity represents a detected arbitrage opportunity, ready for
// ranking and display.
type Opportunity struct {
	ID   string
	Kind Kind

	Token       string // traded token symbol
	FromChainID uint64
	ToChainID   uint64 // equal to FromChainID for same-chain kinds

	BuyVenue  string
	SellVenue string
	Route     []string // leg descriptions for triangular routes

	BuyPrice      decimal.Decimal
	SellPrice     decimal.Decimal
	SpreadPercent decimal.Decimal

	TradeAmount decimal.Decimal // in token units
	Profit      ProfitBreakdown
	Risk        RiskLevel

	CreatedAt time.Time
}

// NewID builds the canonical opportunity ID.
func NewID(token string, fromChainID, toChainID uint64) string {
	return fmt.Sprintf("opp_%d_%s_%d_%d", time.Now().UnixMilli(), token, fromChainID, toChainID)
}

// DedupKey identifies the route an opportunity trades. Two
// opportunities with the same key are the same route observed at
// different times.
func (o *Opportunity) DedupKey() string {
	return fmt.Sprintf("%s_%d_%d", o.Token, o.FromChainID, o.ToChainID)
}

// IsCrossChain reports whether execution involves a bridge.
func (o *Opportunity) IsCrossChain() bool {
	return o.FromChainID != o.ToChainID
}

// CrossChainRisk classifies a cross-chain opportunity by its spread.
// Wide spreads tend to be stale prices rather than free money.
func CrossChainRisk(spreadPercent decimal.Decimal) RiskLevel {
	if spreadPercent.GreaterThan(decimal.NewFromInt(2)) {
		return RiskMedium
	}
	return RiskLow
}

// SameChainRisk classifies a same-chain opportunity by net profit.
func SameChainRisk(netUSD decimal.Decimal) RiskLevel {
	switch {
	case netUSD.GreaterThan(decimal.NewFromInt(50)):
		return RiskLow
	case netUSD.GreaterThan(decimal.NewFromInt(20)):
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Rank sorts opportunities by net profit, highest first. The sort is
// stable so equal-profit opportunities keep their discovery order.
func Rank(opps []*Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].Profit.Net().GreaterThan(opps[j].Profit.Net())
	})
}

// Merge combines a fresh scan pass with the previously shown
// opportunities: fresh results win on duplicate routes, and the result
// is truncated to limit. Both inputs are expected ranked.
func Merge(fresh, previous []*Opportunity, limit int) []*Opportunity {
	seen := make(map[string]bool, len(fresh)+len(previous))
	merged := make([]*Opportunity, 0, limit)

	for _, opp := range fresh {
		if seen[opp.DedupKey()] {
			continue
		}
		seen[opp.DedupKey()] = true
		merged = append(merged, opp)
		if len(merged) == limit {
			return merged
		}
	}
	for _, opp := range previous {
		if seen[opp.DedupKey()] {
			continue
		}
		seen[opp.DedupKey()] = true
		merged = append(merged, opp)
		if len(merged) == limit {
			break
		}
	}
	return merged
}

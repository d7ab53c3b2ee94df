// Package domain holds the history context's record types.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpportunityRecord is one persisted scan finding.
type OpportunityRecord struct {
	ID            int64
	OpportunityID string
	Kind          string
	Token         string
	FromChainID   uint64
	ToChainID     uint64
	SpreadPercent decimal.Decimal
	NetUSD        decimal.Decimal
	Risk          string
	FoundAt       time.Time
}

// ExecutionRecord is one persisted execution attempt.
type ExecutionRecord struct {
	ID            int64
	OpportunityID string
	Success       bool
	Detail        string // deposit tx hash on success, error text on failure
	ExecutedAt    time.Time
}

// Summary aggregates the history tables for display.
type Summary struct {
	Opportunities uint64
	Executions    uint64
	Successes     uint64
	BestNetUSD    decimal.Decimal
}

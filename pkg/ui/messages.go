package ui

import (
	"github.com/devJaja/kivo-scanner/business/arbitrage/domain"
)

// Message types for TUI updates

// OpportunitiesMsg replaces the displayed opportunity set.
type OpportunitiesMsg struct {
	Opportunities []*domain.Opportunity
}

// ProgressMsg updates the scan progress gauge.
type ProgressMsg struct {
	Strategy string
	Scanned  int
	Total    int
	Current  string
}

// ActivityMsg appends one activity entry to the log viewport.
type ActivityMsg struct {
	Entry domain.ActivityEntry
}

// ScanStateMsg reflects the scheduler's running state.
type ScanStateMsg struct {
	Strategy string
	Running  bool
}

// TimeoutMsg shows the no-results timeout banner.
type TimeoutMsg struct {
	Message string
}

// ExecutionMsg tracks bridge execution stages for one opportunity.
type ExecutionMsg struct {
	OpportunityID string
	Stage         string // "approve", "deposit", "fill"
	Status        string // "pending", "txSuccess", "error"
	TxHash        string
}

// StatsMsg updates the scan statistics pane.
type StatsMsg struct {
	Passes        uint64
	Found         uint64
	Executed      uint64
	HistoryRows   uint64
	HistoryOnline bool
}

// ChainStatusMsg updates the RPC health line for one chain.
type ChainStatusMsg struct {
	Name     string
	ChainID  uint64
	Online   bool
	GasGwei  float64
	Fallback bool
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

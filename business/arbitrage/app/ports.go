// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"context"

	"github.com/devJaja/kivo-scanner/business/arbitrage/domain"
)

// Finder is a single scan strategy. A Scan pass is synchronous and
// returns the opportunities found in this pass, already ranked.
type Finder interface {
	// Name identifies the strategy in logs and activity entries.
	Name() string

	// Scan runs one full pass over the strategy's search space.
	// Individual route failures are skipped, not returned as errors;
	// an error means the pass as a whole could not run.
	Scan(ctx context.Context) ([]*domain.Opportunity, error)
}

// TriangularRoute is a three-hop circular route suggestion.
type TriangularRoute struct {
	Tokens []string // e.g. WETH -> USDC -> DAI -> WETH, start token repeated last
	Venues []string // venue per hop, len(Tokens)-1
}

// Advisor is the LLM advisory gate. Implementations must be safe for
// concurrent use.
type Advisor interface {
	// Approve asks whether an opportunity should surface. Only an
	// unambiguous yes passes; errors and any other answer reject.
	Approve(ctx context.Context, opp *domain.Opportunity) (bool, error)

	// SuggestRoutes proposes triangular routes for a chain. A failed
	// or unparseable response yields an empty slice, never an error
	// that stops the scan.
	SuggestRoutes(ctx context.Context, chainID uint64) []TriangularRoute
}

// Reporter receives scan output for display.
type Reporter interface {
	Start(ctx context.Context) error

	// ReportOpportunities replaces the displayed opportunity set.
	ReportOpportunities(opps []*domain.Opportunity)

	// ReportProgress updates the scan progress display.
	ReportProgress(p ScanProgress)

	// ReportActivity appends a line of scan activity.
	ReportActivity(entry domain.ActivityEntry)

	// ReportScanState signals that a scan started or stopped. timedOut
	// is set when the stop came from the no-results timeout.
	ReportScanState(strategy string, running, timedOut bool)

	Stop() error
}

// ScanProgress describes where a pass currently is.
type ScanProgress struct {
	Strategy string
	Scanned  int
	Total    int
	Current  string // route being evaluated, for display
}

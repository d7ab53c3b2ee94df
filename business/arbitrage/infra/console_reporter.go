// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/devJaja/kivo-scanner/business/arbitrage/app"
	"github.com/devJaja/kivo-scanner/business/arbitrage/domain"
	"github.com/devJaja/kivo-scanner/internal/asset"
)

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a new ConsoleReporter.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{
		out: os.Stdout,
	}
}

// Start initializes the console reporter.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "Kivo Scanner Started")
	fmt.Fprintln(r.out, "====================")
	return nil
}

// ReportOpportunities prints the current opportunity set.
func (r *ConsoleReporter) ReportOpportunities(opps []*domain.Opportunity) {
	if len(opps) == 0 {
		return
	}

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "OPPORTUNITIES (%d)  %s\n", len(opps), time.Now().Format(time.RFC3339))
	fmt.Fprintln(r.out, "================================================================================")
	for _, opp := range opps {
		fmt.Fprintf(r.out, "%-12s %-10s %s -> %s\n", opp.Kind, opp.Token, opp.BuyVenue, opp.SellVenue)
		if opp.IsCrossChain() {
			fmt.Fprintf(r.out, "  Chains:       %s -> %s\n",
				asset.ChainName(opp.FromChainID), asset.ChainName(opp.ToChainID))
		}
		if len(opp.Route) > 0 {
			fmt.Fprintf(r.out, "  Route:        %v\n", opp.Route)
		}
		fmt.Fprintf(r.out, "  Spread:       %s%%\n", opp.SpreadPercent.StringFixed(4))
		fmt.Fprintf(r.out, "  Gross:        $%s\n", opp.Profit.GrossUSD.StringFixed(2))
		fmt.Fprintf(r.out, "  Costs:        $%s\n", opp.Profit.Costs().StringFixed(2))
		fmt.Fprintf(r.out, "  Net:          $%s\n", opp.Profit.Net().StringFixed(2))
		fmt.Fprintf(r.out, "  Risk:         %s\n", opp.Risk)
		fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	}
}

// ReportProgress prints a scan progress line.
func (r *ConsoleReporter) ReportProgress(p app.ScanProgress) {
	fmt.Fprintf(r.out, "[%s] %s: %d/%d %s\n",
		time.Now().Format("15:04:05"), p.Strategy, p.Scanned, p.Total, p.Current)
}

// ReportActivity prints one activity line.
func (r *ConsoleReporter) ReportActivity(entry domain.ActivityEntry) {
	fmt.Fprintf(r.out, "[%s] %-7s %s\n",
		entry.Timestamp.Format("15:04:05"), entry.Level, entry.Message)
}

// ReportScanState prints scan start/stop transitions.
func (r *ConsoleReporter) ReportScanState(strategy string, running, timedOut bool) {
	switch {
	case running:
		fmt.Fprintf(r.out, "[%s] %s scan running\n", time.Now().Format("15:04:05"), strategy)
	case timedOut:
		fmt.Fprintf(r.out, "[%s] %s scan gave up: no results\n", time.Now().Format("15:04:05"), strategy)
	default:
		fmt.Fprintf(r.out, "[%s] %s scan stopped\n", time.Now().Format("15:04:05"), strategy)
	}
}

// Stop gracefully shuts down the console reporter.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Kivo Scanner Stopped")
	return nil
}

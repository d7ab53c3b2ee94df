package infra

import (
	"context"

	"github.com/devJaja/kivo-scanner/business/arbitrage/app"
	"github.com/devJaja/kivo-scanner/business/arbitrage/domain"
	"github.com/devJaja/kivo-scanner/pkg/ui"
)

// TUIReporter implements Reporter by forwarding scan output to the
// Bubble Tea program as messages. The program itself is started by
// the command entrypoint; Send is a no-op until then.
type TUIReporter struct{}

// NewTUIReporter creates a new TUIReporter.
func NewTUIReporter() *TUIReporter {
	return &TUIReporter{}
}

func (r *TUIReporter) Start(ctx context.Context) error {
	return nil
}

// ReportOpportunities replaces the dashboard's opportunity table.
func (r *TUIReporter) ReportOpportunities(opps []*domain.Opportunity) {
	ui.Send(ui.OpportunitiesMsg{Opportunities: opps})
}

// ReportProgress updates the scan progress gauge.
func (r *TUIReporter) ReportProgress(p app.ScanProgress) {
	ui.Send(ui.ProgressMsg{
		Strategy: p.Strategy,
		Scanned:  p.Scanned,
		Total:    p.Total,
		Current:  p.Current,
	})
}

// ReportActivity appends a line to the activity viewport.
func (r *TUIReporter) ReportActivity(entry domain.ActivityEntry) {
	ui.Send(ui.ActivityMsg{Entry: entry})
}

// ReportScanState toggles the dashboard's running indicator; a
// no-results timeout additionally raises the banner.
func (r *TUIReporter) ReportScanState(strategy string, running, timedOut bool) {
	ui.Send(ui.ScanStateMsg{Strategy: strategy, Running: running})
	if timedOut {
		ui.Send(ui.TimeoutMsg{Message: app.TimeoutMessage})
	}
}

func (r *TUIReporter) Stop() error {
	return nil
}

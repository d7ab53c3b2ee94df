// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// OpportunityRow represents an opportunity in the table.
type OpportunityRow struct {
	Kind          string
	Token         string
	Route         string // "Base -> Arbitrum" or "uniswap -> sushiswap"
	SpreadPercent decimal.Decimal
	NetUSD        decimal.Decimal
	Risk          string
}

// OpportunitiesComponent renders the ranked opportunity table with a
// scroll window.
type OpportunitiesComponent struct {
	rows    []OpportunityRow
	offset  int
	maxRows int // visible window size
}

// NewOpportunitiesComponent creates a new opportunities component.
func NewOpportunitiesComponent(maxRows int) *OpportunitiesComponent {
	return &OpportunitiesComponent{
		rows:    make([]OpportunityRow, 0),
		maxRows: maxRows,
	}
}

// Set replaces the table contents, keeping the scroll position valid.
func (o *OpportunitiesComponent) Set(rows []OpportunityRow) {
	o.rows = rows
	if o.offset > len(rows)-1 {
		o.offset = 0
	}
}

// Clear clears all opportunities.
func (o *OpportunitiesComponent) Clear() {
	o.rows = make([]OpportunityRow, 0)
	o.offset = 0
}

// ScrollUp moves the visible window up one row.
func (o *OpportunitiesComponent) ScrollUp() {
	if o.offset > 0 {
		o.offset--
	}
}

// ScrollDown moves the visible window down one row.
func (o *OpportunitiesComponent) ScrollDown() {
	if o.offset < len(o.rows)-o.maxRows {
		o.offset++
	}
}

// View renders the opportunities table.
func (o *OpportunitiesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	profitStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	riskStyles := map[string]lipgloss.Style{
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
	}
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("OPPORTUNITIES (%d)", len(o.rows))))
	sb.WriteString("\n")

	if len(o.rows) == 0 {
		sb.WriteString(mutedStyle.Render("No opportunities detected yet..."))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("%-12s %-11s %-26s %9s %10s %-7s\n",
		"KIND", "TOKEN", "ROUTE", "SPREAD", "NET", "RISK"))

	end := o.offset + o.maxRows
	if end > len(o.rows) {
		end = len(o.rows)
	}
	for _, row := range o.rows[o.offset:end] {
		riskStyle, ok := riskStyles[row.Risk]
		if !ok {
			riskStyle = mutedStyle
		}
		sb.WriteString(fmt.Sprintf("%-12s %-11s %-26s %8s%% %10s %s\n",
			row.Kind,
			row.Token,
			truncate(row.Route, 26),
			row.SpreadPercent.StringFixed(4),
			profitStyle.Render("$"+row.NetUSD.StringFixed(2)),
			riskStyle.Render(row.Risk),
		))
	}

	if len(o.rows) > o.maxRows {
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("  %d-%d of %d", o.offset+1, end, len(o.rows))))
	}

	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

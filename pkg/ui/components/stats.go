package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds scan statistics for display.
type Stats struct {
	Passes        uint64
	Found         uint64
	Executed      uint64
	HistoryRows   uint64
	HistoryOnline bool
	Errors        uint64
}

// StatsComponent renders statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	hitRate := float64(0)
	if s.stats.Passes > 0 {
		hitRate = float64(s.stats.Found) / float64(s.stats.Passes) * 100
	}

	errorsDisplay := valueStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	if s.stats.Errors > 0 {
		errorsDisplay = errorStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	}

	history := "offline"
	if s.stats.HistoryOnline {
		history = fmt.Sprintf("%d rows", s.stats.HistoryRows)
	}

	return style.Render("STATS") + "\n" +
		fmt.Sprintf("Passes: %s  │  Found: %s (%.1f%%/pass)  │  Executed: %s\n",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Passes)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Found)),
			hitRate,
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Executed)),
		) +
		fmt.Sprintf("History: %s  │  Errors: %s",
			valueStyle.Render(history),
			errorsDisplay,
		)
}

package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressComponent renders the scan progress gauge.
type ProgressComponent struct {
	bar      progress.Model
	strategy string
	scanned  int
	total    int
	current  string
}

// NewProgressComponent creates a new progress component.
func NewProgressComponent() *ProgressComponent {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40
	return &ProgressComponent{bar: bar}
}

// SetWidth resizes the gauge.
func (p *ProgressComponent) SetWidth(w int) {
	if w > 10 {
		p.bar.Width = w
	}
}

// Update records the latest scan position.
func (p *ProgressComponent) Update(strategy string, scanned, total int, current string) {
	p.strategy = strategy
	p.scanned = scanned
	p.total = total
	p.current = current
}

// Reset clears the gauge between scans.
func (p *ProgressComponent) Reset() {
	p.scanned = 0
	p.total = 0
	p.current = ""
}

// View renders the progress component.
func (p *ProgressComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	if p.total == 0 {
		return headerStyle.Render("SCAN") + "\n" + mutedStyle.Render("Idle")
	}

	fraction := float64(p.scanned) / float64(p.total)
	label := fmt.Sprintf("%s  %d/%d", p.strategy, p.scanned, p.total)
	detail := ""
	if p.current != "" {
		detail = "\n" + mutedStyle.Render(p.current)
	}

	return headerStyle.Render("SCAN") + "  " + mutedStyle.Render(label) + "\n" +
		p.bar.ViewAs(fraction) + detail
}

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// activityLimit mirrors the domain's activity ring capacity.
const activityLimit = 100

// ActivityComponent renders the scrolling activity log.
type ActivityComponent struct {
	view  viewport.Model
	lines []string
}

// NewActivityComponent creates a new activity component.
func NewActivityComponent(width, height int) *ActivityComponent {
	return &ActivityComponent{
		view:  viewport.New(width, height),
		lines: make([]string, 0, activityLimit),
	}
}

// SetSize resizes the viewport.
func (a *ActivityComponent) SetSize(width, height int) {
	a.view.Width = width
	a.view.Height = height
	a.render()
}

// Add prepends an entry, newest first.
func (a *ActivityComponent) Add(level, message, timestamp string) {
	levelStyles := map[string]lipgloss.Style{
		"info":    lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		"success": lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
		"warning": lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		"error":   lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
	}
	style, ok := levelStyles[level]
	if !ok {
		style = levelStyles["info"]
	}

	line := fmt.Sprintf("[%s] %s", timestamp, style.Render(message))
	a.lines = append([]string{line}, a.lines...)
	if len(a.lines) > activityLimit {
		a.lines = a.lines[:activityLimit]
	}
	a.render()
}

// Clear empties the log.
func (a *ActivityComponent) Clear() {
	a.lines = a.lines[:0]
	a.render()
}

// ScrollUp scrolls the viewport up one line.
func (a *ActivityComponent) ScrollUp() { a.view.LineUp(1) }

// ScrollDown scrolls the viewport down one line.
func (a *ActivityComponent) ScrollDown() { a.view.LineDown(1) }

func (a *ActivityComponent) render() {
	a.view.SetContent(strings.Join(a.lines, "\n"))
}

// View renders the activity component.
func (a *ActivityComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	if len(a.lines) == 0 {
		return headerStyle.Render("ACTIVITY") + "\n" + mutedStyle.Render("Nothing yet...")
	}
	return headerStyle.Render("ACTIVITY") + "\n" + a.view.View()
}

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// bridgeStages in execution order.
var bridgeStages = []string{"approve", "deposit", "fill"}

// ExecutionState tracks one in-flight bridge execution.
type ExecutionState struct {
	OpportunityID string
	Stages        map[string]string // stage -> "pending" | "txSuccess" | "error"
	TxHashes      map[string]string
}

// ExecutionComponent renders bridge execution progress.
type ExecutionComponent struct {
	current *ExecutionState
}

// NewExecutionComponent creates a new execution component.
func NewExecutionComponent() *ExecutionComponent {
	return &ExecutionComponent{}
}

// Update records one stage transition.
func (e *ExecutionComponent) Update(opportunityID, stage, status, txHash string) {
	if e.current == nil || e.current.OpportunityID != opportunityID {
		e.current = &ExecutionState{
			OpportunityID: opportunityID,
			Stages:        make(map[string]string),
			TxHashes:      make(map[string]string),
		}
	}
	e.current.Stages[stage] = status
	if txHash != "" {
		e.current.TxHashes[stage] = txHash
	}
}

// Clear drops the tracked execution.
func (e *ExecutionComponent) Clear() {
	e.current = nil
}

// Active reports whether an execution is being tracked.
func (e *ExecutionComponent) Active() bool {
	return e.current != nil
}

// View renders the execution component.
func (e *ExecutionComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	pendingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("EXECUTION"))
	sb.WriteString("\n")

	if e.current == nil {
		sb.WriteString(mutedStyle.Render("No execution in progress"))
		return sb.String()
	}

	sb.WriteString(mutedStyle.Render(e.current.OpportunityID))
	sb.WriteString("\n")

	for _, stage := range bridgeStages {
		status, ok := e.current.Stages[stage]
		var icon string
		var style lipgloss.Style
		switch {
		case !ok:
			icon, style = "○", mutedStyle
			status = "waiting"
		case status == "txSuccess":
			icon, style = "✓", successStyle
		case status == "error":
			icon, style = "✗", errorStyle
		default:
			icon, style = "◐", pendingStyle
		}

		line := fmt.Sprintf("  %s %-8s %s", icon, stage, status)
		if hash, ok := e.current.TxHashes[stage]; ok {
			line += mutedStyle.Render(" " + truncate(hash, 14))
		}
		sb.WriteString(style.Render(line))
		sb.WriteString("\n")
	}

	return sb.String()
}

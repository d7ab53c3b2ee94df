package components

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// ChainStatus represents one chain's RPC health.
type ChainStatus struct {
	Name     string
	ChainID  uint64
	Online   bool
	GasGwei  float64
	Fallback bool // gas served from the static fallback estimate
}

// StatusComponent renders per-chain RPC status.
type StatusComponent struct {
	chains map[uint64]ChainStatus
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{chains: make(map[uint64]ChainStatus)}
}

// Update updates one chain's status.
func (s *StatusComponent) Update(status ChainStatus) {
	s.chains[status.ChainID] = status
}

// View renders the status component.
func (s *StatusComponent) View() string {
	if len(s.chains) == 0 {
		return "No chains configured"
	}

	ids := make([]uint64, 0, len(s.chains))
	for id := range s.chains {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	onlineStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	offlineStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	fallbackStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	var result string
	for _, id := range ids {
		chain := s.chains[id]
		status := onlineStyle.Render("● online")
		if !chain.Online {
			status = offlineStyle.Render("○ offline")
		}

		line := fmt.Sprintf("├─ %s: %s", chain.Name, status)
		if chain.GasGwei > 0 {
			gas := fmt.Sprintf(" %.1f gwei", chain.GasGwei)
			if chain.Fallback {
				line += fallbackStyle.Render(gas + " (fallback)")
			} else {
				line += gas
			}
		}
		result += line + "\n"
	}

	return result
}

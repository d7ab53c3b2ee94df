// Package ui provides the Bubble Tea TUI for the scanner.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/devJaja/kivo-scanner/business/arbitrage/domain"
	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/devJaja/kivo-scanner/pkg/ui/components"
)

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"   // Initial welcome screen
	PhaseDashboard Phase = "dashboard" // Main dashboard
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	opportunities *components.OpportunitiesComponent
	progress      *components.ProgressComponent
	activity      *components.ActivityComponent
	stats         *components.StatsComponent
	status        *components.StatusComponent
	execution     *components.ExecutionComponent
	keys          KeyMap

	// Phase state
	phase        Phase
	welcomeStart time.Time

	// Scan state
	strategies    []string
	strategyIdx   int
	running       bool
	timeoutBanner string

	// State
	ready      bool
	quitting   bool
	width      int
	height     int
	lastUpdate time.Time
	errors     []ErrorEntry // Persistent error panel (last 3)
}

// New creates a new TUI model.
func New(strategies []string) Model {
	if len(strategies) == 0 {
		strategies = []string{"cross-chain"}
	}
	return Model{
		opportunities: components.NewOpportunitiesComponent(15),
		progress:      components.NewProgressComponent(),
		activity:      components.NewActivityComponent(60, 10),
		stats:         components.NewStatsComponent(),
		status:        components.NewStatusComponent(),
		execution:     components.NewExecutionComponent(),
		keys:          DefaultKeyMap(),
		phase:         PhaseWelcome,
		welcomeStart:  time.Now(),
		strategies:    strategies,
		errors:        make([]ErrorEntry, 0, 3),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Strategy returns the currently selected strategy name.
func (m Model) Strategy() string {
	return m.strategies[m.strategyIdx]
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			if m.running && OnStopScan != nil {
				go OnStopScan()
			}
			return m, tea.Quit
		}
		// During welcome phase, any other key skips to the dashboard.
		if m.phase == PhaseWelcome {
			m.phase = PhaseDashboard
			return m, tickCmd()
		}
		switch {
		case key.Matches(msg, m.keys.Toggle):
			if m.running {
				if OnStopScan != nil {
					go OnStopScan()
				}
			} else {
				m.timeoutBanner = ""
				if OnStartScan != nil {
					strategy := m.Strategy()
					go OnStartScan(strategy)
				}
			}
		case key.Matches(msg, m.keys.Strategy):
			if !m.running {
				m.strategyIdx = (m.strategyIdx + 1) % len(m.strategies)
			}
		case key.Matches(msg, m.keys.Execute):
			if OnExecute != nil {
				go OnExecute()
			}
		case key.Matches(msg, m.keys.Clear):
			m.opportunities.Clear()
			m.timeoutBanner = ""
			m.errors = make([]ErrorEntry, 0, 3)
		case key.Matches(msg, m.keys.Up):
			m.opportunities.ScrollUp()
		case key.Matches(msg, m.keys.Down):
			m.opportunities.ScrollDown()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.progress.SetWidth(msg.Width/2 - 8)
		m.activity.SetSize(msg.Width/2-6, 10)

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.phase = PhaseDashboard
		}
		return m, tickCmd()

	case OpportunitiesMsg:
		rows := make([]components.OpportunityRow, 0, len(msg.Opportunities))
		for _, opp := range msg.Opportunities {
			rows = append(rows, components.OpportunityRow{
				Kind:          string(opp.Kind),
				Token:         opp.Token,
				Route:         routeLabel(opp),
				SpreadPercent: opp.SpreadPercent,
				NetUSD:        opp.Profit.Net(),
				Risk:          string(opp.Risk),
			})
		}
		m.opportunities.Set(rows)
		if len(rows) > 0 {
			m.timeoutBanner = ""
		}
		m.lastUpdate = time.Now()

	case ProgressMsg:
		m.progress.Update(msg.Strategy, msg.Scanned, msg.Total, msg.Current)
		m.lastUpdate = time.Now()

	case ActivityMsg:
		m.activity.Add(msg.Entry.Level, msg.Entry.Message, msg.Entry.Timestamp.Format("15:04:05"))
		m.lastUpdate = time.Now()

	case ScanStateMsg:
		m.running = msg.Running
		if msg.Running {
			m.timeoutBanner = ""
			m.activity.Clear()
			m.progress.Reset()
		}
		for i, s := range m.strategies {
			if s == msg.Strategy {
				m.strategyIdx = i
			}
		}

	case TimeoutMsg:
		m.timeoutBanner = msg.Message
		m.running = false

	case ChainStatusMsg:
		m.status.Update(components.ChainStatus{
			Name:     msg.Name,
			ChainID:  msg.ChainID,
			Online:   msg.Online,
			GasGwei:  msg.GasGwei,
			Fallback: msg.Fallback,
		})

	case ExecutionMsg:
		m.execution.Update(msg.OpportunityID, msg.Stage, msg.Status, msg.TxHash)

	case StatsMsg:
		m.stats.Update(components.Stats{
			Passes:        msg.Passes,
			Found:         msg.Found,
			Executed:      msg.Executed,
			HistoryRows:   msg.HistoryRows,
			HistoryOnline: msg.HistoryOnline,
			Errors:        uint64(len(m.errors)),
		})

	case ErrorMsg:
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}
	}

	return m, nil
}

// routeLabel renders where an opportunity buys and sells.
func routeLabel(opp *domain.Opportunity) string {
	if len(opp.Route) > 0 {
		return strings.Join(opp.Route, " ")
	}
	if opp.IsCrossChain() {
		return fmt.Sprintf("%s -> %s", asset.ChainName(opp.FromChainID), asset.ChainName(opp.ToChainID))
	}
	return fmt.Sprintf("%s -> %s on %s", opp.BuyVenue, opp.SellVenue, asset.ChainName(opp.FromChainID))
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}
	if m.phase == PhaseWelcome {
		return m.renderWelcomeScreen()
	}

	var b strings.Builder

	title := TitleStyle.Render(" Kivo Scanner ")
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	if m.timeoutBanner != "" {
		bannerStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(ColorWarning).
			Padding(0, 1)
		b.WriteString(bannerStyle.Render(m.timeoutBanner))
		b.WriteString("\n\n")
	}

	// Left: opportunities + stats. Right: progress, activity, execution.
	var left strings.Builder
	left.WriteString(m.opportunities.View())
	left.WriteString("\n\n")
	left.WriteString(m.status.View())
	left.WriteString("\n")
	left.WriteString(m.stats.View())

	var right strings.Builder
	right.WriteString(m.progress.View())
	right.WriteString("\n\n")
	right.WriteString(m.activity.View())
	if m.execution.Active() {
		right.WriteString("\n\n")
		right.WriteString(m.execution.View())
	}

	if m.width > 110 {
		leftBox := BoxStyle.Width(m.width*3/5 - 2).Render(left.String())
		rightBox := BoxStyle.Width(m.width*2/5 - 2).Render(right.String())
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox))
	} else {
		b.WriteString(BoxStyle.Width(m.width - 4).Render(left.String()))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(m.width - 4).Render(right.String()))
	}

	b.WriteString("\n\n")

	// Persistent error panel (show last 3 errors)
	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
		muted := lipgloss.NewStyle().Foreground(ColorMuted)

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(muted.Render(" (c: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(muted.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	helpText := "s: start/stop • tab: strategy • e: execute top • c: clear • ↑↓: scroll • q: quit"
	b.WriteString(HelpStyle.Render(helpText))

	return b.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	if m.running {
		spinners := []string{"⟳", "◐", "◓", "◑", "◒"}
		idx := int(time.Now().UnixMilli()/100) % len(spinners)
		scanningStyle := lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
		parts = append(parts, scanningStyle.Render(spinners[idx]+" Scanning"))
	} else {
		parts = append(parts, MutedValue.Render("■ Stopped"))
	}

	strategyStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	parts = append(parts, strategyStyle.Render("Strategy: "+m.Strategy()))

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago", ago)))
	}

	return strings.Join(parts, "  │  ")
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)

	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	greenStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	elapsed := time.Since(m.welcomeStart)
	dotCount := int(elapsed.Milliseconds()/300) % 4
	dots := strings.Repeat(".", dotCount)

	var sb strings.Builder
	sb.WriteString("\n\n\n\n")

	logo := `
   ██╗  ██╗██╗██╗   ██╗ ██████╗
   ██║ ██╔╝██║██║   ██║██╔═══██╗
   █████╔╝ ██║██║   ██║██║   ██║
   ██╔═██╗ ██║╚██╗ ██╔╝██║   ██║
   ██║  ██╗██║ ╚████╔╝ ╚██████╔╝
   ╚═╝  ╚═╝╚═╝  ╚═══╝   ╚═════╝
`
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render("       A R B I T R A G E   S C A N N E R"))
	sb.WriteString("\n\n\n")
	sb.WriteString(greenStyle.Render(fmt.Sprintf("           Initializing%s", dots)))
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("      Press any key to skip, or wait..."))
	sb.WriteString("\n")

	return sb.String()
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartScan is called when the user starts a scan for a strategy.
var OnStartScan func(strategy string)

// OnStopScan is called when the user stops the running scan.
var OnStopScan func()

// OnExecute is called when the user asks to execute the top-ranked
// opportunity.
var OnExecute func()

// Run starts the Bubble Tea program.
func Run(strategies []string) error {
	Program = tea.NewProgram(New(strategies), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}

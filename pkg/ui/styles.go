package ui

import "github.com/charmbracelet/lipgloss"

// Scanner palette. Teal for healthy/profitable, rose for losses and
// disconnects, amber for in-between states.
var (
	ColorPrimary   = lipgloss.Color("#0EA5E9")
	ColorSecondary = lipgloss.Color("#14B8A6")
	ColorDanger    = lipgloss.Color("#F43F5E")
	ColorWarning   = lipgloss.Color("#FBBF24")
	ColorMuted     = lipgloss.Color("#64748B")
	ColorBorder    = lipgloss.Color("#334155")
)

var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8FAFC")).
			Background(ColorPrimary).
			Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)
)

// Connection state indicators in the chain status bar.
var (
	StatusConnected    = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
	StatusDisconnected = lipgloss.NewStyle().Foreground(ColorDanger).Bold(true)
	StatusReconnecting = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
)

// Net-profit cells render positive and negative values differently.
var (
	PositiveValue = lipgloss.NewStyle().Foreground(ColorSecondary)
	NegativeValue = lipgloss.NewStyle().Foreground(ColorDanger)
	MutedValue    = lipgloss.NewStyle().Foreground(ColorMuted)
)

var (
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				BorderBottom(true).
				BorderStyle(lipgloss.NormalBorder())

	TableCellStyle = lipgloss.NewStyle().Padding(0, 1)
)

package ui

import "github.com/charmbracelet/lipgloss"

// Standard ANSI colors - works with any terminal colorscheme
var (
	ColorFg     = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	ColorBg     = lipgloss.AdaptiveColor{Light: "15", Dark: "0"}
	ColorGreen  = lipgloss.Color("2")
	ColorRed    = lipgloss.Color("1")
	ColorYellow = lipgloss.Color("3")
	ColorCyan   = lipgloss.Color("6")
	ColorPurple = lipgloss.Color("5")
	ColorDim    = lipgloss.Color("8")
	ColorBorder = lipgloss.Color("8")
)

// Status indicators
const (
	StatusOn      = "●"
	StatusOff     = "○"
	StatusWaiting = "◐"
)

// Base styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorFg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorDim).
			Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPurple).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorDim)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorPurple)

	KeyHintStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)
)

// Indicator badges
var (
	badgeBase = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.ThickBorder())

	BadgeOnStyle = badgeBase.
			Foreground(ColorBg).
			Background(ColorGreen).
			BorderForeground(ColorGreen)

	BadgeOffStyle = badgeBase.
			Foreground(ColorDim).
			BorderForeground(ColorDim)

	BadgeWaitingStyle = badgeBase.
				Foreground(ColorYellow).
				BorderForeground(ColorYellow)
)

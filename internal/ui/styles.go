package ui

import "github.com/charmbracelet/lipgloss"

// Styles for the player screen
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	TrackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

// HelpText lists the key bindings.
const HelpText = "space: pause • 9/0: volume • -/=: seek • [/]: prev/next • q: quit"

package ui

import "github.com/charmbracelet/lipgloss"

// Styles for the cobra help output. Plain ANSI colors so they track the
// user's terminal theme.
var (
	// TitleStyle uses ANSI 6 (Cyan) for section headers
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// UsageStyle uses ANSI 2 (Green) for usage lines and arguments
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle uses ANSI 8 (Gray) to keep descriptions dimmer than commands
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// FlagStyle uses ANSI 3 (Yellow) for flags
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

package tui

import "github.com/charmbracelet/lipgloss"

// ------- minimal styling helpers (Lip Gloss) -------
var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	tabStyle    = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	activeTab   = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	cursorStyle = lipgloss.NewStyle().Bold(true).Reverse(true)

	doneStyle  = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	mutedStyle = lipgloss.NewStyle().Faint(true)
	helpStyle  = lipgloss.NewStyle().Faint(true)

	okStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	priorityHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	priorityMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	priorityLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

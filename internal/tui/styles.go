package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	helpStyle      = lipgloss.NewStyle().Faint(true)
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	activeTabStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	likedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	pendingStyle   = lipgloss.NewStyle().Faint(true).Italic(true)
	unreadStyle    = lipgloss.NewStyle().Bold(true)
)

package ui

import "github.com/charmbracelet/lipgloss"

// Lipgloss styles
var (
	docStyle      = lipgloss.NewStyle().Margin(1, 2)
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	promptStyle   = lipgloss.NewStyle().MarginTop(1)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	mineStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	takenStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	scoreStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	creatorBadge  = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Render("👑")
	readyBadge    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("✔")
	notReadyBadge = dimStyle.Render("…")
)

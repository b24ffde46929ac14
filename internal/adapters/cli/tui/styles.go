package tui

import "github.com/charmbracelet/lipgloss"

var (
	checkedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	uncheckedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle     = lipgloss.NewStyle().Bold(true)

	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	chipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62")).Padding(0, 1)
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62")).Bold(true).Padding(0, 1)

	frameStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238"))
	containerStyle = lipgloss.NewStyle().Padding(0, 1)
)

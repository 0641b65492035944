package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)

	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	laneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	logStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	remarkStyle  = lipgloss.NewStyle().MarginTop(1).Bold(true)
)

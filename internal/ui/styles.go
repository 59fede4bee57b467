package ui

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	StatValue = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	StatLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	OKStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("114"))

	WarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	PathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))

	DimText = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))
)

package tui

import "github.com/charmbracelet/lipgloss"

var (
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	tabAnsweredStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42"))

	promptStyle = lipgloss.NewStyle().
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	descriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	editorStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("39")).
			PaddingLeft(1)
)

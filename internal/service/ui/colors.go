package ui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle uses ANSI 6 (cyan), readable on light and dark terminals
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)

	// LabelStyle ANSI 2 (green) for field names
	LabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle ANSI 8 (bright black) so secondary text stays quiet
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// ErrorStyle ANSI 1 (red)
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

	// SelectedStyle ANSI 5 (magenta) for the highlighted choice
	SelectedStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))

	ItemStyle = lipgloss.NewStyle().PaddingLeft(2)
)

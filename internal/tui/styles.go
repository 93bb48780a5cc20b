package tui

import "github.com/charmbracelet/lipgloss"

// Shared palette.
var (
	colorAccent  = lipgloss.Color("63")
	colorSubtle  = lipgloss.Color("240")
	colorWarning = lipgloss.Color("214")
	colorError   = lipgloss.Color("196")
	colorOK      = lipgloss.Color("42")
)

// Shared styles.
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	LabelStyle  = lipgloss.NewStyle().Foreground(colorSubtle)
	ValueStyle  = lipgloss.NewStyle().Bold(true)
	SubtleStyle = lipgloss.NewStyle().Foreground(colorSubtle).Italic(true)
	InfoStyle   = lipgloss.NewStyle().Foreground(colorOK)

	WarningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colorSubtle).
				BorderBottom(true).
				Padding(0, 1)

	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))
)

// statusStyle colours a task status.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "COMPLETED":
		return lipgloss.NewStyle().Foreground(colorOK)
	case "IN_PROGRESS":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	case "PENDING":
		return lipgloss.NewStyle().Foreground(colorWarning)
	default:
		return lipgloss.NewStyle()
	}
}

package session

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	good    lipgloss.Style
	warning lipgloss.Style
	muted   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		value:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		good:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		muted:   lipgloss.NewStyle().Faint(true),
	}
}

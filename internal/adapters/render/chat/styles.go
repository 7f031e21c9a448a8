package chat

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	user      lipgloss.Style
	assistant lipgloss.Style
	content   lipgloss.Style
	banner    lipgloss.Style
	hint      lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		user:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		content:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		banner:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		hint:      lipgloss.NewStyle().Faint(true),
	}
}

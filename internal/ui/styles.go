package ui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the chat view
type Styles struct {
	Title      lipgloss.Style
	Subtle     lipgloss.Style
	UserLabel  lipgloss.Style
	BotLabel   lipgloss.Style
	Gutter     lipgloss.Style
	Recording  lipgloss.Style
	Status     lipgloss.Style
	InputFrame lipgloss.Style
	Disabled   lipgloss.Style
}

// DefaultStyles returns the chat palette
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#38bdf8")),
		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")),
		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ade80")),
		BotLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#60a5fa")),
		Gutter: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b")),
		Recording: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f87171")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa")),
		InputFrame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#52525b")),
		Disabled: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#27272a")),
	}
}

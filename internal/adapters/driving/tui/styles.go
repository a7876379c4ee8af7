package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains pre-configured lipgloss styles for the review session.
type Styles struct {
	// Title style for the session header.
	Title lipgloss.Style

	// Subtitle style for the object name and type tag.
	Subtitle lipgloss.Style

	// Normal style for questions and excerpts.
	Normal lipgloss.Style

	// Muted style for footers and counters.
	Muted lipgloss.Style

	// Success style for correct answers.
	Success lipgloss.Style

	// Error style for failures.
	Error lipgloss.Style
}

// DefaultStyles returns the default style set.
func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7C3AED")).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#06B6D4")),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")),
	}
}

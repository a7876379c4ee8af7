package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keybindings for a review session.
type KeyMap struct {
	// Reveal shows the source excerpt and reference answer.
	Reveal key.Binding

	// Correct records a correct answer.
	Correct key.Binding

	// Incorrect records an incorrect answer.
	Incorrect key.Binding

	// Skip moves on without recording an answer.
	Skip key.Binding

	// Quit exits the session.
	Quit key.Binding
}

// DefaultKeyMap returns the default review keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Reveal: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "reveal"),
		),
		Correct: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "correct"),
		),
		Incorrect: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "incorrect"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

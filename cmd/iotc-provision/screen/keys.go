package screen

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the verification screen.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding

	// Shortcuts on the method choice.
	Numeric  key.Binding
	Scan     key.Binding
	Simulate key.Binding

	// Back is the hardware back action: always returns to the method choice.
	Back key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Numeric: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "numeric code"),
	),
	Scan: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "scan"),
	),
	Simulate: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "simulate"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

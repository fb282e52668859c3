package console

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the console.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Back    key.Binding
	Focus   key.Binding // Switch between sidebar and permission editor.
	OpenRef key.Binding // Open a client by id from the clients view.

	// Permission editor.
	PrevProfile key.Binding
	NextProfile key.Binding
	ToggleRead  key.Binding
	ToggleWrite key.Binding
	ToggleDel   key.Binding
	Save        key.Binding

	// Finance view.
	Category key.Binding

	SignOut key.Binding
	Quit    key.Binding
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
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("backspace", "b"),
		key.WithHelp("b", "back"),
	),
	Focus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "focus"),
	),
	OpenRef: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open client"),
	),
	PrevProfile: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "prev profile"),
	),
	NextProfile: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next profile"),
	),
	ToggleRead: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "read"),
	),
	ToggleWrite: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "write"),
	),
	ToggleDel: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
	Category: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "category"),
	),
	SignOut: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "sign out"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

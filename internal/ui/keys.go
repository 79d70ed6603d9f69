package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds the palette key bindings
type keyMap struct {
	Toggle key.Binding
	Close  key.Binding
	Up     key.Binding
	Down   key.Binding
	Commit key.Binding
	Quit   key.Binding
}

func newKeyMap(hotkeys []string) keyMap {
	if len(hotkeys) == 0 {
		hotkeys = []string{"ctrl+p"}
	}
	return keyMap{
		Toggle: key.NewBinding(key.WithKeys(hotkeys...), key.WithHelp(hotkeys[0], "search")),
		Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "move")),
		Down:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "move")),
		Commit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "select")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Commit, k.Up, k.Down}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Commit, k.Up, k.Down}, {k.Toggle, k.Close, k.Quit}}
}

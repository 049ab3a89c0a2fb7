// Package keymap holds the TUI key bindings.
package keymap

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

var _ help.KeyMap = (*KeyMap)(nil)

// KeyMap is every binding the views react to.
type KeyMap struct {
	Quit   key.Binding
	Help   key.Binding
	Back   key.Binding
	Up     key.Binding
	Down   key.Binding
	Select key.Binding

	Submit    key.Binding // send the prompt being edited
	Adopt     key.Binding // load the optimised prompt back into the editor
	NewPrompt key.Binding

	Refresh key.Binding // reload a listing past the view cache
	Delete  key.Binding
}

func bind(helpKey, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc))
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:   bind("q", "quit", "q", "ctrl+c"),
		Help:   bind("?", "help", "?"),
		Back:   bind("esc", "back", "esc"),
		Up:     bind("↑/k", "up", "up", "k"),
		Down:   bind("↓/j", "down", "down", "j"),
		Select: bind("enter", "select", "enter"),

		Submit:    bind("ctrl+s", "optimise", "ctrl+s"),
		Adopt:     bind("a", "adopt as template", "a"),
		NewPrompt: bind("n", "new prompt", "n"),

		Refresh: bind("r", "refresh", "r"),
		Delete:  bind("d", "delete", "d", "x"),
	}
}

// ShortHelp is shown in the status bar when a view sets no hints.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Help}
}

// RefineHelp is shown while a prompt is edited.
func (k *KeyMap) RefineHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Back}
}

// ResultHelp is shown with an optimised prompt.
func (k *KeyMap) ResultHelp() []key.Binding {
	return []key.Binding{k.Adopt, k.NewPrompt, k.Back}
}

// ListHelp is shown over the document and chunk listings.
func (k *KeyMap) ListHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Refresh, k.Delete, k.Back}
}

// FullHelp groups every binding in columns for the help screen.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Submit, k.Adopt, k.NewPrompt},
		{k.Refresh, k.Delete},
		{k.Back, k.Help, k.Quit},
	}
}

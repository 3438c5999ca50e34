// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"github.com/bobg/go-generics/v4/slices"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the picker key bindings.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
	Copy   key.Binding
	Help   key.Binding
}

func (km KeyMap) navigation() []key.Binding {
	return []key.Binding{km.Up, km.Down}
}

func (km KeyMap) actions() []key.Binding {
	return []key.Binding{km.Select, km.Cancel, km.Copy, km.Help}
}

func (km KeyMap) ShortHelp() []key.Binding {
	return slices.Concat(km.navigation(), []key.Binding{km.Select, km.Cancel})
}

func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{km.navigation(), km.actions()}
}

// KeyMap implements help.KeyMap
var _ help.KeyMap = KeyMap{}

// DefaultKeyMap is used by NewPicker.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("↓/j", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "q", "ctrl+c"),
		key.WithHelp("esc/q", "cancel"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more"),
	),
}

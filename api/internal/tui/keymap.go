package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type KeyMap struct {
	Solve     key.Binding
	Mode      key.Binding
	Image     key.Binding
	Clipboard key.Binding
	Record    key.Binding
	Board     key.Binding
	Lang      key.Binding
	Clear     key.Binding
	Quit      key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Solve, k.Mode, k.Board, k.Lang, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Solve, k.Mode, k.Clear},
		{k.Image, k.Clipboard, k.Record},
		{k.Board, k.Lang, k.Quit},
	}
}

var Keys = KeyMap{
	Solve: key.NewBinding(
		key.WithKeys("ctrl+s", "alt+enter"),
		key.WithHelp("ctrl+s", "solve"),
	),
	Mode: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "input mode"),
	),
	Image: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "open image"),
	),
	Clipboard: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("ctrl+p", "paste clipboard"),
	),
	Record: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "record"),
	),
	Board: key.NewBinding(
		key.WithKeys("ctrl+b"),
		key.WithHelp("ctrl+b", "whiteboard"),
	),
	Lang: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "ar/en"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "clear input"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	),
}

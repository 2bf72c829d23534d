package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	ExtendUp    key.Binding
	ExtendDown  key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Toggle      key.Binding
	Select      key.Binding
	SelectAll   key.Binding
	Escape      key.Binding
	Filter      key.Binding
	ClearFilter key.Binding
	Pause       key.Binding
	Limit       key.Binding
	Clear       key.Binding
	Copy        key.Binding
	Export      key.Binding
	Explain     key.Binding
	Inspect     key.Binding
	AppLogs     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous row")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next row")),
		ExtendUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("shift+↑", "extend selection up")),
		ExtendDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("shift+↓", "extend selection down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first row")),
		Bottom:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last row")),
		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle row")),
		Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select row")),
		SelectAll:   key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "select all")),
		Escape:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
		Filter:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		ClearFilter: key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "clear filter")),
		Pause:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Limit:       key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "buffer limit")),
		Clear:       key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear buffer")),
		Copy:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy selection")),
		Export:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export selection")),
		Explain:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "explain selection")),
		Inspect:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "inspect row")),
		AppLogs:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "app logs")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Filter, k.Toggle, k.Export, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Toggle, k.Select, k.ExtendUp, k.ExtendDown, k.SelectAll, k.Escape},
		{k.Filter, k.ClearFilter, k.Pause, k.Limit, k.Clear},
		{k.Copy, k.Export, k.Explain, k.Inspect, k.AppLogs, k.Quit},
	}
}

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	PrevTag  key.Binding
	NextTag  key.Binding
	Focus    key.Binding
	Column   key.Binding
	Order    key.Binding
	Open     key.Binding
	Back     key.Binding
	Intraday key.Binding
	FiveDay  key.Binding
	Daily    key.Binding
	Retry    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTag, k.Focus, k.Column, k.Order, k.Open, k.Retry, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage},
		{k.PrevTag, k.NextTag, k.Focus, k.Column, k.Order},
		{k.Open, k.Back, k.Intraday, k.FiveDay, k.Daily},
		{k.Retry, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "prev page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next page"),
	),
	PrevTag: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev tag"),
	),
	NextTag: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next tag"),
	),
	Focus: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "focus board"),
	),
	Column: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "column"),
	),
	Order: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "sort"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "detail"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back"),
	),
	Intraday: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "intraday"),
	),
	FiveDay: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "5 day"),
	),
	Daily: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "daily"),
	),
	Retry: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "retry"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
}

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle     key.Binding
	Gamma      key.Binding
	Rename     key.Binding
	Remove     key.Binding
	Scan       key.Binding
	Convert    key.Binding
	Clear      key.Binding
	Cancel     key.Binding
	ShowDetail key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "convert on/off"),
		),
		Gamma: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "gamma"),
		),
		Rename: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "output name"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove"),
		),
		Scan: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "scan dir"),
		),
		Convert: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "convert"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "stop task"),
		),
		ShowDetail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Gamma, k.Rename, k.Scan, k.Convert, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Gamma, k.Rename, k.Remove, k.ShowDetail},
		{k.Scan, k.Convert, k.Clear, k.Cancel, k.Help, k.Quit},
	}
}

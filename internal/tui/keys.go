package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Gauges   key.Binding
	History  key.Binding
	Edit     key.Binding
	Increase key.Binding
	Decrease key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "Previous account")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "Next account")),
		Gauges:   key.NewBinding(key.WithKeys("g", "left"), key.WithHelp("g", "Gauges tab")),
		History:  key.NewBinding(key.WithKeys("h", "right"), key.WithHelp("h", "History tab")),
		Edit:     key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "Edit balance and limit")),
		Increase: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "Balance +10")),
		Decrease: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "Balance -10")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Reload accounts")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Toggle help")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "Quit")),
	}
}

func (k keyMap) all() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Gauges, k.History, k.Edit,
		k.Increase, k.Decrease, k.Reload, k.Help, k.Quit,
	}
}

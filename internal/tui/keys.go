package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up          key.Binding
	down        key.Binding
	pageUp      key.Binding
	pageDown    key.Binding
	nextTab     key.Binding
	prevTab     key.Binding
	enter       key.Binding
	esc         key.Binding
	quit        key.Binding
	logout      key.Binding
	like        key.Binding
	sort        key.Binding
	refresh     key.Binding
	share       key.Binding
	inbox       key.Binding
	comment     key.Binding
	reply       key.Binding
	delete      key.Binding
	deleteAll   key.Binding
	markRead    key.Binding
	markAllRead key.Binding
}

var keys = keyMap{
	up:          key.NewBinding(key.WithKeys("up", "k")),
	down:        key.NewBinding(key.WithKeys("down", "j")),
	pageUp:      key.NewBinding(key.WithKeys("pgup")),
	pageDown:    key.NewBinding(key.WithKeys("pgdown", " ")),
	nextTab:     key.NewBinding(key.WithKeys("tab", "right")),
	prevTab:     key.NewBinding(key.WithKeys("shift+tab", "left")),
	enter:       key.NewBinding(key.WithKeys("enter")),
	esc:         key.NewBinding(key.WithKeys("esc")),
	quit:        key.NewBinding(key.WithKeys("q", "ctrl+c")),
	logout:      key.NewBinding(key.WithKeys("o")),
	like:        key.NewBinding(key.WithKeys("l")),
	sort:        key.NewBinding(key.WithKeys("s")),
	refresh:     key.NewBinding(key.WithKeys("r")),
	share:       key.NewBinding(key.WithKeys("y")),
	inbox:       key.NewBinding(key.WithKeys("n")),
	comment:     key.NewBinding(key.WithKeys("c")),
	reply:       key.NewBinding(key.WithKeys("r")),
	delete:      key.NewBinding(key.WithKeys("d")),
	deleteAll:   key.NewBinding(key.WithKeys("D")),
	markRead:    key.NewBinding(key.WithKeys("enter", "m")),
	markAllRead: key.NewBinding(key.WithKeys("a")),
}

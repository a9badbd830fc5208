package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	First  key.Binding
	Last   key.Binding
	Open   key.Binding
	Help   key.Binding
	Escape key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Next:   key.NewBinding(key.WithKeys("j", "down", " ", "pgdown"), key.WithHelp("j/space", "next story")),
	Prev:   key.NewBinding(key.WithKeys("k", "up", "pgup"), key.WithHelp("k", "previous story")),
	First:  key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first story")),
	Last:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last loaded story")),
	Open:   key.NewBinding(key.WithKeys("o", "enter"), key.WithHelp("o", "open media")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Escape: key.NewBinding(key.WithKeys("esc")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) helpLines() []string {
	bindings := []key.Binding{k.Next, k.Prev, k.First, k.Last, k.Open, k.Help, k.Quit}
	lines := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		lines = append(lines, "  "+h.Key+"  "+h.Desc)
	}
	return lines
}

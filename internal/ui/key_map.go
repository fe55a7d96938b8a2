package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	back       key.Binding
	search     key.Binding
	like       key.Binding
	liked      key.Binding
	sortTitle  key.Binding
	sortDate   key.Binding
	sortRating key.Binding
	refresh    key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		like:       key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
		liked:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "liked only")),
		sortTitle:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "sort title")),
		sortDate:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "sort date")),
		sortRating: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "sort rating")),
		refresh:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.search, k.like, k.liked},
		{k.sortTitle, k.sortDate, k.sortRating},
		{k.refresh, k.quit},
	}
}

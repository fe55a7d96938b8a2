package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// catalogueLoadedMsg signals that a catalogue load finished; the outcome
// lives in the store.
type catalogueLoadedMsg struct{}

// detailLoadedMsg signals that a detail load finished for the given movie.
type detailLoadedMsg struct {
	movieID int
}

// likeToggledMsg signals that a like toggle round-trip finished.
type likeToggledMsg struct {
	movieID int
}

// noticeMsg carries a user-facing notification raised by a store.
type noticeMsg string

var (
	_ tea.Msg = catalogueLoadedMsg{}
	_ tea.Msg = detailLoadedMsg{}
	_ tea.Msg = likeToggledMsg{}
	_ tea.Msg = noticeMsg("")
)

// channelNotifier adapts a channel to the store Notifier interface.
//
// Show never blocks: when the TUI is not draining fast enough the message
// is dropped rather than stalling a store goroutine.
type channelNotifier chan string

func (n channelNotifier) Show(message string) {
	select {
	case n <- message:
	default:
	}
}

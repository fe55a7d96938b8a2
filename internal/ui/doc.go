// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing the movie catalogue:
//  1. [CatalogueView] : Browse, search, and sort the movie list
//  2. [DetailView] : Inspect a single movie with its star rating
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Store loads run inside tea.Cmd functions so the event loop never blocks on
// the network; notifications raised by the stores flow through a channel back
// into the update loop.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, /, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui

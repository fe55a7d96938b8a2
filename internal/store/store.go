// package store implements the catalogue and detail state machines
package store

import (
	"github.com/martishin/movie-search-service/internal/session"
)

// LoadState tracks where a store is in its fetch lifecycle. There are no
// terminal states; a store can always be reloaded.
type LoadState int

const (
	Loading LoadState = iota
	Ready
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// SortField selects the primary sort key for the catalogue.
type SortField int

const (
	SortByTitle SortField = iota
	SortByReleaseDate
	SortByUserRating
)

func (f SortField) String() string {
	switch f {
	case SortByTitle:
		return "title"
	case SortByReleaseDate:
		return "releaseDate"
	case SortByUserRating:
		return "userRating"
	default:
		return "unknown"
	}
}

// SortDirection is the sort order for the current sort field.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// toggled returns the opposite direction.
func (d SortDirection) toggled() SortDirection {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// Notifier is the external notification sink. Stores call Show on fetch and
// toggle failures, never on success.
type Notifier interface {
	Show(message string)
}

// nopNotifier is the default sink when none is injected.
type nopNotifier struct{}

func (nopNotifier) Show(string) {}

// SessionState is the slice of [session.Session] the stores depend on.
type SessionState interface {
	IsAuthenticated() bool
	Epoch() uint64
	Subscribe(fn func(session.Identity)) func()
}

var _ SessionState = (*session.Session)(nil)

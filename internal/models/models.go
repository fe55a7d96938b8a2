// package models defines the data model for the movie catalogue client
package models

import (
	"strings"
	"time"
)

// Genre represents a movie genre tag. Identity is by ID; ordering within a
// movie's genre list is not significant.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"genre"`
}

// Movie represents a single catalogue entry as served by the movie service.
//
// Movies are value objects: every fetch rebuilds them from the wire payload,
// and the liked flag is the only state that changes between fetches.
type Movie struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	ReleaseDate time.Time `json:"release_date"`
	Runtime     int       `json:"runtime"`
	MPAARating  string    `json:"mpaa_rating"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Video       string    `json:"video"`
	Genres      []Genre   `json:"genres,omitempty"`
	UserRating  float64   `json:"user_rating"`
	IsLiked     bool      `json:"is_liked"`
}

// WithLiked returns a copy of the movie with the liked flag set to liked.
// The receiver is unchanged.
func (m Movie) WithLiked(liked bool) Movie {
	copied := m
	copied.Genres = m.Genres
	copied.IsLiked = liked
	return copied
}

// MatchesQuery reports whether the movie matches a catalogue search query:
// a case-insensitive substring match against the title or any genre name.
// The empty query matches everything.
func (m Movie) MatchesQuery(query string) bool {
	if query == "" {
		return true
	}

	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(m.Title), q) {
		return true
	}
	for _, genre := range m.Genres {
		if strings.Contains(strings.ToLower(genre.Name), q) {
			return true
		}
	}
	return false
}

// PosterURL returns the full TMDB poster URL for the movie's image, or the
// empty string when the movie has no image.
func (m Movie) PosterURL() string {
	if m.Image == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/w500/" + m.Image
}

// GenreNames returns the names of the movie's genres in payload order.
func (m Movie) GenreNames() []string {
	names := make([]string, len(m.Genres))
	for i, g := range m.Genres {
		names[i] = g.Name
	}
	return names
}

// CatalogueCache defines local storage for the last fetched catalogue.
// Implementations live in the repositories package.
type CatalogueCache interface {
	ReplaceAll(movies []Movie, fetchedAt time.Time) error // ReplaceAll swaps the cached catalogue for the given one
	List() ([]Movie, error)                               // List returns all cached movies in id order
	Get(id int) (*Movie, error)                           // Get returns a single cached movie or nil when absent
	Clear() error                                         // Clear removes all cached movies
	FetchedAt() (time.Time, error)                        // FetchedAt returns when the cache was last replaced
}

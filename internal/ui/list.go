package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/martishin/movie-search-service/internal/models"
	"github.com/martishin/movie-search-service/internal/stars"
)

var (
	_ list.Item = movieItem{}
)

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie models.Movie
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string {
	title := i.movie.Title
	if i.movie.IsLiked {
		title = "♥ " + title
	}
	return title
}

func (i movieItem) Description() string {
	desc := starString(i.movie.UserRating)
	if !i.movie.ReleaseDate.IsZero() {
		desc = fmt.Sprintf("%s • %d", desc, i.movie.ReleaseDate.Year())
	}
	if genres := i.movie.GenreNames(); len(genres) > 0 {
		desc = fmt.Sprintf("%s • %s", desc, strings.Join(genres, ", "))
	}
	return desc
}

// starString renders a five-position star row for the given rating.
func starString(rating float64) string {
	b := stars.Compute(rating)

	var sb strings.Builder
	sb.Grow(5)
	for range b.Full {
		sb.WriteRune('★')
	}
	if b.Half {
		sb.WriteRune('½')
	}
	for range b.Empty {
		sb.WriteRune('☆')
	}
	return sb.String()
}

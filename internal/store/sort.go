package store

import (
	"sort"
	"strings"

	"github.com/martishin/movie-search-service/internal/models"
)

// deriveFiltered recomputes the filtered view from the canonical list and the
// query. Pure and idempotent: the result is always the subset of all whose
// movies match the query, in canonical order.
func deriveFiltered(all []models.Movie, query string) []models.Movie {
	if query == "" {
		return append([]models.Movie(nil), all...)
	}

	filtered := make([]models.Movie, 0, len(all))
	for _, movie := range all {
		if movie.MatchesQuery(query) {
			filtered = append(filtered, movie)
		}
	}
	return filtered
}

// sortMovies returns a sorted copy of movies.
//
// Titles compare case-insensitively, release dates by instant, ratings
// numerically with an id-ascending tie-break in both directions (rating ties
// are common, and the tie-break keeps orderings deterministic).
func sortMovies(movies []models.Movie, field SortField, direction SortDirection) []models.Movie {
	sorted := append([]models.Movie(nil), movies...)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if direction == Descending {
			a, b = b, a
		}

		switch field {
		case SortByReleaseDate:
			return a.ReleaseDate.Before(b.ReleaseDate)
		case SortByUserRating:
			if a.UserRating != b.UserRating {
				return a.UserRating < b.UserRating
			}
			// id tie-break ascending regardless of direction
			if direction == Descending {
				a, b = b, a
			}
			return a.ID < b.ID
		default:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	})

	return sorted
}

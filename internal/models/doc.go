// Package models defines the domain entities for the movie-search-service client.
//
// The package contains two categories of types:
//
// 1. Value objects reconstructed on every fetch from the service:
//   - [Movie] : A single catalogue entry with genres, rating and like state
//   - [Genre] : An immutable genre tag, identity by ID
//
// Movies are treated as immutable values: the only field that ever changes
// after construction is the liked flag, and it changes by replacing the whole
// value via [Movie.WithLiked] rather than by mutating in place. Keeping the
// pre-toggle value around makes optimistic-update rollback a verbatim restore.
//
// 2. Persistence contracts:
//   - [CatalogueCache] : Local storage of the last fetched catalogue,
//     implemented by the repositories package on SQLite
package models

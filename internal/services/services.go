// package services defines interface MovieAPI for the movie service HTTP API
package services

import (
	"context"

	"github.com/martishin/movie-search-service/internal/models"
)

// MovieAPI defines the catalogue operations the stores depend on.
type MovieAPI interface {
	// ListMovies retrieves the full catalogue. Authenticated sessions get
	// per-user like flags; anonymous sessions get the like-free payload.
	ListMovies(ctx context.Context, authenticated bool) ([]models.Movie, error)

	// PublicMovies retrieves the public watch-online catalogue.
	PublicMovies(ctx context.Context) ([]models.Movie, error)

	// GetMovie retrieves a single movie by id, with like state when the
	// session is authenticated.
	GetMovie(ctx context.Context, id int, authenticated bool) (*models.Movie, error)

	// Like marks a movie as liked for the current session's user.
	Like(ctx context.Context, id int) error

	// Unlike removes the like for the current session's user.
	Unlike(ctx context.Context, id int) error

	// LikedMovies retrieves the movies the current user has liked.
	LikedMovies(ctx context.Context) ([]models.Movie, error)
}

package main

import (
	"context"
	"fmt"

	"github.com/martishin/movie-search-service/internal/shared"
	"github.com/martishin/movie-search-service/internal/store"
	"github.com/urfave/cli/v3"
)

// LikesList prints the signed-in user's liked movies.
func (r *Runner) LikesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	movies, err := r.api.LikedMovies(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.printMovies(movies, cmd.Bool("json"), cmd.Bool("pretty"))
}

// LikesAdd likes a movie by id.
func (r *Runner) LikesAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	id, err := movieIDArg(cmd)
	if err != nil {
		return err
	}

	if err := r.api.Like(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("♥ Liked movie %d\n", id)
}

// LikesRemove unlikes a movie by id.
func (r *Runner) LikesRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	id, err := movieIDArg(cmd)
	if err != nil {
		return err
	}

	if err := r.api.Unlike(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("✓ Unliked movie %d\n", id)
}

// LikesToggle flips the like flag for a movie, going through the optimistic
// store so the flip and any rollback follow the same path the TUI uses.
func (r *Runner) LikesToggle(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	id, err := movieIDArg(cmd)
	if err != nil {
		return err
	}

	catalogue := r.newCatalogueStore()
	catalogue.Load(ctx)
	if state, errMsg := catalogue.State(); state == store.Failed {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, errMsg)
	}

	catalogue.ToggleLike(ctx, id)

	for _, movie := range catalogue.Movies() {
		if movie.ID == id {
			if movie.IsLiked {
				return r.writePlain("♥ Liked %s\n", movie.Title)
			}
			return r.writePlain("✓ Unliked %s\n", movie.Title)
		}
	}

	return fmt.Errorf("%w: movie %d", shared.ErrMovieNotFound, id)
}

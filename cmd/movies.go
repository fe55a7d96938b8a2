package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/martishin/movie-search-service/internal/models"
	"github.com/martishin/movie-search-service/internal/shared"
	"github.com/martishin/movie-search-service/internal/stars"
	"github.com/martishin/movie-search-service/internal/store"
	"github.com/martishin/movie-search-service/internal/tasks"
	"github.com/urfave/cli/v3"
)

// MoviesList fetches the catalogue and prints it, optionally searched and
// sorted. The --public flag reads the session-free endpoint.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("cached") {
		cache, closeCache, err := r.openCache()
		if err != nil {
			return err
		}
		defer closeCache()

		movies, err := cache.List()
		if err != nil {
			return fmt.Errorf("failed to read cache: %w", err)
		}
		if len(movies) == 0 {
			return r.writePlainln("Cache is empty, run 'cache sync' first")
		}
		if query := cmd.String("search"); query != "" {
			filtered := movies[:0]
			for _, movie := range movies {
				if movie.MatchesQuery(query) {
					filtered = append(filtered, movie)
				}
			}
			movies = filtered
		}
		return r.printMovies(movies, cmd.Bool("json"), cmd.Bool("pretty"))
	}

	if cmd.Bool("public") {
		movies, err := r.api.PublicMovies(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		return r.printMovies(movies, cmd.Bool("json"), cmd.Bool("pretty"))
	}

	catalogue := r.newCatalogueStore()

	field, err := parseSortField(cmd.String("sort"))
	if err != nil {
		return err
	}
	direction, err := parseSortDirection(cmd.String("direction"))
	if err != nil {
		return err
	}

	catalogue.SetSort(field, direction)
	catalogue.Load(ctx)

	if state, errMsg := catalogue.State(); state == store.Failed {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, errMsg)
	}

	if query := cmd.String("search"); query != "" {
		catalogue.Search(query)
	}

	movies := catalogue.Movies()
	return r.printMovies(movies, cmd.Bool("json"), cmd.Bool("pretty"))
}

// MoviesGet fetches and prints a single movie by id.
func (r *Runner) MoviesGet(ctx context.Context, cmd *cli.Command) error {
	id, err := movieIDArg(cmd)
	if err != nil {
		return err
	}

	movie, err := r.api.GetMovie(ctx, id, r.session.IsAuthenticated())
	if err != nil {
		return fmt.Errorf("%w: movie %d: %v", shared.ErrMovieNotFound, id, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movie, cmd.Bool("pretty"))
	}

	r.writePlainHeader(movie.Title)
	r.writePlain("Rating: %s %.1f/5\n", starRow(movie.UserRating), movie.UserRating)
	r.writePlain("Released: %s\n", movie.ReleaseDate.Format("2006-01-02"))
	if movie.Runtime > 0 {
		r.writePlain("Runtime: %s\n", shared.FormatRuntime(movie.Runtime))
	}
	if movie.MPAARating != "" {
		r.writePlain("MPAA: %s\n", movie.MPAARating)
	}
	if genres := movie.GenreNames(); len(genres) > 0 {
		r.writePlain("Genres: %s\n", strings.Join(genres, ", "))
	}
	if movie.IsLiked {
		r.writePlainln("♥ Liked")
	}
	if movie.Description != "" {
		r.writePlain("\n%s\n", movie.Description)
	}
	return nil
}

// MoviesExport writes the catalogue to disk in the requested format.
func (r *Runner) MoviesExport(ctx context.Context, cmd *cli.Command) error {
	movies, err := r.fetchForBulk(ctx, cmd.String("search"), cmd.Bool("liked"))
	if err != nil {
		return err
	}

	progressChan := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressChan {
			r.writePlain("  [%s] %s\n", update.Phase, update.Message)
		}
	}()

	result, err := r.engine.Export(ctx, progressChan, movies, tasks.ExportOpts{
		Format: cmd.String("format"),
		Output: cmd.String("output"),
	})
	close(progressChan)
	<-done

	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlain("✓ Exported %d movies as %s\n", len(movies), result.Format)
	for _, file := range result.Files {
		r.writePlain("  %s\n", file)
	}
	return nil
}

// MoviesPosters downloads poster images for the catalogue concurrently.
func (r *Runner) MoviesPosters(ctx context.Context, cmd *cli.Command) error {
	movies, err := r.fetchForBulk(ctx, "", false)
	if err != nil {
		return err
	}

	progressChan := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressChan {
			r.writePlain("  [%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result, err := r.engine.BulkPosters(ctx, progressChan, movies, tasks.BulkPosterOpts{
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(progressChan)
	<-done

	if err != nil {
		return fmt.Errorf("poster download failed: %w", err)
	}

	r.writePlain("✓ Posters: %d downloaded, %d failed, %d skipped\n",
		result.Downloaded, result.Failed, result.Skipped)
	r.writePlain("Output: %s\n", result.OutputDirectory)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}
	return nil
}

// fetchForBulk loads the catalogue for export-style operations, applying the
// optional search and liked filters.
func (r *Runner) fetchForBulk(ctx context.Context, query string, likedOnly bool) ([]models.Movie, error) {
	if likedOnly {
		if err := r.requireSession(); err != nil {
			return nil, err
		}
		movies, err := r.api.LikedMovies(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		return movies, nil
	}

	catalogue := r.newCatalogueStore()
	catalogue.Load(ctx)
	if state, errMsg := catalogue.State(); state == store.Failed {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, errMsg)
	}
	if query != "" {
		catalogue.Search(query)
	}
	return catalogue.Movies(), nil
}

// printMovies renders a movie list as JSON or a plain table.
func (r *Runner) printMovies(movies []models.Movie, asJSON, pretty bool) error {
	if asJSON {
		return r.writeJSON(movies, pretty)
	}

	if len(movies) == 0 {
		return r.writePlainln("No movies found")
	}

	r.writePlainHeader(fmt.Sprintf("Movies (%d)", len(movies)))
	for _, movie := range movies {
		liked := " "
		if movie.IsLiked {
			liked = "♥"
		}
		r.writePlain("%s %4d  %-40s %s  %s\n",
			liked, movie.ID, movie.Title, starRow(movie.UserRating), movie.ReleaseDate.Format("2006-01-02"))
	}
	return nil
}

// starRow renders a five-slot star string for a 0 to 5 rating.
func starRow(rating float64) string {
	b := stars.Compute(rating)
	var sb strings.Builder
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

// movieIDArg parses the positional movie id argument.
func movieIDArg(cmd *cli.Command) (int, error) {
	raw := cmd.StringArg("id")
	if raw == "" {
		return 0, fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: movie id %q is not a number", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

package tasks

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/martishin/movie-search-service/internal/formatter"
	"github.com/martishin/movie-search-service/internal/models"
	"github.com/martishin/movie-search-service/internal/services"
	"github.com/martishin/movie-search-service/internal/shared"
)

// SyncRunResult contains all data from a catalogue sync operation.
type SyncRunResult struct {
	TotalMovies int       // Movies fetched from the service
	LikedCount  int       // Movies flagged as liked in the fetched snapshot
	FetchedAt   time.Time // Snapshot timestamp written to the cache
}

// ExportRunResult contains the files produced by an export operation.
type ExportRunResult struct {
	Format string
	Files  []string
}

// Engine defines long-running catalogue operations.
type Engine interface {
	// Sync fetches the catalogue and replaces the local cache snapshot.
	Sync(ctx context.Context, progress chan<- ProgressUpdate, authenticated bool) (*SyncRunResult, error)

	// Export writes the given movies to disk in the requested format.
	Export(ctx context.Context, progress chan<- ProgressUpdate, movies []models.Movie, opts ExportOpts) (*ExportRunResult, error)

	// BulkPosters downloads poster images for the given movies concurrently.
	BulkPosters(ctx context.Context, progress chan<- ProgressUpdate, movies []models.Movie, opts BulkPosterOpts) (*BulkPosterResult, error)
}

// CatalogueEngine implements [Engine] against the movie service API and the
// local SQLite cache.
type CatalogueEngine struct {
	api   services.MovieAPI
	cache models.CatalogueCache
}

var _ Engine = (*CatalogueEngine)(nil)

// NewCatalogueEngine creates a new CatalogueEngine with the provided dependencies.
// The cache may be nil; Sync then skips the cache write.
func NewCatalogueEngine(api services.MovieAPI, cache models.CatalogueCache) *CatalogueEngine {
	return &CatalogueEngine{
		api:   api,
		cache: cache,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *CatalogueEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Sync fetches the full catalogue and replaces the local cache snapshot.
func (e *CatalogueEngine) Sync(ctx context.Context, progress chan<- ProgressUpdate, authenticated bool) (*SyncRunResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: movie service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchCatalogueUpdate(1, 2))

	movies, err := e.api.ListMovies(ctx, authenticated)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch catalogue: %v", shared.ErrAPIRequest, err)
	}

	result := &SyncRunResult{
		TotalMovies: len(movies),
		FetchedAt:   time.Now(),
	}
	for _, movie := range movies {
		if movie.IsLiked {
			result.LikedCount++
		}
	}

	e.sendProgress(progress, fetchedCatalogueUpdate(1, 2, len(movies)))

	if e.cache != nil {
		e.sendProgress(progress, writeCacheUpdate(2, 2))
		if err := e.cache.ReplaceAll(movies, result.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to write cache snapshot: %w", err)
		}
	}

	return result, nil
}

// ExportOpts contains configuration for catalogue exports.
type ExportOpts struct {
	Format  string // Export format: json, csv, markdown, txt
	Output  string // Output path or directory (format-dependent default)
	Heading string // Markdown heading (default: Movies)
}

// Export writes the given movies to disk in the requested format.
func (e *CatalogueEngine) Export(ctx context.Context, progress chan<- ProgressUpdate, movies []models.Movie, opts ExportOpts) (*ExportRunResult, error) {
	if opts.Format == "" {
		opts.Format = "json"
	}

	e.sendProgress(progress, exportMoviesUpdate(1, len(movies), opts.Format))

	result := &ExportRunResult{Format: opts.Format}

	switch opts.Format {
	case "csv":
		csvRes, err := formatter.WriteCSVExport(movies, opts.Output)
		if err != nil {
			return nil, fmt.Errorf("CSV export failed: %w", err)
		}
		result.Files = []string{csvRes.MoviesFile}

	case "markdown":
		mdRes, err := formatter.WriteMarkdownExport(movies, opts.Output, opts.Heading)
		if err != nil {
			return nil, fmt.Errorf("markdown export failed: %w", err)
		}
		result.Files = mdRes.Files

	case "txt":
		path, err := formatter.WriteTextExport(movies, opts.Output)
		if err != nil {
			return nil, fmt.Errorf("text export failed: %w", err)
		}
		result.Files = []string{path}

	case "json":
		path := opts.Output
		if path == "" {
			path = "movies.json"
		}
		data, err := shared.MarshalJSON(movies, true)
		if err != nil {
			return nil, fmt.Errorf("JSON marshal failed: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("JSON write failed: %w", err)
		}
		result.Files = []string{path}

	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidInput, opts.Format)
	}

	return result, nil
}

package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/martishin/movie-search-service/internal/formatter"
	"github.com/martishin/movie-search-service/internal/models"
	"github.com/martishin/movie-search-service/internal/shared"
	"golang.org/x/time/rate"
)

// defaultPosterBaseURL is the TMDB image host the movie service's image
// paths resolve against.
const defaultPosterBaseURL = "https://image.tmdb.org/t/p/w500"

// BulkPosterOpts contains configuration for bulk poster downloads.
type BulkPosterOpts struct {
	OutputDir     string  // Base output directory (default: posters_{epoch})
	NumWorkers    int     // Concurrent workers (default: 5)
	RateLimit     float64 // Requests per second (default: 5)
	PosterBaseURL string  // Image host (default: TMDB)
}

// PosterJob is a unit of work for the poster download pool.
type PosterJob struct {
	Movie models.Movie
	Step  int
}

// PosterResult records the outcome of a single poster download.
type PosterResult struct {
	MovieID int    `json:"movie_id"`
	Title   string `json:"title"`
	File    string `json:"file,omitempty"`
	Success bool   `json:"success"`
	Error   error  `json:"-"`
}

// BulkPosterResult summarizes a bulk poster download run.
type BulkPosterResult struct {
	RunID           string         `json:"run_id"`
	TotalMovies     int            `json:"total_movies"`
	Downloaded      int            `json:"downloaded"`
	Failed          int            `json:"failed"`
	Skipped         int            `json:"skipped"`
	OutputDirectory string         `json:"output_directory"`
	Results         []PosterResult `json:"results"`
	ManifestPath    string         `json:"-"`
}

// BulkPosters downloads poster images for the given movies concurrently with
// rate limiting and progress tracking.
//
// This method implements a worker pool pattern. It respects the image host's
// rate limits, handles partial failures gracefully, and generates a manifest
// file summarizing the download results. Movies without an image path are
// counted as skipped.
func (e *CatalogueEngine) BulkPosters(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	movies []models.Movie,
	opts BulkPosterOpts,
) (*BulkPosterResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("posters_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.PosterBaseURL == "" {
		opts.PosterBaseURL = defaultPosterBaseURL
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkPosterResult{
		RunID:           shared.GenerateID(),
		TotalMovies:     len(movies),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PosterResult, 0, len(movies)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan PosterJob, len(movies))
	results := make(chan PosterResult, len(movies))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.posterWorker(ctx, &wg, limiter, jobs, results, opts)
	}

	queued := 0
	for _, movie := range movies {
		if movie.Image == "" {
			result.Skipped++
			continue
		}
		queued++
		jobs <- PosterJob{Movie: movie, Step: queued}
		e.sendProgress(prog, posterQueuedUpdate(queued, len(movies), movie.Title))
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.Downloaded++
			e.sendProgress(prog, posterCompletedUpdate(completed, queued, res.Title))
		} else {
			result.Failed++
			e.sendProgress(prog, posterFailedUpdate(completed, queued, res.Title, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "poster_manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("download completed but failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("download completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	return result, nil
}

// posterWorker is a worker goroutine that downloads posters from the jobs channel.
func (e *CatalogueEngine) posterWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan PosterJob,
	results chan<- PosterResult,
	opts BulkPosterOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		results <- e.downloadPoster(job, opts)
	}
}

// downloadPoster fetches a single movie's poster and writes it to the output directory.
func (e *CatalogueEngine) downloadPoster(job PosterJob, opts BulkPosterOpts) PosterResult {
	result := PosterResult{
		MovieID: job.Movie.ID,
		Title:   job.Movie.Title,
	}

	url := fmt.Sprintf("%s/%s", opts.PosterBaseURL, job.Movie.Image)
	data, err := formatter.DownloadImage(url)
	if err != nil {
		result.Error = fmt.Errorf("poster download failed: %w", err)
		return result
	}

	file := filepath.Join(opts.OutputDir, fmt.Sprintf("%d.jpg", job.Movie.ID))
	if err := os.WriteFile(file, data, 0644); err != nil {
		result.Error = fmt.Errorf("poster write failed: %w", err)
		return result
	}

	result.File = file
	result.Success = true
	return result
}

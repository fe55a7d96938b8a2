package tasks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/martishin/movie-search-service/internal/models"
	tu "github.com/martishin/movie-search-service/internal/testing"
)

// posterServer serves fake poster bytes for any path except /missing.jpg.
func posterServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "missing.jpg") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBulkPosters(t *testing.T) {
	ctx := context.Background()
	engine := NewCatalogueEngine(&tu.MockMovieAPI{}, nil)

	t.Run("downloads posters into the output directory", func(t *testing.T) {
		srv := posterServer(t)
		dir := t.TempDir()

		movies := []models.Movie{
			{ID: 1, Title: "Highlander", Image: "one.jpg"},
			{ID: 2, Title: "Raiders of the Lost Ark", Image: "two.jpg"},
		}

		result, err := engine.BulkPosters(ctx, nil, movies, BulkPosterOpts{
			OutputDir:     dir,
			PosterBaseURL: srv.URL,
		})
		if err != nil {
			t.Fatalf("BulkPosters failed: %v", err)
		}

		if result.Downloaded != 2 {
			t.Errorf("expected 2 downloads, got %d", result.Downloaded)
		}
		if result.Failed != 0 {
			t.Errorf("expected no failures, got %d", result.Failed)
		}
		for _, res := range result.Results {
			tu.AssertFileExists(t, res.File)
		}
		tu.AssertFileExists(t, result.ManifestPath)
		if result.RunID == "" {
			t.Error("expected a run id in the result")
		}
	})

	t.Run("partial failures are recorded, not fatal", func(t *testing.T) {
		srv := posterServer(t)
		dir := t.TempDir()

		movies := []models.Movie{
			{ID: 1, Title: "Highlander", Image: "one.jpg"},
			{ID: 2, Title: "Broken", Image: "missing.jpg"},
		}

		result, err := engine.BulkPosters(ctx, nil, movies, BulkPosterOpts{
			OutputDir:     dir,
			PosterBaseURL: srv.URL,
		})
		if err != nil {
			t.Fatalf("BulkPosters failed: %v", err)
		}

		if result.Downloaded != 1 {
			t.Errorf("expected 1 download, got %d", result.Downloaded)
		}
		if result.Failed != 1 {
			t.Errorf("expected 1 failure, got %d", result.Failed)
		}
	})

	t.Run("movies without images are skipped", func(t *testing.T) {
		srv := posterServer(t)
		dir := t.TempDir()

		movies := []models.Movie{
			{ID: 1, Title: "Highlander", Image: "one.jpg"},
			{ID: 2, Title: "No Poster"},
		}

		result, err := engine.BulkPosters(ctx, nil, movies, BulkPosterOpts{
			OutputDir:     dir,
			PosterBaseURL: srv.URL,
		})
		if err != nil {
			t.Fatalf("BulkPosters failed: %v", err)
		}

		if result.Skipped != 1 {
			t.Errorf("expected 1 skipped, got %d", result.Skipped)
		}
		if result.Downloaded != 1 {
			t.Errorf("expected 1 download, got %d", result.Downloaded)
		}
	})

	t.Run("reports progress updates", func(t *testing.T) {
		srv := posterServer(t)
		dir := t.TempDir()

		movies := []models.Movie{{ID: 1, Title: "Highlander", Image: "one.jpg"}}

		progress := make(chan ProgressUpdate, 10)
		if _, err := engine.BulkPosters(ctx, progress, movies, BulkPosterOpts{
			OutputDir:     dir,
			PosterBaseURL: srv.URL,
		}); err != nil {
			t.Fatalf("BulkPosters failed: %v", err)
		}
		close(progress)

		seen := 0
		for update := range progress {
			if update.Phase != DownloadPosters {
				t.Errorf("unexpected phase %v", update.Phase)
			}
			seen++
		}
		if seen == 0 {
			t.Error("expected at least one progress update")
		}
	})
}

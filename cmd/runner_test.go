package main

import (
	"bytes"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/martishin/movie-search-service/internal/shared"
	"github.com/martishin/movie-search-service/internal/store"
	tu "github.com/martishin/movie-search-service/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			api := &tu.MockMovieAPI{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				API:        api,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be constructed")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				HTTPClient: nil,
			})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				ConfigPath: "/test/path/config.toml",
			})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("requireSession", func(t *testing.T) {
		t.Run("fails without a session", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			err := runner.requireSession()
			if err == nil {
				t.Fatal("expected error without a session")
			}
			if !strings.Contains(err.Error(), "auth login") {
				t.Errorf("expected login hint, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes formatted text", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("movies: %d\n", 3); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if output.String() != "movies: 3\n" {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writePlain("movies"); err == nil {
				t.Fatal("expected error from failing writer")
			}
		})
	})
}

func TestParseSortField(t *testing.T) {
	tests := []struct {
		value   string
		want    store.SortField
		wantErr bool
	}{
		{"title", store.SortByTitle, false},
		{"date", store.SortByReleaseDate, false},
		{"releaseDate", store.SortByReleaseDate, false},
		{"release-date", store.SortByReleaseDate, false},
		{"rating", store.SortByUserRating, false},
		{"userRating", store.SortByUserRating, false},
		{"user-rating", store.SortByUserRating, false},
		{"popularity", 0, true},
		{"", 0, true},
	}

	for _, tc := range tests {
		t.Run("value "+tc.value, func(t *testing.T) {
			field, err := parseSortField(tc.value)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if field != tc.want {
				t.Errorf("expected %v, got %v", tc.want, field)
			}
		})
	}
}

func TestParseSortDirection(t *testing.T) {
	tests := []struct {
		value   string
		want    store.SortDirection
		wantErr bool
	}{
		{"asc", store.Ascending, false},
		{"ascending", store.Ascending, false},
		{"desc", store.Descending, false},
		{"descending", store.Descending, false},
		{"sideways", 0, true},
		{"", 0, true},
	}

	for _, tc := range tests {
		t.Run("value "+tc.value, func(t *testing.T) {
			direction, err := parseSortDirection(tc.value)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if direction != tc.want {
				t.Errorf("expected %v, got %v", tc.want, direction)
			}
		})
	}
}

func TestStarRow(t *testing.T) {
	tests := []struct {
		rating float64
		want   string
	}{
		{0, "☆☆☆☆☆"},
		{2.5, "★★½☆☆"},
		{2.6, "★★★☆☆"},
		{4.5, "★★★★½"},
		{5, "★★★★★"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := starRow(tc.rating); got != tc.want {
				t.Errorf("rating %.1f: expected %s, got %s", tc.rating, tc.want, got)
			}
		})
	}
}

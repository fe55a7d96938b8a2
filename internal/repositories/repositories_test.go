package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/martishin/movie-search-service/internal/models"
	"github.com/martishin/movie-search-service/internal/shared"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func snapshot() []models.Movie {
	return []models.Movie{
		{
			ID:          1,
			Title:       "Highlander",
			ReleaseDate: time.Date(1986, 3, 7, 0, 0, 0, 0, time.UTC),
			Runtime:     116,
			MPAARating:  "R",
			Description: "He fought his first battle on the Scottish Highlands in 1536.",
			Genres:      []models.Genre{{ID: 6, Name: "Action"}, {ID: 9, Name: "Fantasy"}},
			UserRating:  3.0,
		},
		{
			ID:          2,
			Title:       "Raiders of the Lost Ark",
			ReleaseDate: time.Date(1981, 6, 12, 0, 0, 0, 0, time.UTC),
			Runtime:     115,
			MPAARating:  "PG-13",
			Genres:      []models.Genre{{ID: 6, Name: "Action"}},
			UserRating:  4.5,
			IsLiked:     true,
		},
	}
}

func TestMovieRepository(t *testing.T) {
	fetchedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("ReplaceAll and List round-trip", func(t *testing.T) {
		repo := NewMovieRepository(setupDB(t))

		if err := repo.ReplaceAll(snapshot(), fetchedAt); err != nil {
			t.Fatalf("ReplaceAll failed: %v", err)
		}

		movies, err := repo.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(movies) != 2 {
			t.Fatalf("expected 2 movies, got %d", len(movies))
		}

		first := movies[0]
		if first.Title != "Highlander" {
			t.Errorf("unexpected title %q", first.Title)
		}
		if !first.ReleaseDate.Equal(time.Date(1986, 3, 7, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected release date %v", first.ReleaseDate)
		}
		if len(first.Genres) != 2 || first.Genres[0].Name != "Action" || first.Genres[1].Name != "Fantasy" {
			t.Errorf("genre order not preserved: %v", first.Genres)
		}
		if !movies[1].IsLiked {
			t.Error("like flag lost in round-trip")
		}
	})

	t.Run("ReplaceAll discards the previous snapshot", func(t *testing.T) {
		repo := NewMovieRepository(setupDB(t))

		if err := repo.ReplaceAll(snapshot(), fetchedAt); err != nil {
			t.Fatalf("first ReplaceAll failed: %v", err)
		}

		later := fetchedAt.Add(time.Hour)
		err := repo.ReplaceAll([]models.Movie{{
			ID:          3,
			Title:       "American Psycho",
			ReleaseDate: time.Date(2000, 4, 14, 0, 0, 0, 0, time.UTC),
			Genres:      []models.Genre{{ID: 11, Name: "Horror"}},
		}}, later)
		if err != nil {
			t.Fatalf("second ReplaceAll failed: %v", err)
		}

		movies, err := repo.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(movies) != 1 || movies[0].ID != 3 {
			t.Errorf("expected only the new snapshot, got %v", movies)
		}

		at, err := repo.FetchedAt()
		if err != nil {
			t.Fatalf("FetchedAt failed: %v", err)
		}
		if !at.Equal(later) {
			t.Errorf("expected snapshot time %v, got %v", later, at)
		}
	})

	t.Run("Get returns a single movie with genres", func(t *testing.T) {
		repo := NewMovieRepository(setupDB(t))

		if err := repo.ReplaceAll(snapshot(), fetchedAt); err != nil {
			t.Fatalf("ReplaceAll failed: %v", err)
		}

		movie, err := repo.Get(2)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if movie.Title != "Raiders of the Lost Ark" {
			t.Errorf("unexpected title %q", movie.Title)
		}
		if len(movie.Genres) != 1 || movie.Genres[0].ID != 6 {
			t.Errorf("unexpected genres %v", movie.Genres)
		}
	})

	t.Run("Get unknown id fails", func(t *testing.T) {
		repo := NewMovieRepository(setupDB(t))

		if _, err := repo.Get(404); err == nil {
			t.Error("expected an error for an uncached movie")
		}
	})

	t.Run("Clear empties the cache", func(t *testing.T) {
		repo := NewMovieRepository(setupDB(t))

		if err := repo.ReplaceAll(snapshot(), fetchedAt); err != nil {
			t.Fatalf("ReplaceAll failed: %v", err)
		}
		if err := repo.Clear(); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}

		movies, err := repo.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(movies) != 0 {
			t.Errorf("expected empty cache, got %d movies", len(movies))
		}

		at, err := repo.FetchedAt()
		if err != nil {
			t.Fatalf("FetchedAt failed: %v", err)
		}
		if !at.IsZero() {
			t.Errorf("expected zero snapshot time, got %v", at)
		}
	})

	t.Run("Count reflects the snapshot size", func(t *testing.T) {
		repo := NewMovieRepository(setupDB(t))

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 0 {
			t.Errorf("expected 0 before caching, got %d", count)
		}

		if err := repo.ReplaceAll(snapshot(), fetchedAt); err != nil {
			t.Fatalf("ReplaceAll failed: %v", err)
		}

		count, err = repo.Count()
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 2 {
			t.Errorf("expected 2 after caching, got %d", count)
		}
	})

	t.Run("shared genres are deduplicated", func(t *testing.T) {
		repo := NewMovieRepository(setupDB(t))

		if err := repo.ReplaceAll(snapshot(), fetchedAt); err != nil {
			t.Fatalf("ReplaceAll failed: %v", err)
		}

		db := repo.db
		var genreCount int
		if err := db.QueryRow("SELECT COUNT(*) FROM genres").Scan(&genreCount); err != nil {
			t.Fatalf("failed to count genres: %v", err)
		}
		if genreCount != 2 {
			t.Errorf("expected 2 distinct genres, got %d", genreCount)
		}
	})
}

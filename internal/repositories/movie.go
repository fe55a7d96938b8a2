package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/martishin/movie-search-service/internal/models"
)

// MovieRepository implements [models.CatalogueCache] on a SQLite database.
//
// The cache holds exactly one snapshot: ReplaceAll wipes the previous
// contents inside a transaction so readers never observe a half-written
// catalogue. Genres are normalized into their own table and re-linked
// through movie_genres, preserving the order the service returned them in.
type MovieRepository struct {
	db *sql.DB
}

var _ models.CatalogueCache = (*MovieRepository)(nil)

// NewMovieRepository creates a new MovieRepository with the given database connection
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// ReplaceAll replaces the cached snapshot with the given movies, stamped
// with fetchedAt.
func (r *MovieRepository) ReplaceAll(movies []models.Movie, fetchedAt time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"movie_genres", "movies", "genres"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	movieStmt, err := tx.Prepare(`
		INSERT INTO movies (id, title, release_date, runtime, mpaa_rating, description, image, video, user_rating, is_liked, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare movie insert: %w", err)
	}
	defer movieStmt.Close()

	genreStmt, err := tx.Prepare("INSERT OR IGNORE INTO genres (id, name) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare genre insert: %w", err)
	}
	defer genreStmt.Close()

	linkStmt, err := tx.Prepare("INSERT INTO movie_genres (movie_id, genre_id, position) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare genre link insert: %w", err)
	}
	defer linkStmt.Close()

	for _, movie := range movies {
		_, err := movieStmt.Exec(
			movie.ID,
			movie.Title,
			movie.ReleaseDate,
			movie.Runtime,
			movie.MPAARating,
			movie.Description,
			movie.Image,
			movie.Video,
			movie.UserRating,
			movie.IsLiked,
			fetchedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert movie %d: %w", movie.ID, err)
		}

		for position, genre := range movie.Genres {
			if _, err := genreStmt.Exec(genre.ID, genre.Name); err != nil {
				return fmt.Errorf("failed to insert genre %d: %w", genre.ID, err)
			}
			if _, err := linkStmt.Exec(movie.ID, genre.ID, position); err != nil {
				return fmt.Errorf("failed to link genre %d to movie %d: %w", genre.ID, movie.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return nil
}

// List retrieves every cached movie ordered by id
func (r *MovieRepository) List() ([]models.Movie, error) {
	query := `
		SELECT id, title, release_date, runtime, mpaa_rating, description, image, video, user_rating, is_liked
		FROM movies
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		movie, err := r.scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for i := range movies {
		genres, err := r.movieGenres(movies[i].ID)
		if err != nil {
			return nil, err
		}
		movies[i].Genres = genres
	}

	return movies, nil
}

// Get retrieves a cached movie by id
func (r *MovieRepository) Get(id int) (*models.Movie, error) {
	query := `
		SELECT id, title, release_date, runtime, mpaa_rating, description, image, video, user_rating, is_liked
		FROM movies
		WHERE id = ?
	`

	row := r.db.QueryRow(query, id)

	var (
		movie   models.Movie
		isLiked int
	)
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.ReleaseDate,
		&movie.Runtime,
		&movie.MPAARating,
		&movie.Description,
		&movie.Image,
		&movie.Video,
		&movie.UserRating,
		&isLiked,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("movie %d not cached", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan movie: %w", err)
	}
	movie.IsLiked = isLiked != 0

	genres, err := r.movieGenres(movie.ID)
	if err != nil {
		return nil, err
	}
	movie.Genres = genres

	return &movie, nil
}

// Clear removes the cached snapshot entirely
func (r *MovieRepository) Clear() error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"movie_genres", "movies", "genres"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}

	return nil
}

// FetchedAt reports when the cached snapshot was taken. Returns the zero
// time when the cache is empty.
func (r *MovieRepository) FetchedAt() (time.Time, error) {
	var fetchedAt sql.NullTime

	err := r.db.QueryRow("SELECT MAX(fetched_at) FROM movies").Scan(&fetchedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read snapshot time: %w", err)
	}
	if !fetchedAt.Valid {
		return time.Time{}, nil
	}

	return fetchedAt.Time, nil
}

// Count reports how many movies the snapshot holds
func (r *MovieRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM movies").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

// scanMovie scans a row from [sql.Rows] into a [models.Movie] without genres
func (r *MovieRepository) scanMovie(rows *sql.Rows) (models.Movie, error) {
	var (
		movie   models.Movie
		isLiked int
	)

	err := rows.Scan(
		&movie.ID,
		&movie.Title,
		&movie.ReleaseDate,
		&movie.Runtime,
		&movie.MPAARating,
		&movie.Description,
		&movie.Image,
		&movie.Video,
		&movie.UserRating,
		&isLiked,
	)
	if err != nil {
		return models.Movie{}, fmt.Errorf("failed to scan movie: %w", err)
	}
	movie.IsLiked = isLiked != 0

	return movie, nil
}

// movieGenres loads a movie's genres in their stored position order
func (r *MovieRepository) movieGenres(movieID int) ([]models.Genre, error) {
	query := `
		SELECT g.id, g.name
		FROM genres g
		JOIN movie_genres mg ON mg.genre_id = g.id
		WHERE mg.movie_id = ?
		ORDER BY mg.position ASC
	`

	rows, err := r.db.Query(query, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to query genres for movie %d: %w", movieID, err)
	}
	defer rows.Close()

	var genres []models.Genre
	for rows.Next() {
		var genre models.Genre
		if err := rows.Scan(&genre.ID, &genre.Name); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, genre)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return genres, nil
}

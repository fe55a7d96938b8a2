// Movie service API implementation of [MovieAPI]
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/martishin/movie-search-service/internal/models"
	"github.com/martishin/movie-search-service/internal/shared"
	"golang.org/x/time/rate"
)

const defaultRateLimit = 10 // requests per second when none is configured

// moviePayload mirrors the service's movie JSON object. Optional fields are
// pointers so absence can be told apart from zero values.
type moviePayload struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	ReleaseDate string         `json:"release_date"`
	Runtime     int            `json:"runtime"`
	MPAARating  string         `json:"mpaa_rating"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	Video       string         `json:"video"`
	Genres      []models.Genre `json:"genres"`
	UserRating  *float64       `json:"user_rating"`
	IsLiked     *bool          `json:"is_liked"`
}

// toMovie normalizes the wire payload into a [models.Movie].
//
// user_rating defaults to 0 when absent; is_liked defaults to false (the
// service omits it for anonymous callers).
func (p moviePayload) toMovie() (models.Movie, error) {
	releaseDate, err := parseReleaseDate(p.ReleaseDate)
	if err != nil {
		return models.Movie{}, fmt.Errorf("%w: movie %d: %v", shared.ErrMalformedResponse, p.ID, err)
	}

	movie := models.Movie{
		ID:          p.ID,
		Title:       p.Title,
		ReleaseDate: releaseDate,
		Runtime:     p.Runtime,
		MPAARating:  p.MPAARating,
		Description: p.Description,
		Image:       p.Image,
		Video:       p.Video,
		Genres:      p.Genres,
	}

	if p.UserRating != nil {
		movie.UserRating = *p.UserRating
	}
	if p.IsLiked != nil {
		movie.IsLiked = *p.IsLiked
	}

	return movie, nil
}

// parseReleaseDate accepts both full RFC 3339 timestamps and bare dates.
func parseReleaseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", value)
}

// MovieService implements [MovieAPI] against the movie service HTTP API.
// Requests go through the session's cookie-jar client and are paced by a
// [rate.Limiter] so bulk operations don't hammer the service.
type MovieService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ MovieAPI = (*MovieService)(nil)

// NewMovieService creates a MovieService for the API at baseURL.
// The client should be the session's cookie-jar client so like flags resolve
// to the logged-in user; requestsPerSecond <= 0 selects the default limit.
func NewMovieService(baseURL string, client *http.Client, requestsPerSecond float64) *MovieService {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if client == nil {
		client = http.DefaultClient
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = defaultRateLimit
	}

	return &MovieService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// doRequest performs an HTTP request against the movie service API and
// decodes a JSON response into result when result is non-nil.
func (s *MovieService) doRequest(ctx context.Context, method, endpoint string, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	apiURL := s.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, method, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrMovieNotFound, endpoint)
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, endpoint)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
		}
	}

	return nil
}

// listEndpoint performs a GET for a movie list and normalizes the payload.
func (s *MovieService) listEndpoint(ctx context.Context, endpoint string) ([]models.Movie, error) {
	var payload []moviePayload
	if err := s.doRequest(ctx, http.MethodGet, endpoint, &payload); err != nil {
		return nil, err
	}

	movies := make([]models.Movie, 0, len(payload))
	for _, p := range payload {
		movie, err := p.toMovie()
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}

	return movies, nil
}

// ListMovies retrieves the catalogue for the session flavor.
func (s *MovieService) ListMovies(ctx context.Context, authenticated bool) ([]models.Movie, error) {
	endpoint := "/api/movies"
	if authenticated {
		endpoint = "/api/movies-with-likes"
	}
	return s.listEndpoint(ctx, endpoint)
}

// PublicMovies retrieves the public watch-online catalogue.
func (s *MovieService) PublicMovies(ctx context.Context) ([]models.Movie, error) {
	return s.listEndpoint(ctx, "/api/public/movies")
}

// GetMovie retrieves a single movie by id.
func (s *MovieService) GetMovie(ctx context.Context, id int, authenticated bool) (*models.Movie, error) {
	endpoint := fmt.Sprintf("/api/movies/%d", id)
	if authenticated {
		endpoint = fmt.Sprintf("/api/movies-with-likes/%d", id)
	}

	var payload moviePayload
	if err := s.doRequest(ctx, http.MethodGet, endpoint, &payload); err != nil {
		return nil, err
	}

	movie, err := payload.toMovie()
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

// Like marks a movie as liked for the current user.
func (s *MovieService) Like(ctx context.Context, id int) error {
	return s.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/movies/likes/%d", id), nil)
}

// Unlike removes a like for the current user.
func (s *MovieService) Unlike(ctx context.Context, id int) error {
	return s.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/movies/likes/%d", id), nil)
}

// LikedMovies retrieves the current user's liked movies.
func (s *MovieService) LikedMovies(ctx context.Context) ([]models.Movie, error) {
	return s.listEndpoint(ctx, "/api/movies/likes")
}

// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/martishin/movie-search-service/internal/models"
	"github.com/martishin/movie-search-service/internal/session"
)

// MockMovieAPI is a test double for [services.MovieAPI]. Behavior is
// configured per-method with function fields; unset methods succeed with
// empty results. Calls records every invocation in order.
type MockMovieAPI struct {
	ListMoviesFunc  func(ctx context.Context, authenticated bool) ([]models.Movie, error)
	PublicFunc      func(ctx context.Context) ([]models.Movie, error)
	GetMovieFunc    func(ctx context.Context, id int, authenticated bool) (*models.Movie, error)
	LikeFunc        func(ctx context.Context, id int) error
	UnlikeFunc      func(ctx context.Context, id int) error
	LikedMoviesFunc func(ctx context.Context) ([]models.Movie, error)

	mu    sync.Mutex
	Calls []string
}

func (m *MockMovieAPI) record(call string) {
	m.mu.Lock()
	m.Calls = append(m.Calls, call)
	m.mu.Unlock()
}

// CallCount returns how many recorded calls match name.
func (m *MockMovieAPI) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, call := range m.Calls {
		if call == name {
			count++
		}
	}
	return count
}

func (m *MockMovieAPI) ListMovies(ctx context.Context, authenticated bool) ([]models.Movie, error) {
	m.record("ListMovies")
	if m.ListMoviesFunc != nil {
		return m.ListMoviesFunc(ctx, authenticated)
	}
	return []models.Movie{}, nil
}

func (m *MockMovieAPI) PublicMovies(ctx context.Context) ([]models.Movie, error) {
	m.record("PublicMovies")
	if m.PublicFunc != nil {
		return m.PublicFunc(ctx)
	}
	return []models.Movie{}, nil
}

func (m *MockMovieAPI) GetMovie(ctx context.Context, id int, authenticated bool) (*models.Movie, error) {
	m.record("GetMovie")
	if m.GetMovieFunc != nil {
		return m.GetMovieFunc(ctx, id, authenticated)
	}
	return &models.Movie{ID: id}, nil
}

func (m *MockMovieAPI) Like(ctx context.Context, id int) error {
	m.record("Like")
	if m.LikeFunc != nil {
		return m.LikeFunc(ctx, id)
	}
	return nil
}

func (m *MockMovieAPI) Unlike(ctx context.Context, id int) error {
	m.record("Unlike")
	if m.UnlikeFunc != nil {
		return m.UnlikeFunc(ctx, id)
	}
	return nil
}

func (m *MockMovieAPI) LikedMovies(ctx context.Context) ([]models.Movie, error) {
	m.record("LikedMovies")
	if m.LikedMoviesFunc != nil {
		return m.LikedMoviesFunc(ctx)
	}
	return []models.Movie{}, nil
}

// MockCatalogueCache is an in-memory [models.CatalogueCache].
type MockCatalogueCache struct {
	mu        sync.Mutex
	Movies    []models.Movie
	Stamp     time.Time
	ReplaceFn func([]models.Movie, time.Time) error // Optional override for ReplaceAll
}

func (c *MockCatalogueCache) ReplaceAll(movies []models.Movie, fetchedAt time.Time) error {
	if c.ReplaceFn != nil {
		return c.ReplaceFn(movies, fetchedAt)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Movies = append([]models.Movie(nil), movies...)
	c.Stamp = fetchedAt
	return nil
}

func (c *MockCatalogueCache) List() ([]models.Movie, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Movie(nil), c.Movies...), nil
}

func (c *MockCatalogueCache) Get(id int) (*models.Movie, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, movie := range c.Movies {
		if movie.ID == id {
			copied := movie
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("movie %d not cached", id)
}

func (c *MockCatalogueCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Movies = nil
	c.Stamp = time.Time{}
	return nil
}

func (c *MockCatalogueCache) FetchedAt() (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Stamp, nil
}

// MockNotifier records messages passed to Show.
type MockNotifier struct {
	mu       sync.Mutex
	Messages []string
}

func (n *MockNotifier) Show(message string) {
	n.mu.Lock()
	n.Messages = append(n.Messages, message)
	n.mu.Unlock()
}

// Count returns the number of shown messages.
func (n *MockNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Messages)
}

// FakeSession is a controllable stand-in for [session.Session]: tests drive
// identity transitions directly instead of going through HTTP.
type FakeSession struct {
	mu          sync.Mutex
	auth        bool
	epoch       uint64
	subscribers map[int]func(session.Identity)
	nextID      int
}

// NewFakeSession returns a FakeSession in the given starting state.
func NewFakeSession(authenticated bool) *FakeSession {
	return &FakeSession{
		auth:        authenticated,
		subscribers: make(map[int]func(session.Identity)),
	}
}

func (f *FakeSession) IsAuthenticated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auth
}

func (f *FakeSession) Epoch() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.epoch
}

func (f *FakeSession) Subscribe(fn func(session.Identity)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subscribers[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subscribers, id)
		f.mu.Unlock()
	}
}

// Transition flips the authenticated flag, bumps the epoch and notifies
// subscribers, mimicking a real session identity transition.
func (f *FakeSession) Transition(authenticated bool) {
	f.mu.Lock()
	f.auth = authenticated
	f.epoch++
	identity := session.Identity{Authenticated: authenticated}
	var fns []func(session.Identity)
	for _, fn := range f.subscribers {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}

// BumpEpoch advances the epoch without notifying, for simulating a
// transition that lands while a request is in flight.
func (f *FakeSession) BumpEpoch() {
	f.mu.Lock()
	f.epoch++
	f.mu.Unlock()
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

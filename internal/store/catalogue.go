package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/martishin/movie-search-service/internal/models"
	"github.com/martishin/movie-search-service/internal/services"
	"github.com/martishin/movie-search-service/internal/session"
	"github.com/martishin/movie-search-service/internal/shared"
)

// CatalogueStore is the single source of truth for the movie list shown to
// the current session.
//
// The canonical list (fetch order) and the filtered view are owned
// exclusively by the store; callers read copies and mutate only through
// Load, Search, SortBy and ToggleLike.
type CatalogueStore struct {
	api      services.MovieAPI
	session  SessionState
	notifier Notifier
	logger   *log.Logger

	mu            sync.Mutex
	all           []models.Movie
	filtered      []models.Movie
	query         string
	sortField     SortField
	sortDirection SortDirection
	loadState     LoadState
	errMsg        string
	pending       map[int]bool
}

// NewCatalogueStore creates a CatalogueStore. The notifier and logger may be
// nil. The initial sort matches the service's default presentation: user
// rating, highest first.
func NewCatalogueStore(api services.MovieAPI, sess SessionState, notifier Notifier, logger *log.Logger) *CatalogueStore {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &CatalogueStore{
		api:           api,
		session:       sess,
		notifier:      notifier,
		logger:        logger,
		sortField:     SortByUserRating,
		sortDirection: Descending,
		loadState:     Loading,
		pending:       make(map[int]bool),
	}
}

// Load fetches the catalogue from the session-appropriate endpoint and
// replaces the store's state. Failures never escape: they are captured as
// the error state and surfaced through the notifier.
//
// The fetch is tagged with the session epoch it was issued under. If the
// session transitions while the fetch is in flight, the stale result is
// dropped on arrival; the load triggered by the transition owns the state.
func (s *CatalogueStore) Load(ctx context.Context) {
	epoch := s.session.Epoch()
	authenticated := s.session.IsAuthenticated()

	s.mu.Lock()
	s.loadState = Loading
	s.errMsg = ""
	s.mu.Unlock()

	movies, err := s.api.ListMovies(ctx, authenticated)

	s.mu.Lock()
	if current := s.session.Epoch(); current != epoch {
		s.mu.Unlock()
		s.logger.Debug("dropping stale catalogue load", "issued_epoch", epoch, "current_epoch", current)
		return
	}

	if err != nil {
		s.all = nil
		s.filtered = nil
		s.loadState = Failed
		s.errMsg = "Failed to fetch movies"
		s.mu.Unlock()

		s.logger.Error("catalogue load failed", "err", err)
		s.notifier.Show("Failed to fetch movies")
		return
	}

	s.all = movies
	s.filtered = sortMovies(deriveFiltered(movies, s.query), s.sortField, s.sortDirection)
	s.loadState = Ready
	s.mu.Unlock()
}

// Watch subscribes the store to session transitions, reloading once per
// transition. The returned function cancels the subscription.
func (s *CatalogueStore) Watch(ctx context.Context) func() {
	return s.session.Subscribe(func(session.Identity) {
		go s.Load(ctx)
	})
}

// Search recomputes the filtered view for the given query. Synchronous and
// side-effect free on the canonical list; the empty query restores the full
// catalogue.
func (s *CatalogueStore) Search(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = query
	s.filtered = sortMovies(deriveFiltered(s.all, query), s.sortField, s.sortDirection)
}

// SortBy sorts the filtered view by field. Selecting the field already in
// use toggles the direction; switching fields resets to descending.
func (s *CatalogueStore) SortBy(field SortField) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if field == s.sortField {
		s.sortDirection = s.sortDirection.toggled()
	} else {
		s.sortField = field
		s.sortDirection = Descending
	}

	s.filtered = sortMovies(s.filtered, s.sortField, s.sortDirection)
}

// SetSort sorts the filtered view by an explicit field and direction.
func (s *CatalogueStore) SetSort(field SortField, direction SortDirection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sortField = field
	s.sortDirection = direction
	s.filtered = sortMovies(s.filtered, s.sortField, s.sortDirection)
}

// ToggleLike optimistically flips the liked flag for the movie, then issues
// the like or unlike request chosen by the pre-toggle state. On failure the
// flip is reverted verbatim and the notifier is told; on success the
// optimistic value is already correct.
//
// Anonymous sessions are a no-op. A toggle for a movie whose previous toggle
// is still in flight is rejected outright rather than queued or coalesced,
// so a slow round-trip can't be double-fired from the UI.
func (s *CatalogueStore) ToggleLike(ctx context.Context, movieID int) {
	if !s.session.IsAuthenticated() {
		return
	}

	s.mu.Lock()
	if s.pending[movieID] {
		s.mu.Unlock()
		s.logger.Debug("like toggle already in flight", "movie_id", movieID)
		return
	}

	movie, ok := s.find(movieID)
	if !ok {
		s.mu.Unlock()
		return
	}

	wasLiked := movie.IsLiked
	s.setLiked(movieID, !wasLiked)
	s.pending[movieID] = true
	s.mu.Unlock()

	var err error
	if wasLiked {
		err = s.api.Unlike(ctx, movieID)
	} else {
		err = s.api.Like(ctx, movieID)
	}

	s.mu.Lock()
	delete(s.pending, movieID)
	if err != nil {
		s.setLiked(movieID, wasLiked)
	}
	s.mu.Unlock()

	if err != nil {
		action := "like"
		if wasLiked {
			action = "unlike"
		}
		s.logger.Error("like toggle failed", "movie_id", movieID, "err", err)
		s.notifier.Show(fmt.Sprintf("Failed to %s movie", action))
	}
}

// Movies returns a copy of the filtered, sorted view.
func (s *CatalogueStore) Movies() []models.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Movie(nil), s.filtered...)
}

// All returns a copy of the canonical list in fetch order.
func (s *CatalogueStore) All() []models.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Movie(nil), s.all...)
}

// Query returns the active search query.
func (s *CatalogueStore) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Sort returns the active sort field and direction.
func (s *CatalogueStore) Sort() (SortField, SortDirection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortField, s.sortDirection
}

// State returns the load state and, for the error state, its message.
func (s *CatalogueStore) State() (LoadState, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadState, s.errMsg
}

// find looks up a movie in the canonical list. Caller holds the lock.
func (s *CatalogueStore) find(movieID int) (models.Movie, bool) {
	for _, movie := range s.all {
		if movie.ID == movieID {
			return movie, true
		}
	}
	return models.Movie{}, false
}

// setLiked replaces the movie's value in both the canonical and filtered
// views with a copy carrying the new flag. Caller holds the lock; replacing
// in both views in one step keeps them consistent.
func (s *CatalogueStore) setLiked(movieID int, liked bool) {
	for i, movie := range s.all {
		if movie.ID == movieID {
			s.all[i] = movie.WithLiked(liked)
		}
	}
	for i, movie := range s.filtered {
		if movie.ID == movieID {
			s.filtered[i] = movie.WithLiked(liked)
		}
	}
}

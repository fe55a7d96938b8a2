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

// MovieDetailStore mirrors [CatalogueStore]'s fetch and optimistic-toggle
// contract for a single movie id.
type MovieDetailStore struct {
	api      services.MovieAPI
	session  SessionState
	notifier Notifier
	logger   *log.Logger
	movieID  int

	mu        sync.Mutex
	movie     *models.Movie
	loadState LoadState
	errMsg    string
	pending   bool
}

// NewMovieDetailStore creates a detail store scoped to one movie id.
func NewMovieDetailStore(api services.MovieAPI, sess SessionState, notifier Notifier, logger *log.Logger, movieID int) *MovieDetailStore {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &MovieDetailStore{
		api:       api,
		session:   sess,
		notifier:  notifier,
		logger:    logger,
		movieID:   movieID,
		loadState: Loading,
	}
}

// Load fetches the movie from the session-appropriate endpoint. Failures are
// captured into state and surfaced through the notifier; stale results from
// a superseded session epoch are dropped.
func (s *MovieDetailStore) Load(ctx context.Context) {
	epoch := s.session.Epoch()
	authenticated := s.session.IsAuthenticated()

	s.mu.Lock()
	s.loadState = Loading
	s.errMsg = ""
	s.mu.Unlock()

	movie, err := s.api.GetMovie(ctx, s.movieID, authenticated)

	s.mu.Lock()
	if current := s.session.Epoch(); current != epoch {
		s.mu.Unlock()
		s.logger.Debug("dropping stale movie load", "movie_id", s.movieID, "issued_epoch", epoch, "current_epoch", current)
		return
	}

	if err != nil {
		s.movie = nil
		s.loadState = Failed
		s.errMsg = "Failed to fetch movie"
		s.mu.Unlock()

		s.logger.Error("movie load failed", "movie_id", s.movieID, "err", err)
		s.notifier.Show("Failed to fetch movie")
		return
	}

	s.movie = movie
	s.loadState = Ready
	s.mu.Unlock()
}

// Watch subscribes the store to session transitions, reloading once per
// transition. The returned function cancels the subscription.
func (s *MovieDetailStore) Watch(ctx context.Context) func() {
	return s.session.Subscribe(func(session.Identity) {
		go s.Load(ctx)
	})
}

// ToggleLike optimistically flips the held movie's liked flag and issues the
// matching request, reverting on failure. Anonymous sessions and toggles
// racing an in-flight one are no-ops, as in the catalogue store.
func (s *MovieDetailStore) ToggleLike(ctx context.Context) {
	if !s.session.IsAuthenticated() {
		return
	}

	s.mu.Lock()
	if s.movie == nil || s.pending {
		s.mu.Unlock()
		return
	}

	wasLiked := s.movie.IsLiked
	flipped := s.movie.WithLiked(!wasLiked)
	s.movie = &flipped
	s.pending = true
	s.mu.Unlock()

	var err error
	if wasLiked {
		err = s.api.Unlike(ctx, s.movieID)
	} else {
		err = s.api.Like(ctx, s.movieID)
	}

	s.mu.Lock()
	s.pending = false
	if err != nil && s.movie != nil {
		reverted := s.movie.WithLiked(wasLiked)
		s.movie = &reverted
	}
	s.mu.Unlock()

	if err != nil {
		action := "like"
		if wasLiked {
			action = "unlike"
		}
		s.logger.Error("like toggle failed", "movie_id", s.movieID, "err", err)
		s.notifier.Show(fmt.Sprintf("Failed to %s movie", action))
	}
}

// Movie returns a copy of the held movie, or nil before a successful load.
func (s *MovieDetailStore) Movie() *models.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.movie == nil {
		return nil
	}
	copied := *s.movie
	return &copied
}

// MovieID returns the id this store was created for.
func (s *MovieDetailStore) MovieID() int {
	return s.movieID
}

// State returns the load state and, for the error state, its message.
func (s *MovieDetailStore) State() (LoadState, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadState, s.errMsg
}

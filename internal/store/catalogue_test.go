package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/martishin/movie-search-service/internal/models"
	tu "github.com/martishin/movie-search-service/internal/testing"
)

func fixtureMovies() []models.Movie {
	return []models.Movie{
		{
			ID:          1,
			Title:       "Highlander",
			ReleaseDate: time.Date(1986, 3, 7, 0, 0, 0, 0, time.UTC),
			Genres:      []models.Genre{{ID: 6, Name: "Action"}, {ID: 9, Name: "Fantasy"}},
			UserRating:  3.0,
		},
		{
			ID:          2,
			Title:       "Raiders of the Lost Ark",
			ReleaseDate: time.Date(1981, 6, 12, 0, 0, 0, 0, time.UTC),
			Genres:      []models.Genre{{ID: 6, Name: "Action"}},
			UserRating:  4.5,
		},
		{
			ID:          3,
			Title:       "American Psycho",
			ReleaseDate: time.Date(2000, 4, 14, 0, 0, 0, 0, time.UTC),
			Genres:      []models.Genre{{ID: 11, Name: "Horror"}},
			UserRating:  3.0,
		},
	}
}

func readyStore(t *testing.T, authenticated bool) (*CatalogueStore, *tu.MockMovieAPI, *tu.MockNotifier, *tu.FakeSession) {
	t.Helper()

	api := &tu.MockMovieAPI{
		ListMoviesFunc: func(ctx context.Context, auth bool) ([]models.Movie, error) {
			return fixtureMovies(), nil
		},
	}
	notifier := &tu.MockNotifier{}
	sess := tu.NewFakeSession(authenticated)

	s := NewCatalogueStore(api, sess, notifier, nil)
	s.Load(context.Background())

	if state, _ := s.State(); state != Ready {
		t.Fatalf("expected Ready after load, got %v", state)
	}
	return s, api, notifier, sess
}

func ids(movies []models.Movie) []int {
	out := make([]int, len(movies))
	for i, m := range movies {
		out[i] = m.ID
	}
	return out
}

func equalIDs(a []int, b ...int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("success replaces state", func(t *testing.T) {
		s, _, notifier, _ := readyStore(t, false)

		if len(s.All()) != 3 {
			t.Errorf("expected 3 canonical movies, got %d", len(s.All()))
		}
		if len(s.Movies()) != 3 {
			t.Errorf("expected filtered == all with empty query, got %d", len(s.Movies()))
		}
		if notifier.Count() != 0 {
			t.Error("notifier must not fire on success")
		}
	})

	t.Run("failure becomes error state and notification", func(t *testing.T) {
		api := &tu.MockMovieAPI{
			ListMoviesFunc: func(ctx context.Context, auth bool) ([]models.Movie, error) {
				return nil, errors.New("connection refused")
			},
		}
		notifier := &tu.MockNotifier{}
		s := NewCatalogueStore(api, tu.NewFakeSession(false), notifier, nil)

		s.Load(ctx)

		state, msg := s.State()
		if state != Failed {
			t.Errorf("expected Failed state, got %v", state)
		}
		if msg == "" {
			t.Error("expected a human-readable error message")
		}
		if notifier.Count() != 1 {
			t.Errorf("expected one notification, got %d", notifier.Count())
		}
		if len(s.Movies()) != 0 {
			t.Error("error state must not keep stale movies")
		}
	})

	t.Run("store is reloadable after error", func(t *testing.T) {
		failing := true
		api := &tu.MockMovieAPI{
			ListMoviesFunc: func(ctx context.Context, auth bool) ([]models.Movie, error) {
				if failing {
					return nil, errors.New("boom")
				}
				return fixtureMovies(), nil
			},
		}
		s := NewCatalogueStore(api, tu.NewFakeSession(false), &tu.MockNotifier{}, nil)

		s.Load(ctx)
		if state, _ := s.State(); state != Failed {
			t.Fatalf("expected Failed, got %v", state)
		}

		failing = false
		s.Load(ctx)
		if state, _ := s.State(); state != Ready {
			t.Errorf("expected Ready after retry, got %v", state)
		}
	})

	t.Run("session flavor selects endpoint", func(t *testing.T) {
		var sawAuthenticated bool
		api := &tu.MockMovieAPI{
			ListMoviesFunc: func(ctx context.Context, auth bool) ([]models.Movie, error) {
				sawAuthenticated = auth
				return fixtureMovies(), nil
			},
		}

		s := NewCatalogueStore(api, tu.NewFakeSession(true), nil, nil)
		s.Load(ctx)

		if !sawAuthenticated {
			t.Error("authenticated session should request the with-likes flavor")
		}
	})

	t.Run("stale result from superseded epoch is discarded", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		calls := 0
		var mu sync.Mutex

		sess := tu.NewFakeSession(false)
		api := &tu.MockMovieAPI{
			ListMoviesFunc: func(ctx context.Context, auth bool) ([]models.Movie, error) {
				mu.Lock()
				calls++
				first := calls == 1
				mu.Unlock()

				if first {
					close(started)
					<-release
					// Anonymous payload: no like flags
					return []models.Movie{{ID: 99, Title: "Stale"}}, nil
				}
				movies := fixtureMovies()
				movies[0].IsLiked = true
				return movies, nil
			},
		}
		s := NewCatalogueStore(api, sess, nil, nil)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Load(context.Background())
		}()
		<-started

		// Session transitions while the first load is in flight; the
		// transition-triggered load resolves first.
		sess.BumpEpoch()
		s.Load(context.Background())

		// Now the stale anonymous result arrives: it must be dropped.
		close(release)
		wg.Wait()

		movies := s.All()
		if len(movies) != 3 {
			t.Fatalf("expected authenticated fetch to win, got %d movies", len(movies))
		}
		if movies[0].ID == 99 {
			t.Error("stale load overwrote session-consistent data")
		}
		if !movies[0].IsLiked {
			t.Error("state should reflect the authenticated-session fetch")
		}
	})
}

func TestSearch(t *testing.T) {
	t.Run("empty query yields identity", func(t *testing.T) {
		s, _, _, _ := readyStore(t, false)

		s.Search("")
		if len(s.Movies()) != len(s.All()) {
			t.Errorf("empty query: filtered %d != all %d", len(s.Movies()), len(s.All()))
		}
	})

	t.Run("matches title case-insensitively", func(t *testing.T) {
		s, _, _, _ := readyStore(t, false)

		s.Search("HIGHLANDER")
		if got := ids(s.Movies()); !equalIDs(got, 1) {
			t.Errorf("expected [1], got %v", got)
		}
	})

	t.Run("matches genre names", func(t *testing.T) {
		s, _, _, _ := readyStore(t, false)

		s.Search("action")
		got := ids(s.Movies())
		if len(got) != 2 {
			t.Errorf("expected two action movies, got %v", got)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		s, _, _, _ := readyStore(t, false)

		s.Search("action")
		first := ids(s.Movies())
		s.Search("action")
		second := ids(s.Movies())

		if len(first) != len(second) {
			t.Fatalf("repeated search changed results: %v vs %v", first, second)
		}
		for i := range first {
			if first[i] != second[i] {
				t.Errorf("repeated search changed order: %v vs %v", first, second)
			}
		}
	})

	t.Run("does not mutate the canonical list", func(t *testing.T) {
		s, _, _, _ := readyStore(t, false)

		before := len(s.All())
		s.Search("horror")
		if len(s.All()) != before {
			t.Error("search must not touch the canonical list")
		}

		s.Search("")
		if len(s.Movies()) != before {
			t.Error("clearing the query must restore the full view")
		}
	})
}

func TestSortBy(t *testing.T) {
	t.Run("rating desc then toggle to asc", func(t *testing.T) {
		s, _, _, _ := readyStore(t, false)

		s.SetSort(SortByUserRating, Descending)
		// 2 (4.5) first, then the 3.0 tie broken by id ascending
		if got := ids(s.Movies()); !equalIDs(got, 2, 1, 3) {
			t.Fatalf("rating desc: got %v", got)
		}

		s.SortBy(SortByUserRating)
		if _, dir := s.Sort(); dir != Ascending {
			t.Error("same-field SortBy should toggle direction")
		}
		if got := ids(s.Movies()); !equalIDs(got, 1, 3, 2) {
			t.Errorf("rating asc: got %v", got)
		}
	})

	t.Run("switching fields resets to descending", func(t *testing.T) {
		s, _, _, _ := readyStore(t, false)

		s.SortBy(SortByUserRating) // toggles away from the default
		s.SortBy(SortByTitle)

		field, dir := s.Sort()
		if field != SortByTitle || dir != Descending {
			t.Errorf("expected title/desc after field switch, got %v/%v", field, dir)
		}
	})

	t.Run("title asc and desc are exact reverses", func(t *testing.T) {
		s, _, _, _ := readyStore(t, false)

		s.SetSort(SortByTitle, Ascending)
		asc := ids(s.Movies())
		s.SetSort(SortByTitle, Descending)
		desc := ids(s.Movies())

		if len(asc) != len(desc) {
			t.Fatal("length mismatch")
		}
		for i := range asc {
			if asc[i] != desc[len(desc)-1-i] {
				t.Errorf("desc is not the reverse of asc: %v vs %v", asc, desc)
			}
		}
		if !equalIDs(asc, 3, 1, 2) {
			t.Errorf("title asc: got %v", asc)
		}
	})

	t.Run("release date orders by instant", func(t *testing.T) {
		s, _, _, _ := readyStore(t, false)

		s.SetSort(SortByReleaseDate, Ascending)
		if got := ids(s.Movies()); !equalIDs(got, 2, 1, 3) {
			t.Errorf("date asc: got %v", got)
		}
	})

	t.Run("sort persists across searches", func(t *testing.T) {
		s, _, _, _ := readyStore(t, false)

		s.SetSort(SortByUserRating, Descending)
		s.Search("action")
		if got := ids(s.Movies()); !equalIDs(got, 2, 1) {
			t.Errorf("expected sorted filtered view, got %v", got)
		}
	})
}

func TestToggleLike(t *testing.T) {
	ctx := context.Background()

	t.Run("success keeps flipped value with one call", func(t *testing.T) {
		s, api, notifier, _ := readyStore(t, true)

		s.ToggleLike(ctx, 1)

		if !s.All()[0].IsLiked {
			t.Error("expected movie 1 liked in canonical list")
		}
		for _, movie := range s.Movies() {
			if movie.ID == 1 && !movie.IsLiked {
				t.Error("expected movie 1 liked in filtered view")
			}
		}
		if got := api.CallCount("Like"); got != 1 {
			t.Errorf("expected exactly one Like call, got %d", got)
		}
		if api.CallCount("Unlike") != 0 {
			t.Error("unexpected Unlike call")
		}
		if notifier.Count() != 0 {
			t.Error("notifier must not fire on success")
		}
	})

	t.Run("unlike when already liked", func(t *testing.T) {
		api := &tu.MockMovieAPI{
			ListMoviesFunc: func(ctx context.Context, auth bool) ([]models.Movie, error) {
				movies := fixtureMovies()
				movies[0].IsLiked = true
				return movies, nil
			},
		}
		s := NewCatalogueStore(api, tu.NewFakeSession(true), nil, nil)
		s.Load(ctx)

		s.ToggleLike(ctx, 1)

		if s.All()[0].IsLiked {
			t.Error("expected movie 1 unliked")
		}
		if api.CallCount("Unlike") != 1 {
			t.Error("expected one Unlike call")
		}
	})

	t.Run("failure reverts the flip exactly", func(t *testing.T) {
		s, api, notifier, _ := readyStore(t, true)
		api.LikeFunc = func(ctx context.Context, id int) error {
			return errors.New("server error")
		}

		before := s.All()[0].IsLiked
		s.ToggleLike(ctx, 1)

		if s.All()[0].IsLiked != before {
			t.Error("canonical list not reverted after failed toggle")
		}
		for _, movie := range s.Movies() {
			if movie.ID == 1 && movie.IsLiked != before {
				t.Error("filtered view not reverted after failed toggle")
			}
		}
		if notifier.Count() != 1 {
			t.Errorf("expected one failure notification, got %d", notifier.Count())
		}
	})

	t.Run("anonymous session is a no-op", func(t *testing.T) {
		s, api, _, _ := readyStore(t, false)

		s.ToggleLike(ctx, 1)

		if s.All()[0].IsLiked {
			t.Error("anonymous toggle must not change state")
		}
		if api.CallCount("Like")+api.CallCount("Unlike") != 0 {
			t.Error("anonymous toggle must not issue requests")
		}
	})

	t.Run("unknown movie id is a no-op", func(t *testing.T) {
		s, api, _, _ := readyStore(t, true)

		s.ToggleLike(ctx, 404)

		if api.CallCount("Like")+api.CallCount("Unlike") != 0 {
			t.Error("toggle for unknown id must not issue requests")
		}
	})

	t.Run("second toggle while first is in flight is rejected", func(t *testing.T) {
		s, api, _, _ := readyStore(t, true)

		release := make(chan struct{})
		started := make(chan struct{})
		api.LikeFunc = func(ctx context.Context, id int) error {
			close(started)
			<-release
			return nil
		}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ToggleLike(ctx, 1)
		}()
		<-started

		// Racing toggle for the same id: dropped, not queued
		s.ToggleLike(ctx, 1)

		close(release)
		wg.Wait()

		if got := api.CallCount("Like") + api.CallCount("Unlike"); got != 1 {
			t.Errorf("expected exactly one request, got %d", got)
		}
		if !s.All()[0].IsLiked {
			t.Error("first toggle's optimistic value should stand")
		}
	})
}

func TestWatch(t *testing.T) {
	loaded := make(chan struct{}, 4)
	api := &tu.MockMovieAPI{
		ListMoviesFunc: func(ctx context.Context, auth bool) ([]models.Movie, error) {
			loaded <- struct{}{}
			return fixtureMovies(), nil
		},
	}
	sess := tu.NewFakeSession(false)
	s := NewCatalogueStore(api, sess, nil, nil)

	stop := s.Watch(context.Background())
	defer stop()

	sess.Transition(true)

	select {
	case <-loaded:
	case <-time.After(2 * time.Second):
		t.Fatal("session transition should trigger a reload")
	}

	stop()
	sess.Transition(false)

	select {
	case <-loaded:
		t.Error("unsubscribed store reloaded on transition")
	case <-time.After(100 * time.Millisecond):
	}
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/martishin/movie-search-service/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CacheSync fetches the catalogue and replaces the local snapshot.
func (r *Runner) CacheSync(ctx context.Context, cmd *cli.Command) error {
	cache, closeCache, err := r.openCache()
	if err != nil {
		return err
	}
	defer closeCache()

	engine := tasks.NewCatalogueEngine(r.api, cache)

	progressChan := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressChan {
			r.writePlain("  [%s] %s\n", update.Phase, update.Message)
		}
	}()

	result, err := engine.Sync(ctx, progressChan, r.session.IsAuthenticated())
	close(progressChan)
	<-done

	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	r.writePlain("✓ Cached %d movies", result.TotalMovies)
	if r.session.IsAuthenticated() {
		r.writePlain(" (%d liked)", result.LikedCount)
	}
	r.writePlain("\nSnapshot: %s\n", result.FetchedAt.Format(time.RFC3339))
	return nil
}

// CacheShow lists the cached snapshot without touching the network.
func (r *Runner) CacheShow(ctx context.Context, cmd *cli.Command) error {
	cache, closeCache, err := r.openCache()
	if err != nil {
		return err
	}
	defer closeCache()

	movies, err := cache.List()
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	if len(movies) == 0 {
		return r.writePlainln("Cache is empty, run 'cache sync' first")
	}

	return r.printMovies(movies, cmd.Bool("json"), cmd.Bool("pretty"))
}

// CacheStatus prints snapshot age and size.
func (r *Runner) CacheStatus(ctx context.Context, cmd *cli.Command) error {
	cache, closeCache, err := r.openCache()
	if err != nil {
		return err
	}
	defer closeCache()

	count, err := cache.Count()
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	fetchedAt, err := cache.FetchedAt()
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	r.writePlainHeader("Cache status")
	r.writePlain("Movies: %d\n", count)
	if fetchedAt.IsZero() {
		r.writePlainln("Snapshot: never synced")
	} else {
		r.writePlain("Snapshot: %s (%s ago)\n",
			fetchedAt.Format(time.RFC3339), time.Since(fetchedAt).Round(time.Second))
	}
	return nil
}

// CacheClear removes the cached snapshot.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	cache, closeCache, err := r.openCache()
	if err != nil {
		return err
	}
	defer closeCache()

	if err := cache.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	return r.writePlainln("✓ Cache cleared")
}

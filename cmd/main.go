package main

import (
	"context"
	"errors"
	"os"

	"github.com/martishin/movie-search-service/internal/services"
	"github.com/martishin/movie-search-service/internal/session"
	"github.com/martishin/movie-search-service/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	sess, err := session.New(config.Server.BaseURL, nil)
	if err != nil {
		logger.Fatalf("invalid server configuration: %v", err)
	}

	// Existing session cookie in the jar is picked up on first use;
	// anonymous browsing works without it.
	sess.Refresh(context.Background())

	api := services.NewMovieService(config.Server.BaseURL, sess.Client(), config.Server.RateLimit)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Session:    sess,
		API:        api,
		HTTPClient: sess.Client(),
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "movies",
		Usage:    "Browse, search, and like movies from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Fatalf("not signed in: %v", err)
		}
		logger.Fatalf("application error: %v", err)
	}
}

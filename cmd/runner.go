package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/martishin/movie-search-service/internal/repositories"
	"github.com/martishin/movie-search-service/internal/services"
	"github.com/martishin/movie-search-service/internal/session"
	"github.com/martishin/movie-search-service/internal/shared"
	"github.com/martishin/movie-search-service/internal/store"
	"github.com/martishin/movie-search-service/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	session    *session.Session
	api        services.MovieAPI
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.CatalogueEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Session    *session.Session
	API        services.MovieAPI
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		session:    opts.Session,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     tasks.NewCatalogueEngine(opts.API, nil),
	}
}

// SetLogger replaces the Runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, moviesCommand, likesCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openCache opens the configured SQLite cache and runs pending migrations.
// The caller owns the returned close function.
func (r *Runner) openCache() (*repositories.MovieRepository, func(), error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repositories.NewMovieRepository(db), func() { db.Close() }, nil
}

// newCatalogueStore builds a store bound to the Runner's session for
// one-shot CLI reads.
func (r *Runner) newCatalogueStore() *store.CatalogueStore {
	return store.NewCatalogueStore(r.api, r.session, nil, r.logger)
}

// requireSession returns an error when no authenticated session is present.
func (r *Runner) requireSession() error {
	if r.session == nil || !r.session.IsAuthenticated() {
		return fmt.Errorf("%w: run 'auth login' first", shared.ErrNotAuthenticated)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// parseSortField maps a --sort flag value to a store sort field.
func parseSortField(value string) (store.SortField, error) {
	switch value {
	case "title":
		return store.SortByTitle, nil
	case "date", "releaseDate", "release-date":
		return store.SortByReleaseDate, nil
	case "rating", "userRating", "user-rating":
		return store.SortByUserRating, nil
	default:
		return 0, fmt.Errorf("%w: unknown sort field %q (title, date, rating)", shared.ErrInvalidInput, value)
	}
}

// parseSortDirection maps a --direction flag value to a store sort direction.
func parseSortDirection(value string) (store.SortDirection, error) {
	switch value {
	case "asc", "ascending":
		return store.Ascending, nil
	case "desc", "descending":
		return store.Descending, nil
	default:
		return 0, fmt.Errorf("%w: unknown sort direction %q (asc, desc)", shared.ErrInvalidInput, value)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"quotelist/internal/cache"
	"quotelist/internal/services"
	"quotelist/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
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
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// register returns the CLI command tree.
func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		serveCommand(r),
		setupCommand(r),
		configCommand(r),
		cacheCommand(r),
	}
}

// loadConfig reloads configuration from the path given on the command line,
// falling back to the config the Runner was constructed with.
func (r *Runner) loadConfig(cmd *cli.Command) *shared.Config {
	configPath := cmd.String("config")
	if configPath == "" {
		return r.config
	}

	if _, err := os.Stat(configPath); err != nil {
		return r.config
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		return r.config
	}
	return config
}

// openStore builds the cache backend selected by configuration.
func (r *Runner) openStore(ctx context.Context, config *shared.Config) (cache.Store, error) {
	switch config.Cache.Backend {
	case "", "sqlite":
		db, err := shared.NewDatabase(config.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache database: %w", err)
		}
		shared.ConfigureDatabase(db, config.Cache.MaxOpenConns, config.Cache.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return cache.NewSQLiteStore(db), nil
	case "redis":
		store, err := cache.NewRedisStore(ctx, config.Cache.RedisAddr)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "memory":
		return cache.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown cache backend %q", shared.ErrInvalidConfig, config.Cache.Backend)
	}
}

// buildMusicService constructs the Spotify client from configured credentials.
func (r *Runner) buildMusicService(config *shared.Config) (services.MusicService, error) {
	return services.NewSpotifyService(map[string]string{
		"client_id":     config.Credentials.Spotify.ClientID,
		"client_secret": config.Credentials.Spotify.ClientSecret,
		"redirect_uri":  config.Credentials.Spotify.RedirectURI,
	})
}

func (r *Runner) writePlainln(format string, args ...any) {
	fmt.Fprintf(r.output, format+"\n", args...)
}

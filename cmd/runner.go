package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"github.com/wardje/tubevault/internal/auth"
	"github.com/wardje/tubevault/internal/bridge"
	"github.com/wardje/tubevault/internal/repositories"
	"github.com/wardje/tubevault/internal/services"
	"github.com/wardje/tubevault/internal/shared"
	"github.com/wardje/tubevault/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The core stack (database, repositories, token manager, remote service,
// sync engine, bridge) is wired lazily on first use so commands that never
// touch the vault, like setup, work before a database exists.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	db        *sql.DB
	store     *repositories.Store
	playlists *repositories.PlaylistRepository
	manager   *auth.Manager
	youtube   *services.YouTubeService
	engine    *tasks.SyncEngine
	scheduler *tasks.Scheduler
	bridge    *bridge.Handler
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

// wire opens the database and constructs the core stack. Idempotent.
func (r *Runner) wire() error {
	if r.bridge != nil {
		return nil
	}

	creds := r.config.Credentials.YouTube
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return fmt.Errorf("%w: set credentials.youtube.client_id and client_secret in config.toml", shared.ErrMissingCredentials)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	r.store = repositories.NewStore(db)
	r.playlists = repositories.NewPlaylistRepository(db)

	flow := auth.NewBrowserFlow(r.serverAddr(), r.logger)
	flow.Output = func(format string, args ...any) { r.writePlain(format, args...) }

	r.manager = auth.NewManager(auth.ManagerOpts{
		Config:     auth.NewOAuthConfig(creds.ClientID, creds.ClientSecret, creds.RedirectURI),
		Store:      r.store,
		Flow:       flow,
		HTTPClient: r.httpClient,
		Logger:     r.logger,
	})

	classifier := services.NewClassifier(r.config.Sync.UnavailableTitles)
	r.youtube = services.NewYouTubeService("", r.manager, classifier)
	r.youtube.SetHTTPClient(r.httpClient)

	r.engine = tasks.NewSyncEngine(tasks.SyncEngineOpts{
		Auth:   r.manager,
		API:    r.youtube,
		Repo:   r.playlists,
		Logger: r.logger,
	})

	r.scheduler = tasks.NewScheduler(r.scheduledRun, r.logger)
	r.bridge = bridge.NewHandler(bridge.HandlerOpts{
		Auth:      r.manager,
		Remote:    r.youtube,
		Sync:      r.engine,
		Vault:     r.playlists,
		Store:     r.store,
		Scheduler: r.scheduler,
		Logger:    r.logger,
	})

	return nil
}

// scheduledRun is the recurring job driven by the scheduler: a full sync of
// every monitored playlist. Failures are logged, not surfaced; the next tick
// retries.
func (r *Runner) scheduledRun(ctx context.Context) {
	run, err := r.engine.SyncAll(ctx, nil)
	if err != nil {
		r.logger.Error("scheduled sync failed", "err", err)
		return
	}
	r.logger.Info("scheduled sync complete",
		"synced", run.Synced, "unavailable", run.Unavailable, "errors", len(run.Errors))
}

// Close releases the wired resources.
func (r *Runner) Close() error {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SetLogger replaces the Runner's logger. Components wired before the call
// keep the logger they were built with.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) serverAddr() string {
	return fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playlistsCommand, syncCommand, watchCommand, serveCommand, settingsCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
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

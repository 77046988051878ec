// Package server initializes and runs the auth daemon: it connects the
// database, applies migrations, and keeps the token store tidy by
// periodically purging expired records. Expiry is enforced lazily on access;
// the sweep only reclaims storage.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkarpenko/taskdeck/internal/logging"
	"github.com/mkarpenko/taskdeck/internal/server/config"
	"github.com/mkarpenko/taskdeck/internal/server/repositories/repomanager"
	"github.com/mkarpenko/taskdeck/internal/server/services"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	sessions *services.SessionManager
	users    *services.UserService
}

// NewApp wires the application: logger, database, migrations, services.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	l := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(l)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	sessions := services.NewSessionManager(db, m, cfg)
	users := services.NewUserService(db, m, sessions)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		sessions: sessions,
		users:    users,
	}, nil
}

// Sessions exposes the session manager for transport layers hosted alongside
// the daemon.
func (app *App) Sessions() *services.SessionManager { return app.sessions }

// Users exposes the account-facing auth flows.
func (app *App) Users() *services.UserService { return app.users }

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runSweeper purges expired token records on every tick until ctx is done.
func (app *App) runSweeper(ctx context.Context) {
	ticker := time.NewTicker(app.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.sessions.PurgeExpired(ctx)
			if err != nil {
				app.logger.Error(ctx, "token sweep failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "purged expired tokens", "count", n)
			}
		}
	}
}

// Run starts the background sweeper and blocks until a shutdown signal.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting auth daemon", "sweep_interval", app.config.SweepInterval.String())

	app.initSignalHandler(cancelFunc)

	app.runSweeper(ctx)

	app.logger.Info(ctx, "shutting down")
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
}

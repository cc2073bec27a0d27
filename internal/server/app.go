// Package server wires the accounts service together: configuration,
// storage, migrations, the notifier, and the background maintenance loop
// that purges expired tokens.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dkrasnovs/accounts-service/internal/logging"
	"github.com/dkrasnovs/accounts-service/internal/server/config"
	"github.com/dkrasnovs/accounts-service/internal/server/notify"
	"github.com/dkrasnovs/accounts-service/internal/server/repositories/repomanager"
	"github.com/dkrasnovs/accounts-service/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	Accounts *services.AccountService
	Tokens   *services.TokenService
	Profiles *services.ProfileService

	closers []func() error
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	app := &App{config: cfg, logger: logger, db: db}
	app.closers = append(app.closers, db.Close)

	var notifier notify.Notifier = notify.Nop{}
	if cfg.AMQPURL != "" {
		n, err := notify.NewAMQPNotifier(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("notifier init error: %w", err)
		}
		app.closers = append(app.closers, n.Close)
		notifier = n
	}

	app.Tokens = services.NewTokenService(db, m)
	app.Accounts = services.NewAccountService(db, m, app.Tokens, notifier, logger, cfg)
	app.Profiles = services.NewProfileService(db, m, cfg)
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runTokenPurge deletes expired token rows on a fixed interval until the
// context is cancelled.
func (app *App) runTokenPurge(ctx context.Context) {
	ticker := time.NewTicker(app.config.TokenPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.Tokens.PurgeExpired(ctx)
			if err != nil {
				app.logger.Error(ctx, "token purge failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "purged expired tokens", "count", n)
			}
		}
	}
}

// Run blocks until the context is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting accounts service")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runTokenPurge(ctx)
	}()

	wg.Wait()
	app.logger.Info(ctx, "accounts service stopped")
}

// Close releases the notifier and the database pool.
func (app *App) Close() error {
	var firstErr error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

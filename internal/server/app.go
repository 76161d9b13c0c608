// Package server initializes and runs the referral service: it opens the
// PostgreSQL and Redis connections, applies migrations, wires the services
// into the HTTP API, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/referral/internal/logging"
	"github.com/dmitrijs2005/referral/internal/server/config"
	"github.com/dmitrijs2005/referral/internal/server/httpapi"
	"github.com/dmitrijs2005/referral/internal/server/mailcheck"
	"github.com/dmitrijs2005/referral/internal/server/repositories/referralcache"
	"github.com/dmitrijs2005/referral/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/referral/internal/server/revocation"
	"github.com/dmitrijs2005/referral/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger

	db    *sql.DB
	redis *redis.Client
	api   *httpapi.API
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	ledger := revocation.NewRedisLedger(rdb)
	cache := referralcache.NewRedisRepository(rdb)
	mail := mailcheck.NewHunterClient(cfg.MailOracleBaseURL, cfg.MailOracleAPIKey)

	tokens := services.NewTokenService(ledger, cfg)
	users := services.NewUserService(db, rm, tokens, mail)
	referrals := services.NewReferralService(db, rm, cache)

	api := httpapi.New(users, tokens, referrals, logger)

	return &App{config: cfg, logger: logger, db: db, redis: rdb, api: api}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until the context is cancelled or a termination signal
// arrives, then shuts the server down gracefully and closes the backends.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.api.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		app.logger.Error(ctx, "http server stopped", "error", err.Error())
	case <-ctx.Done():
		app.logger.Info(ctx, "shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown error", "error", err.Error())
		}
	}

	if err := app.redis.Close(); err != nil {
		app.logger.Error(ctx, "redis close error", "error", err.Error())
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}

	app.logger.Info(ctx, "app stopped")
}

// Package server wires the auth server together: it opens the user store,
// builds the services and the HTTP transport, and runs them until a
// shutdown signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	hs "github.com/dmitrijs2005/authkeeper/internal/server/http"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  repomanager.RepositoryManager
	server *hs.Server
}

// openStore is a seam for tests.
var openStore = repomanager.Open

// NewApp connects the store and builds the HTTP server. A store that cannot
// be reached is fatal except in the test environment, which falls back to
// the in-memory store.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	logger = logger.With("module", "app")

	if c.GeneratedSecret {
		logger.Warn(ctx, "JWT_SECRET not set, using a random secret for this process")
	}

	store, err := openStore(ctx, c.MongoURI, c.MongoTimeout.Duration())
	if err != nil {
		if c.Env != common.EnvTest {
			return nil, fmt.Errorf("store init error: %w", err)
		}
		logger.Warn(ctx, "store unavailable, using in-memory store", "error", err)
		store = repomanager.NewMemoryRepositoryManager()
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("store migrate error: %w", err)
	}

	gin.SetMode(ginMode(c.Env))

	tokens := auth.NewTokenManager(c.JWTSecret, c.TokenTTL())
	hasher := auth.NewHasher(c.BcryptRounds, c.HashConcurrency)
	users := services.NewUserService(store, hasher, tokens)

	router := hs.NewRouter(hs.RouterConfig{
		Env:         c.Env,
		CORSOrigins: c.CORSOrigins,
	}, hs.Deps{
		Users:   users,
		Tokens:  tokens,
		Store:   store,
		Metrics: hs.NewMetrics(),
		Logger:  logger.With("module", "http"),
	})

	server := hs.NewServer(hs.ServerConfig{
		Address:         c.Address(),
		ReadTimeout:     c.ReadTimeout.Duration(),
		WriteTimeout:    c.WriteTimeout.Duration(),
		ShutdownTimeout: c.ShutdownTimeout.Duration(),
	}, router, logger)

	return &App{config: c, logger: logger, store: store, server: server}, nil
}

func ginMode(env string) string {
	switch env {
	case common.EnvProduction:
		return gin.ReleaseMode
	case common.EnvTest:
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

// Run serves until ctx is canceled or SIGINT/SIGTERM arrives, then stops the
// HTTP server and closes the store.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "env", app.config.Env, "address", app.config.Address())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.server.Run(gctx)
	})

	runErr := g.Wait()

	app.logger.Info(ctx, "Shutting down...")

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.closeTimeout())
	defer cancel()
	closeErr := app.store.Close(closeCtx)
	if closeErr != nil {
		closeErr = fmt.Errorf("close store: %w", closeErr)
	}

	return errors.Join(runErr, closeErr)
}

func (app *App) closeTimeout() time.Duration {
	if d := app.config.ShutdownTimeout.Duration(); d > 0 {
		return d
	}
	return 10 * time.Second
}

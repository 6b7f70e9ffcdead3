package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dmitrijs2005/authkeeper/internal/admin"
	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
)

// serverValueFlags are consumed by config.LoadConfig, not by the commands.
var serverValueFlags = []string{"-a", "-d", "-s", "-t", "-b", "-e", "-c", "-config"}

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, admin.ErrUsage) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger := logging.New(os.Stderr, cfg.Env, "warn")

	if strings.HasPrefix(cfg.MongoURI, repomanager.MemoryScheme) {
		logger.Warn(ctx, "memory store selected, changes will be lost on exit")
	}

	store, err := repomanager.Open(ctx, cfg.MongoURI, cfg.MongoTimeout.Duration())
	if err != nil {
		return err
	}
	defer store.Close(context.WithoutCancel(ctx))

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	users := services.NewUserService(store,
		auth.NewHasher(cfg.BcryptRounds, cfg.HashConcurrency),
		auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
	)

	return admin.NewApp(users, os.Stdin, os.Stdout).Run(ctx, flagx.Positional(os.Args[1:], serverValueFlags))
}

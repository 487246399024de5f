package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Sander124/pvs-tracker/config"
	"github.com/Sander124/pvs-tracker/internal/dashboard"
	"github.com/Sander124/pvs-tracker/logger"
	"github.com/Sander124/pvs-tracker/pkg/storage/postgres"

	"go.uber.org/zap"
)

func main() {
	// viper config
	cfg := config.Load()

	// zap logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync()

	// Postgres client; the store is required for every operation, so a
	// failed connection is fatal at startup.
	env := cfg.Log.Environment
	store, err := postgres.InitializeAndMigrateObservations(cfg.Postgres, env, env != "prod", log)
	if err != nil {
		log.Fatal("failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := dashboard.NewServer(cfg.Server, cfg.Dashboard, store, log)
	if err := server.Start(ctx); err != nil {
		log.Fatal("dashboard server failed", zap.Error(err))
	}
}

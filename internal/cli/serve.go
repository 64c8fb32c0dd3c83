package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahofmann/scriptroom/internal/auth"
	"github.com/ahofmann/scriptroom/internal/completion"
	"github.com/ahofmann/scriptroom/internal/config"
	"github.com/ahofmann/scriptroom/internal/conversation"
	"github.com/ahofmann/scriptroom/internal/db"
	"github.com/ahofmann/scriptroom/internal/jobs"
	"github.com/ahofmann/scriptroom/internal/metrics"
	"github.com/ahofmann/scriptroom/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the script generation server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg := config.Load()

	level := cfg.LogLevel
	if verbose {
		level = slog.LevelDebug
	}
	logger, closeLog := config.SetupLogger(cfg.LogFile, level)
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("starting scriptroom",
		"version", Version,
		"port", cfg.Port,
		"provider", cfg.Provider,
		"model", cfg.Model,
		"max_jobs", cfg.MaxConcurrentJobs)

	// Optional job persistence
	var dbClient *db.Client
	if cfg.PersistenceEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		var err error
		dbClient, err = db.NewClient(ctx, db.Config{
			URL:       cfg.DBURL,
			Namespace: cfg.DBNamespace,
			Database:  cfg.DBDatabase,
			Username:  cfg.DBUser,
			Password:  cfg.DBPass,
		}, logger)
		if err != nil {
			cancel()
			return fmt.Errorf("connect to database: %w", err)
		}
		if err := dbClient.InitSchema(ctx); err != nil {
			cancel()
			return fmt.Errorf("initialize schema: %w", err)
		}
		cancel()
		defer func() {
			if err := dbClient.Close(context.Background()); err != nil {
				logger.Warn("failed to close database", "error", err)
			}
		}()
	}

	roster, err := conversation.LoadRoster(cfg.RosterFile)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	checker, err := auth.NewKeyChecker(cfg.KeySuffixLen)
	if err != nil {
		return fmt.Errorf("configure key check: %w", err)
	}

	collector := metrics.NewCollector()

	factory, err := completion.NewFactory(context.Background(), cfg, collector, logger)
	if err != nil {
		return fmt.Errorf("configure completion provider: %w", err)
	}

	store := jobs.NewStore(dbClient, logger)
	store.SetMetrics(collector)
	pool := jobs.NewPool(cfg.MaxConcurrentJobs)
	dispatcher := jobs.NewDispatcher(store, pool, factory, jobs.Options{
		Roster:      roster,
		TurnTimeout: cfg.CompletionTimeout,
	}, collector, logger)

	srv := server.New(cfg.Port, store, dispatcher, checker, collector, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("received signal, shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	if err := pool.Shutdown(shutdownCtx); err != nil {
		logger.Warn("jobs did not drain before deadline", "error", err)
	}

	logger.Info("server stopped")
	return nil
}

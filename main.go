package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/elsastre/auf-analyzer/internal/config"
	"github.com/elsastre/auf-analyzer/internal/consultor"
	"github.com/elsastre/auf-analyzer/internal/database"
	"github.com/elsastre/auf-analyzer/internal/formguide"
	server "github.com/elsastre/auf-analyzer/internal/http"
	"github.com/elsastre/auf-analyzer/internal/league"
	"github.com/elsastre/auf-analyzer/internal/metrics"
	"github.com/elsastre/auf-analyzer/internal/slack"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	leagueStore := league.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	// The store serves nothing until it holds a complete simulated
	// dataset, so a failed seed is fatal.
	needsSeed, err := database.NeedsSeed(db, league.SchemaVersion)
	if err != nil {
		log.Fatalf("Failed to inspect store: %s", err)
	}
	if needsSeed {
		log.Info("Store is empty or stale, seeding...", "schemaVersion", league.SchemaVersion)
		metricsSvc.IncSeederRuns()
		seedStart := time.Now()
		if err := database.ResetSchema(db, cfg.MigrationsDir); err != nil {
			log.Fatalf("Failed to reset schema: %s", err)
		}
		if err := leagueStore.Seed(cfg.SeedsDir); err != nil {
			log.Fatalf("Failed to seed store: %s", err)
		}
		metricsSvc.ObserveSeedingDuration(time.Since(seedStart).Seconds())
		log.Info("Seeding complete", "duration_ms", time.Since(seedStart).Milliseconds())
	}

	if meta, err := leagueStore.Metadata(); err == nil {
		metricsSvc.SetSeededSeasons(float64(len(meta.Seasons)))
	}

	notifier := slack.NewClient(cfg.Slack.Token, cfg.Slack.ChannelID)
	advisor := consultor.New(leagueStore)
	var guide formguide.FormGuide
	if cfg.FormGuide.BaseURL != "" {
		guide = formguide.NewClient(cfg.FormGuide.BaseURL)
	}

	reseed := func() error {
		if err := database.ResetSchema(db, cfg.MigrationsDir); err != nil {
			return err
		}
		return leagueStore.Seed(cfg.SeedsDir)
	}

	s := server.NewServer(
		leagueStore,
		metricsSvc,
		metricsHandler,
		cfg,
		notifier,
		advisor,
		guide,
		reseed,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

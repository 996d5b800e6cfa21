// Package main is the entry point for the Valyxo KPI dashboard backend.
// It serves chart-ready KPI series and narrative insights for SaaS companies,
// and runs the background agent that keeps snapshot data fresh.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valyxo/valyxo/internal/agent"
	"github.com/valyxo/valyxo/internal/clientcache"
	"github.com/valyxo/valyxo/internal/config"
	"github.com/valyxo/valyxo/internal/database"
	"github.com/valyxo/valyxo/internal/events"
	"github.com/valyxo/valyxo/internal/modules/insights"
	insightshandlers "github.com/valyxo/valyxo/internal/modules/insights/handlers"
	"github.com/valyxo/valyxo/internal/modules/series"
	serieshandlers "github.com/valyxo/valyxo/internal/modules/series/handlers"
	"github.com/valyxo/valyxo/internal/modules/snapshots"
	snapshothandlers "github.com/valyxo/valyxo/internal/modules/snapshots/handlers"
	"github.com/valyxo/valyxo/internal/providers"
	"github.com/valyxo/valyxo/internal/scheduler"
	"github.com/valyxo/valyxo/internal/server"
	"github.com/valyxo/valyxo/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Valyxo")

	// Database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	log.Info().Str("path", cfg.DatabasePath).Msg("Database ready")

	// Event bus for dashboard live updates
	eventBus := events.NewBus(log)

	// Repositories
	snapshotRepo := snapshots.NewRepository(db.Conn(), log)
	insightRepo := insights.NewRepository(db.Conn(), log)
	cacheRepo := clientcache.NewRepository(db.Conn())

	// Services
	seriesService := series.NewService(snapshotRepo, log)
	insightClient := insights.NewClient(cfg.InsightServiceURL, cacheRepo, log)
	insightService := insights.NewService(insightRepo, seriesService, insightClient, eventBus, log)

	// Upstream provider
	connector := providers.NewConnectorClient(cfg.ConnectorBaseURL, cacheRepo, log)

	// Background jobs
	refreshJob := agent.NewRefreshJob(snapshotRepo, connector, eventBus, cfg.CompanyIDs, log)
	insightsJob := agent.NewInsightsJob(insightService, snapshotRepo, cfg.CompanyIDs, log)
	cleanupJob := clientcache.NewCleanupJob(cacheRepo, log)

	sched := scheduler.New(log)
	if cfg.ConnectorBaseURL != "" {
		if err := sched.AddJob(cfg.RefreshSchedule, refreshJob); err != nil {
			log.Fatal().Err(err).Msg("Failed to register refresh job")
		}
	} else {
		log.Warn().Msg("CONNECTOR_BASE_URL not set, snapshot refresh job disabled")
	}
	if cfg.InsightServiceURL != "" {
		if err := sched.AddJob(cfg.InsightsSchedule, insightsJob); err != nil {
			log.Fatal().Err(err).Msg("Failed to register insights job")
		}
	} else {
		log.Warn().Msg("INSIGHT_SERVICE_URL not set, insight generation job disabled")
	}
	if err := sched.AddJob("0 0 4 * * *", cleanupJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cache cleanup job")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Log:              log,
		DB:               db,
		Config:           cfg,
		EventBus:         eventBus,
		SnapshotHandlers: snapshothandlers.NewHandler(snapshotRepo, log),
		SeriesHandlers:   serieshandlers.NewHandler(seriesService, log),
		InsightHandlers:  insightshandlers.NewHandler(insightService, log),
		Port:             cfg.Port,
		DevMode:          cfg.DevMode,
	})
	srv.SetJobs(refreshJob, insightsJob, cleanupJob)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

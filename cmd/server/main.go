// Package main is the entry point for the Prudentia risk engine: a Basel IRB
// regulatory capital service with a Probit-Shift stress-test engine, a stored
// scenario catalog and an append-only run audit trail.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prudentia/risk-engine/internal/config"
	"github.com/prudentia/risk-engine/internal/database"
	"github.com/prudentia/risk-engine/internal/modules/portfolio"
	portfoliohandlers "github.com/prudentia/risk-engine/internal/modules/portfolio/handlers"
	"github.com/prudentia/risk-engine/internal/modules/runs"
	runshandlers "github.com/prudentia/risk-engine/internal/modules/runs/handlers"
	"github.com/prudentia/risk-engine/internal/modules/scenarios"
	scenarioshandlers "github.com/prudentia/risk-engine/internal/modules/scenarios/handlers"
	"github.com/prudentia/risk-engine/internal/modules/stress"
	stresshandlers "github.com/prudentia/risk-engine/internal/modules/stress/handlers"
	"github.com/prudentia/risk-engine/internal/scheduler"
	"github.com/prudentia/risk-engine/internal/server"
	"github.com/prudentia/risk-engine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("port", cfg.Port).
		Msg("Starting risk engine")

	// Two databases: the scenario catalog is ordinary mutable state, the run
	// trail is an audit ledger and gets the paranoid durability profile.
	scenariosDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "scenarios.db"),
		Profile: database.ProfileStandard,
		Name:    "scenarios",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open scenarios database")
	}
	defer scenariosDB.Close()

	runsDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "runs.db"),
		Profile: database.ProfileAudit,
		Name:    "runs",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open runs database")
	}
	defer runsDB.Close()

	// Repositories
	scenarioRepo := scenarios.NewRepository(scenariosDB, log)
	if err := scenarioRepo.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scenario schema")
	}
	if err := scenarioRepo.Seed(); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed scenario catalog")
	}

	runRepo := runs.NewRepository(runsDB, log)
	if err := runRepo.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize run schema")
	}

	// Services
	portfolioService := portfolio.NewService(log)
	stressService := stress.NewService(stress.Config{
		Workers:   cfg.StressWorkers,
		PDEpsilon: cfg.StressPDEpsilon,
	}, log)

	// Scheduler: the daily capital run only makes sense with a reference
	// portfolio to run against.
	sched := scheduler.New(log)
	if cfg.ReferencePortfolio != "" {
		job := scheduler.NewDailyCapitalRunJob(cfg.ReferencePortfolio, scenarioRepo, stressService, runRepo, log)
		if err := sched.AddJob(cfg.DailyRunSchedule, job); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.DailyRunSchedule).Msg("Failed to register daily capital run")
		}
		sched.Start()
		defer sched.Stop()
	} else {
		log.Info().Msg("No reference portfolio configured, daily capital run disabled")
	}

	srv := server.New(server.Config{
		Log:              log,
		Config:           cfg,
		ScenariosDB:      scenariosDB,
		RunsDB:           runsDB,
		PortfolioHandler: portfoliohandlers.NewHandler(portfolioService, log),
		StressHandler:    stresshandlers.NewHandler(stressService, scenarioRepo, runRepo, log),
		ScenarioHandler:  scenarioshandlers.NewHandler(scenarioRepo, log),
		RunsHandler:      runshandlers.NewHandler(runRepo, log),
	})

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

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/quantfolio/quantfolio/internal/config"
	"github.com/quantfolio/quantfolio/internal/database"
	"github.com/quantfolio/quantfolio/internal/marketdata"
	priceshandlers "github.com/quantfolio/quantfolio/internal/marketdata/handlers"
	"github.com/quantfolio/quantfolio/internal/modules/calculations"
	"github.com/quantfolio/quantfolio/internal/modules/charts"
	chartshandlers "github.com/quantfolio/quantfolio/internal/modules/charts/handlers"
	dcfhandlers "github.com/quantfolio/quantfolio/internal/modules/dcf/handlers"
	"github.com/quantfolio/quantfolio/internal/modules/optimization"
	optimizationhandlers "github.com/quantfolio/quantfolio/internal/modules/optimization/handlers"
	"github.com/quantfolio/quantfolio/internal/modules/rebalancing"
	rebalancinghandlers "github.com/quantfolio/quantfolio/internal/modules/rebalancing/handlers"
	"github.com/quantfolio/quantfolio/internal/modules/risk"
	riskhandlers "github.com/quantfolio/quantfolio/internal/modules/risk/handlers"
	"github.com/quantfolio/quantfolio/internal/scheduler"
	"github.com/quantfolio/quantfolio/internal/server"
	"github.com/quantfolio/quantfolio/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not configured yet.
		panic(err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting quantfolio")

	// Databases: price history and calculation cache.
	historyDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "history.db"),
		Profile: database.ProfileStandard,
		Name:    "history",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open history database")
	}
	defer historyDB.Close()

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	// Services.
	yahooClient := marketdata.NewYahooClient(log)
	priceRepo := marketdata.NewRepository(historyDB.Conn())
	priceService := marketdata.NewService(yahooClient, priceRepo, log)

	cache := calculations.NewCache(cacheDB.Conn())
	optimizer := optimization.NewOptimizer(log)
	optimizationService := optimization.NewService(priceService, cache, optimizer, log)
	riskService := risk.NewService(priceService, log)
	rebalancingService := rebalancing.NewService(log)
	chartService := charts.NewService(log)

	// Background jobs.
	sched := scheduler.New(log)
	refreshJob := marketdata.NewRefreshJob(priceService, cfg.Tickers, 0)
	if err := sched.AddJob(cfg.RefreshSchedule, refreshJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register price refresh job")
	}
	if err := sched.AddJob("@daily", calculations.NewPruneJob(cache)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cache prune job")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server.
	srv := server.New(cfg, server.Handlers{
		Prices:       priceshandlers.NewHandler(priceService, cfg.Tickers, log),
		Risk:         riskhandlers.NewHandler(riskService, log),
		Analytics:    dcfhandlers.NewHandler(cfg.RiskFreeRate, log),
		Optimization: optimizationhandlers.NewHandler(optimizationService, log),
		Rebalancing:  rebalancinghandlers.NewHandler(rebalancingService, priceService, log),
		Charts:       chartshandlers.NewHandler(chartService, optimizationService, log),
	}, log)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

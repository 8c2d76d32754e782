// Runs the lease satisfied-time estimation for all historical days for all
// configured buildings and writes one results table per building.
//
// Usage:
//
//	go run cmd/leasewatch-historical/main.go -config config/leasewatch.yaml
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"leasewatch/internal/config"
	"leasewatch/internal/domain"
	"leasewatch/internal/estimate"
	"leasewatch/internal/fetch"
	"leasewatch/internal/report"
	"leasewatch/internal/run"
	"leasewatch/internal/schedule"
	"leasewatch/internal/store"
	"leasewatch/internal/util"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfgPath := "config/leasewatch.yaml"
	if p := os.Getenv("LEASEWATCH_CONFIG"); p != "" {
		cfgPath = p
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "path to the run configuration file")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("failed to open sensor database: %v", err)
	}
	defer db.Close()

	registry := estimate.NewRegistry()
	registry.Register(estimate.NewMeanBandScanner())
	scanner, ok := registry.Get(cfg.Run.Scanner)
	if !ok {
		log.Fatalf("unknown scanner %q (have %v)", cfg.Run.Scanner, registry.List())
	}

	provider := store.NewScheduleProvider(db)
	if cfg.Schedule.UseDefaultFallback {
		provider = provider.WithFallback(schedule.DefaultSchedule())
	}
	selection := domain.SensorSelection(cfg.Sensors.Good)

	factory := func(ctx context.Context, building domain.BuildingID) (*estimate.Estimator, error) {
		return estimate.NewEstimator(ctx, building,
			provider,
			fetch.NewSQLiteFetcher(db),
			estimate.NewScheduleClassifier(),
			scanner,
			selection,
		)
	}

	if err := report.SetupRunDir(cfg.Run.OutputDir, cfg.Run.Overwrite); err != nil {
		log.Fatalf("error: %v", err)
	}
	// Keep the configuration with the results so the run is reproducible.
	if err := report.WriteConfigCopy(cfg.Run.OutputDir, cfg); err != nil {
		log.Fatalf("error: %v", err)
	}

	runner := run.NewRunner(
		cfg.Run.Buildings,
		cfg.Run.StartDate,
		cfg.Run.EndDate,
		cfg.Run.OutputDir,
		cfg.Run.MaxWorkers,
		cfg.Run.OnError,
		factory,
	)
	if err := runner.Run(ctx); err != nil {
		log.Fatalf("error: %v", err)
	}

	logger.Info("wrote result tables", "dir", cfg.Run.OutputDir)
}

// One-shot tool: estimate the lease satisfied time for a single building
// and date and print the outcome. Useful for spot-checking a database.
//
// Usage:
//
//	go run cmd/leasewatch-check/main.go -building 37 -date 2018-02-05
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"leasewatch/internal/config"
	"leasewatch/internal/domain"
	"leasewatch/internal/estimate"
	"leasewatch/internal/fetch"
	"leasewatch/internal/schedule"
	"leasewatch/internal/store"
	"leasewatch/internal/util"
)

func main() {
	_ = godotenv.Load()

	cfgPath := "config/leasewatch.yaml"
	if p := os.Getenv("LEASEWATCH_CONFIG"); p != "" {
		cfgPath = p
	}
	var building int
	var date string
	flag.StringVar(&cfgPath, "config", cfgPath, "path to the run configuration file")
	flag.IntVar(&building, "building", 0, "building ID")
	flag.StringVar(&date, "date", "", "estimation date (2006-01-02)")
	flag.Parse()

	if building == 0 || date == "" {
		log.Fatal("both -building and -date are required")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	ctx := context.Background()

	db, err := store.Open(ctx, cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("failed to open sensor database: %v", err)
	}
	defer db.Close()

	provider := store.NewScheduleProvider(db)
	if cfg.Schedule.UseDefaultFallback {
		provider = provider.WithFallback(schedule.DefaultSchedule())
	}

	est, err := estimate.NewEstimator(ctx, building,
		provider,
		fetch.NewSQLiteFetcher(db),
		estimate.NewScheduleClassifier(),
		estimate.NewMeanBandScanner(),
		domain.SensorSelection(cfg.Sensors.Good),
	)
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	result, err := est.ComputeSatisfiedTime(ctx, date)
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	fmt.Printf("building      %d\n", result.Building)
	fmt.Printf("date          %s\n", result.Date)
	fmt.Printf("operating     %s\n", result.Operating)
	if result.SatisfiedAt != nil {
		fmt.Printf("satisfied_at  %s\n", result.SatisfiedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	} else {
		fmt.Printf("satisfied_at  (none)\n")
	}
}

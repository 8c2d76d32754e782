// Package run drives a historical estimation: for every configured building
// and every date in the run window, it computes the lease satisfied time and
// persists the per-building result tables.
package run

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"leasewatch/internal/domain"
	"leasewatch/internal/estimate"
	"leasewatch/internal/report"
	"leasewatch/internal/util"
)

// EstimatorFactory builds an Estimator for one building. The runner calls
// it once per building inside the owning worker, so implementations may
// open per-worker resources without synchronisation concerns.
type EstimatorFactory func(ctx context.Context, building domain.BuildingID) (*estimate.Estimator, error)

// Runner executes the historical batch.
type Runner struct {
	Buildings  []domain.BuildingID
	StartDate  string
	EndDate    string
	OutputDir  string
	MaxWorkers int
	// OnError is "skip" (log, record an unknown result, continue) or
	// "abort" (fail the whole run).
	OnError      string
	NewEstimator EstimatorFactory

	log *slog.Logger
}

// NewRunner creates a Runner with the given parameters.
func NewRunner(buildings []domain.BuildingID, startDate, endDate, outputDir string, maxWorkers int, onError string, factory EstimatorFactory) *Runner {
	return &Runner{
		Buildings:    buildings,
		StartDate:    startDate,
		EndDate:      endDate,
		OutputDir:    outputDir,
		MaxWorkers:   maxWorkers,
		OnError:      onError,
		NewEstimator: factory,
		log:          slog.Default().With("component", "runner"),
	}
}

// DateRange expands an inclusive [start, end] pair of calendar dates into
// the list of dates in between.
func DateRange(start, end string) ([]string, error) {
	from, err := util.ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := util.ParseDate(end)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("end date %s before start date %s", end, start)
	}

	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(util.DateLayout))
	}
	return dates, nil
}

// Run estimates satisfied times for every (building, date) pair and writes
// one CSV and one Parquet table per building. Buildings are processed by a
// worker pool; each worker constructs its own Estimator, so no schedule or
// connection state is shared unsynchronised across workers. The first
// failing building stops the pool.
func (r *Runner) Run(ctx context.Context) error {
	dates, err := DateRange(r.StartDate, r.EndDate)
	if err != nil {
		return fmt.Errorf("expanding run dates: %w", err)
	}

	r.log.Info("starting historical estimation",
		"buildings", len(r.Buildings),
		"dates", len(dates),
		"from", r.StartDate,
		"to", r.EndDate,
	)
	runStart := time.Now()

	buildingCh := make(chan domain.BuildingID, len(r.Buildings))
	for _, b := range r.Buildings {
		buildingCh <- b
	}
	close(buildingCh)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	workers := r.MaxWorkers
	if workers > len(r.Buildings) {
		workers = len(r.Buildings)
	}
	if workers < 1 {
		workers = 1
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for building := range buildingCh {
				if ctx.Err() != nil {
					return
				}
				mu.Lock()
				stop := firstErr != nil
				mu.Unlock()
				if stop {
					return
				}
				if err := r.runBuilding(ctx, building, dates); err != nil {
					fail(fmt.Errorf("building %d: %w", building, err))
					return
				}
			}
		}()
	}

	wg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if firstErr != nil {
		return firstErr
	}

	r.log.Info("historical estimation complete",
		"elapsed", time.Since(runStart).Round(time.Second),
	)
	return nil
}

// runBuilding estimates every date for one building and writes its tables.
func (r *Runner) runBuilding(ctx context.Context, building domain.BuildingID, dates []string) error {
	r.log.Info("estimating satisfied times", "building", building)

	est, err := r.NewEstimator(ctx, building)
	if err != nil {
		return err
	}

	results := make([]domain.EstimationResult, 0, len(dates))
	for _, date := range dates {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		result, err := est.ComputeSatisfiedTime(ctx, date)
		if err != nil {
			if r.OnError == "abort" {
				return fmt.Errorf("date %s: %w", date, err)
			}
			// Record the date with whatever status the estimator reached
			// (Unknown for fetch failures) and move on.
			r.log.Warn("skipping date after estimation failure",
				"building", building,
				"date", date,
				"err", err,
			)
		}
		results = append(results, result)
	}

	if err := report.WriteCSV(r.OutputDir, building, results); err != nil {
		return err
	}
	if err := report.WriteParquet(r.OutputDir, building, results); err != nil {
		return err
	}

	r.log.Info("wrote results", "building", building, "rows", len(results))
	return nil
}

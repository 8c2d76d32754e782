package estimate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"leasewatch/internal/domain"
	"leasewatch/internal/fetch"
	"leasewatch/internal/schedule"
)

// Estimator binds a building to its obligation schedule and orchestrates
// fetch, classification, and scanning for one estimation date at a time.
// The schedule is loaded once at construction and held immutably; fetched
// matrices and results are local to each call, so a single Estimator is
// safe to use from one goroutine and cheap to construct per worker.
type Estimator struct {
	building   domain.BuildingID
	sched      schedule.Schedule
	fetcher    fetch.Fetcher
	classifier Classifier
	scanner    Scanner
	selection  domain.SensorSelection
	log        *slog.Logger
}

// NewEstimator constructs an Estimator for a building, loading its schedule
// through the provider. A missing or malformed schedule fails here, not at
// estimation time.
func NewEstimator(
	ctx context.Context,
	building domain.BuildingID,
	provider schedule.Provider,
	fetcher fetch.Fetcher,
	classifier Classifier,
	scanner Scanner,
	selection domain.SensorSelection,
) (*Estimator, error) {
	sched, err := provider.Load(ctx, building)
	if err != nil {
		return nil, fmt.Errorf("loading schedule for building %d: %w", building, err)
	}
	if err := sched.Validate(); err != nil {
		return nil, &domain.ConfigurationError{Building: building, Reason: err.Error()}
	}

	return &Estimator{
		building:   building,
		sched:      sched,
		fetcher:    fetcher,
		classifier: classifier,
		scanner:    scanner,
		selection:  selection,
		log:        slog.Default().With("component", "estimator", "building", building),
	}, nil
}

// Schedule returns the building's obligation schedule.
func (e *Estimator) Schedule() schedule.Schedule { return e.sched }

// ComputeSatisfiedTime estimates when the building first satisfied its lease
// obligation on the given date.
//
// The call runs fetch, then classification, then (only on operating days)
// the scan. Non-operating days return OperatingNo with a nil time and the
// scanner never runs: the schedule's band is undefined on those days. An
// unclassifiable day surfaces as OperatingUnknown together with the
// classifier's error, never as a silent "not operating". Fetch failures
// propagate; the caller decides whether to skip the date or abort the run.
func (e *Estimator) ComputeSatisfiedTime(ctx context.Context, date string) (domain.EstimationResult, error) {
	result := domain.EstimationResult{
		Building:  e.building,
		Date:      date,
		Operating: domain.OperatingUnknown,
	}

	m, err := e.fetcher.Fetch(ctx, e.building, date, date)
	if err != nil {
		return result, err
	}

	status, err := e.classifier.Classify(date, e.sched, m)
	result.Operating = status
	if err != nil {
		var ambiguous *domain.AmbiguousClassificationError
		if errors.As(err, &ambiguous) {
			e.log.Warn("operating-day status undetermined", "date", date, "reason", ambiguous.Reason)
			return result, err
		}
		return result, err
	}
	if status != domain.OperatingYes {
		return result, nil
	}

	lower, upper, ok, err := e.sched.TempRange(date)
	if err != nil {
		return result, err
	}
	if !ok {
		// Classifier said operating but the schedule has no band; the two
		// read the same table, so this indicates a broken schedule.
		return result, &domain.ConfigurationError{
			Building: e.building,
			Reason:   fmt.Sprintf("operating day %s has no temperature band", date),
		}
	}

	if at, found := e.scanner.FirstSatisfiedTime(m, e.selection, lower, upper); found {
		ts := at
		result.SatisfiedAt = &ts
		e.log.Debug("obligation satisfied", "date", date, "at", ts.Format(time.RFC3339))
	} else {
		e.log.Debug("obligation not satisfied", "date", date, "rows", m.Rows())
	}
	return result, nil
}

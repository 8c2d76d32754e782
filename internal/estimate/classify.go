package estimate

import (
	"leasewatch/internal/domain"
	"leasewatch/internal/schedule"
	"leasewatch/internal/util"
)

// Classifier decides whether a calendar date is a contractual operating day.
// Implementations may consult the fetched matrix, but the schedule is the
// authoritative source of day-of-week truth.
type Classifier interface {
	// Name returns the unique identifier for this classifier.
	Name() string

	// Classify returns the operating status for the date. OperatingUnknown
	// is accompanied by a non-nil error explaining why the classification
	// could not be made; it is never a silent default.
	Classify(date string, sched schedule.Schedule, m domain.SensorMatrix) (domain.OperatingStatus, error)
}

// Compile-time interface checks.
var _ Classifier = (*ScheduleClassifier)(nil)
var _ Classifier = (*IndexClassifier)(nil)

// ---------------------------------------------------------------------------
// ScheduleClassifier (default)
// ---------------------------------------------------------------------------

// ScheduleClassifier computes the day of week from the estimation date
// itself (Monday=0, matching the schedule's convention) and reads the
// operating flag straight off the schedule. It never inspects matrix
// contents, so empty data for the date cannot change the answer. This is
// the default classifier.
type ScheduleClassifier struct{}

// NewScheduleClassifier creates the default classifier.
func NewScheduleClassifier() *ScheduleClassifier { return &ScheduleClassifier{} }

// Name returns the classifier identifier.
func (c *ScheduleClassifier) Name() string { return "schedule" }

// Classify returns the schedule's operating flag for the date's weekday.
func (c *ScheduleClassifier) Classify(date string, sched schedule.Schedule, _ domain.SensorMatrix) (domain.OperatingStatus, error) {
	day, err := sched.ForDate(date)
	if err != nil {
		return domain.OperatingUnknown, err
	}
	if day.Operating {
		return domain.OperatingYes, nil
	}
	return domain.OperatingNo, nil
}

// ---------------------------------------------------------------------------
// IndexClassifier (corroborating, swappable)
// ---------------------------------------------------------------------------

// IndexClassifier reads the day of week off the fetched matrix's first row
// instead of the requested date. It exists for corroborating the schedule
// against what was actually fetched; with no rows to read it cannot
// classify and returns OperatingUnknown with an
// AmbiguousClassificationError. Not the default.
type IndexClassifier struct{}

// NewIndexClassifier creates the matrix-indexed classifier.
func NewIndexClassifier() *IndexClassifier { return &IndexClassifier{} }

// Name returns the classifier identifier.
func (c *IndexClassifier) Name() string { return "index" }

// Classify reads the weekday from the matrix's first timestamp.
func (c *IndexClassifier) Classify(date string, sched schedule.Schedule, m domain.SensorMatrix) (domain.OperatingStatus, error) {
	if m.Empty() {
		return domain.OperatingUnknown, &domain.AmbiguousClassificationError{
			Date:   date,
			Reason: "no fetched rows to read a weekday from",
		}
	}
	dow := util.WeekdayMon0(m.Times[0])
	if sched[dow].Operating {
		return domain.OperatingYes, nil
	}
	return domain.OperatingNo, nil
}

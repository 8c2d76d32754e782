package estimate

import (
	"errors"
	"testing"
	"time"

	"leasewatch/internal/domain"
	"leasewatch/internal/schedule"
)

func TestScheduleClassifier(t *testing.T) {
	c := NewScheduleClassifier()
	sched := schedule.DefaultSchedule()

	// Weekday, even with no fetched data: the schedule is authoritative.
	status, err := c.Classify("2018-02-05", sched, domain.SensorMatrix{})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if status != domain.OperatingYes {
		t.Errorf("Monday status = %v, want OperatingYes", status)
	}

	status, err = c.Classify("2018-02-04", sched, domain.SensorMatrix{})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if status != domain.OperatingNo {
		t.Errorf("Sunday status = %v, want OperatingNo", status)
	}

	status, err = c.Classify("not-a-date", sched, domain.SensorMatrix{})
	if err == nil {
		t.Error("Classify should fail on an unparseable date")
	}
	if status != domain.OperatingUnknown {
		t.Errorf("unparseable date status = %v, want OperatingUnknown", status)
	}
}

func TestIndexClassifier(t *testing.T) {
	c := NewIndexClassifier()
	sched := schedule.DefaultSchedule()

	monday := time.Date(2018, 2, 5, 0, 0, 0, 0, time.UTC)
	m := domain.NewSensorMatrix([]domain.Reading{
		{SensorID: 1, Timestamp: monday, Value: 70},
	})

	status, err := c.Classify("2018-02-05", sched, m)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if status != domain.OperatingYes {
		t.Errorf("status from Monday index = %v, want OperatingYes", status)
	}
}

func TestIndexClassifierEmptyMatrixIsAmbiguous(t *testing.T) {
	c := NewIndexClassifier()

	status, err := c.Classify("2018-02-05", schedule.DefaultSchedule(), domain.SensorMatrix{})
	if status != domain.OperatingUnknown {
		t.Errorf("status = %v, want OperatingUnknown (never a silent OperatingNo)", status)
	}
	var ambiguous *domain.AmbiguousClassificationError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("err = %v, want AmbiguousClassificationError", err)
	}
}

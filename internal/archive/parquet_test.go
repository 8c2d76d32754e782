package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"leasewatch/internal/domain"
)

func TestReadingPath(t *testing.T) {
	s := NewStore("/data")

	got := s.readingPath(37, 2018)
	want := filepath.Join("/data", "buildings", "37", "2018.parquet")
	if got != want {
		t.Errorf("readingPath:\n  got  %s\n  want %s", got, want)
	}
}

func TestWriteReadReadings(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx := context.Background()

	base := time.Date(2018, 2, 5, 0, 0, 0, 0, time.UTC)
	readings := []domain.Reading{
		{BuildingID: 37, SensorID: 17526, Timestamp: base, Value: 68.2},
		{BuildingID: 37, SensorID: 17525, Timestamp: base, Value: 67.4},
		{BuildingID: 37, SensorID: 17525, Timestamp: base.Add(time.Hour), Value: 68.0},
		{BuildingID: 37, SensorID: 17526, Timestamp: base.Add(time.Hour), Value: 130.0, Flagged: true},
	}
	if err := s.WriteReadings(ctx, readings); err != nil {
		t.Fatalf("WriteReadings: %v", err)
	}

	got, err := s.ReadReadings(ctx, 37, base, base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("ReadReadings: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ReadReadings returned %d rows, want 3 (flagged excluded)", len(got))
	}
	if got[0].SensorID != 17525 || got[1].SensorID != 17526 {
		t.Errorf("rows not ordered by timestamp then sensor: %v", got)
	}
	if got[0].Value != 67.4 {
		t.Errorf("first value = %v, want 67.4", got[0].Value)
	}
}

func TestWriteReadingsMerges(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx := context.Background()

	ts := time.Date(2018, 2, 5, 9, 0, 0, 0, time.UTC)
	if err := s.WriteReadings(ctx, []domain.Reading{
		{BuildingID: 37, SensorID: 1, Timestamp: ts, Value: 70},
	}); err != nil {
		t.Fatalf("WriteReadings (first): %v", err)
	}

	// Second write: a new timestamp plus a corrected value for the first.
	if err := s.WriteReadings(ctx, []domain.Reading{
		{BuildingID: 37, SensorID: 1, Timestamp: ts, Value: 70.5},
		{BuildingID: 37, SensorID: 1, Timestamp: ts.Add(time.Hour), Value: 71},
	}); err != nil {
		t.Fatalf("WriteReadings (second): %v", err)
	}

	got, err := s.ReadReadings(ctx, 37, ts.Add(-time.Hour), ts.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("ReadReadings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ReadReadings returned %d rows after merge, want 2", len(got))
	}
	if got[0].Value != 70.5 {
		t.Errorf("merged value = %v, want incoming 70.5 to win", got[0].Value)
	}
}

func TestReadReadingsTimeFilter(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx := context.Background()

	base := time.Date(2018, 2, 4, 0, 0, 0, 0, time.UTC)
	var readings []domain.Reading
	for h := 0; h < 48; h++ {
		readings = append(readings, domain.Reading{
			BuildingID: 37, SensorID: 1, Timestamp: base.Add(time.Duration(h) * time.Hour), Value: 70,
		})
	}
	if err := s.WriteReadings(ctx, readings); err != nil {
		t.Fatalf("WriteReadings: %v", err)
	}

	from := base.Add(24 * time.Hour)
	to := base.Add(47*time.Hour + 59*time.Minute)
	got, err := s.ReadReadings(ctx, 37, from, to)
	if err != nil {
		t.Fatalf("ReadReadings: %v", err)
	}
	if len(got) != 24 {
		t.Fatalf("ReadReadings returned %d rows, want 24", len(got))
	}
	if got[0].Timestamp.Before(from) || got[len(got)-1].Timestamp.After(to) {
		t.Error("ReadReadings returned rows outside the requested window")
	}
}

func TestListBuildings(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx := context.Background()

	ts := time.Date(2018, 2, 5, 0, 0, 0, 0, time.UTC)
	for _, b := range []int{52, 37} {
		if err := s.WriteReadings(ctx, []domain.Reading{
			{BuildingID: b, SensorID: 1, Timestamp: ts, Value: 70},
		}); err != nil {
			t.Fatalf("WriteReadings: %v", err)
		}
	}

	got, err := s.ListBuildings()
	if err != nil {
		t.Fatalf("ListBuildings: %v", err)
	}
	if len(got) != 2 || got[0] != 37 || got[1] != 52 {
		t.Errorf("ListBuildings = %v, want [37 52]", got)
	}
}

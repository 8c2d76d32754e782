package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"leasewatch/internal/domain"
)

func sampleResults() []domain.EstimationResult {
	ts := time.Date(2018, 2, 5, 9, 0, 0, 0, time.UTC)
	return []domain.EstimationResult{
		{Building: 37, Date: "2018-02-04", Operating: domain.OperatingNo},
		{Building: 37, Date: "2018-02-05", Operating: domain.OperatingYes, SatisfiedAt: &ts},
		{Building: 37, Date: "2018-02-06", Operating: domain.OperatingYes},
	}
}

func TestSetupRunDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run-1")

	if err := SetupRunDir(dir, false); err != nil {
		t.Fatalf("SetupRunDir on fresh path: %v", err)
	}

	// Empty existing directory is fine.
	if err := SetupRunDir(dir, false); err != nil {
		t.Fatalf("SetupRunDir on empty existing dir: %v", err)
	}

	// Non-empty directory is refused without overwrite.
	if err := os.WriteFile(filepath.Join(dir, "old.csv"), []byte("x"), 0o644); err != nil {
		t.Fatalf("seeding file: %v", err)
	}
	if err := SetupRunDir(dir, false); err == nil {
		t.Error("SetupRunDir should refuse a non-empty dir without overwrite")
	}
	if err := SetupRunDir(dir, true); err != nil {
		t.Errorf("SetupRunDir with overwrite: %v", err)
	}
}

func TestWriteConfigCopy(t *testing.T) {
	dir := t.TempDir()

	cfg := map[string]any{"buildings": []int{37}, "start_date": "2018-02-01"}
	if err := WriteConfigCopy(dir, cfg); err != nil {
		t.Fatalf("WriteConfigCopy: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.yml"))
	if err != nil {
		t.Fatalf("reading config copy: %v", err)
	}
	if !strings.Contains(string(data), "start_date: \"2018-02-01\"") &&
		!strings.Contains(string(data), "start_date: 2018-02-01") {
		t.Errorf("config copy missing start_date:\n%s", data)
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()

	if err := WriteCSV(dir, 37, sampleResults()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	f, err := os.Open(CSVPath(dir, 37))
	if err != nil {
		t.Fatalf("opening CSV: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("CSV has %d rows, want header + 3", len(rows))
	}
	if rows[0][0] != "date" || rows[0][3] != "lease_satisfied_time" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][2] != "false" || rows[1][3] != "" {
		t.Errorf("non-operating row = %v, want operating=false and empty time", rows[1])
	}
	if rows[2][3] != "2018-02-05 09:00:00" {
		t.Errorf("satisfied time = %q, want %q", rows[2][3], "2018-02-05 09:00:00")
	}
	if rows[3][2] != "true" || rows[3][3] != "" {
		t.Errorf("unsatisfied operating row = %v, want operating=true and empty time", rows[3])
	}
}

func TestParquetRoundtrip(t *testing.T) {
	dir := t.TempDir()
	want := sampleResults()

	if err := WriteParquet(dir, 37, want); err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}

	got, err := ReadParquet(dir, 37)
	if err != nil {
		t.Fatalf("ReadParquet: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("ReadParquet returned %d results, want %d", len(got), len(want))
	}
	if got[0].Operating != domain.OperatingNo || got[0].SatisfiedAt != nil {
		t.Errorf("first result = %+v, want non-operating with nil time", got[0])
	}
	if got[1].SatisfiedAt == nil || !got[1].SatisfiedAt.Equal(*want[1].SatisfiedAt) {
		t.Errorf("second result time = %v, want %v", got[1].SatisfiedAt, want[1].SatisfiedAt)
	}
	if got[2].Operating != domain.OperatingYes || got[2].SatisfiedAt != nil {
		t.Errorf("third result = %+v, want operating with nil time", got[2])
	}
}

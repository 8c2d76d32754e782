// Package report persists the artifacts of a historical estimation run: the
// per-building satisfied-time tables and a copy of the run configuration,
// so a results directory is self-describing and reproducible.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"

	"leasewatch/internal/domain"
)

// timeLayout is how satisfied times appear in the CSV output.
const timeLayout = "2006-01-02 15:04:05"

// SetupRunDir creates the output directory for a run. An existing non-empty
// directory is refused unless overwrite is set, so a previous run's results
// are never clobbered by accident.
func SetupRunDir(dir string, overwrite bool) error {
	entries, err := os.ReadDir(dir)
	if err == nil && len(entries) > 0 && !overwrite {
		return fmt.Errorf("output directory %s exists and is not empty (set run.overwrite to reuse it)", dir)
	}
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("inspecting output directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return nil
}

// WriteConfigCopy persists the run configuration as config.yml inside the
// output directory. The whole directory can then be zipped up and shared
// with the bookkeeping intact.
func WriteConfigCopy(dir string, cfg any) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config copy: %w", err)
	}
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config copy: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// CSV output
// ---------------------------------------------------------------------------

// CSVPath returns the per-building results file path inside the output
// directory.
func CSVPath(dir string, building domain.BuildingID) string {
	return filepath.Join(dir, fmt.Sprintf("lease_obligation_satisfied_times_%d.csv", building))
}

// WriteCSV writes one building's results as a CSV table with one row per
// estimation date. A nil satisfied time renders as an empty field, never as
// a placeholder that could be mistaken for a timestamp.
func WriteCSV(dir string, building domain.BuildingID, results []domain.EstimationResult) error {
	f, err := os.Create(CSVPath(dir, building))
	if err != nil {
		return fmt.Errorf("creating results CSV for building %d: %w", building, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "building_id", "operating", "lease_satisfied_time"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range results {
		satisfied := ""
		if r.SatisfiedAt != nil {
			satisfied = r.SatisfiedAt.UTC().Format(timeLayout)
		}
		row := []string{r.Date, fmt.Sprintf("%d", r.Building), r.Operating.String(), satisfied}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", r.Date, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing results CSV: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Parquet output
// ---------------------------------------------------------------------------

// ResultRecord is the Parquet schema for estimation results.
type ResultRecord struct {
	BuildingID int64  `parquet:"building_id"`
	Date       string `parquet:"date"`
	Operating  string `parquet:"operating"`
	// SatisfiedAt is Unix ms; 0 with Satisfied=false means no result.
	SatisfiedAt int64 `parquet:"satisfied_at,timestamp(millisecond)"`
	Satisfied   bool  `parquet:"satisfied"`
}

// ParquetPath returns the per-building parquet results file path.
func ParquetPath(dir string, building domain.BuildingID) string {
	return filepath.Join(dir, fmt.Sprintf("lease_obligation_satisfied_times_%d.parquet", building))
}

// WriteParquet writes the same results as a columnar file next to the CSV.
func WriteParquet(dir string, building domain.BuildingID, results []domain.EstimationResult) error {
	records := make([]ResultRecord, 0, len(results))
	for _, r := range results {
		rec := ResultRecord{
			BuildingID: int64(r.Building),
			Date:       r.Date,
			Operating:  r.Operating.String(),
		}
		if r.SatisfiedAt != nil {
			rec.SatisfiedAt = r.SatisfiedAt.UTC().UnixMilli()
			rec.Satisfied = true
		}
		records = append(records, rec)
	}

	if err := parquet.WriteFile(ParquetPath(dir, building), records); err != nil {
		return fmt.Errorf("writing results parquet for building %d: %w", building, err)
	}
	return nil
}

// ReadParquet reads a building's parquet results back, mostly for tooling
// and tests.
func ReadParquet(dir string, building domain.BuildingID) ([]domain.EstimationResult, error) {
	records, err := parquet.ReadFile[ResultRecord](ParquetPath(dir, building))
	if err != nil {
		return nil, err
	}

	results := make([]domain.EstimationResult, 0, len(records))
	for _, rec := range records {
		r := domain.EstimationResult{
			Building: int(rec.BuildingID),
			Date:     rec.Date,
		}
		switch rec.Operating {
		case "true":
			r.Operating = domain.OperatingYes
		case "false":
			r.Operating = domain.OperatingNo
		default:
			r.Operating = domain.OperatingUnknown
		}
		if rec.Satisfied {
			ts := time.UnixMilli(rec.SatisfiedAt).UTC()
			r.SatisfiedAt = &ts
		}
		results = append(results, r)
	}
	return results, nil
}

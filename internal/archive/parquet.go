// Package archive stores sensor readings as Parquet files on disk, one file
// per building and year. It is the offline, columnar counterpart of the
// SQLite sensor database and backs the archive-based Fetcher.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"

	"leasewatch/internal/domain"
)

// Store reads and writes reading archives rooted at a data directory.
type Store struct {
	DataDir string
}

// NewStore creates an archive Store rooted at the given data directory.
func NewStore(dataDir string) *Store {
	return &Store{DataDir: dataDir}
}

// ---------------------------------------------------------------------------
// Parquet record types (on-disk schema)
// ---------------------------------------------------------------------------

// ReadingRecord is the Parquet schema for sensor readings.
type ReadingRecord struct {
	SensorID  int64   `parquet:"sensor_id"`
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Value     float64 `parquet:"value"`
	Flagged   bool    `parquet:"flagged"`
}

// ---------------------------------------------------------------------------
// Read / write
// ---------------------------------------------------------------------------

// WriteReadings writes readings to Parquet files grouped by building and
// year. Existing records are merged; (sensor, timestamp) duplicates keep the
// incoming value.
func (s *Store) WriteReadings(_ context.Context, readings []domain.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	type key struct {
		building domain.BuildingID
		year     int
	}
	groups := make(map[key][]ReadingRecord)
	for _, r := range readings {
		k := key{building: r.BuildingID, year: r.Timestamp.UTC().Year()}
		groups[k] = append(groups[k], ReadingRecord{
			SensorID:  int64(r.SensorID),
			Timestamp: r.Timestamp.UTC().UnixMilli(),
			Value:     r.Value,
			Flagged:   r.Flagged,
		})
	}

	for k, records := range groups {
		path := s.readingPath(k.building, k.year)

		existing, _ := readParquetFile[ReadingRecord](path)
		merged := mergeReadingRecords(existing, records)

		if err := writeParquetFile(path, merged); err != nil {
			return fmt.Errorf("writing readings for building %d year %d: %w", k.building, k.year, err)
		}
	}
	return nil
}

// ReadReadings returns the building's unflagged readings with timestamps in
// [from, to], ordered by timestamp then sensor.
func (s *Store) ReadReadings(_ context.Context, building domain.BuildingID, from, to time.Time) ([]domain.Reading, error) {
	var readings []domain.Reading
	for year := from.UTC().Year(); year <= to.UTC().Year(); year++ {
		path := s.readingPath(building, year)

		records, err := readParquetFile[ReadingRecord](path)
		if err != nil {
			// No file for this year.
			continue
		}

		for _, r := range records {
			if r.Flagged {
				continue
			}
			ts := time.UnixMilli(r.Timestamp).UTC()
			if ts.Before(from) || ts.After(to) {
				continue
			}
			readings = append(readings, domain.Reading{
				BuildingID: building,
				SensorID:   int(r.SensorID),
				Timestamp:  ts,
				Value:      r.Value,
			})
		}
	}
	sort.Slice(readings, func(i, j int) bool {
		if !readings[i].Timestamp.Equal(readings[j].Timestamp) {
			return readings[i].Timestamp.Before(readings[j].Timestamp)
		}
		return readings[i].SensorID < readings[j].SensorID
	})
	return readings, nil
}

// ListBuildings returns the building IDs that have archive files.
func (s *Store) ListBuildings() ([]domain.BuildingID, error) {
	dir := filepath.Join(s.DataDir, "buildings")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var buildings []domain.BuildingID
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		id, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		buildings = append(buildings, id)
	}
	sort.Ints(buildings)
	return buildings, nil
}

// ---------------------------------------------------------------------------
// Path and file helpers
// ---------------------------------------------------------------------------

// readingPath returns the filesystem path for a building-year archive file.
// Layout: <dataDir>/buildings/<id>/<YYYY>.parquet
func (s *Store) readingPath(building domain.BuildingID, year int) string {
	return filepath.Join(s.DataDir, "buildings", strconv.Itoa(building), fmt.Sprintf("%d.parquet", year))
}

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// mergeReadingRecords deduplicates by (sensor, timestamp), preferring
// incoming records over existing ones. Results are time-sorted.
func mergeReadingRecords(existing, incoming []ReadingRecord) []ReadingRecord {
	type key struct {
		sensor int64
		ts     int64
	}
	seen := make(map[key]ReadingRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[key{r.SensorID, r.Timestamp}] = r
	}
	for _, r := range incoming {
		seen[key{r.SensorID, r.Timestamp}] = r
	}

	merged := make([]ReadingRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Timestamp != merged[j].Timestamp {
			return merged[i].Timestamp < merged[j].Timestamp
		}
		return merged[i].SensorID < merged[j].SensorID
	})
	return merged
}

// One-shot tool: load sensor readings from a CSV export into the SQLite
// sensor database and the Parquet archive, and optionally seed buildings
// with the default obligation schedule.
//
// The readings CSV has a header and columns:
//
//	building_id,sensor_id,timestamp,value,flagged
//
// Usage:
//
//	go run cmd/leasewatch-import/main.go -config config/leasewatch.yaml \
//	    -readings readings.csv -seed-default-schedule 37,52
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"leasewatch/internal/archive"
	"leasewatch/internal/config"
	"leasewatch/internal/domain"
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
	var readingsPath, seedBuildings string
	flag.StringVar(&cfgPath, "config", cfgPath, "path to the run configuration file")
	flag.StringVar(&readingsPath, "readings", "", "CSV file of sensor readings to import")
	flag.StringVar(&seedBuildings, "seed-default-schedule", "", "comma-separated building IDs to seed with the default schedule")
	flag.Parse()

	if readingsPath == "" && seedBuildings == "" {
		log.Fatal("nothing to do: pass -readings and/or -seed-default-schedule")
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

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	if seedBuildings != "" {
		for _, field := range strings.Split(seedBuildings, ",") {
			building, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				log.Fatalf("bad building id %q: %v", field, err)
			}
			if err := db.WriteSchedule(ctx, building, schedule.DefaultSchedule()); err != nil {
				log.Fatalf("seeding schedule for building %d: %v", building, err)
			}
			logger.Info("seeded default schedule", "building", building)
		}
	}

	if readingsPath != "" {
		readings, err := readReadingsCSV(readingsPath)
		if err != nil {
			log.Fatalf("reading %s: %v", readingsPath, err)
		}

		if err := db.WriteReadings(ctx, readings); err != nil {
			log.Fatalf("writing readings to database: %v", err)
		}
		if err := archive.NewStore(cfg.Storage.DataDir).WriteReadings(ctx, readings); err != nil {
			log.Fatalf("writing readings to archive: %v", err)
		}
		logger.Info("imported readings", "rows", len(readings), "file", readingsPath)
	}
}

// readReadingsCSV parses the export format into readings.
func readReadingsCSV(path string) ([]domain.Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)

	// Skip header.
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var readings []domain.Reading
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(record) != 5 {
			return nil, fmt.Errorf("line %d: expected 5 fields, got %d", line, len(record))
		}

		building, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad building id %q", line, record[0])
		}
		sensor, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad sensor id %q", line, record[1])
		}
		ts, _, err := util.ParseDateOrTime(record[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		value, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad value %q", line, record[3])
		}
		flagged := record[4] == "1" || strings.EqualFold(record[4], "true")

		readings = append(readings, domain.Reading{
			BuildingID: building,
			SensorID:   sensor,
			Timestamp:  ts,
			Value:      value,
			Flagged:    flagged,
		})
	}
	return readings, nil
}

// Package store provides the SQLite-backed sensor database: raw temperature
// readings, sensor metadata, and per-building lease obligation rows.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"leasewatch/internal/util"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// DB wraps the sensor database connection. A DB is safe for concurrent use;
// database/sql pools connections internally.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at dbPath and verifies it is
// reachable. Transient open failures are retried a few times; this is the
// data source's own policy, the estimation core never retries.
func Open(ctx context.Context, dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite at %s: %w", dbPath, err)
	}

	if err := util.Retry(ctx, 3, 100*time.Millisecond, func() error {
		return db.PingContext(ctx)
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite at %s: %w", dbPath, err)
	}

	return &DB{db: db}, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Migrate creates the schema if it does not exist.
func (d *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sensors (
			building_id INTEGER NOT NULL,
			sensor_id   INTEGER NOT NULL,
			ignored     INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (building_id, sensor_id)
		)`,
		`CREATE TABLE IF NOT EXISTS sensor_readings (
			building_id INTEGER NOT NULL,
			sensor_id   INTEGER NOT NULL,
			ts          INTEGER NOT NULL,
			value       REAL    NOT NULL,
			flagged     INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (building_id, sensor_id, ts)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_readings_building_ts
			ON sensor_readings (building_id, ts)`,
		`CREATE TABLE IF NOT EXISTS lease_obligations (
			building_id INTEGER NOT NULL,
			dow         INTEGER NOT NULL,
			operating   INTEGER NOT NULL,
			lower_temp  REAL,
			upper_temp  REAL,
			start_hour  INTEGER,
			end_hour    INTEGER,
			timezone    TEXT    NOT NULL,
			PRIMARY KEY (building_id, dow)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
	}
	return nil
}

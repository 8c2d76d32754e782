package store

import (
	"context"
	"fmt"
	"time"

	"leasewatch/internal/domain"
)

// WriteReadings inserts a batch of readings, replacing any existing row for
// the same (building, sensor, timestamp). Timestamps are stored as Unix
// seconds UTC. Sensors are registered as a side effect.
func (d *DB) WriteReadings(ctx context.Context, readings []domain.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning readings tx: %w", err)
	}
	defer tx.Rollback()

	insReading, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO sensor_readings (building_id, sensor_id, ts, value, flagged)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing reading insert: %w", err)
	}
	defer insReading.Close()

	insSensor, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO sensors (building_id, sensor_id, ignored) VALUES (?, ?, 0)`)
	if err != nil {
		return fmt.Errorf("preparing sensor insert: %w", err)
	}
	defer insSensor.Close()

	for _, r := range readings {
		if _, err := insSensor.ExecContext(ctx, r.BuildingID, r.SensorID); err != nil {
			return fmt.Errorf("registering sensor %d: %w", r.SensorID, err)
		}
		flagged := 0
		if r.Flagged {
			flagged = 1
		}
		if _, err := insReading.ExecContext(ctx,
			r.BuildingID, r.SensorID, r.Timestamp.UTC().Unix(), r.Value, flagged); err != nil {
			return fmt.Errorf("inserting reading for sensor %d: %w", r.SensorID, err)
		}
	}

	return tx.Commit()
}

// SetSensorIgnored marks or unmarks a sensor as ignored. Ignored sensors are
// excluded from every subsequent fetch.
func (d *DB) SetSensorIgnored(ctx context.Context, building domain.BuildingID, sensor domain.SensorID, ignored bool) error {
	v := 0
	if ignored {
		v = 1
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO sensors (building_id, sensor_id, ignored) VALUES (?, ?, ?)
		 ON CONFLICT (building_id, sensor_id) DO UPDATE SET ignored = excluded.ignored`,
		building, sensor, v)
	if err != nil {
		return fmt.Errorf("setting sensor %d ignored=%v: %w", sensor, ignored, err)
	}
	return nil
}

// ReadReadings returns the building's readings with timestamps in
// [from, to], excluding ignored sensors and flagged-bad rows, ordered by
// timestamp then sensor.
func (d *DB) ReadReadings(ctx context.Context, building domain.BuildingID, from, to time.Time) ([]domain.Reading, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT r.sensor_id, r.ts, r.value
		 FROM sensor_readings r
		 JOIN sensors s ON s.building_id = r.building_id AND s.sensor_id = r.sensor_id
		 WHERE r.building_id = ?
		   AND r.ts BETWEEN ? AND ?
		   AND r.flagged = 0
		   AND s.ignored = 0
		 ORDER BY r.ts, r.sensor_id`,
		building, from.UTC().Unix(), to.UTC().Unix())
	if err != nil {
		return nil, fmt.Errorf("querying readings for building %d: %w", building, err)
	}
	defer rows.Close()

	var readings []domain.Reading
	for rows.Next() {
		var sensorID int
		var ts int64
		var value float64
		if err := rows.Scan(&sensorID, &ts, &value); err != nil {
			return nil, fmt.Errorf("scanning reading row: %w", err)
		}
		readings = append(readings, domain.Reading{
			BuildingID: building,
			SensorID:   sensorID,
			Timestamp:  time.Unix(ts, 0).UTC(),
			Value:      value,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reading rows: %w", err)
	}
	return readings, nil
}

// ListSensors returns the distinct non-ignored sensor IDs known for a
// building, sorted ascending.
func (d *DB) ListSensors(ctx context.Context, building domain.BuildingID) ([]domain.SensorID, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT sensor_id FROM sensors WHERE building_id = ? AND ignored = 0 ORDER BY sensor_id`,
		building)
	if err != nil {
		return nil, fmt.Errorf("listing sensors for building %d: %w", building, err)
	}
	defer rows.Close()

	var sensors []domain.SensorID
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning sensor row: %w", err)
		}
		sensors = append(sensors, id)
	}
	return sensors, rows.Err()
}

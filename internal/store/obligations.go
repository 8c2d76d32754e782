package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"leasewatch/internal/domain"
	"leasewatch/internal/schedule"
)

// Compile-time interface check.
var _ schedule.Provider = (*ScheduleProvider)(nil)

// WriteSchedule persists a building's full obligation table, replacing any
// existing rows.
func (d *DB) WriteSchedule(ctx context.Context, building domain.BuildingID, s schedule.Schedule) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("refusing to write invalid schedule for building %d: %w", building, err)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning schedule tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM lease_obligations WHERE building_id = ?`, building); err != nil {
		return fmt.Errorf("clearing schedule for building %d: %w", building, err)
	}

	for dow, day := range s {
		operating := 0
		if day.Operating {
			operating = 1
		}
		var lower, upper sql.NullFloat64
		var start, end sql.NullInt64
		if day.Operating {
			lower = sql.NullFloat64{Float64: *day.LowerTemp, Valid: true}
			upper = sql.NullFloat64{Float64: *day.UpperTemp, Valid: true}
			start = sql.NullInt64{Int64: int64(*day.StartHour), Valid: true}
			end = sql.NullInt64{Int64: int64(*day.EndHour), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO lease_obligations
			 (building_id, dow, operating, lower_temp, upper_temp, start_hour, end_hour, timezone)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			building, dow, operating, lower, upper, start, end, day.Timezone); err != nil {
			return fmt.Errorf("inserting obligation dow %d: %w", dow, err)
		}
	}

	return tx.Commit()
}

// ReadSchedule loads a building's obligation table. found is false when the
// building has no rows at all.
func (d *DB) ReadSchedule(ctx context.Context, building domain.BuildingID) (schedule.Schedule, bool, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT dow, operating, lower_temp, upper_temp, start_hour, end_hour, timezone
		 FROM lease_obligations WHERE building_id = ? ORDER BY dow`,
		building)
	if err != nil {
		return schedule.Schedule{}, false, fmt.Errorf("querying schedule for building %d: %w", building, err)
	}
	defer rows.Close()

	var s schedule.Schedule
	seen := 0
	for rows.Next() {
		var dow, operating int
		var lower, upper sql.NullFloat64
		var start, end sql.NullInt64
		var tz string
		if err := rows.Scan(&dow, &operating, &lower, &upper, &start, &end, &tz); err != nil {
			return schedule.Schedule{}, false, fmt.Errorf("scanning obligation row: %w", err)
		}
		if dow < 0 || dow > 6 {
			return schedule.Schedule{}, false, &domain.ConfigurationError{
				Building: building,
				Reason:   fmt.Sprintf("day of week %d out of range", dow),
			}
		}
		day := schedule.DaySchedule{Operating: operating != 0, Timezone: tz}
		if day.Operating {
			if !lower.Valid || !upper.Valid || !start.Valid || !end.Valid {
				return schedule.Schedule{}, false, &domain.ConfigurationError{
					Building: building,
					Reason:   fmt.Sprintf("operating day %d missing band or hours", dow),
				}
			}
			lo, hi := lower.Float64, upper.Float64
			st, en := int(start.Int64), int(end.Int64)
			day.LowerTemp, day.UpperTemp = &lo, &hi
			day.StartHour, day.EndHour = &st, &en
		}
		s[dow] = day
		seen++
	}
	if err := rows.Err(); err != nil {
		return schedule.Schedule{}, false, fmt.Errorf("iterating obligation rows: %w", err)
	}
	if seen == 0 {
		return schedule.Schedule{}, false, nil
	}
	if seen != 7 {
		return schedule.Schedule{}, false, &domain.ConfigurationError{
			Building: building,
			Reason:   fmt.Sprintf("expected 7 obligation rows, found %d", seen),
		}
	}
	return s, true, nil
}

// ---------------------------------------------------------------------------
// ScheduleProvider
// ---------------------------------------------------------------------------

// ScheduleProvider implements schedule.Provider over the sensor database.
// When the database has no schedule for a building it fails with a
// ConfigurationError, unless a fallback schedule was configured, in which
// case the fallback is returned and the substitution logged.
type ScheduleProvider struct {
	db       *DB
	fallback *schedule.Schedule
	log      *slog.Logger
}

// NewScheduleProvider creates a provider over the given database.
func NewScheduleProvider(db *DB) *ScheduleProvider {
	return &ScheduleProvider{
		db:  db,
		log: slog.Default().With("component", "schedule-provider"),
	}
}

// WithFallback configures the schedule returned for buildings that have no
// rows in the database. The fallback is explicit and observable, never a
// silent default.
func (p *ScheduleProvider) WithFallback(s schedule.Schedule) *ScheduleProvider {
	p.fallback = &s
	return p
}

// Load returns the building's schedule from the database, validated.
func (p *ScheduleProvider) Load(ctx context.Context, building domain.BuildingID) (schedule.Schedule, error) {
	s, found, err := p.db.ReadSchedule(ctx, building)
	if err != nil {
		return schedule.Schedule{}, err
	}
	if !found {
		if p.fallback == nil {
			return schedule.Schedule{}, &domain.ConfigurationError{
				Building: building,
				Reason:   "no lease obligation rows",
			}
		}
		p.log.Warn("no schedule in database, using configured default",
			"building", building)
		return *p.fallback, nil
	}
	if err := s.Validate(); err != nil {
		return schedule.Schedule{}, &domain.ConfigurationError{
			Building: building,
			Reason:   err.Error(),
		}
	}
	return s, nil
}

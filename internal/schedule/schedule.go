// Package schedule models per-building lease obligation schedules: for each
// day of week, whether the building operates and, if so, the required
// temperature band, the local operating hours, and the timezone those hours
// are expressed in.
package schedule

import (
	"context"
	"fmt"
	"time"

	"leasewatch/internal/domain"
	"leasewatch/internal/util"
)

// DaySchedule is the obligation entry for a single day of week. The pointer
// fields are nil on non-operating days.
type DaySchedule struct {
	Operating bool
	LowerTemp *float64
	UpperTemp *float64
	// StartHour and EndHour are local wall-clock hours, 0-24, start < end.
	StartHour *int
	EndHour   *int
	// Timezone is the IANA zone the operating hours are local to.
	Timezone string
}

// Schedule is a building's full obligation table, indexed by day of week
// with Monday=0 and Sunday=6. Immutable once loaded.
type Schedule [7]DaySchedule

// Provider loads the obligation schedule for a building.
type Provider interface {
	// Load returns the schedule for the building, or a
	// domain.ConfigurationError when no schedule exists for it.
	Load(ctx context.Context, building domain.BuildingID) (Schedule, error)
}

// DefaultSchedule returns the portfolio-default obligation table: operating
// Monday through Friday, 70-75°F, hours 9-18 in America/New_York, closed on
// weekends.
func DefaultSchedule() Schedule {
	lower, upper := 70.0, 75.0
	start, end := 9, 18

	var s Schedule
	for dow := 0; dow < 5; dow++ {
		s[dow] = DaySchedule{
			Operating: true,
			LowerTemp: &lower,
			UpperTemp: &upper,
			StartHour: &start,
			EndHour:   &end,
			Timezone:  "America/New_York",
		}
	}
	for dow := 5; dow < 7; dow++ {
		s[dow] = DaySchedule{Timezone: "America/New_York"}
	}
	return s
}

// Validate checks the schedule's internal consistency: operating days carry
// a well-formed band, hours, and zone; non-operating days carry none.
func (s Schedule) Validate() error {
	for dow, day := range s {
		if !day.Operating {
			if day.LowerTemp != nil || day.UpperTemp != nil || day.StartHour != nil || day.EndHour != nil {
				return fmt.Errorf("dow %d: non-operating day has operating fields set", dow)
			}
			continue
		}
		if day.LowerTemp == nil || day.UpperTemp == nil || day.StartHour == nil || day.EndHour == nil {
			return fmt.Errorf("dow %d: operating day missing band or hours", dow)
		}
		if *day.LowerTemp > *day.UpperTemp {
			return fmt.Errorf("dow %d: lower temp %.1f above upper %.1f", dow, *day.LowerTemp, *day.UpperTemp)
		}
		if *day.StartHour < 0 || *day.StartHour > 23 || *day.EndHour > 24 || *day.StartHour >= *day.EndHour {
			return fmt.Errorf("dow %d: invalid operating hours %d-%d", dow, *day.StartHour, *day.EndHour)
		}
		if _, err := time.LoadLocation(day.Timezone); err != nil {
			return fmt.Errorf("dow %d: bad timezone %q: %w", dow, day.Timezone, err)
		}
	}
	return nil
}

// ForDate returns the schedule entry for the given date's day of week.
func (s Schedule) ForDate(date string) (DaySchedule, error) {
	t, err := util.ParseDate(date)
	if err != nil {
		return DaySchedule{}, err
	}
	return s[util.WeekdayMon0(t)], nil
}

// TempRange returns the obligation temperature band for the given date.
// ok is false on non-operating days, where the band is undefined.
func (s Schedule) TempRange(date string) (lower, upper float64, ok bool, err error) {
	day, err := s.ForDate(date)
	if err != nil {
		return 0, 0, false, err
	}
	if !day.Operating {
		return 0, 0, false, nil
	}
	return *day.LowerTemp, *day.UpperTemp, true, nil
}

// OperatingPeriodUTC returns the obligation operating window for the given
// date converted to UTC. The conversion goes through the schedule's local
// zone, so it is correct on both sides of a daylight-saving transition.
// ok is false on non-operating days.
func (s Schedule) OperatingPeriodUTC(date string) (start, end time.Time, ok bool, err error) {
	t, err := util.ParseDate(date)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	day := s[util.WeekdayMon0(t)]
	if !day.Operating {
		return time.Time{}, time.Time{}, false, nil
	}

	loc, err := time.LoadLocation(day.Timezone)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("loading zone %q: %w", day.Timezone, err)
	}

	localStart := time.Date(t.Year(), t.Month(), t.Day(), *day.StartHour, 0, 0, 0, loc)
	localEnd := time.Date(t.Year(), t.Month(), t.Day(), *day.EndHour, 0, 0, 0, loc)
	return localStart.UTC(), localEnd.UTC(), true, nil
}

// ---------------------------------------------------------------------------
// StaticProvider
// ---------------------------------------------------------------------------

// Compile-time interface check.
var _ Provider = (*StaticProvider)(nil)

// StaticProvider serves a fixed schedule table for every building. Used in
// tests and as the explicit default-schedule fallback.
type StaticProvider struct {
	schedule Schedule
}

// NewStaticProvider creates a StaticProvider serving the given schedule.
func NewStaticProvider(s Schedule) *StaticProvider {
	return &StaticProvider{schedule: s}
}

// Load returns the static schedule regardless of building.
func (p *StaticProvider) Load(_ context.Context, _ domain.BuildingID) (Schedule, error) {
	return p.schedule, nil
}

// Package fetch defines the sensor-reading Fetcher boundary: given a
// building and a date or timestamp range, it produces a time-indexed
// SensorMatrix of qualifying readings.
package fetch

import (
	"context"
	"time"

	"leasewatch/internal/domain"
	"leasewatch/internal/util"
)

// Fetcher retrieves a building's temperature readings as a SensorMatrix.
// start and end accept either a pure calendar date ("2006-01-02") or a full
// timestamp. An empty window is a valid empty matrix, not an error; an
// unreachable source is a domain.DataUnavailableError.
type Fetcher interface {
	Fetch(ctx context.Context, building domain.BuildingID, start, end string) (domain.SensorMatrix, error)
}

// Window converts a start/end pair of date-or-timestamp strings into a
// concrete inclusive [from, to] range in UTC.
//
// Convention: a pure date on the start side expands to 00:00:00 of that day
// and on the end side to 23:59:59; full timestamps are taken exactly. When
// start == end as pure dates the window is that entire day.
func Window(start, end string) (from, to time.Time, err error) {
	// A pure start date already parses to midnight, so only the end side
	// needs expanding.
	from, _, err = util.ParseDateOrTime(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, pureTo, err := util.ParseDateOrTime(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if pureTo {
		to = to.Add(24*time.Hour - time.Second)
	}
	return from, to, nil
}

package fetch

import (
	"context"
	"log/slog"

	"leasewatch/internal/domain"
	"leasewatch/internal/store"
)

// Compile-time interface check.
var _ Fetcher = (*SQLiteFetcher)(nil)

// SQLiteFetcher fetches readings from the SQLite sensor database. Ignored
// sensors and flagged-bad readings are filtered by the query itself.
type SQLiteFetcher struct {
	db  *store.DB
	log *slog.Logger
}

// NewSQLiteFetcher creates a fetcher over the given database.
func NewSQLiteFetcher(db *store.DB) *SQLiteFetcher {
	return &SQLiteFetcher{
		db:  db,
		log: slog.Default().With("component", "sqlite-fetcher"),
	}
}

// Fetch returns a matrix of the building's qualifying readings in the
// window. An empty window yields an empty matrix and nil error; a query
// failure is wrapped as DataUnavailableError.
func (f *SQLiteFetcher) Fetch(ctx context.Context, building domain.BuildingID, start, end string) (domain.SensorMatrix, error) {
	from, to, err := Window(start, end)
	if err != nil {
		return domain.SensorMatrix{}, err
	}

	readings, err := f.db.ReadReadings(ctx, building, from, to)
	if err != nil {
		return domain.SensorMatrix{}, &domain.DataUnavailableError{Building: building, Err: err}
	}

	m := domain.NewSensorMatrix(readings)
	f.log.Debug("fetched readings",
		"building", building,
		"from", from,
		"to", to,
		"rows", m.Rows(),
		"sensors", len(m.Sensors),
	)
	return m, nil
}

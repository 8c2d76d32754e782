package fetch

import (
	"context"
	"log/slog"

	"leasewatch/internal/archive"
	"leasewatch/internal/domain"
)

// Compile-time interface check.
var _ Fetcher = (*ArchiveFetcher)(nil)

// ArchiveFetcher fetches readings from the on-disk Parquet archive. Same
// contract as the SQLite fetcher; useful when running against an exported
// archive with no database around.
type ArchiveFetcher struct {
	store *archive.Store
	log   *slog.Logger
}

// NewArchiveFetcher creates a fetcher over the given archive store.
func NewArchiveFetcher(s *archive.Store) *ArchiveFetcher {
	return &ArchiveFetcher{
		store: s,
		log:   slog.Default().With("component", "archive-fetcher"),
	}
}

// Fetch returns a matrix of the building's qualifying archived readings in
// the window.
func (f *ArchiveFetcher) Fetch(ctx context.Context, building domain.BuildingID, start, end string) (domain.SensorMatrix, error) {
	from, to, err := Window(start, end)
	if err != nil {
		return domain.SensorMatrix{}, err
	}

	readings, err := f.store.ReadReadings(ctx, building, from, to)
	if err != nil {
		return domain.SensorMatrix{}, &domain.DataUnavailableError{Building: building, Err: err}
	}

	m := domain.NewSensorMatrix(readings)
	f.log.Debug("fetched archived readings",
		"building", building,
		"from", from,
		"to", to,
		"rows", m.Rows(),
	)
	return m, nil
}

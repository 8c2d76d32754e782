// Package estimate implements the lease satisfied-time estimation core: the
// operating-day classifier, the satisfaction-time scanner, and the Estimator
// facade that binds them to a building.
package estimate

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"leasewatch/internal/domain"
)

// Scanner is the swappable aggregation strategy: given a day's matrix, a
// sensor selection, and an inclusive temperature band, it finds the first
// timestamp whose aggregate lies within the band. Implementations must be
// pure and deterministic over already-fetched data.
type Scanner interface {
	// Name returns the unique identifier for this scanner.
	Name() string

	// FirstSatisfiedTime returns the earliest qualifying timestamp. ok is
	// false when no row qualifies or the matrix is empty; the zero time is
	// never a valid result.
	FirstSatisfiedTime(m domain.SensorMatrix, sel domain.SensorSelection, lower, upper float64) (t time.Time, ok bool)
}

// Compile-time interface check.
var _ Scanner = (*MeanBandScanner)(nil)

// MeanBandScanner aggregates the selected sensors with a per-row arithmetic
// mean and scans rows in ascending timestamp order for the first mean within
// [lower, upper].
type MeanBandScanner struct {
	log *slog.Logger
}

// NewMeanBandScanner creates the default scanner.
func NewMeanBandScanner() *MeanBandScanner {
	return &MeanBandScanner{
		log: slog.Default().With("scanner", "mean-band"),
	}
}

// Name returns the scanner identifier.
func (s *MeanBandScanner) Name() string { return "mean-band" }

// FirstSatisfiedTime scans the matrix for the first in-band row mean.
//
// The selection is restricted to the columns actually present in the matrix.
// When that intersection is empty (including the no-selection case) the
// scanner falls back to all columns; aggregating over zero sensors would
// produce NaN for every row and must never read as "satisfied". The
// fallback is logged, not silent. Rows whose every selected cell is missing
// yield a NaN mean and are excluded from matching.
func (s *MeanBandScanner) FirstSatisfiedTime(m domain.SensorMatrix, sel domain.SensorSelection, lower, upper float64) (time.Time, bool) {
	if m.Empty() {
		return time.Time{}, false
	}

	cols := sel.Restrict(m)
	if len(cols) == 0 {
		if len(sel) > 0 {
			s.log.Warn("sensor selection has no overlap with fetched columns, using all sensors",
				"selection", []domain.SensorID(sel),
				"columns", m.Sensors,
			)
		}
		cols = m.Sensors
	}

	for row := 0; row < m.Rows(); row++ {
		mean := m.RowMean(row, cols)
		if math.IsNaN(mean) {
			continue
		}
		if mean >= lower && mean <= upper {
			return m.Times[row], true
		}
	}
	return time.Time{}, false
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

// Registry holds a named collection of scanners so alternative aggregation
// strategies can be selected by configuration.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry creates an empty scanner Registry.
func NewRegistry() *Registry {
	return &Registry{
		scanners: make(map[string]Scanner),
	}
}

// Register adds a scanner to the registry, keyed by its Name().
func (r *Registry) Register(s Scanner) {
	r.scanners[s.Name()] = s
}

// Get retrieves a scanner by name. The second return value indicates whether
// the scanner was found.
func (r *Registry) Get(name string) (Scanner, bool) {
	s, ok := r.scanners[name]
	return s, ok
}

// List returns a sorted slice of all registered scanner names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scanners))
	for name := range r.scanners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

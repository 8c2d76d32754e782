// Package domain defines the core types shared across the leasewatch
// system: sensor readings, the time-indexed sensor matrix, sensor
// selections, and estimation results.
package domain

import (
	"math"
	"sort"
	"time"
)

// BuildingID identifies a building in the portfolio.
type BuildingID = int

// SensorID identifies an internal temperature sensor.
type SensorID = int

// Reading is a single raw temperature sample from one sensor.
type Reading struct {
	BuildingID BuildingID
	SensorID   SensorID
	Timestamp  time.Time
	Value      float64
	// Flagged marks a reading the upstream source considers bad. Flagged
	// readings are excluded before a matrix is built.
	Flagged bool
}

// ---------------------------------------------------------------------------
// SensorMatrix
// ---------------------------------------------------------------------------

// SensorMatrix is a time-indexed table of temperature readings. Rows are
// distinct, strictly increasing timestamps; columns are sensor IDs. A cell
// holds NaN when the sensor has no reading at that timestamp. Matrices are
// built fresh per query and treated as read-only afterwards.
type SensorMatrix struct {
	Times   []time.Time
	Sensors []SensorID
	// Values is rows × sensors, aligned with Times and Sensors.
	Values [][]float64

	colIndex map[SensorID]int
}

// NewSensorMatrix aligns raw readings into a SensorMatrix. Flagged readings
// are dropped. Duplicate (sensor, timestamp) pairs keep the last value seen.
func NewSensorMatrix(readings []Reading) SensorMatrix {
	timeSet := make(map[int64]time.Time)
	sensorSet := make(map[SensorID]struct{})
	cells := make(map[int64]map[SensorID]float64)

	for _, r := range readings {
		if r.Flagged {
			continue
		}
		key := r.Timestamp.UTC().UnixNano()
		timeSet[key] = r.Timestamp.UTC()
		sensorSet[r.SensorID] = struct{}{}
		row, ok := cells[key]
		if !ok {
			row = make(map[SensorID]float64)
			cells[key] = row
		}
		row[r.SensorID] = r.Value
	}

	m := SensorMatrix{
		Times:   make([]time.Time, 0, len(timeSet)),
		Sensors: make([]SensorID, 0, len(sensorSet)),
	}
	for _, t := range timeSet {
		m.Times = append(m.Times, t)
	}
	sort.Slice(m.Times, func(i, j int) bool { return m.Times[i].Before(m.Times[j]) })
	for id := range sensorSet {
		m.Sensors = append(m.Sensors, id)
	}
	sort.Ints(m.Sensors)

	m.colIndex = make(map[SensorID]int, len(m.Sensors))
	for i, id := range m.Sensors {
		m.colIndex[id] = i
	}

	m.Values = make([][]float64, len(m.Times))
	for i, t := range m.Times {
		row := make([]float64, len(m.Sensors))
		for j := range row {
			row[j] = math.NaN()
		}
		for id, v := range cells[t.UnixNano()] {
			row[m.colIndex[id]] = v
		}
		m.Values[i] = row
	}
	return m
}

// Rows returns the number of timestamps in the matrix.
func (m SensorMatrix) Rows() int { return len(m.Times) }

// Empty reports whether the matrix holds no rows.
func (m SensorMatrix) Empty() bool { return len(m.Times) == 0 }

// HasSensor reports whether the matrix has a column for the given sensor.
func (m SensorMatrix) HasSensor(id SensorID) bool {
	_, ok := m.colIndex[id]
	return ok
}

// At returns the value for the given row and sensor. NaN means missing.
func (m SensorMatrix) At(row int, id SensorID) float64 {
	col, ok := m.colIndex[id]
	if !ok {
		return math.NaN()
	}
	return m.Values[row][col]
}

// RowMean computes the arithmetic mean of the non-missing values in the
// given row, restricted to the given sensors. It returns NaN when every
// restricted cell is missing.
func (m SensorMatrix) RowMean(row int, sensors []SensorID) float64 {
	var sum float64
	var n int
	for _, id := range sensors {
		col, ok := m.colIndex[id]
		if !ok {
			continue
		}
		v := m.Values[row][col]
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// ---------------------------------------------------------------------------
// SensorSelection
// ---------------------------------------------------------------------------

// SensorSelection is a curated set of sensor IDs considered reliable for
// aggregation. A nil or empty selection means "use all columns".
type SensorSelection []SensorID

// Restrict returns the selection intersected with the matrix's columns, in
// sorted order. The result may be empty.
func (s SensorSelection) Restrict(m SensorMatrix) []SensorID {
	var out []SensorID
	for _, id := range s {
		if m.HasSensor(id) {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

// ---------------------------------------------------------------------------
// Estimation results
// ---------------------------------------------------------------------------

// OperatingStatus is the tri-state operating-day classification. Unknown is
// distinct from No: it means the classifier could not determine status.
type OperatingStatus int

const (
	OperatingUnknown OperatingStatus = iota
	OperatingNo
	OperatingYes
)

// String renders the status for logs and reports.
func (s OperatingStatus) String() string {
	switch s {
	case OperatingYes:
		return "true"
	case OperatingNo:
		return "false"
	default:
		return "unknown"
	}
}

// EstimationResult is the outcome of one (building, date) estimation.
// SatisfiedAt is non-nil only when Operating is OperatingYes and a
// qualifying timestamp exists.
type EstimationResult struct {
	Building    BuildingID
	Date        string
	Operating   OperatingStatus
	SatisfiedAt *time.Time
}

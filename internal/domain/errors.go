package domain

import "fmt"

// ConfigurationError indicates the obligation schedule for a building is
// missing or malformed. Fatal for that building's run; never retried.
type ConfigurationError struct {
	Building BuildingID
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("schedule configuration for building %d: %s", e.Building, e.Reason)
}

// DataUnavailableError indicates the underlying sensor data source was
// unreachable. Distinct from an empty query result, which is not an error.
type DataUnavailableError struct {
	Building BuildingID
	Err      error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("sensor data unavailable for building %d: %v", e.Building, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// AmbiguousClassificationError indicates the classifier could not determine
// operating-day status. Surfaces as OperatingUnknown, never coerced to
// "not operating".
type AmbiguousClassificationError struct {
	Building BuildingID
	Date     string
	Reason   string
}

func (e *AmbiguousClassificationError) Error() string {
	return fmt.Sprintf("cannot classify building %d on %s: %s", e.Building, e.Date, e.Reason)
}

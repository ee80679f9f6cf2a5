package search

import (
	"errors"
	"fmt"

	"github.com/hupe1980/tunegrid/param"
)

var (
	// ErrSnapshotUnsupported is returned when the base configuration requests
	// snapshotting; a parameter search cannot be persisted or resumed.
	ErrSnapshotUnsupported = errors.New("snapshots are not supported for parameter search")

	// ErrMissingData is returned when a request carries no dataset.
	ErrMissingData = errors.New("missing dataset")

	// ErrMissingGrid is returned when a request carries no grid.
	ErrMissingGrid = errors.New("at least one parameter grid required")
)

// InvalidParameterError indicates a grid or base configuration value that
// cannot be parsed or is out of range for its parameter. The whole search
// aborts; no partial best is returned.
type InvalidParameterError struct {
	Name  string
	Value param.Value
	cause error
}

func (e *InvalidParameterError) Error() string {
	msg := fmt.Sprintf("cannot parse parameter %q with value %s", e.Name, e.Value)
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *InvalidParameterError) Unwrap() error { return e.cause }

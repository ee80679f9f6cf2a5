package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrTooLarge is returned when the product of all dimension sizes cannot
	// be counted in 63 bits.
	ErrTooLarge = errors.New("parameter grid is too large, try to reduce it")

	// ErrNoDimensions is returned when a Spec declares no dimensions at all.
	ErrNoDimensions = errors.New("parameter grid has no dimensions")

	// ErrInvalidCount is returned when a randomized iterator is requested
	// with a zero sample count.
	ErrInvalidCount = errors.New("sample count must be a positive number")
)

// EmptyDimensionError indicates a dimension whose value set is empty.
type EmptyDimensionError struct {
	Name string
}

func (e *EmptyDimensionError) Error() string {
	return fmt.Sprintf("empty set of values for parameter %q", e.Name)
}

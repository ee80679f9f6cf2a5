package tunegrid

import (
	"errors"
	"fmt"

	"github.com/hupe1980/tunegrid/dataset"
	"github.com/hupe1980/tunegrid/grid"
	"github.com/hupe1980/tunegrid/metric"
	"github.com/hupe1980/tunegrid/search"
)

var (
	// ErrGridTooLarge is returned when the cartesian product of a grid does
	// not fit the iteration space.
	ErrGridTooLarge = errors.New("grid too large")

	// ErrInvalidSampleCount is returned when a randomized search is asked for
	// zero combinations.
	ErrInvalidSampleCount = errors.New("sample count must be positive")

	// ErrOrderedData is returned when an operation would destroy the row
	// order of an order-sensitive dataset.
	ErrOrderedData = errors.New("dataset is ordered")

	// ErrAmbiguousMetric is returned when the optimization direction of the
	// requested metric cannot be determined.
	ErrAmbiguousMetric = errors.New("ambiguous metric direction")

	// ErrSnapshotUnsupported is returned when a search requests snapshotting,
	// which searches do not support.
	ErrSnapshotUnsupported = errors.New("snapshots are not supported during search")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Grid shape normalization.
	if errors.Is(err, grid.ErrTooLarge) {
		return fmt.Errorf("%w: %w", ErrGridTooLarge, err)
	}
	if errors.Is(err, grid.ErrInvalidCount) {
		return fmt.Errorf("%w: %w", ErrInvalidSampleCount, err)
	}

	// Dataset and request normalization.
	if errors.Is(err, dataset.ErrOrdered) {
		return fmt.Errorf("%w: %w", ErrOrderedData, err)
	}
	if errors.Is(err, search.ErrSnapshotUnsupported) {
		return fmt.Errorf("%w: %w", ErrSnapshotUnsupported, err)
	}
	var ad *metric.AmbiguousDirectionError
	if errors.As(err, &ad) {
		return fmt.Errorf("%w: %w", ErrAmbiguousMetric, err)
	}

	// Typed errors (EmptyDimensionError, InvalidParameterError,
	// UnknownGeneratorError, ...) pass through unchanged.
	return err
}

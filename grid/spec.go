package grid

import (
	"math"

	"github.com/hupe1980/tunegrid/param"
)

// Dimension is one tunable axis of a search space: a name and the ordered set
// of candidate values.
type Dimension struct {
	Name   string
	Values param.ValueSet
}

// Spec is an ordered list of dimensions. By convention dimensions 0-2 hold
// the quantization-affecting parameters (bin count, border type, NaN mode)
// followed by the free-form model hyperparameters; the iterator itself does
// not care.
//
// A Spec is read-only to the iteration engine and may be shared.
type Spec struct {
	Dimensions []Dimension
}

// NumDimensions returns the number of dimensions.
func (s *Spec) NumDimensions() int { return len(s.Dimensions) }

// validate checks the iterator construction contract: at least one dimension,
// no empty value sets, and a total combination count representable in 63 bits.
// It returns the total count.
func (s *Spec) validate() (uint64, error) {
	if len(s.Dimensions) == 0 {
		return 0, ErrNoDimensions
	}

	var total uint64 = 1
	var logTotal float64
	for _, dim := range s.Dimensions {
		if len(dim.Values) == 0 {
			return 0, &EmptyDimensionError{Name: dim.Name}
		}
		logTotal += math.Log2(float64(len(dim.Values)))
		if logTotal >= 63 {
			return 0, ErrTooLarge
		}
		total *= uint64(len(dim.Values))
	}
	return total, nil
}

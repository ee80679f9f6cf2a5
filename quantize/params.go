// Package quantize provides feature discretization for hyperparameter search:
// the quantization-affecting parameter triple, a default binning quantizer,
// and the cache that avoids re-quantizing a dataset when the triple did not
// change between trials.
package quantize

import "fmt"

// BorderType selects how bin borders are placed.
type BorderType uint8

const (
	// BorderMedian places borders at value quantiles.
	BorderMedian BorderType = iota
	// BorderUniform places borders evenly between the minimum and maximum
	// value.
	BorderUniform
	// BorderUniformAndQuantiles mixes uniform and quantile borders.
	BorderUniformAndQuantiles
	// BorderMaxLogSum maximizes the log-sum of bin weights.
	BorderMaxLogSum
	// BorderMinEntropy minimizes in-bin entropy.
	BorderMinEntropy
	// BorderGreedyLogSum greedily maximizes the log-sum of bin weights.
	BorderGreedyLogSum
)

var borderTypeNames = map[BorderType]string{
	BorderMedian:              "Median",
	BorderUniform:             "Uniform",
	BorderUniformAndQuantiles: "UniformAndQuantiles",
	BorderMaxLogSum:           "MaxLogSum",
	BorderMinEntropy:          "MinEntropy",
	BorderGreedyLogSum:        "GreedyLogSum",
}

// String returns the canonical name of the border type.
func (b BorderType) String() string {
	if s, ok := borderTypeNames[b]; ok {
		return s
	}
	return fmt.Sprintf("BorderType(%d)", uint8(b))
}

// ParseBorderType parses a canonical border type name.
func ParseBorderType(s string) (BorderType, error) {
	for b, name := range borderTypeNames {
		if name == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown feature border type %q", s)
}

// NaNMode selects how NaN feature values are binned.
type NaNMode uint8

const (
	// NaNMin treats NaN as smaller than every other value.
	NaNMin NaNMode = iota
	// NaNMax treats NaN as larger than every other value.
	NaNMax
	// NaNForbidden rejects data containing NaN values.
	NaNForbidden
)

var nanModeNames = map[NaNMode]string{
	NaNMin:       "Min",
	NaNMax:       "Max",
	NaNForbidden: "Forbidden",
}

// String returns the canonical name of the NaN mode.
func (n NaNMode) String() string {
	if s, ok := nanModeNames[n]; ok {
		return s
	}
	return fmt.Sprintf("NaNMode(%d)", uint8(n))
}

// ParseNaNMode parses a canonical NaN mode name.
func ParseNaNMode(s string) (NaNMode, error) {
	for n, name := range nanModeNames {
		if name == s {
			return n, nil
		}
	}
	return 0, fmt.Errorf("unknown nan mode %q", s)
}

// Params is the snapshot of quantization-affecting values for one trial.
// Params is comparable; two snapshots are equal iff all three fields match.
type Params struct {
	BinCount   int
	BorderType BorderType
	NaNMode    NaNMode
}

// DefaultParams returns the quantization settings used when a search grid
// does not vary them.
func DefaultParams() Params {
	return Params{
		BinCount:   254,
		BorderType: BorderGreedyLogSum,
		NaNMode:    NaNMin,
	}
}

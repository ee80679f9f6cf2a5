package grid

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tunegrid/param"
)

func tuningSpec() *Spec {
	return &Spec{Dimensions: []Dimension{
		{Name: "border_count", Values: param.Values(param.Int(32), param.Int(64))},
		{Name: "feature_border_type", Values: param.Values(param.String("Uniform"))},
		{Name: "nan_mode", Values: param.Values(param.String("Min"))},
		{Name: "depth", Values: param.Values(param.Int(4), param.Int(6), param.Int(8))},
	}}
}

// drain collects all combinations, copying each buffer view.
func drain(t *testing.T, it *Iterator) [][]param.Value {
	t.Helper()
	var out [][]param.Value
	for {
		combo, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, append([]param.Value(nil), combo...))
	}
	return out
}

func TestCartesianOrder(t *testing.T) {
	it, err := Cartesian(tuningSpec())
	require.NoError(t, err)
	assert.Equal(t, uint64(6), it.Total())

	combos := drain(t, it)
	require.Len(t, combos, 6)

	// Last dimension varies fastest.
	want := [][]param.Value{
		{param.Int(32), param.String("Uniform"), param.String("Min"), param.Int(4)},
		{param.Int(32), param.String("Uniform"), param.String("Min"), param.Int(6)},
		{param.Int(32), param.String("Uniform"), param.String("Min"), param.Int(8)},
		{param.Int(64), param.String("Uniform"), param.String("Min"), param.Int(4)},
		{param.Int(64), param.String("Uniform"), param.String("Min"), param.Int(6)},
		{param.Int(64), param.String("Uniform"), param.String("Min"), param.Int(8)},
	}
	assert.Equal(t, want, combos)

	// Exhaustion is terminal.
	for i := 0; i < 3; i++ {
		_, ok := it.Next()
		assert.False(t, ok)
	}
}

func TestCartesianSingleCombination(t *testing.T) {
	it, err := Cartesian(&Spec{Dimensions: []Dimension{
		{Name: "depth", Values: param.Values(param.Int(6))},
	}})
	require.NoError(t, err)

	combos := drain(t, it)
	require.Len(t, combos, 1)
	assert.Equal(t, param.Int(6), combos[0][0])
}

func TestRandomizedDistinctAndOrdered(t *testing.T) {
	full, err := Cartesian(tuningSpec())
	require.NoError(t, err)
	all := drain(t, full)

	it, err := Randomized(tuningSpec(), 3, false, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), it.Total())

	combos := drain(t, it)
	require.Len(t, combos, 3)

	// Sampled combinations appear in ascending enumeration order, without
	// duplicates: their positions in the full enumeration strictly increase.
	pos := -1
	for _, combo := range combos {
		found := -1
		for i, c := range all {
			if assert.ObjectsAreEqual(c, combo) {
				found = i
				break
			}
		}
		require.GreaterOrEqual(t, found, 0, "sampled combination not in grid")
		assert.Greater(t, found, pos, "sampled combinations out of order or repeated")
		pos = found
	}
}

func TestRandomizedDeterministicUnderSeed(t *testing.T) {
	first, err := Randomized(tuningSpec(), 3, false, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	second, err := Randomized(tuningSpec(), 3, false, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	assert.Equal(t, drain(t, first), drain(t, second))
}

func TestRandomizedClampsToGridSize(t *testing.T) {
	it, err := Randomized(tuningSpec(), 100, false, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, uint64(6), it.Total())

	combos := drain(t, it)
	assert.Len(t, combos, 6)
}

func TestRandomizedShuffleBranch(t *testing.T) {
	// 5 of 6 samples crosses the dense-sampling threshold.
	it, err := Randomized(tuningSpec(), 5, false, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	combos := drain(t, it)
	require.Len(t, combos, 5)
	for i := 1; i < len(combos); i++ {
		assert.NotEqual(t, combos[i-1], combos[i])
	}
}

func TestRandomizedWithRepeats(t *testing.T) {
	spec := &Spec{Dimensions: []Dimension{
		{Name: "depth", Values: param.Values(param.Int(4), param.Int(6))},
	}}
	it, err := Randomized(spec, 10, true, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	assert.Equal(t, uint64(10), it.Total())

	combos := drain(t, it)
	require.Len(t, combos, 10)
	for _, combo := range combos {
		assert.Contains(t, []param.Value{param.Int(4), param.Int(6)}, combo[0])
	}
}

func TestRandomizedZeroCount(t *testing.T) {
	_, err := Randomized(tuningSpec(), 0, false, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestSpecValidation(t *testing.T) {
	t.Run("NoDimensions", func(t *testing.T) {
		_, err := Cartesian(&Spec{})
		assert.ErrorIs(t, err, ErrNoDimensions)
	})

	t.Run("EmptyDimension", func(t *testing.T) {
		_, err := Cartesian(&Spec{Dimensions: []Dimension{
			{Name: "depth", Values: nil},
		}})
		var ed *EmptyDimensionError
		require.True(t, errors.As(err, &ed))
		assert.Equal(t, "depth", ed.Name)
	})

	t.Run("TooLarge", func(t *testing.T) {
		dims := make([]Dimension, 63)
		for i := range dims {
			dims[i] = Dimension{Name: "d", Values: param.Values(param.Int(0), param.Int(1))}
		}
		_, err := Cartesian(&Spec{Dimensions: dims})
		assert.ErrorIs(t, err, ErrTooLarge)
	})
}

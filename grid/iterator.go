package grid

import (
	"math/rand"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/tunegrid/param"
)

// shuffleThreshold is the sampled fraction of the grid above which rejection
// sampling degenerates; past it the full index range is shuffled instead.
const shuffleThreshold = 0.7

// Iterator lazily produces combinations from a Spec as a mixed-radix counter:
// the last dimension varies fastest, dimension 0 is the most significant
// digit.
//
// An Iterator owns its cursor state and is not safe for concurrent use.
type Iterator struct {
	sets       []param.ValueSet
	multiIndex []int
	state      []param.Value
	passed     uint64
	total      uint64

	// Randomized mode only: precomputed flat offsets between successive
	// sampled combination indices, consumed in order.
	offsets   []uint64
	offsetIdx int
}

// Cartesian returns an iterator that enumerates every combination of spec
// exactly once, in ascending mixed-radix counting order.
func Cartesian(spec *Spec) (*Iterator, error) {
	return newIterator(spec)
}

// Randomized returns an iterator over count combinations of spec chosen at
// random. With allowRepeat false the sample is drawn without replacement and
// count is clamped to the grid size; with allowRepeat true the same
// combination index may occur more than once.
//
// The sampled combinations are returned sorted by underlying combination
// index, not in draw order. rng must not be nil for reproducible runs; a nil
// rng is seeded from the clock.
func Randomized(spec *Spec, count uint64, allowRepeat bool, rng *rand.Rand) (*Iterator, error) {
	it, err := newIterator(spec)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrInvalidCount
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	total := it.total
	if count > total && !allowRepeat {
		count = total
	}

	// Sampled combination indices, shifted by one so that the first offset
	// from the pre-start cursor position is always at least 1: index i+1
	// lands on combination i.
	var indexes []uint64
	if float64(count)/float64(total) > shuffleThreshold && !allowRepeat {
		indexes = make([]uint64, total)
		for i := range indexes {
			indexes[i] = uint64(i) + 1
		}
		rng.Shuffle(len(indexes), func(i, j int) {
			indexes[i], indexes[j] = indexes[j], indexes[i]
		})
		indexes = indexes[:count]
	} else {
		indexes = make([]uint64, 0, count)
		chosen := roaring64.New()
		for uint64(len(indexes)) != count {
			next := uint64(rng.Int63n(int64(total)))
			if !allowRepeat {
				for chosen.Contains(next) {
					next = uint64(rng.Int63n(int64(total)))
				}
				chosen.Add(next)
			}
			indexes = append(indexes, next+1)
		}
	}
	slices.Sort(indexes)

	it.offsets = make([]uint64, 0, len(indexes))
	var last uint64
	for _, index := range indexes {
		it.offsets = append(it.offsets, index-last)
		last = index
	}
	it.total = count
	return it, nil
}

func newIterator(spec *Spec) (*Iterator, error) {
	total, err := spec.validate()
	if err != nil {
		return nil, err
	}

	it := &Iterator{
		sets:       make([]param.ValueSet, len(spec.Dimensions)),
		multiIndex: make([]int, len(spec.Dimensions)),
		state:      make([]param.Value, len(spec.Dimensions)),
		total:      total,
	}
	for i, dim := range spec.Dimensions {
		it.sets[i] = dim.Values
		// Park every digit at its maximum so that the first advance by one
		// step carries through to the all-zero cursor.
		it.multiIndex[i] = len(dim.Values) - 1
		it.state[i] = dim.Values[0]
	}
	return it, nil
}

// Total returns the number of combinations the iterator will produce.
func (it *Iterator) Total() uint64 { return it.total }

// Next returns the next combination as one value per dimension, or false when
// the iterator is exhausted. Exhaustion is terminal: every later call keeps
// returning false.
//
// The returned slice is a view into the iterator's current-value buffer and
// is only valid until the next call to Next.
func (it *Iterator) Next() ([]param.Value, bool) {
	if it.passed >= it.total {
		return nil, false
	}
	it.passed++

	offset := uint64(1)
	if it.offsets != nil {
		offset = it.offsets[it.offsetIdx]
		it.offsetIdx++
	}
	return it.advance(offset), true
}

// advance moves the cursor forward by offset combinations and returns the
// current-value buffer. Carries propagate from the least significant (last)
// dimension upward; the most significant dimension wraps without a further
// carry, which is safe because total offsets never exceed the grid size.
func (it *Iterator) advance(offset uint64) []param.Value {
	for i := len(it.multiIndex) - 1; i > 0; i-- {
		size := uint64(len(it.sets[i]))
		old := uint64(it.multiIndex[i])
		it.multiIndex[i] = int((old + offset) % size)
		it.state[i] = it.sets[i][it.multiIndex[i]]

		if old+offset < size {
			return it.state
		}
		offset = (offset-(size-old))/size + 1
	}
	size := uint64(len(it.sets[0]))
	it.multiIndex[0] = int((uint64(it.multiIndex[0]) + offset) % size)
	it.state[0] = it.sets[0][it.multiIndex[0]]
	return it.state
}

package quantize

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/hupe1980/tunegrid/dataset"
)

// Quantizer discretizes a dataset's feature columns into bins.
type Quantizer interface {
	Quantize(ctx context.Context, data *dataset.Dataset, params Params) (*Table, error)
}

// Table is a quantized dataset: per-feature bin borders plus one bin index
// per cell, with the target and grouping carried over from the source data.
// A Table is immutable once produced.
type Table struct {
	Params  Params
	Borders [][]float64
	Bins    [][]uint16
	Target  []float64

	fingerprint uint64
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.Target) }

// NumFeatures returns the number of quantized feature columns.
func (t *Table) NumFeatures() int { return len(t.Bins) }

// Fingerprint returns an xxhash digest of the quantization parameters and all
// bin borders. Two tables quantized the same way from the same data share a
// fingerprint, which makes cache reuse observable in logs and tests.
func (t *Table) Fingerprint() uint64 { return t.fingerprint }

// Subset extracts the given rows, in order, into a new table sharing the
// borders of the original.
func (t *Table) Subset(rows []int) *Table {
	bins := make([][]uint16, len(t.Bins))
	for c, col := range t.Bins {
		sub := make([]uint16, len(rows))
		for i, r := range rows {
			sub[i] = col[r]
		}
		bins[c] = sub
	}
	target := make([]float64, len(rows))
	for i, r := range rows {
		target[i] = t.Target[r]
	}
	return &Table{
		Params:      t.Params,
		Borders:     t.Borders,
		Bins:        bins,
		Target:      target,
		fingerprint: t.fingerprint,
	}
}

// BinQuantizer is the default Quantizer. Uniform borders are spaced evenly
// between the column minimum and maximum; every other border type is realized
// with quantile borders.
type BinQuantizer struct{}

// NewBinQuantizer returns the default binning quantizer.
func NewBinQuantizer() *BinQuantizer { return &BinQuantizer{} }

// Quantize implements Quantizer.
func (q *BinQuantizer) Quantize(_ context.Context, data *dataset.Dataset, params Params) (*Table, error) {
	if params.BinCount < 1 || params.BinCount > math.MaxUint16 {
		return nil, fmt.Errorf("bin count %d out of range [1, %d]", params.BinCount, math.MaxUint16)
	}

	t := &Table{
		Params:  params,
		Borders: make([][]float64, data.NumFeatures()),
		Bins:    make([][]uint16, data.NumFeatures()),
		Target:  data.Target(),
	}
	for c := 0; c < data.NumFeatures(); c++ {
		borders, err := columnBorders(data.Column(c), params)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", c, err)
		}
		t.Borders[c] = borders
		t.Bins[c] = binColumn(data.Column(c), borders, params.NaNMode)
	}

	t.fingerprint = fingerprint(params, t.Borders)
	return t, nil
}

// columnBorders computes at most binCount-1 ascending borders for one column.
func columnBorders(col []float64, params Params) ([]float64, error) {
	values := make([]float64, 0, len(col))
	for _, v := range col {
		if math.IsNaN(v) {
			if params.NaNMode == NaNForbidden {
				return nil, fmt.Errorf("nan value with nan mode %s", NaNForbidden)
			}
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, nil
	}
	sort.Float64s(values)

	if params.BorderType == BorderUniform {
		lo, hi := values[0], values[len(values)-1]
		if lo == hi {
			return nil, nil
		}
		borders := make([]float64, 0, params.BinCount-1)
		step := (hi - lo) / float64(params.BinCount)
		for i := 1; i < params.BinCount; i++ {
			borders = append(borders, lo+step*float64(i))
		}
		return borders, nil
	}

	// Quantile borders, deduplicated.
	borders := make([]float64, 0, params.BinCount-1)
	for i := 1; i < params.BinCount; i++ {
		q := values[len(values)*i/params.BinCount]
		if len(borders) == 0 || q > borders[len(borders)-1] {
			borders = append(borders, q)
		}
	}
	return borders, nil
}

// binColumn maps every value to the index of the first border above it. NaN
// values land in the first or last bin depending on the NaN mode.
func binColumn(col []float64, borders []float64, nanMode NaNMode) []uint16 {
	bins := make([]uint16, len(col))
	for i, v := range col {
		if math.IsNaN(v) {
			if nanMode == NaNMax {
				bins[i] = uint16(len(borders))
			}
			continue
		}
		bins[i] = uint16(sort.SearchFloat64s(borders, v))
	}
	return bins
}

func fingerprint(params Params, borders [][]float64) uint64 {
	h := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(params.BinCount))
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte{byte(params.BorderType), byte(params.NaNMode)})
	for _, col := range borders {
		for _, b := range col {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(b))
			_, _ = h.Write(buf[:])
		}
	}
	return h.Sum64()
}

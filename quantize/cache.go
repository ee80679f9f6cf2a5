package quantize

import (
	"context"

	"github.com/hupe1980/tunegrid/dataset"
)

// Cache holds the single quantized table of the current search and skips
// re-quantization while the quantization-affecting parameters stay unchanged.
//
// Re-quantizing is assumed to be far more expensive than one model fit, so
// search grids put the quantization dimensions first to maximize runs of
// cache hits; correctness does not depend on any particular trial order.
//
// A Cache is owned by a single search driver and is not safe for concurrent
// use.
type Cache struct {
	quantizer Quantizer
	last      Params
	table     *Table
}

// NewCache returns a cache that delegates actual quantization to q.
func NewCache(q Quantizer) *Cache {
	return &Cache{quantizer: q}
}

// MaybeRequantize returns a table quantized with params. If params equals the
// previous call's snapshot field for field, the cached table is returned
// unchanged and requantized is false; otherwise the dataset is re-quantized,
// the cached table replaced, and requantized is true.
func (c *Cache) MaybeRequantize(ctx context.Context, data *dataset.Dataset, params Params) (table *Table, requantized bool, err error) {
	if c.table != nil && c.last == params {
		return c.table, false, nil
	}

	t, err := c.quantizer.Quantize(ctx, data, params)
	if err != nil {
		return nil, false, err
	}
	c.table = t
	c.last = params
	return t, true, nil
}

// Package dataset provides the tabular data handle consumed by a
// hyperparameter search: column-major feature storage with an optional
// grouping of rows, plus the grouping-aware shuffle and train/test split
// operations the search driver relies on.
package dataset

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	// ErrOrdered is returned when a search protocol that reorders rows is
	// applied to a dataset declared as ordered.
	ErrOrdered = errors.New("params search for ordered objects data is not supported")

	// ErrNoRows is returned when a dataset is constructed without rows.
	ErrNoRows = errors.New("dataset has no rows")
)

// Dataset is an immutable in-memory table: one float64 column per feature,
// one target value per row, and an optional group ID per row. Rows sharing a
// group ID must stay together through shuffling and splitting.
type Dataset struct {
	columns [][]float64
	target  []float64
	groups  []uint64
	ordered bool
}

// Option configures dataset construction.
type Option func(*Dataset)

// WithGroups attaches a group ID to every row. Rows with equal consecutive
// IDs form one group.
func WithGroups(groups []uint64) Option {
	return func(d *Dataset) {
		d.groups = groups
	}
}

// WithOrdered marks the dataset as ordered. Ordered data cannot be shuffled
// or split by the search driver.
func WithOrdered() Option {
	return func(d *Dataset) {
		d.ordered = true
	}
}

// New builds a dataset from column-major features and a parallel target
// slice.
func New(columns [][]float64, target []float64, optFns ...Option) (*Dataset, error) {
	if len(target) == 0 {
		return nil, ErrNoRows
	}
	for i, col := range columns {
		if len(col) != len(target) {
			return nil, fmt.Errorf("column %d has %d rows, target has %d", i, len(col), len(target))
		}
	}

	d := &Dataset{columns: columns, target: target}
	for _, fn := range optFns {
		fn(d)
	}
	if d.groups != nil && len(d.groups) != len(target) {
		return nil, fmt.Errorf("groups have %d rows, target has %d", len(d.groups), len(target))
	}
	return d, nil
}

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int { return len(d.target) }

// NumFeatures returns the number of feature columns.
func (d *Dataset) NumFeatures() int { return len(d.columns) }

// Column returns the i-th feature column. The returned slice must not be
// mutated.
func (d *Dataset) Column(i int) []float64 { return d.columns[i] }

// Target returns the target column. The returned slice must not be mutated.
func (d *Dataset) Target() []float64 { return d.target }

// Ordered reports whether the dataset was declared as ordered.
func (d *Dataset) Ordered() bool { return d.ordered }

// Subset extracts the given rows, in order, into a new dataset.
func (d *Dataset) Subset(rows []int) *Dataset {
	columns := make([][]float64, len(d.columns))
	for c, col := range d.columns {
		sub := make([]float64, len(rows))
		for i, r := range rows {
			sub[i] = col[r]
		}
		columns[c] = sub
	}
	target := make([]float64, len(rows))
	for i, r := range rows {
		target[i] = d.target[r]
	}

	sub := &Dataset{columns: columns, target: target, ordered: d.ordered}
	if d.groups != nil {
		groups := make([]uint64, len(rows))
		for i, r := range rows {
			groups[i] = d.groups[r]
		}
		sub.groups = groups
	}
	return sub
}

// Shuffle returns a copy of the dataset with its groups in random order. Rows
// inside a group keep their relative order; ungrouped datasets are shuffled
// row-wise.
func (d *Dataset) Shuffle(rng *rand.Rand) (*Dataset, error) {
	if d.ordered {
		return nil, ErrOrdered
	}

	blocks := d.groupBlocks()
	rng.Shuffle(len(blocks), func(i, j int) {
		blocks[i], blocks[j] = blocks[j], blocks[i]
	})

	rows := make([]int, 0, d.NumRows())
	for _, b := range blocks {
		for r := b.start; r < b.end; r++ {
			rows = append(rows, r)
		}
	}
	return d.Subset(rows), nil
}

// TrainTestSplit partitions the dataset into train and test parts. trainPart
// is the fraction of groups assigned to the train side. A stratified split
// balances the target value distribution across both sides instead of
// splitting by position; it requires ungrouped data.
func (d *Dataset) TrainTestSplit(trainPart float64, stratified bool, rng *rand.Rand) (train, test *Dataset, err error) {
	trainRows, testRows, err := d.SplitIndices(trainPart, stratified, rng)
	if err != nil {
		return nil, nil, err
	}
	return d.Subset(trainRows), d.Subset(testRows), nil
}

// SplitIndices computes the row indices of a train/test partition without
// materializing the subsets. Useful when the rows to extract live in a
// derived structure, such as a quantized table.
func (d *Dataset) SplitIndices(trainPart float64, stratified bool, rng *rand.Rand) (trainRows, testRows []int, err error) {
	if d.ordered {
		return nil, nil, ErrOrdered
	}
	if trainPart <= 0 || trainPart >= 1 {
		return nil, nil, fmt.Errorf("train part must be in (0, 1), got %g", trainPart)
	}

	if stratified {
		return d.stratifiedIndices(trainPart, rng)
	}

	blocks := d.groupBlocks()
	trainBlocks := int(float64(len(blocks)) * trainPart)
	if trainBlocks == 0 {
		trainBlocks = 1
	}
	for i, b := range blocks {
		for r := b.start; r < b.end; r++ {
			if i < trainBlocks {
				trainRows = append(trainRows, r)
			} else {
				testRows = append(testRows, r)
			}
		}
	}
	if len(testRows) == 0 {
		return nil, nil, fmt.Errorf("train part %g leaves no test rows", trainPart)
	}
	return trainRows, testRows, nil
}

// stratifiedIndices splits each target label proportionally, taking a random
// trainPart share of its rows for the train side.
func (d *Dataset) stratifiedIndices(trainPart float64, rng *rand.Rand) (trainRows, testRows []int, err error) {
	if d.groups != nil {
		return nil, nil, errors.New("stratified split is incompatible with grouped data")
	}

	byLabel := make(map[float64][]int)
	labels := make([]float64, 0)
	for r, y := range d.target {
		if _, ok := byLabel[y]; !ok {
			labels = append(labels, y)
		}
		byLabel[y] = append(byLabel[y], r)
	}

	for _, y := range labels {
		rows := byLabel[y]
		rng.Shuffle(len(rows), func(i, j int) {
			rows[i], rows[j] = rows[j], rows[i]
		})
		take := int(float64(len(rows)) * trainPart)
		if take == 0 && len(rows) > 1 {
			take = 1
		}
		trainRows = append(trainRows, rows[:take]...)
		testRows = append(testRows, rows[take:]...)
	}
	if len(trainRows) == 0 || len(testRows) == 0 {
		return nil, nil, fmt.Errorf("train part %g leaves an empty split side", trainPart)
	}
	return trainRows, testRows, nil
}

type block struct {
	start, end int
}

// groupBlocks returns the half-open row ranges of consecutive equal group
// IDs, or one block per row for ungrouped data.
func (d *Dataset) groupBlocks() []block {
	blocks := make([]block, 0)
	if d.groups == nil {
		for r := range d.target {
			blocks = append(blocks, block{start: r, end: r + 1})
		}
		return blocks
	}

	start := 0
	for r := 1; r <= len(d.groups); r++ {
		if r == len(d.groups) || d.groups[r] != d.groups[start] {
			blocks = append(blocks, block{start: start, end: r})
			start = r
		}
	}
	return blocks
}

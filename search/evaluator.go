package search

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/tunegrid/metric"
	"github.com/hupe1980/tunegrid/quantize"
)

// Trainer fits one model for a fixed configuration on prepared, quantized
// data. Implementations run in metrics-only mode: they evaluate m on test and
// return the best recorded test metric value without producing a deployable
// model artifact.
//
// A Trainer may parallelize a single fit internally; the driver never calls
// it concurrently.
type Trainer interface {
	Train(ctx context.Context, cfg Config, train, test *quantize.Table, m metric.Metric) (float64, error)
}

// CrossValidator evaluates one configuration with k-fold cross-validation and
// returns the per-fold test metric values.
type CrossValidator interface {
	CrossValidate(ctx context.Context, cfg Config, table *quantize.Table, cv CVParams, m metric.Metric) (CVStats, error)
}

// KFold is the default CrossValidator: contiguous folds over the quantized
// table, each fold fit by the wrapped trainer. Folds run in parallel; this is
// the only concurrency inside a trial.
type KFold struct {
	Trainer Trainer
}

// CrossValidate implements CrossValidator.
func (k *KFold) CrossValidate(ctx context.Context, cfg Config, table *quantize.Table, cv CVParams, m metric.Metric) (CVStats, error) {
	if cv.Folds < 2 {
		return CVStats{}, fmt.Errorf("fold count must be at least 2, got %d", cv.Folds)
	}
	if table.NumRows() < cv.Folds {
		return CVStats{}, fmt.Errorf("%d rows cannot fill %d folds", table.NumRows(), cv.Folds)
	}

	foldValues := make([]float64, cv.Folds)
	g, ctx := errgroup.WithContext(ctx)
	for f := 0; f < cv.Folds; f++ {
		f := f
		g.Go(func() error {
			trainRows, testRows := foldRows(table.NumRows(), cv.Folds, f)
			value, err := k.Trainer.Train(ctx, cfg, table.Subset(trainRows), table.Subset(testRows), m)
			if err != nil {
				return fmt.Errorf("fold %d: %w", f, err)
			}
			foldValues[f] = value
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CVStats{}, err
	}

	return CVStats{
		FoldValues: foldValues,
		Mean:       stat.Mean(foldValues, nil),
		StdDev:     stat.StdDev(foldValues, nil),
	}, nil
}

// foldRows returns the train and test row indices of fold f: the test rows
// are the f-th contiguous block, the train rows everything else.
func foldRows(n, folds, f int) (trainRows, testRows []int) {
	lo := n * f / folds
	hi := n * (f + 1) / folds

	trainRows = make([]int, 0, n-(hi-lo))
	testRows = make([]int, 0, hi-lo)
	for r := 0; r < n; r++ {
		if r >= lo && r < hi {
			testRows = append(testRows, r)
		} else {
			trainRows = append(trainRows, r)
		}
	}
	return trainRows, testRows
}

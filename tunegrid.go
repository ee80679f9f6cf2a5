// Package tunegrid provides exhaustive and randomized hyperparameter search
// over quantized tabular datasets.
//
// Tunegrid walks one or more parameter grids, evaluates every selected
// combination through a user-supplied trainer, and returns the best
// combination under the metric's minimize/maximize semantics. Its features
// include:
//
//   - Exhaustive grid search over multiple grids and randomized sampling of a
//     single grid, both with identical combination ordering
//   - Quantization-aware evaluation: the dataset is binned once and re-binned
//     only when a trial changes a quantization-affecting setting
//     (border_count/max_bin, feature_border_type, nan_mode)
//   - Trial evaluation via train/test split or k-fold cross-validation,
//     with group-aware shuffling and stratified splits
//   - Named value generators for continuous distributions inside a grid
//   - Structured logging (log/slog), pluggable metrics collection and a
//     per-trial observer hook
//
// # Quick Start
//
// Implement the trainer contract and run a search:
//
//	ctx := context.Background()
//
//	t, err := tunegrid.New(trainer,
//	    tunegrid.WithLogLevel(slog.LevelInfo),
//	    tunegrid.WithSeed(42),
//	)
//	if err != nil {
//	    panic(err)
//	}
//
//	result, err := t.GridSearch(ctx, tunegrid.Request{
//	    Grids: []tunegrid.Grid{{
//	        "depth":         param.Values(param.Int(4), param.Int(6), param.Int(8)),
//	        "learning_rate": param.Values(param.Float(0.03), param.Float(0.1)),
//	        "border_count":  param.Values(param.Int(32), param.Int(64)),
//	    }},
//	    Metric: "RMSE",
//	    Data:   data,
//	})
//	if err != nil {
//	    panic(err)
//	}
//	fmt.Println(result.BestValue, result.Best.Int)
//
// Randomized search samples a fixed number of distinct combinations instead:
//
//	result, err := t.RandomizedSearch(ctx, req, 20)
//
// # Evaluation Modes
//
// By default every trial is scored with k-fold cross-validation on the
// quantized dataset. Setting Request.TrainTest switches to single-split
// evaluation; the winner is then re-validated with one cross-validation pass
// so the returned statistics are comparable across modes.
package tunegrid

import (
	"context"
	"time"

	"github.com/hupe1980/tunegrid/search"
)

// Re-exported request/result surface of the search driver. The param,
// dataset and quantize subpackages are imported directly by callers.
type (
	// Grid maps a parameter name to its candidate values.
	Grid = search.Grid

	// Request describes one search: grids, base parameters, metric, data and
	// evaluation mode.
	Request = search.Request

	// Result is the outcome of a search run.
	Result = search.Result

	// TrialResult is the outcome of a single evaluated combination.
	TrialResult = search.TrialResult

	// BestOptions is the winning parameter combination, partitioned by type.
	BestOptions = search.BestOptions

	// CVStats are per-fold metric values with their mean and standard
	// deviation.
	CVStats = search.CVStats

	// CVParams configures k-fold cross-validation.
	CVParams = search.CVParams

	// TrainTestParams configures single-split evaluation.
	TrainTestParams = search.TrainTestParams

	// Trainer is the user-supplied model training contract.
	Trainer = search.Trainer
)

// Tuner runs hyperparameter searches against a trainer.
//
// A Tuner is safe to reuse across sequential searches; it must not run two
// searches concurrently.
type Tuner struct {
	driver  *search.Driver
	logger  *Logger
	metrics MetricsCollector
}

// New creates a Tuner evaluating trials with the given trainer.
func New(trainer Trainer, optFns ...Option) (*Tuner, error) {
	opts := applyOptions(optFns)

	driverOpts := []search.Option{
		search.WithObserver(newLogObserver(opts.logger, opts.metricsCollector, opts.trialLogInterval)),
		search.WithLogger(opts.logger.Logger),
	}
	if opts.generators != nil {
		driverOpts = append(driverOpts, search.WithGenerators(opts.generators))
	}
	if opts.quantizer != nil {
		driverOpts = append(driverOpts, search.WithQuantizer(opts.quantizer))
	}
	if opts.validator != nil {
		driverOpts = append(driverOpts, search.WithValidator(opts.validator))
	}
	if opts.seedSet {
		driverOpts = append(driverOpts, search.WithSeed(opts.seed))
	}

	driver, err := search.New(trainer, driverOpts...)
	if err != nil {
		return nil, translateError(err)
	}

	return &Tuner{
		driver:  driver,
		logger:  opts.logger,
		metrics: opts.metricsCollector,
	}, nil
}

// GridSearch exhaustively evaluates every combination of every grid in the
// request and returns the single best across all grids.
func (t *Tuner) GridSearch(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	result, err := t.driver.GridSearch(ctx, req)
	return t.finish(ctx, result, time.Since(start), err)
}

// RandomizedSearch evaluates tries randomly sampled combinations of the
// first grid in the request.
//
// Without registered generators the sampled combination indices are distinct;
// with generators, repeats are allowed since every trial draws fresh values.
func (t *Tuner) RandomizedSearch(ctx context.Context, req Request, tries uint64) (*Result, error) {
	start := time.Now()
	result, err := t.driver.RandomizedSearch(ctx, req, tries)
	return t.finish(ctx, result, time.Since(start), err)
}

func (t *Tuner) finish(ctx context.Context, result *Result, elapsed time.Duration, err error) (*Result, error) {
	if err != nil {
		err = translateError(err)
		t.metrics.RecordSearch(0, elapsed, err)
		t.logger.LogSearchDone(ctx, 0, 0, 0, err)
		return nil, err
	}
	t.metrics.RecordSearch(result.Trials, elapsed, nil)
	t.logger.WithMetric(result.Metric).LogSearchDone(ctx, result.Trials, result.BestValue, result.BestIteration, nil)
	return result, nil
}

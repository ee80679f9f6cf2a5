// Package search orchestrates hyperparameter search: it walks one or more
// parameter grids, re-quantizes the dataset only when quantization-affecting
// values change, evaluates every combination through a trainer or
// cross-validator, and tracks the best combination under minimize/maximize
// semantics.
//
// A single search is strictly sequential: one trial is fully evaluated before
// the next begins. Parallelism exists only inside a trial's evaluation (see
// KFold). The only interruption point is between trials, where the driver
// checks the context before advancing the iterator.
package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/tunegrid/dataset"
	"github.com/hupe1980/tunegrid/grid"
	"github.com/hupe1980/tunegrid/metric"
	"github.com/hupe1980/tunegrid/param"
	"github.com/hupe1980/tunegrid/quantize"
)

// Driver runs searches. A Driver is reusable across searches but must not
// run two searches concurrently.
type Driver struct {
	trainer    Trainer
	validator  CrossValidator
	quantizer  quantize.Quantizer
	observer   Observer
	logger     *slog.Logger
	generators *param.Registry
	seed       int64
}

type options struct {
	validator  CrossValidator
	quantizer  quantize.Quantizer
	observer   Observer
	logger     *slog.Logger
	generators *param.Registry
	seed       int64
}

// Option configures a Driver.
type Option func(*options)

// WithValidator replaces the default KFold cross-validator.
func WithValidator(v CrossValidator) Option {
	return func(o *options) { o.validator = v }
}

// WithQuantizer replaces the default binning quantizer.
func WithQuantizer(q quantize.Quantizer) Option {
	return func(o *options) { o.quantizer = q }
}

// WithObserver installs the per-trial observer.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithLogger installs a structured logger for driver-level events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithGenerators installs the registry used to resolve generator-referenced
// grid values.
func WithGenerators(reg *param.Registry) Option {
	return func(o *options) { o.generators = reg }
}

// WithSeed fixes the random source used for randomized iteration and
// generator draws, making searches reproducible.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// New returns a Driver evaluating trials with the given trainer.
func New(trainer Trainer, optFns ...Option) (*Driver, error) {
	if trainer == nil {
		return nil, errors.New("trainer must not be nil")
	}

	o := options{
		observer: NoopObserver{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		seed:     time.Now().UnixNano(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.validator == nil {
		o.validator = &KFold{Trainer: trainer}
	}
	if o.quantizer == nil {
		o.quantizer = quantize.NewBinQuantizer()
	}

	return &Driver{
		trainer:    trainer,
		validator:  o.validator,
		quantizer:  o.quantizer,
		observer:   o.observer,
		logger:     o.logger,
		generators: o.generators,
		seed:       o.seed,
	}, nil
}

// GridSearch exhaustively evaluates every combination of every grid in the
// request and returns the single best across all grids.
func (d *Driver) GridSearch(ctx context.Context, req Request) (*Result, error) {
	run, err := d.newRun(req)
	if err != nil {
		return nil, err
	}

	for gi := range req.Grids {
		plan, err := parseGrid(req.Grids[gi], req.Base, quantize.DefaultParams())
		if err != nil {
			return nil, err
		}
		it, err := grid.Cartesian(plan.spec)
		if err != nil {
			return nil, err
		}
		if len(req.Grids) > 1 {
			d.logger.Info("starting grid", "run_id", run.id, "grid", gi, "combinations", it.Total())
		}
		if err := run.searchGrid(ctx, plan, it); err != nil {
			return nil, err
		}
	}
	return run.finalize(ctx)
}

// RandomizedSearch evaluates tries randomly sampled combinations of the first
// grid in the request. When generators are registered, repeated combination
// indices are allowed, since every draw can still resolve to fresh values.
func (d *Driver) RandomizedSearch(ctx context.Context, req Request, tries uint64) (*Result, error) {
	run, err := d.newRun(req)
	if err != nil {
		return nil, err
	}

	plan, err := parseGrid(req.Grids[0], req.Base, quantize.DefaultParams())
	if err != nil {
		return nil, err
	}
	it, err := grid.Randomized(plan.spec, tries, d.generators.Len() > 0, run.rng)
	if err != nil {
		return nil, err
	}
	if err := run.searchGrid(ctx, plan, it); err != nil {
		return nil, err
	}
	return run.finalize(ctx)
}

// run is the mutable state of one search: the shuffled dataset, the
// quantization cache, the running best and its grid plan. All of it is owned
// by the driver for the duration of the search; no locking is needed under
// the single-sequential-search assumption.
type run struct {
	d    *Driver
	req  Request
	id   uuid.UUID
	m    metric.Metric
	sign float64
	data *dataset.Dataset
	cv   CVParams

	cache *quantize.Cache
	rng   *rand.Rand

	// Train/test mode: the split of the currently cached quantized table,
	// recomputed only after a re-quantization.
	trainTable *quantize.Table
	testTable  *quantize.Table

	trials        int
	hasBest       bool
	best          TrialResult
	bestPlan      *gridPlan
	bestIteration int
}

func (d *Driver) newRun(req Request) (*run, error) {
	if req.Data == nil {
		return nil, ErrMissingData
	}
	if len(req.Grids) == 0 {
		return nil, ErrMissingGrid
	}
	if v, ok := req.Base["save_snapshot"]; ok {
		if b, _ := v.AsBool(); b {
			return nil, ErrSnapshotUnsupported
		}
	}

	m := metric.Lookup(req.Metric)
	sign, err := m.Sign()
	if err != nil {
		return nil, err
	}

	r := &run{
		d:     d,
		req:   req,
		id:    uuid.New(),
		m:     m,
		sign:  sign,
		data:  req.Data,
		cache: quantize.NewCache(d.quantizer),
		rng:   rand.New(rand.NewSource(d.seed)),
		cv:    CVParams{Folds: 3},
	}
	if req.CV != nil {
		r.cv = *req.CV
	}

	shuffle := req.CV != nil && req.CV.Shuffle
	shuffleSeed := r.cv.Seed
	if req.TrainTest != nil {
		shuffle = req.TrainTest.Shuffle
		shuffleSeed = req.TrainTest.Seed
	}
	if req.Data.Ordered() && (req.TrainTest != nil || shuffle) {
		return nil, dataset.ErrOrdered
	}
	if shuffle {
		shuffled, err := req.Data.Shuffle(rand.New(rand.NewSource(shuffleSeed)))
		if err != nil {
			return nil, err
		}
		r.data = shuffled
	}
	return r, nil
}

// searchGrid runs one grid to exhaustion and folds its best trial into the
// run's overall best.
func (r *run) searchGrid(ctx context.Context, plan *gridPlan, it *grid.Iterator) error {
	tracker, err := NewTracker(r.m)
	if err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		combo, ok := it.Next()
		if !ok {
			break
		}

		start := time.Now()
		cfg, err := plan.trialConfig(combo, r.d.generators, r.rng)
		if err != nil {
			return err
		}

		quantStart := time.Now()
		table, requantized, err := r.cache.MaybeRequantize(ctx, r.data, cfg.Quantization)
		if err != nil {
			return err
		}
		if requantized {
			r.d.observer.Requantized(cfg.Quantization, table.Fingerprint(), time.Since(quantStart))
			if r.req.TrainTest != nil {
				if err := r.splitQuantized(table); err != nil {
					return err
				}
			}
		}

		var value float64
		var stats *CVStats
		if r.req.TrainTest != nil {
			value, err = r.d.trainer.Train(ctx, cfg, r.trainTable, r.testTable, r.m)
		} else {
			var s CVStats
			s, err = r.d.validator.CrossValidate(ctx, cfg, table, r.cv, r.m)
			value = s.Mean
			stats = &s
		}
		if err != nil {
			return err
		}

		result := TrialResult{
			Iteration:   tracker.Trials(),
			Config:      cfg,
			Value:       value,
			CV:          stats,
			Requantized: requantized,
			Elapsed:     time.Since(start),
		}
		tracker.Update(result)
		r.trials++
		r.d.observer.TrialCompleted(result, tracker.BestValue(), tracker.BestIteration())
	}

	best, ok := tracker.Best()
	if !ok {
		return nil
	}
	if !r.hasBest || r.sign*best.Value < r.sign*r.best.Value {
		r.hasBest = true
		r.best = best
		r.bestPlan = plan
		r.bestIteration = tracker.BestIteration()
	}
	return nil
}

// splitQuantized recomputes the train/test partition of a freshly quantized
// table. The split rng is re-seeded every time so the partition is identical
// across re-quantizations.
func (r *run) splitQuantized(table *quantize.Table) error {
	tt := r.req.TrainTest
	trainRows, testRows, err := r.data.SplitIndices(tt.TrainPart, tt.Stratified, rand.New(rand.NewSource(tt.Seed)))
	if err != nil {
		return err
	}
	r.trainTable = table.Subset(trainRows)
	r.testTable = table.Subset(testRows)
	return nil
}

// finalize builds the result and, when needed, produces reportable statistics
// for the winner with one extra cross-validation pass. That pass is skipped
// when the search already ran in CV mode and kept the winning trial's stats.
func (r *run) finalize(ctx context.Context) (*Result, error) {
	if !r.hasBest {
		return nil, errors.New("search produced no trials")
	}

	res := &Result{
		RunID:         r.id,
		Metric:        r.m.Name(),
		Best:          r.bestPlan.bestOptions(r.best.Config),
		BestValue:     r.best.Value,
		BestIteration: r.bestIteration,
		Trials:        r.trials,
	}

	if r.req.ReturnStats || r.req.TrainTest != nil {
		if r.req.TrainTest != nil {
			r.d.logger.Info("estimating final quality", "run_id", r.id, "metric", r.m.Name())
			table, _, err := r.cache.MaybeRequantize(ctx, r.data, r.best.Config.Quantization)
			if err != nil {
				return nil, err
			}
			stats, err := r.d.validator.CrossValidate(ctx, r.best.Config, table, r.cv, r.m)
			if err != nil {
				return nil, err
			}
			res.CV = &stats
		} else {
			res.CV = r.best.CV
		}
	}
	return res, nil
}

package search

import (
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/tunegrid/dataset"
	"github.com/hupe1980/tunegrid/param"
	"github.com/hupe1980/tunegrid/quantize"
)

// Grid declares a search space: parameter name to the ordered set of
// candidate values. Values may be literals or generator references.
type Grid map[string]param.ValueSet

// CVParams controls k-fold cross-validation.
type CVParams struct {
	// Folds is the number of train/validation partitions. Must be at least 2.
	Folds int

	// Shuffle reorders the dataset's groups once, before the first trial.
	Shuffle bool

	// Seed drives the shuffle and fold partitioning.
	Seed int64
}

// TrainTestParams controls a fixed train/test split evaluation.
type TrainTestParams struct {
	// TrainPart is the fraction of groups assigned to the train side.
	TrainPart float64

	// Stratified balances the target distribution across both sides instead
	// of splitting by position.
	Stratified bool

	// Shuffle reorders the dataset's groups once, before the first trial.
	Shuffle bool

	// Seed drives the shuffle and the split.
	Seed int64
}

// Request describes one search over one or more grids.
type Request struct {
	// Grids holds the independent grid specs to search. Each grid is run to
	// completion; only the single best combination across all grids is kept.
	Grids []Grid

	// Base is the model configuration the searched values are merged into.
	Base map[string]param.Value

	// Metric is the textual descriptor of the metric that ranks trials.
	Metric string

	// Data is the dataset to evaluate on.
	Data *dataset.Dataset

	// TrainTest selects train/test evaluation when non-nil; otherwise the
	// search cross-validates every trial.
	TrainTest *TrainTestParams

	// CV parameterizes cross-validation: every trial in CV mode, and the
	// winner's final estimation pass in train/test mode. Nil uses defaults.
	CV *CVParams

	// ReturnStats requests per-fold statistics for the winning combination.
	ReturnStats bool
}

// Config is one concrete hyperparameter configuration for a single fit: the
// merged model parameters plus the quantization settings of the trial.
type Config struct {
	Params       map[string]param.Value
	Quantization quantize.Params
}

// CVStats aggregates the per-fold test metric values of one configuration.
type CVStats struct {
	FoldValues []float64
	Mean       float64
	StdDev     float64
}

// TrialResult is the outcome of evaluating one combination. It is immutable
// once produced.
type TrialResult struct {
	// Iteration is the zero-based trial index within its grid.
	Iteration int

	Config Config

	// Value is the trial's scalar metric value.
	Value float64

	// CV holds the per-fold statistics in cross-validation mode, nil in
	// train/test mode.
	CV *CVStats

	// Requantized reports whether this trial had to re-quantize the dataset.
	Requantized bool

	Elapsed time.Duration
}

// BestOptions is the winning hyperparameter assignment partitioned by value
// type, with searched quantization settings merged back in under their
// original parameter names.
type BestOptions struct {
	Bool   map[string]bool
	Int    map[string]int64
	Uint   map[string]uint64
	Float  map[string]float64
	String map[string]string
}

// Result is the outcome of a whole search.
type Result struct {
	// RunID identifies the search run in logs.
	RunID uuid.UUID

	// Metric is the descriptor the search optimized.
	Metric string

	Best BestOptions

	// BestValue is the winning combination's metric value.
	BestValue float64

	// BestIteration is the trial index at which the winner was found, within
	// the winning grid.
	BestIteration int

	// Trials is the total number of evaluated combinations across all grids.
	Trials int

	// CV holds the winner's cross-validation statistics when requested, or
	// when train/test mode required a final estimation pass.
	CV *CVStats
}

// Observer receives one callback per completed trial plus re-quantization
// events. It is how logging and metrics attach to the search loop without the
// engine depending on any output facility.
type Observer interface {
	TrialCompleted(result TrialResult, bestValue float64, bestIteration int)
	Requantized(params quantize.Params, fingerprint uint64, elapsed time.Duration)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

// TrialCompleted implements Observer.
func (NoopObserver) TrialCompleted(TrialResult, float64, int) {}

// Requantized implements Observer.
func (NoopObserver) Requantized(quantize.Params, uint64, time.Duration) {}

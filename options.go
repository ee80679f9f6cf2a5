package tunegrid

import (
	"log/slog"
	"time"

	"github.com/hupe1980/tunegrid/param"
	"github.com/hupe1980/tunegrid/quantize"
	"github.com/hupe1980/tunegrid/search"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	generators       *param.Registry
	quantizer        quantize.Quantizer
	validator        search.CrossValidator
	seed             int64
	seedSet          bool
	trialLogInterval time.Duration
}

// Option configures Tuner constructor behavior.
type Option func(*options)

// WithLogger configures structured logging for search operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := tunegrid.NewJSONLogger(slog.LevelInfo)
//	t, _ := tunegrid.New(trainer, tunegrid.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// search operations.
//
// Example with BasicMetricsCollector:
//
//	metrics := &tunegrid.BasicMetricsCollector{}
//	t, _ := tunegrid.New(trainer, tunegrid.WithMetricsCollector(metrics))
//	// ... run searches ...
//	stats := metrics.GetStats()
//	fmt.Printf("Trials: %d, Requantizations: %d\n", stats.TrialCount, stats.RequantizeCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithGenerators installs a registry of named value generators. Grid values
// of kind GeneratorRef are resolved against this registry on every trial,
// drawing a fresh value each time.
func WithGenerators(reg *param.Registry) Option {
	return func(o *options) {
		o.generators = reg
	}
}

// WithQuantizer replaces the default binning quantizer.
func WithQuantizer(q quantize.Quantizer) Option {
	return func(o *options) {
		o.quantizer = q
	}
}

// WithCrossValidator replaces the default k-fold cross-validator used in CV
// mode and for final quality estimation.
func WithCrossValidator(v search.CrossValidator) Option {
	return func(o *options) {
		o.validator = v
	}
}

// WithSeed fixes the random source used for randomized iteration, generator
// draws and shuffling, making searches reproducible.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
		o.seedSet = true
	}
}

// WithTrialLogInterval throttles per-trial log output: non-improving trials
// are logged at most once per interval. Improvements are always logged.
// An interval of 0 disables throttling.
func WithTrialLogInterval(interval time.Duration) Option {
	return func(o *options) {
		o.trialLogInterval = interval
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		trialLogInterval: time.Second,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

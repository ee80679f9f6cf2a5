package tunegrid

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/tunegrid/quantize"
	"github.com/hupe1980/tunegrid/search"
)

// logObserver bridges driver callbacks to the Tuner's logger and metrics.
// Per-trial output is rate-limited so large grids do not flood the log;
// improvements bypass the limiter.
type logObserver struct {
	logger  *Logger
	metrics MetricsCollector
	limiter *rate.Limiter
}

func newLogObserver(logger *Logger, metrics MetricsCollector, interval time.Duration) *logObserver {
	var limiter *rate.Limiter
	if interval > 0 {
		limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return &logObserver{
		logger:  logger,
		metrics: metrics,
		limiter: limiter,
	}
}

// TrialCompleted implements search.Observer.
func (o *logObserver) TrialCompleted(result search.TrialResult, bestValue float64, bestIteration int) {
	o.metrics.RecordTrial(result.Elapsed, nil)

	improved := result.Iteration == bestIteration
	if improved || o.limiter == nil || o.limiter.Allow() {
		o.logger.LogTrial(context.Background(), result, bestValue, bestIteration, improved)
	}
}

// Requantized implements search.Observer.
func (o *logObserver) Requantized(params quantize.Params, fingerprint uint64, elapsed time.Duration) {
	o.metrics.RecordRequantize(elapsed)
	o.logger.LogRequantize(context.Background(), params, fingerprint, elapsed)
}

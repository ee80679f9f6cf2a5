package tunegrid

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    trialCounter    prometheus.Counter
//	    searchHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordTrial(duration time.Duration, err error) {
//	    p.trialCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordTrial is called after each evaluated parameter combination.
	// duration is the total trial time, err is nil if successful.
	RecordTrial(duration time.Duration, err error)

	// RecordRequantize is called after each re-quantization of the dataset.
	RecordRequantize(duration time.Duration)

	// RecordSearch is called after each search run.
	// trials is the number of combinations evaluated, duration is the total
	// time taken, err is nil if successful.
	RecordSearch(trials int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTrial(time.Duration, error)       {}
func (NoopMetricsCollector) RecordRequantize(time.Duration)         {}
func (NoopMetricsCollector) RecordSearch(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	TrialCount           atomic.Int64
	TrialErrors          atomic.Int64
	TrialTotalNanos      atomic.Int64
	RequantizeCount      atomic.Int64
	RequantizeTotalNanos atomic.Int64
	SearchCount          atomic.Int64
	SearchErrors         atomic.Int64
	SearchTrials         atomic.Int64
	SearchTotalNanos     atomic.Int64
}

// RecordTrial implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrial(duration time.Duration, err error) {
	b.TrialCount.Add(1)
	b.TrialTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TrialErrors.Add(1)
	}
}

// RecordRequantize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRequantize(duration time.Duration) {
	b.RequantizeCount.Add(1)
	b.RequantizeTotalNanos.Add(duration.Nanoseconds())
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(trials int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTrials.Add(int64(trials))
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		TrialCount:      b.TrialCount.Load(),
		TrialErrors:     b.TrialErrors.Load(),
		TrialAvgNanos:   b.getAvgTrialNanos(),
		RequantizeCount: b.RequantizeCount.Load(),
		SearchCount:     b.SearchCount.Load(),
		SearchErrors:    b.SearchErrors.Load(),
		SearchTrials:    b.SearchTrials.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgTrialNanos() int64 {
	count := b.TrialCount.Load()
	if count == 0 {
		return 0
	}
	return b.TrialTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	TrialCount      int64
	TrialErrors     int64
	TrialAvgNanos   int64
	RequantizeCount int64
	SearchCount     int64
	SearchErrors    int64
	SearchTrials    int64
}

package tunegrid

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/tunegrid/quantize"
	"github.com/hupe1980/tunegrid/search"
)

// Logger wraps slog.Logger with tunegrid-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithMetric adds a metric name field to the logger.
func (l *Logger) WithMetric(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("metric", name),
	}
}

// WithGrid adds a grid index field to the logger (useful when searching
// multiple grids in one run).
func (l *Logger) WithGrid(grid int) *Logger {
	return &Logger{
		Logger: l.Logger.With("grid", grid),
	}
}

// LogTrial logs one completed trial. Improvements are logged at info level,
// everything else at debug.
func (l *Logger) LogTrial(ctx context.Context, result search.TrialResult, bestValue float64, bestIteration int, improved bool) {
	attrs := []any{
		"iteration", result.Iteration,
		"value", result.Value,
		"best_value", bestValue,
		"best_iteration", bestIteration,
		"requantized", result.Requantized,
		"elapsed", result.Elapsed,
	}
	if improved {
		l.InfoContext(ctx, "trial improved best", attrs...)
	} else {
		l.DebugContext(ctx, "trial completed", attrs...)
	}
}

// LogRequantize logs a re-quantization of the dataset.
func (l *Logger) LogRequantize(ctx context.Context, params quantize.Params, fingerprint uint64, elapsed time.Duration) {
	l.DebugContext(ctx, "dataset re-quantized",
		"bin_count", params.BinCount,
		"border_type", params.BorderType.String(),
		"nan_mode", params.NaNMode.String(),
		"fingerprint", fingerprint,
		"elapsed", elapsed,
	)
}

// LogSearchDone logs the outcome of a whole search run.
func (l *Logger) LogSearchDone(ctx context.Context, trials int, bestValue float64, bestIteration int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"trials", trials,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "search completed",
			"trials", trials,
			"best_value", bestValue,
			"best_iteration", bestIteration,
		)
	}
}

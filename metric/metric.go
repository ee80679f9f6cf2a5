// Package metric describes evaluation metrics by name and optimization
// direction. The search driver only needs to know whether a metric is better
// when minimized or maximized; computing metric values is the trainer's job.
package metric

import (
	"fmt"
	"strings"
	"sync"
)

// Direction states whether a metric improves by decreasing or increasing.
type Direction uint8

const (
	// DirectionUnknown marks a metric that declared no direction. Such a
	// metric cannot drive a search.
	DirectionUnknown Direction = iota
	// Minimize marks a metric where smaller values are better.
	Minimize
	// Maximize marks a metric where larger values are better.
	Maximize
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Minimize:
		return "Minimize"
	case Maximize:
		return "Maximize"
	default:
		return "Unknown"
	}
}

// AmbiguousDirectionError indicates a metric that declares neither a minimize
// nor a maximize direction.
type AmbiguousDirectionError struct {
	Metric string
}

func (e *AmbiguousDirectionError) Error() string {
	return fmt.Sprintf("metric %q must be minimized or maximized", e.Metric)
}

// Metric is a named evaluation metric with an optimization direction.
type Metric struct {
	name      string
	direction Direction
}

// Name returns the full metric descriptor, including any descriptor
// parameters.
func (m Metric) Name() string { return m.name }

// Direction returns the declared optimization direction, which may be
// DirectionUnknown.
func (m Metric) Direction() Direction { return m.direction }

// Sign returns +1 for a minimize metric and -1 for a maximize metric, so that
// sign*value orders candidates with smaller-is-better semantics either way.
// It fails with AmbiguousDirectionError when no direction was declared.
func (m Metric) Sign() (float64, error) {
	switch m.direction {
	case Minimize:
		return 1, nil
	case Maximize:
		return -1, nil
	default:
		return 0, &AmbiguousDirectionError{Metric: m.name}
	}
}

var (
	mu       sync.RWMutex
	registry = map[string]Direction{
		"RMSE":         Minimize,
		"MAE":          Minimize,
		"MAPE":         Minimize,
		"Quantile":     Minimize,
		"Logloss":      Minimize,
		"CrossEntropy": Minimize,
		"MultiClass":   Minimize,
		"Poisson":      Minimize,
		"Accuracy":     Maximize,
		"AUC":          Maximize,
		"Precision":    Maximize,
		"Recall":       Maximize,
		"F1":           Maximize,
		"R2":           Maximize,
	}
)

// Register declares the direction of a custom metric name. Registering
// DirectionUnknown is allowed; such a metric fails later, at Sign.
func Register(name string, direction Direction) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = direction
}

// Lookup resolves a textual metric descriptor such as "RMSE" or
// "Quantile:alpha=0.1" to a Metric. The base name before any ':' selects the
// registry entry; unregistered names resolve with DirectionUnknown.
func Lookup(descriptor string) Metric {
	base, _, _ := strings.Cut(descriptor, ":")

	mu.RLock()
	defer mu.RUnlock()
	return Metric{name: descriptor, direction: registry[base]}
}

package search

import "github.com/hupe1980/tunegrid/metric"

// Tracker maintains the best trial seen so far under metric-direction-aware
// comparison. One Tracker spans one grid; the driver picks the overall best
// across grids.
type Tracker struct {
	sign          float64
	iteration     int
	bestValue     float64
	bestIteration int
	best          TrialResult
}

// NewTracker returns a tracker for the given metric. It fails when the metric
// declares no optimization direction.
func NewTracker(m metric.Metric) (*Tracker, error) {
	sign, err := m.Sign()
	if err != nil {
		return nil, err
	}
	return &Tracker{sign: sign}, nil
}

// Update offers a candidate trial and reports whether it became the new best.
//
// The first trial always wins: the incumbent value is seeded to the candidate
// plus the direction sign, so the strict comparison below succeeds without a
// separate first-trial branch. Thereafter a candidate replaces the best iff
// it is strictly better; ties keep the incumbent.
func (t *Tracker) Update(result TrialResult) bool {
	if t.iteration == 0 {
		t.bestValue = result.Value + t.sign
	}

	improved := t.sign*result.Value < t.sign*t.bestValue
	if improved {
		t.bestValue = result.Value
		t.bestIteration = t.iteration
		t.best = result
	}
	t.iteration++
	return improved
}

// Best returns the best trial seen so far. The second result is false before
// the first update.
func (t *Tracker) Best() (TrialResult, bool) {
	return t.best, t.iteration > 0
}

// BestValue returns the running best metric value.
func (t *Tracker) BestValue() float64 { return t.bestValue }

// BestIteration returns the trial index at which the best was achieved.
func (t *Tracker) BestIteration() int { return t.bestIteration }

// Trials returns the number of candidates offered so far.
func (t *Tracker) Trials() int { return t.iteration }

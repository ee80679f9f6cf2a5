package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tunegrid/metric"
)

func offer(t *testing.T, tr *Tracker, values ...float64) []bool {
	t.Helper()
	improved := make([]bool, len(values))
	for i, v := range values {
		improved[i] = tr.Update(TrialResult{Iteration: i, Value: v})
	}
	return improved
}

func TestTrackerMinimize(t *testing.T) {
	tr, err := NewTracker(metric.Lookup("RMSE"))
	require.NoError(t, err)

	improved := offer(t, tr, 0.5, 0.3, 0.4)
	assert.Equal(t, []bool{true, true, false}, improved)
	assert.Equal(t, 0.3, tr.BestValue())
	assert.Equal(t, 1, tr.BestIteration())
	assert.Equal(t, 3, tr.Trials())

	best, ok := tr.Best()
	require.True(t, ok)
	assert.Equal(t, 0.3, best.Value)
}

func TestTrackerMaximize(t *testing.T) {
	tr, err := NewTracker(metric.Lookup("AUC"))
	require.NoError(t, err)

	improved := offer(t, tr, 0.5, 0.3, 0.4)
	assert.Equal(t, []bool{true, false, false}, improved)
	assert.Equal(t, 0.5, tr.BestValue())
	assert.Equal(t, 0, tr.BestIteration())
}

func TestTrackerFirstTrialAlwaysWins(t *testing.T) {
	for _, name := range []string{"RMSE", "AUC"} {
		tr, err := NewTracker(metric.Lookup(name))
		require.NoError(t, err)
		assert.True(t, tr.Update(TrialResult{Value: 0}), "metric %s", name)
	}
}

func TestTrackerTiesKeepIncumbent(t *testing.T) {
	tr, err := NewTracker(metric.Lookup("RMSE"))
	require.NoError(t, err)

	offer(t, tr, 0.4, 0.4, 0.4)
	assert.Equal(t, 0, tr.BestIteration())
}

func TestTrackerAmbiguousMetric(t *testing.T) {
	_, err := NewTracker(metric.Lookup("UndeclaredMetric"))
	assert.Error(t, err)
}

func TestTrackerBeforeFirstUpdate(t *testing.T) {
	tr, err := NewTracker(metric.Lookup("RMSE"))
	require.NoError(t, err)

	_, ok := tr.Best()
	assert.False(t, ok)
}

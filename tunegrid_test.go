package tunegrid

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tunegrid/dataset"
	"github.com/hupe1980/tunegrid/metric"
	"github.com/hupe1980/tunegrid/param"
	"github.com/hupe1980/tunegrid/quantize"
	"github.com/hupe1980/tunegrid/search"
)

// lossTrainer returns a loss that is minimal at depth 6 and learning rate 0.1.
type lossTrainer struct{}

func (lossTrainer) Train(_ context.Context, cfg search.Config, _, _ *quantize.Table, _ metric.Metric) (float64, error) {
	depth, _ := cfg.Params["depth"].AsInt64()
	rate, _ := cfg.Params["learning_rate"].AsFloat64()
	return 0.1*math.Abs(float64(depth)-6) + math.Abs(rate-0.1), nil
}

func regressionData(t *testing.T) *dataset.Dataset {
	t.Helper()
	const rows = 24
	col := make([]float64, rows)
	target := make([]float64, rows)
	for i := range col {
		col[i] = float64(i)
		target[i] = float64(i) * 0.5
	}
	d, err := dataset.New([][]float64{col}, target)
	require.NoError(t, err)
	return d
}

func TestTunerGridSearch(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	tuner, err := New(lossTrainer{},
		WithSeed(1),
		WithMetricsCollector(metrics),
	)
	require.NoError(t, err)

	res, err := tuner.GridSearch(context.Background(), Request{
		Grids: []Grid{{
			"depth":         param.Values(param.Int(4), param.Int(6), param.Int(8)),
			"learning_rate": param.Values(param.Float(0.03), param.Float(0.1)),
		}},
		Metric: "RMSE",
		Data:   regressionData(t),
	})
	require.NoError(t, err)

	assert.Equal(t, 6, res.Trials)
	assert.Equal(t, int64(6), res.Best.Int["depth"])
	assert.Equal(t, 0.1, res.Best.Float["learning_rate"])
	assert.InDelta(t, 0, res.BestValue, 1e-12)

	stats := metrics.GetStats()
	assert.Equal(t, int64(6), stats.TrialCount)
	assert.Equal(t, int64(1), stats.RequantizeCount)
	assert.Equal(t, int64(1), stats.SearchCount)
	assert.Equal(t, int64(6), stats.SearchTrials)
	assert.Equal(t, int64(0), stats.SearchErrors)
}

func TestTunerRandomizedSearch(t *testing.T) {
	tuner, err := New(lossTrainer{}, WithSeed(42))
	require.NoError(t, err)

	res, err := tuner.RandomizedSearch(context.Background(), Request{
		Grids: []Grid{{
			"depth": param.Values(param.Int(2), param.Int(4), param.Int(6), param.Int(8)),
		}},
		Metric: "RMSE",
		Data:   regressionData(t),
	}, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Trials)
}

func TestTunerErrorTranslation(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	tuner, err := New(lossTrainer{}, WithMetricsCollector(metrics))
	require.NoError(t, err)
	ctx := context.Background()
	data := regressionData(t)

	t.Run("InvalidSampleCount", func(t *testing.T) {
		_, err := tuner.RandomizedSearch(ctx, Request{
			Grids:  []Grid{{"depth": param.Values(param.Int(4))}},
			Metric: "RMSE",
			Data:   data,
		}, 0)
		assert.ErrorIs(t, err, ErrInvalidSampleCount)
	})

	t.Run("SnapshotUnsupported", func(t *testing.T) {
		_, err := tuner.GridSearch(ctx, Request{
			Grids:  []Grid{{"depth": param.Values(param.Int(4))}},
			Metric: "RMSE",
			Data:   data,
			Base:   map[string]param.Value{"save_snapshot": param.Bool(true)},
		})
		assert.ErrorIs(t, err, ErrSnapshotUnsupported)
	})

	t.Run("AmbiguousMetric", func(t *testing.T) {
		_, err := tuner.GridSearch(ctx, Request{
			Grids:  []Grid{{"depth": param.Values(param.Int(4))}},
			Metric: "Mystery",
			Data:   data,
		})
		assert.ErrorIs(t, err, ErrAmbiguousMetric)
	})

	t.Run("OrderedData", func(t *testing.T) {
		ordered, err := dataset.New([][]float64{{1, 2, 3}}, []float64{1, 2, 3}, dataset.WithOrdered())
		require.NoError(t, err)
		_, err = tuner.GridSearch(ctx, Request{
			Grids:     []Grid{{"depth": param.Values(param.Int(4))}},
			Metric:    "RMSE",
			Data:      ordered,
			TrainTest: &TrainTestParams{TrainPart: 0.5},
		})
		assert.ErrorIs(t, err, ErrOrderedData)
	})

	// Failed runs are still counted.
	assert.Equal(t, metrics.SearchCount.Load(), metrics.SearchErrors.Load())
	assert.Greater(t, metrics.SearchErrors.Load(), int64(0))
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))

	// Typed parameter errors pass through untranslated.
	in := &search.InvalidParameterError{Name: "depth"}
	assert.Equal(t, in, translateError(in))
}

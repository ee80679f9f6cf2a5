package search

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tunegrid/param"
	"github.com/hupe1980/tunegrid/quantize"
)

func TestParseGridReservedDimensions(t *testing.T) {
	g := Grid{
		"border_count":  param.Values(param.Int(32), param.Int(64)),
		"depth":         param.Values(param.Int(4), param.Int(6)),
		"learning_rate": param.Values(param.Float(0.1)),
	}

	plan, err := parseGrid(g, nil, quantize.DefaultParams())
	require.NoError(t, err)

	dims := plan.spec.Dimensions
	require.Len(t, dims, 5)

	// Quantization dimensions come first, unsearched ones pinned to defaults.
	assert.Equal(t, "border_count", dims[0].Name)
	assert.Len(t, dims[0].Values, 2)
	assert.Equal(t, param.Values(param.String("GreedyLogSum")), dims[1].Values)
	assert.Equal(t, param.Values(param.String("Min")), dims[2].Values)

	// Free dimensions follow in name order.
	assert.Equal(t, []string{"depth", "learning_rate"}, plan.names)

	assert.True(t, plan.quant.binCountSearched)
	assert.False(t, plan.quant.borderTypeSearched)
	assert.False(t, plan.quant.nanModeSearched)
}

func TestParseGridMaxBinAlias(t *testing.T) {
	g := Grid{"max_bin": param.Values(param.Int(128))}

	plan, err := parseGrid(g, nil, quantize.DefaultParams())
	require.NoError(t, err)
	assert.True(t, plan.quant.binCountSearched)
	assert.Equal(t, "max_bin", plan.quant.binCountName)
	assert.Empty(t, plan.names)
}

func TestParseGridBaseFallback(t *testing.T) {
	base := map[string]param.Value{
		"border_count": param.Int(100),
		"nan_mode":     param.String("Max"),
		"depth":        param.Int(6),
	}
	g := Grid{"learning_rate": param.Values(param.Float(0.1), param.Float(0.3))}

	plan, err := parseGrid(g, base, quantize.DefaultParams())
	require.NoError(t, err)

	dims := plan.spec.Dimensions
	assert.Equal(t, param.Values(param.Int(100)), dims[0].Values)
	assert.Equal(t, param.Values(param.String("Max")), dims[2].Values)
	assert.False(t, plan.quant.binCountSearched)

	// Extracted aliases leave the base config; other base params stay.
	assert.NotContains(t, plan.base, "border_count")
	assert.NotContains(t, plan.base, "nan_mode")
	assert.Contains(t, plan.base, "depth")

	// The caller's map is untouched.
	assert.Contains(t, base, "border_count")
}

func TestParseGridInvalidValues(t *testing.T) {
	t.Run("StringBinCount", func(t *testing.T) {
		_, err := parseGrid(Grid{"border_count": param.Values(param.String("many"))}, nil, quantize.DefaultParams())
		var ip *InvalidParameterError
		require.True(t, errors.As(err, &ip))
		assert.Equal(t, "border_count", ip.Name)
	})

	t.Run("NumericBorderType", func(t *testing.T) {
		_, err := parseGrid(Grid{"feature_border_type": param.Values(param.Int(1))}, nil, quantize.DefaultParams())
		assert.Error(t, err)
	})

	t.Run("InvalidKindInFreeDimension", func(t *testing.T) {
		_, err := parseGrid(Grid{"depth": param.Values(param.Value{})}, nil, quantize.DefaultParams())
		var ip *InvalidParameterError
		require.True(t, errors.As(err, &ip))
		assert.Equal(t, "depth", ip.Name)
	})

	t.Run("EmptyFreeDimension", func(t *testing.T) {
		_, err := parseGrid(Grid{"depth": nil}, nil, quantize.DefaultParams())
		assert.Error(t, err)
	})
}

func TestTrialConfig(t *testing.T) {
	base := map[string]param.Value{"iterations": param.Int(100)}
	g := Grid{
		"border_count": param.Values(param.Int(32)),
		"depth":        param.Values(param.Int(4)),
	}
	plan, err := parseGrid(g, base, quantize.DefaultParams())
	require.NoError(t, err)

	combo := []param.Value{
		param.Int(32),
		param.String("Uniform"),
		param.String("Max"),
		param.Int(4),
	}
	cfg, err := plan.trialConfig(combo, nil, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Equal(t, quantize.Params{BinCount: 32, BorderType: quantize.BorderUniform, NaNMode: quantize.NaNMax}, cfg.Quantization)
	assert.Equal(t, param.Int(4), cfg.Params["depth"])
	assert.Equal(t, param.Int(100), cfg.Params["iterations"])
}

func TestTrialConfigResolvesGenerators(t *testing.T) {
	reg := param.NewRegistry()
	reg.Register("bins", func(rng *rand.Rand) param.Value {
		return param.Int(1 + rng.Intn(254))
	})

	plan, err := parseGrid(Grid{"border_count": param.Values(param.GeneratorRef("bins"))}, nil, quantize.DefaultParams())
	require.NoError(t, err)

	combo := []param.Value{
		param.GeneratorRef("bins"),
		param.String("GreedyLogSum"),
		param.String("Min"),
	}
	cfg, err := plan.trialConfig(combo, reg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cfg.Quantization.BinCount, 1)
}

func TestTrialConfigInvalidValues(t *testing.T) {
	plan, err := parseGrid(Grid{}, nil, quantize.DefaultParams())
	require.NoError(t, err)

	tests := []struct {
		name  string
		combo []param.Value
	}{
		{"ZeroBinCount", []param.Value{param.Int(0), param.String("Median"), param.String("Min")}},
		{"UnknownBorderType", []param.Value{param.Int(32), param.String("Bogus"), param.String("Min")}},
		{"UnknownNaNMode", []param.Value{param.Int(32), param.String("Median"), param.String("Bogus")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plan.trialConfig(tt.combo, nil, rand.New(rand.NewSource(1)))
			var ip *InvalidParameterError
			assert.True(t, errors.As(err, &ip))
		})
	}
}

func TestBestOptions(t *testing.T) {
	g := Grid{
		"max_bin":  param.Values(param.Int(32), param.Int(64)),
		"nan_mode": param.Values(param.String("Min"), param.String("Max")),
		"depth":    param.Values(param.Int(4), param.Int(6)),
		"verbose":  param.Values(param.Bool(true)),
		"rate":     param.Values(param.Float(0.1)),
		"loss":     param.Values(param.String("RMSE")),
	}
	plan, err := parseGrid(g, nil, quantize.DefaultParams())
	require.NoError(t, err)

	cfg := Config{
		Params: map[string]param.Value{
			"depth":   param.Int(6),
			"verbose": param.Bool(true),
			"rate":    param.Float(0.1),
			"loss":    param.String("RMSE"),
		},
		Quantization: quantize.Params{BinCount: 64, BorderType: quantize.BorderGreedyLogSum, NaNMode: quantize.NaNMax},
	}

	best := plan.bestOptions(cfg)
	assert.Equal(t, int64(6), best.Int["depth"])
	assert.Equal(t, true, best.Bool["verbose"])
	assert.Equal(t, 0.1, best.Float["rate"])
	assert.Equal(t, "RMSE", best.String["loss"])

	// Searched quantization settings surface under their original names;
	// unsearched ones are omitted.
	assert.Equal(t, int64(64), best.Int["max_bin"])
	assert.Equal(t, "Max", best.String["nan_mode"])
	assert.NotContains(t, best.String, "feature_border_type")
}

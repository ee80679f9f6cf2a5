package search

import (
	"math/rand"
	"slices"

	"golang.org/x/exp/maps"

	"github.com/hupe1980/tunegrid/grid"
	"github.com/hupe1980/tunegrid/param"
	"github.com/hupe1980/tunegrid/quantize"
)

// Accepted parameter names for the quantization-affecting dimensions.
var (
	binCountAliases   = []string{"border_count", "max_bin"}
	borderTypeAliases = []string{"feature_border_type"}
	nanModeAliases    = []string{"nan_mode"}
)

// quantInfo records which quantization parameters were part of the search
// space and under which exact names, so the winner's settings can be merged
// back into the reported best options.
type quantInfo struct {
	binCountSearched   bool
	binCountName       string
	borderTypeSearched bool
	borderTypeName     string
	nanModeSearched    bool
	nanModeName        string
}

// gridPlan is one parsed grid: the iteration spec with the three reserved
// quantization dimensions up front, the free dimension names, and the base
// configuration stripped of any extracted quantization aliases.
type gridPlan struct {
	spec  *grid.Spec
	names []string
	quant quantInfo
	base  map[string]param.Value
}

// parseGrid splits a raw grid into the reserved quantization dimensions and
// the free model-hyperparameter dimensions. Quantization parameters absent
// from the grid fall back to the base configuration, then to defaults, as a
// single-value dimension.
func parseGrid(g Grid, base map[string]param.Value, defaults quantize.Params) (*gridPlan, error) {
	free := maps.Clone(g)
	plan := &gridPlan{base: maps.Clone(base)}
	if plan.base == nil {
		plan.base = make(map[string]param.Value)
	}

	numericKinds := []param.Kind{param.KindInt, param.KindUint, param.KindFloat}
	stringKinds := []param.Kind{param.KindString}

	binCount, err := extractQuantDimension(free, plan.base, binCountAliases, numericKinds,
		param.Int(int64(defaults.BinCount)),
		&plan.quant.binCountSearched, &plan.quant.binCountName)
	if err != nil {
		return nil, err
	}
	borderType, err := extractQuantDimension(free, plan.base, borderTypeAliases, stringKinds,
		param.String(defaults.BorderType.String()),
		&plan.quant.borderTypeSearched, &plan.quant.borderTypeName)
	if err != nil {
		return nil, err
	}
	nanMode, err := extractQuantDimension(free, plan.base, nanModeAliases, stringKinds,
		param.String(defaults.NaNMode.String()),
		&plan.quant.nanModeSearched, &plan.quant.nanModeName)
	if err != nil {
		return nil, err
	}

	dims := []grid.Dimension{
		{Name: plan.quant.binCountName, Values: binCount},
		{Name: plan.quant.borderTypeName, Values: borderType},
		{Name: plan.quant.nanModeName, Values: nanMode},
	}

	// Free dimensions in name order so iteration is deterministic.
	freeNames := maps.Keys(free)
	slices.Sort(freeNames)
	for _, name := range freeNames {
		values := free[name]
		if len(values) == 0 {
			return nil, &grid.EmptyDimensionError{Name: name}
		}
		for _, v := range values {
			if v.Kind == param.KindInvalid {
				return nil, &InvalidParameterError{Name: name, Value: v}
			}
		}
		dims = append(dims, grid.Dimension{Name: name, Values: values})
		plan.names = append(plan.names, name)
	}

	plan.spec = &grid.Spec{Dimensions: dims}
	return plan, nil
}

// extractQuantDimension pulls one quantization parameter out of the grid
// under the first matching alias. Extracted names are removed from both the
// grid and the base configuration; a parameter not in the grid contributes a
// fixed single-value dimension instead.
func extractQuantDimension(
	free Grid,
	base map[string]param.Value,
	aliases []string,
	allowed []param.Kind,
	fallback param.Value,
	searched *bool,
	exactName *string,
) (param.ValueSet, error) {
	*exactName = aliases[0]
	for _, alias := range aliases {
		values, ok := free[alias]
		if !ok {
			continue
		}
		for _, v := range values {
			if v.Kind != param.KindGeneratorRef && !slices.Contains(allowed, v.Kind) {
				return nil, &InvalidParameterError{Name: alias, Value: v}
			}
		}
		*searched = true
		*exactName = alias
		delete(free, alias)
		delete(base, alias)
		return values, nil
	}

	// Not searched: a base-configured value overrides the package default.
	for _, alias := range aliases {
		if v, ok := base[alias]; ok {
			if !slices.Contains(allowed, v.Kind) {
				return nil, &InvalidParameterError{Name: alias, Value: v}
			}
			*exactName = alias
			delete(base, alias)
			return param.ValueSet{v}, nil
		}
	}
	return param.ValueSet{fallback}, nil
}

// trialConfig resolves one iterator combination into a concrete trial
// configuration, drawing generator-referenced values through the registry.
func (p *gridPlan) trialConfig(combo []param.Value, reg *param.Registry, rng *rand.Rand) (Config, error) {
	resolved := make([]param.Value, len(combo))
	for i, v := range combo {
		r, err := reg.Resolve(v, rng)
		if err != nil {
			return Config{}, err
		}
		resolved[i] = r
	}

	var cfg Config
	binCount, ok := resolved[0].IntValue()
	if !ok || binCount < 1 {
		return Config{}, &InvalidParameterError{Name: p.quant.binCountName, Value: resolved[0]}
	}
	cfg.Quantization.BinCount = binCount

	borderName, ok := resolved[1].AsString()
	if !ok {
		return Config{}, &InvalidParameterError{Name: p.quant.borderTypeName, Value: resolved[1]}
	}
	borderType, err := quantize.ParseBorderType(borderName)
	if err != nil {
		return Config{}, &InvalidParameterError{Name: p.quant.borderTypeName, Value: resolved[1], cause: err}
	}
	cfg.Quantization.BorderType = borderType

	nanName, ok := resolved[2].AsString()
	if !ok {
		return Config{}, &InvalidParameterError{Name: p.quant.nanModeName, Value: resolved[2]}
	}
	nanMode, err := quantize.ParseNaNMode(nanName)
	if err != nil {
		return Config{}, &InvalidParameterError{Name: p.quant.nanModeName, Value: resolved[2], cause: err}
	}
	cfg.Quantization.NaNMode = nanMode

	cfg.Params = maps.Clone(p.base)
	for i, name := range p.names {
		cfg.Params[name] = resolved[3+i]
	}
	return cfg, nil
}

// bestOptions partitions the winning configuration's searched values by type
// and merges searched quantization settings back in under their original
// parameter names.
func (p *gridPlan) bestOptions(cfg Config) BestOptions {
	b := BestOptions{
		Bool:   make(map[string]bool),
		Int:    make(map[string]int64),
		Uint:   make(map[string]uint64),
		Float:  make(map[string]float64),
		String: make(map[string]string),
	}
	for _, name := range p.names {
		v := cfg.Params[name]
		switch v.Kind {
		case param.KindBool:
			b.Bool[name] = v.B
		case param.KindInt:
			b.Int[name] = v.I64
		case param.KindUint:
			b.Uint[name] = v.U64
		case param.KindFloat:
			b.Float[name] = v.F64
		case param.KindString:
			b.String[name] = v.S
		}
	}
	if p.quant.binCountSearched {
		b.Int[p.quant.binCountName] = int64(cfg.Quantization.BinCount)
	}
	if p.quant.borderTypeSearched {
		b.String[p.quant.borderTypeName] = cfg.Quantization.BorderType.String()
	}
	if p.quant.nanModeSearched {
		b.String[p.quant.nanModeName] = cfg.Quantization.NaNMode.String()
	}
	return b
}

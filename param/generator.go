package param

import (
	"fmt"
	"math/rand"
)

// UnknownGeneratorError indicates a grid value referencing a random
// distribution generator that was never registered.
type UnknownGeneratorError struct {
	Name string
}

func (e *UnknownGeneratorError) Error() string {
	return fmt.Sprintf("reference to unknown random distribution generator %q", e.Name)
}

// GeneratorFunc draws one concrete value from a random distribution.
// Implementations must only use the supplied rng so that searches stay
// reproducible under a fixed seed.
type GeneratorFunc func(rng *rand.Rand) Value

// Registry maps generator names to their draw functions.
//
// A Registry is not safe for concurrent mutation; register all generators
// before starting a search.
type Registry struct {
	gens map[string]GeneratorFunc
}

// NewRegistry returns an empty generator registry.
func NewRegistry() *Registry {
	return &Registry{gens: make(map[string]GeneratorFunc)}
}

// Register adds or replaces the generator stored under name.
func (r *Registry) Register(name string, fn GeneratorFunc) {
	r.gens[name] = fn
}

// Len returns the number of registered generators.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.gens)
}

// Resolve replaces a generator reference with a freshly drawn value. Literal
// values pass through unchanged. A reference to an unregistered name fails
// with UnknownGeneratorError.
func (r *Registry) Resolve(v Value, rng *rand.Rand) (Value, error) {
	name, ok := v.GeneratorName()
	if !ok {
		return v, nil
	}
	if r == nil || r.gens[name] == nil {
		return Value{}, &UnknownGeneratorError{Name: name}
	}
	return r.gens[name](rng), nil
}

// Package grid implements the combinatorial iteration engine for
// hyperparameter search.
//
// A Spec declares a multi-dimensional, mixed-type parameter grid: one named
// ValueSet per tunable dimension, with the first three dimensions reserved for
// the quantization-affecting parameters (bin count, border type, NaN mode).
// The full cross-product is never materialized; an Iterator walks the grid
// lazily as a mixed-radix counter, either exhaustively (Cartesian) or by
// sampling a fixed number of combinations in random order (Randomized).
//
// Exhaustive enumeration:
//
//	it, err := grid.Cartesian(spec)
//	for {
//	    combo, ok := it.Next()
//	    if !ok {
//	        break
//	    }
//	    // combo holds one value per dimension; valid only until the next
//	    // call to Next.
//	}
//
// Random sampling of 20 distinct combinations:
//
//	it, err := grid.Randomized(spec, 20, false, rand.New(rand.NewSource(42)))
//
// Randomized iterators return their sample sorted by underlying combination
// index, not in draw order, so that the grid is still walked front to back.
//
// An Iterator carries mutable cursor state and must be advanced by exactly
// one goroutine.
package grid

// Package engine provides the randomness sources and sampling helpers shared
// by board generation, tile effects and the turn engine.
package engine

// RNG is the randomness source every game component draws from.
// *math/rand.Rand satisfies it.
type RNG interface {
	Intn(n int) int
	Float64() float64
}

// IntRange returns a uniform integer in the closed range [lo, hi].
func IntRange(rng RNG, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// Pick returns a uniformly chosen element of items. items must not be empty.
func Pick[T any](rng RNG, items []T) T {
	return items[rng.Intn(len(items))]
}

// Choose samples one item from a weighted categorical distribution. Weights
// need not be normalised; non-positive weights are never chosen unless every
// weight is non-positive, in which case the last item is returned.
func Choose[T any](rng RNG, items []T, weights []float64) T {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	target := rng.Float64() * total
	cumulative := 0.0
	for i, item := range items {
		if i >= len(weights) || weights[i] <= 0 {
			continue
		}
		cumulative += weights[i]
		if target < cumulative {
			return item
		}
	}
	return items[len(items)-1]
}

package engine

import "math/rand"

// PickOne returns a uniformly random element of candidates.
func PickOne[T any](rng *rand.Rand, candidates []T) (T, error) {
	var zero T
	if len(candidates) == 0 {
		return zero, ErrEmptyInput
	}
	return candidates[rng.Intn(len(candidates))], nil
}

// Shuffle returns a new slice with the elements of items in uniformly random
// order. The input is left unmodified.
func Shuffle[T any](rng *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

package algorithms

import "cmp"

// clamp restricts v to [lo, hi].
func clamp[T cmp.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

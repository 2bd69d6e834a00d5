package utils

import "sort"

// Interp linearly interpolates ys at x over ascending xs, holding the boundary values flat
// outside [xs[0], xs[n-1]]. When xs holds repeated values the last occurrence wins.
//
// It assumes len(xs) == len(ys) > 0.
func Interp(x float64, xs, ys []float64) float64 {
	n := len(xs)
	if x < xs[0] {
		i := 0
		for i+1 < n && xs[i+1] == xs[0] {
			i++
		}
		return ys[i]
	}
	if n == 1 || x >= xs[n-1] {
		return ys[n-1]
	}

	// First index with xs[j] > x; xs[j-1] <= x < xs[j].
	j := sort.Search(n, func(i int) bool {
		return xs[i] > x
	})
	i := j - 1
	if xs[i] == x {
		return ys[i]
	}
	w := (x - xs[i]) / (xs[j] - xs[i])
	return ys[i] + w*(ys[j]-ys[i])
}

package curve

import "sort"

// bracket returns the indices of the two adjacent tenors that bracket t.
// If t is outside the range, it returns the nearest boundary pair.
//
// It assumes tenors is strictly increasing with at least two elements.
func bracket(tenors []float64, t float64) (int, int) {
	// Binary search for first tenor >= t
	idx := sort.Search(len(tenors), func(i int) bool {
		return tenors[i] >= t
	})

	if idx <= 0 {
		return 0, 1
	}
	if idx >= len(tenors) {
		return len(tenors) - 2, len(tenors) - 1
	}
	return idx - 1, idx
}

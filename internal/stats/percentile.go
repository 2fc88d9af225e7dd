// Package stats holds the numeric helpers behind the outlier filter and the
// descriptive summary.
package stats

import (
	"math"
)

// QuantileSorted returns the q-th quantile (0 <= q <= 1) of sorted using
// linear interpolation between closest ranks (Hyndman and Fan type 7, the
// usual "linear" method of statistics packages). The input must be sorted
// ascending and free of NaN. It returns NaN when sorted is empty.
func QuantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}

	if q <= 0 {
		return sorted[0]
	}

	if q >= 1 {
		return sorted[n-1]
	}

	rank := q * float64(n-1)
	lo := int(math.Floor(rank))
	hi := lo + 1

	if hi >= n {
		return sorted[lo]
	}

	return lerp(sorted[lo], sorted[hi], rank-float64(lo))
}

// lerp interpolates from the nearer end point so that t close to 1 lands
// exactly on b.
func lerp(a, b, t float64) float64 {
	diff := b - a
	if t >= 0.5 {
		return b - diff*(1-t)
	}

	return a + diff*t
}

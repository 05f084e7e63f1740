package metrics

import (
	"math"
	"slices"
)

// z95 is the two-sided normal quantile for a 95% interval.
const z95 = 1.96

// Mean computes the arithmetic mean of a float64 slice.
// Returns 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Round snaps v to 4 decimal places. Stored scores are rounded so that the
// mean of identical samples equals the sample and lands on its grade bin.
func Round(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Variance computes the population variance of a float64 slice.
// Returns 0 for empty input.
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return sumSq / float64(len(values))
}

// StdDev computes the population standard deviation.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// Median returns the middle value of the sorted input. On even counts it
// returns the lower of the two middle values (index n/2-1), not their
// average. Returns 0 for empty input. The input is not modified.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return sorted[(n-1)/2]
}

// MinMax returns the smallest and largest value. Returns (0, 0) for empty
// input.
func MinMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return slices.Min(values), slices.Max(values)
}

// ConfidenceHalfWidth95 returns the half-width of the 95% normal-approximation
// interval around the mean, 1.96 * σ / √n, using the population standard
// deviation. Returns 0 for empty input.
func ConfidenceHalfWidth95(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	return z95 * StdDev(values) / math.Sqrt(float64(n))
}

// IsUnanimous returns true when every value is identical, i.e. the samples
// agree perfectly.
func IsUnanimous(values []float64) bool {
	if len(values) == 0 {
		return false
	}
	lo, hi := MinMax(values)
	return lo == hi
}

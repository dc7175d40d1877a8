package util

import (
	"math"
	"math/rand/v2"
)

type number interface {
	~uint32 | ~uint64 | ~int | ~float32 | ~float64
}

// sum the vector
func VectorSum[T number](data []T) T {
	var sum T
	for _, d := range data {
		sum += d
	}
	return sum
}

// Normalize scales dist in place so that it sums to one and returns
// the mass it had before scaling.
func Normalize(dist []float64) float64 {
	total := VectorSum(dist)
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return total
	}
	inv := 1.0 / total
	for i := range dist {
		dist[i] *= inv
	}
	return total
}

// Sample draws an index from the unnormalized categorical distribution
// dist with mass total. A candidate with zero mass is never returned.
// It returns -1 if no candidate has positive mass.
func Sample(rng *rand.Rand, dist []float64, total float64) int {
	u := rng.Float64() * total
	cumsum := 0.0
	last := -1
	for k, p := range dist {
		if p <= 0 {
			continue
		}
		cumsum += p
		last = k
		if u < cumsum {
			return k
		}
	}
	// rounding can leave u just above the accumulated sum
	return last
}

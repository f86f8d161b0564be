package activity

import "math"

// NormalizeVector scales v to unit length and returns the result as a new
// slice, leaving the input untouched. A zero or empty vector comes back as
// an all-zero vector of the same length.
func NormalizeVector(v []float32) []float32 {
	out := make([]float32, len(v))
	if len(v) == 0 {
		return out
	}

	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	if sum == 0 {
		return out
	}

	inv := float32(1 / math.Sqrt(sum))
	for i, val := range v {
		out[i] = val * inv
	}
	return out
}

package stats

import (
	"fmt"
	"math"
	"sort"
)

// Fences returns Tukey's bounds Q1 - k*IQR and Q3 + k*IQR over the non-NaN
// values of x. At least two values are required.
func Fences(x []float64, k float64) (lower, upper float64, err error) {
	if math.IsNaN(k) || math.IsInf(k, 0) || k < 0 {
		return 0, 0, fmt.Errorf("fence multiplier %v: %w", k, ErrInvalidInput)
	}
	cp := Present(x)
	if len(cp) < 2 {
		return 0, 0, fmt.Errorf("fences need at least 2 values, have %d: %w", len(cp), ErrInvalidInput)
	}
	sort.Float64s(cp)
	q1 := sortedQuantile(cp, 0.25)
	q3 := sortedQuantile(cp, 0.75)
	iqr := q3 - q1
	return q1 - k*iqr, q3 + k*iqr, nil
}

// UpperOutliers scores each value by how far it lies above the upper fence.
// Values inside the fence score 0; NaN values score NaN. The result has the
// same length and order as x.
func UpperOutliers(x []float64, k float64) ([]float64, error) {
	_, upper, err := Fences(x, k)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, v := range x {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		out[i] = math.Max(v-upper, 0)
	}
	return out, nil
}

// LowerOutliers scores each value by how far it lies below the lower fence.
func LowerOutliers(x []float64, k float64) ([]float64, error) {
	lower, _, err := Fences(x, k)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, v := range x {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		out[i] = math.Max(lower-v, 0)
	}
	return out, nil
}

// CountPositive returns how many scores are strictly positive.
func CountPositive(scores []float64) int {
	n := 0
	for _, s := range scores {
		if s > 0 {
			n++
		}
	}
	return n
}

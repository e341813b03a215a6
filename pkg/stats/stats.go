package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrInvalidInput is returned for empty or degenerate numeric input and
	// out-of-range parameters.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDegenerateColumn is returned when a column has zero range or spread
	// at fit time.
	ErrDegenerateColumn = errors.New("degenerate column")
	// ErrNotFitted is returned by Transform before Fit.
	ErrNotFitted = errors.New("not fitted")
)

// Present returns the non-NaN values of x, in order.
func Present(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Mean computes the average of a slice.
func Mean(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(n)
}

// Variance computes the population variance of a slice.
func Variance(x []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return 0
	}
	mean := Mean(x)
	ss := 0.0
	for _, v := range x {
		d := v - mean
		ss += d * d
	}
	return ss / n
}

// Std computes the population standard deviation of a slice.
func Std(x []float64) float64 {
	return math.Sqrt(Variance(x))
}

// MinMax returns the minimum and maximum values in the slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	min, max := x[0], x[0]
	for i := 1; i < len(x); i++ {
		if x[i] < min {
			min = x[i]
		} else if x[i] > max {
			max = x[i]
		}
	}
	return min, max
}

// Median returns the median value of the slice (allocates a copy).
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	mid := n >> 1
	if n&1 == 0 {
		return (cp[mid-1] + cp[mid]) * 0.5
	}
	return cp[mid]
}

// Quantile returns the p-th quantile (0 <= p <= 1) of the non-NaN values of x,
// interpolating linearly between the two closest ranks at p*(n-1).
func Quantile(x []float64, p float64) (float64, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return math.NaN(), fmt.Errorf("quantile %v outside [0, 1]: %w", p, ErrInvalidInput)
	}
	cp := Present(x)
	n := len(cp)
	if n == 0 {
		return math.NaN(), fmt.Errorf("quantile of empty column: %w", ErrInvalidInput)
	}
	sort.Float64s(cp)
	return sortedQuantile(cp, p), nil
}

func sortedQuantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	rank := p * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	weight := rank - float64(lower)
	if upper >= n {
		return sorted[lower]
	}
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Summary is a describe-style digest of a numeric column.
type Summary struct {
	Count   int
	Missing int
	Mean    float64
	Std     float64
	Min     float64
	Q1      float64
	Median  float64
	Q3      float64
	Max     float64
}

// Describe summarizes the non-NaN values of x.
func Describe(x []float64) (Summary, error) {
	cp := Present(x)
	if len(cp) == 0 {
		return Summary{}, fmt.Errorf("describe empty column: %w", ErrInvalidInput)
	}
	sort.Float64s(cp)
	return Summary{
		Count:   len(cp),
		Missing: len(x) - len(cp),
		Mean:    Mean(cp),
		Std:     Std(cp),
		Min:     cp[0],
		Q1:      sortedQuantile(cp, 0.25),
		Median:  sortedQuantile(cp, 0.5),
		Q3:      sortedQuantile(cp, 0.75),
		Max:     cp[len(cp)-1],
	}, nil
}

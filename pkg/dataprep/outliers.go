package dataprep

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"wrangle/pkg/data"
	"wrangle/pkg/stats"
)

// Suffixes of the score columns added by OutlierScores.
const (
	UpperSuffix = "_upper_outliers"
	LowerSuffix = "_lower_outliers"
)

// OutlierScores appends, for each named numeric column, its upper and lower
// Tukey-fence scores as <col>_upper_outliers and <col>_lower_outliers.
// With no columns named, every numeric column with at least two values is
// scored and the rest are skipped.
func OutlierScores(ds *data.Dataset, k float64, columns ...string) (*data.Dataset, error) {
	fenced, err := fenceColumns(ds, k, columns)
	if err != nil {
		return nil, err
	}
	var fields []data.Field
	var cols [][]data.Value
	for _, c := range fenced {
		up, lo := scores(c.x, c.lower, c.upper)
		fields = append(fields,
			data.Field{Name: c.name + UpperSuffix, Kind: data.Numeric},
			data.Field{Name: c.name + LowerSuffix, Kind: data.Numeric},
		)
		cols = append(cols, floats(up), floats(lo))
	}
	return ds.WithColumns(fields, cols)
}

type columnFences struct {
	name         string
	x            []float64
	lower, upper float64
}

// fenceColumns computes the fences of the named columns. When none are named
// it walks every numeric column and skips those too sparse to fence.
func fenceColumns(ds *data.Dataset, k float64, columns []string) ([]columnFences, error) {
	all := len(columns) == 0
	if all {
		columns = NumericColumns(ds)
	}
	out := make([]columnFences, 0, len(columns))
	for _, name := range columns {
		x, err := ds.Float64s(name)
		if err != nil {
			return nil, err
		}
		lower, upper, err := stats.Fences(x, k)
		if all && errors.Is(err, stats.ErrInvalidInput) && len(stats.Present(x)) < 2 {
			slog.Debug("skipping outlier column", "column", name, "reason", err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		out = append(out, columnFences{name: name, x: x, lower: lower, upper: upper})
	}
	return out, nil
}

// scores returns the distances above upper and below lower; NaN stays NaN.
func scores(x []float64, lower, upper float64) (up, lo []float64) {
	up = make([]float64, len(x))
	lo = make([]float64, len(x))
	for i, v := range x {
		if math.IsNaN(v) {
			up[i], lo[i] = math.NaN(), math.NaN()
			continue
		}
		up[i] = math.Max(v-upper, 0)
		lo[i] = math.Max(lower-v, 0)
	}
	return up, lo
}

// NumericColumns returns the names of the numeric columns in schema order.
func NumericColumns(ds *data.Dataset) []string {
	var out []string
	for _, f := range ds.Schema() {
		if f.Kind == data.Numeric {
			out = append(out, f.Name)
		}
	}
	return out
}

func floats(x []float64) []data.Value {
	out := make([]data.Value, len(x))
	for i, v := range x {
		out[i] = data.Float(v)
	}
	return out
}

// OutlierSummary describes the fences of one column and how many values fall
// beyond each.
type OutlierSummary struct {
	Column string
	Lower  float64
	Upper  float64
	Below  int
	Above  int
}

// SummarizeOutliers computes fences and outlier counts for each named numeric
// column, or every numeric column with at least two values when none is named.
func SummarizeOutliers(ds *data.Dataset, k float64, columns ...string) ([]OutlierSummary, error) {
	fenced, err := fenceColumns(ds, k, columns)
	if err != nil {
		return nil, err
	}
	out := make([]OutlierSummary, 0, len(fenced))
	for _, c := range fenced {
		up, lo := scores(c.x, c.lower, c.upper)
		out = append(out, OutlierSummary{
			Column: c.name,
			Lower:  c.lower,
			Upper:  c.upper,
			Below:  stats.CountPositive(lo),
			Above:  stats.CountPositive(up),
		})
	}
	return out, nil
}

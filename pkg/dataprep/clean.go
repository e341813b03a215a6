package dataprep

import (
	"fmt"
	"log/slog"
	"math"

	"wrangle/pkg/data"
	"wrangle/pkg/stats"
)

// Threshold converts a completeness proportion into the minimum count of
// non-missing values out of total. Halves round away from zero, so
// 0.85 of 10 requires 9.
func Threshold(prop float64, total int) int {
	return int(math.Round(prop * float64(total)))
}

// HandleMissingValues drops columns, then rows, that fail a completeness
// threshold. Columns need at least round(propRequiredColumn * rows)
// non-missing values; rows then need at least
// round(propRequiredRow * remaining columns) non-missing values over the
// columns that survived. The input is not modified.
func HandleMissingValues(ds *data.Dataset, propRequiredColumn, propRequiredRow float64) (*data.Dataset, error) {
	return MissingValueFilter{Column: propRequiredColumn, Row: propRequiredRow}.Apply(ds)
}

// MissingValueFilter holds the completeness proportions for HandleMissingValues.
type MissingValueFilter struct {
	Column float64
	Row    float64
	Logger *slog.Logger
}

// Apply runs the column pass followed by the row pass.
func (f MissingValueFilter) Apply(ds *data.Dataset) (*data.Dataset, error) {
	if err := checkProportion("column", f.Column); err != nil {
		return nil, err
	}
	if err := checkProportion("row", f.Row); err != nil {
		return nil, err
	}
	log := f.Logger
	if log == nil {
		log = slog.Default()
	}

	colThresh := Threshold(f.Column, ds.Len())
	var drop []string
	for _, c := range MissingByColumn(ds) {
		if ds.Len()-c.Count < colThresh {
			log.Debug("dropping column", "column", c.Name, "missing", c.Count, "required", colThresh)
			drop = append(drop, c.Name)
		}
	}
	out, err := ds.Drop(drop...)
	if err != nil {
		return nil, err
	}

	rowThresh := Threshold(f.Row, out.Width())
	rows := MissingByRow(out)
	kept := out.Filter(func(i int) bool {
		return out.Width()-rows[i].Count >= rowThresh
	})

	log.Info("missing value filter applied",
		"column_threshold", colThresh,
		"row_threshold", rowThresh,
		"columns_dropped", len(drop),
		"rows_dropped", out.Len()-kept.Len(),
	)
	return kept, nil
}

// DropMissing removes every row with at least one missing value.
func DropMissing(ds *data.Dataset) *data.Dataset {
	rows := MissingByRow(ds)
	return ds.Filter(func(i int) bool { return rows[i].Count == 0 })
}

func checkProportion(what string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%s completeness %v outside [0, 1]: %w", what, p, stats.ErrInvalidInput)
	}
	return nil
}

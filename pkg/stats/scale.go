package stats

import (
	"fmt"
	"math"

	"wrangle/pkg/data"
)

// MinMaxParams are the fitted bounds of one column.
type MinMaxParams struct {
	Min float64
	Max float64
}

// MinMaxScaler maps each fitted column to (x - min) / (max - min), with min
// and max taken from the training partition only.
type MinMaxScaler struct {
	Columns []string
	params  map[string]MinMaxParams
}

func NewMinMaxScaler(columns ...string) *MinMaxScaler {
	return &MinMaxScaler{Columns: columns}
}

// Fit records the min and max of each column over the non-missing train values.
// Calling Fit again discards previous parameters.
func (s *MinMaxScaler) Fit(train *data.Dataset) error {
	params := make(map[string]MinMaxParams, len(s.Columns))
	for _, name := range s.Columns {
		vals, err := fitColumn(train, name)
		if err != nil {
			return err
		}
		min, max := MinMax(vals)
		if min == max {
			return fmt.Errorf("column %q: min == max == %v: %w", name, min, ErrDegenerateColumn)
		}
		params[name] = MinMaxParams{Min: min, Max: max}
	}
	s.params = params
	return nil
}

// Params returns the fitted bounds of a column.
func (s *MinMaxScaler) Params(column string) (MinMaxParams, bool) {
	p, ok := s.params[column]
	return p, ok
}

// Transform rescales the fitted columns of ds. Values outside the train range
// fall outside [0, 1] and are left that way; missing values stay missing.
func (s *MinMaxScaler) Transform(ds *data.Dataset) (*data.Dataset, error) {
	if s.params == nil {
		return nil, fmt.Errorf("min-max scaler: %w", ErrNotFitted)
	}
	return mapColumns(ds, s.Columns, func(name string, v float64) float64 {
		p := s.params[name]
		return (v - p.Min) / (p.Max - p.Min)
	})
}

// InverseTransform maps scaled values back to the original units.
func (s *MinMaxScaler) InverseTransform(ds *data.Dataset) (*data.Dataset, error) {
	if s.params == nil {
		return nil, fmt.Errorf("min-max scaler: %w", ErrNotFitted)
	}
	return mapColumns(ds, s.Columns, func(name string, v float64) float64 {
		p := s.params[name]
		return v*(p.Max-p.Min) + p.Min
	})
}

// FitTransform fits on train and returns train transformed.
func (s *MinMaxScaler) FitTransform(train *data.Dataset) (*data.Dataset, error) {
	if err := s.Fit(train); err != nil {
		return nil, err
	}
	return s.Transform(train)
}

// StandardParams are the fitted mean and population standard deviation.
type StandardParams struct {
	Mean float64
	Std  float64
}

// StandardScaler maps each fitted column to zero mean and unit variance
// using train statistics.
type StandardScaler struct {
	Columns []string
	params  map[string]StandardParams
}

func NewStandardScaler(columns ...string) *StandardScaler {
	return &StandardScaler{Columns: columns}
}

func (s *StandardScaler) Fit(train *data.Dataset) error {
	params := make(map[string]StandardParams, len(s.Columns))
	for _, name := range s.Columns {
		vals, err := fitColumn(train, name)
		if err != nil {
			return err
		}
		std := Std(vals)
		if std == 0 {
			return fmt.Errorf("column %q: zero standard deviation: %w", name, ErrDegenerateColumn)
		}
		params[name] = StandardParams{Mean: Mean(vals), Std: std}
	}
	s.params = params
	return nil
}

// Params returns the fitted mean and deviation of a column.
func (s *StandardScaler) Params(column string) (StandardParams, bool) {
	p, ok := s.params[column]
	return p, ok
}

func (s *StandardScaler) Transform(ds *data.Dataset) (*data.Dataset, error) {
	if s.params == nil {
		return nil, fmt.Errorf("standard scaler: %w", ErrNotFitted)
	}
	return mapColumns(ds, s.Columns, func(name string, v float64) float64 {
		p := s.params[name]
		return (v - p.Mean) / p.Std
	})
}

func (s *StandardScaler) FitTransform(train *data.Dataset) (*data.Dataset, error) {
	if err := s.Fit(train); err != nil {
		return nil, err
	}
	return s.Transform(train)
}

// fitColumn returns the non-missing values of a numeric column, failing when
// there are none.
func fitColumn(train *data.Dataset, name string) ([]float64, error) {
	col, err := train.Float64s(name)
	if err != nil {
		return nil, err
	}
	vals := Present(col)
	if len(vals) == 0 {
		return nil, fmt.Errorf("column %q: no values to fit: %w", name, ErrInvalidInput)
	}
	return vals, nil
}

func mapColumns(ds *data.Dataset, columns []string, f func(name string, v float64) float64) (*data.Dataset, error) {
	out := ds
	for _, name := range columns {
		col, err := out.Float64s(name)
		if err != nil {
			return nil, err
		}
		vals := make([]data.Value, len(col))
		for i, v := range col {
			if math.IsNaN(v) {
				vals[i] = data.NA
				continue
			}
			vals[i] = data.Float(f(name, v))
		}
		if out, err = out.Replace(name, vals); err != nil {
			return nil, err
		}
	}
	return out, nil
}

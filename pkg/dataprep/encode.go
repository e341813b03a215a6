package dataprep

import (
	"errors"
	"fmt"
	"sort"

	"wrangle/pkg/data"
	"wrangle/pkg/stats"
)

// ErrUnknownCategory is returned when Transform meets a category that Fit
// never saw.
var ErrUnknownCategory = errors.New("unknown category")

// UnknownPolicy decides how OneHotEncoder treats unseen categories.
type UnknownPolicy int

const (
	// UnknownError fails the transform.
	UnknownError UnknownPolicy = iota
	// UnknownIgnore encodes the row as all zeros.
	UnknownIgnore
)

// OneHotEncoder learns the sorted category vocabulary of each column from the
// training partition and appends one 0/1 indicator column per category,
// named by the category value.
type OneHotEncoder struct {
	Columns       []string
	HandleUnknown UnknownPolicy
	vocab         map[string][]string
}

func NewOneHotEncoder(columns ...string) *OneHotEncoder {
	return &OneHotEncoder{Columns: columns}
}

// Fit learns each column's distinct non-missing values in lexicographic order.
// Calling Fit again discards the previous vocabulary.
func (e *OneHotEncoder) Fit(train *data.Dataset) error {
	vocab := make(map[string][]string, len(e.Columns))
	for _, name := range e.Columns {
		col, err := labels(train, name)
		if err != nil {
			return err
		}
		seen := map[string]struct{}{}
		for _, v := range col {
			if s, ok := v.Label(); ok {
				seen[s] = struct{}{}
			}
		}
		if len(seen) == 0 {
			return fmt.Errorf("column %q: no categories to fit: %w", name, stats.ErrInvalidInput)
		}
		cats := make([]string, 0, len(seen))
		for s := range seen {
			cats = append(cats, s)
		}
		sort.Strings(cats)
		vocab[name] = cats
	}
	e.vocab = vocab
	return nil
}

// Categories returns the fitted vocabulary of a column.
func (e *OneHotEncoder) Categories(column string) []string {
	return append([]string(nil), e.vocab[column]...)
}

// Transform appends the indicator columns of every fitted column. A missing
// input value yields missing indicators.
func (e *OneHotEncoder) Transform(ds *data.Dataset) (*data.Dataset, error) {
	if e.vocab == nil {
		return nil, fmt.Errorf("one-hot encoder: %w", stats.ErrNotFitted)
	}
	var fields []data.Field
	var cols [][]data.Value
	for _, name := range e.Columns {
		col, err := labels(ds, name)
		if err != nil {
			return nil, err
		}
		cats := e.vocab[name]
		pos := make(map[string]int, len(cats))
		ind := make([][]data.Value, len(cats))
		for k, c := range cats {
			pos[c] = k
			ind[k] = make([]data.Value, len(col))
			fields = append(fields, data.Field{Name: c, Kind: data.Numeric})
		}
		for i, v := range col {
			s, ok := v.Label()
			if !ok {
				for k := range ind {
					ind[k][i] = data.NA
				}
				continue
			}
			hit, known := pos[s]
			if !known && e.HandleUnknown == UnknownError {
				return nil, fmt.Errorf("column %q row %d: %q: %w", name, ds.Index(i), s, ErrUnknownCategory)
			}
			for k := range ind {
				if known && k == hit {
					ind[k][i] = data.Float(1)
				} else {
					ind[k][i] = data.Float(0)
				}
			}
		}
		cols = append(cols, ind...)
	}
	return ds.WithColumns(fields, cols)
}

// FitTransform fits on train and returns train transformed.
func (e *OneHotEncoder) FitTransform(train *data.Dataset) (*data.Dataset, error) {
	if err := e.Fit(train); err != nil {
		return nil, err
	}
	return e.Transform(train)
}

func labels(ds *data.Dataset, name string) ([]data.Value, error) {
	kind, err := ds.Kind(name)
	if err != nil {
		return nil, err
	}
	if kind != data.Categorical {
		return nil, fmt.Errorf("column %q: want %s, have %s: %w", name, data.Categorical, kind, data.ErrSchemaMismatch)
	}
	return ds.Column(name)
}

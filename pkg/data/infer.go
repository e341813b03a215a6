package data

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// missingTokens are the text spellings read as missing.
var missingTokens = map[string]struct{}{
	"":      {},
	"NA":    {},
	"NaN":   {},
	"nan":   {},
	"<nil>": {},
	"NULL":  {},
}

// IsMissingToken reports whether s spells a missing value.
func IsMissingToken(s string) bool {
	_, ok := missingTokens[strings.TrimSpace(s)]
	return ok
}

// FromRaw builds a dataset from loosely typed cells, as returned by a database
// driver or read from a flat file. A column is numeric when every non-missing
// cell converts to a number; hints override the inferred kind.
func FromRaw(names []string, index []int, raw [][]any, hints map[string]Kind) (*Dataset, error) {
	cells := make([][]any, len(raw))
	for i, row := range raw {
		if len(row) != len(names) {
			return nil, fmt.Errorf("row %d has %d values for %d columns: %w", i, len(row), len(names), ErrSchemaMismatch)
		}
		cells[i] = make([]any, len(row))
		for j, v := range row {
			cells[i][j] = normalize(v)
		}
	}

	schema := make(Schema, len(names))
	for j, name := range names {
		kind, ok := hints[name]
		if !ok {
			kind = inferKind(cells, j)
		}
		schema[j] = Field{Name: name, Kind: kind}
	}

	rows := make([][]Value, len(cells))
	for i, row := range cells {
		out := make([]Value, len(row))
		for j, v := range row {
			val, err := convert(v, schema[j].Kind)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i, names[j], err)
			}
			out[j] = val
		}
		rows[i] = out
	}
	if index == nil {
		return New(schema, rows)
	}
	return NewIndexed(schema, index, rows)
}

// normalize maps driver values onto nil, string, or a cast-friendly scalar.
func normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case []byte:
		return normalize(string(t))
	case string:
		if IsMissingToken(t) {
			return nil
		}
		return strings.TrimSpace(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return t
	}
}

func inferKind(cells [][]any, j int) Kind {
	for _, row := range cells {
		v := row[j]
		if v == nil {
			continue
		}
		if _, err := cast.ToFloat64E(v); err != nil {
			return Categorical
		}
	}
	return Numeric
}

func convert(v any, k Kind) (Value, error) {
	if v == nil {
		return NA, nil
	}
	if k == Numeric {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return NA, fmt.Errorf("%v is not numeric: %w", v, ErrSchemaMismatch)
		}
		return Float(f), nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return NA, fmt.Errorf("%v is not a label: %w", v, ErrSchemaMismatch)
	}
	return Text(s), nil
}

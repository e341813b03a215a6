package data

import (
	"fmt"
	"math"
)

// Dataset is an immutable table. Every operation returns a new Dataset and
// leaves the receiver untouched, so rows may be shared between datasets.
type Dataset struct {
	schema Schema
	index  []int
	rows   [][]Value
}

// New builds a dataset whose row index is 0..len(rows)-1.
func New(schema Schema, rows [][]Value) (*Dataset, error) {
	index := make([]int, len(rows))
	for i := range index {
		index[i] = i
	}
	return NewIndexed(schema, index, rows)
}

// NewIndexed builds a dataset with an explicit row index.
func NewIndexed(schema Schema, index []int, rows [][]Value) (*Dataset, error) {
	if err := schema.validate(); err != nil {
		return nil, err
	}
	if len(index) != len(rows) {
		return nil, fmt.Errorf("index has %d entries for %d rows: %w", len(index), len(rows), ErrSchemaMismatch)
	}
	out := &Dataset{
		schema: schema.clone(),
		index:  make([]int, len(index)),
		rows:   make([][]Value, len(rows)),
	}
	copy(out.index, index)
	for i, row := range rows {
		if len(row) != len(schema) {
			return nil, fmt.Errorf("row %d has %d values for %d columns: %w", index[i], len(row), len(schema), ErrSchemaMismatch)
		}
		for j, v := range row {
			if !v.fits(schema[j].Kind) {
				return nil, fmt.Errorf("row %d column %q: value %q is not %s: %w",
					index[i], schema[j].Name, v.String(), schema[j].Kind, ErrSchemaMismatch)
			}
		}
		cp := make([]Value, len(row))
		copy(cp, row)
		out.rows[i] = cp
	}
	return out, nil
}

// Schema returns a copy of the dataset's schema.
func (d *Dataset) Schema() Schema { return d.schema.clone() }

// Names returns the column names in order.
func (d *Dataset) Names() []string { return d.schema.Names() }

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Width returns the number of columns.
func (d *Dataset) Width() int { return len(d.schema) }

// Index returns the row id at position i.
func (d *Dataset) Index(i int) int { return d.index[i] }

// Indices returns all row ids in order.
func (d *Dataset) Indices() []int {
	out := make([]int, len(d.index))
	copy(out, d.index)
	return out
}

// Row returns a copy of the values at position i.
func (d *Dataset) Row(i int) []Value {
	out := make([]Value, len(d.rows[i]))
	copy(out, d.rows[i])
	return out
}

// At returns the value at row position i in the named column.
func (d *Dataset) At(i int, name string) (Value, error) {
	j, ok := d.schema.Lookup(name)
	if !ok {
		return NA, fmt.Errorf("column %q: absent: %w", name, ErrSchemaMismatch)
	}
	return d.rows[i][j], nil
}

// Column returns the values of the named column.
func (d *Dataset) Column(name string) ([]Value, error) {
	j, ok := d.schema.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("column %q: absent: %w", name, ErrSchemaMismatch)
	}
	out := make([]Value, len(d.rows))
	for i, row := range d.rows {
		out[i] = row[j]
	}
	return out, nil
}

// Float64s returns a numeric column with NaN in place of missing values.
func (d *Dataset) Float64s(name string) ([]float64, error) {
	j, err := d.lookupKind(name, Numeric)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(d.rows))
	for i, row := range d.rows {
		f, ok := row[j].Float64()
		if !ok {
			f = math.NaN()
		}
		out[i] = f
	}
	return out, nil
}

// Kind returns the kind of the named column.
func (d *Dataset) Kind(name string) (Kind, error) {
	j, ok := d.schema.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("column %q: absent: %w", name, ErrSchemaMismatch)
	}
	return d.schema[j].Kind, nil
}

// Select returns a dataset holding only the named columns, in the given order.
func (d *Dataset) Select(names ...string) (*Dataset, error) {
	pos := make([]int, len(names))
	schema := make(Schema, len(names))
	for k, name := range names {
		j, ok := d.schema.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("column %q: absent: %w", name, ErrSchemaMismatch)
		}
		pos[k] = j
		schema[k] = d.schema[j]
	}
	if err := schema.validate(); err != nil {
		return nil, err
	}
	rows := make([][]Value, len(d.rows))
	for i, row := range d.rows {
		out := make([]Value, len(pos))
		for k, j := range pos {
			out[k] = row[j]
		}
		rows[i] = out
	}
	return &Dataset{schema: schema, index: d.Indices(), rows: rows}, nil
}

// Drop returns a dataset without the named columns.
func (d *Dataset) Drop(names ...string) (*Dataset, error) {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		if !d.schema.Has(name) {
			return nil, fmt.Errorf("column %q: absent: %w", name, ErrSchemaMismatch)
		}
		drop[name] = struct{}{}
	}
	keep := make([]string, 0, len(d.schema))
	for _, f := range d.schema {
		if _, ok := drop[f.Name]; !ok {
			keep = append(keep, f.Name)
		}
	}
	return d.Select(keep...)
}

// Filter returns the rows whose position satisfies keep, in order.
func (d *Dataset) Filter(keep func(i int) bool) *Dataset {
	var pos []int
	for i := range d.rows {
		if keep(i) {
			pos = append(pos, i)
		}
	}
	return d.Take(pos)
}

// Take returns the rows at the given positions, in the given order.
func (d *Dataset) Take(positions []int) *Dataset {
	out := &Dataset{
		schema: d.schema.clone(),
		index:  make([]int, len(positions)),
		rows:   make([][]Value, len(positions)),
	}
	for k, i := range positions {
		out.index[k] = d.index[i]
		out.rows[k] = d.rows[i]
	}
	return out
}

// WithColumns appends columns after the existing ones. Each values slice must
// have one entry per row.
func (d *Dataset) WithColumns(fields []Field, values [][]Value) (*Dataset, error) {
	if len(fields) != len(values) {
		return nil, fmt.Errorf("%d fields for %d columns: %w", len(fields), len(values), ErrSchemaMismatch)
	}
	schema := append(d.schema.clone(), fields...)
	if err := schema.validate(); err != nil {
		return nil, err
	}
	for k, col := range values {
		if len(col) != len(d.rows) {
			return nil, fmt.Errorf("column %q has %d values for %d rows: %w", fields[k].Name, len(col), len(d.rows), ErrSchemaMismatch)
		}
	}
	rows := make([][]Value, len(d.rows))
	for i, row := range d.rows {
		out := make([]Value, len(row), len(schema))
		copy(out, row)
		for _, col := range values {
			out = append(out, col[i])
		}
		rows[i] = out
	}
	return NewIndexed(schema, d.index, rows)
}

// Replace returns a dataset where the named column holds values. The column
// keeps its kind.
func (d *Dataset) Replace(name string, values []Value) (*Dataset, error) {
	j, ok := d.schema.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("column %q: absent: %w", name, ErrSchemaMismatch)
	}
	if len(values) != len(d.rows) {
		return nil, fmt.Errorf("column %q has %d values for %d rows: %w", name, len(values), len(d.rows), ErrSchemaMismatch)
	}
	rows := make([][]Value, len(d.rows))
	for i, row := range d.rows {
		out := make([]Value, len(row))
		copy(out, row)
		out[j] = values[i]
		rows[i] = out
	}
	return NewIndexed(d.schema, d.index, rows)
}

func (d *Dataset) lookupKind(name string, k Kind) (int, error) {
	j, ok := d.schema.Lookup(name)
	if !ok {
		return -1, fmt.Errorf("column %q: absent: %w", name, ErrSchemaMismatch)
	}
	if d.schema[j].Kind != k {
		return -1, fmt.Errorf("column %q: want %s, have %s: %w", name, k, d.schema[j].Kind, ErrSchemaMismatch)
	}
	return j, nil
}

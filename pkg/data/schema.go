package data

import (
	"errors"
	"fmt"
)

// ErrSchemaMismatch is returned when a column is absent, has the wrong kind,
// or would be duplicated.
var ErrSchemaMismatch = errors.New("schema mismatch")

// Kind is the nominal type of a column.
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field names a column and its kind.
type Field struct {
	Name string
	Kind Kind
}

// Schema describes the ordered columns of a dataset.
type Schema []Field

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Lookup returns the position of the named column.
func (s Schema) Lookup(name string) (int, bool) {
	for i, f := range s {
		if f.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Has reports whether the named column exists.
func (s Schema) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Require checks that every field of want is present in s with the same kind.
func (s Schema) Require(want ...Field) error {
	for _, f := range want {
		i, ok := s.Lookup(f.Name)
		if !ok {
			return fmt.Errorf("column %q: absent: %w", f.Name, ErrSchemaMismatch)
		}
		if s[i].Kind != f.Kind {
			return fmt.Errorf("column %q: want %s, have %s: %w", f.Name, f.Kind, s[i].Kind, ErrSchemaMismatch)
		}
	}
	return nil
}

func (s Schema) validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, f := range s {
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("column %q: duplicated: %w", f.Name, ErrSchemaMismatch)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

func (s Schema) clone() Schema {
	out := make(Schema, len(s))
	copy(out, s)
	return out
}

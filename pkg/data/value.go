package data

import (
	"math"
	"strconv"
)

type valueKind uint8

const (
	missing valueKind = iota
	number
	text
)

// Value is a single cell: a number, a category label, or missing.
// The zero Value is missing.
type Value struct {
	num  float64
	str  string
	kind valueKind
}

// NA is the missing marker.
var NA = Value{}

// Float returns a numeric value. NaN is treated as missing.
func Float(f float64) Value {
	if math.IsNaN(f) {
		return NA
	}
	return Value{num: f, kind: number}
}

// Text returns a categorical value.
func Text(s string) Value {
	return Value{str: s, kind: text}
}

// IsMissing reports whether v is the missing marker.
func (v Value) IsMissing() bool { return v.kind == missing }

// Float64 returns the numeric payload. ok is false for missing or text values.
func (v Value) Float64() (f float64, ok bool) {
	if v.kind != number {
		return math.NaN(), false
	}
	return v.num, true
}

// Label returns the categorical payload. ok is false for missing or numeric values.
func (v Value) Label() (s string, ok bool) {
	if v.kind != text {
		return "", false
	}
	return v.str, true
}

func (v Value) String() string {
	switch v.kind {
	case number:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case text:
		return v.str
	default:
		return "NaN"
	}
}

func (v Value) fits(k Kind) bool {
	switch v.kind {
	case missing:
		return true
	case number:
		return k == Numeric
	default:
		return k == Categorical
	}
}

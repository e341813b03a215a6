package dataprep

import (
	"sort"

	"wrangle/pkg/data"
)

// ColumnMissing counts the missing values of one column.
type ColumnMissing struct {
	Name     string
	Count    int
	Fraction float64 // Count / rows
}

// RowMissing counts the missing values of one row.
type RowMissing struct {
	Index    int
	Count    int
	Fraction float64 // Count / columns
}

// MissingCount is the number of rows that miss exactly Missing columns.
type MissingCount struct {
	Missing  int
	Fraction float64
	Rows     int
}

// MissingByColumn reports, for each column in schema order, how many rows
// miss a value and what fraction of the current rows that is.
func MissingByColumn(ds *data.Dataset) []ColumnMissing {
	names := ds.Names()
	out := make([]ColumnMissing, len(names))
	for j, name := range names {
		out[j].Name = name
	}
	for i := range ds.Len() {
		for j, v := range ds.Row(i) {
			if v.IsMissing() {
				out[j].Count++
			}
		}
	}
	if n := ds.Len(); n > 0 {
		for j := range out {
			out[j].Fraction = float64(out[j].Count) / float64(n)
		}
	}
	return out
}

// MissingByRow reports, for each row in order, how many columns it misses and
// what fraction of the current columns that is.
func MissingByRow(ds *data.Dataset) []RowMissing {
	out := make([]RowMissing, ds.Len())
	w := ds.Width()
	for i := range out {
		n := 0
		for _, v := range ds.Row(i) {
			if v.IsMissing() {
				n++
			}
		}
		out[i] = RowMissing{Index: ds.Index(i), Count: n}
		if w > 0 {
			out[i].Fraction = float64(n) / float64(w)
		}
	}
	return out
}

// RowsByMissingCount groups rows by how many columns they miss, ordered by
// the missing count.
func RowsByMissingCount(ds *data.Dataset) []MissingCount {
	counts := map[int]int{}
	for _, r := range MissingByRow(ds) {
		counts[r.Count]++
	}
	out := make([]MissingCount, 0, len(counts))
	for missing, rows := range counts {
		mc := MissingCount{Missing: missing, Rows: rows}
		if ds.Width() > 0 {
			mc.Fraction = float64(missing) / float64(ds.Width())
		}
		out = append(out, mc)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Missing < out[b].Missing })
	return out
}

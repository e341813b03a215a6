package data

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/spf13/cast"
)

// IndexColumn is the header written for the row index, always the first column.
const IndexColumn = "index"

// CSVCache persists datasets as flat CSV files. The first column holds the row
// index; missing cells are written as NaN.
type CSVCache struct {
	// Hints fixes the kind of columns whose inferred kind would be wrong,
	// such as numeric codes that are really categories.
	Hints map[string]Kind
}

// Exists reports whether a cache file is present at path.
func (c CSVCache) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Load reads the dataset cached at path.
func (c CSVCache) Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	defer f.Close()
	ds, err := c.Read(f)
	if err != nil {
		return nil, fmt.Errorf("read cache %s: %w", path, err)
	}
	return ds, nil
}

// Read decodes a cached dataset from r.
func (c CSVCache) Read(r io.Reader) (*Dataset, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{"", "NA", "NaN", "nan", "<nil>", "NULL"}),
	)
	if df.Err != nil {
		return nil, df.Err
	}
	names := df.Names()
	if len(names) == 0 {
		return nil, errors.New("no columns")
	}

	nrow := df.Nrow()
	index := make([]int, nrow)
	idx := df.Col(names[0])
	for i := range nrow {
		e := idx.Elem(i)
		if e.IsNA() {
			return nil, fmt.Errorf("row %d: missing index", i)
		}
		id, err := cast.ToIntE(e.String())
		if err != nil {
			return nil, fmt.Errorf("row %d: index %q: %w", i, e.String(), err)
		}
		index[i] = id
	}

	cols := names[1:]
	raw := make([][]any, nrow)
	for i := range raw {
		raw[i] = make([]any, len(cols))
	}
	for j, name := range cols {
		s := df.Col(name)
		for i := range nrow {
			e := s.Elem(i)
			if e.IsNA() {
				continue
			}
			raw[i][j] = e.String()
		}
	}
	return FromRaw(cols, index, raw, c.Hints)
}

// Save writes ds to path, creating parent directories as needed.
func (c CSVCache) Save(ds *Dataset, path string) error {
	if err := checkIndexColumn(ds); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}
	if err := c.Write(ds, f); err != nil {
		f.Close()
		return fmt.Errorf("write cache %s: %w", path, err)
	}
	return f.Close()
}

// Write encodes ds as CSV to w. A column named IndexColumn would collide with
// the index header and is rejected.
func (c CSVCache) Write(ds *Dataset, w io.Writer) error {
	if err := checkIndexColumn(ds); err != nil {
		return err
	}
	cols := make([]series.Series, 0, ds.Width()+1)
	cols = append(cols, series.New(ds.Indices(), series.Int, IndexColumn))
	for j, f := range ds.schema {
		cells := make([]string, ds.Len())
		for i, row := range ds.rows {
			// series marks the literal "NaN" as missing.
			cells[i] = row[j].String()
		}
		cols = append(cols, series.New(cells, series.String, f.Name))
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return df.Err
	}
	return df.WriteCSV(w)
}

func checkIndexColumn(ds *Dataset) error {
	if ds.schema.Has(IndexColumn) {
		return fmt.Errorf("column %q collides with the cache index: %w", IndexColumn, ErrSchemaMismatch)
	}
	return nil
}

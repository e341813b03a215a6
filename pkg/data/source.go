package data

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jmoiron/sqlx"
)

// Source yields a raw dataset by name.
type Source interface {
	Load(ctx context.Context, name string) (*Dataset, error)
}

// Dataset names known to the default query set.
const (
	MallCustomers = "mall_customers"
	Zillow        = "zillow"
)

// DefaultQueries maps dataset names to the SQL that acquires them.
var DefaultQueries = map[string]string{
	MallCustomers: `SELECT * FROM customers`,
	Zillow: `
		SELECT prop.*, subq.logerror, subq.transactiondate
		FROM properties_2017 AS prop
		INNER JOIN (
			SELECT p.id, p.parcelid, p.logerror, p.transactiondate
			FROM predictions_2017 AS p
			INNER JOIN (
				SELECT parcelid, MAX(transactiondate) AS max_date
				FROM predictions_2017
				GROUP BY parcelid
			) AS sub ON p.parcelid = sub.parcelid
			WHERE p.transactiondate = sub.max_date
		) AS subq ON prop.id = subq.id`,
}

// SQLSource loads datasets with one query per dataset name.
type SQLSource struct {
	db      *sqlx.DB
	queries map[string]string
	hints   map[string]Kind
}

// NewSQLSource wraps an open database. A nil queries map uses DefaultQueries.
func NewSQLSource(db *sqlx.DB, queries map[string]string, hints map[string]Kind) *SQLSource {
	if queries == nil {
		queries = DefaultQueries
	}
	return &SQLSource{db: db, queries: queries, hints: hints}
}

// Load runs the query registered for name and converts the result set.
// SQL NULL becomes missing.
func (s *SQLSource) Load(ctx context.Context, name string) (*Dataset, error) {
	query, ok := s.queries[name]
	if !ok {
		return nil, fmt.Errorf("no query registered for dataset %q", name)
	}
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", name, err)
	}
	var raw [][]any
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		raw = append(raw, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", name, err)
	}
	return FromRaw(cols, nil, raw, s.hints)
}

// CachedSource serves datasets from a CSV cache directory and falls back to
// Remote when the cache file is absent or Refresh is set. Remote results are
// written back to the cache.
type CachedSource struct {
	Remote  Source
	Cache   CSVCache
	Dir     string
	Refresh bool
	Logger  *slog.Logger
}

// Path returns the cache file used for name.
func (c *CachedSource) Path(name string) string {
	return filepath.Join(c.Dir, name+".csv")
}

// Load implements Source.
func (c *CachedSource) Load(ctx context.Context, name string) (*Dataset, error) {
	log := c.Logger
	if log == nil {
		log = slog.Default()
	}
	path := c.Path(name)
	if !c.Refresh && c.Cache.Exists(path) {
		ds, err := c.Cache.Load(path)
		if err != nil {
			return nil, err
		}
		log.Debug("dataset loaded from cache", "dataset", name, "path", path, "rows", ds.Len())
		return ds, nil
	}
	if c.Remote == nil {
		return nil, fmt.Errorf("dataset %q: no cache at %s and no remote source", name, path)
	}
	ds, err := c.Remote.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := c.Cache.Save(ds, path); err != nil {
		return nil, err
	}
	log.Info("dataset acquired", "dataset", name, "rows", ds.Len(), "columns", ds.Width(), "cache", path)
	return ds, nil
}

package data

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestSQLSourceLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"customer_id", "gender", "age", "annual_income", "spending_score"}).
		AddRow(int64(1), "Male", int64(19), int64(15), int64(39)).
		AddRow(int64(2), []byte("Female"), nil, int64(15), int64(81))
	mock.ExpectQuery(`SELECT \* FROM customers`).WillReturnRows(rows)

	src := NewSQLSource(sqlx.NewDb(db, "sqlmock"), nil, nil)
	ds, err := src.Load(context.Background(), MallCustomers)
	require.NoError(t, err)

	assert.Equal(t, []string{"customer_id", "gender", "age", "annual_income", "spending_score"}, ds.Names())
	kind, err := ds.Kind("gender")
	require.NoError(t, err)
	assert.Equal(t, Categorical, kind)

	ages, err := ds.Float64s("age")
	require.NoError(t, err)
	assert.Equal(t, 19.0, ages[0])
	v, err := ds.At(1, "age")
	require.NoError(t, err)
	assert.True(t, v.IsMissing())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSourceQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM properties_2017`).WillReturnError(errors.New("connection reset"))

	src := NewSQLSource(sqlx.NewDb(db, "sqlmock"), nil, nil)
	_, err = src.Load(context.Background(), Zillow)
	assert.ErrorContains(t, err, "connection reset")

	_, err = src.Load(context.Background(), "titanic")
	assert.ErrorContains(t, err, "no query registered")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSourceSQLite(t *testing.T) {
	db, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "mall_customers.db"))
	require.NoError(t, err)
	defer db.Close()

	db.MustExec(`CREATE TABLE customers (
		customer_id INTEGER PRIMARY KEY,
		gender TEXT,
		age INTEGER,
		annual_income REAL,
		spending_score INTEGER
	)`)
	db.MustExec(`INSERT INTO customers VALUES (1, 'Male', 19, 15, 39), (2, 'Female', NULL, 15.5, 81), (3, NULL, 20, 16, 6)`)

	ds, err := NewSQLSource(db, nil, nil).Load(context.Background(), MallCustomers)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())

	income, err := ds.Float64s("annual_income")
	require.NoError(t, err)
	assert.Equal(t, []float64{15, 15.5, 16}, income)

	gender, err := ds.Column("gender")
	require.NoError(t, err)
	assert.Equal(t, Text("Female"), gender[1])
	assert.True(t, gender[2].IsMissing())
}

type countingSource struct {
	ds    *Dataset
	calls int
}

func (s *countingSource) Load(ctx context.Context, name string) (*Dataset, error) {
	s.calls++
	return s.ds, nil
}

func TestCachedSourcePolicy(t *testing.T) {
	remote := &countingSource{ds: sample(t)}
	src := &CachedSource{Remote: remote, Dir: t.TempDir()}
	ctx := context.Background()

	first, err := src.Load(ctx, MallCustomers)
	require.NoError(t, err)
	assert.Equal(t, 1, remote.calls)
	assert.FileExists(t, src.Path(MallCustomers))

	second, err := src.Load(ctx, MallCustomers)
	require.NoError(t, err)
	assert.Equal(t, 1, remote.calls, "served from cache")
	assert.Equal(t, first.Names(), second.Names())
	assert.Equal(t, first.Indices(), second.Indices())
	for i := range first.Len() {
		assert.Equal(t, first.Row(i), second.Row(i))
	}

	src.Refresh = true
	_, err = src.Load(ctx, MallCustomers)
	require.NoError(t, err)
	assert.Equal(t, 2, remote.calls)
}

func TestCachedSourceWithoutRemote(t *testing.T) {
	src := &CachedSource{Dir: t.TempDir()}
	_, err := src.Load(context.Background(), Zillow)
	assert.ErrorContains(t, err, "no remote source")
}

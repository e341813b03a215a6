package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrangle/pkg/data"
	"wrangle/pkg/stats"
)

const zillowCache = `index,parcelid,propertylandusetypeid,bedroomcnt,poolcnt,taxvaluedollarcnt
0,1001,261,3,NaN,120000
1,1002,246,2,NaN,90000
2,1003,261,4,1,450000
3,1004,266,NaN,NaN,310000
4,1005,261,3,NaN,205000
5,1006,263,2,NaN,99000
`

// mallCache has 21 customers; row 9 carries a gender outside Male/Female.
func mallCache() string {
	var b strings.Builder
	b.WriteString("index,customer_id,gender,age,annual_income,spending_score\n")
	for i := range 21 {
		gender := "Male"
		if i%2 == 1 {
			gender = "Female"
		}
		if i == 9 {
			gender = "Other"
		}
		fmt.Fprintf(&b, "%d,%d,%s,%d,%d,%d\n", i, i+1, gender, 18+i, 15+3*i, (i*37)%100)
	}
	return b.String()
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func cacheDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, data.Zillow+".csv"), []byte(zillowCache), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, data.MallCustomers+".csv"), []byte(mallCache()), 0o644))
	t.Setenv("WRANGLE_CACHE_DIR", dir)
	t.Setenv("WRANGLE_LOG_LEVEL", "error")
	return dir
}

func TestZillowCommand(t *testing.T) {
	cacheDir(t)
	out := t.TempDir()

	_, err := run(t, "zillow", "--out", out)
	require.NoError(t, err)

	ds, err := data.CSVCache{}.Load(filepath.Join(out, "zillow_clean.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"parcelid", "propertylandusetypeid", "bedroomcnt", "taxvaluedollarcnt"}, ds.Names())
	assert.Equal(t, []int{0, 2, 4, 5}, ds.Indices())
}

func TestAuditCommand(t *testing.T) {
	cacheDir(t)
	xlsx := filepath.Join(t.TempDir(), "zillow.xlsx")

	stdout, err := run(t, "audit", data.Zillow, "--xlsx", xlsx)
	require.NoError(t, err)
	assert.Contains(t, stdout, "num_rows_missing")
	assert.Contains(t, stdout, "poolcnt")
	assert.FileExists(t, xlsx)
}

func TestOutliersCommand(t *testing.T) {
	cacheDir(t)
	out := t.TempDir()

	stdout, err := run(t, "outliers", data.Zillow, "--column", "taxvaluedollarcnt", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "taxvaluedollarcnt")

	ds, err := data.CSVCache{}.Load(filepath.Join(out, "zillow_outliers.csv"))
	require.NoError(t, err)
	assert.Contains(t, ds.Names(), "taxvaluedollarcnt_upper_outliers")

	stdout, err = run(t, "outliers", data.Zillow, "--out", out)
	require.NoError(t, err, "sparse poolcnt is skipped")
	assert.NotContains(t, stdout, "poolcnt")

	_, err = run(t, "outliers", data.Zillow, "--column", "parcelid,taxvaluedollarcnt", "--chart", filepath.Join(out, "x.png"))
	assert.ErrorContains(t, err, "--chart needs exactly one --column")
}

func TestMissingCacheWithoutDatabase(t *testing.T) {
	t.Setenv("WRANGLE_CACHE_DIR", t.TempDir())
	t.Setenv("WRANGLE_LOG_LEVEL", "error")
	t.Setenv("WRANGLE_DATABASE_DRIVER", "sqlite")
	t.Setenv("WRANGLE_DATABASE_DSN", filepath.Join(t.TempDir(), "empty.db"))

	_, err := run(t, "audit", data.MallCustomers)
	assert.Error(t, err)
}

func TestMallCommand(t *testing.T) {
	cacheDir(t)
	t.Setenv("WRANGLE_MALL_SEED", "123")

	// Seed 123 puts the Other row in train, so its category is known.
	out := t.TempDir()
	_, err := run(t, "mall", "--out", out)
	require.NoError(t, err)
	test, err := data.CSVCache{}.Load(filepath.Join(out, "mall_test.csv"))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 13, 14, 18, 20}, test.Indices())

	// The --seed flag overrides the configured seed; seed 7 puts Other in test.
	_, err = run(t, "mall", "--seed", "7", "--out", t.TempDir())
	assert.ErrorContains(t, err, "unknown category")

	out = t.TempDir()
	_, err = run(t, "mall", "--seed", "7", "--ignore-unknown", "--scaler", "standard", "--out", out)
	require.NoError(t, err)

	parts := map[string][]int{
		"mall_train":    {0, 2, 3, 5, 6, 8, 12, 13, 15, 18, 20},
		"mall_validate": {1, 4, 14, 16, 17},
		"mall_test":     {7, 9, 10, 11, 19},
	}
	for name, want := range parts {
		ds, err := data.CSVCache{}.Load(filepath.Join(out, name+".csv"))
		require.NoError(t, err, name)
		assert.Equal(t, want, ds.Indices(), name)
		assert.Equal(t, []string{"age", "annual_income", "spending_score", "Male"}, ds.Names(), name)
	}

	train, err := data.CSVCache{}.Load(filepath.Join(out, "mall_train.csv"))
	require.NoError(t, err)
	ages, err := train.Float64s("age")
	require.NoError(t, err)
	assert.InDelta(t, 0, stats.Mean(ages), 1e-6, "standard scaler selected by flag")

	test, err = data.CSVCache{}.Load(filepath.Join(out, "mall_test.csv"))
	require.NoError(t, err)
	male, err := test.Column("Male")
	require.NoError(t, err)
	// Row 9 (Other) encodes like row 7 (Female): Male indicator 0 before scaling.
	assert.Equal(t, male[0], male[1], "unknown category encodes as zeros")
}

package dataprep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrangle/pkg/data"
	"wrangle/pkg/stats"
)

func incomes(t *testing.T) *data.Dataset {
	t.Helper()
	vals := []float64{1, 2, 3, 4, 10}
	rows := make([][]data.Value, len(vals))
	for i, v := range vals {
		rows[i] = []data.Value{data.Float(v), data.Text("x")}
	}
	ds, err := data.New(data.Schema{
		{Name: "income", Kind: data.Numeric},
		{Name: "label", Kind: data.Categorical},
	}, rows)
	require.NoError(t, err)
	return ds
}

func TestOutlierScores(t *testing.T) {
	ds := incomes(t)
	out, err := OutlierScores(ds, 1.5)
	require.NoError(t, err)

	assert.Equal(t, []string{"income", "label", "income_upper_outliers", "income_lower_outliers"}, out.Names())
	up, err := out.Float64s("income" + UpperSuffix)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0, 3}, up)
	lo, err := out.Float64s("income" + LowerSuffix)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, lo)
	assert.Equal(t, 2, ds.Width(), "input is not modified")
}

func TestOutlierScoresErrors(t *testing.T) {
	_, err := OutlierScores(incomes(t), 1.5, "label")
	assert.ErrorIs(t, err, data.ErrSchemaMismatch)

	_, err = OutlierScores(incomes(t).Take([]int{0}), 1.5, "income")
	assert.ErrorIs(t, err, stats.ErrInvalidInput)

	_, err = SummarizeOutliers(incomes(t), -1)
	assert.ErrorIs(t, err, stats.ErrInvalidInput)
}

func TestSummarizeOutliers(t *testing.T) {
	got, err := SummarizeOutliers(incomes(t), 1.5)
	require.NoError(t, err)
	assert.Equal(t, []OutlierSummary{{Column: "income", Lower: -1, Upper: 7, Below: 0, Above: 1}}, got)
	assert.Equal(t, []string{"income"}, NumericColumns(incomes(t)))
}

func TestOutliersSkipSparseColumnsByDefault(t *testing.T) {
	rows := make([][]data.Value, 6)
	for i := range rows {
		rows[i] = []data.Value{data.Float(float64(i)), data.NA}
	}
	rows[3][1] = data.Float(1)
	ds, err := data.New(data.Schema{
		{Name: "price", Kind: data.Numeric},
		{Name: "poolcnt", Kind: data.Numeric},
	}, rows)
	require.NoError(t, err)

	sums, err := SummarizeOutliers(ds, 1.5)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, "price", sums[0].Column)

	out, err := OutlierScores(ds, 1.5)
	require.NoError(t, err)
	assert.Equal(t, []string{"price", "poolcnt", "price_upper_outliers", "price_lower_outliers"}, out.Names())

	_, err = SummarizeOutliers(ds, 1.5, "poolcnt")
	assert.ErrorIs(t, err, stats.ErrInvalidInput)
	_, err = OutlierScores(ds, 1.5, "price", "poolcnt")
	assert.ErrorIs(t, err, stats.ErrInvalidInput)
}

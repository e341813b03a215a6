package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrangle/pkg/data"
	"wrangle/pkg/dataprep"
	"wrangle/pkg/stats"
)

// customers builds 42 rows, 21 per gender, with one missing age per gender.
func customers(t *testing.T) *data.Dataset {
	t.Helper()
	rows := make([][]data.Value, 42)
	for i := range rows {
		gender := "Male"
		if i%2 == 1 {
			gender = "Female"
		}
		rows[i] = []data.Value{
			data.Float(float64(i + 1)),
			data.Text(gender),
			data.Float(float64(18 + i)),
			data.Float(float64(15 + 3*i)),
			data.Float(float64((i * 37) % 100)),
		}
	}
	rows[10][2] = data.NA
	rows[21][2] = data.NA
	ds, err := data.New(data.Schema{
		{Name: "customer_id", Kind: data.Numeric},
		{Name: ColGender, Kind: data.Categorical},
		{Name: ColAge, Kind: data.Numeric},
		{Name: ColAnnualIncome, Kind: data.Numeric},
		{Name: ColSpendingScore, Kind: data.Numeric},
	}, rows)
	require.NoError(t, err)
	return ds
}

func TestWrangleMall(t *testing.T) {
	raw := customers(t)
	src := memSource{data.MallCustomers: raw}

	train, validate, test, err := WrangleMall(context.Background(), src, DefaultMallOptions())
	require.NoError(t, err)

	want := []string{ColAge, ColAnnualIncome, ColSpendingScore, ColMale}
	for _, part := range []*data.Dataset{train, validate, test} {
		assert.Equal(t, want, part.Names())
		assert.Equal(t, part.Len(), dataprep.DropMissing(part).Len(), "no missing values remain")
	}
	assert.Equal(t, 40, train.Len()+validate.Len()+test.Len())

	seen := map[int]bool{}
	for _, part := range []*data.Dataset{train, validate, test} {
		for _, id := range part.Indices() {
			assert.False(t, seen[id], "index %d in two partitions", id)
			seen[id] = true
		}
	}
	assert.False(t, seen[10])
	assert.False(t, seen[21])

	// Scaled train spans exactly [0, 1] in every column.
	for _, col := range want {
		x, err := train.Float64s(col)
		require.NoError(t, err)
		min, max := stats.MinMax(x)
		assert.InDelta(t, 0, min, 1e-12, col)
		assert.InDelta(t, 1, max, 1e-12, col)
	}
}

func TestWrangleMallScalesWithTrainBounds(t *testing.T) {
	raw := customers(t)
	train, _, test, err := WrangleMall(context.Background(), memSource{data.MallCustomers: raw}, DefaultMallOptions())
	require.NoError(t, err)

	incomes, err := raw.Float64s(ColAnnualIncome)
	require.NoError(t, err)
	trainIncome := make([]float64, 0, train.Len())
	for _, id := range train.Indices() {
		trainIncome = append(trainIncome, incomes[id])
	}
	min, max := stats.MinMax(trainIncome)

	scaled, err := test.Float64s(ColAnnualIncome)
	require.NoError(t, err)
	for i, id := range test.Indices() {
		assert.InDelta(t, (incomes[id]-min)/(max-min), scaled[i], 1e-9, "row %d", id)
	}
}

func TestWrangleMallDeterministic(t *testing.T) {
	src := memSource{data.MallCustomers: customers(t)}
	a, b, c, err := WrangleMall(context.Background(), src, DefaultMallOptions())
	require.NoError(t, err)
	x, y, z, err := WrangleMall(context.Background(), src, DefaultMallOptions())
	require.NoError(t, err)

	for i, pair := range [][2]*data.Dataset{{a, x}, {b, y}, {c, z}} {
		assert.Equal(t, pair[0].Indices(), pair[1].Indices(), "partition %d", i)
		for r := range pair[0].Len() {
			assert.Equal(t, pair[0].Row(r), pair[1].Row(r))
		}
	}
}

func TestWrangleMallStandardScaler(t *testing.T) {
	opts := DefaultMallOptions()
	opts.Scaler = ScalerStandard
	train, _, _, err := WrangleMall(context.Background(), memSource{data.MallCustomers: customers(t)}, opts)
	require.NoError(t, err)

	ages, err := train.Float64s(ColAge)
	require.NoError(t, err)
	assert.InDelta(t, 0, stats.Mean(ages), 1e-9)
	assert.InDelta(t, 1, stats.Std(ages), 1e-9)
}

func TestWrangleMallErrors(t *testing.T) {
	_, _, _, err := WrangleMall(context.Background(), memSource{}, DefaultMallOptions())
	assert.ErrorContains(t, err, "acquire mall_customers")

	noGender, err := customers(t).Drop(ColGender)
	require.NoError(t, err)
	_, _, _, err = WrangleMall(context.Background(), memSource{data.MallCustomers: noGender}, DefaultMallOptions())
	assert.ErrorIs(t, err, data.ErrSchemaMismatch)

	opts := DefaultMallOptions()
	opts.Scaler = "robust"
	_, _, _, err = WrangleMall(context.Background(), memSource{data.MallCustomers: customers(t)}, opts)
	assert.ErrorIs(t, err, stats.ErrInvalidInput)
}

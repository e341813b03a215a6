package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"wrangle/pkg/data"
	"wrangle/pkg/dataprep"
	"wrangle/pkg/loader"
	"wrangle/pkg/stats"
)

// Scaler names accepted by MallOptions.
const (
	ScalerMinMax   = "minmax"
	ScalerStandard = "standard"
)

// MallOptions configures WrangleMall.
type MallOptions struct {
	Seed          uint64
	EncodeColumns []string
	ScaleColumns  []string
	Scaler        string
	HandleUnknown dataprep.UnknownPolicy
	Logger        *slog.Logger
}

// DefaultMallOptions encodes gender and min-max scales age, income, spending
// score and the Male indicator, with split seed 123.
func DefaultMallOptions() MallOptions {
	return MallOptions{
		Seed:          123,
		EncodeColumns: []string{ColGender},
		ScaleColumns:  []string{ColAge, ColAnnualIncome, ColSpendingScore, ColMale},
		Scaler:        ScalerMinMax,
	}
}

// WrangleMall acquires mall_customers and returns scaled train, validate and
// test partitions. The encoder and scaler are fit on train only.
func WrangleMall(ctx context.Context, src data.Source, opts MallOptions) (train, validate, test *data.Dataset, err error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("run_id", uuid.NewString(), "dataset", data.MallCustomers)

	raw, err := src.Load(ctx, data.MallCustomers)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("acquire %s: %w", data.MallCustomers, err)
	}
	if err := raw.Schema().Require(MallSchema...); err != nil {
		return nil, nil, nil, err
	}
	log.Info("acquired", "rows", raw.Len(), "columns", raw.Width())

	train, validate, test, err = loader.TrainValidateTestSplit(raw, opts.Seed)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Info("split", "seed", opts.Seed, "train", train.Len(), "validate", validate.Len(), "test", test.Len())

	enc := dataprep.NewOneHotEncoder(opts.EncodeColumns...)
	enc.HandleUnknown = opts.HandleUnknown
	scaler, err := newScaler(opts.Scaler, opts.ScaleColumns)
	if err != nil {
		return nil, nil, nil, err
	}
	p := NewPipeline(
		enc,
		Func(func(ds *data.Dataset) (*data.Dataset, error) { return dataprep.DropMissing(ds), nil }),
		Func(func(ds *data.Dataset) (*data.Dataset, error) { return ds.Select(opts.ScaleColumns...) }),
		scaler,
	)
	parts, err := p.Apply(train, validate, test)
	if err != nil {
		return nil, nil, nil, err
	}
	train, validate, test = parts[0], parts[1], parts[2]

	for _, col := range opts.EncodeColumns {
		log.Debug("encoded", "column", col, "categories", enc.Categories(col))
	}
	log.Info("scaled", "scaler", opts.Scaler, "columns", opts.ScaleColumns,
		"train", train.Len(), "validate", validate.Len(), "test", test.Len())
	return train, validate, test, nil
}

func newScaler(name string, columns []string) (Transformer, error) {
	switch name {
	case ScalerMinMax, "":
		return stats.NewMinMaxScaler(columns...), nil
	case ScalerStandard:
		return stats.NewStandardScaler(columns...), nil
	default:
		return nil, fmt.Errorf("unknown scaler %q: %w", name, stats.ErrInvalidInput)
	}
}

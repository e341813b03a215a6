package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"wrangle/pkg/data"
	"wrangle/pkg/dataprep"
)

// ZillowOptions configures WrangleZillow.
type ZillowOptions struct {
	LandUseTypes       []int
	ColumnCompleteness float64
	RowCompleteness    float64
	Logger             *slog.Logger
}

// DefaultZillowOptions keeps single-unit properties, columns at least 85%
// complete and rows at least 75% complete.
func DefaultZillowOptions() ZillowOptions {
	return ZillowOptions{
		LandUseTypes:       SingleUnitLandUseTypes,
		ColumnCompleteness: 0.85,
		RowCompleteness:    0.75,
	}
}

// WrangleZillow acquires zillow, keeps the allowed property types, applies the
// missing value filter and drops any row still missing a value.
func WrangleZillow(ctx context.Context, src data.Source, opts ZillowOptions) (*data.Dataset, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("run_id", uuid.NewString(), "dataset", data.Zillow)

	raw, err := src.Load(ctx, data.Zillow)
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", data.Zillow, err)
	}
	if err := raw.Schema().Require(ZillowSchema...); err != nil {
		return nil, err
	}
	log.Info("acquired", "rows", raw.Len(), "columns", raw.Width())

	su, err := FilterLandUse(raw, opts.LandUseTypes)
	if err != nil {
		return nil, err
	}
	log.Info("filtered property types", "rows", su.Len())

	filtered, err := dataprep.MissingValueFilter{
		Column: opts.ColumnCompleteness,
		Row:    opts.RowCompleteness,
		Logger: log,
	}.Apply(su)
	if err != nil {
		return nil, err
	}

	out := dataprep.DropMissing(filtered)
	log.Info("cleaned", "rows", out.Len(), "columns", out.Width())
	return out, nil
}

// FilterLandUse keeps rows whose property-type id is one of allowed.
func FilterLandUse(ds *data.Dataset, allowed []int) (*data.Dataset, error) {
	ids, err := ds.Float64s(ColLandUseType)
	if err != nil {
		return nil, err
	}
	keep := make(map[float64]struct{}, len(allowed))
	for _, id := range allowed {
		keep[float64(id)] = struct{}{}
	}
	return ds.Filter(func(i int) bool {
		_, ok := keep[ids[i]]
		return ok
	}), nil
}

package main

import (
	"github.com/spf13/cobra"

	"wrangle/pkg/data"
	"wrangle/pkg/dataprep"
	"wrangle/pkg/pipeline"
)

func newMallCmd(a *app) *cobra.Command {
	var (
		seed          uint64
		scaler        string
		ignoreUnknown bool
	)
	cmd := &cobra.Command{
		Use:   "mall",
		Short: "Split, encode and scale mall_customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.MallOptions{
				Seed:          a.cfg.Mall.Seed,
				EncodeColumns: a.cfg.Mall.EncodeColumns,
				ScaleColumns:  a.cfg.Mall.ScaleColumns,
				Scaler:        a.cfg.Mall.Scaler,
				Logger:        a.log,
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = seed
			}
			if cmd.Flags().Changed("scaler") {
				opts.Scaler = scaler
			}
			if ignoreUnknown {
				opts.HandleUnknown = dataprep.UnknownIgnore
			}
			train, validate, test, err := pipeline.WrangleMall(cmd.Context(), a.source(), opts)
			if err != nil {
				return err
			}
			for name, ds := range map[string]*data.Dataset{
				"mall_train":    train,
				"mall_validate": validate,
				"mall_test":     test,
			} {
				if err := a.save(ds, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 123, "Seed for the train/validate/test split")
	cmd.Flags().StringVar(&scaler, "scaler", pipeline.ScalerMinMax, "Scaler: minmax or standard")
	cmd.Flags().BoolVar(&ignoreUnknown, "ignore-unknown", false, "Encode categories unseen in train as all zeros instead of failing")
	return cmd
}

func newZillowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "zillow",
		Short: "Filter single-unit properties and drop incomplete columns and rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := pipeline.WrangleZillow(cmd.Context(), a.source(), pipeline.ZillowOptions{
				LandUseTypes:       a.cfg.Zillow.LandUseTypes,
				ColumnCompleteness: a.cfg.Zillow.ColumnCompleteness,
				RowCompleteness:    a.cfg.Zillow.RowCompleteness,
				Logger:             a.log,
			})
			if err != nil {
				return err
			}
			return a.save(ds, "zillow_clean")
		},
	}
}

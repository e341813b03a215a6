package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"wrangle/pkg/data"
	"wrangle/pkg/dataprep"
	"wrangle/pkg/report"
	"wrangle/pkg/stats"
)

func newAuditCmd(a *app) *cobra.Command {
	var chart, xlsx string
	cmd := &cobra.Command{
		Use:       "audit <dataset>",
		Short:     "Report missing values per column and per row",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{data.MallCustomers, data.Zillow},
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.source().Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			d := report.Diagnostics{
				Columns: dataprep.MissingByColumn(ds),
				Rows:    dataprep.MissingByRow(ds),
				Counts:  dataprep.RowsByMissingCount(ds),
			}
			w := cmd.OutOrStdout()
			printColumns(w, d.Columns)
			printCounts(w, d.Counts)
			printSummaries(w, ds)
			if chart != "" {
				if err := report.MissingnessChart(d.Columns, chart); err != nil {
					return err
				}
			}
			if xlsx != "" {
				if err := report.WriteWorkbook(d, xlsx); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&chart, "chart", "", "Save a missingness bar chart (png, svg, pdf)")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "Save the reports as an XLSX workbook")
	return cmd
}

func newOutliersCmd(a *app) *cobra.Command {
	var (
		k       float64
		columns []string
		chart   string
		xlsx    string
	)
	cmd := &cobra.Command{
		Use:   "outliers <dataset>",
		Short: "Score values beyond the k*IQR fences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.source().Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			sums, err := dataprep.SummarizeOutliers(ds, k, columns...)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-30s %14s %14s %8s %8s\n", "column", "lower", "upper", "below", "above")
			for _, s := range sums {
				fmt.Fprintf(w, "%-30s %14.4f %14.4f %8d %8d\n", s.Column, s.Lower, s.Upper, s.Below, s.Above)
			}
			if chart != "" {
				if len(columns) != 1 {
					return errors.New("--chart needs exactly one --column")
				}
				if err := report.OutlierChart(ds, columns[0], k, chart); err != nil {
					return err
				}
			}
			if xlsx != "" {
				if err := report.WriteWorkbook(report.Diagnostics{Outliers: sums}, xlsx); err != nil {
					return err
				}
			}
			scored, err := dataprep.OutlierScores(ds, k, columns...)
			if err != nil {
				return err
			}
			return a.save(scored, args[0]+"_outliers")
		},
	}
	cmd.Flags().Float64Var(&k, "k", 1.5, "IQR multiplier for the fences")
	cmd.Flags().StringSliceVar(&columns, "column", nil, "Numeric columns to score (default: all numeric)")
	cmd.Flags().StringVar(&chart, "chart", "", "Save a scatter of one column with outliers highlighted")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "Save the fence summary as an XLSX workbook")
	return cmd
}

func printColumns(w io.Writer, cols []dataprep.ColumnMissing) {
	fmt.Fprintf(w, "%-30s %16s %16s\n", "column", "num_rows_missing", "pct_rows_missing")
	for _, c := range cols {
		fmt.Fprintf(w, "%-30s %16d %16.4f\n", c.Name, c.Count, c.Fraction)
	}
	fmt.Fprintln(w)
}

func printCounts(w io.Writer, counts []dataprep.MissingCount) {
	fmt.Fprintf(w, "%16s %16s %10s\n", "num_cols_missing", "pct_cols_missing", "num_rows")
	for _, c := range counts {
		fmt.Fprintf(w, "%16d %16.4f %10d\n", c.Missing, c.Fraction, c.Rows)
	}
	fmt.Fprintln(w)
}

func printSummaries(w io.Writer, ds *data.Dataset) {
	fmt.Fprintf(w, "%-30s %8s %12s %12s %12s %12s %12s %12s %12s\n",
		"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max")
	for _, name := range dataprep.NumericColumns(ds) {
		x, _ := ds.Float64s(name)
		s, err := stats.Describe(x)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%-30s %8d %12.4f %12.4f %12.4f %12.4f %12.4f %12.4f %12.4f\n",
			name, s.Count, s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max)
	}
}

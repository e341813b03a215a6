package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"wrangle/pkg/dataprep"
)

// Sheet names written by WriteWorkbook.
const (
	SheetColumns  = "columns"
	SheetRows     = "rows"
	SheetCounts   = "missing_counts"
	SheetOutliers = "outliers"
)

// Diagnostics bundles the reports written to a workbook.
type Diagnostics struct {
	Columns  []dataprep.ColumnMissing
	Rows     []dataprep.RowMissing
	Counts   []dataprep.MissingCount
	Outliers []dataprep.OutlierSummary
}

// WriteWorkbook saves the diagnostics as an XLSX file, one sheet per report.
func WriteWorkbook(d Diagnostics, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetColumns); err != nil {
		return err
	}
	table := [][]any{{"column", "num_rows_missing", "pct_rows_missing"}}
	for _, c := range d.Columns {
		table = append(table, []any{c.Name, c.Count, c.Fraction})
	}
	if err := writeSheet(f, SheetColumns, table); err != nil {
		return err
	}

	table = [][]any{{"index", "num_cols_missing", "pct_cols_missing"}}
	for _, r := range d.Rows {
		table = append(table, []any{r.Index, r.Count, r.Fraction})
	}
	if err := writeSheet(f, SheetRows, table); err != nil {
		return err
	}

	table = [][]any{{"num_cols_missing", "pct_cols_missing", "num_rows"}}
	for _, c := range d.Counts {
		table = append(table, []any{c.Missing, c.Fraction, c.Rows})
	}
	if err := writeSheet(f, SheetCounts, table); err != nil {
		return err
	}

	if len(d.Outliers) > 0 {
		table = [][]any{{"column", "lower_fence", "upper_fence", "below", "above"}}
		for _, o := range d.Outliers {
			table = append(table, []any{o.Column, o.Lower, o.Upper, o.Below, o.Above})
		}
		if err := writeSheet(f, SheetOutliers, table); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, table [][]any) error {
	if idx, err := f.GetSheetIndex(sheet); err != nil {
		return err
	} else if idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}
	for r, row := range table {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write sheet %s row %d: %w", sheet, r+1, err)
		}
	}
	return nil
}

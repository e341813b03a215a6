package report

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"wrangle/pkg/data"
	"wrangle/pkg/dataprep"
	"wrangle/pkg/stats"
)

// MissingnessChart saves a bar chart of the missing fraction of each column.
// The image format follows the file extension.
func MissingnessChart(cols []dataprep.ColumnMissing, filename string) error {
	if len(cols) == 0 {
		return errors.New("missingness chart: no columns")
	}
	p := plot.New()
	p.Title.Text = "Missing values per column"
	p.Y.Label.Text = "Fraction missing"
	p.Y.Min, p.Y.Max = 0, 1

	vals := make(plotter.Values, len(cols))
	names := make([]string, len(cols))
	for i, c := range cols {
		vals[i] = c.Fraction
		names[i] = c.Name
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(12))
	if err != nil {
		return fmt.Errorf("missingness chart: %w", err)
	}
	bars.Color = color.RGBA{R: 50, G: 90, B: 200, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 2

	width := vg.Length(len(cols))*vg.Points(16) + 2*vg.Inch
	if err := p.Save(width, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("save missingness chart: %w", err)
	}
	return nil
}

// OutlierChart saves a scatter of one numeric column against the row index,
// with values beyond the k*IQR fences drawn in red.
func OutlierChart(ds *data.Dataset, column string, k float64, filename string) error {
	x, err := ds.Float64s(column)
	if err != nil {
		return err
	}
	lower, upper, err := stats.Fences(x, k)
	if err != nil {
		return fmt.Errorf("outlier chart %q: %w", column, err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (k=%.2g)", column, k)
	p.X.Label.Text = "Row"
	p.Y.Label.Text = column

	var inliers, outliers plotter.XYs
	for i, v := range x {
		if math.IsNaN(v) {
			continue
		}
		pt := plotter.XY{X: float64(ds.Index(i)), Y: v}
		if v > upper || v < lower {
			outliers = append(outliers, pt)
		} else {
			inliers = append(inliers, pt)
		}
	}
	for _, group := range []struct {
		pts   plotter.XYs
		color color.Color
	}{
		{inliers, color.RGBA{R: 120, G: 120, B: 120, A: 255}},
		{outliers, color.RGBA{R: 220, A: 255}},
	} {
		if len(group.pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(group.pts)
		if err != nil {
			return fmt.Errorf("outlier chart %q: %w", column, err)
		}
		s.GlyphStyle.Color = group.color
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
	}
	for _, fence := range []float64{lower, upper} {
		line, err := plotter.NewLine(plotter.XYs{
			{X: float64(minIndex(ds)), Y: fence},
			{X: float64(maxIndex(ds)), Y: fence},
		})
		if err != nil {
			return fmt.Errorf("outlier chart %q: %w", column, err)
		}
		line.Color = color.RGBA{B: 200, A: 255}
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(line)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("save outlier chart: %w", err)
	}
	return nil
}

func minIndex(ds *data.Dataset) int {
	m := ds.Index(0)
	for _, id := range ds.Indices() {
		m = min(m, id)
	}
	return m
}

func maxIndex(ds *data.Dataset) int {
	m := ds.Index(0)
	for _, id := range ds.Indices() {
		m = max(m, id)
	}
	return m
}

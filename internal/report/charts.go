package report

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/nestor/internal/recommend"
)

// Chart dimensions for PNG output.
const (
	ChartWidth  = 8 * vg.Inch
	ChartHeight = 4.5 * vg.Inch
)

// WriteBarChart draws the top regions by DesirabilityScore as a PNG.
func WriteBarChart(w io.Writer, bars []recommend.Bar) error {
	if len(bars) == 0 {
		return ErrNothingToExport
	}
	p := plot.New()
	p.Title.Text = "Top Region(s) by Desirability Score"
	p.Y.Label.Text = "DesirabilityScore"

	values := make(plotter.Values, len(bars))
	labels := make([]string, len(bars))
	for i, b := range bars {
		values[i] = b.Score
		if math.IsNaN(b.Score) {
			values[i] = 0
		}
		labels[i] = b.Region
	}
	chart, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	chart.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	chart.LineStyle.Width = vg.Length(0)
	p.Add(chart, plotter.NewGrid())
	p.NominalX(labels...)
	p.Y.Min = 0
	return writePNG(w, p)
}

// WriteTrendChart draws one line per region of the trend matrix as a PNG.
// Dates without an observation are skipped rather than drawn as zero.
func WriteTrendChart(w io.Writer, m recommend.TrendMatrix) error {
	if m.Empty() {
		return ErrNothingToExport
	}
	p := plot.New()
	p.Title.Text = "Price Trends Over Time for Top Regions"
	p.Y.Label.Text = "HomePrice"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	var lines []any
	for j, region := range m.Regions {
		xys := make(plotter.XYs, 0, len(m.Dates))
		for i, d := range m.Dates {
			if v := m.Prices[i][j]; !math.IsNaN(v) {
				xys = append(xys, plotter.XY{X: float64(d.Unix()), Y: v})
			}
		}
		if len(xys) == 0 {
			continue
		}
		lines = append(lines, region, xys)
	}
	if len(lines) == 0 {
		return ErrNothingToExport
	}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return fmt.Errorf("trend chart: %w", err)
	}
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = draw.XRight
	return writePNG(w, p)
}

func writePNG(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(ChartWidth, ChartHeight, "png")
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

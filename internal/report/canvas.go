package report

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Artifact dimensions. Every chart renders at the same size so the set
// reads as one document.
const (
	chartWidth  = 8.5 * vg.Inch
	chartHeight = 5.5 * vg.Inch
)

// Brand palette.
var (
	colorSOC        = color.RGBA{R: 0xE6, G: 0x39, B: 0x46, A: 0xFF}
	colorCompetitor = color.RGBA{R: 0x45, G: 0x7B, B: 0x9D, A: 0xFF}
	colorSOCDark    = color.RGBA{R: 0xA0, G: 0x1A, B: 0x1A, A: 0xFF}
	colorCompDark   = color.RGBA{R: 0x1D, G: 0x35, B: 0x57, A: 0xFF}
	colorPresence   = color.RGBA{R: 0x2E, G: 0x86, B: 0xAB, A: 0xFF}
	colorAbsence    = color.RGBA{R: 0xA2, G: 0x3B, B: 0x72, A: 0xFF}
	colorAccent     = color.RGBA{R: 0xF1, G: 0xA2, B: 0x08, A: 0xFF}
	colorTeal       = color.RGBA{R: 0x2A, G: 0x9D, B: 0x8F, A: 0xFF}
	colorGold       = color.RGBA{R: 0xFF, G: 0xD7, B: 0x00, A: 0xFF}
	colorQuadrant   = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
)

// withAlpha returns c at the given opacity, for overlapping fills.
func withAlpha(c color.RGBA, a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// newPlot returns a titled plot with a background grid.
func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(13)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

// savePNG renders the plot to path at the configured DPI.
func savePNG(p *plot.Plot, path string, dpi int) error {
	canvas := vgimg.NewWith(
		vgimg.UseWH(chartWidth, chartHeight),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(canvas))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	png := vgimg.PngCanvas{Canvas: canvas}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// bars builds a bar chart in the given color.
func bars(values plotter.Values, width vg.Length, c color.Color) (*plotter.BarChart, error) {
	b, err := plotter.NewBarChart(values, width)
	if err != nil {
		return nil, fmt.Errorf("failed to build bar chart: %w", err)
	}
	b.Color = c
	b.LineStyle.Width = vg.Points(0.5)
	return b, nil
}

// groupedBars builds the side-by-side competitor and SOC bars every
// comparison chart uses.
func groupedBars(comp, soc plotter.Values, width vg.Length) (*plotter.BarChart, *plotter.BarChart, error) {
	compBars, err := bars(comp, width, colorCompetitor)
	if err != nil {
		return nil, nil, err
	}
	compBars.Offset = -width / 2

	socBars, err := bars(soc, width, colorSOC)
	if err != nil {
		return nil, nil, err
	}
	socBars.Offset = width / 2
	return compBars, socBars, nil
}

// scatter builds a scatter plot with a fixed glyph.
func scatter(xys plotter.XYs, c color.Color, shape draw.GlyphDrawer, radius vg.Length) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("failed to build scatter: %w", err)
	}
	s.GlyphStyle = draw.GlyphStyle{Color: c, Radius: radius, Shape: shape}
	return s, nil
}

// dashedLine builds a dashed reference line through the given points.
func dashedLine(xys plotter.XYs, c color.Color) (*plotter.Line, error) {
	l, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("failed to build reference line: %w", err)
	}
	l.LineStyle = draw.LineStyle{
		Color:  c,
		Width:  vg.Points(1.5),
		Dashes: []vg.Length{vg.Points(6), vg.Points(4)},
	}
	return l, nil
}

// vline is a vertical dashed reference line spanning [yMin, yMax].
func vline(x, yMin, yMax float64, c color.Color) (*plotter.Line, error) {
	return dashedLine(plotter.XYs{{X: x, Y: yMin}, {X: x, Y: yMax}}, c)
}

// hline is a horizontal dashed reference line spanning [xMin, xMax].
func hline(y, xMin, xMax float64, c color.Color) (*plotter.Line, error) {
	return dashedLine(plotter.XYs{{X: xMin, Y: y}, {X: xMax, Y: y}}, c)
}

// Package chart builds the figures of a weekly interest analysis with
// gonum/plot and renders them to PNG in memory.
package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Figure names.
const (
	LineName          = "line"
	DecompositionName = "decomposition"
	CorrelogramName   = "correlogram"
)

const dateFormat = "2006-01-02"

var (
	seriesColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	bandColor   = color.RGBA{R: 31, G: 119, B: 180, A: 40}
)

// Figure is a grid of aligned plots with an optional super-title.
type Figure struct {
	Name   string
	Title  string
	Width  vg.Length
	Height vg.Length

	panels [][]*plot.Plot
}

// Panels returns the number of plots in the figure.
func (f *Figure) Panels() int {
	n := 0
	for _, row := range f.panels {
		n += len(row)
	}
	return n
}

// WriteTo renders the figure as PNG.
func (f *Figure) WriteTo(w io.Writer) (int64, error) {
	if len(f.panels) == 0 {
		return 0, fmt.Errorf("figure %q has no panels", f.Name)
	}

	img := vgimg.New(f.Width, f.Height)
	dc := draw.New(img)

	if f.Title != "" {
		titleHeight := 0.5 * vg.Inch
		dc.FillText(text.Style{
			Color:   color.Black,
			Font:    font.From(plot.DefaultFont, vg.Points(16)),
			XAlign:  draw.XCenter,
			YAlign:  draw.YCenter,
			Handler: plot.DefaultTextHandler,
		}, vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Max.Y - titleHeight/2}, f.Title)
		dc = draw.Crop(dc, 0, 0, 0, -titleHeight)
	}

	tiles := draw.Tiles{
		Rows:      len(f.panels),
		Cols:      len(f.panels[0]),
		PadTop:    vg.Points(6),
		PadBottom: vg.Points(6),
		PadLeft:   vg.Points(6),
		PadRight:  vg.Points(12),
		PadX:      vg.Points(12),
		PadY:      vg.Points(12),
	}
	canvases := plot.Align(f.panels, tiles, dc)
	for i, row := range f.panels {
		for j, p := range row {
			p.Draw(canvases[i][j])
		}
	}

	return vgimg.PngCanvas{Canvas: img}.WriteTo(w)
}

// PNG renders the figure and returns the encoded image.
func (f *Figure) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", f.Name, err)
	}
	return buf.Bytes(), nil
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(13)
	return p
}

// useTimeAxis formats the x axis as dates with rotated labels.
func useTimeAxis(p *plot.Plot) {
	p.X.Tick.Marker = plot.TimeTicks{Format: dateFormat}
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

// timeXYs pairs timestamps and values, skipping missing points.
func timeXYs(timestamps []time.Time, values []float64) plotter.XYs {
	xys := make(plotter.XYs, 0, len(values))
	for i, v := range values {
		if i >= len(timestamps) || timestamps[i].IsZero() || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(timestamps[i].Unix()), Y: v})
	}
	return xys
}

// ID returns the figure name.
func (f *Figure) ID() string {
	return f.Name
}

// Caption returns the super-title, or the title of the first panel.
func (f *Figure) Caption() string {
	if f.Title != "" {
		return f.Title
	}
	if len(f.panels) > 0 && len(f.panels[0]) > 0 {
		return f.panels[0][0].Title.Text
	}
	return f.Name
}

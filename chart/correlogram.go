package chart

import (
	"fmt"

	"github.com/sartorproj/trendscope/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Correlogram builds the ACF and PACF stem plots, one above the other.
func Correlogram(acf *stats.ACFResult, pacf *stats.PACFResult, labels Labels) (*Figure, error) {
	if acf == nil || pacf == nil {
		return nil, fmt.Errorf("correlogram: missing results")
	}

	top, err := stemPlot(labels.ACFTitle, labels.LagAxis, acf.Values, acf.ConfBounds)
	if err != nil {
		return nil, fmt.Errorf("acf panel: %w", err)
	}
	bottom, err := stemPlot(labels.PACFTitle, labels.LagAxis, pacf.Values, pacf.Bounds())
	if err != nil {
		return nil, fmt.Errorf("pacf panel: %w", err)
	}

	return &Figure{
		Name:   CorrelogramName,
		Width:  12 * vg.Inch,
		Height: 6 * vg.Inch,
		panels: [][]*plot.Plot{{top}, {bottom}},
	}, nil
}

// stemPlot draws one vertical stem per lag, a marker at its tip and the
// shaded confidence band.
func stemPlot(title, xLabel string, values, bounds []float64) (*plot.Plot, error) {
	p := newPlot(title)
	p.X.Label.Text = xLabel
	p.Y.Min, p.Y.Max = -1.05, 1.05

	if len(values) == 0 {
		return p, nil
	}

	if band := bandPolygon(bounds); band != nil {
		poly, err := plotter.NewPolygon(band)
		if err != nil {
			return nil, err
		}
		poly.Color = bandColor
		poly.LineStyle.Width = 0
		p.Add(poly)
	}

	axis, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: float64(len(values) - 1), Y: 0}})
	if err != nil {
		return nil, err
	}
	axis.Width = vg.Points(0.5)
	p.Add(axis)

	tips := make(plotter.XYs, len(values))
	for k, v := range values {
		tips[k] = plotter.XY{X: float64(k), Y: v}
		stem, err := plotter.NewLine(plotter.XYs{{X: float64(k), Y: 0}, {X: float64(k), Y: v}})
		if err != nil {
			return nil, err
		}
		stem.Color = seriesColor
		stem.Width = vg.Points(1)
		p.Add(stem)
	}

	points, err := plotter.NewScatter(tips)
	if err != nil {
		return nil, err
	}
	points.Shape = draw.CircleGlyph{}
	points.Color = seriesColor
	points.Radius = vg.Points(2.5)
	p.Add(points)

	return p, nil
}

// bandPolygon outlines +bound over lags 1..n-1 and -bound back again.
func bandPolygon(bounds []float64) plotter.XYs {
	if len(bounds) < 2 {
		return nil
	}
	n := len(bounds)
	band := make(plotter.XYs, 0, 2*(n-1))
	for k := 1; k < n; k++ {
		band = append(band, plotter.XY{X: float64(k), Y: bounds[k]})
	}
	for k := n - 1; k >= 1; k-- {
		band = append(band, plotter.XY{X: float64(k), Y: -bounds[k]})
	}
	return band
}

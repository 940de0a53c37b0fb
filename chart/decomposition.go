package chart

import (
	"fmt"

	"github.com/sartorproj/trendscope/stats"
	"github.com/sartorproj/trendscope/timeseries"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Decomposition builds the four stacked panels of a seasonal decomposition:
// observed, trend, seasonal and residual.
func Decomposition(result *stats.DecompositionResult, labels Labels) (*Figure, error) {
	if result == nil {
		return nil, fmt.Errorf("decomposition figure: no result")
	}

	observed, err := componentPlot(result.Original, labels.Observed)
	if err != nil {
		return nil, err
	}
	trend, err := componentPlot(result.Trend, labels.Trend)
	if err != nil {
		return nil, err
	}
	seasonal, err := componentPlot(result.Seasonal, labels.Seasonal)
	if err != nil {
		return nil, err
	}
	residual, err := residualPlot(result, labels.Residual)
	if err != nil {
		return nil, err
	}

	return &Figure{
		Name:   DecompositionName,
		Title:  labels.DecompositionTitle,
		Width:  14 * vg.Inch,
		Height: 8 * vg.Inch,
		panels: [][]*plot.Plot{{observed}, {trend}, {seasonal}, {residual}},
	}, nil
}

func componentPlot(s *timeseries.Series, label string) (*plot.Plot, error) {
	p := plot.New()
	p.Y.Label.Text = label
	useTimeAxis(p)

	xys := timeXYs(s.Timestamps, s.Values)
	if len(xys) == 0 {
		return p, nil
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("%s panel: %w", label, err)
	}
	line.Color = seriesColor
	p.Add(line)
	return p, nil
}

// residualPlot draws residuals as points around a zero line.
func residualPlot(result *stats.DecompositionResult, label string) (*plot.Plot, error) {
	p := plot.New()
	p.Y.Label.Text = label
	useTimeAxis(p)

	xys := timeXYs(result.Residual.Timestamps, result.Residual.Values)
	if len(xys) == 0 {
		return p, nil
	}
	points, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("%s panel: %w", label, err)
	}
	points.Shape = draw.CircleGlyph{}
	points.Color = seriesColor
	points.Radius = vg.Points(2)

	first, last := xys[0].X, xys[len(xys)-1].X
	zero, err := plotter.NewLine(plotter.XYs{{X: first, Y: 0}, {X: last, Y: 0}})
	if err != nil {
		return nil, fmt.Errorf("%s panel: %w", label, err)
	}

	p.Add(zero, points)
	return p, nil
}

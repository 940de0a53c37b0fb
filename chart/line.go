package chart

import (
	"fmt"
	"time"

	"github.com/sartorproj/trendscope/timeseries"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Line builds the interest-over-time figure. Rows missing either the week
// or the value are not drawn.
func Line(frame *timeseries.Frame, labels Labels) (*Figure, error) {
	timestamps := make([]time.Time, frame.Len())
	for i, w := range frame.Weeks {
		if w.Valid {
			timestamps[i] = w.V
		}
	}
	xys := timeXYs(timestamps, frame.Series().Values)

	p := newPlot(labels.LineTitle)
	p.X.Label.Text = labels.WeekAxis
	p.Y.Label.Text = labels.InterestAxis
	useTimeAxis(p)
	p.Add(plotter.NewGrid())

	if len(xys) > 0 {
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, fmt.Errorf("line figure: %w", err)
		}
		line.Color = seriesColor
		line.Width = vg.Points(1.5)
		points.Shape = draw.CircleGlyph{}
		points.Color = seriesColor
		points.Radius = vg.Points(2.5)

		p.Add(line, points)
		p.Legend.Add(labels.Legend, line, points)
		p.Legend.Top = true
	}

	return &Figure{
		Name:   LineName,
		Width:  14 * vg.Inch,
		Height: 6 * vg.Inch,
		panels: [][]*plot.Plot{{p}},
	}, nil
}

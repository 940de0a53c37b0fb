package stats

import (
	"errors"
	"fmt"
	"math"

	"github.com/sartorproj/trendscope/timeseries"
)

// DecompositionModel selects how components combine.
type DecompositionModel string

const (
	// Additive models Y = T + S + R.
	Additive DecompositionModel = "additive"
	// Multiplicative models Y = T * S * R.
	Multiplicative DecompositionModel = "multiplicative"
)

var (
	// ErrInsufficientCycles is returned when the series does not span two
	// complete seasonal cycles.
	ErrInsufficientCycles = errors.New("series must contain at least two complete cycles")

	// ErrNonPositive is returned by a multiplicative decomposition of data
	// with zero or negative values.
	ErrNonPositive = errors.New("multiplicative seasonality is not appropriate for zero and negative values")
)

// DecompositionResult represents the decomposition of a time series.
// Trend and Residual are NaN over the first and last period/2 points.
type DecompositionResult struct {
	Original *timeseries.Series
	Trend    *timeseries.Series
	Seasonal *timeseries.Series
	Residual *timeseries.Series
	Period   int
	Model    DecompositionModel
}

// Decompose performs classical seasonal decomposition of a time series.
// The trend is a centered moving average of width period (2 x period for
// even periods). The series must not contain missing values and must hold
// at least two full cycles.
func Decompose(series *timeseries.Series, period int, model DecompositionModel) (*DecompositionResult, error) {
	n := series.Len()
	if period < 2 {
		return nil, fmt.Errorf("decompose: period must be at least 2, got %d", period)
	}
	if model == "" {
		model = Additive
	}
	if model != Additive && model != Multiplicative {
		return nil, fmt.Errorf("decompose: unknown model %q", model)
	}
	if series.HasMissing() {
		return nil, fmt.Errorf("decompose: %w", ErrMissingValues)
	}
	if n < 2*period {
		return nil, fmt.Errorf("decompose: %w: period %d needs %d observations, got %d",
			ErrInsufficientCycles, period, 2*period, n)
	}
	if model == Multiplicative {
		for _, v := range series.Values {
			if v <= 0 {
				return nil, fmt.Errorf("decompose: %w", ErrNonPositive)
			}
		}
	}

	// Step 1: Calculate trend using centered moving average
	trend := calculateTrend(series, period)

	// Step 2: Detrend the series
	detrended := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case math.IsNaN(trend[i]):
			detrended[i] = math.NaN()
		case model == Multiplicative:
			detrended[i] = series.Values[i] / trend[i]
		default:
			detrended[i] = series.Values[i] - trend[i]
		}
	}

	// Step 3: Average each position within the cycle
	pattern := make([]float64, period)
	counts := make([]int, period)
	for i := 0; i < n; i++ {
		if !math.IsNaN(detrended[i]) {
			pattern[i%period] += detrended[i]
			counts[i%period]++
		}
	}
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
	}

	// Normalize seasonal component
	mean := 0.0
	for _, v := range pattern {
		mean += v
	}
	mean /= float64(period)
	for i := range pattern {
		if model == Multiplicative {
			pattern[i] /= mean
		} else {
			pattern[i] -= mean
		}
	}

	seasonal := make([]float64, n)
	for i := range seasonal {
		seasonal[i] = pattern[i%period]
	}

	// Step 4: Calculate residual
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case math.IsNaN(trend[i]):
			residual[i] = math.NaN()
		case model == Multiplicative:
			residual[i] = series.Values[i] / (trend[i] * seasonal[i])
		default:
			residual[i] = series.Values[i] - trend[i] - seasonal[i]
		}
	}

	return &DecompositionResult{
		Original: series,
		Trend:    component(series, trend, "trend"),
		Seasonal: component(series, seasonal, "seasonal"),
		Residual: component(series, residual, "residual"),
		Period:   period,
		Model:    model,
	}, nil
}

func component(series *timeseries.Series, values []float64, name string) *timeseries.Series {
	return &timeseries.Series{
		Values:     values,
		Timestamps: series.Timestamps,
		Name:       name,
	}
}

// calculateTrend calculates trend using centered moving average.
func calculateTrend(series *timeseries.Series, period int) []float64 {
	n := series.Len()
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	halfPeriod := period / 2

	if period%2 == 0 {
		// Even period: use 2xperiod MA (centered)
		for i := halfPeriod; i < n-halfPeriod; i++ {
			sum := 0.0
			// First and last values get half weight
			sum += series.Values[i-halfPeriod] * 0.5
			sum += series.Values[i+halfPeriod] * 0.5
			for j := i - halfPeriod + 1; j < i+halfPeriod; j++ {
				sum += series.Values[j]
			}
			trend[i] = sum / float64(period)
		}
	} else {
		for i := halfPeriod; i < n-halfPeriod; i++ {
			sum := 0.0
			for j := i - halfPeriod; j <= i+halfPeriod; j++ {
				sum += series.Values[j]
			}
			trend[i] = sum / float64(period)
		}
	}

	return trend
}

// Package timeseries provides core time series data structures and operations.
package timeseries

import (
	"errors"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrMissingValues is returned when an operation needs a series without gaps.
var ErrMissingValues = errors.New("series contains missing values")

// Series represents a dense time series with timestamps and values.
// A NaN value marks a missing observation.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// epoch anchors synthetic weekly timestamps for series built from bare values.
var epoch = time.Date(2000, time.January, 2, 0, 0, 0, 0, time.UTC)

// New creates a new weekly time series from values.
func New(values []float64) *Series {
	timestamps := make([]time.Time, len(values))
	for i := range timestamps {
		timestamps[i] = epoch.AddDate(0, 0, 7*i)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// HasMissing reports whether any value is NaN.
func (s *Series) HasMissing() bool {
	return floats.HasNaN(s.Values)
}

// HasTimestamps reports whether every observation carries a real timestamp.
func (s *Series) HasTimestamps() bool {
	if len(s.Timestamps) != len(s.Values) {
		return false
	}
	for _, ts := range s.Timestamps {
		if ts.IsZero() {
			return false
		}
	}
	return true
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Variance calculates the unbiased sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.Variance(s.Values, nil)
}

// Std calculates the standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Min(s.Values)
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Max(s.Values)
}

// Median returns the median value of the series.
func (s *Series) Median() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Summary holds descriptive statistics of a series.
type Summary struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Median float64
	Max    float64
}

// Describe summarizes the series. Missing values should be dropped first.
func (s *Series) Describe() Summary {
	return Summary{
		Count:  s.Len(),
		Mean:   s.Mean(),
		Std:    s.Std(),
		Min:    s.Min(),
		Median: s.Median(),
		Max:    s.Max(),
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Interpolate returns a copy with NaN gaps filled. Interior gaps are
// linearly interpolated by position; leading and trailing gaps take the
// nearest observed value. It fails when nothing is observed.
func (s *Series) Interpolate() (*Series, error) {
	out := s.Copy()
	vals := out.Values

	prev := -1
	for i, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		switch {
		case prev == -1:
			for j := 0; j < i; j++ {
				vals[j] = v
			}
		case i-prev > 1:
			step := (v - vals[prev]) / float64(i-prev)
			for j := prev + 1; j < i; j++ {
				vals[j] = vals[prev] + step*float64(j-prev)
			}
		}
		prev = i
	}
	if prev == -1 {
		if len(vals) == 0 {
			return out, nil
		}
		return nil, errors.New("cannot interpolate a series without observations")
	}
	for j := prev + 1; j < len(vals); j++ {
		vals[j] = vals[prev]
	}
	return out, nil
}

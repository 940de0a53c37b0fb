package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/sartorproj/trendscope/timeseries"
)

func ar1(n int, phi float64) []float64 {
	values := make([]float64, n)
	for i := 1; i < n; i++ {
		values[i] = phi*values[i-1] + (float64(i%10)-5)/10
	}
	return values
}

func TestACF(t *testing.T) {
	series := timeseries.New(ar1(100, 0.8))
	acf, err := ACF(series, 10)
	if err != nil {
		t.Fatalf("ACF failed: %v", err)
	}

	if len(acf) != 11 {
		t.Fatalf("Expected 11 values, got %d", len(acf))
	}

	// ACF at lag 0 should be 1
	if math.Abs(acf[0]-1.0) > 1e-10 {
		t.Errorf("ACF at lag 0 should be 1, got %f", acf[0])
	}

	for i, v := range acf {
		if v < -1-1e-10 || v > 1+1e-10 {
			t.Errorf("ACF at lag %d out of range: %f", i, v)
		}
	}

	if acf[1] < 0.3 {
		t.Errorf("Expected strong lag-1 autocorrelation for AR(1), got %f", acf[1])
	}
}

func TestACFLagLimits(t *testing.T) {
	series := timeseries.New(ar1(60, 0.5))

	if _, err := ACF(series, 59); err != nil {
		t.Errorf("Expected 59 lags to be accepted for 60 observations: %v", err)
	}

	_, err := ACF(series, 60)
	if !errors.Is(err, ErrTooManyLags) {
		t.Errorf("Expected ErrTooManyLags, got %v", err)
	}
}

func TestACFMissingValues(t *testing.T) {
	values := ar1(60, 0.5)
	values[10] = math.NaN()

	_, err := ACF(timeseries.New(values), 5)
	if !errors.Is(err, ErrMissingValues) {
		t.Errorf("Expected ErrMissingValues, got %v", err)
	}
}

func TestACFConstantSeries(t *testing.T) {
	_, err := ACF(timeseries.New([]float64{3, 3, 3, 3, 3}), 2)
	if !errors.Is(err, ErrConstantSeries) {
		t.Errorf("Expected ErrConstantSeries, got %v", err)
	}
}

func TestPACF(t *testing.T) {
	series := timeseries.New(ar1(100, 0.7))
	pacf, err := PACF(series, 10)
	if err != nil {
		t.Fatalf("PACF failed: %v", err)
	}

	// PACF at lag 0 should be 1
	if math.Abs(pacf[0]-1.0) > 1e-10 {
		t.Errorf("PACF at lag 0 should be 1, got %f", pacf[0])
	}

	acf, _ := ACF(series, 1)
	if math.Abs(pacf[1]-acf[1]) > 1e-10 {
		t.Errorf("PACF at lag 1 should equal ACF at lag 1: %f vs %f", pacf[1], acf[1])
	}
}

func TestPACFLagLimits(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		lags    int
		wantErr bool
	}{
		{"well below half", 120, 52, false},
		{"just below half", 106, 52, false},
		{"odd length", 105, 52, false},
		{"exactly half", 104, 52, false},
		{"one short of half", 103, 52, true},
		{"short series", 60, 52, true},
		{"zero lags", 60, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PACF(timeseries.New(ar1(tt.n, 0.5)), tt.lags)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PACF(n=%d, lags=%d) error = %v, wantErr %v", tt.n, tt.lags, err, tt.wantErr)
			}
			if tt.wantErr && tt.lags > 0 && !errors.Is(err, ErrTooManyLags) {
				t.Errorf("Expected ErrTooManyLags, got %v", err)
			}
		})
	}
}

func TestACFWithConfidence(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i) + math.Sin(float64(i)/10)
	}

	result, err := ACFWithConfidence(timeseries.New(values), 20, 0.05)
	if err != nil {
		t.Fatalf("ACFWithConfidence failed: %v", err)
	}

	if result.ConfBounds[0] != 0 {
		t.Errorf("Expected no band at lag 0, got %f", result.ConfBounds[0])
	}

	// Lag 1 uses the white-noise variance 1/n
	expected := 1.959964 / math.Sqrt(100)
	if math.Abs(result.ConfBounds[1]-expected) > 1e-4 {
		t.Errorf("Expected confidence bounds ~%f, got %f", expected, result.ConfBounds[1])
	}

	// Bartlett bands widen as correlation accumulates
	for k := 2; k < len(result.ConfBounds); k++ {
		if result.ConfBounds[k] < result.ConfBounds[k-1] {
			t.Errorf("Band narrowed at lag %d: %f < %f", k, result.ConfBounds[k], result.ConfBounds[k-1])
		}
	}
}

func TestPACFWithConfidence(t *testing.T) {
	result, err := PACFWithConfidence(timeseries.New(ar1(100, 0.7)), 10, 0.01)
	if err != nil {
		t.Fatalf("PACFWithConfidence failed: %v", err)
	}

	expected := 2.575829 / math.Sqrt(100)
	if math.Abs(result.ConfBounds-expected) > 1e-4 {
		t.Errorf("Expected confidence bounds ~%f, got %f", expected, result.ConfBounds)
	}

	bounds := result.Bounds()
	if len(bounds) != 11 || bounds[0] != 0 || bounds[5] != result.ConfBounds {
		t.Errorf("Unexpected per-lag bounds: %v", bounds)
	}
}

func TestSignificantLags(t *testing.T) {
	values := []float64{1.0, 0.5, 0.3, 0.1, 0.05, -0.2, -0.5}
	bounds := []float64{0, 0.15, 0.15, 0.15, 0.15, 0.15, 0.6}

	significant := SignificantLags(values, bounds)

	// Lag 6 stays inside its wider band
	expected := []int{1, 2, 5}
	if len(significant) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, significant)
	}
	for i := range expected {
		if significant[i] != expected[i] {
			t.Errorf("Expected %v, got %v", expected, significant)
		}
	}
}

func seasonalSeries(n, period int) []float64 {
	values := make([]float64, n)
	for i := range values {
		trend := float64(i) * 0.5
		seasonal := 10 * math.Sin(2*math.Pi*float64(i%period)/float64(period))
		values[i] = 50 + trend + seasonal
	}
	return values
}

func TestDecompose(t *testing.T) {
	n := 120
	period := 12
	series := timeseries.New(seasonalSeries(n, period))

	result, err := Decompose(series, period, Additive)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	if result.Trend.Len() != n || result.Seasonal.Len() != n || result.Residual.Len() != n {
		t.Fatalf("Component length mismatch")
	}

	// The centered MA leaves period/2 points without trend on each side
	for _, i := range []int{0, period/2 - 1, n - period/2} {
		if !math.IsNaN(result.Trend.Values[i]) || !math.IsNaN(result.Residual.Values[i]) {
			t.Errorf("Expected NaN trend and residual at index %d", i)
		}
	}
	if math.IsNaN(result.Trend.Values[period/2]) {
		t.Errorf("Expected trend at index %d", period/2)
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += result.Seasonal.Values[i]
	}
	if math.Abs(sum) > 1e-9 {
		t.Errorf("Seasonal component should sum to zero over a cycle, got %f", sum)
	}

	for i := period / 2; i < n-period/2; i++ {
		reconstructed := result.Trend.Values[i] + result.Seasonal.Values[i] + result.Residual.Values[i]
		if math.Abs(reconstructed-series.Values[i]) > 1e-9 {
			t.Errorf("Reconstruction error at index %d: original=%f, reconstructed=%f",
				i, series.Values[i], reconstructed)
		}
		if math.Abs(result.Residual.Values[i]) > 1e-9 {
			t.Errorf("Expected zero residual at index %d, got %f", i, result.Residual.Values[i])
		}
	}
}

func TestDecomposeWeekly(t *testing.T) {
	series := timeseries.New(seasonalSeries(156, 52))

	result, err := Decompose(series, 52, Additive)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}
	if result.Period != 52 || result.Model != Additive {
		t.Errorf("Unexpected result metadata: period=%d model=%s", result.Period, result.Model)
	}
	if !result.Trend.Timestamps[0].Equal(series.Timestamps[0]) {
		t.Error("Components should share the original timestamps")
	}
}

func TestDecomposeMultiplicative(t *testing.T) {
	period := 4
	values := make([]float64, 24)
	factors := []float64{0.8, 1.2, 1.1, 0.9}
	for i := range values {
		values[i] = 100 * factors[i%period]
	}

	result, err := Decompose(timeseries.New(values), period, Multiplicative)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	for i := 0; i < period; i++ {
		if math.Abs(result.Seasonal.Values[i]-factors[i]) > 1e-9 {
			t.Errorf("Seasonal factor %d: expected %f, got %f", i, factors[i], result.Seasonal.Values[i])
		}
	}
	for i := period / 2; i < len(values)-period/2; i++ {
		if math.Abs(result.Residual.Values[i]-1) > 1e-9 {
			t.Errorf("Expected unit residual at index %d, got %f", i, result.Residual.Values[i])
		}
	}
}

func TestDecomposeErrors(t *testing.T) {
	withGap := seasonalSeries(120, 12)
	withGap[30] = math.NaN()

	withZero := seasonalSeries(120, 12)
	withZero[5] = 0

	tests := []struct {
		name   string
		values []float64
		period int
		model  DecompositionModel
		target error
	}{
		{"one cycle", seasonalSeries(60, 52), 52, Additive, ErrInsufficientCycles},
		{"just under two cycles", seasonalSeries(103, 52), 52, Additive, ErrInsufficientCycles},
		{"missing values", withGap, 12, Additive, ErrMissingValues},
		{"non-positive", withZero, 12, Multiplicative, ErrNonPositive},
		{"period too small", seasonalSeries(20, 12), 1, Additive, nil},
		{"unknown model", seasonalSeries(120, 12), 12, "exotic", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompose(timeseries.New(tt.values), tt.period, tt.model)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("Expected %v, got %v", tt.target, err)
			}
		})
	}
}

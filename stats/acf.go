package stats

import (
	"errors"
	"fmt"
	"math"

	"github.com/sartorproj/trendscope/timeseries"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrMissingValues is returned when a computation needs a series without gaps.
	ErrMissingValues = timeseries.ErrMissingValues

	// ErrTooManyLags is returned when the requested lag count is too large
	// for the sample size.
	ErrTooManyLags = errors.New("too many lags for sample size")

	// ErrConstantSeries is returned when the series has zero variance.
	ErrConstantSeries = errors.New("series has zero variance")
)

// ACF calculates the Autocorrelation Function for the given series.
// Returns ACF values for lags 0 to maxLag. maxLag must be below the
// number of observations.
func ACF(series *timeseries.Series, maxLag int) ([]float64, error) {
	n := series.Len()
	if maxLag < 0 {
		return nil, fmt.Errorf("acf: negative lag count %d", maxLag)
	}
	if series.HasMissing() {
		return nil, fmt.Errorf("acf: %w", ErrMissingValues)
	}
	if maxLag >= n {
		return nil, fmt.Errorf("acf: %w: %d lags need more than %d observations, got %d",
			ErrTooManyLags, maxLag, maxLag, n)
	}

	mean := series.Mean()
	variance := 0.0
	for _, v := range series.Values {
		diff := v - mean
		variance += diff * diff
	}

	if variance == 0 {
		return nil, fmt.Errorf("acf: %w", ErrConstantSeries)
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (series.Values[i] - mean) * (series.Values[i-k] - mean)
		}
		acf[k] = sum / variance
	}

	return acf, nil
}

// PACF calculates the Partial Autocorrelation Function using the Durbin-Levinson algorithm.
// Returns PACF values for lags 0 to maxLag. maxLag may be at most half the
// number of observations.
func PACF(series *timeseries.Series, maxLag int) ([]float64, error) {
	n := series.Len()
	if maxLag < 1 {
		return nil, fmt.Errorf("pacf: lag count must be positive, got %d", maxLag)
	}
	if maxLag > n/2 {
		return nil, fmt.Errorf("pacf: %w: lags are limited to 50%% of the sample size; %d lags need at least %d observations, got %d",
			ErrTooManyLags, maxLag, 2*maxLag, n)
	}

	acf, err := ACF(series, maxLag)
	if err != nil {
		return nil, fmt.Errorf("pacf: %w", err)
	}

	pacf := make([]float64, maxLag+1)
	pacf[0] = 1.0 // PACF at lag 0 is always 1

	// Durbin-Levinson algorithm
	phi := make([][]float64, maxLag+1)
	for i := range phi {
		phi[i] = make([]float64, maxLag+1)
	}

	phi[1][1] = acf[1]
	pacf[1] = acf[1]

	for k := 2; k <= maxLag; k++ {
		// Calculate phi[k][k]
		num := acf[k]
		den := 1.0
		for j := 1; j < k; j++ {
			num -= phi[k-1][j] * acf[k-j]
			den -= phi[k-1][j] * acf[j]
		}

		if den == 0 {
			pacf[k] = 0
			continue
		}

		phi[k][k] = num / den
		pacf[k] = phi[k][k]

		// Update phi[k][j] for j < k
		for j := 1; j < k; j++ {
			phi[k][j] = phi[k-1][j] - phi[k][k]*phi[k-1][k-j]
		}
	}

	return pacf, nil
}

// ACFResult represents the result of ACF analysis.
type ACFResult struct {
	Lags   []int
	Values []float64
	// ConfBounds holds the half-width of the confidence band at each lag
	// (Bartlett's formula). It is zero at lag 0.
	ConfBounds []float64
	Alpha      float64
}

// ACFWithConfidence calculates ACF with Bartlett confidence bounds at
// significance level alpha.
func ACFWithConfidence(series *timeseries.Series, maxLag int, alpha float64) (*ACFResult, error) {
	acf, err := ACF(series, maxLag)
	if err != nil {
		return nil, err
	}

	z := criticalValue(alpha)
	n := float64(series.Len())

	lags := make([]int, len(acf))
	bounds := make([]float64, len(acf))
	cum := 0.0
	for k := range acf {
		lags[k] = k
		if k == 0 {
			continue
		}
		// var(r_k) = (1 + 2*sum_{j<k} r_j^2) / n
		bounds[k] = z * math.Sqrt((1+2*cum)/n)
		cum += acf[k] * acf[k]
	}

	return &ACFResult{
		Lags:       lags,
		Values:     acf,
		ConfBounds: bounds,
		Alpha:      alpha,
	}, nil
}

// PACFResult represents the result of PACF analysis.
type PACFResult struct {
	Lags       []int
	Values     []float64
	ConfBounds float64 // z/sqrt(n) for the chosen alpha
	Alpha      float64
}

// PACFWithConfidence calculates PACF with confidence bounds at significance
// level alpha.
func PACFWithConfidence(series *timeseries.Series, maxLag int, alpha float64) (*PACFResult, error) {
	pacf, err := PACF(series, maxLag)
	if err != nil {
		return nil, err
	}

	lags := make([]int, len(pacf))
	for i := range lags {
		lags[i] = i
	}

	confBound := criticalValue(alpha) / math.Sqrt(float64(series.Len()))

	return &PACFResult{
		Lags:       lags,
		Values:     pacf,
		ConfBounds: confBound,
		Alpha:      alpha,
	}, nil
}

// Bounds returns the confidence half-width at every lag, zero at lag 0.
func (r *PACFResult) Bounds() []float64 {
	bounds := make([]float64, len(r.Values))
	for k := 1; k < len(bounds); k++ {
		bounds[k] = r.ConfBounds
	}
	return bounds
}

// SignificantLags returns the lags where ACF/PACF values exceed their confidence bounds.
func SignificantLags(values, bounds []float64) []int {
	var significant []int
	for i := 1; i < len(values) && i < len(bounds); i++ { // Skip lag 0
		if math.Abs(values[i]) > bounds[i] {
			significant = append(significant, i)
		}
	}
	return significant
}

// criticalValue returns the two-sided standard normal quantile for alpha.
func criticalValue(alpha float64) float64 {
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.05
	}
	return distuv.UnitNormal.Quantile(1 - alpha/2)
}

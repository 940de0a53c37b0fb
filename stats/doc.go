// Package stats provides statistical tests and analysis functions for time series.
//
// # Normality
//
// Test whether a sample could come from a normal distribution:
//
//	// Shapiro-Wilk test
//	// H0: Sample is drawn from a normal distribution
//	sw, err := stats.ShapiroWilk(sample.Values)
//	fmt.Printf("W=%.4f, p=%.4f, normal=%v\n",
//	    sw.Statistic, sw.PValue, sw.IsNormal(0.05))
//
// # Autocorrelation Functions
//
// Analyze autocorrelation patterns. The series must not contain missing
// values; ACF accepts fewer lags than observations and PACF at most half:
//
//	// Autocorrelation Function
//	acf, err := stats.ACF(series, 52)
//
//	// Partial Autocorrelation Function
//	pacf, err := stats.PACF(series, 52)
//
//	// ACF with Bartlett confidence bounds
//	acfResult, err := stats.ACFWithConfidence(series, 52, 0.05)
//	significant := stats.SignificantLags(acfResult.Values, acfResult.ConfBounds)
//
// # Time Series Decomposition
//
// Decompose time series into components:
//
//	// Classical decomposition, 52 weeks per cycle
//	decomp, err := stats.Decompose(series, 52, stats.Additive)
//	// decomp.Trend, decomp.Seasonal, decomp.Residual
package stats

// Package trendscope explores a weekly search-interest series such as a
// Google Trends export.
//
// # Features
//
//   - CSV loading with banner skipping and tolerant cleaning (timeseries)
//   - Shapiro-Wilk normality test (stats)
//   - Classical seasonal decomposition (stats)
//   - Autocorrelation analysis with confidence bands (stats)
//   - Line, decomposition and correlogram figures (chart)
//   - A local page that shows the figures until it is closed (viewer)
//
// # Quick Start
//
// Run the whole analysis from the command line:
//
//	trendscope --file Bitcoin.csv
//
// Or from Go:
//
//	report, err := analysis.Run(ctx, os.Stdout, analysis.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	figs := make([]viewer.Figure, len(report.Figures))
//	for i, f := range report.Figures {
//	    figs[i] = f
//	}
//	err = viewer.Show(ctx, viewer.DefaultAddr, figs...)
//
// # Package Structure
//
//   - timeseries: raw table, cleaned Frame and dense Series
//   - stats: normality test, ACF/PACF, decomposition
//   - chart: gonum/plot figures rendered to PNG in memory
//   - viewer: chi server that displays the figures
//   - analysis: the end-to-end run and its console report
//   - cmd/trendscope: command-line entry point
package trendscope

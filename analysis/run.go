// Package analysis runs the exploratory analysis of a weekly interest series:
// load and clean the CSV, test normality, and build the line, decomposition
// and correlogram figures.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sartorproj/trendscope/chart"
	"github.com/sartorproj/trendscope/stats"
	"github.com/sartorproj/trendscope/timeseries"
	"k8s.io/klog/v2"
)

// MissingPolicy decides how the decomposition and the correlogram treat
// missing values.
type MissingPolicy string

const (
	// MissingError keeps the gaps; the decomposition is skipped and the
	// correlogram fails.
	MissingError MissingPolicy = "error"
	// MissingInterpolate fills gaps linearly before both.
	MissingInterpolate MissingPolicy = "interpolate"
)

// Options configures a run.
type Options struct {
	File string
	Load *timeseries.LoadOptions

	// Period is the seasonal cycle length in weeks.
	Period int
	// MinDecomposeRows is the row count below which the decomposition is skipped.
	MinDecomposeRows int
	Model            stats.DecompositionModel
	Missing          MissingPolicy

	Lags  int
	Alpha float64

	PreviewRows int
	Labels      chart.Labels
}

// DefaultOptions returns the options for a Google Trends weekly export.
func DefaultOptions() Options {
	return Options{
		File:             "Bitcoin.csv",
		Load:             timeseries.DefaultLoadOptions(),
		Period:           52,
		MinDecomposeRows: 52,
		Model:            stats.Additive,
		Missing:          MissingError,
		Lags:             52,
		Alpha:            0.05,
		PreviewRows:      5,
		Labels:           chart.DefaultLabels(),
	}
}

// Report holds everything a run produced.
type Report struct {
	Frame *timeseries.Frame
	// DateFallback is set when the strict date parse failed and bad dates
	// were coerced to missing.
	DateFallback bool

	Normality *stats.ShapiroResult

	// Decomposition is nil when the series was too short or the
	// decomposition failed; DecompositionErr carries the failure.
	Decomposition    *stats.DecompositionResult
	DecompositionErr error

	// ACF and PACF are nil when the series has no variance;
	// CorrelogramErr carries the reason.
	ACF            *stats.ACFResult
	PACF           *stats.PACFResult
	CorrelogramErr error

	Figures []*chart.Figure
}

// Run performs the analysis, writing the console report to out.
func Run(ctx context.Context, out io.Writer, opts Options) (*Report, error) {
	logger := klog.FromContext(ctx)
	report := &Report{}

	frame, fallback, err := load(ctx, out, opts)
	if err != nil {
		return nil, err
	}
	report.Frame = frame
	report.DateFallback = fallback

	sw, err := normality(ctx, out, frame, opts.Alpha)
	if err != nil {
		return nil, err
	}
	report.Normality = sw

	line, err := chart.Line(frame, opts.Labels)
	if err != nil {
		return nil, err
	}
	report.Figures = append(report.Figures, line)

	series, err := analysisSeries(ctx, frame, opts.Missing)
	if err != nil {
		return nil, err
	}

	if frame.Len() >= opts.MinDecomposeRows {
		fmt.Fprintln(out, "\nSeries is long enough for decomposition. Running decomposition...")
		result, fig, err := decompose(series, opts)
		if err != nil {
			fmt.Fprintf(out, "Decomposition error: %v\n", err)
			logger.V(2).Info("Decomposition skipped", "err", err)
			report.DecompositionErr = err
		} else {
			report.Decomposition = result
			report.Figures = append(report.Figures, fig)
		}
	} else {
		fmt.Fprintf(out, "Insufficient data for decomposition. At least %d weeks are required.\n", opts.MinDecomposeRows)
	}

	if err := correlogram(out, report, series, opts); err != nil {
		return nil, err
	}

	logger.Info("Analysis complete", "rows", frame.Len(), "figures", len(report.Figures))
	return report, nil
}

// load reads and cleans the table. The second result reports whether the
// date fallback was taken.
func load(ctx context.Context, out io.Writer, opts Options) (*timeseries.Frame, bool, error) {
	logger := klog.FromContext(ctx)

	logger.V(2).Info("Reading table", "file", opts.File)
	raw, err := timeseries.ReadRawFile(opts.File, opts.Load)
	if err != nil {
		return nil, false, fmt.Errorf("loading %s: %w", opts.File, err)
	}
	logger.Info("Loaded table", "file", opts.File, "rows", raw.Nrow(), "columns", raw.Names())

	fmt.Fprintln(out, "First rows of the file:")
	fmt.Fprintln(out, timeseries.Head(raw, opts.PreviewRows))
	fmt.Fprintln(out, "\nData structure:")
	if err := timeseries.WriteInfo(out, raw); err != nil {
		return nil, false, err
	}

	raw, err = timeseries.Rename(raw, timeseries.WeekColumn, timeseries.InterestColumn)
	if err != nil {
		return nil, false, err
	}

	cells := raw.Col(timeseries.WeekColumn).Records()
	fallback := false
	weeks, err := timeseries.ParseWeeks(cells, timeseries.Strict)
	if err != nil {
		fmt.Fprintf(out, "Error converting column 'Week' to dates: %v\n", err)
		fallback = true
		if weeks, err = timeseries.ParseWeeks(cells, timeseries.Coerce); err != nil {
			return nil, false, err
		}
	}
	interest := timeseries.ParseInterest(raw.Col(timeseries.InterestColumn).Records())

	frame, err := timeseries.NewFrame(weeks, interest)
	if err != nil {
		return nil, false, err
	}
	if n := frame.MissingInterest(); n > 0 {
		logger.V(2).Info("Coerced non-numeric values to missing", "count", n)
	}

	fmt.Fprintln(out, "\nData after processing:")
	fmt.Fprintln(out, frame.Head(opts.PreviewRows).Table())
	fmt.Fprintln(out, "\nSummary statistics:")
	if err := timeseries.WriteSummary(out, timeseries.InterestColumn, frame.DropMissing().Describe()); err != nil {
		return nil, false, err
	}
	return frame, fallback, nil
}

func normality(ctx context.Context, out io.Writer, frame *timeseries.Frame, alpha float64) (*stats.ShapiroResult, error) {
	logger := klog.FromContext(ctx)

	sw, err := stats.ShapiroWilk(frame.DropMissing().Values)
	if err != nil {
		return nil, fmt.Errorf("normality test: %w", err)
	}
	for _, w := range sw.Warnings {
		logger.Info("Shapiro-Wilk warning", "warning", w, "n", sw.N)
	}

	fmt.Fprintln(out, "\nShapiro-Wilk normality test:")
	fmt.Fprintf(out, "Statistic: %.4f, P-value: %.4f\n", sw.Statistic, sw.PValue)
	if sw.IsNormal(alpha) {
		fmt.Fprintln(out, "The data may follow a normal distribution (fail to reject H0).")
	} else {
		fmt.Fprintln(out, "The data does not follow a normal distribution (reject H0).")
	}
	return sw, nil
}

// analysisSeries returns the full Interest column, gaps filled when the
// policy asks for it.
func analysisSeries(ctx context.Context, frame *timeseries.Frame, policy MissingPolicy) (*timeseries.Series, error) {
	series := frame.Series()
	if policy != MissingInterpolate || !series.HasMissing() {
		return series, nil
	}
	filled, err := series.Interpolate()
	if err != nil {
		return nil, fmt.Errorf("filling missing values: %w", err)
	}
	klog.FromContext(ctx).Info("Interpolated missing values", "count", frame.MissingInterest())
	return filled, nil
}

func decompose(series *timeseries.Series, opts Options) (*stats.DecompositionResult, *chart.Figure, error) {
	result, err := stats.Decompose(series, opts.Period, opts.Model)
	if err != nil {
		return nil, nil, err
	}
	fig, err := chart.Decomposition(result, opts.Labels)
	if err != nil {
		return nil, nil, err
	}
	return result, fig, nil
}

// correlogram computes ACF and PACF, adds their figure and prints the
// significant lags. A series without variance skips the figure; every
// other failure is returned.
func correlogram(out io.Writer, report *Report, series *timeseries.Series, opts Options) error {
	acf, err := stats.ACFWithConfidence(series, opts.Lags, opts.Alpha)
	if errors.Is(err, stats.ErrConstantSeries) {
		fmt.Fprintf(out, "\nAutocorrelation skipped: %v\n", err)
		report.CorrelogramErr = err
		return nil
	}
	if err != nil {
		return fmt.Errorf("autocorrelation: %w", err)
	}
	pacf, err := stats.PACFWithConfidence(series, opts.Lags, opts.Alpha)
	if err != nil {
		return fmt.Errorf("partial autocorrelation: %w", err)
	}
	fig, err := chart.Correlogram(acf, pacf, opts.Labels)
	if err != nil {
		return err
	}
	report.ACF, report.PACF = acf, pacf
	report.Figures = append(report.Figures, fig)

	fmt.Fprintf(out, "\nSignificant ACF lags (alpha=%g): %v\n", opts.Alpha, stats.SignificantLags(acf.Values, acf.ConfBounds))
	fmt.Fprintf(out, "Significant PACF lags (alpha=%g): %v\n", opts.Alpha, stats.SignificantLags(pacf.Values, pacf.Bounds()))
	return nil
}

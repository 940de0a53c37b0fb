package timeseries

import (
	"database/sql"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/spf13/cast"
)

// Column names of a cleaned frame.
const (
	WeekColumn     = "Week"
	InterestColumn = "Interest"
)

// missingTokens are cell contents treated as missing before any parsing.
var missingTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"NaN":  true,
	"NaT":  true,
	"null": true,
}

// extraDateLayouts complement the layouts known to cast.
var extraDateLayouts = []string{
	"02.01.2006",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
	"2006-01",
}

// ParseMode controls how ParseWeeks treats cells that are not dates.
type ParseMode int

const (
	// Strict fails on the first cell that is not a date.
	Strict ParseMode = iota
	// Coerce turns cells that are not dates into missing values.
	Coerce
)

// DateParseError reports the first cell rejected by a strict parse.
type DateParseError struct {
	Row   int
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("row %d: cannot parse %q as a date: %v", e.Row, e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error {
	return e.Err
}

// Frame is the cleaned two-column table: one row per week, each cell nullable.
// Rows keep the order of the source; cleaning never drops a row.
type Frame struct {
	Weeks    []sql.Null[time.Time]
	Interest []sql.Null[float64]
}

// NewFrame pairs parsed week and interest columns.
func NewFrame(weeks []sql.Null[time.Time], interest []sql.Null[float64]) (*Frame, error) {
	if len(weeks) != len(interest) {
		return nil, fmt.Errorf("column lengths differ: %d weeks, %d values", len(weeks), len(interest))
	}
	return &Frame{Weeks: weeks, Interest: interest}, nil
}

// ParseWeeks converts raw cells into dates.
func ParseWeeks(cells []string, mode ParseMode) ([]sql.Null[time.Time], error) {
	out := make([]sql.Null[time.Time], len(cells))
	for i, cell := range cells {
		cell = strings.TrimSpace(cell)
		if missingTokens[cell] {
			continue
		}
		ts, err := parseDate(cell)
		if err != nil {
			if mode == Strict {
				return nil, &DateParseError{Row: i, Value: cell, Err: err}
			}
			continue
		}
		out[i] = sql.Null[time.Time]{V: ts, Valid: true}
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	ts, err := cast.ToTimeE(s)
	if err == nil {
		return ts, nil
	}
	for _, layout := range extraDateLayouts {
		if t, perr := time.Parse(layout, s); perr == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// ParseInterest converts raw cells into numbers. Cells that are not numbers
// become missing.
func ParseInterest(cells []string) []sql.Null[float64] {
	trimmed := make([]string, len(cells))
	for i, cell := range cells {
		trimmed[i] = strings.TrimSpace(cell)
	}
	col := series.New(trimmed, series.Float, InterestColumn)
	values := col.Float()
	isNaN := col.IsNaN()

	out := make([]sql.Null[float64], len(values))
	for i, v := range values {
		if isNaN[i] || math.IsInf(v, 0) {
			continue
		}
		out[i] = sql.Null[float64]{V: v, Valid: true}
	}
	return out
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Interest)
}

// MissingWeeks counts rows without a valid date.
func (f *Frame) MissingWeeks() int {
	n := 0
	for _, w := range f.Weeks {
		if !w.Valid {
			n++
		}
	}
	return n
}

// MissingInterest counts rows without a valid value.
func (f *Frame) MissingInterest() int {
	n := 0
	for _, v := range f.Interest {
		if !v.Valid {
			n++
		}
	}
	return n
}

// Head returns the first n rows.
func (f *Frame) Head(n int) *Frame {
	if n > f.Len() {
		n = f.Len()
	}
	if n < 0 {
		n = 0
	}
	return &Frame{Weeks: f.Weeks[:n], Interest: f.Interest[:n]}
}

// Series returns every row as a dense series, missing values as NaN.
func (f *Frame) Series() *Series {
	timestamps := make([]time.Time, f.Len())
	values := make([]float64, f.Len())
	for i, v := range f.Interest {
		timestamps[i] = f.Weeks[i].V
		if v.Valid {
			values[i] = v.V
		} else {
			values[i] = math.NaN()
		}
	}
	return &Series{Timestamps: timestamps, Values: values, Name: InterestColumn}
}

// DropMissing returns the rows that have a value.
func (f *Frame) DropMissing() *Series {
	s := &Series{Name: InterestColumn}
	for i, v := range f.Interest {
		if !v.Valid {
			continue
		}
		s.Timestamps = append(s.Timestamps, f.Weeks[i].V)
		s.Values = append(s.Values, v.V)
	}
	return s
}

// Complete returns every row as a series, failing if any value is missing.
func (f *Frame) Complete() (*Series, error) {
	if missing := f.MissingInterest(); missing > 0 {
		return nil, fmt.Errorf("%w: %d of %d %s values", ErrMissingValues, missing, f.Len(), InterestColumn)
	}
	return f.Series(), nil
}

// Table renders the frame as a dataframe for console previews.
// Missing dates print as NaT and missing values as NaN.
func (f *Frame) Table() dataframe.DataFrame {
	weeks := make([]string, f.Len())
	values := make([]float64, f.Len())
	for i := range f.Interest {
		weeks[i] = "NaT"
		if f.Weeks[i].Valid {
			weeks[i] = f.Weeks[i].V.Format("2006-01-02")
		}
		values[i] = math.NaN()
		if f.Interest[i].Valid {
			values[i] = f.Interest[i].V
		}
	}
	return dataframe.New(
		series.New(weeks, series.String, WeekColumn),
		series.New(values, series.Float, InterestColumn),
	)
}

// Info writes a structure summary of the cleaned frame.
func (f *Frame) Info(w io.Writer) error {
	index := fmt.Sprintf("Index: %d entries", f.Len())
	if first, last, ok := f.span(); ok {
		index = fmt.Sprintf("%s, %s to %s", index, first.Format("2006-01-02"), last.Format("2006-01-02"))
	}
	cols := []columnInfo{
		{Name: WeekColumn, NonNull: f.Len() - f.MissingWeeks(), Dtype: "datetime"},
		{Name: InterestColumn, NonNull: f.Len() - f.MissingInterest(), Dtype: "float64"},
	}
	return writeInfo(w, index, cols)
}

func (f *Frame) span() (first, last time.Time, ok bool) {
	for _, wk := range f.Weeks {
		if !wk.Valid {
			continue
		}
		if !ok || wk.V.Before(first) {
			first = wk.V
		}
		if !ok || wk.V.After(last) {
			last = wk.V
		}
		ok = true
	}
	return first, last, ok
}

// WriteSummary writes descriptive statistics of the named column.
func WriteSummary(w io.Writer, name string, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\t%s\t\n", name)
	fmt.Fprintf(tw, "count\t%d\t\n", s.Count)
	for _, row := range []struct {
		label string
		value float64
	}{
		{"mean", s.Mean},
		{"std", s.Std},
		{"min", s.Min},
		{"50%", s.Median},
		{"max", s.Max},
	} {
		fmt.Fprintf(tw, "%s\t%.4f\t\n", row.label, row.value)
	}
	return tw.Flush()
}

type columnInfo struct {
	Name    string
	NonNull int
	Dtype   string
}

func writeInfo(w io.Writer, index string, cols []columnInfo) error {
	if _, err := fmt.Fprintln(w, index); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Data columns (total %d columns):\n", len(cols)); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, " #\tColumn\tNon-Null Count\tDtype")
	for i, c := range cols {
		fmt.Fprintf(tw, " %d\t%s\t%d non-null\t%s\n", i, c.Name, c.NonNull, c.Dtype)
	}
	return tw.Flush()
}

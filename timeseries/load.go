package timeseries

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrColumnCount is returned when the source table does not have exactly
// two columns.
var ErrColumnCount = errors.New("expected exactly two columns")

// LoadOptions holds options for reading the raw table.
type LoadOptions struct {
	SkipRows  int      // Physical lines skipped before the header (default: 1)
	Delimiter rune     // Field delimiter (default: ',')
	NaNValues []string // Cells read as missing
}

// DefaultLoadOptions returns default options for reading the raw table.
func DefaultLoadOptions() *LoadOptions {
	return &LoadOptions{
		SkipRows:  1,
		Delimiter: ',',
		NaNValues: []string{"", "NA", "NaN", "NaT", "null"},
	}
}

// ReadRawFile reads the raw two-column table from a CSV file.
func ReadRawFile(filename string, opts *LoadOptions) (dataframe.DataFrame, error) {
	file, err := os.Open(filename)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer file.Close()

	return ReadRaw(file, opts)
}

// ReadRaw reads the raw two-column table. Every column is kept as text;
// typing happens when the frame is cleaned.
func ReadRaw(r io.Reader, opts *LoadOptions) (dataframe.DataFrame, error) {
	if opts == nil {
		opts = DefaultLoadOptions()
	}

	br := bufio.NewReader(r)
	for i := 0; i < opts.SkipRows; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				return dataframe.DataFrame{}, fmt.Errorf("skipping row %d: %w", i+1, io.ErrUnexpectedEOF)
			}
			return dataframe.DataFrame{}, err
		}
	}

	df := dataframe.ReadCSV(br,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithDelimiter(opts.Delimiter),
		dataframe.WithLazyQuotes(true),
		dataframe.NaNValues(opts.NaNValues),
	)
	if err := df.Error(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("reading table: %w", err)
	}
	if df.Ncol() != 2 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: got %d (%v)", ErrColumnCount, df.Ncol(), df.Names())
	}
	return df, nil
}

// Rename returns a copy of the raw table with its columns renamed.
func Rename(df dataframe.DataFrame, names ...string) (dataframe.DataFrame, error) {
	out := df.Copy()
	if err := out.SetNames(names...); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("renaming columns: %w", err)
	}
	return out, nil
}

// Head returns the first n rows of a table.
func Head(df dataframe.DataFrame, n int) dataframe.DataFrame {
	if n > df.Nrow() {
		n = df.Nrow()
	}
	if n <= 0 {
		return df
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return df.Subset(idx)
}

// WriteInfo writes a structure summary of a raw table.
func WriteInfo(w io.Writer, df dataframe.DataFrame) error {
	names := df.Names()
	cols := make([]columnInfo, len(names))
	for i, name := range names {
		col := df.Col(name)
		nonNull := 0
		for _, isNaN := range col.IsNaN() {
			if !isNaN {
				nonNull++
			}
		}
		cols[i] = columnInfo{Name: name, NonNull: nonNull, Dtype: string(col.Type())}
	}
	index := fmt.Sprintf("RangeIndex: %d entries", df.Nrow())
	if df.Nrow() > 0 {
		index = fmt.Sprintf("%s, 0 to %d", index, df.Nrow()-1)
	}
	return writeInfo(w, index, cols)
}

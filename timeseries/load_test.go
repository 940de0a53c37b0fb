package timeseries

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trendsCSV = `Category: All categories

Week,Bitcoin: (Russia)
2024-01-07,41
2024-01-14,38
2024-01-21,<1
2024-01-28,35
`

func TestReadRawSkipsBanner(t *testing.T) {
	df, err := ReadRaw(strings.NewReader(trendsCSV), DefaultLoadOptions())
	require.NoError(t, err)

	assert.Equal(t, 4, df.Nrow())
	assert.Equal(t, []string{"Week", "Bitcoin: (Russia)"}, df.Names())
	assert.Equal(t, []string{"41", "38", "<1", "35"}, df.Col("Bitcoin: (Russia)").Records())
}

func TestReadRawWithoutSkip(t *testing.T) {
	csvData := "ds,y\n2020-01-01,100\n2020-01-02,101\n"

	opts := DefaultLoadOptions()
	opts.SkipRows = 0

	df, err := ReadRaw(strings.NewReader(csvData), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, df.Nrow())
}

func TestReadRawQuotedFields(t *testing.T) {
	csvData := "banner\n\"Week\",\"Interest\"\n\"2020-01-05\",\"1000\"\n\"2020-01-12\",\"1100\"\n"

	df, err := ReadRaw(strings.NewReader(csvData), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1000", "1100"}, df.Col("Interest").Records())
}

func TestReadRawSemicolonDelimiter(t *testing.T) {
	csvData := "banner\nWeek;Interest\n2020-01-05;10\n"

	opts := DefaultLoadOptions()
	opts.Delimiter = ';'

	df, err := ReadRaw(strings.NewReader(csvData), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, df.Nrow())
}

func TestReadRawColumnCount(t *testing.T) {
	csvData := "banner\nds,a,b\n2020-01-01,1,2\n"

	_, err := ReadRaw(strings.NewReader(csvData), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrColumnCount))
}

func TestReadRawTooShort(t *testing.T) {
	_, err := ReadRaw(strings.NewReader("only a banner"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestReadRawFileMissing(t *testing.T) {
	_, err := ReadRawFile(filepath.Join(t.TempDir(), "Bitcoin.csv"), nil)
	require.Error(t, err)

	var pathErr *fs.PathError
	assert.True(t, errors.As(err, &pathErr))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestReadRawFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Bitcoin.csv")
	require.NoError(t, os.WriteFile(path, []byte(trendsCSV), 0o644))

	df, err := ReadRawFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, df.Nrow())
}

func TestRename(t *testing.T) {
	raw, err := ReadRaw(strings.NewReader(trendsCSV), nil)
	require.NoError(t, err)

	renamed, err := Rename(raw, WeekColumn, InterestColumn)
	require.NoError(t, err)
	assert.Equal(t, []string{WeekColumn, InterestColumn}, renamed.Names())
	assert.Equal(t, []string{"Week", "Bitcoin: (Russia)"}, raw.Names(), "raw table keeps its names")

	_, err = Rename(raw, "only-one")
	assert.Error(t, err)
}

func TestHead(t *testing.T) {
	raw, err := ReadRaw(strings.NewReader(trendsCSV), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, Head(raw, 2).Nrow())
	assert.Equal(t, 4, Head(raw, 10).Nrow())
}

func TestWriteInfo(t *testing.T) {
	raw, err := ReadRaw(strings.NewReader("banner\nWeek,Interest\n2024-01-07,41\n2024-01-14,\n"), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteInfo(&buf, raw))

	out := buf.String()
	assert.Contains(t, out, "RangeIndex: 2 entries, 0 to 1")
	assert.Contains(t, out, "Data columns (total 2 columns):")
	assert.Regexp(t, `Week\s+2 non-null\s+string`, out)
	assert.Regexp(t, `Interest\s+1 non-null\s+string`, out)
}

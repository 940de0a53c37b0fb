package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExport(t *testing.T, rows int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Category: All categories\n\nWeek,Bitcoin: (Russia)\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "2020-%02d-%02d,%d\n", 1+i/28, 1+i%28, (i*7)%23+i%5)
	}
	path := filepath.Join(t.TempDir(), "Bitcoin.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestCommandHeadless(t *testing.T) {
	cmd := newCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--file", writeExport(t, 40), "--lags", "10", "--no-display"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Statistic:")
	assert.Contains(t, out.String(), "Insufficient data for decomposition. At least 52 weeks are required.")
}

func TestCommandMissingFile(t *testing.T) {
	cmd := newCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--file", filepath.Join(t.TempDir(), "nope.csv"), "--no-display"})

	err := cmd.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "nope.csv")
}

func TestCommandInvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing policy", []string{"--missing", "drop"}},
		{"model", []string{"--model", "exotic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newCommand()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetArgs(append(tt.args, "--no-display"))

			err := cmd.ExecuteContext(context.Background())
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

// Package config resolves the settings of a trendscope run from defaults,
// an optional .env file and TRENDSCOPE_* environment variables. Command-line
// flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sartorproj/trendscope/analysis"
	"github.com/sartorproj/trendscope/stats"
	"github.com/sartorproj/trendscope/viewer"
	"github.com/spf13/cast"
)

// Environment variables read by Load.
const (
	EnvFile      = "TRENDSCOPE_FILE"
	EnvAddr      = "TRENDSCOPE_ADDR"
	EnvNoDisplay = "TRENDSCOPE_NO_DISPLAY"
	EnvPeriod    = "TRENDSCOPE_PERIOD"
	EnvLags      = "TRENDSCOPE_LAGS"
	EnvModel     = "TRENDSCOPE_MODEL"
)

// Config holds all configuration for a run.
type Config struct {
	File     string
	SkipRows int
	Period   int
	Lags     int
	Alpha    float64
	Model    string
	Missing  string

	Addr      string
	NoDisplay bool
}

// Default returns the configuration of a plain run.
func Default() *Config {
	opts := analysis.DefaultOptions()
	return &Config{
		File:     opts.File,
		SkipRows: opts.Load.SkipRows,
		Period:   opts.Period,
		Lags:     opts.Lags,
		Alpha:    opts.Alpha,
		Model:    string(opts.Model),
		Missing:  string(opts.Missing),
		Addr:     viewer.DefaultAddr,
	}
}

// Load reads the given .env files (".env" when none are named), then
// overlays environment variables on the defaults. A missing .env file is
// not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	cfg := Default()
	cfg.File = getEnv(EnvFile, cfg.File)
	cfg.Addr = getEnv(EnvAddr, cfg.Addr)
	cfg.Model = getEnv(EnvModel, cfg.Model)

	if v, ok := os.LookupEnv(EnvNoDisplay); ok && v != "" {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvNoDisplay, err)
		}
		cfg.NoDisplay = b
	}
	for key, dst := range map[string]*int{EnvPeriod: &cfg.Period, EnvLags: &cfg.Lags} {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			n, err := cast.ToIntE(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}

	return cfg, nil
}

// Validate checks the configuration for values no run can use.
func (c *Config) Validate() error {
	var errs []error
	if c.File == "" {
		errs = append(errs, errors.New("file is required"))
	}
	if c.SkipRows < 0 {
		errs = append(errs, fmt.Errorf("skip-rows must not be negative, got %d", c.SkipRows))
	}
	if c.Period < 2 {
		errs = append(errs, fmt.Errorf("period must be at least 2, got %d", c.Period))
	}
	if c.Lags < 1 {
		errs = append(errs, fmt.Errorf("lags must be positive, got %d", c.Lags))
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		errs = append(errs, fmt.Errorf("alpha must be in (0, 1), got %g", c.Alpha))
	}
	switch stats.DecompositionModel(c.Model) {
	case stats.Additive, stats.Multiplicative:
	default:
		errs = append(errs, fmt.Errorf("model must be %q or %q, got %q",
			stats.Additive, stats.Multiplicative, c.Model))
	}
	switch analysis.MissingPolicy(c.Missing) {
	case analysis.MissingError, analysis.MissingInterpolate:
	default:
		errs = append(errs, fmt.Errorf("missing must be %q or %q, got %q",
			analysis.MissingError, analysis.MissingInterpolate, c.Missing))
	}
	if !c.NoDisplay && c.Addr == "" {
		errs = append(errs, errors.New("addr is required unless the display is disabled"))
	}
	return errors.Join(errs...)
}

// Options converts the configuration into analysis options.
func (c *Config) Options() analysis.Options {
	opts := analysis.DefaultOptions()
	opts.File = c.File
	opts.Load.SkipRows = c.SkipRows
	opts.Period = c.Period
	opts.MinDecomposeRows = c.Period
	opts.Model = stats.DecompositionModel(c.Model)
	opts.Missing = analysis.MissingPolicy(c.Missing)
	opts.Lags = c.Lags
	opts.Alpha = c.Alpha
	return opts
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

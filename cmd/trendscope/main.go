// Command trendscope runs an exploratory analysis of a weekly Google Trends
// export: a normality test, a line chart, a seasonal decomposition and the
// ACF/PACF correlograms, shown together on a local page.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sartorproj/trendscope/analysis"
	"github.com/sartorproj/trendscope/internal/config"
	"github.com/sartorproj/trendscope/viewer"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	cfg, loadErr := config.Load()
	if cfg == nil {
		cfg = config.Default()
	}

	cmd := &cobra.Command{
		Use:           "trendscope",
		Short:         "Explore a weekly search-interest series",
		Long:          "Load a Google Trends weekly CSV export, test it for normality and show its line chart, seasonal decomposition and ACF/PACF.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if loadErr != nil {
				return loadErr
			}
			return run(cmd.Context(), cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.File, "file", cfg.File, "path of the CSV export ($"+config.EnvFile+")")
	flags.IntVar(&cfg.SkipRows, "skip-rows", cfg.SkipRows, "lines skipped before the header")
	flags.IntVar(&cfg.Period, "period", cfg.Period, "seasonal period in weeks; also the minimum rows for decomposition")
	flags.IntVar(&cfg.Lags, "lags", cfg.Lags, "number of ACF/PACF lags")
	flags.Float64Var(&cfg.Alpha, "alpha", cfg.Alpha, "significance level of the normality test and confidence bands")
	flags.StringVar(&cfg.Model, "model", cfg.Model, `decomposition model: "additive" or "multiplicative" ($`+config.EnvModel+")")
	flags.StringVar(&cfg.Missing, "missing", cfg.Missing, `missing values in the decomposition and ACF/PACF: "error" or "interpolate"`)
	flags.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address of the figure viewer ($"+config.EnvAddr+")")
	flags.BoolVar(&cfg.NoDisplay, "no-display", cfg.NoDisplay, "skip showing the figures ($"+config.EnvNoDisplay+")")

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	defer klog.Flush()
	log := klog.FromContext(ctx)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log.V(2).Info("starting trendscope", "file", cfg.File, "period", cfg.Period, "lags", cfg.Lags)

	report, err := analysis.Run(ctx, cmd.OutOrStdout(), cfg.Options())
	if err != nil {
		return err
	}

	if cfg.NoDisplay {
		log.Info("display disabled, not showing figures", "figures", len(report.Figures))
		return nil
	}

	figs := make([]viewer.Figure, len(report.Figures))
	for i, f := range report.Figures {
		figs[i] = f
	}
	return viewer.Show(ctx, cfg.Addr, figs...)
}

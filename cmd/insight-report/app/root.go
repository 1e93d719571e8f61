package app

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/gocrane/insight-report/cmd/insight-report/app/options"
	"github.com/gocrane/insight-report/pkg/chart"
	"github.com/gocrane/insight-report/pkg/config"
	"github.com/gocrane/insight-report/pkg/dsmock"
	"github.com/gocrane/insight-report/pkg/insight"
	"github.com/gocrane/insight-report/pkg/orchestrator"
	"github.com/gocrane/insight-report/pkg/report"
	"github.com/gocrane/insight-report/pkg/server"
)

// NewRootCommand creates a *cobra.Command object with default parameters
func NewRootCommand(ctx context.Context) *cobra.Command {
	opts := options.NewOptions()

	cmd := &cobra.Command{
		Use:           "insight-report",
		Long:          `insight-report queries Cloud Insight server metrics and renders chart and PDF reports per server and per site`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Complete(); err != nil {
				return err
			}
			return opts.Validate()
		},
	}

	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	opts.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(newRangeCommand(ctx, opts), newRecentCommand(ctx, opts), newServeCommand(ctx, opts))
	return cmd
}

func newRangeCommand(ctx context.Context, opts *options.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range START_DATE END_DATE",
		Short: "Report on a date range, dates in YYYYMMDD",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			loc, err := cfg.Settings.Location()
			if err != nil {
				return err
			}
			window, err := orchestrator.ParseRange(args[0], args[1], loc)
			if err != nil {
				return err
			}
			return runReport(ctx, cfg, opts, window)
		},
	}
	opts.AddReportFlags(cmd.Flags())
	return cmd
}

func newRecentCommand(ctx context.Context, opts *options.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Report on the last days, report.window by default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			loc, err := cfg.Settings.Location()
			if err != nil {
				return err
			}
			days := opts.Days
			if days == 0 {
				days = cfg.Settings.WindowDays()
			}
			window, err := orchestrator.Recent(time.Now().In(loc), days)
			if err != nil {
				return err
			}
			return runReport(ctx, cfg, opts, window)
		},
	}
	opts.AddReportFlags(cmd.Flags())
	cmd.Flags().IntVar(&opts.Days, "days", 0, "Length of the window in days, defaults to report.window.")
	return cmd
}

func newServeCommand(ctx context.Context, opts *options.Options) *cobra.Command {
	serveOpts := options.NewServeOptions()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Browse generated reports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := serveOpts.Validate(); err != nil {
				return err
			}
			if serveOpts.Root == "" {
				cfg, err := loadConfig(opts)
				if err != nil {
					return err
				}
				serveOpts.Root = cfg.Settings.General.OutputDir
			}
			return server.NewServer(server.Config{
				Addr:            serveOpts.Addr,
				Root:            serveOpts.Root,
				EnableProfiling: serveOpts.EnableProfiling,
			}).Run(ctx)
		},
	}
	serveOpts.AddFlags(cmd.Flags())
	return cmd
}

func loadConfig(opts *options.Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	if dir := cfg.Settings.General.LogDir; dir != "" {
		if err := setupLogFile(dir, time.Now()); err != nil {
			klog.Warningf("Failed to set up log file in %s: %v", dir, err)
		}
	}
	return cfg, nil
}

// setupLogFile sends klog output to <dir>/<YYYY-MM-DD>.log as well as stderr.
func setupLogFile(dir string, now time.Time) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(dir, now.Format("2006-01-02")+".log")
	for name, value := range map[string]string{
		"logtostderr":     "false",
		"alsologtostderr": "true",
		"log_file":        path,
	} {
		if err := flag.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

// runReport runs one report and fails when no site produced a report.
func runReport(ctx context.Context, cfg *config.Config, opts *options.Options, window orchestrator.Window) error {
	loc, err := cfg.Settings.Location()
	if err != nil {
		return err
	}

	font, err := chart.LoadFont(cfg.Settings.General.FontPath)
	if err != nil {
		return fmt.Errorf("load font: %v", err)
	}
	renderer := chart.NewRenderer(font)
	assembler := report.NewAssembler(chart.FontPath(cfg.Settings.General.FontPath), loc)

	newFetcher := orchestrator.NewInsightFetcher(cfg.Settings)
	if opts.Mock {
		klog.Infof("Using the synthetic data source")
		ds := dsmock.NewDataSource()
		newFetcher = func(string, config.Site) insight.Fetcher { return ds }
	}

	o, err := orchestrator.New(cfg, newFetcher, renderer, assembler)
	if err != nil {
		return err
	}
	summary, err := o.Run(ctx, window, opts.Site)
	if err != nil {
		return err
	}
	if summary.SucceededSites() == 0 {
		return fmt.Errorf("run %s: no site produced a report", summary.RunID)
	}
	klog.Infof("Reports written to %s", summary.OutputRoot)
	return nil
}

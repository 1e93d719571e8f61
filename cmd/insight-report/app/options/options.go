package options

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"
)

const defaultConfigDir = "config"

// Options hold the flags shared by every command.
type Options struct {
	// ConfigDir holds settings.yaml, sites.yaml and metrics.yaml.
	ConfigDir string
	// Mock replaces the Cloud Insight API with the synthetic data source.
	Mock bool
	// Site restricts a report run to one site id.
	Site string
	// Days is the rolling window of the recent command, 0 means report.window.
	Days int
}

// NewOptions builds an empty options.
func NewOptions() *Options {
	return &Options{}
}

// Complete completes all the required options.
func (o *Options) Complete() error {
	if o.ConfigDir == "" {
		o.ConfigDir = defaultConfigDir
	}
	dir, err := filepath.Abs(o.ConfigDir)
	if err != nil {
		return fmt.Errorf("resolve config dir %s: %v", o.ConfigDir, err)
	}
	o.ConfigDir = dir
	return nil
}

// Validate validates all the required options.
func (o *Options) Validate() error {
	if o.Days < 0 {
		return fmt.Errorf("--days must not be negative, got %d", o.Days)
	}
	return nil
}

// AddFlags adds flags to the specified FlagSet.
func (o *Options) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.ConfigDir, "config-dir", defaultConfigDir, "Directory holding settings.yaml, sites.yaml and metrics.yaml.")
	flags.BoolVar(&o.Mock, "mock", false, "Generate synthetic metrics instead of querying Cloud Insight.")
}

// AddReportFlags adds the flags of the report commands.
func (o *Options) AddReportFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.Site, "site", "", "Only report on this site id.")
}

// ServeOptions are the flags of the serve command.
type ServeOptions struct {
	Addr            string
	Root            string
	EnableProfiling bool
}

func NewServeOptions() *ServeOptions {
	return &ServeOptions{}
}

// Validate validates the serve options. An empty Root is filled from general.output_dir later.
func (o *ServeOptions) Validate() error {
	if o.Addr == "" {
		return fmt.Errorf("--addr must not be empty")
	}
	return nil
}

func (o *ServeOptions) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.Addr, "addr", ":8080", "Address the report browser listens on.")
	flags.StringVar(&o.Root, "root", "", "Output directory to serve, defaults to general.output_dir.")
	flags.BoolVar(&o.EnableProfiling, "profiling", false, "Enable profiling via web interface host:port/debug/pprof/.")
}

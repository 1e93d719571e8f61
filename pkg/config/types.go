package config

import (
	"time"
	// zone names must resolve on hosts without a zoneinfo database
	_ "time/tzdata"

	"github.com/prometheus/common/model"

	"github.com/gocrane/insight-report/pkg/known"
	"github.com/gocrane/insight-report/pkg/metricdef"
)

const (
	SettingsFile = "settings.yaml"
	SitesFile    = "sites.yaml"
	MetricsFile  = "metrics.yaml"

	DefaultEndpoint = "https://cw.apigw.ntruss.com"
)

// Settings is the content of settings.yaml.
type Settings struct {
	General     General     `yaml:"general"`
	API         API         `yaml:"api"`
	Interval    Default     `yaml:"interval"`
	Aggregation Default     `yaml:"aggregation"`
	Report      ReportBlock `yaml:"report"`
}

type General struct {
	OutputDir string `yaml:"output_dir"`
	// LogDir, when set, makes the logger append to <LogDir>/<YYYY-MM-DD>.log as well.
	LogDir string `yaml:"log_dir"`
	// Timezone is an IANA name used for date handling; empty means the host zone.
	Timezone string `yaml:"timezone"`
	// Concurrency bounds how many servers of a site are processed at once.
	Concurrency int `yaml:"concurrency" validate:"gte=0,lte=64"`
	// MetricsTextfile is a node-exporter textfile the run metrics are written to.
	MetricsTextfile string `yaml:"metrics_textfile"`
	FontPath        string `yaml:"font_path"`
}

type API struct {
	Endpoint string         `yaml:"endpoint" validate:"omitempty,url"`
	Timeout  model.Duration `yaml:"timeout"`
}

type Default struct {
	Default string `yaml:"default"`
}

type ReportBlock struct {
	// Window is the rolling window used by the recent command.
	Window model.Duration `yaml:"window"`
	// PeriodDays is the length of the current period in period comparisons.
	PeriodDays    int  `yaml:"period_days" validate:"gte=0"`
	HTMLDashboard bool `yaml:"html_dashboard"`
}

// Credentials authenticate against the NCP API gateway of one site.
type Credentials struct {
	AccessKey string `yaml:"access_key" validate:"required"`
	SecretKey string `yaml:"secret_key" validate:"required"`
	CWKey     string `yaml:"cw_key" validate:"required"`
}

type Server struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Complete reports whether the server entry carries both an id and a name.
func (s Server) Complete() bool {
	return s.ID != "" && s.Name != ""
}

type Site struct {
	Name    string      `yaml:"name"`
	NCP     Credentials `yaml:"ncp"`
	Servers []Server    `yaml:"servers" validate:"min=1"`
}

type sitesFile struct {
	Sites map[string]Site `yaml:"sites"`
}

type metricsFile struct {
	Metrics []metricdef.Definition `yaml:"metrics" validate:"dive"`
}

// Config bundles the three configuration files.
type Config struct {
	Dir      string
	Settings Settings
	Sites    map[string]Site
	Metrics  []metricdef.Definition
}

// Complete fills unset settings with their defaults.
func (s *Settings) Complete() {
	if s.General.OutputDir == "" {
		s.General.OutputDir = known.DefaultOutputDir
	}
	if s.General.Concurrency == 0 {
		s.General.Concurrency = 1
	}
	if s.API.Endpoint == "" {
		s.API.Endpoint = DefaultEndpoint
	}
	if s.API.Timeout == 0 {
		s.API.Timeout = model.Duration(30 * time.Second)
	}
	if s.Interval.Default == "" {
		s.Interval.Default = known.DefaultInterval
	}
	if s.Aggregation.Default == "" {
		s.Aggregation.Default = known.DefaultAggregation
	}
	if s.Report.Window == 0 {
		s.Report.Window = model.Duration(known.DefaultWindowDays * 24 * time.Hour)
	}
	if s.Report.PeriodDays == 0 {
		s.Report.PeriodDays = known.DefaultPeriodDays
	}
}

// Location resolves General.Timezone.
func (s Settings) Location() (*time.Location, error) {
	if s.General.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(s.General.Timezone)
}

// WindowDays is the rolling window in whole days, at least one.
func (s Settings) WindowDays() int {
	days := int(time.Duration(s.Report.Window) / (24 * time.Hour))
	if days < 1 {
		return 1
	}
	return days
}

// DisplayName returns the configured site name, or id when none is set.
func (s Site) DisplayName(id string) string {
	if s.Name != "" {
		return s.Name
	}
	return id
}

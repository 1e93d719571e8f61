package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v2"
	"k8s.io/klog/v2"

	"github.com/gocrane/insight-report/pkg/metricdef"
	"github.com/gocrane/insight-report/pkg/reporterr"
)

// Load reads settings.yaml, sites.yaml and metrics.yaml from dir. A missing settings file
// falls back to defaults; the other two are required.
func Load(dir string) (*Config, error) {
	cfg := &Config{Dir: dir}

	if err := readYAML(filepath.Join(dir, SettingsFile), &cfg.Settings); err != nil {
		if !os.IsNotExist(err) {
			return nil, reporterr.New(reporterr.ConfigurationError, "load "+SettingsFile, err)
		}
		klog.Warningf("Settings file %s not found, using defaults", filepath.Join(dir, SettingsFile))
	}
	cfg.Settings.Complete()

	var sites sitesFile
	if err := readYAML(filepath.Join(dir, SitesFile), &sites); err != nil {
		return nil, reporterr.New(reporterr.ConfigurationError, "load "+SitesFile, err)
	}
	cfg.Sites = sites.Sites

	var metrics metricsFile
	if err := readYAML(filepath.Join(dir, MetricsFile), &metrics); err != nil {
		return nil, reporterr.New(reporterr.ConfigurationError, "load "+MetricsFile, err)
	}
	cfg.Metrics = metrics.Metrics

	if err := cfg.Validate(); err != nil {
		return nil, reporterr.New(reporterr.ConfigurationError, "invalid configuration", err)
	}

	klog.V(2).Infof("Loaded configuration from %s: %d sites, %d metrics", dir, len(cfg.Sites), len(cfg.Metrics))
	return cfg, nil
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %v", path, err)
	}
	return nil
}

// Registry builds the metric lookup from the loaded definitions.
func (c *Config) Registry() *metricdef.Registry {
	return metricdef.NewRegistry(c.Metrics)
}

// SiteIDs returns the configured site ids in sorted order.
func (c *Config) SiteIDs() []string {
	ids := make([]string, 0, len(c.Sites))
	for id := range c.Sites {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

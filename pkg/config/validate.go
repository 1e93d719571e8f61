package config

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/gocrane/insight-report/pkg/reporterr"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Intervals and aggregations accepted by the Cloud Insight query API.
var (
	SupportedIntervals    = sets.NewString("Min1", "Min5", "Min30", "Hour2", "Day1")
	SupportedAggregations = sets.NewString("AVG", "MIN", "MAX", "SUM", "COUNT")
)

// Validate checks settings and metric definitions. Site problems are reported per site
// by ValidateSite so that one broken site does not stop the others.
func (c *Config) Validate() error {
	var errs []error

	if err := structValidator().Struct(c.Settings); err != nil {
		errs = append(errs, fmt.Errorf("settings: %v", err))
	}
	if _, err := c.Settings.Location(); err != nil {
		errs = append(errs, fmt.Errorf("settings: general.timezone: %v", err))
	}
	if !SupportedIntervals.Has(c.Settings.Interval.Default) {
		errs = append(errs, fmt.Errorf("settings: interval.default %q must be one of %v", c.Settings.Interval.Default, SupportedIntervals.List()))
	}
	if !SupportedAggregations.Has(c.Settings.Aggregation.Default) {
		errs = append(errs, fmt.Errorf("settings: aggregation.default %q must be one of %v", c.Settings.Aggregation.Default, SupportedAggregations.List()))
	}

	if len(c.Metrics) == 0 {
		errs = append(errs, fmt.Errorf("metrics: no metric defined"))
	}
	seen := sets.NewString()
	for i, m := range c.Metrics {
		if err := structValidator().Struct(m); err != nil {
			errs = append(errs, fmt.Errorf("metrics[%d]: %v", i, err))
		}
		if m.Key != "" && seen.Has(m.Key) {
			errs = append(errs, fmt.Errorf("metrics[%d]: duplicate key %s", i, m.Key))
		}
		seen.Insert(m.Key)
		if m.ThresholdWarning != nil && m.ThresholdCritical != nil && *m.ThresholdWarning > *m.ThresholdCritical {
			errs = append(errs, fmt.Errorf("metrics[%d]: threshold_warning %g is above threshold_critical %g", i, *m.ThresholdWarning, *m.ThresholdCritical))
		}
	}

	if len(c.Sites) == 0 {
		errs = append(errs, fmt.Errorf("sites: no site registered"))
	}

	return utilerrors.NewAggregate(errs)
}

// ValidateSite returns a ConfigurationError when the site lacks credentials or servers.
func ValidateSite(id string, site Site) error {
	if err := structValidator().Struct(site); err != nil {
		return reporterr.Newf(reporterr.ConfigurationError, err, "site %s is incomplete", site.DisplayName(id))
	}
	return nil
}

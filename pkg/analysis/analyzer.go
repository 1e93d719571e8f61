package analysis

import (
	"time"

	"k8s.io/klog/v2"

	"github.com/gocrane/insight-report/pkg/known"
	"github.com/gocrane/insight-report/pkg/metricdef"
	"github.com/gocrane/insight-report/pkg/reporterr"
	"github.com/gocrane/insight-report/pkg/utils"
)

// Analyzer turns metric series into MetricAnalysis values. The zero value groups
// samples in time.Local and compares periods of known.DefaultPeriodDays days.
type Analyzer struct {
	// Location is used for the calendar breakdown of timestamps.
	Location *time.Location
	// PeriodDays is the length of the "current" window of a period comparison.
	PeriodDays int
}

func NewAnalyzer(loc *time.Location, periodDays int) *Analyzer {
	return &Analyzer{Location: loc, PeriodDays: periodDays}
}

func (a *Analyzer) location() *time.Location {
	if a == nil || a.Location == nil {
		return time.Local
	}
	return a.Location
}

func (a *Analyzer) periodDays() int {
	if a == nil {
		return known.DefaultPeriodDays
	}
	return utils.GetIntwithDefault(a.PeriodDays, known.DefaultPeriodDays)
}

// TimeRange is the span between the first and the last sample of a series.
type TimeRange struct {
	Start         time.Time
	End           time.Time
	DurationHours float64
}

// MetricAnalysis is everything computed for one metric of one server.
type MetricAnalysis struct {
	MetricKey  string
	MetricName string
	Unit       string
	DataPoints int
	Range      TimeRange
	Thresholds Thresholds

	Statistics       *Statistics
	Anomalies        *Anomalies
	PeriodComparison *PeriodComparison
}

// AnalyzeMetric computes statistics, anomalies and the period comparison of series.
// It returns nil when the series has no usable points.
func (a *Analyzer) AnalyzeMetric(series utils.MetricSeries, def metricdef.Definition) *MetricAnalysis {
	loc := a.location()

	// step1: drop values that cannot take part in aggregates
	samples := series.Finite()
	if len(samples) == 0 {
		klog.Warningf("%v", reporterr.Newf(reporterr.DataSufficiency, nil, "metric %s has no data points, skip analysis", series.Key))
		return nil
	}
	if dropped := len(series.Samples) - len(samples); dropped > 0 {
		klog.V(4).Infof("Metric %s: ignored %d non-finite values", series.Key, dropped)
	}

	first, last, _ := utils.TimeRange(samples)
	start, end := time.UnixMilli(first).In(loc), time.UnixMilli(last).In(loc)

	analysis := &MetricAnalysis{
		MetricKey:  series.Key,
		MetricName: def.DisplayName(),
		Unit:       def.Unit,
		DataPoints: len(samples),
		Range: TimeRange{
			Start:         start,
			End:           end,
			DurationHours: end.Sub(start).Hours(),
		},
		Thresholds: ThresholdsOf(def),
	}
	if analysis.MetricName == "" {
		analysis.MetricName = series.Key
	}

	// step2: descriptive statistics
	analysis.Statistics = computeStatistics(samples, loc)

	// step3: threshold and IQR anomalies
	analysis.Anomalies = detectAnomalies(samples, def.ThresholdWarning, def.ThresholdCritical)

	// step4: period over period, absent when the series is too short
	analysis.PeriodComparison = comparePeriods(series.Key, samples, a.periodDays(), loc)

	klog.V(4).Infof("Metric %s analyzed: %d points, mean %.3f, max %.3f", series.Key, analysis.DataPoints,
		analysis.Statistics.Mean, analysis.Statistics.Max)

	return analysis
}

// AnalyzeMetrics analyzes every series and indexes the results by metric key.
// Series without usable points are left out.
func (a *Analyzer) AnalyzeMetrics(series []utils.MetricSeries, registry *metricdef.Registry) map[string]*MetricAnalysis {
	results := make(map[string]*MetricAnalysis, len(series))
	for _, s := range series {
		if r := a.AnalyzeMetric(s, registry.Resolve(s.Key)); r != nil {
			results[s.Key] = r
		}
	}
	return results
}

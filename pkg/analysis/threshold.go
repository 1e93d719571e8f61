package analysis

import (
	"math"

	"github.com/gocrane/insight-report/pkg/metricdef"
)

// Severity is the level reached by a value against a metric's thresholds.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Thresholds are the optional warning and critical lines of one metric.
type Thresholds struct {
	Warning  *float64
	Critical *float64
}

func ThresholdsOf(def metricdef.Definition) Thresholds {
	return Thresholds{Warning: def.ThresholdWarning, Critical: def.ThresholdCritical}
}

// Configured reports whether at least one threshold is set.
func (t Thresholds) Configured() bool {
	return t.Warning != nil || t.Critical != nil
}

// Evaluate returns the highest severity value reaches and the gap between value and the
// threshold of that severity. For SeverityNormal the gap is measured to the lowest
// configured threshold and is negative; it is NaN when no threshold is configured.
func (t Thresholds) Evaluate(value float64) (Severity, float64) {
	if t.Critical != nil && value >= *t.Critical {
		return SeverityCritical, value - *t.Critical
	}
	if t.Warning != nil && value >= *t.Warning {
		return SeverityWarning, value - *t.Warning
	}

	// Find the smallest threshold still above value
	lowest := math.NaN()
	for _, th := range []*float64{t.Warning, t.Critical} {
		if th == nil {
			continue
		}
		if math.IsNaN(lowest) || *th < lowest {
			lowest = *th
		}
	}
	if math.IsNaN(lowest) {
		return SeverityNormal, lowest
	}
	return SeverityNormal, value - lowest
}

// Severity is the worst severity of one analyzed metric, judged on its maximum.
func (m *MetricAnalysis) Severity() Severity {
	if m == nil || m.Statistics == nil {
		return SeverityNormal
	}
	s, _ := m.Thresholds.Evaluate(m.Statistics.Max)
	return s
}

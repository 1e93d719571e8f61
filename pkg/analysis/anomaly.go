package analysis

import (
	"github.com/gocrane/insight-report/pkg/utils"
)

// IQRFactor scales the interquartile range into outlier fences.
const IQRFactor = 1.5

// Anomalies lists the points of a series that crossed a threshold or fell outside the
// IQR fences. The three lists are independent; a point may appear in several of them.
type Anomalies struct {
	Warning  []utils.Sample
	Critical []utils.Sample
	Outliers []utils.Sample

	Q1         float64
	Q3         float64
	IQR        float64
	LowerBound float64
	UpperBound float64
}

// DetectAnomalies evaluates the optional warning/critical thresholds and the IQR fences
// over the finite samples of series. It returns nil for an empty series.
func (a *Analyzer) DetectAnomalies(series utils.MetricSeries, warning, critical *float64) *Anomalies {
	return detectAnomalies(series.Finite(), warning, critical)
}

func detectAnomalies(samples []utils.Sample, warning, critical *float64) *Anomalies {
	if len(samples) == 0 {
		return nil
	}

	result := &Anomalies{}
	if warning != nil {
		result.Warning = filterAtLeast(samples, *warning)
	}
	if critical != nil {
		result.Critical = filterAtLeast(samples, *critical)
	}

	sorted := sortedCopy(utils.Values(samples))
	result.Q1 = Quantile(sorted, 0.25)
	result.Q3 = Quantile(sorted, 0.75)
	result.IQR = result.Q3 - result.Q1
	result.LowerBound = result.Q1 - IQRFactor*result.IQR
	result.UpperBound = result.Q3 + IQRFactor*result.IQR

	for _, s := range samples {
		if s.Value < result.LowerBound || s.Value > result.UpperBound {
			result.Outliers = append(result.Outliers, s)
		}
	}

	return result
}

func filterAtLeast(samples []utils.Sample, threshold float64) []utils.Sample {
	var out []utils.Sample
	for _, s := range samples {
		if s.Value >= threshold {
			out = append(out, s)
		}
	}
	return out
}

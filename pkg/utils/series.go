package utils

import (
	"math"
	"time"
)

// MetricSeries is a stream of samples that belong to one metric key, as returned
// by a single fetch. Samples are in chronological order but may have gaps.
type MetricSeries struct {
	// Key is the metric id used by the monitoring system, e.g. "avg_cpu_used_rto".
	Key string
	// A collection of Labels that are attached by monitoring system as metadata
	// for the metrics, which are known as dimensions.
	Labels []Label
	// A collection of Samples in chronological order.
	Samples []Sample
}

// Sample pairs a Value with a Timestamp in unix milliseconds.
type Sample struct {
	Value     float64
	Timestamp int64
}

// A Label is a Name and Value pair that provides additional information about the metric.
// For example, Cloud Insight server metrics always carry a 'vm_name' dimension.
type Label struct {
	Name  string
	Value string
}

// Time returns the sample timestamp in the given location.
func (s Sample) Time(loc *time.Location) time.Time {
	return time.UnixMilli(s.Timestamp).In(loc)
}

// Empty reports whether the series has no samples at all.
func (m MetricSeries) Empty() bool {
	return len(m.Samples) == 0
}

// Finite returns the samples whose value is a real number. The receiver is not modified.
func (m MetricSeries) Finite() []Sample {
	out := make([]Sample, 0, len(m.Samples))
	for _, s := range m.Samples {
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Values returns the values of the given samples.
func Values(samples []Sample) []float64 {
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}
	return values
}

// TimeRange returns the smallest and largest timestamp of the samples.
// ok is false when samples is empty.
func TimeRange(samples []Sample) (min int64, max int64, ok bool) {
	if len(samples) == 0 {
		return 0, 0, false
	}
	min, max = samples[0].Timestamp, samples[0].Timestamp
	for _, s := range samples[1:] {
		if s.Timestamp < min {
			min = s.Timestamp
		}
		if s.Timestamp > max {
			max = s.Timestamp
		}
	}
	return min, max, true
}

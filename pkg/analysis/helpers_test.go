package analysis

import (
	"time"

	"github.com/gocrane/insight-report/pkg/utils"
)

var testStart = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

// buildSeries returns n samples spaced by step from testStart, valued by fn(i).
func buildSeries(key string, n int, step time.Duration, fn func(i int) float64) utils.MetricSeries {
	s := utils.MetricSeries{Key: key}
	for i := 0; i < n; i++ {
		s.Samples = append(s.Samples, utils.Sample{
			Timestamp: testStart.Add(time.Duration(i) * step).UnixMilli(),
			Value:     fn(i),
		})
	}
	return s
}

func constant(v float64) func(int) float64 {
	return func(int) float64 { return v }
}

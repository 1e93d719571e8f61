package chart

import (
	"time"

	"github.com/gocrane/insight-report/pkg/utils"
)

var testStart = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

func series(key string, n int, step time.Duration, fn func(i int) float64) utils.MetricSeries {
	s := utils.MetricSeries{Key: key}
	for i := 0; i < n; i++ {
		s.Samples = append(s.Samples, utils.Sample{
			Timestamp: testStart.Add(time.Duration(i) * step).UnixMilli(),
			Value:     fn(i),
		})
	}
	return s
}

// daysOf returns a five minute series covering days calendar days.
func daysOf(key string, days int, v float64) utils.MetricSeries {
	return series(key, days*288, 5*time.Minute, func(int) float64 { return v })
}

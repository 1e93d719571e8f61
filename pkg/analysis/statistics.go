package analysis

import (
	"sort"
	"time"

	"github.com/gocrane/insight-report/pkg/utils"
)

// Statistics is the descriptive summary of one metric series.
type Statistics struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	// Std is the sample standard deviation (n-1 denominator).
	Std float64
	// Percentile maps p in Percentiles to the linear-interpolation quantile p/100.
	Percentile map[int]float64

	DailyAverage   []DailyAverage
	HourlyAverage  []HourlyAverage
	WeekdayAverage []WeekdayAverage

	FirstTime time.Time
	LastTime  time.Time
}

type DailyAverage struct {
	// Date is the local calendar date, YYYY-MM-DD.
	Date  string
	Mean  float64
	Count int
}

type HourlyAverage struct {
	Hour  int
	Mean  float64
	Count int
}

type WeekdayAverage struct {
	Weekday time.Weekday
	Mean    float64
	Count   int
}

// Name returns the English weekday name, e.g. "Monday".
func (w WeekdayAverage) Name() string {
	return w.Weekday.String()
}

type accumulator struct {
	sum   float64
	count int
}

func (a *accumulator) add(v float64) {
	a.sum += v
	a.count++
}

func (a accumulator) mean() float64 {
	return a.sum / float64(a.count)
}

// ComputeStatistics summarises the finite samples of series. It returns nil when the
// series has no usable points.
func (a *Analyzer) ComputeStatistics(series utils.MetricSeries) *Statistics {
	return computeStatistics(series.Finite(), a.location())
}

func computeStatistics(samples []utils.Sample, loc *time.Location) *Statistics {
	if len(samples) == 0 {
		return nil
	}

	values := utils.Values(samples)
	sorted := sortedCopy(values)

	stats := &Statistics{
		Count:      len(values),
		Min:        sorted[0],
		Max:        sorted[len(sorted)-1],
		Mean:       mean(values),
		Median:     Quantile(sorted, 0.5),
		Std:        sampleStd(values),
		Percentile: make(map[int]float64, len(Percentiles)),
	}
	for _, p := range Percentiles {
		stats.Percentile[p] = Quantile(sorted, float64(p)/100)
	}

	daily := make(map[string]*accumulator)
	var hourly [24]accumulator
	var weekday [7]accumulator
	for _, s := range samples {
		t := s.Time(loc)
		day := t.Format("2006-01-02")
		if daily[day] == nil {
			daily[day] = &accumulator{}
		}
		daily[day].add(s.Value)
		hourly[t.Hour()].add(s.Value)
		weekday[t.Weekday()].add(s.Value)
	}

	for day, acc := range daily {
		stats.DailyAverage = append(stats.DailyAverage, DailyAverage{Date: day, Mean: acc.mean(), Count: acc.count})
	}
	sort.Slice(stats.DailyAverage, func(i, j int) bool {
		return stats.DailyAverage[i].Date < stats.DailyAverage[j].Date
	})
	for h, acc := range hourly {
		if acc.count > 0 {
			stats.HourlyAverage = append(stats.HourlyAverage, HourlyAverage{Hour: h, Mean: acc.mean(), Count: acc.count})
		}
	}
	for d, acc := range weekday {
		if acc.count > 0 {
			stats.WeekdayAverage = append(stats.WeekdayAverage, WeekdayAverage{Weekday: time.Weekday(d), Mean: acc.mean(), Count: acc.count})
		}
	}

	first, last, _ := utils.TimeRange(samples)
	stats.FirstTime = time.UnixMilli(first).In(loc)
	stats.LastTime = time.UnixMilli(last).In(loc)

	return stats
}

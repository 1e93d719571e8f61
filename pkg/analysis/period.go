package analysis

import (
	"math"
	"time"

	"k8s.io/klog/v2"

	"github.com/gocrane/insight-report/pkg/reporterr"
	"github.com/gocrane/insight-report/pkg/utils"
)

// PeriodStats summarises the samples of one side of a period split.
type PeriodStats struct {
	Mean      float64
	Max       float64
	Min       float64
	Std       float64
	StartDate time.Time
	EndDate   time.Time
	Count     int
}

// Change is a percent change between two periods. When the previous value is zero the
// change is Undefined and Percent holds +Inf or -Inf following the sign of the difference.
type Change struct {
	Percent   float64
	Undefined bool
}

type PeriodChanges struct {
	Mean Change
	Max  Change
	Min  Change
}

// PeriodComparison splits a series into the last PeriodDays calendar days and everything before.
type PeriodComparison struct {
	PeriodDays int
	Current    PeriodStats
	Previous   PeriodStats
	Changes    PeriodChanges
}

func percentChange(current, previous float64) Change {
	if previous == 0 {
		sign := 1
		if current-previous < 0 {
			sign = -1
		}
		return Change{Percent: math.Inf(sign), Undefined: true}
	}
	return Change{Percent: (current - previous) / previous * 100}
}

// ComparePeriods compares the last periodDays calendar days of series with the days
// before them. It returns nil, without error, when the series spans fewer than
// 2*periodDays days.
func (a *Analyzer) ComparePeriods(series utils.MetricSeries, periodDays int) *PeriodComparison {
	return comparePeriods(series.Key, series.Finite(), periodDays, a.location())
}

func comparePeriods(key string, samples []utils.Sample, periodDays int, loc *time.Location) *PeriodComparison {
	if len(samples) == 0 || periodDays <= 0 {
		return nil
	}

	days := make([]int, len(samples))
	minDay, maxDay := math.MaxInt32, math.MinInt32
	for i, s := range samples {
		days[i] = utils.CivilDay(s.Time(loc))
		if days[i] < minDay {
			minDay = days[i]
		}
		if days[i] > maxDay {
			maxDay = days[i]
		}
	}

	span := maxDay - minDay
	if err := checkSpan(key, span, periodDays); err != nil {
		klog.Warningf("%v", err)
		return nil
	}

	boundary := maxDay - periodDays
	var current, previous []utils.Sample
	for i, s := range samples {
		if days[i] > boundary {
			current = append(current, s)
		} else {
			previous = append(previous, s)
		}
	}

	cur := summarisePeriod(current, loc)
	prev := summarisePeriod(previous, loc)

	return &PeriodComparison{
		PeriodDays: periodDays,
		Current:    cur,
		Previous:   prev,
		Changes: PeriodChanges{
			Mean: percentChange(cur.Mean, prev.Mean),
			Max:  percentChange(cur.Max, prev.Max),
			Min:  percentChange(cur.Min, prev.Min),
		},
	}
}

func summarisePeriod(samples []utils.Sample, loc *time.Location) PeriodStats {
	values := utils.Values(samples)
	lo, hi := minMax(values)
	first, last, _ := utils.TimeRange(samples)
	return PeriodStats{
		Mean:      mean(values),
		Max:       hi,
		Min:       lo,
		Std:       sampleStd(values),
		StartDate: utils.DayStart(time.UnixMilli(first).In(loc)),
		EndDate:   utils.DayStart(time.UnixMilli(last).In(loc)),
		Count:     len(samples),
	}
}

// checkSpan returns a DataSufficiency error when span days cannot hold two periods.
func checkSpan(key string, span, periodDays int) error {
	if span < periodDays*2 {
		return reporterr.Newf(reporterr.DataSufficiency, nil,
			"metric %s spans %d days, fewer than twice the comparison period (%d days); skip period comparison", key, span, periodDays*2)
	}
	return nil
}

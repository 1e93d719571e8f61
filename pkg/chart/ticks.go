package chart

import (
	"sort"
	"time"

	"github.com/gocrane/insight-report/pkg/utils"
)

const tickStepDays = 7

// DateTicks returns the weekly tick dates from start through end. Both ends are always
// included even when end is off the weekly cadence.
func DateTicks(start, end time.Time) []time.Time {
	start, end = utils.DayStart(start), utils.DayStart(end)
	if end.Before(start) {
		return []time.Time{start}
	}

	var ticks []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, tickStepDays) {
		ticks = append(ticks, d)
	}
	if !ticks[len(ticks)-1].Equal(end) {
		ticks = append(ticks, end)
	}
	return ticks
}

// XRange spans the requested dates plus one day of padding after the end date.
func XRange(start, end time.Time) (time.Time, time.Time) {
	return utils.DayStart(start), utils.DayStart(end).AddDate(0, 0, 1)
}

func sortInt64(s []int64) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}

package chart

import (
	"time"

	"github.com/gocrane/insight-report/pkg/utils"
)

// Bucket widths chosen by the number of days a series covers.
const (
	ShortBucket  = 2 * time.Hour
	MediumBucket = 6 * time.Hour
	LongBucket   = 12 * time.Hour

	shortSpanDays  = 7
	mediumSpanDays = 31
)

// Bucket is the mean of the samples falling in [Start, Start+width).
type Bucket struct {
	Start time.Time
	Mean  float64
	Count int
}

// ResampledSeries is a display-only reduction of a metric series. Empty buckets are omitted.
type ResampledSeries struct {
	Key     string
	Width   time.Duration
	Buckets []Bucket
}

func (r ResampledSeries) Empty() bool {
	return len(r.Buckets) == 0
}

// Values returns the bucket means in time order.
func (r ResampledSeries) Values() []float64 {
	out := make([]float64, len(r.Buckets))
	for i, b := range r.Buckets {
		out[i] = b.Mean
	}
	return out
}

// SpanDays is the number of whole days between the first and last sample, plus one.
func SpanDays(samples []utils.Sample) int {
	first, last, ok := utils.TimeRange(samples)
	if !ok {
		return 0
	}
	return int(time.Duration(last-first)*time.Millisecond/(24*time.Hour)) + 1
}

// BucketWidth picks the resampling width for a series covering days days.
func BucketWidth(days int) time.Duration {
	switch {
	case days <= shortSpanDays:
		return ShortBucket
	case days <= mediumSpanDays:
		return MediumBucket
	default:
		return LongBucket
	}
}

// Resample averages the finite samples of series into fixed-width buckets. Buckets are
// aligned to midnight, in loc, of the day holding the first sample.
func Resample(series utils.MetricSeries, loc *time.Location) ResampledSeries {
	samples := series.Finite()
	result := ResampledSeries{Key: series.Key}
	if len(samples) == 0 {
		return result
	}
	if loc == nil {
		loc = time.Local
	}

	result.Width = BucketWidth(SpanDays(samples))
	first, _, _ := utils.TimeRange(samples)
	origin := utils.DayStart(time.UnixMilli(first).In(loc))
	width := result.Width.Milliseconds()

	type acc struct {
		sum   float64
		count int
	}
	buckets := make(map[int64]*acc)
	var order []int64
	for _, s := range samples {
		idx := (s.Timestamp - origin.UnixMilli()) / width
		b, ok := buckets[idx]
		if !ok {
			b = &acc{}
			buckets[idx] = b
			order = append(order, idx)
		}
		b.sum += s.Value
		b.count++
	}

	sortInt64(order)
	for _, idx := range order {
		b := buckets[idx]
		result.Buckets = append(result.Buckets, Bucket{
			Start: origin.Add(time.Duration(idx*width) * time.Millisecond),
			Mean:  b.sum / float64(b.count),
			Count: b.count,
		})
	}
	return result
}

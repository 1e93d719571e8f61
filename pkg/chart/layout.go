package chart

import (
	"fmt"
	"time"

	"k8s.io/klog/v2"

	"github.com/gocrane/insight-report/pkg/metricdef"
	"github.com/gocrane/insight-report/pkg/utils"
)

const (
	WarningColor  = "ff9800"
	CriticalColor = "e53935"
	SeriesColor   = "1f77b4"
)

// ThresholdLine is a horizontal reference line drawn across a chart.
type ThresholdLine struct {
	Label string
	Value float64
	Color string
}

// Layout is everything needed to draw one metric chart. It never feeds statistics.
type Layout struct {
	MetricKey string
	Title     string
	Unit      string

	Points ResampledSeries

	YMin float64
	YMax float64

	XMin  time.Time
	XMax  time.Time
	Ticks []time.Time

	Thresholds []ThresholdLine
}

// YLabel is the unit, or a generic label when the metric has none.
func (l Layout) YLabel() string {
	if l.Unit == "" {
		return "value"
	}
	return l.Unit
}

// Window is the requested report period in whole dates.
type Window struct {
	Start time.Time
	End   time.Time
}

// BuildLayout resamples series and works out the axes for the requested window.
func BuildLayout(series utils.MetricSeries, def metricdef.Definition, window Window, loc *time.Location) Layout {
	if loc == nil {
		loc = time.Local
	}
	raw := series.Finite()
	resampled := Resample(series, loc)

	layout := Layout{
		MetricKey: series.Key,
		Title:     def.DisplayName(),
		Unit:      def.Unit,
		Points:    resampled,
		Ticks:     DateTicks(window.Start.In(loc), window.End.In(loc)),
	}
	if layout.Title == "" {
		layout.Title = series.Key
	}
	layout.XMin, layout.XMax = XRange(window.Start.In(loc), window.End.In(loc))
	layout.YMin, layout.YMax = YBounds(def, raw, resampled)

	if def.ThresholdWarning != nil {
		layout.Thresholds = append(layout.Thresholds, ThresholdLine{
			Label: fmt.Sprintf("warning (%g%s)", *def.ThresholdWarning, def.Unit),
			Value: *def.ThresholdWarning,
			Color: WarningColor,
		})
	}
	if def.ThresholdCritical != nil {
		layout.Thresholds = append(layout.Thresholds, ThresholdLine{
			Label: fmt.Sprintf("critical (%g%s)", *def.ThresholdCritical, def.Unit),
			Value: *def.ThresholdCritical,
			Color: CriticalColor,
		})
	}

	if first, last, ok := utils.TimeRange(raw); ok {
		actualStart := utils.CivilDay(time.UnixMilli(first).In(loc))
		actualEnd := utils.CivilDay(time.UnixMilli(last).In(loc))
		if actualStart > utils.CivilDay(window.Start.In(loc)) || actualEnd < utils.CivilDay(window.End.In(loc)) {
			klog.Warningf("Metric %s data range %s ~ %s differs from requested range %s ~ %s", series.Key,
				time.UnixMilli(first).In(loc).Format("2006-01-02"), time.UnixMilli(last).In(loc).Format("2006-01-02"),
				window.Start.In(loc).Format("2006-01-02"), window.End.In(loc).Format("2006-01-02"))
		}
	}

	return layout
}

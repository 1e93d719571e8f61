package chart

import (
	"math"

	"github.com/gocrane/insight-report/pkg/metricdef"
	"github.com/gocrane/insight-report/pkg/utils"
)

const (
	// values closer than this are treated as a flat line
	flatRange      = 0.001
	headroomFactor = 1.1
	marginFactor   = 0.1
	minFlatMargin  = 0.1
	percentTop     = 100.0
)

// YBounds computes the y axis range for one metric. Utilisation percentages are scaled to
// the raw maximum, other percentages are fixed to 0-100 and everything else follows the
// spread of the resampled means.
func YBounds(def metricdef.Definition, raw []utils.Sample, resampled ResampledSeries) (float64, float64) {
	var bottom, top float64

	switch {
	case def.UsageBounded():
		_, maxRaw := minMaxOf(utils.Values(raw))
		bottom, top = 0, math.Min(percentTop, maxRaw*headroomFactor)
	case def.IsPercent():
		bottom, top = 0, percentTop
	default:
		values := resampled.Values()
		if len(values) == 0 {
			values = utils.Values(raw)
		}
		bottom, top = genericBounds(values)
	}

	if math.IsNaN(top) || math.IsNaN(bottom) || top <= bottom {
		if math.IsNaN(bottom) {
			bottom = 0
		}
		top = bottom + 1
	}
	return bottom, top
}

func genericBounds(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 1
	}
	lo, hi := minMaxOf(values)
	spread := hi - lo

	var margin float64
	if spread < flatRange || lo == hi {
		if hi == 0 {
			return 0, 1
		}
		margin = math.Max(hi*marginFactor, minFlatMargin)
	} else {
		margin = spread * marginFactor
	}
	return math.Max(0, lo-margin), hi + margin
}

func minMaxOf(values []float64) (float64, float64) {
	if len(values) == 0 {
		return math.NaN(), math.NaN()
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

package dsmock

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"k8s.io/klog/v2"

	"github.com/gocrane/insight-report/pkg/insight"
	"github.com/gocrane/insight-report/pkg/utils"
)

// steps of the Cloud Insight intervals
var intervalSteps = map[string]time.Duration{
	"Min1":  time.Minute,
	"Min5":  5 * time.Minute,
	"Min30": 30 * time.Minute,
	"Hour2": 2 * time.Hour,
	"Day1":  24 * time.Hour,
}

// DataSource is a synthetic Fetcher used for offline runs. Series are deterministic for a
// given server, metric and range: a daily cycle around a per-metric baseline plus noise
// and an occasional spike.
type DataSource struct {
	// Failing lists dimension values whose fetch fails.
	Failing map[string]bool
	// Empty lists metric keys returned without points.
	Empty map[string]bool
}

var _ insight.Fetcher = &DataSource{}

func NewDataSource() *DataSource {
	return &DataSource{}
}

func (ds *DataSource) FetchMetrics(ctx context.Context, query insight.Query) ([]utils.MetricSeries, error) {
	if ds.Failing[query.DimensionValue] {
		return nil, &fetchFailure{server: query.DimensionValue}
	}

	step, ok := intervalSteps[query.Interval]
	if !ok {
		step = 5 * time.Minute
	}

	series := make([]utils.MetricSeries, 0, len(query.Keys))
	for _, key := range query.Keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s := utils.MetricSeries{
			Key:    key,
			Labels: []utils.Label{{Name: query.DimensionKey, Value: query.DimensionValue}},
		}
		if !ds.Empty[key] {
			s.Samples = generate(seed(query.DimensionValue, key), query.StartMs, query.EndMs, step)
		}
		series = append(series, s)
	}

	klog.V(4).Infof("Generated %d synthetic series for %s", len(series), query.DimensionValue)
	return series, nil
}

func seed(parts ...string) int64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return int64(h.Sum64() & math.MaxInt64)
}

func generate(seed, startMs, endMs int64, step time.Duration) []utils.Sample {
	rnd := rand.New(rand.NewSource(seed))
	baseline := 20 + rnd.Float64()*40
	amplitude := baseline * (0.2 + rnd.Float64()*0.3)

	stepMs := step.Milliseconds()
	first := startMs - startMs%stepMs
	if first < startMs {
		first += stepMs
	}

	var samples []utils.Sample
	for ts := first; ts <= endMs; ts += stepMs {
		hour := float64(ts%(24*3600*1000)) / float64(3600*1000)
		v := baseline + amplitude*math.Sin((hour-6)/24*2*math.Pi) + rnd.NormFloat64()*baseline*0.05
		if rnd.Float64() < 0.002 {
			v += baseline * 1.5
		}
		samples = append(samples, utils.Sample{Timestamp: ts, Value: math.Max(0, v)})
	}
	return samples
}

type fetchFailure struct {
	server string
}

func (f *fetchFailure) Error() string {
	return "synthetic fetch failure for " + f.server
}

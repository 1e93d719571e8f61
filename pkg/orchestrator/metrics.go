package orchestrator

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "insight_report"

// runMetrics count what a run did. They live in their own registry so that they can be
// dumped to a node-exporter textfile when the run ends.
type runMetrics struct {
	registry *prometheus.Registry

	servers       *prometheus.CounterVec
	sites         *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	discarded     *prometheus.CounterVec
	lastRun       prometheus.Gauge
}

func newRunMetrics() *runMetrics {
	m := &runMetrics{
		registry: prometheus.NewRegistry(),
		servers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "servers_total",
			Help:      "Servers processed, by site and result.",
		}, []string{"site", "result"}),
		sites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sites_total",
			Help:      "Sites processed, by result.",
		}, []string{"result"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "fetch_duration_seconds",
			Help:      "Latency of batched metric queries.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"site"}),
		discarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "metrics_discarded_total",
			Help:      "Metric series dropped because they had no data points.",
		}, []string{"site"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}
	m.registry.MustRegister(m.servers, m.sites, m.fetchDuration, m.discarded, m.lastRun)
	return m
}

func result(ok bool) string {
	if ok {
		return "succeeded"
	}
	return "failed"
}

// WriteTextfile writes the current values in the text exposition format.
func (m *runMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

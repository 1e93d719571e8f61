package report

import (
	"math"
	"sort"

	"github.com/caio/go-tdigest/v4"
	"k8s.io/klog/v2"

	"github.com/gocrane/insight-report/pkg/analysis"
	"github.com/gocrane/insight-report/pkg/utils"
)

const digestCompression = 100

// ServerResult is what a successful server contributes to its site report.
type ServerResult struct {
	Name     string
	Analyses map[string]*analysis.MetricAnalysis
	// Digests summarise the raw values of each metric so the site can merge them.
	Digests map[string]*tdigest.TDigest
}

// NewDigest summarises the finite samples of series.
func NewDigest(series utils.MetricSeries) (*tdigest.TDigest, error) {
	td, err := tdigest.New(tdigest.Compression(digestCompression))
	if err != nil {
		return nil, err
	}
	for _, s := range series.Finite() {
		if err := td.Add(s.Value); err != nil {
			return nil, err
		}
	}
	return td, nil
}

// SiteMetric aggregates one metric across the servers of a site.
type SiteMetric struct {
	Key string
	// ServerMeans maps server name to that server's mean.
	ServerMeans map[string]float64
	// Mean is the mean of the server means.
	Mean float64
	Max  float64
	// P95 is the 95th percentile over the pooled values of all servers.
	P95    float64
	Points uint64
}

// AggregateSite builds per-metric site figures, ordered by keys. Metrics no server
// reported are skipped.
func AggregateSite(keys []string, servers []ServerResult) []SiteMetric {
	var out []SiteMetric
	for _, key := range keys {
		m := SiteMetric{Key: key, ServerMeans: map[string]float64{}, Max: math.Inf(-1), P95: math.NaN()}

		var merged *tdigest.TDigest
		var sum float64
		for _, srv := range servers {
			a := srv.Analyses[key]
			if a == nil || a.Statistics == nil {
				continue
			}
			m.ServerMeans[srv.Name] = a.Statistics.Mean
			sum += a.Statistics.Mean
			m.Max = math.Max(m.Max, a.Statistics.Max)

			td := srv.Digests[key]
			if td == nil {
				continue
			}
			if merged == nil {
				var err error
				if merged, err = tdigest.New(tdigest.Compression(digestCompression)); err != nil {
					klog.Warningf("Metric %s: create site digest: %v", key, err)
					continue
				}
			}
			if err := merged.Merge(td); err != nil {
				klog.Warningf("Metric %s: merge digest of %s: %v", key, srv.Name, err)
			}
		}
		if len(m.ServerMeans) == 0 {
			continue
		}
		m.Mean = sum / float64(len(m.ServerMeans))
		if merged != nil && merged.Count() > 0 {
			m.P95 = merged.Quantile(0.95)
			m.Points = merged.Count()
		}
		out = append(out, m)
	}
	return out
}

// SortedServers returns the server names of m in order.
func (m SiteMetric) SortedServers() []string {
	names := make([]string, 0, len(m.ServerMeans))
	for n := range m.ServerMeans {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

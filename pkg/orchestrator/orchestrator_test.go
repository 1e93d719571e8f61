package orchestrator

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocrane/insight-report/pkg/config"
	"github.com/gocrane/insight-report/pkg/dsmock"
	"github.com/gocrane/insight-report/pkg/insight"
	"github.com/gocrane/insight-report/pkg/insight/mock"
	"github.com/gocrane/insight-report/pkg/report"
	"github.com/gocrane/insight-report/pkg/reporterr"
	"github.com/gocrane/insight-report/pkg/utils"
)

func hourly(key string, start time.Time, hours int, value float64) utils.MetricSeries {
	s := utils.MetricSeries{Key: key}
	for i := 0; i < hours; i++ {
		s.Samples = append(s.Samples, utils.Sample{
			Value:     value + float64(i%24),
			Timestamp: start.Add(time.Duration(i) * time.Hour).UnixMilli(),
		})
	}
	return s
}

func exists(t *testing.T, path string) bool {
	_, err := os.Stat(path)
	if err == nil {
		return true
	}
	require.True(t, os.IsNotExist(err), "stat %s: %v", path, err)
	return false
}

func TestRunFailedServerDoesNotStopSiblings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	window := testWindow(t)
	fetcher := mock.NewMockFetcher(ctrl)
	fetcher.EXPECT().FetchMetrics(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, q insight.Query) ([]utils.MetricSeries, error) {
			if q.DimensionValue == "web-01" {
				return nil, reporterr.New(reporterr.FetchError, "query web-01", errors.New("503 Service Unavailable"))
			}
			assert.Equal(t, []string{"avg_cpu_used_rto", "mem_usert"}, q.Keys)
			assert.Equal(t, "vm_name", q.DimensionKey)
			assert.Equal(t, window.StartMs(), q.StartMs)
			assert.Equal(t, window.EndMs(), q.EndMs)
			return []utils.MetricSeries{
				hourly("avg_cpu_used_rto", window.Start, 7*24, 20),
				hourly("mem_usert", window.Start, 7*24, 40),
			}, nil
		}).Times(2)

	cfg := testConfig(t, map[string]config.Site{
		"site1": {Name: "Seoul HQ", NCP: testCredentials, Servers: []config.Server{
			{ID: "1", Name: "web-01"},
			{ID: "2", Name: "web-02"},
		}},
	})
	o := testOrchestrator(t, cfg, func(string, config.Site) insight.Fetcher { return fetcher })

	summary, err := o.Run(context.Background(), window, "")
	require.NoError(t, err)
	require.Len(t, summary.Sites, 1)
	site := summary.Sites[0]
	assert.Equal(t, 2, site.Servers)
	assert.Equal(t, 1, site.Succeeded)
	assert.Equal(t, 1, site.Failed)
	assert.True(t, site.Successful())
	assert.Equal(t, 1, summary.SucceededSites())
	assert.NotEmpty(t, summary.RunID)

	paths := report.NewPaths(cfg.Settings.General.OutputDir, window.Start, window.End)
	assert.Equal(t, paths.Root(), summary.OutputRoot)
	// artifacts are filed under the site display name
	assert.True(t, exists(t, filepath.Join(paths.Root(), "Seoul_HQ", "web-02")))
	assert.False(t, exists(t, filepath.Join(paths.Root(), "site1")))
	assert.True(t, exists(t, paths.ServerPDF("Seoul HQ", "web-02")))
	assert.True(t, exists(t, paths.DashboardPNG("Seoul HQ", "web-02")))
	assert.True(t, exists(t, paths.MetricChart("Seoul HQ", "web-02", "avg_cpu_used_rto")))
	assert.False(t, exists(t, paths.ServerPDF("Seoul HQ", "web-01")))
	assert.True(t, exists(t, filepath.Join(paths.Root(), "Seoul_HQ", "Seoul_HQ_site_report_20240401_to_20240407.pdf")))

	values, err := report.ReadSummary(paths.Summary("Seoul HQ"))
	require.NoError(t, err)
	assert.Equal(t, "2", values["servers"])
	assert.Equal(t, "1", values["succeeded"])
	assert.Equal(t, "1", values["failed"])
	assert.Equal(t, summary.RunID, values["run_id"])
	assert.Equal(t, "Seoul HQ", values["site"])
}

func TestRunWithSyntheticData(t *testing.T) {
	ds := dsmock.NewDataSource()
	ds.Empty = map[string]bool{"mem_usert": true}

	cfg := testConfig(t, map[string]config.Site{
		"site1": {Name: "Seoul HQ", NCP: testCredentials, Servers: []config.Server{
			{ID: "1", Name: "web 01"},
			{ID: "2", Name: "web-02"},
			{ID: "3", Name: "db-01"},
		}},
		"site2": {NCP: testCredentials, Servers: []config.Server{{ID: "9", Name: "batch-01"}}},
	})
	cfg.Settings.Report.HTMLDashboard = true
	cfg.Settings.General.MetricsTextfile = filepath.Join(t.TempDir(), "insight_report.prom")
	o := testOrchestrator(t, cfg, func(string, config.Site) insight.Fetcher { return ds })

	window := testWindow(t)
	summary, err := o.Run(context.Background(), window, "")
	require.NoError(t, err)
	require.Len(t, summary.Sites, 2)
	assert.Equal(t, "site1", summary.Sites[0].ID)
	assert.Equal(t, 3, summary.Sites[0].Succeeded)
	assert.Equal(t, "site2", summary.Sites[1].ID)
	assert.Equal(t, 2, summary.SucceededSites())

	paths := report.NewPaths(cfg.Settings.General.OutputDir, window.Start, window.End)
	assert.True(t, exists(t, filepath.Join(paths.Root(), "Seoul_HQ", "web_01", "web_01_report_20240401_to_20240407.pdf")))
	assert.True(t, exists(t, paths.DashboardHTML("Seoul HQ", "db-01")))
	// a metric without data gets no chart
	assert.False(t, exists(t, paths.MetricChart("Seoul HQ", "db-01", "mem_usert")))
	// without a display name the id is used
	assert.True(t, exists(t, paths.SitePDF("site2")))

	textfile, err := os.ReadFile(cfg.Settings.General.MetricsTextfile)
	require.NoError(t, err)
	assert.Contains(t, string(textfile), `insight_report_servers_total{result="succeeded",site="site1"} 3`)
	assert.Contains(t, string(textfile), `insight_report_metrics_discarded_total{site="site1"} 3`)
}

func TestRunAllServersFailed(t *testing.T) {
	ds := dsmock.NewDataSource()
	ds.Failing = map[string]bool{"web-01": true}

	cfg := testConfig(t, map[string]config.Site{
		"site1": {NCP: testCredentials, Servers: []config.Server{
			{ID: "1", Name: "web-01"},
			{Name: "missing-id"},
		}},
	})
	o := testOrchestrator(t, cfg, func(string, config.Site) insight.Fetcher { return ds })

	window := testWindow(t)
	summary, err := o.Run(context.Background(), window, "")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.SucceededSites())
	assert.Equal(t, 2, summary.Sites[0].Failed)

	paths := report.NewPaths(cfg.Settings.General.OutputDir, window.Start, window.End)
	assert.False(t, exists(t, paths.SitePDF("site1")))
	assert.True(t, exists(t, paths.Summary("site1")))
}

func TestRunSkipsMisconfiguredSite(t *testing.T) {
	cfg := testConfig(t, map[string]config.Site{
		"good": {NCP: testCredentials, Servers: []config.Server{{ID: "1", Name: "web-01"}}},
		"bad":  {NCP: config.Credentials{AccessKey: "ak"}, Servers: []config.Server{{ID: "2", Name: "web-02"}}},
	})
	o := testOrchestrator(t, cfg, func(string, config.Site) insight.Fetcher { return dsmock.NewDataSource() })

	summary, err := o.Run(context.Background(), testWindow(t), "")
	require.NoError(t, err)
	require.Len(t, summary.Sites, 2)
	bad := summary.Sites[0]
	assert.Equal(t, "bad", bad.ID)
	assert.True(t, reporterr.IsKind(bad.Err, reporterr.ConfigurationError))
	assert.False(t, bad.Successful())
	assert.Equal(t, 1, summary.SucceededSites())

	window := testWindow(t)
	paths := report.NewPaths(cfg.Settings.General.OutputDir, window.Start, window.End)
	values, err := report.ReadSummary(paths.Summary("bad"))
	require.NoError(t, err)
	assert.Equal(t, "1", values["servers"])
	assert.Equal(t, "0", values["succeeded"])
	assert.Equal(t, "1", values["failed"])
	assert.False(t, exists(t, paths.SitePDF("bad")))
}

func TestWithData(t *testing.T) {
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	series := []utils.MetricSeries{
		hourly("avg_cpu_used_rto", start, 3, 10),
		{Key: "mem_usert"},
		{Key: "used_rto", Samples: []utils.Sample{{Value: math.NaN(), Timestamp: start.UnixMilli()}}},
	}

	valid, dropped := withData(series)
	require.Len(t, valid, 1)
	assert.Equal(t, "avg_cpu_used_rto", valid[0].Key)
	require.Len(t, dropped, 2)
	for _, err := range dropped {
		assert.True(t, reporterr.IsKind(err, reporterr.DataSufficiency))
	}
	assert.Contains(t, dropped[1].Error(), "used_rto")
}

func TestRunSiteFilter(t *testing.T) {
	cfg := testConfig(t, map[string]config.Site{
		"site1": {NCP: testCredentials, Servers: []config.Server{{ID: "1", Name: "web-01"}}},
		"site2": {NCP: testCredentials, Servers: []config.Server{{ID: "2", Name: "web-02"}}},
	})
	o := testOrchestrator(t, cfg, func(string, config.Site) insight.Fetcher { return dsmock.NewDataSource() })

	summary, err := o.Run(context.Background(), testWindow(t), "site2")
	require.NoError(t, err)
	require.Len(t, summary.Sites, 1)
	assert.Equal(t, "site2", summary.Sites[0].ID)

	_, err = o.Run(context.Background(), testWindow(t), "site9")
	assert.True(t, reporterr.IsKind(err, reporterr.ConfigurationError))
}

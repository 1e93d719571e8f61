package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/gocrane/insight-report/pkg/chart"
	"github.com/gocrane/insight-report/pkg/config"
	"github.com/gocrane/insight-report/pkg/metricdef"
	"github.com/gocrane/insight-report/pkg/report"
	"github.com/gocrane/insight-report/pkg/utils"
)

var testMetrics = []metricdef.Definition{
	{Key: "avg_cpu_used_rto", Name: "CPU", Unit: "%", Category: metricdef.CategoryCPU,
		ThresholdWarning: utils.Float64Ptr(70), ThresholdCritical: utils.Float64Ptr(90)},
	{Key: "mem_usert", Name: "Memory", Unit: "%", Category: metricdef.CategoryMemory},
}

var testCredentials = config.Credentials{AccessKey: "ak", SecretKey: "sk", CWKey: "cw"}

func testConfig(t *testing.T, sites map[string]config.Site) *config.Config {
	settings := config.Settings{}
	settings.General.OutputDir = t.TempDir()
	settings.General.Timezone = "UTC"
	settings.General.Concurrency = 2
	settings.Complete()
	return &config.Config{Settings: settings, Sites: sites, Metrics: testMetrics}
}

func testOrchestrator(t *testing.T, cfg *config.Config, factory FetcherFactory) *Orchestrator {
	font, err := gochart.GetDefaultFont()
	require.NoError(t, err)
	o, err := New(cfg, factory, chart.NewRenderer(font), report.NewAssembler("", time.UTC))
	require.NoError(t, err)
	return o
}

func testWindow(t *testing.T) Window {
	w, err := ParseRange("20240401", "20240407", time.UTC)
	require.NoError(t, err)
	return w
}

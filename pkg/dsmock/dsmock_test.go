package dsmock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocrane/insight-report/pkg/insight"
)

func query(server string) insight.Query {
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	return insight.Query{
		Keys:           []string{"cpu", "mem"},
		DimensionKey:   "vm_name",
		DimensionValue: server,
		StartMs:        start.UnixMilli(),
		EndMs:          start.Add(24*time.Hour - time.Second).UnixMilli(),
		Interval:       "Min5",
	}
}

func TestFetchMetricsDeterministic(t *testing.T) {
	ds := NewDataSource()

	a, err := ds.FetchMetrics(context.Background(), query("web-01"))
	require.NoError(t, err)
	b, err := ds.FetchMetrics(context.Background(), query("web-01"))
	require.NoError(t, err)

	require.Len(t, a, 2)
	assert.Len(t, a[0].Samples, 288)
	assert.Equal(t, a, b)

	c, err := ds.FetchMetrics(context.Background(), query("web-02"))
	require.NoError(t, err)
	assert.NotEqual(t, a[0].Samples, c[0].Samples)
}

func TestFetchMetricsFailureAndEmpty(t *testing.T) {
	ds := &DataSource{Failing: map[string]bool{"bad": true}, Empty: map[string]bool{"mem": true}}

	_, err := ds.FetchMetrics(context.Background(), query("bad"))
	assert.Error(t, err)

	series, err := ds.FetchMetrics(context.Background(), query("good"))
	require.NoError(t, err)
	assert.False(t, series[0].Empty())
	assert.True(t, series[1].Empty())
}

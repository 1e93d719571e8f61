package chart

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/gocrane/insight-report/pkg/metricdef"
	"github.com/gocrane/insight-report/pkg/reporterr"
	"github.com/gocrane/insight-report/pkg/utils"
)

func testRenderer(t *testing.T) *Renderer {
	font, err := gochart.GetDefaultFont()
	require.NoError(t, err)
	return NewRenderer(font)
}

func testLayouts() []Layout {
	window := Window{Start: day(1), End: day(7)}
	defs := []metricdef.Definition{
		{Key: "cpu", Name: "CPU", Unit: "%", Category: metricdef.CategoryCPU, ThresholdWarning: utils.Float64Ptr(70)},
		{Key: "mem", Name: "Memory", Unit: "%"},
		{Key: "net", Name: "Network", Unit: "bps"},
		{Key: "disk", Name: "Disk", Unit: "%"},
	}
	var layouts []Layout
	for i, d := range defs {
		v := float64(i + 1)
		layouts = append(layouts, BuildLayout(series(d.Key, 7*24, time.Hour, func(j int) float64 { return v * float64(j%24) }), d, window, time.UTC))
	}
	return layouts
}

func TestRenderPNG(t *testing.T) {
	r := testRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.RenderPNG(testLayouts()[0], &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, img.Bounds().Dx())
	assert.Equal(t, DefaultHeight, img.Bounds().Dy())
}

func TestRenderPNGWithoutPoints(t *testing.T) {
	r := testRenderer(t)
	err := r.RenderPNG(Layout{MetricKey: "empty"}, &bytes.Buffer{})
	assert.True(t, reporterr.IsKind(err, reporterr.RenderError))
}

func TestRenderDashboardGrid(t *testing.T) {
	r := testRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.RenderDashboard("site - server", "2024.04.01 ~ 2024.04.07", testLayouts(), &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3*cellWidth, img.Bounds().Dx())
	assert.Equal(t, bannerHeight+2*cellHeight, img.Bounds().Dy())
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML("server dashboard", testLayouts(), &buf))

	html := buf.String()
	assert.True(t, strings.Contains(html, "server dashboard"))
	assert.True(t, strings.Contains(html, "Network"))
}

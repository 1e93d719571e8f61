package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaths(t *testing.T) {
	p := NewPaths("output", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 4, 7, 23, 59, 59, 0, time.UTC))

	root := filepath.Join("output", "report_20240401_to_20240407")
	assert.Equal(t, root, p.Root())
	assert.Equal(t, filepath.Join(root, "site1", "web_01", "avg_cpu_used_rto_20240401_to_20240407.png"), p.MetricChart("site1", "web 01", "avg_cpu_used_rto"))
	assert.Equal(t, filepath.Join(root, "site1", "web_01", "web_01_dashboard_20240401_to_20240407.png"), p.DashboardPNG("site1", "web 01"))
	assert.Equal(t, filepath.Join(root, "site1", "web_01", "web_01_dashboard_20240401_to_20240407.html"), p.DashboardHTML("site1", "web 01"))
	assert.Equal(t, filepath.Join(root, "site1", "web_01", "web_01_report_20240401_to_20240407.pdf"), p.ServerPDF("site1", "web 01"))
	assert.Equal(t, filepath.Join(root, "site1", "site1_site_report_20240401_to_20240407.pdf"), p.SitePDF("site1"))
	assert.Equal(t, filepath.Join(root, "site1", "summary.txt"), p.Summary("site1"))
}

func TestPathsSanitizeSeparators(t *testing.T) {
	p := Paths{OutputDir: "out", Start: "20240401", End: "20240402"}
	assert.Equal(t, filepath.Join(p.Root(), "a_b", "c_d"), p.ServerDir("a/b", `c\d`))
}

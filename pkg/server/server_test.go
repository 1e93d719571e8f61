package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocrane/insight-report/pkg/report"
)

func testRoot(t *testing.T) string {
	root := t.TempDir()
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 7, 23, 59, 59, 0, time.UTC)

	paths := report.NewPaths(root, start, end)
	require.NoError(t, os.MkdirAll(paths.SiteDir("site1"), 0755))
	require.NoError(t, report.WriteSummary(paths.Summary("site1"), report.Summary{
		Site: "Main", RunID: "run-1", Generated: end, Window: "7 days",
		Start: start, End: end, Servers: 2, Succeeded: 1, Failed: 1,
	}))
	require.NoError(t, os.WriteFile(filepath.Join(paths.SiteDir("site1"), "note.txt"), []byte("hello"), 0644))

	older := report.NewPaths(root, start.AddDate(0, 0, -7), end.AddDate(0, 0, -7))
	require.NoError(t, os.MkdirAll(older.Root(), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "unrelated"), 0755))
	return root
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s := NewServer(Config{Root: t.TempDir()})
	w := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestListRuns(t *testing.T) {
	s := NewServer(Config{Root: testRoot(t)})
	w := get(t, s, "/api/runs")
	require.Equal(t, http.StatusOK, w.Code)

	var runs []Run
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	require.Len(t, runs, 2)
	assert.Equal(t, "report_20240401_to_20240407", runs[0].Name)
	assert.Equal(t, "report_20240325_to_20240331", runs[1].Name)
	require.Len(t, runs[0].Sites, 1)
	assert.Equal(t, "Main", runs[0].Sites[0]["site"])
	assert.Equal(t, "site1", runs[0].Sites[0]["dir"])
	assert.Equal(t, "1", runs[0].Sites[0]["failed"])
	assert.Empty(t, runs[1].Sites)
}

func TestListRunsMissingRoot(t *testing.T) {
	s := NewServer(Config{Root: filepath.Join(t.TempDir(), "missing")})
	w := get(t, s, "/api/runs")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetRun(t *testing.T) {
	s := NewServer(Config{Root: testRoot(t)})

	w := get(t, s, "/api/runs/report_20240401_to_20240407")
	require.Equal(t, http.StatusOK, w.Code)
	var run Run
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.Len(t, run.Sites, 1)

	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/runs/report_20000101_to_20000102").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/runs/unrelated").Code)
}

func TestServeReportFiles(t *testing.T) {
	s := NewServer(Config{Root: testRoot(t)})
	w := get(t, s, "/reports/report_20240401_to_20240407/site1/note.txt")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := NewServer(Config{Root: t.TempDir()})
	get(t, s, "/healthz")
	w := get(t, s, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
}

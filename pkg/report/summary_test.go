package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site1", "summary.txt")
	s := Summary{
		Site:      "Seoul HQ",
		RunID:     "0b7e4c1a-5a8e-4b43-9f0f-2f6f3f1c2d11",
		Generated: time.Date(2024, 4, 8, 9, 0, 0, 0, time.UTC),
		Window:    "7 days",
		Start:     time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2024, 4, 7, 23, 59, 59, 0, time.UTC),
		Servers:   3,
		Succeeded: 2,
		Failed:    1,
	}
	require.NoError(t, WriteSummary(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "site: Seoul HQ", lines[0])
	assert.Equal(t, "failed: 1", lines[len(lines)-1])

	kv, err := ReadSummary(path)
	require.NoError(t, err)
	assert.Equal(t, "2024-04-07 23:59:59", kv["end"])
	assert.Equal(t, "2", kv["succeeded"])
	assert.Equal(t, s.RunID, kv["run_id"])
}

package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocrane/insight-report/pkg/known"
)

// Summary is the plain-text record of one site in one run.
type Summary struct {
	Site      string
	RunID     string
	Generated time.Time
	Window    string
	Start     time.Time
	End       time.Time
	Servers   int
	Succeeded int
	Failed    int
}

func (s Summary) lines() [][2]string {
	return [][2]string{
		{"site", s.Site},
		{"run_id", s.RunID},
		{"generated", s.Generated.Format(known.TimestampLayout)},
		{"window", s.Window},
		{"start", s.Start.Format(known.TimestampLayout)},
		{"end", s.End.Format(known.TimestampLayout)},
		{"servers", fmt.Sprintf("%d", s.Servers)},
		{"succeeded", fmt.Sprintf("%d", s.Succeeded)},
		{"failed", fmt.Sprintf("%d", s.Failed)},
	}
}

// WriteSummary writes "key: value" lines to path.
func WriteSummary(path string, s Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var b strings.Builder
	for _, kv := range s.lines() {
		fmt.Fprintf(&b, "%s: %s\n", kv[0], kv[1])
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// ReadSummary parses a file written by WriteSummary into its key/value pairs.
func ReadSummary(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ": ")
		if !ok {
			continue
		}
		out[key] = value
	}
	return out, scanner.Err()
}

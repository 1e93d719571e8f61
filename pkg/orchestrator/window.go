package orchestrator

import (
	"fmt"
	"time"

	"github.com/gocrane/insight-report/pkg/chart"
	"github.com/gocrane/insight-report/pkg/known"
)

// Window is the time range one run reports on.
type Window struct {
	Start time.Time
	End   time.Time
	// Label describes the window in the summary file.
	Label string
}

// ParseRange builds a window from YYYYMMDD dates. The start date begins at 00:00:00 and
// the end date runs through 23:59:59 in loc.
func ParseRange(startDate, endDate string, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.Local
	}
	start, err := time.ParseInLocation(known.DateLayout, startDate, loc)
	if err != nil {
		return Window{}, fmt.Errorf("invalid start date %q, expected YYYYMMDD: %v", startDate, err)
	}
	end, err := time.ParseInLocation(known.DateLayout, endDate, loc)
	if err != nil {
		return Window{}, fmt.Errorf("invalid end date %q, expected YYYYMMDD: %v", endDate, err)
	}
	if start.After(end) {
		return Window{}, fmt.Errorf("start date %s is after end date %s", startDate, endDate)
	}

	end = end.AddDate(0, 0, 1).Add(-time.Second)
	return Window{
		Start: start,
		End:   end,
		Label: fmt.Sprintf("%s ~ %s", start.Format(known.DisplayDateLayout), end.Format(known.DisplayDateLayout)),
	}, nil
}

// Recent is the rolling window of the last days days ending at now.
func Recent(now time.Time, days int) (Window, error) {
	if days < 1 {
		return Window{}, fmt.Errorf("days must be at least 1, got %d", days)
	}
	return Window{
		Start: now.AddDate(0, 0, -days),
		End:   now,
		Label: fmt.Sprintf("%d days", days),
	}, nil
}

func (w Window) StartMs() int64 {
	return w.Start.UnixMilli()
}

func (w Window) EndMs() int64 {
	return w.End.UnixMilli()
}

func (w Window) Chart() chart.Window {
	return chart.Window{Start: w.Start, End: w.End}
}

// Period is the window in report display form, e.g. "2024.04.01 ~ 2024.04.07".
func (w Window) Period() string {
	return fmt.Sprintf("%s ~ %s", w.Start.Format(known.DisplayDateLayout), w.End.Format(known.DisplayDateLayout))
}

package utils

import (
	"strings"
	"time"
)

func GetIntwithDefault(i int, value int) int {
	if i > 0 {
		return i
	}

	return value
}

func Float64Ptr(f float64) *float64 {
	return &f
}

var fileNameReplacer = strings.NewReplacer(" ", "_", "/", "_", "\\", "_")

// SafeFileName turns a display name into something usable as a single path element.
func SafeFileName(name string) string {
	return fileNameReplacer.Replace(strings.TrimSpace(name))
}

// CivilDay returns the calendar date of t as a day count since 1970-01-01,
// so that dates can be compared and subtracted without time-of-day noise.
func CivilDay(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// DayStart returns local midnight of the day t falls in.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

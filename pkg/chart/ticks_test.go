package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2024, 4, d, 0, 0, 0, 0, time.UTC)
}

func TestDateTicksWeekly(t *testing.T) {
	assert.Equal(t, []time.Time{day(1), day(8), day(15)}, DateTicks(day(1), day(15)))
}

func TestDateTicksIncludesOffCadenceEnd(t *testing.T) {
	assert.Equal(t, []time.Time{day(1), day(8), day(10)}, DateTicks(day(1), day(10)))
}

func TestDateTicksSingleDay(t *testing.T) {
	assert.Equal(t, []time.Time{day(3)}, DateTicks(day(3), day(3).Add(23*time.Hour)))
}

func TestXRangePadsOneDay(t *testing.T) {
	lo, hi := XRange(day(1), day(10).Add(23*time.Hour+59*time.Minute))
	assert.Equal(t, day(1), lo)
	assert.Equal(t, day(11), hi)
}

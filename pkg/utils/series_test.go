package utils

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFiniteDropsNaN(t *testing.T) {
	s := MetricSeries{Key: "cpu", Samples: []Sample{
		{Value: 1, Timestamp: 1000},
		{Value: math.NaN(), Timestamp: 2000},
		{Value: 3, Timestamp: 3000},
	}}

	got := s.Finite()
	assert.Equal(t, []Sample{{Value: 1, Timestamp: 1000}, {Value: 3, Timestamp: 3000}}, got)
	// the series itself is left untouched
	assert.Len(t, s.Samples, 3)
}

func TestTimeRange(t *testing.T) {
	_, _, ok := TimeRange(nil)
	assert.False(t, ok)

	min, max, ok := TimeRange([]Sample{{Timestamp: 5}, {Timestamp: 2}, {Timestamp: 9}})
	assert.True(t, ok)
	assert.Equal(t, int64(2), min)
	assert.Equal(t, int64(9), max)
}

func TestCivilDay(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	a := time.Date(2024, 4, 1, 0, 30, 0, 0, seoul)
	b := time.Date(2024, 4, 1, 23, 59, 0, 0, seoul)
	c := time.Date(2024, 4, 8, 0, 0, 0, 0, seoul)

	assert.Equal(t, CivilDay(a), CivilDay(b))
	assert.Equal(t, 7, CivilDay(c)-CivilDay(a))
}

func TestSafeFileName(t *testing.T) {
	assert.Equal(t, "web_server_01", SafeFileName(" web server 01 "))
	assert.Equal(t, "a_b", SafeFileName("a/b"))
}

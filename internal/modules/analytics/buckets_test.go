package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowDays(t *testing.T) {
	assert.Equal(t, 7, windowDays(0))
	assert.Equal(t, 7, windowDays(7))
	assert.Equal(t, 30, windowDays(8))
	assert.Equal(t, 30, windowDays(30))
	assert.Equal(t, 90, windowDays(31))
	assert.Equal(t, 90, windowDays(365))
}

func TestBucketDailyZeroFills(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

	events := []time.Time{
		now.Add(-1 * time.Hour),                  // today
		now.AddDate(0, 0, -2),                    // two days ago
		now.AddDate(0, 0, -2).Add(3 * time.Hour), // two days ago again
		now.AddDate(0, 0, -10),                   // outside a 7-day window
	}

	series := bucketDaily(events, 7, now)
	require.Len(t, series, 7)

	assert.Equal(t, "2026-08-24", series[0].Date)
	assert.Equal(t, "2026-08-30", series[6].Date)

	byDate := map[string]int64{}
	for _, d := range series {
		byDate[d.Date] = d.Count
	}
	assert.Equal(t, int64(1), byDate["2026-08-30"])
	assert.Equal(t, int64(2), byDate["2026-08-28"])
	assert.Equal(t, int64(0), byDate["2026-08-27"], "empty days stay present with zero count")

	var total int64
	for _, d := range series {
		total += d.Count
	}
	assert.Equal(t, int64(3), total, "event outside the window is dropped")
}

func TestBucketDailyEmptyInput(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	series := bucketDaily(nil, 30, now)
	require.Len(t, series, 30)
	for _, d := range series {
		assert.Zero(t, d.Count)
	}
}

func TestVisitorIDStableAndAnonymous(t *testing.T) {
	a := VisitorID("203.0.113.7", "Mozilla/5.0")
	b := VisitorID("203.0.113.7", "Mozilla/5.0")
	c := VisitorID("203.0.113.8", "Mozilla/5.0")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
	assert.NotContains(t, a, "203.0.113.7")
}

package analytics

import "time"

// DayCount is one zero-filled day of an aggregation window.
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

const dateLayout = "2006-01-02"

// windowDays clamps a requested window to the supported sizes.
func windowDays(requested int) int {
	switch {
	case requested <= 7:
		return 7
	case requested <= 30:
		return 30
	default:
		return 90
	}
}

// windowStart returns midnight local time of the first day in an n-day
// window ending today.
func windowStart(now time.Time, days int) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -(days - 1))
}

// bucketDaily distributes timestamps into per-day counts over an n-day
// window ending at now. Every day appears, including empty ones; timestamps
// outside the window are dropped.
func bucketDaily(timestamps []time.Time, days int, now time.Time) []DayCount {
	start := windowStart(now, days)
	counts := make(map[string]int64, days)
	for _, ts := range timestamps {
		local := ts.In(now.Location())
		if local.Before(start) || local.After(now) {
			continue
		}
		counts[local.Format(dateLayout)]++
	}

	out := make([]DayCount, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		key := day.Format(dateLayout)
		out[i] = DayCount{Date: key, Count: counts[key]}
	}
	return out
}

package roster

import (
	"sort"
	"strings"
	"time"
)

// latestMinute is past any valid time of day
const latestMinute = 24 * 60

// SortShifts returns a copy of shifts ordered by weekday and then by start
// time. Shifts without a readable start time go last within their day and
// keep their relative order.
func SortShifts(shifts []Shift) []Shift {
	sorted := make([]Shift, len(shifts))
	copy(sorted, shifts)

	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := DayRank(sorted[i].Day), DayRank(sorted[j].Day)
		if ri != rj {
			return ri < rj
		}
		return startMinute(sorted[i].Time) < startMinute(sorted[j].Time)
	})

	return sorted
}

// startMinute returns minutes since midnight for the start of a "HH:MM-HH:MM"
// range, or latestMinute when the range cannot be read.
func startMinute(timeRange string) int {
	if timeRange == "" {
		return latestMinute
	}

	start, _, found := strings.Cut(timeRange, "-")
	if !found {
		return latestMinute
	}
	t, err := time.Parse("15:04", strings.TrimSpace(start))
	if err != nil {
		return latestMinute
	}
	return t.Hour()*60 + t.Minute()
}

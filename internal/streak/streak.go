// Package streak computes consecutive-day runs from completion dates.
package streak

import (
	"sort"
	"time"

	"github.com/julianstephens/habitbloom/internal/utils"
)

// Current returns the length of the run of consecutive completed days that
// ends today or yesterday. A habit not yet checked in today keeps its streak
// until the day is over.
func Current(dates []time.Time, today time.Time) int {
	days := normalize(dates, today.Location())
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today = utils.DateOnly(today)
	var cursor time.Time
	streak := 0
	for _, d := range days {
		if d.After(today) {
			// Future records never anchor a streak.
			continue
		}
		if streak == 0 {
			// The grace day only applies to the anchor.
			if !d.Equal(today) && !d.Equal(today.AddDate(0, 0, -1)) {
				break
			}
		} else if !d.Equal(cursor) {
			break
		}
		streak++
		cursor = d.AddDate(0, 0, -1)
	}
	return streak
}

// Longest returns the longest run of consecutive days anywhere in dates.
func Longest(dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	days := normalize(dates, dates[0].Location())
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if utils.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// FromStrings parses YYYY-MM-DD dates in loc, skipping malformed entries.
func FromStrings(dates []string, loc *time.Location) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, s := range dates {
		d, err := utils.ParseDate(s, loc)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}

// normalize truncates to midnight in loc and drops duplicate days.
func normalize(dates []time.Time, loc *time.Location) []time.Time {
	seen := make(map[string]bool, len(dates))
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		d = utils.DateOnly(d.In(loc))
		key := utils.FormatDate(d)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	return out
}

package habits

import (
	"sort"
	"time"
)

// Stats summarizes a habit's check history.
type Stats struct {
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	WeeklyRate    float64 `json:"weekly_rate"` // share of the last 7 days checked
}

// ComputeStats derives streak statistics from a habit's checks relative
// to now. The current streak counts consecutive checked days ending
// today or yesterday (an unchecked today does not break it yet).
func ComputeStats(checks []*Check, now time.Time) Stats {
	days := make(map[string]bool, len(checks))
	for _, c := range checks {
		days[c.CheckedDate] = true
	}

	var s Stats

	cursor := now
	if !days[DateKey(cursor)] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	for days[DateKey(cursor)] {
		s.CurrentStreak++
		cursor = cursor.AddDate(0, 0, -1)
	}

	s.LongestStreak = longestRun(days)

	checked := 0
	for i := 0; i < 7; i++ {
		if days[DateKey(now.AddDate(0, 0, -i))] {
			checked++
		}
	}
	s.WeeklyRate = float64(checked) / 7

	return s
}

// longestRun finds the longest sequence of consecutive calendar days.
func longestRun(days map[string]bool) int {
	dates := make([]time.Time, 0, len(days))
	for key := range days {
		t, err := time.Parse("2006-01-02", key)
		if err != nil {
			continue
		}
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	longest, run := 0, 0
	for i, d := range dates {
		if i > 0 && d.Sub(dates[i-1]) == 24*time.Hour {
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

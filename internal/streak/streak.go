// Package streak computes bloom streaks over the post history. Both
// functions are pure over a snapshot of post dates and are recomputed on
// every store mutation rather than maintained incrementally, so the
// displayed values can never drift from the stored posts.
package streak

import (
	"sort"

	"github.com/bloomapp/bloom-core/internal/dates"
)

// Current counts consecutive calendar days with at least one post, walking
// backward from today. The walk starts at today, so the current streak is 0
// whenever today has no post, even if yesterday does.
func Current(postDates []string, today string) int {
	if len(postDates) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(postDates))
	for _, d := range postDates {
		seen[d] = struct{}{}
	}

	count := 0
	day := today
	for {
		if _, ok := seen[day]; !ok {
			return count
		}
		count++
		prev, err := dates.PrevDay(day)
		if err != nil {
			return count
		}
		day = prev
	}
}

// Best returns the longest run of calendar-day-consecutive post dates ever
// recorded. Duplicate dates count once; a gap other than exactly one day
// resets the run.
func Best(postDates []string) int {
	if len(postDates) == 0 {
		return 0
	}

	unique := make([]string, 0, len(postDates))
	seen := make(map[string]struct{}, len(postDates))
	for _, d := range postDates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		unique = append(unique, d)
	}
	sort.Strings(unique)

	best := 0
	run := 0
	prev := ""
	for _, d := range unique {
		if prev == "" {
			run = 1
		} else if diff, err := dates.DayDiff(prev, d); err == nil && diff == 1 {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
		prev = d
	}
	return best
}

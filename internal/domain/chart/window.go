package chart

import (
	"time"

	"github.com/jmatthewarnold/buendia/internal/domain/obs"
)

// WeekStarts returns the 7-day window start dates needed to cover
// [start, end]. The first element is start truncated to midnight in
// loc; each subsequent element is exactly 7 days later. Window starts
// are emitted while they fall strictly before end, so the final,
// possibly partial, week containing end is included. The result is
// never empty: even for end <= start the single window at start is
// returned.
func WeekStarts(start, end time.Time, loc *time.Location) []time.Time {
	first := obs.Day(start, loc)
	weeks := []time.Time{first}
	for w := first.AddDate(0, 0, 7); w.Before(end); w = w.AddDate(0, 0, 7) {
		weeks = append(weeks, w)
	}
	return weeks
}

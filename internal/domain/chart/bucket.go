package chart

import (
	"time"

	"github.com/jmatthewarnold/buendia/internal/domain/obs"
)

// Bucketize groups a patient's observations by concept and calendar
// day in a single pass.
//
// The input must be sorted by timestamp descending (newest first),
// which is how the repository returns it, and must be non-empty; the
// caller short-circuits patients with no observations before getting
// here. earliestDay is the midnight of the oldest observation's day,
// passed in because the caller already knows it.
//
// The pass walks the slice backwards, i.e. in ascending time order,
// and slides a one-day [dayStart, dayEnd) window forward as the
// timestamps grow. The window never moves backwards, so advancing it
// costs O(days spanned) over the whole pass instead of a truncation
// per observation. An observation exactly at midnight is not before
// dayEnd and therefore lands on the new day, not the old one.
func Bucketize(observations []obs.Observation, earliestDay time.Time) Buckets {
	buckets := make(Buckets)
	dayStart := earliestDay
	dayEnd := dayStart.AddDate(0, 0, 1)
	for i := len(observations) - 1; i >= 0; i-- {
		o := observations[i]

		byDay := buckets[o.Concept.ID]
		if byDay == nil {
			byDay = make(map[time.Time][]obs.Observation)
			buckets[o.Concept.ID] = byDay
		}

		for !o.Time.Before(dayEnd) {
			dayStart = dayEnd
			dayEnd = dayEnd.AddDate(0, 0, 1)
		}

		byDay[dayStart] = append(byDay[dayStart], o)
	}
	return buckets
}

package treatment

import (
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jmatthewarnold/buendia/internal/domain/obs"
)

// Reconcile collapses order revision chains, computes the timeline's
// display range, and counts administration events per chain per day.
//
// orders holds every version of every chain; events are the patient's
// "order executed" observations, each referencing the order version it
// was recorded against. now is the fallback start when the patient has
// orders but no dated schedule and no events.
//
// Range rules: start is the earliest of all scheduled starts and event
// times; stop is the latest of all auto-expire dates and event times.
// With only open-ended orders and no events, stop collapses to start
// so an indefinite order prints a single day instead of forever.
func Reconcile(orders []Order, events []obs.Observation, now time.Time, loc *time.Location) Timeline {
	latest := make(map[uuid.UUID]Order)
	versionChain := make(map[uuid.UUID]uuid.UUID, len(orders))
	for _, o := range orders {
		versionChain[o.ID] = o.ChainID
		// The chain id is the earliest version's own id, so events
		// recorded against the root version resolve even when that
		// version itself is not in the input.
		versionChain[o.ChainID] = o.ChainID
		if cur, ok := latest[o.ChainID]; !ok || o.Revision > cur.Revision {
			latest[o.ChainID] = o
		}
	}

	var start, stop time.Time
	for _, o := range latest {
		if o.Scheduled != nil && (start.IsZero() || o.Scheduled.Before(start)) {
			start = *o.Scheduled
		}
		if o.AutoExpire != nil && (stop.IsZero() || o.AutoExpire.After(stop)) {
			stop = *o.AutoExpire
		}
	}
	for _, ev := range events {
		if start.IsZero() || ev.Time.Before(start) {
			start = ev.Time
		}
		if stop.IsZero() || ev.Time.After(stop) {
			stop = ev.Time
		}
	}
	if start.IsZero() {
		start = now
	}
	if stop.IsZero() {
		stop = start
	}

	tl := Timeline{Start: start, Stop: stop}
	counts := make(map[uuid.UUID]map[time.Time]int, len(latest))
	for chainID := range latest {
		counts[chainID] = make(map[time.Time]int)
	}

	// Day bounds are closed on both ends so an event recorded at the
	// exact end-of-day instant still lands on that day.
	startDay := obs.Day(start, loc)
	stopDay := obs.Day(stop, loc)
	for day := startDay; !day.After(stopDay); day = day.AddDate(0, 0, 1) {
		dayEnd := obs.DayEnd(day)
		for _, ev := range events {
			if ev.OrderID == nil {
				continue
			}
			chainID, ok := versionChain[*ev.OrderID]
			if !ok {
				continue
			}
			if !ev.Time.Before(day) && !ev.Time.After(dayEnd) {
				counts[chainID][day]++
			}
		}
	}

	for chainID, o := range latest {
		tl.Rows = append(tl.Rows, Row{Order: o, Counts: counts[chainID]})
	}
	sortRows(tl.Rows)
	return tl
}

// sortRows orders timeline rows for stable display: by scheduled start
// (undated orders first), then instructions, then chain id.
func sortRows(rows []Row) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].Order, rows[j].Order
		switch {
		case a.Scheduled == nil && b.Scheduled != nil:
			return true
		case a.Scheduled != nil && b.Scheduled == nil:
			return false
		case a.Scheduled != nil && !a.Scheduled.Equal(*b.Scheduled):
			return a.Scheduled.Before(*b.Scheduled)
		}
		if a.Instructions != b.Instructions {
			return a.Instructions < b.Instructions
		}
		return a.ChainID.String() < b.ChainID.String()
	})
}

// WeekTables paginates the timeline into 7-day grids. The grid always
// emits at least one week, and keeps emitting while the next week
// start is on or before the stop instant, so the week containing stop
// is always included.
func (tl Timeline) WeekTables(loc *time.Location) []WeekTable {
	var tables []WeekTable
	week := obs.Day(tl.Start, loc)
	for {
		tables = append(tables, tl.weekTable(week))
		week = week.AddDate(0, 0, 7)
		if week.After(tl.Stop) {
			break
		}
	}
	return tables
}

func (tl Timeline) weekTable(weekStart time.Time) WeekTable {
	table := WeekTable{WeekStart: weekStart}
	for i := range table.Days {
		table.Days[i] = weekStart.AddDate(0, 0, i)
	}
	for _, row := range tl.Rows {
		wr := WeekRow{Label: rowLabel(row.Order)}
		for i, day := range table.Days {
			if n := row.Counts[day]; n > 0 {
				wr.Cells[i] = strconv.Itoa(n)
			}
		}
		table.Rows = append(table.Rows, wr)
	}
	return table
}

func rowLabel(o Order) string {
	label := o.Instructions
	if annotation := o.DateRangeLabel(); annotation != "" {
		label += " " + annotation
	}
	return label
}

package chart

import (
	"strings"
	"time"

	"github.com/jmatthewarnold/buendia/internal/domain/obs"
)

// BuildTables produces one WeekTable per week window for a single
// chart definition. earliestDay is the bucket map's first day; latest
// is the newest observation timestamp, which bounds the window
// sequence.
//
// A question appears as a row only if the patient has at least one
// bucketed observation for it anywhere in their history — questions
// never answered are omitted from every week, keeping printed charts
// compact. Within a cell, the day's values are formatted and joined
// with ", " in bucket insertion order.
func BuildTables(def Definition, buckets Buckets, earliestDay, latest time.Time, f obs.Formatter, loc *time.Location) []WeekTable {
	var tables []WeekTable
	for _, weekStart := range WeekStarts(earliestDay, latest, loc) {
		table := WeekTable{Chart: def.Name, WeekStart: weekStart}
		for i := range table.Days {
			table.Days[i] = weekStart.AddDate(0, 0, i)
		}
		for _, q := range def.Questions {
			byDay := buckets[q.ID]
			if byDay == nil {
				continue
			}
			row := Row{Question: q, Label: f.Namer.Name(q)}
			for i, day := range table.Days {
				row.Cells[i] = formatCell(byDay[day], f)
			}
			table.Rows = append(table.Rows, row)
		}
		tables = append(tables, table)
	}
	return tables
}

func formatCell(dayObs []obs.Observation, f obs.Formatter) string {
	if len(dayObs) == 0 {
		return ""
	}
	values := make([]string, len(dayObs))
	for i, o := range dayObs {
		values[i] = f.Format(o.Value)
	}
	return strings.Join(values, ", ")
}

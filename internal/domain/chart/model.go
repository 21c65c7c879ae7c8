// Package chart turns a patient's observation history into printable
// weekly tables: one row per chart question, one column per day.
package chart

import (
	"time"

	"github.com/google/uuid"

	"github.com/jmatthewarnold/buendia/internal/domain/obs"
)

// Definition is one named chart: an ordered list of question concepts.
// The order is display order. Definitions come from the loaded profile
// and are immutable for the duration of a report.
type Definition struct {
	Name      string        `json:"name"`
	Questions []obs.Concept `json:"questions"`
}

// Buckets maps concept id -> day start -> observations recorded for
// that concept on that day. Day keys are midnights produced by obs.Day
// in the report timezone.
type Buckets map[uuid.UUID]map[time.Time][]obs.Observation

// WeekTable is one printable week of one chart.
type WeekTable struct {
	Chart     string       `json:"chart"`
	WeekStart time.Time    `json:"week_start"`
	Days      [7]time.Time `json:"days"`
	Rows      []Row        `json:"rows"`
}

// Row is one question's values across a week. Cells hold the formatted,
// comma-joined observation values for each day; empty when the day has
// none.
type Row struct {
	Question obs.Concept `json:"question"`
	Label    string      `json:"label"`
	Cells    [7]string   `json:"cells"`
}

// Package obs holds the clinical observation model shared by the chart
// and treatment domains: concepts (clinical questions), timestamped
// observations, and the typed observation value with its display
// formatting.
package obs

import (
	"time"

	"github.com/google/uuid"
)

// Concept is a clinical question or coded answer. Concepts are loaded
// once per report and referenced by ID.
type Concept struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
}

// Observation is one recorded value for a concept at a point in time.
// OrderID is set when the observation records the execution of a
// treatment order.
type Observation struct {
	ID       uuid.UUID  `db:"id" json:"id"`
	Concept  Concept    `json:"concept"`
	Time     time.Time  `db:"observed_at" json:"time"`
	Value    Value      `json:"value"`
	OrderID  *uuid.UUID `db:"order_id" json:"order_id,omitempty"`
}

// Day returns the midnight that starts the calendar day containing t
// in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DayEnd returns the last representable instant of the day starting at
// dayStart. Used by the treatment timeline, which counts events over a
// closed interval.
func DayEnd(dayStart time.Time) time.Time {
	return dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// Package treatment reconciles prescribed order schedules against
// recorded administration events and lays the result out as a weekly
// timeline grid.
package treatment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jmatthewarnold/buendia/internal/domain/obs"
)

// Order is one version of a prescription. Editing an order creates a
// new version; all versions share the ChainID, which is the id of the
// chain's earliest version and is assigned at creation. Revision
// increments with every edit, so the chain's latest version is the one
// with the highest revision.
type Order struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	ChainID      uuid.UUID  `db:"chain_id" json:"chain_id"`
	Revision     int        `db:"revision" json:"revision"`
	Instructions string     `db:"instructions" json:"instructions"`
	Scheduled    *time.Time `db:"scheduled_start" json:"scheduled_start,omitempty"`
	AutoExpire   *time.Time `db:"auto_expire" json:"auto_expire,omitempty"`
}

// DateRangeLabel renders the order's "(start - end)" annotation, with
// "*" for an open-ended order. An order with no scheduled start is a
// data-entry defect; it gets a blank annotation rather than failing
// the report.
func (o Order) DateRangeLabel() string {
	if o.Scheduled == nil {
		return ""
	}
	end := "*"
	if o.AutoExpire != nil {
		end = o.AutoExpire.Format(obs.HeaderDateLayout)
	}
	return fmt.Sprintf("(%s - %s)", o.Scheduled.Format(obs.HeaderDateLayout), end)
}

// Row is one collapsed order chain on the timeline: the chain's latest
// version for display, keyed by the chain id, with administration
// counts per day.
type Row struct {
	Order  Order             `json:"order"`
	Counts map[time.Time]int `json:"counts"`
}

// Timeline is the reconciled display range and per-chain rows.
type Timeline struct {
	Start time.Time `json:"start"`
	Stop  time.Time `json:"stop"`
	Rows  []Row     `json:"rows"`
}

// WeekTable is one printable week of the timeline grid.
type WeekTable struct {
	WeekStart time.Time    `json:"week_start"`
	Days      [7]time.Time `json:"days"`
	Rows      []WeekRow    `json:"rows"`
}

// WeekRow is one order's administration counts across a week. Cells
// hold the day's count as text, empty when nothing was given.
type WeekRow struct {
	Label string    `json:"label"`
	Cells [7]string `json:"cells"`
}

// Package report assembles the full printable chart set: every
// patient's weekly chart tables followed by their treatment timeline.
package report

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jmatthewarnold/buendia/internal/domain/chart"
	"github.com/jmatthewarnold/buendia/internal/domain/obs"
	"github.com/jmatthewarnold/buendia/internal/domain/treatment"
)

// ErrNoChartSchema signals that no chart definitions are loaded. The
// report is meaningless without a schema, so generation stops and the
// caller renders an explanatory message instead of tables.
var ErrNoChartSchema = errors.New("no chart schema loaded")

// Patient maps to the patient table.
type Patient struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ClinicID   *string   `db:"clinic_id" json:"clinic_id,omitempty"`
	GivenName  string    `db:"given_name" json:"given_name"`
	FamilyName string    `db:"family_name" json:"family_name"`
}

type Repository interface {
	ListPatients(ctx context.Context) ([]Patient, error)
	// ListObservations returns all of a patient's observations sorted
	// by timestamp descending. The bucketizer depends on this order.
	ListObservations(ctx context.Context, patientID uuid.UUID) ([]obs.Observation, error)
	ListOrders(ctx context.Context, patientID uuid.UUID) ([]treatment.Order, error)
	// ListAdministrations returns the patient's "order executed"
	// observations, newest first.
	ListAdministrations(ctx context.Context, patientID uuid.UUID) ([]obs.Observation, error)
	// ChartDefinitions resolves the loaded profile into named,
	// question-ordered chart definitions. Returns ErrNoChartSchema
	// when nothing usable is loaded.
	ChartDefinitions(ctx context.Context) ([]chart.Definition, error)
	// ConceptNames returns the client-facing display names from the
	// loaded profile, keyed by concept id.
	ConceptNames(ctx context.Context) (obs.NameMap, error)
}

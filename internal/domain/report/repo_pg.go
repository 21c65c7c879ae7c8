package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmatthewarnold/buendia/internal/domain/chart"
	"github.com/jmatthewarnold/buendia/internal/domain/obs"
	"github.com/jmatthewarnold/buendia/internal/domain/treatment"
)

// DefaultOrderExecutedConcept is the dictionary name of the concept
// whose observations record that a treatment order was carried out.
const DefaultOrderExecutedConcept = "Order executed"

type repoPG struct {
	pool *pgxpool.Pool
	// orderExecuted is the dictionary name used to select
	// administration events.
	orderExecuted string
}

func NewRepo(pool *pgxpool.Pool, orderExecutedConcept string) Repository {
	if orderExecutedConcept == "" {
		orderExecutedConcept = DefaultOrderExecutedConcept
	}
	return &repoPG{pool: pool, orderExecuted: orderExecutedConcept}
}

func (r *repoPG) ListPatients(ctx context.Context) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, clinic_id, given_name, family_name
		FROM patient`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.ClinicID, &p.GivenName, &p.FamilyName); err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

const obsQuery = `
	SELECT o.id, o.observed_at, o.order_id,
		c.id, c.name,
		o.value_kind, o.value_coded, vc.name,
		o.value_numeric, o.value_boolean, o.value_text,
		o.value_date, o.value_datetime
	FROM observation o
	JOIN concept c ON c.id = o.concept_id
	LEFT JOIN concept vc ON vc.id = o.value_coded
	WHERE o.patient_id = $1`

func (r *repoPG) ListObservations(ctx context.Context, patientID uuid.UUID) ([]obs.Observation, error) {
	rows, err := r.pool.Query(ctx, obsQuery+` ORDER BY o.observed_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanObservations(rows)
}

func (r *repoPG) ListAdministrations(ctx context.Context, patientID uuid.UUID) ([]obs.Observation, error) {
	rows, err := r.pool.Query(ctx,
		obsQuery+` AND c.name = $2 ORDER BY o.observed_at DESC`,
		patientID, r.orderExecuted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanObservations(rows)
}

func scanObservations(rows pgx.Rows) ([]obs.Observation, error) {
	var observations []obs.Observation
	for rows.Next() {
		var (
			o         obs.Observation
			kind      string
			codedID   *uuid.UUID
			codedName *string
			numeric   *float64
			boolean   *bool
			text      *string
			date      *time.Time
			datetime  *time.Time
		)
		err := rows.Scan(&o.ID, &o.Time, &o.OrderID,
			&o.Concept.ID, &o.Concept.Name,
			&kind, &codedID, &codedName,
			&numeric, &boolean, &text, &date, &datetime)
		if err != nil {
			return nil, err
		}
		o.Value, err = buildValue(kind, codedID, codedName, numeric, boolean, text, date, datetime)
		if err != nil {
			return nil, fmt.Errorf("observation %s: %w", o.ID, err)
		}
		observations = append(observations, o)
	}
	return observations, rows.Err()
}

func buildValue(kind string, codedID *uuid.UUID, codedName *string,
	numeric *float64, boolean *bool, text *string, date, datetime *time.Time) (obs.Value, error) {
	switch kind {
	case "coded":
		if codedID == nil {
			return nil, fmt.Errorf("coded value without concept")
		}
		c := obs.Concept{ID: *codedID}
		if codedName != nil {
			c.Name = *codedName
		}
		return obs.Coded{Concept: c}, nil
	case "numeric":
		if numeric == nil {
			return nil, fmt.Errorf("numeric value missing")
		}
		return obs.Numeric(*numeric), nil
	case "boolean":
		if boolean == nil {
			return nil, fmt.Errorf("boolean value missing")
		}
		return obs.Boolean(*boolean), nil
	case "text":
		if text == nil {
			return nil, fmt.Errorf("text value missing")
		}
		return obs.Text(*text), nil
	case "date":
		if date == nil {
			return nil, fmt.Errorf("date value missing")
		}
		return obs.Date(*date), nil
	case "datetime":
		if datetime == nil {
			return nil, fmt.Errorf("datetime value missing")
		}
		return obs.DateTime(*datetime), nil
	}
	return nil, fmt.Errorf("unknown value kind %q", kind)
}

func (r *repoPG) ListOrders(ctx context.Context, patientID uuid.UUID) ([]treatment.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, chain_id, revision, instructions, scheduled_start, auto_expire
		FROM treatment_order
		WHERE patient_id = $1`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []treatment.Order
	for rows.Next() {
		var o treatment.Order
		if err := rows.Scan(&o.ID, &o.ChainID, &o.Revision, &o.Instructions, &o.Scheduled, &o.AutoExpire); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *repoPG) ChartDefinitions(ctx context.Context) ([]chart.Definition, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ch.name, c.id, c.name
		FROM chart ch
		JOIN chart_question q ON q.chart_id = ch.id
		JOIN concept c ON c.id = q.concept_id
		ORDER BY ch.position, q.position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []chart.Definition
	seen := make(map[string]map[uuid.UUID]bool)
	for rows.Next() {
		var chartName string
		var c obs.Concept
		if err := rows.Scan(&chartName, &c.ID, &c.Name); err != nil {
			return nil, err
		}
		if len(defs) == 0 || defs[len(defs)-1].Name != chartName {
			defs = append(defs, chart.Definition{Name: chartName})
			seen[chartName] = make(map[uuid.UUID]bool)
		}
		// A question can be referenced from several form sections;
		// it gets one chart row.
		if seen[chartName][c.ID] {
			continue
		}
		seen[chartName][c.ID] = true
		cur := &defs[len(defs)-1]
		cur.Questions = append(cur.Questions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, ErrNoChartSchema
	}
	return defs, nil
}

func (r *repoPG) ConceptNames(ctx context.Context) (obs.NameMap, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, client_name
		FROM concept
		WHERE client_name IS NOT NULL AND client_name <> ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(obs.NameMap)
	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id.String()] = name
	}
	return names, rows.Err()
}

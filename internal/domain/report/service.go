package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jmatthewarnold/buendia/internal/domain/chart"
	"github.com/jmatthewarnold/buendia/internal/domain/obs"
	"github.com/jmatthewarnold/buendia/internal/domain/treatment"
	"github.com/jmatthewarnold/buendia/pkg/alnum"
)

// Report is one complete chart set, generated synchronously per
// request. Nothing in it is cached or shared between requests.
type Report struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Patients    []PatientSection `json:"patients"`
}

// PatientSection holds one patient's charts and treatment timeline in
// emission order: charts in schema order, weeks chronological, then
// the timeline.
type PatientSection struct {
	Patient      Patient          `json:"patient"`
	NoEncounters bool             `json:"no_encounters,omitempty"`
	Charts       []ChartSection   `json:"charts,omitempty"`
	NoTreatments bool             `json:"no_treatments,omitempty"`
	Timeline     *TimelineSection `json:"timeline,omitempty"`
}

type ChartSection struct {
	Name  string            `json:"name"`
	Weeks []chart.WeekTable `json:"weeks"`
}

type TimelineSection struct {
	treatment.Timeline
	Weeks []treatment.WeekTable `json:"weeks"`
}

type Service struct {
	repo   Repository
	loc    *time.Location
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, loc *time.Location, logger zerolog.Logger) *Service {
	return &Service{repo: repo, loc: loc, logger: logger, now: time.Now}
}

// Generate builds the full report: all patients, sorted by clinic
// identifier (nil identifiers first), each with their chart tables and
// treatment timeline.
func (s *Service) Generate(ctx context.Context) (*Report, error) {
	start := s.now()

	defs, err := s.repo.ChartDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chart schema: %w", err)
	}
	names, err := s.repo.ConceptNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("load concept names: %w", err)
	}
	formatter := obs.NewFormatter(names)

	patients, err := s.repo.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	sort.SliceStable(patients, func(i, j int) bool {
		return alnum.ComparePtr(patients[i].ClinicID, patients[j].ClinicID) < 0
	})

	rpt := &Report{GeneratedAt: start}
	for _, p := range patients {
		section, err := s.patientSection(ctx, p, defs, formatter)
		if err != nil {
			return nil, fmt.Errorf("patient %s: %w", p.ID, err)
		}
		rpt.Patients = append(rpt.Patients, *section)
	}

	s.logger.Info().
		Int("patients", len(rpt.Patients)).
		Int("charts", len(defs)).
		Dur("elapsed", s.now().Sub(start)).
		Msg("report generated")
	return rpt, nil
}

func (s *Service) patientSection(ctx context.Context, p Patient, defs []chart.Definition, formatter obs.Formatter) (*PatientSection, error) {
	section := &PatientSection{Patient: p}

	observations, err := s.repo.ListObservations(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list observations: %w", err)
	}
	// Checked before bucketizing: the bucketizer requires a non-empty
	// input, and a patient with no encounters gets no treatment
	// section either.
	if len(observations) == 0 {
		section.NoEncounters = true
		s.logger.Debug().Str("patient", p.ID.String()).Msg("no encounters")
		return section, nil
	}

	// Observations arrive newest first.
	latest := observations[0].Time
	earliestDay := obs.Day(observations[len(observations)-1].Time, s.loc)
	buckets := chart.Bucketize(observations, earliestDay)

	for _, def := range defs {
		section.Charts = append(section.Charts, ChartSection{
			Name:  def.Name,
			Weeks: chart.BuildTables(def, buckets, earliestDay, latest, formatter, s.loc),
		})
	}

	orders, err := s.repo.ListOrders(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(orders) == 0 {
		section.NoTreatments = true
		return section, nil
	}

	executions, err := s.repo.ListAdministrations(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list administrations: %w", err)
	}
	tl := treatment.Reconcile(orders, executions, s.now(), s.loc)
	section.Timeline = &TimelineSection{Timeline: tl, Weeks: tl.WeekTables(s.loc)}

	s.logger.Debug().
		Str("patient", p.ID.String()).
		Int("observations", len(observations)).
		Int("orders", len(orders)).
		Msg("patient section built")
	return section, nil
}

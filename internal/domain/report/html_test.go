package report

import (
	"strings"
	"testing"
	"time"

	"github.com/jmatthewarnold/buendia/internal/domain/chart"
	"github.com/jmatthewarnold/buendia/internal/domain/treatment"
)

func renderHTML(t *testing.T, rpt *Report) string {
	t.Helper()
	var sb strings.Builder
	if err := WriteHTML(&sb, rpt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sb.String()
}

func TestWriteHTML_NoEncountersMarker(t *testing.T) {
	rpt := &Report{Patients: []PatientSection{{
		Patient:      Patient{ClinicID: strPtr("XYZ-1"), GivenName: "Ada", FamilyName: "Okafor"},
		NoEncounters: true,
	}}}
	out := renderHTML(t, rpt)

	if !strings.Contains(out, "<h2>XYZ-1. Ada Okafor</h2>") {
		t.Error("expected patient heading with clinic identifier")
	}
	if !strings.Contains(out, "<b>No encounters for this patient</b>") {
		t.Error("expected no-encounters marker")
	}
	if strings.Contains(out, "<h3>Treatment</h3>") {
		t.Error("expected no treatment heading for patient without encounters")
	}
}

func TestWriteHTML_NoTreatmentsMarker(t *testing.T) {
	rpt := &Report{Patients: []PatientSection{{
		Patient:      Patient{GivenName: "Ada"},
		NoTreatments: true,
	}}}
	out := renderHTML(t, rpt)

	if !strings.Contains(out, "<h3>Treatment</h3>") {
		t.Error("expected treatment heading")
	}
	if !strings.Contains(out, "<h3>This patient has no treatments.</h3>") {
		t.Error("expected no-treatments marker")
	}
}

func TestWriteHTML_EscapesUserText(t *testing.T) {
	rpt := &Report{Patients: []PatientSection{{
		Patient:      Patient{GivenName: "<script>alert(1)</script>"},
		NoEncounters: true,
	}}}
	out := renderHTML(t, rpt)

	if strings.Contains(out, "<script>") {
		t.Error("expected patient name to be escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("expected escaped entity in output")
	}
}

func TestWriteHTML_ChartGrid(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var days [7]time.Time
	for i := range days {
		days[i] = day1.AddDate(0, 0, i)
	}
	rows := []chart.Row{{Label: "Temperature", Cells: [7]string{"38.2", "", "", "", "", "", ""}}}
	rpt := &Report{Patients: []PatientSection{{
		Patient: Patient{GivenName: "Ada"},
		Charts: []ChartSection{{
			Name:  "Vitals",
			Weeks: []chart.WeekTable{{WeekStart: day1, Days: days, Rows: rows}},
		}},
		NoTreatments: true,
	}}}
	out := renderHTML(t, rpt)

	if !strings.Contains(out, "<h3>Vitals</h3>") {
		t.Error("expected chart heading")
	}
	if !strings.Contains(out, "<th width=\"10%\">1 Mar</th>") {
		t.Error("expected day-of-month column header")
	}
	if !strings.Contains(out, "<td>38.2</td>") {
		t.Error("expected populated cell")
	}
	if !strings.Contains(out, "<td>&nbsp;</td>") {
		t.Error("expected non-breaking space for empty cells")
	}
}

func TestWriteHTML_TimelineGrid(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var days [7]time.Time
	for i := range days {
		days[i] = day1.AddDate(0, 0, i)
	}
	rpt := &Report{Patients: []PatientSection{{
		Patient: Patient{GivenName: "Ada"},
		Timeline: &TimelineSection{
			Weeks: []treatment.WeekTable{{
				WeekStart: day1,
				Days:      days,
				Rows: []treatment.WeekRow{{
					Label: "Paracetamol (1 Mar - 3 Mar)",
					Cells: [7]string{"", "2", "", "", "", "", ""},
				}},
			}},
		},
	}}}
	out := renderHTML(t, rpt)

	if !strings.Contains(out, "<td>Paracetamol (1 Mar - 3 Mar)</td>") {
		t.Error("expected treatment row label")
	}
	if !strings.Contains(out, "<td>2</td>") {
		t.Error("expected execution count cell")
	}
}

func TestWriteHTML_PrintCSS(t *testing.T) {
	out := renderHTML(t, &Report{})
	if !strings.Contains(out, "page-break-inside: avoid") {
		t.Error("expected print CSS in header")
	}
	if !strings.Contains(out, "</html>") {
		t.Error("expected closing html tag")
	}
}

package report

import (
	"fmt"
	"html"
	"io"
	"time"

	"github.com/jmatthewarnold/buendia/internal/domain/obs"
)

// WriteHTML renders the report as a self-contained printable page. The
// markup and print CSS keep each table and heading on one printed page
// where possible.
func WriteHTML(w io.Writer, rpt *Report) error {
	hw := &htmlWriter{w: w}
	hw.writeHeader()
	for _, section := range rpt.Patients {
		hw.writePatient(section)
	}
	hw.writeFooter()
	return hw.err
}

// htmlWriter accumulates the first write error so rendering code can
// stay free of per-line error checks.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) printf(format string, args ...interface{}) {
	if hw.err != nil {
		return
	}
	_, hw.err = fmt.Fprintf(hw.w, format, args...)
}

func (hw *htmlWriter) writeHeader() {
	hw.printf(`<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>Patient Charts</title>
  <style type="text/css">
    table { margin-bottom: 22pt; }
    table, tr, thead, tbody { page-break-inside: avoid; }
    h3 { page-break-after: avoid; }
    h2 { page-break-before: always; }
    h2:first-child { page-break-before: auto; }
    td { page-break-inside: avoid; }
    thead { background-color: #D5D5D5; }
    body { font-size: 10pt; }
  </style>
</head>
<body>`)
}

func (hw *htmlWriter) writeFooter() {
	hw.printf("</body>\n</html>\n")
}

func (hw *htmlWriter) writePatient(section PatientSection) {
	clinicID := ""
	if section.Patient.ClinicID != nil {
		clinicID = *section.Patient.ClinicID
	}
	hw.printf("<h2>%s. %s %s</h2><hr/>\n",
		html.EscapeString(clinicID),
		html.EscapeString(section.Patient.GivenName),
		html.EscapeString(section.Patient.FamilyName))

	if section.NoEncounters {
		hw.printf("<b>No encounters for this patient</b>\n")
		return
	}

	for _, cs := range section.Charts {
		hw.printf("<h3>%s</h3>\n", html.EscapeString(cs.Name))
		for _, week := range cs.Weeks {
			rows := make([]gridRow, len(week.Rows))
			for i, r := range week.Rows {
				rows[i] = gridRow{label: r.Label, cells: r.Cells}
			}
			hw.writeGrid(week.Days, rows)
		}
	}

	hw.printf("<h3>Treatment</h3>\n")
	if section.NoTreatments {
		hw.printf("<h3>This patient has no treatments.</h3>\n")
		return
	}
	for _, week := range section.Timeline.Weeks {
		rows := make([]gridRow, len(week.Rows))
		for i, r := range week.Rows {
			rows[i] = gridRow{label: r.Label, cells: r.Cells}
		}
		hw.writeGrid(week.Days, rows)
	}
}

type gridRow struct {
	label string
	cells [7]string
}

func (hw *htmlWriter) writeGrid(days [7]time.Time, rows []gridRow) {
	hw.printf("<table cellpadding=\"2\" cellspacing=\"0\" border=\"1\" width=\"100%%\">\n<thead>\n<th width=\"20%%\">&nbsp;</th>\n")
	for _, d := range days {
		hw.printf("<th width=\"10%%\">%s</th>", d.Format(obs.HeaderDateLayout))
	}
	hw.printf("\n</thead>\n<tbody>\n")
	for _, row := range rows {
		hw.printf("<tr><td>%s</td>", html.EscapeString(row.label))
		for _, cell := range row.cells {
			if cell == "" {
				hw.printf("<td>&nbsp;</td>")
			} else {
				hw.printf("<td>%s</td>", html.EscapeString(cell))
			}
		}
		hw.printf("</tr>\n")
	}
	hw.printf("</tbody>\n</table>\n")
}

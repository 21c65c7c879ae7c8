package obs

import (
	"strconv"
	"time"
)

const (
	// DateLayout renders date values, always in UTC.
	DateLayout = "2006-01-02"
	// DateTimeLayout renders timestamp values in a spreadsheet-friendly
	// form, always in UTC.
	DateTimeLayout = "2006-01-02 15:04:05"
	// HeaderDateLayout renders the short day labels in table headers
	// and order date-range annotations, e.g. "2 Jan".
	HeaderDateLayout = "2 Jan"
)

// Namer resolves the display name for a concept. The profile loaded on
// the server may carry client-facing names that differ from the
// dictionary names, so display always goes through this strategy.
type Namer interface {
	Name(c Concept) string
}

// NameMap is a Namer backed by a concept-id lookup, falling back to the
// concept's own name when no entry exists.
type NameMap map[string]string

func (m NameMap) Name(c Concept) string {
	if n, ok := m[c.ID.String()]; ok && n != "" {
		return n
	}
	return c.Name
}

// Formatter converts observation values to display strings. It is a
// pure mapping: the same value always formats to the same string.
type Formatter struct {
	Namer          Namer
	DateLayout     string
	DateTimeLayout string
}

// NewFormatter returns a Formatter using the fixed report layouts.
func NewFormatter(namer Namer) Formatter {
	return Formatter{
		Namer:          namer,
		DateLayout:     DateLayout,
		DateTimeLayout: DateTimeLayout,
	}
}

// Format renders a value for display. Coded answers go through the
// Namer, never the raw id. Unknown value kinds render as "".
func (f Formatter) Format(v Value) string {
	switch val := v.(type) {
	case Coded:
		return f.Namer.Name(val.Concept)
	case Numeric:
		return strconv.FormatFloat(float64(val), 'f', -1, 64)
	case Boolean:
		return strconv.FormatBool(bool(val))
	case Text:
		return string(val)
	case Date:
		return time.Time(val).UTC().Format(f.DateLayout)
	case DateTime:
		return time.Time(val).UTC().Format(f.DateTimeLayout)
	}
	return ""
}

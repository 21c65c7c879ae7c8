package obs

import "time"

// Value is the closed set of observation value kinds. The formatter
// switches exhaustively over these types; adding a kind without
// extending the formatter leaves the new kind rendering as "".
type Value interface {
	isValue()
}

// Coded is an answer drawn from the concept dictionary.
type Coded struct {
	Concept Concept `json:"concept"`
}

// Numeric is a decimal measurement.
type Numeric float64

// Boolean is a yes/no answer.
type Boolean bool

// Text is a free-text note.
type Text string

// Date is a calendar date with no time component.
type Date time.Time

// DateTime is a timestamped value.
type DateTime time.Time

// MarshalJSON keeps Date rendering as an RFC 3339 timestamp; defined
// types do not inherit time.Time's marshaller.
func (d Date) MarshalJSON() ([]byte, error) { return time.Time(d).MarshalJSON() }

func (d DateTime) MarshalJSON() ([]byte, error) { return time.Time(d).MarshalJSON() }

func (Coded) isValue()    {}
func (Numeric) isValue()  {}
func (Boolean) isValue()  {}
func (Text) isValue()     {}
func (Date) isValue()     {}
func (DateTime) isValue() {}

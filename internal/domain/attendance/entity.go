package attendance

import (
	"strings"
	"time"
)

// Action is the classified direction of a punch.
type Action string

const (
	ActionIn  Action = "IN"
	ActionOut Action = "OUT"
)

// ParseAction accepts the stored lower-case form as well.
func ParseAction(s string) (Action, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IN":
		return ActionIn, true
	case "OUT":
		return ActionOut, true
	}
	return "", false
}

// Lower is the wire/storage form ("in" / "out").
func (a Action) Lower() string {
	return strings.ToLower(string(a))
}

const (
	TimestampLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"
)

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Record is one ledger row. A completed pair lives on a single row: InTime and
// OutTime set and Action OUT. A standalone OUT has OutTime only and
// NoMatchingIn set.
type Record struct {
	ID           string
	EmployeeID   int64
	Timestamp    time.Time
	Action       Action
	InTime       *time.Time
	OutTime      *time.Time
	Latitude     *float64
	Longitude    *float64
	Attachments  []string
	Subject      *string
	NoMatchingIn bool
	ShiftHours   *float64

	// DTO
	EmployeeName   *string
	EmployeeMobile *string
}

// IsOpenIn reports an IN still waiting for its OUT.
func (r Record) IsOpenIn() bool {
	return r.Action == ActionIn && r.OutTime == nil
}

// HasIn reports whether the row carries an IN event.
func (r Record) HasIn() bool {
	return r.Action == ActionIn || r.InTime != nil
}

// RawRecord is a ledger row as stored, before any time parsing. Payroll works
// on this form so one malformed row degrades a single day instead of failing.
type RawRecord struct {
	Date      string
	Action    string
	Timestamp string
	InTime    *string
	OutTime   *string
}

// DayState is derived from a day's rows on every punch, never stored.
type DayState int

const (
	NoPunchYet DayState = iota
	OpenIn
	Closed
)

func (s DayState) String() string {
	switch s {
	case OpenIn:
		return "open_in"
	case Closed:
		return "closed"
	default:
		return "no_punch_yet"
	}
}

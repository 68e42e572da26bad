package attendance

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

// Decision is the outcome of classifying one punch against a day's rows.
type Decision struct {
	Action attendance.Action
	// Complete is the open IN row this punch closes, when any.
	Complete *attendance.Record
	// NoMatchingIn marks a declared OUT recorded without an open IN.
	NoMatchingIn bool
}

// DayState derives the employee's state from the day's rows. The returned
// record is the open IN, when there is one.
func DayState(rows []attendance.Record) (attendance.DayState, *attendance.Record) {
	var open *attendance.Record
	for i := range rows {
		if rows[i].IsOpenIn() {
			// latest open row wins should the ledger ever hold two
			open = &rows[i]
		}
	}
	switch {
	case open != nil:
		return attendance.OpenIn, open
	case len(rows) > 0:
		return attendance.Closed, nil
	default:
		return attendance.NoPunchYet, nil
	}
}

// Classify picks the action for a punch. The client's own suggestion is never
// consulted; declaredOut only matters when there is no open IN to complete.
func Classify(rows []attendance.Record, declaredOut bool) Decision {
	state, open := DayState(rows)

	if state == attendance.OpenIn {
		return Decision{Action: attendance.ActionOut, Complete: open}
	}
	if declaredOut {
		return Decision{Action: attendance.ActionOut, NoMatchingIn: true}
	}
	return Decision{Action: attendance.ActionIn}
}

// mergeAttachments appends to the stored references, skipping blanks.
func mergeAttachments(existing, added []string) []string {
	out := make([]string, 0, len(existing)+len(added))
	for _, a := range existing {
		if a != "" {
			out = append(out, a)
		}
	}
	for _, a := range added {
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

package payroll

import "github.com/shopspring/decimal"

type Status string

const (
	StatusPresent Status = "Present"
	StatusHalfDay Status = "Half-Day"
	StatusAbsent  Status = "Absent"
	StatusWeekOff Status = "Week Off"
)

// Display placeholders for days missing one side of the pair.
const (
	DisplayNoIn   = "No In"
	DisplayNoOut  = "No Out"
	SuffixInOnly  = " (In Only)"
	SuffixOutOnly = " (Out Only)"
)

// DayRecord is derived per calendar day and never stored.
type DayRecord struct {
	Date          string
	Weekday       string
	In            string
	Out           string
	Status        Status
	// WorkedHours is the exact clock difference, or the half shift credited
	// to a late or unpaired day. It is not rounded.
	WorkedHours   float64
	BaseHours     float64
	OvertimeHours float64
	OvertimePay   decimal.Decimal
	Pay           decimal.Decimal

	// Degraded marks a day computed from unparseable ledger data.
	Degraded bool
}

type Report struct {
	EmployeeID       int64
	EmployeeName     string
	StartDate        string
	EndDate          string
	HourlyRate       decimal.Decimal
	Records          []DayRecord
	TotalPay         decimal.Decimal
	TotalOvertimePay decimal.Decimal
}

// Summary counts the days per status.
func (r Report) Summary() map[Status]int {
	out := map[Status]int{
		StatusPresent: 0,
		StatusHalfDay: 0,
		StatusAbsent:  0,
		StatusWeekOff: 0,
	}
	for _, rec := range r.Records {
		out[rec.Status]++
	}
	return out
}

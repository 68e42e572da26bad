package payroll

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
	"github.com/shopspring/decimal"
)

const (
	clockLayout = "15:04"

	// presentRatio of the shift counts as a full day.
	presentRatio = 0.75
	lateGrace    = time.Hour
	emptyDisplay = "-"
)

// punchEvent is one IN or OUT taken from a ledger row. A completed row yields
// two events.
type punchEvent struct {
	action attendance.Action
	raw    string
}

func expand(rows []attendance.RawRecord) []punchEvent {
	var events []punchEvent
	for _, r := range rows {
		if r.InTime == nil && r.OutTime == nil {
			if action, ok := attendance.ParseAction(r.Action); ok {
				events = append(events, punchEvent{action: action, raw: r.Timestamp})
			}
			continue
		}
		if r.InTime != nil {
			events = append(events, punchEvent{action: attendance.ActionIn, raw: *r.InTime})
		}
		if r.OutTime != nil {
			events = append(events, punchEvent{action: attendance.ActionOut, raw: *r.OutTime})
		}
	}
	return events
}

// clockOf extracts HH:MM from "YYYY-MM-DD HH:MM:SS". Malformed input is
// returned as is and fails parsing later.
func clockOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.LastIndexAny(raw, " T"); i >= 0 {
		raw = raw[i+1:]
	}
	if len(raw) > 5 {
		raw = raw[:5]
	}
	return raw
}

func dateOf(r attendance.RawRecord) string {
	if r.Date != "" {
		return r.Date
	}
	if len(r.Timestamp) >= 10 {
		return r.Timestamp[:10]
	}
	return r.Timestamp
}

// GroupByDate buckets raw ledger rows by calendar day.
func GroupByDate(rows []attendance.RawRecord) map[string][]attendance.RawRecord {
	out := make(map[string][]attendance.RawRecord)
	for _, r := range rows {
		d := dateOf(r)
		out[d] = append(out[d], r)
	}
	return out
}

// Compute derives one record per calendar day in [start, end]. It never fails;
// days whose data cannot be parsed come back degraded.
func Compute(ctx context.Context, emp employee.Employee, rows []attendance.RawRecord, start, end time.Time) payroll.Report {
	byDate := GroupByDate(rows)

	report := payroll.Report{
		EmployeeID:       emp.ID,
		EmployeeName:     emp.Name,
		StartDate:        start.Format(attendance.DateLayout),
		EndDate:          end.Format(attendance.DateLayout),
		HourlyRate:       emp.HourlyRate,
		TotalPay:         decimal.Zero,
		TotalOvertimePay: decimal.Zero,
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(attendance.DateLayout)
		rec := ComputeDay(ctx, emp, d, byDate[date])
		report.Records = append(report.Records, rec)
		report.TotalPay = report.TotalPay.Add(rec.Pay)
		report.TotalOvertimePay = report.TotalOvertimePay.Add(rec.OvertimePay)
	}

	report.TotalPay = report.TotalPay.Round(2)
	report.TotalOvertimePay = report.TotalOvertimePay.Round(2)
	return report
}

// ComputeDay derives a single day's record from that day's rows.
func ComputeDay(ctx context.Context, emp employee.Employee, day time.Time, rows []attendance.RawRecord) payroll.DayRecord {
	shift := emp.EffectiveShiftHours()
	rate := emp.HourlyRate

	rec := payroll.DayRecord{
		Date:        day.Format(attendance.DateLayout),
		Weekday:     day.Weekday().String(),
		In:          emptyDisplay,
		Out:         emptyDisplay,
		Status:      payroll.StatusAbsent,
		OvertimePay: decimal.Zero,
		Pay:         decimal.Zero,
	}

	if emp.IsWeekOff(day.Weekday()) {
		rec.Status = payroll.StatusWeekOff
		rec.BaseHours = shift
		rec.Pay = rate.Mul(decimal.NewFromFloat(shift)).Round(2)
		return rec
	}

	if len(rows) == 0 {
		return rec
	}

	events := expand(rows)

	var firstIn, lastOut string
	var inAt, outAt time.Time
	var hasIn, hasOut, parseFailed bool
	for _, ev := range events {
		clock := clockOf(ev.raw)
		t, err := time.Parse(clockLayout, clock)
		if err != nil {
			parseFailed = true
			slog.WarnContext(ctx, "payroll: unparseable punch time",
				"employee_id", emp.ID, "date", rec.Date, "value", ev.raw, "error", err)
		}

		switch ev.action {
		case attendance.ActionIn:
			if !hasIn || (err == nil && t.Before(inAt)) {
				firstIn, inAt, hasIn = clock, t, true
			}
		case attendance.ActionOut:
			if !hasOut || (err == nil && t.After(outAt)) {
				lastOut, outAt, hasOut = clock, t, true
			}
		}
	}

	switch {
	case hasIn && hasOut:
		rec.In, rec.Out = firstIn, lastOut
	case hasIn:
		rec.In, rec.Out = firstIn+payroll.SuffixInOnly, payroll.DisplayNoOut
	case hasOut:
		rec.In, rec.Out = payroll.DisplayNoIn, lastOut+payroll.SuffixOutOnly
	default:
		rec.In, rec.Out = payroll.DisplayNoIn, payroll.DisplayNoOut
	}

	scheduled, err := time.Parse(clockLayout, emp.EffectiveScheduledIn())
	if err != nil {
		parseFailed = true
		slog.WarnContext(ctx, "payroll: unparseable scheduled in time",
			"employee_id", emp.ID, "date", rec.Date, "value", emp.EffectiveScheduledIn(), "error", err)
	}

	if parseFailed {
		rec.Status = payroll.StatusHalfDay
		rec.BaseHours = utils.Round(shift/2, 2)
		rec.Pay = rate.Mul(decimal.NewFromFloat(shift / 2)).Round(2)
		rec.Degraded = true
		return rec
	}

	var worked float64
	switch {
	case hasIn && hasOut:
		worked = max(0, outAt.Sub(inAt).Hours())
	case hasIn, hasOut:
		worked = shift / 2
	}

	actualIn := scheduled
	if hasIn {
		actualIn = inAt
	}

	switch {
	case worked == 0:
		rec.Status = payroll.StatusAbsent
	case worked >= shift*presentRatio:
		rec.Status = payroll.StatusPresent
	case actualIn.After(scheduled.Add(lateGrace)):
		rec.Status = payroll.StatusHalfDay
		worked = shift / 2
	default:
		// early half day keeps the hours actually worked
		rec.Status = payroll.StatusHalfDay
	}

	base := min(worked, shift)
	otPay := decimal.Zero
	if emp.OvertimeEnabled && worked > shift {
		rec.OvertimeHours = utils.Round(worked-shift, 2)
		otPay = decimal.NewFromFloat(rec.OvertimeHours).Mul(rate).Mul(emp.EffectiveOvertimeMultiplier())
		base = shift
	}

	rec.WorkedHours = worked
	rec.BaseHours = utils.Round(base, 2)
	rec.OvertimePay = otPay.Round(2)
	rec.Pay = decimal.NewFromFloat(base).Mul(rate).Add(otPay).Round(2)
	return rec
}

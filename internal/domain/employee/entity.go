package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultShiftHours         = 8.0
	DefaultScheduledIn        = "09:00"
	DefaultGeofenceRadius     = 200.0
	DefaultOvertimeMultiplier = 1.5
)

// Geofence gates punches to an office location for office staff.
type Geofence struct {
	OfficeStaff  bool
	Latitude     *float64
	Longitude    *float64
	RadiusMeters *float64
}

// Employee belongs to exactly one tenant store. Mobile is the login identity.
type Employee struct {
	ID                 int64
	Name               string
	Mobile             string
	Email              *string
	PasswordHash       *string
	HourlyRate         decimal.Decimal
	ShiftHours         *float64
	ScheduledIn        *string // HH:MM
	WeekOffDays        []string
	OvertimeEnabled    bool
	OvertimeMultiplier *decimal.Decimal
	Geofence           Geofence
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// EffectiveShiftHours falls back to the 8 hour default when unset or non-positive.
func (e Employee) EffectiveShiftHours() float64 {
	if e.ShiftHours == nil || *e.ShiftHours <= 0 {
		return DefaultShiftHours
	}
	return *e.ShiftHours
}

func (e Employee) EffectiveScheduledIn() string {
	if e.ScheduledIn == nil || strings.TrimSpace(*e.ScheduledIn) == "" {
		return DefaultScheduledIn
	}
	return strings.TrimSpace(*e.ScheduledIn)
}

func (e Employee) EffectiveOvertimeMultiplier() decimal.Decimal {
	if e.OvertimeMultiplier == nil || !e.OvertimeMultiplier.IsPositive() {
		return decimal.NewFromFloat(DefaultOvertimeMultiplier)
	}
	return *e.OvertimeMultiplier
}

// IsWeekOff reports whether weekday (e.g. "Sunday") is one of the employee's week offs.
func (e Employee) IsWeekOff(weekday time.Weekday) bool {
	name := weekday.String()
	for _, d := range e.WeekOffDays {
		if strings.EqualFold(strings.TrimSpace(d), name) {
			return true
		}
	}
	return false
}

// SplitWeekOffs parses the comma separated storage form.
func SplitWeekOffs(raw string) []string {
	var days []string
	for _, d := range strings.Split(raw, ",") {
		if d = strings.TrimSpace(d); d != "" {
			days = append(days, d)
		}
	}
	return days
}

func JoinWeekOffs(days []string) string {
	return strings.Join(days, ",")
}

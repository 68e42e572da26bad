package employee

import (
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type GeofenceRequest struct {
	OfficeStaff  *bool    `json:"office_staff,omitempty"`
	Latitude     *float64 `json:"office_latitude,omitempty"`
	Longitude    *float64 `json:"office_longitude,omitempty"`
	RadiusMeters *float64 `json:"office_radius_m,omitempty"`
}

func (g *GeofenceRequest) validate(errs validator.ValidationErrors) validator.ValidationErrors {
	if g == nil {
		return errs
	}
	if g.Latitude != nil && !validator.IsValidLatitude(*g.Latitude) {
		errs = append(errs, validator.ValidationError{Field: "office_latitude", Message: "office_latitude must be between -90 and 90"})
	}
	if g.Longitude != nil && !validator.IsValidLongitude(*g.Longitude) {
		errs = append(errs, validator.ValidationError{Field: "office_longitude", Message: "office_longitude must be between -180 and 180"})
	}
	if g.RadiusMeters != nil && *g.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{Field: "office_radius_m", Message: "office_radius_m must be positive"})
	}
	return errs
}

type CreateEmployeeRequest struct {
	Name               string           `json:"name"`
	Mobile             string           `json:"mobile"`
	Email              *string          `json:"email,omitempty"`
	Password           string           `json:"password"`
	HourlyRate         decimal.Decimal  `json:"hourly_rate"`
	ShiftHours         *float64         `json:"shift_hours,omitempty"`
	ScheduledIn        *string          `json:"in_time,omitempty"`
	WeekOffDays        []string         `json:"week_off_days,omitempty"`
	OvertimeEnabled    bool             `json:"ot_enabled"`
	OvertimeMultiplier *decimal.Decimal `json:"ot_multiplier,omitempty"`
	Geofence           *GeofenceRequest `json:"geofence,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if !validator.IsValidMobile(r.Mobile) {
		errs = append(errs, validator.ValidationError{Field: "mobile", Message: "mobile must be 10 to 15 digits"})
	}
	if r.Email != nil && *r.Email != "" && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is invalid"})
	}
	if len(r.Password) < 6 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 6 characters"})
	}
	errs = validatePayConfig(errs, &r.HourlyRate, r.ShiftHours, r.ScheduledIn, r.WeekOffDays, r.OvertimeMultiplier)
	errs = r.Geofence.validate(errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEmployeeRequest is a partial update; nil fields are left untouched.
type UpdateEmployeeRequest struct {
	ID                 int64            `json:"-"`
	Name               *string          `json:"name,omitempty"`
	Mobile             *string          `json:"mobile,omitempty"`
	Email              *string          `json:"email,omitempty"`
	Password           *string          `json:"password,omitempty"`
	HourlyRate         *decimal.Decimal `json:"hourly_rate,omitempty"`
	ShiftHours         *float64         `json:"shift_hours,omitempty"`
	ScheduledIn        *string          `json:"in_time,omitempty"`
	WeekOffDays        []string         `json:"week_off_days,omitempty"`
	OvertimeEnabled    *bool            `json:"ot_enabled,omitempty"`
	OvertimeMultiplier *decimal.Decimal `json:"ot_multiplier,omitempty"`
	Geofence           *GeofenceRequest `json:"geofence,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be empty"})
	}
	if r.Mobile != nil && !validator.IsValidMobile(*r.Mobile) {
		errs = append(errs, validator.ValidationError{Field: "mobile", Message: "mobile must be 10 to 15 digits"})
	}
	if r.Email != nil && *r.Email != "" && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is invalid"})
	}
	if r.Password != nil && len(*r.Password) < 6 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 6 characters"})
	}
	errs = validatePayConfig(errs, r.HourlyRate, r.ShiftHours, r.ScheduledIn, r.WeekOffDays, r.OvertimeMultiplier)
	errs = r.Geofence.validate(errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePayConfig(errs validator.ValidationErrors, rate *decimal.Decimal, shift *float64, in *string, weekOffs []string, mult *decimal.Decimal) validator.ValidationErrors {
	if rate != nil && rate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "hourly_rate must not be negative"})
	}
	if shift != nil && (*shift <= 0 || *shift > 24) {
		errs = append(errs, validator.ValidationError{Field: "shift_hours", Message: "shift_hours must be between 0 and 24"})
	}
	if in != nil && !validator.IsValidClock(strings.TrimSpace(*in)) {
		errs = append(errs, validator.ValidationError{Field: "in_time", Message: "in_time must be in HH:MM format"})
	}
	for _, d := range weekOffs {
		if !validator.IsValidWeekday(d) {
			errs = append(errs, validator.ValidationError{Field: "week_off_days", Message: "week_off_days must contain weekday names"})
			break
		}
	}
	if mult != nil && !mult.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "ot_multiplier", Message: "ot_multiplier must be positive"})
	}
	return errs
}

type EmployeeResponse struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Mobile             string   `json:"mobile"`
	Email              *string  `json:"email,omitempty"`
	HourlyRate         string   `json:"hourly_rate"`
	ShiftHours         float64  `json:"shift_hours"`
	ScheduledIn        string   `json:"in_time"`
	WeekOffDays        []string `json:"week_off_days"`
	OvertimeEnabled    bool     `json:"ot_enabled"`
	OvertimeMultiplier string   `json:"ot_multiplier"`
	OfficeStaff        bool     `json:"office_staff"`
	OfficeLatitude     *float64 `json:"office_latitude,omitempty"`
	OfficeLongitude    *float64 `json:"office_longitude,omitempty"`
	OfficeRadiusMeters *float64 `json:"office_radius_m,omitempty"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

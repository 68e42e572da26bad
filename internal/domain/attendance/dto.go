package attendance

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// DefaultRecordLimit caps unbounded history queries.
const DefaultRecordLimit = 200

type PunchRequest struct {
	EmployeeID int64       `json:"-"`
	Photos     []string    `json:"photos"`
	Location   *Coordinate `json:"location"`
	Subject    *string     `json:"subject,omitempty"`

	// DeclaredOut marks the explicit OUT entry path.
	DeclaredOut bool `json:"-"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}

	photos := 0
	for _, p := range r.Photos {
		if !validator.IsEmpty(p) {
			photos++
		}
	}
	if photos == 0 {
		errs = append(errs, validator.ValidationError{Field: "photos", Message: "no photo captured"})
	}

	if r.Location == nil {
		errs = append(errs, validator.ValidationError{Field: "location", Message: "location not captured"})
	} else {
		if !validator.IsValidLatitude(r.Location.Latitude) {
			errs = append(errs, validator.ValidationError{Field: "location.latitude", Message: "latitude must be between -90 and 90"})
		}
		if !validator.IsValidLongitude(r.Location.Longitude) {
			errs = append(errs, validator.ValidationError{Field: "location.longitude", Message: "longitude must be between -180 and 180"})
		}
	}

	if r.Subject != nil && len(*r.Subject) > 500 {
		errs = append(errs, validator.ValidationError{Field: "subject", Message: "subject must not exceed 500 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PunchResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	Action       string `json:"action,omitempty"`
	RecordID     string `json:"record_id,omitempty"`
	Timestamp    string `json:"timestamp,omitempty"`
	NoMatchingIn bool   `json:"no_matching_in,omitempty"`
}

type RecordFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Limit     int     `json:"limit"`
}

// Bounded reports whether either date of the range is set.
func (f RecordFilter) Bounded() bool {
	return (f.StartDate != nil && *f.StartDate != "") || (f.EndDate != nil && *f.EndDate != "")
}

func (f *RecordFilter) Validate() error {
	errs := validator.ValidateDateRange(f.StartDate, f.EndDate)

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if f.Limit > 1000 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 1000"})
	}
	if f.Limit == 0 && !f.Bounded() {
		f.Limit = DefaultRecordLimit
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID           string   `json:"id"`
	EmployeeID   int64    `json:"employee_id"`
	EmployeeName *string  `json:"employee_name,omitempty"`
	Mobile       *string  `json:"mobile,omitempty"`
	Action       string   `json:"action"`
	Timestamp    string   `json:"timestamp"`
	InTime       *string  `json:"in_time,omitempty"`
	OutTime      *string  `json:"out_time,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Location     string   `json:"location"`
	Subject      *string  `json:"subject,omitempty"`
	Attachments  []string `json:"attachments"`
	NoMatchingIn bool     `json:"no_matching_in,omitempty"`
}

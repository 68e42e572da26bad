package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsValidClock checks a 24h "HH:MM" wall clock value.
func IsValidClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// IsValidMobile accepts 10 to 15 digits with an optional leading '+'.
func IsValidMobile(mobile string) bool {
	mobile = strings.ReplaceAll(mobile, " ", "")
	mobile = strings.ReplaceAll(mobile, "-", "")
	mobile = strings.TrimPrefix(mobile, "+")
	return len(mobile) >= 10 && len(mobile) <= 15 && IsNumeric(mobile)
}

var companyCodeRegex = regexp.MustCompile(`^[A-Za-z0-9]{4,12}$`)

// IsValidCompanyCode checks the short alphanumeric tenant code.
func IsValidCompanyCode(code string) bool {
	return companyCodeRegex.MatchString(code)
}

var weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// IsValidWeekday reports whether s names a weekday (case-insensitive).
func IsValidWeekday(s string) bool {
	for _, d := range weekdays {
		if strings.EqualFold(d, strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// IsValidLatitude / IsValidLongitude check coordinate ranges in decimal degrees.
func IsValidLatitude(v float64) bool  { return v >= -90 && v <= 90 }
func IsValidLongitude(v float64) bool { return v >= -180 && v <= 180 }

// ValidateDateRange validates optional YYYY-MM-DD bounds and their order.
func ValidateDateRange(start, end *string) ValidationErrors {
	var errs ValidationErrors
	var s, e time.Time
	var sOK, eOK bool

	if start != nil && *start != "" {
		if s, sOK = IsValidDate(*start); !sOK {
			errs = append(errs, ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
		}
	}
	if end != nil && *end != "" {
		if e, eOK = IsValidDate(*end); !eOK {
			errs = append(errs, ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
		}
	}
	if sOK && eOK && e.Before(s) {
		errs = append(errs, ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
	}
	return errs
}

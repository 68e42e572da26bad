package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/geofence"
)

// ErrorInfo is the HTTP view of a domain error.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

// Classify maps domain errors to HTTP status, code and client message.
func Classify(err error) ErrorInfo {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		msg := "Validation failed"
		if len(validationErrs) > 0 {
			msg = validationErrs[0].Message
		}
		return ErrorInfo{http.StatusUnprocessableEntity, "VALIDATION_ERROR", msg, validationErrs.ToMap()}
	}

	switch {
	// Geofence, message verbatim
	case errors.Is(err, geofence.ErrOutOfRange),
		errors.Is(err, geofence.ErrLocationNotCaptured),
		errors.Is(err, geofence.ErrOfficeLocationNotConfigured):
		return ErrorInfo{Status: http.StatusBadRequest, Code: "GEOFENCE", Message: geofenceMessage(err)}

	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, employee.ErrInvalidPassword):
		return ErrorInfo{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: err.Error()}
	case errors.Is(err, auth.ErrInvalidToken):
		return ErrorInfo{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "Invalid or expired token"}
	case errors.Is(err, auth.ErrLoginDisabled):
		return ErrorInfo{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: "Login is not configured"}

	// Tenant
	case errors.Is(err, tenant.ErrTenantNotFound):
		return ErrorInfo{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: tenant.ErrTenantNotFound.Error()}
	case errors.Is(err, tenant.ErrTenantCodeExists):
		return ErrorInfo{Status: http.StatusConflict, Code: "CONFLICT", Message: "Company code already exists"}

	// Employee
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return ErrorInfo{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "Employee not found"}
	case errors.Is(err, employee.ErrMobileExists):
		return ErrorInfo{Status: http.StatusConflict, Code: "CONFLICT", Message: "Mobile number already registered"}

	// Attendance
	case errors.Is(err, attendance.ErrPersistence):
		return ErrorInfo{Status: http.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR", Message: attendance.ErrPersistence.Error()}
	}

	return ErrorInfo{Status: http.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR", Message: "An unexpected error occurred"}
}

func geofenceMessage(err error) string {
	for _, sentinel := range []error{geofence.ErrOutOfRange, geofence.ErrLocationNotCaptured, geofence.ErrOfficeLocationNotConfigured} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	info := Classify(err)
	if info.Status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}

	switch info.Status {
	case http.StatusUnprocessableEntity:
		ValidationError(w, info.Details)
	case http.StatusBadRequest:
		BadRequest(w, info.Message, info.Details)
	case http.StatusUnauthorized:
		Unauthorized(w, info.Message)
	case http.StatusForbidden:
		Forbidden(w, info.Message)
	case http.StatusNotFound:
		NotFound(w, info.Message)
	case http.StatusConflict:
		Conflict(w, info.Message)
	default:
		InternalServerError(w, info.Message)
	}
}

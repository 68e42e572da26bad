package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Punch(w http.ResponseWriter, r *http.Request)
	PunchOut(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	ListForEmployee(w http.ResponseWriter, r *http.Request)
	ListOpen(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// Punch implements AttendanceHandler.
func (h *attendanceHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, false)
}

// PunchOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) PunchOut(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, true)
}

func (h *attendanceHandlerImpl) punch(w http.ResponseWriter, r *http.Request, declaredOut bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.EmployeeID == nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req attendance.PunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Punch decode error", "error", err)
		punchFailed(w, validator.ValidationErrors{{Field: "body", Message: "Invalid request format"}})
		return
	}
	req.EmployeeID = *claims.EmployeeID
	req.DeclaredOut = declaredOut

	result, err := h.attendanceService.Punch(r.Context(), req)
	if err != nil {
		punchFailed(w, err)
		return
	}
	response.Created(w, result.Message, result)
}

// punchFailed keeps the {status, message} shape in data for the punch client.
func punchFailed(w http.ResponseWriter, err error) {
	info := response.Classify(err)
	if info.Status >= http.StatusInternalServerError {
		slog.Error("punch failed", "error", err)
	}
	response.Fail(w, info.Status, info.Code, info.Message, info.Details, attendance.PunchResponse{
		Status:  "error",
		Message: info.Message,
	})
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.EmployeeID == nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}
	h.list(w, r, *claims.EmployeeID)
}

// ListForEmployee implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListForEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}
	h.list(w, r, id)
}

func (h *attendanceHandlerImpl) list(w http.ResponseWriter, r *http.Request, employeeID int64) {
	filter, err := recordFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ListForEmployee(r.Context(), employeeID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ListOpen implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListOpen(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.ListOpenPunches(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func recordFilterFromQuery(r *http.Request) (attendance.RecordFilter, error) {
	q := r.URL.Query()
	var filter attendance.RecordFilter

	if v := q.Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := q.Get("end_date"); v != "" {
		filter.EndDate = &v
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return filter, validator.ValidationErrors{{Field: "limit", Message: "limit must be a number"}}
		}
		filter.Limit = limit
	}
	return filter, nil
}

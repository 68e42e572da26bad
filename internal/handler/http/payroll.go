package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	EmployeeReport(w http.ResponseWriter, r *http.Request)
	CompanyReport(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// EmployeeReport implements PayrollHandler.
func (h *payrollHandlerImpl) EmployeeReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}

	result, err := h.payrollService.EmployeeReport(r.Context(), payroll.ReportRequest{
		EmployeeID: id,
		StartDate:  r.URL.Query().Get("start_date"),
		EndDate:    r.URL.Query().Get("end_date"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// CompanyReport implements PayrollHandler.
func (h *payrollHandlerImpl) CompanyReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.CompanyReport(r.Context(), payroll.CompanyReportRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

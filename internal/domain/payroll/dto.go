package payroll

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// MaxPeriodDays bounds a single report request.
const MaxPeriodDays = 366

type ReportRequest struct {
	EmployeeID int64  `json:"employee_id"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`   // YYYY-MM-DD
}

func (r *ReportRequest) Validate() error {
	errs := validatePeriod(r.StartDate, r.EndDate)
	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CompanyReportRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *CompanyReportRequest) Validate() error {
	if errs := validatePeriod(r.StartDate, r.EndDate); len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePeriod(start, end string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(start) {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date is required"})
	}
	if validator.IsEmpty(end) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date is required"})
	}
	if len(errs) > 0 {
		return errs
	}

	errs = validator.ValidateDateRange(&start, &end)
	if len(errs) > 0 {
		return errs
	}

	s, _ := validator.IsValidDate(start)
	e, _ := validator.IsValidDate(end)
	if int(e.Sub(s).Hours()/24)+1 > MaxPeriodDays {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: ErrPeriodTooLong.Error()})
	}
	return errs
}

type DayRecordResponse struct {
	Date          string  `json:"date"`
	Day           string  `json:"day"`
	In            string  `json:"in"`
	Out           string  `json:"out"`
	Status        Status  `json:"status"`
	WorkedHours   float64 `json:"worked_hours"`
	BaseHours     float64 `json:"base_hours"`
	OvertimeHours float64 `json:"ot_hours"`
	OvertimePay   string  `json:"ot_pay"`
	Pay           string  `json:"pay"`
	Degraded      bool    `json:"degraded,omitempty"`
}

type ReportResponse struct {
	EmployeeID       int64               `json:"employee_id"`
	EmployeeName     string              `json:"employee_name"`
	StartDate        string              `json:"start_date"`
	EndDate          string              `json:"end_date"`
	HourlyRate       string              `json:"hourly_rate"`
	Summary          map[Status]int      `json:"summary"`
	Records          []DayRecordResponse `json:"records"`
	TotalPay         string              `json:"total_pay"`
	TotalOvertimePay string              `json:"total_ot_pay"`
}

type CompanyReportResponse struct {
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Employees []ReportResponse `json:"employees"`
	TotalPay  string           `json:"total_pay"`
}

func NewReportResponse(r Report) ReportResponse {
	records := make([]DayRecordResponse, 0, len(r.Records))
	for _, d := range r.Records {
		records = append(records, DayRecordResponse{
			Date:          d.Date,
			Day:           d.Weekday,
			In:            d.In,
			Out:           d.Out,
			Status:        d.Status,
			WorkedHours:   d.WorkedHours,
			BaseHours:     d.BaseHours,
			OvertimeHours: d.OvertimeHours,
			OvertimePay:   d.OvertimePay.StringFixed(2),
			Pay:           d.Pay.StringFixed(2),
			Degraded:      d.Degraded,
		})
	}
	return ReportResponse{
		EmployeeID:       r.EmployeeID,
		EmployeeName:     r.EmployeeName,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		HourlyRate:       r.HourlyRate.StringFixed(2),
		Summary:          r.Summary(),
		Records:          records,
		TotalPay:         r.TotalPay.StringFixed(2),
		TotalOvertimePay: r.TotalOvertimePay.StringFixed(2),
	}
}

package payroll

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds per-employee work in CompanyReport.
const DefaultConcurrency = 4

type PayrollServiceImpl struct {
	employee.EmployeeRepository
	attendance.AttendanceRepository
	concurrency int
}

func NewPayrollService(employeeRepo employee.EmployeeRepository, attendanceRepo attendance.AttendanceRepository, concurrency int) payroll.PayrollService {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &PayrollServiceImpl{
		EmployeeRepository:   employeeRepo,
		AttendanceRepository: attendanceRepo,
		concurrency:          concurrency,
	}
}

// EmployeeReport implements payroll.PayrollService.
func (s *PayrollServiceImpl) EmployeeReport(ctx context.Context, req payroll.ReportRequest) (payroll.ReportResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ReportResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.ReportResponse{}, err
		}
		return payroll.ReportResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	report, err := s.report(ctx, emp, req.StartDate, req.EndDate)
	if err != nil {
		return payroll.ReportResponse{}, err
	}
	return payroll.NewReportResponse(report), nil
}

// CompanyReport implements payroll.PayrollService.
func (s *PayrollServiceImpl) CompanyReport(ctx context.Context, req payroll.CompanyReportRequest) (payroll.CompanyReportResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CompanyReportResponse{}, err
	}

	employees, err := s.EmployeeRepository.List(ctx)
	if err != nil {
		return payroll.CompanyReportResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	var mu sync.Mutex
	reports := make([]payroll.Report, 0, len(employees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, emp := range employees {
		emp := emp
		g.Go(func() error {
			r, err := s.report(gctx, emp, req.StartDate, req.EndDate)
			if err != nil {
				return err
			}
			mu.Lock()
			reports = append(reports, r)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.CompanyReportResponse{}, err
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].EmployeeName == reports[j].EmployeeName {
			return reports[i].EmployeeID < reports[j].EmployeeID
		}
		return reports[i].EmployeeName < reports[j].EmployeeName
	})

	total := decimal.Zero
	resp := payroll.CompanyReportResponse{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Employees: make([]payroll.ReportResponse, 0, len(reports)),
	}
	for _, r := range reports {
		total = total.Add(r.TotalPay)
		resp.Employees = append(resp.Employees, payroll.NewReportResponse(r))
	}
	resp.TotalPay = total.StringFixed(2)
	return resp, nil
}

func (s *PayrollServiceImpl) report(ctx context.Context, emp employee.Employee, startDate, endDate string) (payroll.Report, error) {
	start, _ := validator.IsValidDate(startDate)
	end, _ := validator.IsValidDate(endDate)

	rows, err := s.AttendanceRepository.ListRawByEmployee(ctx, emp.ID, startDate, endDate)
	if err != nil {
		return payroll.Report{}, fmt.Errorf("failed to list attendance for employee %d: %w", emp.ID, err)
	}

	return Compute(ctx, emp, rows, start, end), nil
}

package payroll

import "context"

type PayrollService interface {
	// EmployeeReport derives day records for one employee over an inclusive range.
	EmployeeReport(ctx context.Context, req ReportRequest) (ReportResponse, error)

	// CompanyReport runs EmployeeReport for every employee of the current store.
	CompanyReport(ctx context.Context, req CompanyReportRequest) (CompanyReportResponse, error)
}

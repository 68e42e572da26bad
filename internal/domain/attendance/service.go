package attendance

import "context"

// AttendanceService records punches and answers ledger queries.
type AttendanceService interface {
	// Punch classifies and records a punch for req.EmployeeID.
	Punch(ctx context.Context, req PunchRequest) (PunchResponse, error)

	// ListForEmployee returns ledger rows most recent first.
	ListForEmployee(ctx context.Context, employeeID int64, filter RecordFilter) ([]RecordResponse, error)

	// ListOpenPunches returns rows with an IN and no OUT on date.
	ListOpenPunches(ctx context.Context, date string) ([]RecordResponse, error)
}

package attendance

import "context"

// AttendanceRepository is the ledger of the store attached to ctx.
type AttendanceRepository interface {
	// ListByEmployeeAndDate returns the day's rows in timestamp order.
	ListByEmployeeAndDate(ctx context.Context, employeeID int64, date string) ([]Record, error)

	Create(ctx context.Context, rec Record) (Record, error)

	// CompleteOpenIn writes the OUT half onto an open IN row. It only matches a
	// row that is still open and returns ErrRecordMissing otherwise.
	CompleteOpenIn(ctx context.Context, rec Record) error

	// ListByEmployee returns rows most recent first.
	ListByEmployee(ctx context.Context, employeeID int64, filter RecordFilter) ([]Record, error)

	// ListRawByEmployee returns unparsed rows dated within [start, end].
	ListRawByEmployee(ctx context.Context, employeeID int64, start, end string) ([]RawRecord, error)

	// ListOpenOn returns rows still open on date, joined with employee names.
	ListOpenOn(ctx context.Context, date string) ([]Record, error)

	// LockEmployeeDay serialises punches of one employee on one day for the
	// rest of the current transaction.
	LockEmployeeDay(ctx context.Context, employeeID int64, date string) error
}

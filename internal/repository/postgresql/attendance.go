package postgresql

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db       *database.DB
	location *time.Location
}

// NewAttendanceRepository stores timestamps as local wall clock text and
// reads them back in location.
func NewAttendanceRepository(db *database.DB, location *time.Location) attendance.AttendanceRepository {
	if location == nil {
		location = time.Local
	}
	return &attendanceRepository{db: db, location: location}
}

// Legacy rows may lack the date column; the timestamp prefix stands in for it.
const rowDate = `COALESCE(NULLIF(a.date, ''), LEFT(a.timestamp, 10))`

const recordColumns = `a.id, a.employee_id, a.timestamp, a.action, a.in_time, a.out_time, a.latitude, a.longitude,
	a.attachments, a.subject, a.no_matching_in, a.shift_hours`

func (a *attendanceRepository) formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.In(a.location).Format(attendance.TimestampLayout)
	return &s
}

func (a *attendanceRepository) parseTime(id, field string, s *string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	t, err := time.ParseInLocation(attendance.TimestampLayout, strings.TrimSpace(*s), a.location)
	if err != nil {
		slog.Warn("unparseable ledger time", "record_id", id, "field", field, "value", *s)
		return nil
	}
	return &t
}

func splitAttachments(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (a *attendanceRepository) scanRecord(row pgx.Row, extra ...any) (attendance.Record, error) {
	var rec attendance.Record
	var ts, action, attachments string
	var inTime, outTime *string

	dest := []any{
		&rec.ID, &rec.EmployeeID, &ts, &action, &inTime, &outTime, &rec.Latitude, &rec.Longitude,
		&attachments, &rec.Subject, &rec.NoMatchingIn, &rec.ShiftHours,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return attendance.Record{}, err
	}

	if t := a.parseTime(rec.ID, "timestamp", &ts); t != nil {
		rec.Timestamp = *t
	}
	rec.Action, _ = attendance.ParseAction(action)
	rec.InTime = a.parseTime(rec.ID, "in_time", inTime)
	rec.OutTime = a.parseTime(rec.ID, "out_time", outTime)
	rec.Attachments = splitAttachments(attachments)
	return rec, nil
}

func (a *attendanceRepository) collect(rows pgx.Rows, withEmployee bool) ([]attendance.Record, error) {
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		var err error
		if withEmployee {
			var name, mobile *string
			rec, err = a.scanRecord(rows, &name, &mobile)
			rec.EmployeeName, rec.EmployeeMobile = name, mobile
		} else {
			rec, err = a.scanRecord(rows)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}

// ListByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeAndDate(ctx context.Context, employeeID int64, date string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + recordColumns + `
		FROM attendance a
		WHERE a.employee_id = $1 AND ` + rowDate + ` = $2
		ORDER BY a.timestamp, a.id`

	rows, err := q.Query(ctx, query, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for %s: %w", date, err)
	}
	return a.collect(rows, false)
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	if rec.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Record{}, fmt.Errorf("failed to generate record id: %w", err)
		}
		rec.ID = id.String()
	}

	query := `
		INSERT INTO attendance (id, employee_id, date, timestamp, action, in_time, out_time,
			latitude, longitude, attachments, subject, no_matching_in, shift_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := q.Exec(ctx, query,
		rec.ID, rec.EmployeeID, rec.Timestamp.In(a.location).Format(attendance.DateLayout),
		*a.formatTime(&rec.Timestamp), rec.Action.Lower(), a.formatTime(rec.InTime), a.formatTime(rec.OutTime),
		rec.Latitude, rec.Longitude, strings.Join(rec.Attachments, ","), rec.Subject, rec.NoMatchingIn, rec.ShiftHours,
	)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to insert attendance: %w", err)
	}
	return rec, nil
}

// CompleteOpenIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) CompleteOpenIn(ctx context.Context, rec attendance.Record) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance
		SET action = $2, out_time = $3, latitude = $4, longitude = $5, attachments = $6
		WHERE id = $1 AND LOWER(action) = 'in' AND (out_time IS NULL OR out_time = '')
	`
	tag, err := q.Exec(ctx, query,
		rec.ID, attendance.ActionOut.Lower(), a.formatTime(rec.OutTime),
		rec.Latitude, rec.Longitude, strings.Join(rec.Attachments, ","),
	)
	if err != nil {
		return fmt.Errorf("failed to complete attendance %s: %w", rec.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordMissing
	}
	return nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID int64, filter attendance.RecordFilter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	where := []string{"a.employee_id = $1"}
	args := []any{employeeID}

	if filter.StartDate != nil && *filter.StartDate != "" {
		args = append(args, *filter.StartDate)
		where = append(where, fmt.Sprintf("%s >= $%d", rowDate, len(args)))
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		args = append(args, *filter.EndDate)
		where = append(where, fmt.Sprintf("%s <= $%d", rowDate, len(args)))
	}

	limit := filter.Limit
	if limit <= 0 && !filter.Bounded() {
		limit = attendance.DefaultRecordLimit
	}

	query := `SELECT ` + recordColumns + `
		FROM attendance a
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY a.timestamp DESC, a.id DESC`
	if limit > 0 {
		args = append(args, limit)
		query += ` LIMIT $` + fmt.Sprint(len(args))
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for employee %d: %w", employeeID, err)
	}
	return a.collect(rows, false)
}

// ListRawByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListRawByEmployee(ctx context.Context, employeeID int64, start, end string) ([]attendance.RawRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + rowDate + `, a.action, COALESCE(a.timestamp, ''), a.in_time, a.out_time
		FROM attendance a
		WHERE a.employee_id = $1 AND ` + rowDate + ` BETWEEN $2 AND $3
		ORDER BY a.timestamp, a.id
	`
	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list raw attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.RawRecord
	for rows.Next() {
		var r attendance.RawRecord
		if err := rows.Scan(&r.Date, &r.Action, &r.Timestamp, &r.InTime, &r.OutTime); err != nil {
			return nil, fmt.Errorf("failed to scan raw attendance: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate raw attendance: %w", err)
	}
	return records, nil
}

// ListOpenOn implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenOn(ctx context.Context, date string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + recordColumns + `, e.name, e.mobile
		FROM attendance a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE ` + rowDate + ` = $1
		  AND LOWER(a.action) = 'in'
		  AND (a.out_time IS NULL OR a.out_time = '')
		ORDER BY e.name, a.timestamp`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list open punches for %s: %w", date, err)
	}
	return a.collect(rows, true)
}

// LockEmployeeDay implements attendance.AttendanceRepository. The lock is
// released when the surrounding transaction ends.
func (a *attendanceRepository) LockEmployeeDay(ctx context.Context, employeeID int64, date string) error {
	q := GetQuerier(ctx, a.db)

	key := fmt.Sprintf("attendance:%d:%s", employeeID, date)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("failed to lock employee day: %w", err)
	}
	return nil
}

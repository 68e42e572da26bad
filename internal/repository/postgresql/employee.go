package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, name, mobile, email, password_hash, hourly_rate, shift_hours, in_time,
	week_off_days, ot_enabled, ot_multiplier, office_staff, office_latitude, office_longitude,
	office_radius_m, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var weekOffs string
	var multiplier decimal.NullDecimal
	err := row.Scan(
		&e.ID, &e.Name, &e.Mobile, &e.Email, &e.PasswordHash, &e.HourlyRate, &e.ShiftHours, &e.ScheduledIn,
		&weekOffs, &e.OvertimeEnabled, &multiplier, &e.Geofence.OfficeStaff, &e.Geofence.Latitude, &e.Geofence.Longitude,
		&e.Geofence.RadiusMeters, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	e.WeekOffDays = employee.SplitWeekOffs(weekOffs)
	if multiplier.Valid {
		e.OvertimeMultiplier = &multiplier.Decimal
	}
	return e, nil
}

func nullableDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func mapEmployeeWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return employee.ErrMobileExists
	}
	return err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (name, mobile, email, password_hash, hourly_rate, shift_hours, in_time,
			week_off_days, ot_enabled, ot_multiplier, office_staff, office_latitude, office_longitude, office_radius_m)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		emp.Name, emp.Mobile, emp.Email, emp.PasswordHash, emp.HourlyRate, emp.ShiftHours, emp.ScheduledIn,
		employee.JoinWeekOffs(emp.WeekOffDays), emp.OvertimeEnabled, nullableDecimal(emp.OvertimeMultiplier),
		emp.Geofence.OfficeStaff, emp.Geofence.Latitude, emp.Geofence.Longitude, emp.Geofence.RadiusMeters,
	))
	if err != nil {
		return employee.Employee{}, mapEmployeeWriteError(err)
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	emp, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %d: %w", id, err)
	}
	return emp, nil
}

// GetByMobile implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByMobile(ctx context.Context, mobile string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	emp, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE mobile = $1`, mobile))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by mobile: %w", err)
	}
	return emp, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var emps []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		emps = append(emps, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return emps, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees SET
			name = $2, mobile = $3, email = $4, password_hash = $5, hourly_rate = $6, shift_hours = $7,
			in_time = $8, week_off_days = $9, ot_enabled = $10, ot_multiplier = $11, office_staff = $12,
			office_latitude = $13, office_longitude = $14, office_radius_m = $15, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		emp.ID, emp.Name, emp.Mobile, emp.Email, emp.PasswordHash, emp.HourlyRate, emp.ShiftHours,
		emp.ScheduledIn, employee.JoinWeekOffs(emp.WeekOffDays), emp.OvertimeEnabled, nullableDecimal(emp.OvertimeMultiplier),
		emp.Geofence.OfficeStaff, emp.Geofence.Latitude, emp.Geofence.Longitude, emp.Geofence.RadiusMeters,
	)
	if err != nil {
		return mapEmployeeWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

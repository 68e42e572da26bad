package postgresql_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRepository(t *testing.T) {
	db := newTestStore(t)
	repo := postgresql.NewEmployeeRepository(db)
	ctx := context.Background()

	mult := decimal.RequireFromString("2")
	created, err := repo.Create(ctx, employee.Employee{
		Name:               "Arun",
		Mobile:             "9876543210",
		HourlyRate:         decimal.RequireFromString("125.50"),
		WeekOffDays:        []string{"Sunday", "Saturday"},
		OvertimeEnabled:    true,
		OvertimeMultiplier: &mult,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.HourlyRate.Equal(decimal.RequireFromString("125.5")))
	assert.Equal(t, []string{"Sunday", "Saturday"}, created.WeekOffDays)
	require.NotNil(t, created.OvertimeMultiplier)
	assert.Nil(t, created.ShiftHours)

	_, err = repo.Create(ctx, employee.Employee{Name: "Dup", Mobile: "9876543210"})
	assert.ErrorIs(t, err, employee.ErrMobileExists)

	byMobile, err := repo.GetByMobile(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byMobile.ID)

	shift := 9.0
	created.ShiftHours = &shift
	created.OvertimeMultiplier = nil
	require.NoError(t, repo.Update(ctx, created))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, *got.ShiftHours)
	assert.Nil(t, got.OvertimeMultiplier)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceRepository_PunchLifecycle(t *testing.T) {
	db := newTestStore(t)
	repo := postgresql.NewAttendanceRepository(db, time.UTC)
	ctx := context.Background()

	emp, err := postgresql.NewEmployeeRepository(db).Create(ctx, employee.Employee{Name: "Meena", Mobile: "9123456780"})
	require.NoError(t, err)

	in := time.Date(2025, 3, 10, 9, 2, 0, 0, time.UTC)
	lat, lon := 12.97, 77.59
	rec, err := repo.Create(ctx, attendance.Record{
		EmployeeID:  emp.ID,
		Timestamp:   in,
		Action:      attendance.ActionIn,
		InTime:      &in,
		Latitude:    &lat,
		Longitude:   &lon,
		Attachments: []string{"a.jpg"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)

	open, err := repo.ListOpenOn(ctx, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "Meena", *open[0].EmployeeName)

	out := in.Add(8 * time.Hour)
	rec.OutTime = &out
	rec.Attachments = []string{"a.jpg", "b.jpg"}
	require.NoError(t, repo.CompleteOpenIn(ctx, rec))
	assert.ErrorIs(t, repo.CompleteOpenIn(ctx, rec), attendance.ErrRecordMissing)

	day, err := repo.ListByEmployeeAndDate(ctx, emp.ID, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, attendance.ActionOut, day[0].Action)
	assert.True(t, day[0].InTime.Equal(in))
	assert.True(t, day[0].OutTime.Equal(out))
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, day[0].Attachments)

	raw, err := repo.ListRawByEmployee(ctx, emp.ID, "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, "2025-03-10 17:02:00", *raw[0].OutTime)

	open, err = repo.ListOpenOn(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestAttendanceRepository_ListByEmployeeLimit(t *testing.T) {
	db := newTestStore(t)
	repo := postgresql.NewAttendanceRepository(db, time.UTC)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		ts := base.AddDate(0, 0, i)
		_, err := repo.Create(ctx, attendance.Record{EmployeeID: 1, Timestamp: ts, Action: attendance.ActionIn, InTime: &ts})
		require.NoError(t, err)
	}

	start := "2025-03-02"
	rows, err := repo.ListByEmployee(ctx, 1, attendance.RecordFilter{StartDate: &start, Limit: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-03-05", rows[0].Timestamp.Format(attendance.DateLayout))
	assert.Equal(t, "2025-03-04", rows[1].Timestamp.Format(attendance.DateLayout))
}

func TestAttendanceRepository_ListByEmployeeBoundedHasNoDefaultCap(t *testing.T) {
	db := newTestStore(t)
	repo := postgresql.NewAttendanceRepository(db, time.UTC)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	total := attendance.DefaultRecordLimit + 10
	for i := 0; i < total; i++ {
		ts := base.Add(time.Duration(i) * time.Minute)
		_, err := repo.Create(ctx, attendance.Record{EmployeeID: 1, Timestamp: ts, Action: attendance.ActionIn, InTime: &ts})
		require.NoError(t, err)
	}

	day := "2025-03-01"
	rows, err := repo.ListByEmployee(ctx, 1, attendance.RecordFilter{StartDate: &day, EndDate: &day})
	require.NoError(t, err)
	assert.Len(t, rows, total)

	rows, err = repo.ListByEmployee(ctx, 1, attendance.RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, attendance.DefaultRecordLimit)
}

// Two transactions locking the same employee day must not overlap.
func TestAttendanceRepository_LockEmployeeDay(t *testing.T) {
	db := newTestStore(t)
	repo := postgresql.NewAttendanceRepository(db, time.UTC)
	tx := postgresql.NewTxManager(db)
	ctx := context.Background()

	var mu sync.Mutex
	inside, maxInside := 0, 0
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
				if err := repo.LockEmployeeDay(ctx, 7, "2025-03-10"); err != nil {
					return err
				}
				mu.Lock()
				inside++
				maxInside = max(maxInside, inside)
				mu.Unlock()

				time.Sleep(20 * time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxInside)
}

func TestTxManager_RollsBack(t *testing.T) {
	db := newTestStore(t)
	repo := postgresql.NewAttendanceRepository(db, time.UTC)
	ctx := context.Background()

	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	boom := errors.New("boom")
	err := postgresql.NewTxManager(db).WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, attendance.Record{EmployeeID: 3, Timestamp: ts, Action: attendance.ActionIn, InTime: &ts}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	rows, err := repo.ListByEmployeeAndDate(ctx, 3, "2025-03-10")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTenantRepository(t *testing.T) {
	db := newTestStore(t)
	repo := postgresql.NewTenantRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, tenant.Tenant{
		Code: "abc234", Name: "Acme", AdminEmail: "boss@acme.test", IsActive: true,
		StorePath: "postgres://localhost/hris_tenant_abc234", TelegramChatIDs: []string{"1", "2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ABC234", created.Code)
	assert.Equal(t, []string{"1", "2"}, created.TelegramChatIDs)

	_, err = repo.Create(ctx, tenant.Tenant{Code: "ABC234", Name: "Other", StorePath: "x"})
	assert.ErrorIs(t, err, tenant.ErrTenantCodeExists)

	got, err := repo.GetByCode(ctx, "abc234")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)

	require.NoError(t, repo.UpdateRecipients(ctx, "ABC234", nil, []string{"ops@acme.test"}))
	require.NoError(t, repo.SetActive(ctx, "ABC234", false))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Empty(t, all[0].TelegramChatIDs)
	assert.Equal(t, []string{"ops@acme.test"}, all[0].NotificationEmails)

	_, err = repo.GetByCode(ctx, "NOPE00")
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	assert.ErrorIs(t, repo.SetActive(ctx, "NOPE00", true), tenant.ErrTenantNotFound)
}

package employee

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memEmployees struct {
	rows   map[int64]employee.Employee
	nextID int64
}

func newMemEmployees() *memEmployees {
	return &memEmployees{rows: map[int64]employee.Employee{}}
}

func (m *memEmployees) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	m.nextID++
	emp.ID = m.nextID
	emp.CreatedAt = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	emp.UpdatedAt = emp.CreatedAt
	m.rows[emp.ID] = emp
	return emp, nil
}

func (m *memEmployees) GetByID(_ context.Context, id int64) (employee.Employee, error) {
	emp, ok := m.rows[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (m *memEmployees) GetByMobile(_ context.Context, mobile string) (employee.Employee, error) {
	for _, e := range m.rows {
		if e.Mobile == mobile {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *memEmployees) List(_ context.Context) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0, len(m.rows))
	for _, e := range m.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memEmployees) Update(_ context.Context, emp employee.Employee) error {
	if _, ok := m.rows[emp.ID]; !ok {
		return employee.ErrEmployeeNotFound
	}
	m.rows[emp.ID] = emp
	return nil
}

func (m *memEmployees) Delete(_ context.Context, id int64) error {
	delete(m.rows, id)
	return nil
}

func validCreate() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		Name:        " Arun ",
		Mobile:      "9876543210",
		Password:    "secret1",
		HourlyRate:  decimal.NewFromInt(100),
		WeekOffDays: []string{"sunday"},
	}
}

func TestCreate(t *testing.T) {
	repo := newMemEmployees()
	svc := NewEmployeeService(repo)

	resp, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "Arun", resp.Name)
	assert.Equal(t, "100.00", resp.HourlyRate)
	assert.Equal(t, 8.0, resp.ShiftHours)
	assert.Equal(t, "09:00", resp.ScheduledIn)
	assert.Equal(t, "1.5", resp.OvertimeMultiplier)
	assert.Equal(t, []string{"Sunday"}, resp.WeekOffDays)

	stored := repo.rows[1]
	require.NotNil(t, stored.PasswordHash)
	assert.NotEqual(t, "secret1", *stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte("secret1")))
}

func TestCreate_DuplicateMobile(t *testing.T) {
	svc := NewEmployeeService(newMemEmployees())
	ctx := context.Background()

	_, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	_, err = svc.Create(ctx, validCreate())
	assert.ErrorIs(t, err, employee.ErrMobileExists)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewEmployeeService(newMemEmployees())

	req := validCreate()
	req.Mobile = "12"
	req.Password = "x"

	_, err := svc.Create(context.Background(), req)
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	m := verrs.ToMap()
	assert.Contains(t, m, "mobile")
	assert.Contains(t, m, "password")
}

func TestUpdate_Partial(t *testing.T) {
	repo := newMemEmployees()
	svc := NewEmployeeService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)
	oldHash := *repo.rows[created.ID].PasswordHash

	shift := 9.0
	staff := true
	lat, lng := 12.97, 77.59
	resp, err := svc.Update(ctx, employee.UpdateEmployeeRequest{
		ID:         created.ID,
		ShiftHours: &shift,
		Geofence:   &employee.GeofenceRequest{OfficeStaff: &staff, Latitude: &lat, Longitude: &lng},
	})
	require.NoError(t, err)

	assert.Equal(t, "Arun", resp.Name)
	assert.Equal(t, 9.0, resp.ShiftHours)
	assert.True(t, resp.OfficeStaff)
	assert.Equal(t, lat, *resp.OfficeLatitude)
	assert.Nil(t, resp.OfficeRadiusMeters)
	assert.Equal(t, oldHash, *repo.rows[created.ID].PasswordHash)

	pw := "another1"
	_, err = svc.Update(ctx, employee.UpdateEmployeeRequest{ID: created.ID, Password: &pw})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*repo.rows[created.ID].PasswordHash), []byte(pw)))
}

func TestUpdate_MobileConflict(t *testing.T) {
	svc := NewEmployeeService(newMemEmployees())
	ctx := context.Background()

	first, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	second := validCreate()
	second.Mobile = "9123456780"
	_, err = svc.Create(ctx, second)
	require.NoError(t, err)

	taken := "9123456780"
	_, err = svc.Update(ctx, employee.UpdateEmployeeRequest{ID: first.ID, Mobile: &taken})
	assert.ErrorIs(t, err, employee.ErrMobileExists)

	// re-submitting the same number is not a conflict
	same := "9876543210"
	_, err = svc.Update(ctx, employee.UpdateEmployeeRequest{ID: first.ID, Mobile: &same})
	assert.NoError(t, err)
}

func TestGetAndDelete(t *testing.T) {
	svc := NewEmployeeService(newMemEmployees())
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01T09:00:00Z", got.CreatedAt)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), employee.ErrEmployeeNotFound)
}

package attendance

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/google/uuid"
)

type fakeTx struct{}

func (fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAttendanceRepo struct {
	mu        sync.Mutex
	rows      []attendance.Record
	createErr error
	writes    int
}

func (r *fakeAttendanceRepo) ListByEmployeeAndDate(_ context.Context, employeeID int64, date string) ([]attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []attendance.Record
	for _, row := range r.rows {
		if row.EmployeeID == employeeID && row.Timestamp.Format(attendance.DateLayout) == date {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *fakeAttendanceRepo) Create(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return attendance.Record{}, r.createErr
	}
	rec.ID = uuid.NewString()
	r.rows = append(r.rows, rec)
	r.writes++
	return rec, nil
}

func (r *fakeAttendanceRepo) CompleteOpenIn(_ context.Context, rec attendance.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].ID == rec.ID && r.rows[i].IsOpenIn() {
			r.rows[i] = rec
			r.writes++
			return nil
		}
	}
	return attendance.ErrRecordMissing
}

func (r *fakeAttendanceRepo) ListByEmployee(_ context.Context, employeeID int64, filter attendance.RecordFilter) ([]attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []attendance.Record
	for _, row := range r.rows {
		if row.EmployeeID == employeeID {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakeAttendanceRepo) ListRawByEmployee(context.Context, int64, string, string) ([]attendance.RawRecord, error) {
	return nil, errors.New("not used")
}

func (r *fakeAttendanceRepo) ListOpenOn(_ context.Context, date string) ([]attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []attendance.Record
	for _, row := range r.rows {
		if row.IsOpenIn() && row.Timestamp.Format(attendance.DateLayout) == date {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) LockEmployeeDay(context.Context, int64, string) error { return nil }

func (r *fakeAttendanceRepo) snapshot() []attendance.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]attendance.Record(nil), r.rows...)
}

type fakeEmployeeRepo struct {
	employees map[int64]employee.Employee
}

func (r *fakeEmployeeRepo) Create(context.Context, employee.Employee) (employee.Employee, error) {
	return employee.Employee{}, errors.New("not used")
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id int64) (employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *fakeEmployeeRepo) GetByMobile(context.Context, string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) List(context.Context) ([]employee.Employee, error) { return nil, nil }

func (r *fakeEmployeeRepo) Update(context.Context, employee.Employee) error { return nil }

func (r *fakeEmployeeRepo) Delete(context.Context, int64) error { return nil }

type recordingDispatcher struct {
	mu     sync.Mutex
	events []notification.Event
}

func (d *recordingDispatcher) Dispatch(ev notification.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
}

func (d *recordingDispatcher) Stop() {}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.events)
}

// fakeClock advances one minute on every read so consecutive punches get
// distinct timestamps.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(time.Minute)
	return t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

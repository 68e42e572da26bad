package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/locker"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/geofence"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	employee.EmployeeRepository
	locks      *locker.KeyedMutex
	dispatcher notification.Dispatcher
	now        func() time.Time
	location   *time.Location
}

type Option func(*AttendanceServiceImpl)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *AttendanceServiceImpl) { s.now = now }
}

// WithLocation sets the wall clock zone used for timestamps and day boundaries.
func WithLocation(loc *time.Location) Option {
	return func(s *AttendanceServiceImpl) {
		if loc != nil {
			s.location = loc
		}
	}
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	locks *locker.KeyedMutex,
	dispatcher notification.Dispatcher,
	opts ...Option,
) attendance.AttendanceService {
	s := &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		locks:                locks,
		dispatcher:           dispatcher,
		now:                  time.Now,
		location:             time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Punch implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Punch(ctx context.Context, req attendance.PunchRequest) (attendance.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.PunchResponse{}, err
		}
		return attendance.PunchResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if err := geofence.Check(emp.Geofence, req.Location); err != nil {
		attrs := []any{"employee_id", emp.ID, "error", err}
		var oor *geofence.OutOfRangeError
		if errors.As(err, &oor) {
			attrs = append(attrs, "detail", oor.Detail())
		}
		slog.WarnContext(ctx, "punch rejected by geofence", attrs...)
		return attendance.PunchResponse{}, err
	}

	now := s.now().In(s.location).Truncate(time.Second)
	date := now.Format(attendance.DateLayout)

	unlock := s.locks.Lock(lockKey(ctx, emp.ID, date))
	defer unlock()

	var rec attendance.Record
	var decision Decision
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.AttendanceRepository.LockEmployeeDay(ctx, emp.ID, date); err != nil {
			return fmt.Errorf("lock employee day: %w", err)
		}

		rows, err := s.AttendanceRepository.ListByEmployeeAndDate(ctx, emp.ID, date)
		if err != nil {
			return fmt.Errorf("list day records: %w", err)
		}

		decision = Classify(rows, req.DeclaredOut)
		lat, lon := req.Location.Latitude, req.Location.Longitude

		if decision.Complete != nil {
			rec = *decision.Complete
			rec.Action = attendance.ActionOut
			rec.OutTime = &now
			rec.Latitude = &lat
			rec.Longitude = &lon
			rec.Attachments = mergeAttachments(rec.Attachments, req.Photos)
			if err := s.AttendanceRepository.CompleteOpenIn(ctx, rec); err != nil {
				return fmt.Errorf("complete open in: %w", err)
			}
			return nil
		}

		rec = attendance.Record{
			EmployeeID:   emp.ID,
			Timestamp:    now,
			Action:       decision.Action,
			Latitude:     &lat,
			Longitude:    &lon,
			Attachments:  mergeAttachments(nil, req.Photos),
			Subject:      req.Subject,
			NoMatchingIn: decision.NoMatchingIn,
			ShiftHours:   floatPtr(emp.EffectiveShiftHours()),
		}
		if decision.Action == attendance.ActionIn {
			rec.InTime = &now
		} else {
			rec.OutTime = &now
		}

		created, err := s.AttendanceRepository.Create(ctx, rec)
		if err != nil {
			return fmt.Errorf("create record: %w", err)
		}
		rec = created
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to record punch", "employee_id", emp.ID, "error", err)
		return attendance.PunchResponse{}, fmt.Errorf("%w: %w", attendance.ErrPersistence, err)
	}

	ts := now.Format(attendance.TimestampLayout)
	message := fmt.Sprintf("Punched %s at %s", decision.Action, ts)
	if decision.NoMatchingIn {
		message = fmt.Sprintf("Punched OUT (no matching IN) at %s", ts)
		slog.WarnContext(ctx, "out punch without matching in", "employee_id", emp.ID, "record_id", rec.ID, "date", date)
	}

	s.notify(ctx, emp, decision.Action, now, req)

	return attendance.PunchResponse{
		Status:       "success",
		Message:      message,
		Action:       decision.Action.Lower(),
		RecordID:     rec.ID,
		Timestamp:    ts,
		NoMatchingIn: decision.NoMatchingIn,
	}, nil
}

// notify hands a fully built event to the dispatcher. Nothing here can fail
// the punch.
func (s *AttendanceServiceImpl) notify(ctx context.Context, emp employee.Employee, action attendance.Action, at time.Time, req attendance.PunchRequest) {
	if s.dispatcher == nil {
		return
	}

	ev := notification.Event{
		Type:          notification.TypePunchIn,
		EmployeeID:    emp.ID,
		EmployeeName:  emp.Name,
		EmployeeEmail: emp.Email,
		Action:        string(action),
		Timestamp:     at,
		Latitude:      &req.Location.Latitude,
		Longitude:     &req.Location.Longitude,
		Subject:       req.Subject,
	}
	if action == attendance.ActionOut {
		ev.Type = notification.TypePunchOut
	}
	ev.Message = fmt.Sprintf("%s punched %s at %s", emp.Name, action, at.Format(attendance.TimestampLayout))

	if t := tenant.FromContext(ctx); t != nil {
		ev.TenantCode = t.Code
		ev.TenantName = t.Name
		ev.TelegramChatIDs = t.TelegramChatIDs
		ev.AdminEmails = t.NotificationEmails
	}

	s.dispatcher.Dispatch(ev)
}

// ListForEmployee implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListForEmployee(ctx context.Context, employeeID int64, filter attendance.RecordFilter) ([]attendance.RecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	rows, err := s.AttendanceRepository.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := make([]attendance.RecordResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, toRecordResponse(r))
	}
	return resp, nil
}

// ListOpenPunches implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListOpenPunches(ctx context.Context, date string) ([]attendance.RecordResponse, error) {
	if date == "" {
		date = s.now().In(s.location).Format(attendance.DateLayout)
	}
	if _, ok := validator.IsValidDate(date); !ok {
		return nil, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}

	rows, err := s.AttendanceRepository.ListOpenOn(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list open punches: %w", err)
	}

	resp := make([]attendance.RecordResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, toRecordResponse(r))
	}
	return resp, nil
}

func lockKey(ctx context.Context, employeeID int64, date string) string {
	store := "default"
	if db := database.StoreFromContext(ctx); db != nil {
		store = db.Key
	}
	return store + "|" + strconv.FormatInt(employeeID, 10) + "|" + date
}

func floatPtr(v float64) *float64 { return &v }

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(attendance.TimestampLayout)
	return &format
}

func toRecordResponse(r attendance.Record) attendance.RecordResponse {
	resp := attendance.RecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Mobile:       r.EmployeeMobile,
		Action:       r.Action.Lower(),
		Timestamp:    r.Timestamp.Format(attendance.TimestampLayout),
		InTime:       timePtrToString(r.InTime),
		OutTime:      timePtrToString(r.OutTime),
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		Subject:      r.Subject,
		Attachments:  r.Attachments,
		NoMatchingIn: r.NoMatchingIn,
	}
	if resp.Attachments == nil {
		resp.Attachments = []string{}
	}
	if r.Latitude != nil && r.Longitude != nil {
		resp.Location = strconv.FormatFloat(*r.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(*r.Longitude, 'f', -1, 64)
	}
	return resp
}

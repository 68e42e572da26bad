package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

const OpenPunchJobName = "open_punch_digest"

// OpenPunchJob reports, per tenant, the employees whose IN punch of the
// previous day was never closed.
type OpenPunchJob struct {
	tenants        tenant.TenantRepository
	router         tenant.Router
	attendanceRepo attendance.AttendanceRepository
	dispatcher     notification.Dispatcher
	includeDefault bool
	location       *time.Location
	now            func() time.Time
}

func NewOpenPunchJob(
	tenants tenant.TenantRepository,
	router tenant.Router,
	attendanceRepo attendance.AttendanceRepository,
	dispatcher notification.Dispatcher,
	includeDefault bool,
	location *time.Location,
) *OpenPunchJob {
	if location == nil {
		location = time.Local
	}
	return &OpenPunchJob{
		tenants:        tenants,
		router:         router,
		attendanceRepo: attendanceRepo,
		dispatcher:     dispatcher,
		includeDefault: includeDefault,
		location:       location,
		now:            time.Now,
	}
}

func (j *OpenPunchJob) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(Job{Name: OpenPunchJobName, Interval: interval, Fn: j.Run, SkipInitialRun: true})
}

// Run sends one digest per store that has open rows for yesterday. A failing
// tenant does not stop the others.
func (j *OpenPunchJob) Run(ctx context.Context) error {
	date := j.now().In(j.location).AddDate(0, 0, -1).Format(attendance.DateLayout)

	active, err := j.tenants.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active tenants: %w", err)
	}

	var errs []error
	if j.includeDefault {
		if err := j.runStore(ctx, nil, date); err != nil {
			errs = append(errs, fmt.Errorf("default store: %w", err))
		}
	}
	for i := range active {
		if err := j.runStore(ctx, &active[i], date); err != nil {
			errs = append(errs, fmt.Errorf("tenant %s: %w", active[i].Code, err))
		}
	}
	return errors.Join(errs...)
}

func (j *OpenPunchJob) runStore(ctx context.Context, t *tenant.Tenant, date string) error {
	var code *string
	if t != nil {
		code = &t.Code
	}

	db, resolved, err := j.router.Resolve(ctx, code)
	if err != nil {
		return err
	}
	storeCtx := database.WithStore(ctx, db)

	rows, err := j.attendanceRepo.ListOpenOn(storeCtx, date)
	if err != nil {
		return fmt.Errorf("failed to list open punches: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	ev := notification.Event{
		Type:        notification.TypeOpenPunchDigest,
		Timestamp:   j.now().In(j.location),
		Message:     fmt.Sprintf("%d employee(s) did not punch OUT on %s", len(rows), date),
		OpenPunches: make([]notification.OpenPunchEntry, 0, len(rows)),
	}
	if resolved != nil {
		ev.TenantCode = resolved.Code
		ev.TenantName = resolved.Name
		ev.TelegramChatIDs = resolved.TelegramChatIDs
		ev.AdminEmails = resolved.NotificationEmails
		if len(ev.AdminEmails) == 0 && resolved.AdminEmail != "" {
			ev.AdminEmails = []string{resolved.AdminEmail}
		}
	}

	for _, r := range rows {
		entry := notification.OpenPunchEntry{InTime: r.Timestamp.Format("15:04")}
		if r.InTime != nil {
			entry.InTime = r.InTime.Format("15:04")
		}
		if r.EmployeeName != nil {
			entry.EmployeeName = *r.EmployeeName
		}
		if r.EmployeeMobile != nil {
			entry.Mobile = *r.EmployeeMobile
		}
		ev.OpenPunches = append(ev.OpenPunches, entry)
	}

	j.dispatcher.Dispatch(ev)
	slog.InfoContext(ctx, "open punch digest queued", "company_code", ev.TenantCode, "date", date, "count", len(rows))
	return nil
}

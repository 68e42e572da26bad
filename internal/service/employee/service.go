package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	employee.EmployeeRepository
}

func NewEmployeeService(employeeRepository employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{EmployeeRepository: employeeRepository}
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	mobile := strings.TrimSpace(req.Mobile)
	if err := s.ensureMobileFree(ctx, mobile, 0); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp := employee.Employee{
		Name:               strings.TrimSpace(req.Name),
		Mobile:             mobile,
		Email:              trimmed(req.Email),
		PasswordHash:       &hash,
		HourlyRate:         req.HourlyRate,
		ShiftHours:         req.ShiftHours,
		ScheduledIn:        trimmed(req.ScheduledIn),
		WeekOffDays:        normalizeWeekOffs(req.WeekOffDays),
		OvertimeEnabled:    req.OvertimeEnabled,
		OvertimeMultiplier: req.OvertimeMultiplier,
	}
	applyGeofence(&emp.Geofence, req.Geofence)

	created, err := s.EmployeeRepository.Create(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	slog.InfoContext(ctx, "employee created", "employee_id", created.ID)
	return toResponse(created), nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return toResponse(emp), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	emps, err := s.EmployeeRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	resp := make([]employee.EmployeeResponse, 0, len(emps))
	for _, e := range emps {
		resp = append(resp, toResponse(e))
	}
	return resp, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Name != nil {
		emp.Name = strings.TrimSpace(*req.Name)
	}
	if req.Mobile != nil {
		mobile := strings.TrimSpace(*req.Mobile)
		if mobile != emp.Mobile {
			if err := s.ensureMobileFree(ctx, mobile, emp.ID); err != nil {
				return employee.EmployeeResponse{}, err
			}
			emp.Mobile = mobile
		}
	}
	if req.Email != nil {
		emp.Email = trimmed(req.Email)
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		emp.PasswordHash = &hash
	}
	if req.HourlyRate != nil {
		emp.HourlyRate = *req.HourlyRate
	}
	if req.ShiftHours != nil {
		emp.ShiftHours = req.ShiftHours
	}
	if req.ScheduledIn != nil {
		emp.ScheduledIn = trimmed(req.ScheduledIn)
	}
	if req.WeekOffDays != nil {
		emp.WeekOffDays = normalizeWeekOffs(req.WeekOffDays)
	}
	if req.OvertimeEnabled != nil {
		emp.OvertimeEnabled = *req.OvertimeEnabled
	}
	if req.OvertimeMultiplier != nil {
		emp.OvertimeMultiplier = req.OvertimeMultiplier
	}
	applyGeofence(&emp.Geofence, req.Geofence)

	if err := s.EmployeeRepository.Update(ctx, emp); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	updated, err := s.EmployeeRepository.GetByID(ctx, emp.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return toResponse(updated), nil
}

// Delete implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id int64) error {
	if _, err := s.EmployeeRepository.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.EmployeeRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	slog.InfoContext(ctx, "employee deleted", "employee_id", id)
	return nil
}

func (s *EmployeeServiceImpl) ensureMobileFree(ctx context.Context, mobile string, self int64) error {
	existing, err := s.EmployeeRepository.GetByMobile(ctx, mobile)
	switch {
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check mobile: %w", err)
	case existing.ID != self:
		return employee.ErrMobileExists
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// normalizeWeekOffs title-cases names so "sunday" and "Sunday" store alike.
func normalizeWeekOffs(days []string) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		out = append(out, strings.ToUpper(d[:1])+strings.ToLower(d[1:]))
	}
	return out
}

func applyGeofence(g *employee.Geofence, req *employee.GeofenceRequest) {
	if req == nil {
		return
	}
	if req.OfficeStaff != nil {
		g.OfficeStaff = *req.OfficeStaff
	}
	if req.Latitude != nil {
		g.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		g.Longitude = req.Longitude
	}
	if req.RadiusMeters != nil {
		g.RadiusMeters = req.RadiusMeters
	}
}

func toResponse(e employee.Employee) employee.EmployeeResponse {
	weekOffs := e.WeekOffDays
	if weekOffs == nil {
		weekOffs = []string{}
	}

	resp := employee.EmployeeResponse{
		ID:                 e.ID,
		Name:               e.Name,
		Mobile:             e.Mobile,
		Email:              e.Email,
		HourlyRate:         e.HourlyRate.StringFixed(2),
		ShiftHours:         e.EffectiveShiftHours(),
		ScheduledIn:        e.EffectiveScheduledIn(),
		WeekOffDays:        weekOffs,
		OvertimeEnabled:    e.OvertimeEnabled,
		OvertimeMultiplier: e.EffectiveOvertimeMultiplier().String(),
		OfficeStaff:        e.Geofence.OfficeStaff,
		OfficeLatitude:     e.Geofence.Latitude,
		OfficeLongitude:    e.Geofence.Longitude,
		OfficeRadiusMeters: e.Geofence.RadiusMeters,
	}
	if !e.CreatedAt.IsZero() {
		resp.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	if !e.UpdatedAt.IsZero() {
		resp.UpdatedAt = e.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

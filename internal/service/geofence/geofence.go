// Package geofence decides whether a reported coordinate is close enough to an
// employee's office for a punch to be accepted.
package geofence

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

var (
	ErrOfficeLocationNotConfigured = errors.New("office location not configured")
	ErrLocationNotCaptured         = errors.New("location not captured")
	ErrOutOfRange                  = errors.New("you are out of location from office")
)

// OutOfRangeError carries the measured distance for logging. Its message is
// the same one shown to the employee.
type OutOfRangeError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *OutOfRangeError) Error() string {
	return ErrOutOfRange.Error()
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// Detail is the log form.
func (e *OutOfRangeError) Detail() string {
	return fmt.Sprintf("distance %.1fm exceeds radius %.1fm", e.DistanceMeters, e.RadiusMeters)
}

// Radius returns the configured radius, or the 200m default when unset or
// non-positive.
func Radius(g employee.Geofence) float64 {
	if g.RadiusMeters == nil || *g.RadiusMeters <= 0 {
		return employee.DefaultGeofenceRadius
	}
	return *g.RadiusMeters
}

// Check returns nil when the punch may proceed. Non office staff are never
// checked.
func Check(g employee.Geofence, at *attendance.Coordinate) error {
	if !g.OfficeStaff {
		return nil
	}
	if g.Latitude == nil || g.Longitude == nil {
		return ErrOfficeLocationNotConfigured
	}
	if at == nil {
		return ErrLocationNotCaptured
	}

	radius := Radius(g)
	distance := utils.CalculateHaversineDistance(*g.Latitude, *g.Longitude, at.Latitude, at.Longitude)
	if distance > radius {
		return &OutOfRangeError{DistanceMeters: distance, RadiusMeters: radius}
	}
	return nil
}

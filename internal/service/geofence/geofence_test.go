package geofence

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func office(radius *float64) employee.Geofence {
	return employee.Geofence{
		OfficeStaff:  true,
		Latitude:     ptr(13.0827),
		Longitude:    ptr(80.2707),
		RadiusMeters: radius,
	}
}

// north returns a coordinate the given number of meters north of the office.
func north(meters float64) *attendance.Coordinate {
	return &attendance.Coordinate{
		Latitude:  13.0827 + utils.MetersToLatitudeDegrees(meters),
		Longitude: 80.2707,
	}
}

func TestCheck_NotOfficeStaff(t *testing.T) {
	g := employee.Geofence{OfficeStaff: false}

	assert.NoError(t, Check(g, nil))
	assert.NoError(t, Check(g, &attendance.Coordinate{Latitude: 51.5, Longitude: -0.12}))
}

func TestCheck_OfficeNotConfigured(t *testing.T) {
	tests := []struct {
		name string
		g    employee.Geofence
	}{
		{"no latitude", employee.Geofence{OfficeStaff: true, Longitude: ptr(80.0)}},
		{"no longitude", employee.Geofence{OfficeStaff: true, Latitude: ptr(13.0)}},
		{"neither", employee.Geofence{OfficeStaff: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.g, north(0))
			assert.ErrorIs(t, err, ErrOfficeLocationNotConfigured)
			assert.Equal(t, "office location not configured", err.Error())
		})
	}
}

func TestCheck_LocationMissing(t *testing.T) {
	err := Check(office(nil), nil)
	assert.ErrorIs(t, err, ErrLocationNotCaptured)
}

func TestCheck_Radius(t *testing.T) {
	tests := []struct {
		name    string
		radius  *float64
		meters  float64
		allowed bool
	}{
		{"inside default radius", nil, 150, true},
		{"outside default radius", nil, 250, false},
		{"zero radius falls back to default", ptr(0.0), 150, true},
		{"negative radius falls back to default", ptr(-5.0), 250, false},
		{"custom radius allows farther", ptr(500.0), 450, true},
		{"custom radius rejects", ptr(100.0), 150, false},
		{"at the office", ptr(50.0), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(office(tt.radius), north(tt.meters))
			if tt.allowed {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrOutOfRange)
			assert.Equal(t, "you are out of location from office", err.Error())

			var oor *OutOfRangeError
			require.True(t, errors.As(err, &oor))
			assert.InDelta(t, tt.meters, oor.DistanceMeters, 0.5)
			assert.Equal(t, Radius(office(tt.radius)), oor.RadiusMeters)
		})
	}
}

func TestRadius(t *testing.T) {
	assert.Equal(t, 200.0, Radius(employee.Geofence{}))
	assert.Equal(t, 200.0, Radius(employee.Geofence{RadiusMeters: ptr(0.0)}))
	assert.Equal(t, 75.0, Radius(employee.Geofence{RadiusMeters: ptr(75.0)}))
}

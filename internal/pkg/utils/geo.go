package utils

import "math"

// EarthRadiusMeters is the mean earth radius used for the spherical approximation.
const EarthRadiusMeters = 6371000.0

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

// CalculateHaversineDistance returns the great-circle distance in meters between
// two points given in decimal degrees.
func CalculateHaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// MetersToLatitudeDegrees converts a north-south distance to degrees of latitude.
func MetersToLatitudeDegrees(meters float64) float64 {
	return meters / (EarthRadiusMeters * math.Pi / 180.0)
}

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

package utils

import (
	"math"
	"strconv"
	"strings"
)

// EarthRadiusMeters is the mean earth radius used for all distance checks.
const EarthRadiusMeters = 6371000

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// CalculateHaversineDistance returns the great-circle distance between two points in meters.
func CalculateHaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := math.Pi / 180.0

	dLat := (lat2 - lat1) * toRad
	dLon := (lon2 - lon1) * toRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1*toRad)*math.Cos(lat2*toRad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Distance is CalculateHaversineDistance over Coordinates.
func Distance(a, b Coordinate) float64 {
	return CalculateHaversineDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// RoundMeters rounds a distance to the nearest whole meter.
func RoundMeters(d float64) int {
	return int(math.Round(d))
}

// DecimalPlaces counts fractional digits in the shortest decimal form of v.
// 116.1 has 1, 116.159854 has 6, 116 has 0.
func DecimalPlaces(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(s) - i - 1
}

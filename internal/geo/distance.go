// internal/geo/distance.go
//
// Coordinate helpers backed by the S2 geometry library.
//
// Distances are great-circle distances on a sphere of EarthRadiusMeters.
// That is accurate to well under one percent, which is plenty for telling
// how far a truck pin moved between recomputations.
package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean Earth radius.
const EarthRadiusMeters = 6371008.8

// DistanceMeters returns the great-circle distance between two WGS84
// coordinates given in degrees.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lng1)
	b := s2.LatLngFromDegrees(lat2, lng2)
	return a.Distance(b).Radians() * EarthRadiusMeters
}

// ValidLatLng reports whether lat and lng are finite and inside
// [-90, 90] and [-180, 180].
func ValidLatLng(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// CellLevel is the S2 level used for pin cells (roughly 1 km² cells).
const CellLevel = 13

// CellToken returns the S2 cell token containing the coordinate at level.
// Pin logs and broker pin.updated events carry the CellLevel token.
func CellToken(lat, lng float64, level int) string {
	id := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng))
	return id.Parent(level).ToToken()
}

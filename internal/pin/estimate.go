// internal/pin/estimate.go
//
// Weighted position estimator.
//
// Every sample contributes weight
//
//	w = 2^(-ageMinutes / 30) * m,   m = +1 (create, confirm) or -0.5 (incorrect)
//
// and the estimate is the weighted mean of latitudes and longitudes.  A
// negative multiplier pushes the mean away from the disputed coordinate.
// When the summed weight is not positive the first sample is returned as
// an anchor, so callers should pass samples newest first.
//
// The function is pure: the reference instant is an argument.
package pin

import (
	"math"
	"sort"
	"time"
)

const (
	// HalfLife is the age at which a sample keeps half its influence.
	HalfLife = 30 * time.Minute

	// IncorrectWeight is the multiplier applied to incorrect reports.
	IncorrectWeight = -0.5
)

// Position is a WGS84 coordinate in degrees.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (t ReportType) multiplier() float64 {
	if t == TypeIncorrect {
		return IncorrectWeight
	}
	return 1
}

// Weight returns the signed influence of s at now.
func Weight(s Sample, now time.Time) float64 {
	age := now.Sub(s.CreatedAt).Minutes()
	return math.Exp2(-age/HalfLife.Minutes()) * s.Type.multiplier()
}

// Estimate returns the consensus coordinate of samples at now.  An empty
// slice yields the {0, 0} sentinel, which is not a usable position.
func Estimate(samples []Sample, now time.Time) Position {
	if len(samples) == 0 {
		return Position{}
	}

	var sumLat, sumLng, sumW float64
	for _, s := range samples {
		w := Weight(s, now)
		sumLat += s.Lat * w
		sumLng += s.Lng * w
		sumW += w
	}

	if sumW <= 0 {
		return Position{Lat: samples[0].Lat, Lng: samples[0].Lng}
	}
	return Position{Lat: sumLat / sumW, Lng: sumLng / sumW}
}

// SortNewestFirst orders samples by CreatedAt descending so the fallback
// anchor in Estimate is the most recent report.  Ties keep input order.
func SortNewestFirst(samples []Sample) {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].CreatedAt.After(samples[j].CreatedAt)
	})
}

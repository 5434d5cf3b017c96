package pin

import (
	"math"
	"testing"
	"time"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestEstimateSingleSample(t *testing.T) {
	got := Estimate([]Sample{{Lat: 10, Lng: 20, Type: TypeCreate, CreatedAt: t0}}, t0.Add(10*time.Minute))
	if !near(got.Lat, 10) || !near(got.Lng, 20) {
		t.Fatalf("got %+v, want {10 20}", got)
	}
}

func TestEstimateEqualWeightsMidpoint(t *testing.T) {
	samples := []Sample{
		{Lat: 10, Lng: 20, Type: TypeCreate, CreatedAt: t0},
		{Lat: 12, Lng: 22, Type: TypeConfirm, CreatedAt: t0},
	}
	got := Estimate(samples, t0)
	if !near(got.Lat, 11) || !near(got.Lng, 21) {
		t.Fatalf("got %+v, want {11 21}", got)
	}
}

func TestWeightHalvesEveryHalfLife(t *testing.T) {
	s := Sample{Type: TypeCreate, CreatedAt: t0}
	cases := map[time.Duration]float64{
		0:                1,
		30 * time.Minute: 0.5,
		60 * time.Minute: 0.25,
	}
	for age, want := range cases {
		if got := Weight(s, t0.Add(age)); !near(got, want) {
			t.Errorf("Weight at %v = %v, want %v", age, got, want)
		}
	}

	inc := Sample{Type: TypeIncorrect, CreatedAt: t0}
	if got := Weight(inc, t0); !near(got, -0.5) {
		t.Errorf("incorrect weight = %v, want -0.5", got)
	}
}

func TestEstimateNewerSampleDominates(t *testing.T) {
	samples := []Sample{
		{Lat: 10, Lng: 20, Type: TypeCreate, CreatedAt: t0},
		{Lat: 11, Lng: 21, Type: TypeConfirm, CreatedAt: t0.Add(5 * time.Minute)},
	}
	got := Estimate(samples, t0.Add(5*time.Minute))
	if got.Lat <= 10.5 || got.Lat >= 11 {
		t.Fatalf("lat %v not strictly between midpoint and newer sample", got.Lat)
	}
}

func TestEstimateIncorrectPushesAway(t *testing.T) {
	samples := []Sample{
		{Lat: 10, Lng: 20, Type: TypeCreate, CreatedAt: t0},
		{Lat: 10.01, Lng: 20, Type: TypeIncorrect, CreatedAt: t0},
	}
	got := Estimate(samples, t0)
	// (10*1 + 10.01*-0.5) / 0.5
	if !near(got.Lat, 9.99) {
		t.Fatalf("lat = %v, want 9.99", got.Lat)
	}
	if !near(got.Lng, 20) {
		t.Fatalf("lng = %v, want 20", got.Lng)
	}
}

func TestEstimateNonPositiveWeightFallsBackToFirst(t *testing.T) {
	samples := []Sample{
		{Lat: 1, Lng: 2, Type: TypeIncorrect, CreatedAt: t0},
		{Lat: 3, Lng: 4, Type: TypeIncorrect, CreatedAt: t0},
	}
	got := Estimate(samples, t0)
	if got != (Position{Lat: 1, Lng: 2}) {
		t.Fatalf("got %+v, want first sample", got)
	}

	// create at weight 1 cancelled exactly by two incorrects at -0.5
	samples = []Sample{
		{Lat: 5, Lng: 6, Type: TypeIncorrect, CreatedAt: t0},
		{Lat: 7, Lng: 8, Type: TypeCreate, CreatedAt: t0},
		{Lat: 9, Lng: 9, Type: TypeIncorrect, CreatedAt: t0},
	}
	if got := Estimate(samples, t0); got != (Position{Lat: 5, Lng: 6}) {
		t.Fatalf("zero-sum weights: got %+v, want first sample", got)
	}
}

func TestEstimateEmptyIsSentinel(t *testing.T) {
	if got := Estimate(nil, t0); got != (Position{}) {
		t.Fatalf("got %+v, want zero position", got)
	}
}

func TestSortNewestFirst(t *testing.T) {
	s := []Sample{
		{Lat: 1, CreatedAt: t0},
		{Lat: 3, CreatedAt: t0.Add(2 * time.Minute)},
		{Lat: 2, CreatedAt: t0.Add(time.Minute)},
	}
	SortNewestFirst(s)
	for i, want := range []float64{3, 2, 1} {
		if s[i].Lat != want {
			t.Fatalf("order = %+v", s)
		}
	}
}

package geo

import (
	"math"
	"strings"
	"testing"
)

func TestDistanceMeters(t *testing.T) {
	if d := DistanceMeters(10, 20, 10, 20); d != 0 {
		t.Fatalf("same point distance = %v", d)
	}

	// One degree of latitude is about 111.2 km.
	d := DistanceMeters(0, 0, 1, 0)
	if math.Abs(d-111195) > 200 {
		t.Fatalf("one degree = %v m", d)
	}
}

func TestValidLatLng(t *testing.T) {
	cases := []struct {
		lat, lng float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.0001, 0, false},
		{0, -180.5, false},
		{math.NaN(), 0, false},
		{0, math.Inf(1), false},
	}
	for _, c := range cases {
		if got := ValidLatLng(c.lat, c.lng); got != c.want {
			t.Errorf("ValidLatLng(%v, %v) = %v, want %v", c.lat, c.lng, got, c.want)
		}
	}
}

func TestCellTokenGroupsNearbyPoints(t *testing.T) {
	a := CellToken(-12.9714, -38.5014, 12)
	b := CellToken(-12.9715, -38.5013, 12)
	if a == "" || a != b {
		t.Fatalf("tokens %q and %q differ", a, b)
	}
}

func TestFeatureCollection(t *testing.T) {
	fc := FeatureCollection([]Point{
		{ID: "p1", Lat: -12.97, Lng: -38.5, Props: map[string]any{"artist": "Olodum", "reportCount": 3}},
	})
	if len(fc.Features) != 1 {
		t.Fatalf("features = %d", len(fc.Features))
	}
	f := fc.Features[0]
	if f.ID != "p1" || !f.Geometry.IsPoint() {
		t.Fatalf("feature = %+v", f)
	}
	if f.Geometry.Point[0] != -38.5 || f.Geometry.Point[1] != -12.97 {
		t.Fatalf("coordinates = %v, want [lng lat]", f.Geometry.Point)
	}
	if f.Properties["artist"] != "Olodum" {
		t.Fatalf("properties = %v", f.Properties)
	}

	raw, err := FeatureCollection(nil).MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if !strings.Contains(string(raw), `"features":[]`) {
		t.Fatalf("empty collection = %s", raw)
	}
}

package geo

import (
	geojson "github.com/paulmach/go.geojson"
)

// Point is one map marker with free-form properties.
type Point struct {
	ID    string
	Lat   float64
	Lng   float64
	Props map[string]any
}

// FeatureCollection renders points as GeoJSON Point features.  Coordinates
// follow the GeoJSON [lng, lat] order.  An empty input yields a collection
// with an empty features array.
func FeatureCollection(points []Point) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range points {
		f := geojson.NewPointFeature([]float64{p.Lng, p.Lat})
		f.ID = p.ID
		for k, v := range p.Props {
			f.SetProperty(k, v)
		}
		fc.AddFeature(f)
	}
	return fc
}

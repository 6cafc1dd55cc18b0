package pinlib

// FeatureCollection is a GeoJSON collection of points.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [lon, lat]
}

// BuildFeatureCollection converts points into GeoJSON. Features keep the
// order of points.
func BuildFeatureCollection(points []LocatedPoint) FeatureCollection {
	rv := FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]Feature, 0, len(points)),
	}

	for i, v := range points {
		rv.Features = append(rv.Features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{v.Longitude, v.Latitude},
			},
			Properties: map[string]interface{}{
				"name":         v.Name,
				"source_kind":  v.SourceKind.String(),
				"source_value": v.SourceValue,
				"color":        MarkerPalette[i%len(MarkerPalette)],
			},
		})
	}

	return rv
}

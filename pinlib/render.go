package pinlib

import "fmt"

const (
	// FallbackLatitude and FallbackLongitude point to Tokyo Station.
	FallbackLatitude  = 35.6812
	FallbackLongitude = 139.7671

	DefaultZoom = 10
	CloseZoom   = 12
	StreetZoom  = 15
)

// MarkerPalette is a cycle of marker colors. A color of the marker
// depends only on its position.
var MarkerPalette = []string{
	"red",
	"blue",
	"green",
	"purple",
	"orange",
	"darkred",
	"cadetblue",
	"darkgreen",
	"darkpurple",
	"pink",
}

var markerIcons = map[SourceKind]string{
	SourceIP:         "info-sign",
	SourceCityName:   "star",
	SourceCoordinate: "map-marker",
}

type Marker struct {
	Coordinate Coordinate `json:"coordinate"`
	Label      string     `json:"label"`
	Tooltip    string     `json:"tooltip"`
	Color      string     `json:"color"`
	Icon       string     `json:"icon"`
}

// RenderRequest describes what map widget has to draw. Bounds is set
// only if there is more than 1 marker, widget is expected to fit them.
type RenderRequest struct {
	Center  Coordinate `json:"center"`
	Zoom    int        `json:"zoom"`
	Bounds  *Bounds    `json:"bounds,omitempty"`
	Markers []Marker   `json:"markers"`
}

// BuildRenderRequest derives map parameters from the list of points.
// It has no side effects so rendering the same list twice gives the
// same result.
func BuildRenderRequest(points []LocatedPoint) RenderRequest {
	rv := RenderRequest{
		Center: Coordinate{
			Latitude:  FallbackLatitude,
			Longitude: FallbackLongitude,
		},
		Zoom:    DefaultZoom,
		Markers: make([]Marker, 0, len(points)),
	}

	for i := range points {
		rv.Markers = append(rv.Markers, buildMarker(i, points[i]))
	}

	switch len(points) {
	case 0:
	case 1:
		rv.Center = points[0].Coordinate()
		rv.Zoom = CloseZoom
	default:
		rv.Center, _ = centerOf(points)
		bounds, _ := boundsOf(points)
		rv.Bounds = &bounds
	}

	return rv
}

// BuildLocateRenderRequest renders a result of the single-point mode.
// Coordinates given by the user are shown closer than IP or place name
// results which are only approximate.
func BuildLocateRenderRequest(point LocatedPoint) RenderRequest {
	rv := BuildRenderRequest([]LocatedPoint{point})

	if point.SourceKind == SourceCoordinate {
		rv.Zoom = StreetZoom
	}

	return rv
}

func buildMarker(idx int, point LocatedPoint) Marker {
	return Marker{
		Coordinate: point.Coordinate(),
		Label:      MarkerLabel(point),
		Tooltip:    point.Name,
		Color:      MarkerPalette[idx%len(MarkerPalette)],
		Icon:       markerIcons[point.SourceKind],
	}
}

// MarkerLabel builds a text of the marker popup. Coordinates are
// rounded to 4 decimal places here, stored values are never rounded.
func MarkerLabel(point LocatedPoint) string {
	return fmt.Sprintf("%s\n%s: %s\n%.4f, %.4f",
		point.Name,
		point.SourceKind,
		point.SourceValue,
		roundTo(point.Latitude, 4),
		roundTo(point.Longitude, 4))
}

package pinlib

import "math"

// PointStore is an ordered collection of resolved points. Insertion
// order is a display order. It is not safe for concurrent use, Session
// serializes access to it.
type PointStore struct {
	points []LocatedPoint
}

func (p *PointStore) Append(point LocatedPoint) {
	p.points = append(p.points, point)
}

func (p *PointStore) Clear() {
	p.points = nil
}

// Replace drops everything from the store and puts given points
// instead.
func (p *PointStore) Replace(points []LocatedPoint) {
	p.points = append([]LocatedPoint(nil), points...)
}

// All returns a snapshot of stored points in insertion order.
func (p *PointStore) All() []LocatedPoint {
	rv := make([]LocatedPoint, len(p.points))
	copy(rv, p.points)

	return rv
}

func (p *PointStore) Len() int {
	return len(p.points)
}

// CenterOf returns arithmetic mean of latitudes and longitudes.
func (p *PointStore) CenterOf() (Coordinate, error) {
	return centerOf(p.points)
}

// BoundsOf returns a rectangle which covers all stored points.
func (p *PointStore) BoundsOf() (Bounds, error) {
	return boundsOf(p.points)
}

func centerOf(points []LocatedPoint) (Coordinate, error) {
	if len(points) == 0 {
		return Coordinate{}, ErrEmptyStore
	}

	var latSum, lonSum float64

	for i := range points {
		latSum += points[i].Latitude
		lonSum += points[i].Longitude
	}

	count := float64(len(points))

	return Coordinate{
		Latitude:  latSum / count,
		Longitude: lonSum / count,
	}, nil
}

func boundsOf(points []LocatedPoint) (Bounds, error) {
	if len(points) == 0 {
		return Bounds{}, ErrEmptyStore
	}

	rv := Bounds{
		SouthWest: points[0].Coordinate(),
		NorthEast: points[0].Coordinate(),
	}

	for _, v := range points[1:] {
		rv.SouthWest.Latitude = math.Min(rv.SouthWest.Latitude, v.Latitude)
		rv.SouthWest.Longitude = math.Min(rv.SouthWest.Longitude, v.Longitude)
		rv.NorthEast.Latitude = math.Max(rv.NorthEast.Latitude, v.Latitude)
		rv.NorthEast.Longitude = math.Max(rv.NorthEast.Longitude, v.Longitude)
	}

	return rv, nil
}

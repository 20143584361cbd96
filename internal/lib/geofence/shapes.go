package geofence

import (
	"math"

	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geo"
)

var geoUtils = geo.NewGeoUtils()

// PointInCircle reports whether a point lies within radiusMeters of center.
// A point exactly on the boundary counts as inside.
func PointInCircle(point, center geo.Point, radiusMeters float64) bool {
	distance, err := geoUtils.PointToPoint(point, center)
	if err != nil {
		return false
	}
	return distance <= radiusMeters
}

// PointInPolygon reports whether a point lies inside the polygon described
// by vertices, using ray casting over the (longitude, latitude) plane.
// Polygons with fewer than 3 vertices never contain anything. The ring is
// treated as closed; the first vertex does not need to be repeated.
//
// Boundary behavior follows the strict crossing test: points exactly on a
// vertex or edge are classified deterministically but may fall on either
// side depending on edge orientation.
func PointInPolygon(point geo.Point, vertices []geo.Point) bool {
	n := len(vertices)
	if n < 3 {
		return false
	}

	inside := false
	x := point.Longitude
	y := point.Latitude

	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := vertices[i].Longitude, vertices[i].Latitude
		xj, yj := vertices[j].Longitude, vertices[j].Latitude

		if (yi > y) != (yj > y) &&
			x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}

	return inside
}

// DistanceToPolygonEdge returns the minimum distance in meters from a point
// to any edge of the polygon, including the implicit closing edge. Returns
// +Inf for degenerate polygons.
func DistanceToPolygonEdge(point geo.Point, vertices []geo.Point) float64 {
	n := len(vertices)
	if n < 3 {
		return math.Inf(1)
	}

	minDistance := math.Inf(1)

	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		distance := geoUtils.PointToSegment(point, vertices[j], vertices[i])
		if distance < minDistance {
			minDistance = distance
		}
	}

	return minDistance
}

package geofence

import (
	"context"
	"math"

	"github.com/dpup/prefab/logging"

	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geo"
)

// Evaluator performs validation, containment and proximity checks for
// geofence definitions. It holds no per-fence state; fences are validated
// on demand and treated as immutable for the duration of a check.
type Evaluator struct {
	geoUtils geo.GeoUtils
}

// NewEvaluator creates a new geofence Evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{
		geoUtils: geo.NewGeoUtils(),
	}
}

// Validate checks a geofence definition and reports whether it is usable.
// It never fails hard: rejections are logged with a reason so a monitoring
// loop evaluating many fences per tick is not interrupted by one bad entry.
func (e *Evaluator) Validate(ctx context.Context, g Geofence) bool {
	if g.ID == "" {
		logging.Warnw(ctx, "Geofence rejected: empty id")
		return false
	}

	switch g.Type {
	case TypeCircle:
		if err := geo.ValidatePoint(g.Center); err != nil {
			logging.Warnw(ctx, "Geofence rejected: invalid center", "geofence_id", g.ID, "error", err)
			return false
		}
		if g.Radius <= 0 || math.IsNaN(g.Radius) {
			logging.Warnw(ctx, "Geofence rejected: radius must be positive", "geofence_id", g.ID, "radius", g.Radius)
			return false
		}
		return true

	case TypePolygon:
		if len(g.Coordinates) < 3 {
			logging.Warnw(ctx, "Geofence rejected: polygon needs at least 3 vertices",
				"geofence_id", g.ID, "vertices", len(g.Coordinates))
			return false
		}
		for i, vertex := range g.Coordinates {
			if err := geo.ValidatePoint(vertex); err != nil {
				logging.Warnw(ctx, "Geofence rejected: invalid vertex",
					"geofence_id", g.ID, "vertex", i, "error", err)
				return false
			}
		}
		return true

	default:
		logging.Warnw(ctx, "Geofence rejected: unknown type", "geofence_id", g.ID, "type", string(g.Type))
		return false
	}
}

// Contains reports whether a point lies inside the geofence. Unrecognized
// geofence types fail closed.
func (e *Evaluator) Contains(ctx context.Context, point geo.Point, g Geofence) bool {
	switch g.Type {
	case TypeCircle:
		return PointInCircle(point, g.Center, g.Radius)
	case TypePolygon:
		return PointInPolygon(point, g.Coordinates)
	default:
		logging.Warnw(ctx, "Containment check on unknown geofence type",
			"geofence_id", g.ID, "type", string(g.Type))
		return false
	}
}

// Center returns the nominal center of a geofence. Circles return their
// center directly; polygons return the arithmetic mean of their vertices,
// which is not a true area centroid but is close enough for small shapes.
func (e *Evaluator) Center(g Geofence) geo.Point {
	if g.Type == TypeCircle {
		return g.Center
	}

	if len(g.Coordinates) == 0 {
		return geo.Point{}
	}

	var sumLat, sumLng float64
	for _, vertex := range g.Coordinates {
		sumLat += vertex.Latitude
		sumLng += vertex.Longitude
	}
	n := float64(len(g.Coordinates))

	return geo.Point{Latitude: sumLat / n, Longitude: sumLng / n}
}

// ApproximateRadius returns the geofence's radius in meters. For polygons
// this is the maximum distance from the vertex centroid to any vertex.
func (e *Evaluator) ApproximateRadius(g Geofence) float64 {
	if g.Type == TypeCircle {
		return g.Radius
	}

	center := e.Center(g)
	maxDistance := 0.0
	for _, vertex := range g.Coordinates {
		distance, err := e.geoUtils.PointToPoint(center, vertex)
		if err != nil {
			continue
		}
		if distance > maxDistance {
			maxDistance = distance
		}
	}
	return maxDistance
}

// DistanceTo returns the distance in meters from a point to a geofence.
// For circles the result is signed: negative means the point is inside.
// For polygons the result is the unsigned distance to the nearest edge,
// even when the point is inside. Callers that need one convention must
// normalize themselves.
func (e *Evaluator) DistanceTo(point geo.Point, g Geofence) float64 {
	switch g.Type {
	case TypeCircle:
		distance, err := e.geoUtils.PointToPoint(point, g.Center)
		if err != nil {
			return math.Inf(1)
		}
		return distance - g.Radius
	case TypePolygon:
		return DistanceToPolygonEdge(point, g.Coordinates)
	default:
		return math.Inf(1)
	}
}

// Overlaps reports whether two geofences overlap. A fast reject compares
// center distance against the sum of approximate radii; the exact test then
// checks polygon vertices for containment in the other shape.
//
// Known limitation: two polygons whose edges cross without either having a
// vertex inside the other are reported as non-overlapping. Detecting that
// case needs pairwise segment-intersection tests.
func (e *Evaluator) Overlaps(ctx context.Context, g1, g2 Geofence) bool {
	center1 := e.Center(g1)
	center2 := e.Center(g2)

	centerDistance, err := e.geoUtils.PointToPoint(center1, center2)
	if err != nil {
		logging.Warnw(ctx, "Overlap check with invalid centers",
			"geofence_1", g1.ID, "geofence_2", g2.ID, "error", err)
		return false
	}

	if centerDistance > e.ApproximateRadius(g1)+e.ApproximateRadius(g2) {
		return false
	}

	if g1.Type == TypeCircle && g2.Type == TypeCircle {
		// Fast reject already did the exact circle test
		return true
	}

	// A polygon overlaps a shape when any of its vertices is contained
	if g1.Type == TypePolygon {
		for _, vertex := range g1.Coordinates {
			if e.Contains(ctx, vertex, g2) {
				return true
			}
		}
	}
	if g2.Type == TypePolygon {
		for _, vertex := range g2.Coordinates {
			if e.Contains(ctx, vertex, g1) {
				return true
			}
		}
	}

	return false
}

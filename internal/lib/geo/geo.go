package geo

import (
	"errors"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used by every distance helper
// in this module. All callers must share this constant; mixing radii across
// call sites produces distances that disagree by ~0.02%.
const EarthRadiusMeters = 6371000.0

// geoUtils implements the GeoUtils interface
type geoUtils struct{}

// NewGeoUtils creates a new GeoUtils implementation
func NewGeoUtils() GeoUtils {
	return &geoUtils{}
}

// PointToPoint calculates great-circle distance between two points using Haversine formula
func (g *geoUtils) PointToPoint(p1, p2 Point) (float64, error) {
	// Validate coordinates
	if !isValidCoordinate(p1) || !isValidCoordinate(p2) {
		return 0, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}

	// If points are the same, distance is 0
	if p1.Latitude == p2.Latitude && p1.Longitude == p2.Longitude {
		return 0, nil
	}

	// Convert degrees to radians
	lat1 := p1.Latitude * math.Pi / 180
	lat2 := p2.Latitude * math.Pi / 180

	// Haversine formula
	dlat := (p2.Latitude - p1.Latitude) * math.Pi / 180
	dlon := (p2.Longitude - p1.Longitude) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c, nil
}

// Bearing calculates the initial great-circle bearing from one point toward
// another, in degrees normalized into [0, 360)
func (g *geoUtils) Bearing(from, to Point) (float64, error) {
	if !isValidCoordinate(from) || !isValidCoordinate(to) {
		return 0, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}

	lat1 := from.Latitude * math.Pi / 180
	lat2 := to.Latitude * math.Pi / 180
	dlon := (to.Longitude - from.Longitude) * math.Pi / 180

	y := math.Sin(dlon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dlon)

	bearing := math.Atan2(y, x) * 180 / math.Pi

	// Normalize into [0, 360)
	bearing = math.Mod(bearing+360, 360)
	return bearing, nil
}

// Midpoint calculates the spherical midpoint between two points using the
// standard 3D-vector intermediate-point formula
func (g *geoUtils) Midpoint(p1, p2 Point) (Point, error) {
	if !isValidCoordinate(p1) || !isValidCoordinate(p2) {
		return Point{}, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}

	lat1 := p1.Latitude * math.Pi / 180
	lat2 := p2.Latitude * math.Pi / 180
	lon1 := p1.Longitude * math.Pi / 180
	dlon := (p2.Longitude - p1.Longitude) * math.Pi / 180

	bx := math.Cos(lat2) * math.Cos(dlon)
	by := math.Cos(lat2) * math.Sin(dlon)

	midLat := math.Atan2(
		math.Sin(lat1)+math.Sin(lat2),
		math.Sqrt((math.Cos(lat1)+bx)*(math.Cos(lat1)+bx)+by*by),
	)
	midLon := lon1 + math.Atan2(by, math.Cos(lat1)+bx)

	return NormalizePoint(Point{
		Latitude:  midLat * 180 / math.Pi,
		Longitude: midLon * 180 / math.Pi,
	}), nil
}

// BoundingBox builds an approximate bounding box around a center point using
// a planar degrees-per-meter conversion. Latitude bounds are clamped to
// [-90, 90]; longitude bounds are NOT wrapped, so a box spanning the
// antimeridian produces West > East and must be tested with WithinBounds.
func (g *geoUtils) BoundingBox(center Point, radiusMeters float64) (Bounds, error) {
	if !isValidCoordinate(center) {
		return Bounds{}, errors.New("invalid center point coordinates")
	}
	if radiusMeters < 0 {
		return Bounds{}, errors.New("radius must be non-negative")
	}

	latDelta := (radiusMeters / EarthRadiusMeters) * 180 / math.Pi

	// Degrees of longitude shrink with the cosine of latitude
	lonDelta := latDelta
	if cosLat := math.Cos(center.Latitude * math.Pi / 180); cosLat > 1e-12 {
		lonDelta = latDelta / cosLat
	}

	return Bounds{
		North: math.Min(center.Latitude+latDelta, 90),
		South: math.Max(center.Latitude-latDelta, -90),
		East:  center.Longitude + lonDelta,
		West:  center.Longitude - lonDelta,
	}, nil
}

// WithinBounds checks whether a point falls within a bounding box. When the
// box crosses the antimeridian (West > East) the longitude test becomes
// disjunctive: a point is inside when it is east of West OR west of East.
func (g *geoUtils) WithinBounds(point Point, bounds Bounds) bool {
	if point.Latitude < bounds.South || point.Latitude > bounds.North {
		return false
	}

	if bounds.West > bounds.East {
		return point.Longitude >= bounds.West || point.Longitude <= bounds.East
	}
	return point.Longitude >= bounds.West && point.Longitude <= bounds.East
}

// PointToSegment calculates the distance in meters from a point to a line
// segment by projecting in the lat/lng plane with a clamped parameter. The
// planar treatment is an approximation that holds for short segments only;
// it is not geodesically exact.
func (g *geoUtils) PointToSegment(point, segStart, segEnd Point) float64 {
	dx := segEnd.Longitude - segStart.Longitude
	dy := segEnd.Latitude - segStart.Latitude

	// Degenerate segment collapses to a point
	if dx == 0 && dy == 0 {
		distance, _ := g.PointToPoint(point, segStart)
		return distance
	}

	t := ((point.Longitude-segStart.Longitude)*dx + (point.Latitude-segStart.Latitude)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))

	projection := Point{
		Latitude:  segStart.Latitude + t*dy,
		Longitude: segStart.Longitude + t*dx,
	}

	distance, err := g.PointToPoint(point, projection)
	if err != nil {
		// Projection of valid endpoints stays in range; an error here means
		// the query point itself was invalid
		return math.Inf(1)
	}
	return distance
}

// FilterPointsByDistance filters points to those within specified distance of center point
func (g *geoUtils) FilterPointsByDistance(points []Point, center Point, maxDistanceMeters float64) ([]Point, error) {
	if !isValidCoordinate(center) {
		return nil, errors.New("invalid center point coordinates")
	}

	var filteredPoints []Point

	for _, point := range points {
		if !isValidCoordinate(point) {
			continue // Skip invalid points
		}

		distance, err := g.PointToPoint(center, point)
		if err != nil {
			continue // Skip points that cause calculation errors
		}

		if distance <= maxDistanceMeters {
			filteredPoints = append(filteredPoints, point)
		}
	}

	return filteredPoints, nil
}

// DistanceFromCoords calculates distance between two coordinate pairs
// Convenience method for raw latitude/longitude values
func (g *geoUtils) DistanceFromCoords(lat1, lon1, lat2, lon2 float64) (float64, error) {
	point1 := Point{Latitude: lat1, Longitude: lon1}
	point2 := Point{Latitude: lat2, Longitude: lon2}

	return g.PointToPoint(point1, point2)
}

// Coordinate Conversion Utilities

// NewPoint creates a Point from latitude and longitude values with validation
func NewPoint(latitude, longitude float64) (Point, error) {
	point := Point{Latitude: latitude, Longitude: longitude}
	if !isValidCoordinate(point) {
		return Point{}, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}
	return point, nil
}

// NewPointUnsafe creates a Point without validation (for performance-critical paths)
func NewPointUnsafe(latitude, longitude float64) Point {
	return Point{Latitude: latitude, Longitude: longitude}
}

// ValidatePoint performs a strict range check and fails on violation.
// Use NormalizePoint instead when a total function is required.
func ValidatePoint(p Point) error {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) {
		return errors.New("invalid coordinates: latitude and longitude must be numbers")
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return errors.New("invalid latitude: must be between -90 and 90")
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return errors.New("invalid longitude: must be between -180 and 180")
	}
	return nil
}

// NormalizePoint clamps latitude into [-90, 90] and wraps longitude into
// [-180, 180). Never fails; idempotent.
func NormalizePoint(p Point) Point {
	lat := math.Max(-90, math.Min(90, p.Latitude))

	lon := math.Mod(p.Longitude+180, 360)
	if lon < 0 {
		lon += 360
	}
	lon -= 180

	return Point{Latitude: lat, Longitude: lon}
}

// isValidCoordinate validates latitude and longitude values
func isValidCoordinate(point Point) bool {
	return point.Latitude >= -90 && point.Latitude <= 90 &&
		point.Longitude >= -180 && point.Longitude <= 180
}

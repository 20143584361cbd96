package geo

// Point represents a geographic coordinate
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Bounds represents a latitude/longitude aligned bounding box.
// West may be greater than East when the box crosses the antimeridian.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// GeoUtils interface defines geographic calculation utilities
type GeoUtils interface {
	// Calculate great-circle distance between two points in meters
	PointToPoint(p1, p2 Point) (float64, error)

	// Calculate initial great-circle bearing from one point toward another,
	// normalized into [0, 360) degrees
	Bearing(from, to Point) (float64, error)

	// Calculate the spherical midpoint between two points
	Midpoint(p1, p2 Point) (Point, error)

	// Build an approximate bounding box around a center point
	BoundingBox(center Point, radiusMeters float64) (Bounds, error)

	// Check whether a point falls within a bounding box, handling boxes
	// that cross the antimeridian
	WithinBounds(point Point, bounds Bounds) bool

	// Calculate approximate distance from point to a line segment in meters
	PointToSegment(point, segStart, segEnd Point) float64

	// Filter points to those within specified distance of center point
	FilterPointsByDistance(points []Point, center Point, maxDistanceMeters float64) ([]Point, error)

	// Calculate distance between coordinate pairs (convenience method)
	DistanceFromCoords(lat1, lon1, lat2, lon2 float64) (float64, error)
}

// NewGeoUtils is implemented in geo.go

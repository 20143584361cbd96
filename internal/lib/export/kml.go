package export

import (
	"fmt"
	"io"
	"math"

	"github.com/twpayne/go-kml"

	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geo"
)

// circleSegments controls how finely circles are approximated as rings
const circleSegments = 64

// WriteKML renders the document as a KML file
func WriteKML(w io.Writer, doc Document) error {
	var elements []kml.Element
	if doc.Name != "" {
		elements = append(elements, kml.Name(doc.Name))
	}

	for _, marker := range doc.Markers {
		elements = append(elements, markerPlacemark(marker))
	}
	for _, line := range doc.Polylines {
		elements = append(elements, polylinePlacemark(line))
	}
	for _, polygon := range doc.Polygons {
		elements = append(elements, polygonPlacemark(polygon.ID, polygon.Title, closeRing(polygon.Coordinates)))
	}
	for _, circle := range doc.Circles {
		elements = append(elements, polygonPlacemark(circle.ID, circle.Title, circleRing(circle)))
	}

	k := kml.KML(kml.Document(elements...))
	return k.WriteIndent(w, "", "  ")
}

func markerPlacemark(marker Marker) kml.Element {
	children := []kml.Element{kml.Name(placemarkName(marker.ID, marker.Title))}
	if marker.Description != "" {
		children = append(children, kml.Description(marker.Description))
	}
	children = append(children, kml.Point(
		kml.Coordinates(toKMLCoordinate(marker.Coordinate)),
	))
	return kml.Placemark(children...)
}

func polylinePlacemark(line Polyline) kml.Element {
	return kml.Placemark(
		kml.Name(placemarkName(line.ID, line.Title)),
		kml.LineString(
			kml.Tessellate(true),
			kml.Coordinates(toKMLCoordinates(line.Coordinates)...),
		),
	)
}

func polygonPlacemark(id, title string, ring []geo.Point) kml.Element {
	return kml.Placemark(
		kml.Name(placemarkName(id, title)),
		kml.Polygon(
			kml.OuterBoundaryIs(
				kml.LinearRing(
					kml.Coordinates(toKMLCoordinates(ring)...),
				),
			),
		),
	)
}

func placemarkName(id, title string) string {
	if title != "" {
		return title
	}
	return id
}

func toKMLCoordinate(point geo.Point) kml.Coordinate {
	return kml.Coordinate{Lon: point.Longitude, Lat: point.Latitude}
}

func toKMLCoordinates(points []geo.Point) []kml.Coordinate {
	coordinates := make([]kml.Coordinate, len(points))
	for i, point := range points {
		coordinates[i] = toKMLCoordinate(point)
	}
	return coordinates
}

// closeRing appends the first vertex at the end when the ring isn't
// already closed. KML and GeoJSON both want explicit closure.
func closeRing(points []geo.Point) []geo.Point {
	if len(points) == 0 {
		return points
	}
	first, last := points[0], points[len(points)-1]
	if first == last {
		return points
	}
	closed := make([]geo.Point, len(points)+1)
	copy(closed, points)
	closed[len(points)] = first
	return closed
}

// circleRing approximates a circle as a closed ring of vertices. The
// planar approximation is fine at overlay radii; it degrades near the
// poles like every equirectangular trick does.
func circleRing(circle Circle) []geo.Point {
	ring := make([]geo.Point, 0, circleSegments+1)
	latRad := circle.Center.Latitude * math.Pi / 180
	angular := circle.Radius / geo.EarthRadiusMeters * 180 / math.Pi

	for i := 0; i < circleSegments; i++ {
		theta := 2 * math.Pi * float64(i) / circleSegments
		lat := circle.Center.Latitude + angular*math.Cos(theta)
		lon := circle.Center.Longitude + angular*math.Sin(theta)/math.Cos(latRad)
		ring = append(ring, geo.NormalizePoint(geo.Point{Latitude: lat, Longitude: lon}))
	}
	return closeRing(ring)
}

// RouteDocument wraps a single route path as an exportable document
func RouteDocument(id string, coordinates []geo.Point) (Document, error) {
	if len(coordinates) < 2 {
		return Document{}, fmt.Errorf("route %s needs at least 2 coordinates, got %d", id, len(coordinates))
	}
	return Document{
		Name: id,
		Polylines: []Polyline{
			{ID: id, Coordinates: coordinates},
		},
	}, nil
}

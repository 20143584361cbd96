package export

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ToGeoJSON renders the document as a GeoJSON FeatureCollection. Circles
// have no native GeoJSON geometry, so they become Point features with a
// "radius" property in meters, which most consumers understand.
func ToGeoJSON(doc Document) ([]byte, error) {
	collection := geojson.NewFeatureCollection()

	for _, marker := range doc.Markers {
		feature := geojson.NewFeature(orb.Point{marker.Coordinate.Longitude, marker.Coordinate.Latitude})
		feature.ID = marker.ID
		feature.Properties["kind"] = "marker"
		if marker.Title != "" {
			feature.Properties["title"] = marker.Title
		}
		if marker.Description != "" {
			feature.Properties["description"] = marker.Description
		}
		collection.Append(feature)
	}

	for _, line := range doc.Polylines {
		lineString := make(orb.LineString, len(line.Coordinates))
		for i, point := range line.Coordinates {
			lineString[i] = orb.Point{point.Longitude, point.Latitude}
		}
		feature := geojson.NewFeature(lineString)
		feature.ID = line.ID
		feature.Properties["kind"] = "polyline"
		if line.Title != "" {
			feature.Properties["title"] = line.Title
		}
		collection.Append(feature)
	}

	for _, polygon := range doc.Polygons {
		closed := closeRing(polygon.Coordinates)
		ring := make(orb.Ring, len(closed))
		for i, point := range closed {
			ring[i] = orb.Point{point.Longitude, point.Latitude}
		}
		feature := geojson.NewFeature(orb.Polygon{ring})
		feature.ID = polygon.ID
		feature.Properties["kind"] = "polygon"
		if polygon.Title != "" {
			feature.Properties["title"] = polygon.Title
		}
		collection.Append(feature)
	}

	for _, circle := range doc.Circles {
		feature := geojson.NewFeature(orb.Point{circle.Center.Longitude, circle.Center.Latitude})
		feature.ID = circle.ID
		feature.Properties["kind"] = "circle"
		feature.Properties["radius"] = circle.Radius
		if circle.Title != "" {
			feature.Properties["title"] = circle.Title
		}
		collection.Append(feature)
	}

	return collection.MarshalJSON()
}

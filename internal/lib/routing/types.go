package routing

import (
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geo"
)

// GeometryFormat identifies how a routing response encodes route geometry
type GeometryFormat string

const (
	// GeometryPolyline is the encoded polyline5 format (OSRM default)
	GeometryPolyline GeometryFormat = "polyline"
	// GeometryGeoJSON carries explicit [lng, lat] coordinate pairs
	GeometryGeoJSON GeometryFormat = "geojson"
)

// Route represents a computed route ready for display and narration
type Route struct {
	Coordinates []geo.Point `json:"coordinates"`
	Distance    float64     `json:"distance"` // meters
	Duration    float64     `json:"duration"` // seconds
	Steps       []Step      `json:"steps"`
}

// Step represents one maneuver along a route, in traversal order
type Step struct {
	Instruction string    `json:"instruction"`
	Distance    float64   `json:"distance"` // meters
	Duration    float64   `json:"duration"` // seconds
	Coordinate  geo.Point `json:"coordinate"`
}

// RouteResponse models one route object of an OSRM route/v1 response.
// Geometry is either an encoded polyline string or a GeoJSON LineString
// depending on the request's geometries parameter.
type RouteResponse struct {
	Geometry RouteGeometry   `json:"geometry"`
	Legs     []LegResponse   `json:"legs"`
	Distance float64         `json:"distance"`
	Duration float64         `json:"duration"`
}

// LegResponse models one leg of an OSRM route
type LegResponse struct {
	Steps    []StepResponse `json:"steps"`
	Distance float64        `json:"distance"`
	Duration float64        `json:"duration"`
}

// StepResponse models one step of an OSRM leg
type StepResponse struct {
	Maneuver Maneuver `json:"maneuver"`
	Distance float64  `json:"distance"`
	Duration float64  `json:"duration"`
	Name     string   `json:"name"`
}

// Maneuver models an OSRM step maneuver. Location is [lng, lat].
type Maneuver struct {
	Type     string    `json:"type"`
	Modifier string    `json:"modifier,omitempty"`
	Location []float64 `json:"location"`
}

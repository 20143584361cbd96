package routing

import (
	"encoding/json"
	"fmt"

	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geo"
)

// RouteGeometry holds route geometry in whichever form the routing service
// returned it: an encoded polyline string or a GeoJSON LineString.
type RouteGeometry struct {
	Encoded     string
	Coordinates [][]float64 // [lng, lat] pairs
}

// UnmarshalJSON accepts either a JSON string (encoded polyline) or a
// GeoJSON geometry object with a coordinates array.
func (g *RouteGeometry) UnmarshalJSON(data []byte) error {
	var encoded string
	if err := json.Unmarshal(data, &encoded); err == nil {
		g.Encoded = encoded
		return nil
	}

	var geojson struct {
		Type        string      `json:"type"`
		Coordinates [][]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &geojson); err != nil {
		return fmt.Errorf("geometry is neither an encoded polyline nor GeoJSON: %w", err)
	}

	g.Coordinates = geojson.Coordinates
	return nil
}

// MarshalJSON restores the wire form the geometry was parsed from
func (g RouteGeometry) MarshalJSON() ([]byte, error) {
	if g.Encoded != "" {
		return json.Marshal(g.Encoded)
	}
	return json.Marshal(struct {
		Type        string      `json:"type"`
		Coordinates [][]float64 `json:"coordinates"`
	}{Type: "LineString", Coordinates: g.Coordinates})
}

// ConvertRouteResponse converts one routing-service route into a Route.
// Coordinates come from the encoded polyline or the explicit GeoJSON pairs
// depending on format; every leg's steps are flattened into a single
// ordered sequence with generated instructions.
//
// A truncated polyline is surfaced as an error with the partial route still
// populated, so callers can decide whether to display it.
func ConvertRouteResponse(raw RouteResponse, format GeometryFormat) (Route, error) {
	route := Route{
		Distance: raw.Distance,
		Duration: raw.Duration,
	}

	var geomErr error
	switch format {
	case GeometryGeoJSON:
		route.Coordinates = make([]geo.Point, 0, len(raw.Geometry.Coordinates))
		for _, pair := range raw.Geometry.Coordinates {
			if len(pair) < 2 {
				continue
			}
			// GeoJSON order is [lng, lat]
			route.Coordinates = append(route.Coordinates, geo.Point{
				Latitude:  pair[1],
				Longitude: pair[0],
			})
		}

	case GeometryPolyline:
		route.Coordinates, geomErr = DecodePolyline(raw.Geometry.Encoded)

	default:
		return Route{}, fmt.Errorf("unsupported geometry format: %q", format)
	}

	for _, leg := range raw.Legs {
		for _, step := range leg.Steps {
			converted := Step{
				Instruction: GenerateInstruction(step.Maneuver.Type, step.Maneuver.Modifier),
				Distance:    step.Distance,
				Duration:    step.Duration,
			}
			if len(step.Maneuver.Location) >= 2 {
				converted.Coordinate = geo.Point{
					Latitude:  step.Maneuver.Location[1],
					Longitude: step.Maneuver.Location[0],
				}
			}
			route.Steps = append(route.Steps, converted)
		}
	}

	if geomErr != nil {
		return route, fmt.Errorf("route geometry: %w", geomErr)
	}
	return route, nil
}

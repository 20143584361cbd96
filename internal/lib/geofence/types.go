package geofence

import (
	"time"

	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geo"
)

// Type identifies the shape of a geofence
type Type string

const (
	TypeCircle  Type = "circle"
	TypePolygon Type = "polygon"
)

// Geofence represents a circular or polygonal region used for containment
// and proximity checks. Exactly one of the shape-specific field sets is
// meaningful, selected by Type: circles use Center and Radius, polygons use
// Coordinates (an open ring of at least 3 vertices; the closing edge back
// to the first vertex is implicit).
type Geofence struct {
	ID          string      `json:"id"`
	Type        Type        `json:"type"`
	Center      geo.Point   `json:"center,omitempty"`
	Radius      float64     `json:"radius,omitempty"` // meters
	Coordinates []geo.Point `json:"coordinates,omitempty"`
}

// NewCircle creates a circular geofence
func NewCircle(id string, center geo.Point, radiusMeters float64) Geofence {
	return Geofence{ID: id, Type: TypeCircle, Center: center, Radius: radiusMeters}
}

// NewPolygon creates a polygonal geofence from an open vertex ring
func NewPolygon(id string, coordinates []geo.Point) Geofence {
	return Geofence{ID: id, Type: TypePolygon, Coordinates: coordinates}
}

// EventType identifies a geofence transition observed by the monitor
type EventType string

const (
	EventEnter EventType = "enter"
	EventExit  EventType = "exit"
	EventDwell EventType = "dwell"
)

// Event records a single geofence transition for one location update
type Event struct {
	GeofenceID string    `json:"geofence_id"`
	Type       EventType `json:"type"`
	Location   geo.Point `json:"location"`
	Timestamp  time.Time `json:"timestamp"`
}

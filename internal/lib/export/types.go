// Package export renders map overlays as KML or GeoJSON documents for use
// in external tools.
package export

import (
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geo"
)

// Marker is a single labelled point overlay
type Marker struct {
	ID          string    `json:"id"`
	Coordinate  geo.Point `json:"coordinate"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Polyline is an ordered path overlay, such as a computed route
type Polyline struct {
	ID          string      `json:"id"`
	Coordinates []geo.Point `json:"coordinates"`
	Title       string      `json:"title,omitempty"`
}

// Polygon is a closed area overlay. The ring is given unclosed; exporters
// close it themselves where the output format requires it.
type Polygon struct {
	ID          string      `json:"id"`
	Coordinates []geo.Point `json:"coordinates"`
	Title       string      `json:"title,omitempty"`
}

// Circle is a center-plus-radius overlay
type Circle struct {
	ID     string    `json:"id"`
	Center geo.Point `json:"center"`
	Radius float64   `json:"radius"`
	Title  string    `json:"title,omitempty"`
}

// Document is a collection of overlays to export together
type Document struct {
	Name      string     `json:"name,omitempty"`
	Markers   []Marker   `json:"markers,omitempty"`
	Polylines []Polyline `json:"polylines,omitempty"`
	Polygons  []Polygon  `json:"polygons,omitempty"`
	Circles   []Circle   `json:"circles,omitempty"`
}

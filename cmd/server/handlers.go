package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/clients/nominatim"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/clients/osrm"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/export"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geo"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geofence"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/gesture"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/services"
)

type handlers struct {
	directions *services.DirectionsService
	geocoding  *services.GeocodingService
	monitor    *services.GeofenceMonitor
	resolver   *gesture.Resolver
}

func newHandlers(directions *services.DirectionsService, geocoding *services.GeocodingService, monitor *services.GeofenceMonitor, resolver *gesture.Resolver) *handlers {
	return &handlers{
		directions: directions,
		geocoding:  geocoding,
		monitor:    monitor,
		resolver:   resolver,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// route computes directions. POST with a JSON body of coordinates.
func (h *handlers) route(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}

	var req services.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	result, err := h.directions.GetRoute(r.Context(), req)
	if err != nil {
		if errors.Is(err, osrm.ErrNoRoute) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// geocode resolves a place name. GET with q and optional limit params.
func (h *handlers) geocode(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing q parameter"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := h.geocoding.Search(r.Context(), query, limit)
	if err != nil {
		if errors.Is(err, nominatim.ErrNoResults) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// reverseGeocode resolves a coordinate to a place. GET with lat/lng params.
func (h *handlers) reverseGeocode(w http.ResponseWriter, r *http.Request) {
	point, err := parsePointParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.geocoding.Reverse(r.Context(), point)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// geofences lists registered geofences on GET, registers one on POST and
// removes one on DELETE (by id parameter).
func (h *handlers) geofences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"geofences": h.monitor.Geofences()})

	case http.MethodPost:
		var fence geofence.Geofence
		if err := json.NewDecoder(r.Body).Decode(&fence); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
		if err := h.monitor.AddGeofence(r.Context(), fence); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusCreated, fence)

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, fmt.Errorf("missing id parameter"))
			return
		}
		h.monitor.RemoveGeofence(id)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	}
}

// checkGeofences reports which geofences contain a point without affecting
// monitor state. GET with lat/lng params.
func (h *handlers) checkGeofences(w http.ResponseWriter, r *http.Request) {
	point, err := parsePointParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ids, err := h.monitor.CheckPoint(r.Context(), point)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"inside": ids})
}

// updateLocation feeds a location fix into the geofence monitor and returns
// the transition events it produced. POST with a JSON coordinate body.
func (h *handlers) updateLocation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}

	var location geo.Point
	if err := json.NewDecoder(r.Body).Decode(&location); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	events, err := h.monitor.UpdateLocation(r.Context(), location)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if events == nil {
		events = []geofence.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// gestures exposes the gesture registry for debugging: active gestures and
// recent conflict resolutions.
func (h *handlers) gestures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"active":  h.resolver.ActiveGestures(),
		"history": h.resolver.History(),
	})
}

// export renders overlays posted as a JSON document. The format parameter
// selects kml or geojson output.
func (h *handlers) export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}

	var doc export.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	switch r.URL.Query().Get("format") {
	case "kml":
		w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
		if err := export.WriteKML(w, doc); err != nil {
			slog.Error("Failed to write KML", "error", err)
		}
	case "geojson", "":
		data, err := export.ToGeoJSON(doc)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		if _, err := w.Write(data); err != nil {
			slog.Error("Failed to write GeoJSON", "error", err)
		}
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported format: %s", r.URL.Query().Get("format")))
	}
}

func parsePointParams(r *http.Request) (geo.Point, error) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid lat parameter")
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid lng parameter")
	}
	return geo.NewPoint(lat, lng)
}

// homepage serves a simple HTML index at the server root
func (h *handlers) homepage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	html := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>OSM Map Engine</title>
    <style>
        body {
            font-family: 'Courier New', Consolas, monospace;
            background: #000;
            color: #0f0;
            padding: 20px;
            line-height: 1.4;
        }
        a { color: #0ff; text-decoration: none; }
        a:hover { text-decoration: underline; }
        pre { margin: 0; }
        .header { color: #ff0; }
    </style>
</head>
<body>
<pre>
<span class="header">OSM Map Engine</span>

Geospatial utility server: routing, geocoding, geofencing and overlay
export backed by OpenStreetMap services.

<span class="header">API Endpoints:</span>

Routing:
  POST /api/v1/route                  - Compute a route through coordinates

Geocoding:
  <a href="/api/v1/geocode?q=berlin">GET /api/v1/geocode?q=...</a>           - Search for places
  <a href="/api/v1/geocode/reverse?lat=52.52&amp;lng=13.41">GET /api/v1/geocode/reverse</a>         - Coordinate to place

Geofencing:
  <a href="/api/v1/geofences">GET /api/v1/geofences</a>               - List registered geofences
  POST /api/v1/geofences              - Register a geofence
  <a href="/api/v1/geofences/check?lat=52.52&amp;lng=13.41">GET /api/v1/geofences/check</a>         - Containment check
  POST /api/v1/location               - Feed a location fix

Gestures:
  <a href="/api/v1/gestures">GET /api/v1/gestures</a>                - Active gestures and resolutions

Export:
  POST /api/v1/export?format=kml      - Overlays as KML
  POST /api/v1/export?format=geojson  - Overlays as GeoJSON

<span class="header">Data Sources:</span>
  • OSRM       - Route computation
  • Nominatim  - Forward and reverse geocoding
</pre>
</body>
</html>`

	if _, err := fmt.Fprint(w, html); err != nil {
		slog.Error("Failed to write homepage HTML", "error", err)
	}
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/dpup/prefab/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/config"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geo"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geofence"
)

func testMonitor(now *time.Time) *GeofenceMonitor {
	cfg := config.DefaultConfig()
	cfg.Geofencing.DwellThreshold = 30 * time.Second
	monitor := NewGeofenceMonitor(geofence.NewEvaluator(), cfg)
	monitor.now = func() time.Time { return *now }
	return monitor
}

func eventTypes(events []geofence.Event) []geofence.EventType {
	types := make([]geofence.EventType, len(events))
	for i, event := range events {
		types[i] = event.Type
	}
	return types
}

func TestMonitorEnterExit(t *testing.T) {
	ctx := logging.EnsureLogger(context.Background())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	monitor := testMonitor(&now)

	fence := geofence.NewCircle("home", geo.Point{Latitude: 37.0, Longitude: -122.0}, 500)
	require.NoError(t, monitor.AddGeofence(ctx, fence))

	// Far outside, no events
	events, err := monitor.UpdateLocation(ctx, geo.Point{Latitude: 38.0, Longitude: -122.0})
	require.NoError(t, err)
	assert.Empty(t, events)

	// Move to the center
	events, err = monitor.UpdateLocation(ctx, geo.Point{Latitude: 37.0, Longitude: -122.0})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, geofence.EventEnter, events[0].Type)
	assert.Equal(t, "home", events[0].GeofenceID)
	assert.Equal(t, now, events[0].Timestamp)

	// Staying inside is quiet until the dwell threshold
	now = now.Add(time.Second)
	events, err = monitor.UpdateLocation(ctx, geo.Point{Latitude: 37.0, Longitude: -122.0})
	require.NoError(t, err)
	assert.Empty(t, events)

	// Leave
	now = now.Add(time.Second)
	events, err = monitor.UpdateLocation(ctx, geo.Point{Latitude: 38.0, Longitude: -122.0})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, geofence.EventExit, events[0].Type)
}

func TestMonitorDwell(t *testing.T) {
	ctx := logging.EnsureLogger(context.Background())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	monitor := testMonitor(&now)

	fence := geofence.NewCircle("office", geo.Point{Latitude: 37.0, Longitude: -122.0}, 500)
	require.NoError(t, monitor.AddGeofence(ctx, fence))

	center := geo.Point{Latitude: 37.0, Longitude: -122.0}

	events, err := monitor.UpdateLocation(ctx, center)
	require.NoError(t, err)
	assert.Equal(t, []geofence.EventType{geofence.EventEnter}, eventTypes(events))

	// Just short of the threshold
	now = now.Add(29 * time.Second)
	events, err = monitor.UpdateLocation(ctx, center)
	require.NoError(t, err)
	assert.Empty(t, events)

	// Threshold crossed
	now = now.Add(time.Second)
	events, err = monitor.UpdateLocation(ctx, center)
	require.NoError(t, err)
	assert.Equal(t, []geofence.EventType{geofence.EventDwell}, eventTypes(events))

	// Dwell fires once per visit
	now = now.Add(time.Minute)
	events, err = monitor.UpdateLocation(ctx, center)
	require.NoError(t, err)
	assert.Empty(t, events)

	// Leaving and re-entering arms it again
	now = now.Add(time.Second)
	_, err = monitor.UpdateLocation(ctx, geo.Point{Latitude: 38.0, Longitude: -122.0})
	require.NoError(t, err)

	now = now.Add(time.Second)
	events, err = monitor.UpdateLocation(ctx, center)
	require.NoError(t, err)
	assert.Equal(t, []geofence.EventType{geofence.EventEnter}, eventTypes(events))

	now = now.Add(30 * time.Second)
	events, err = monitor.UpdateLocation(ctx, center)
	require.NoError(t, err)
	assert.Equal(t, []geofence.EventType{geofence.EventDwell}, eventTypes(events))
}

func TestMonitorRejectsInvalidGeofence(t *testing.T) {
	ctx := logging.EnsureLogger(context.Background())
	now := time.Now()
	monitor := testMonitor(&now)

	err := monitor.AddGeofence(ctx, geofence.NewCircle("bad", geo.Point{Latitude: 37, Longitude: -122}, -1))
	assert.Error(t, err)

	err = monitor.AddGeofence(ctx, geofence.NewPolygon("thin", []geo.Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 1, Longitude: 1},
	}))
	assert.Error(t, err)
}

func TestMonitorDuplicateGeofence(t *testing.T) {
	ctx := logging.EnsureLogger(context.Background())
	now := time.Now()
	monitor := testMonitor(&now)

	fence := geofence.NewCircle("dup", geo.Point{Latitude: 37, Longitude: -122}, 100)
	require.NoError(t, monitor.AddGeofence(ctx, fence))
	assert.Error(t, monitor.AddGeofence(ctx, fence))
}

func TestMonitorRemoveGeofence(t *testing.T) {
	ctx := logging.EnsureLogger(context.Background())
	now := time.Now()
	monitor := testMonitor(&now)

	fence := geofence.NewCircle("gone", geo.Point{Latitude: 37, Longitude: -122}, 500)
	require.NoError(t, monitor.AddGeofence(ctx, fence))

	// Enter, then remove while inside: no exit event
	events, err := monitor.UpdateLocation(ctx, geo.Point{Latitude: 37, Longitude: -122})
	require.NoError(t, err)
	require.Len(t, events, 1)

	monitor.RemoveGeofence("gone")
	assert.Empty(t, monitor.Geofences())

	events, err = monitor.UpdateLocation(ctx, geo.Point{Latitude: 38, Longitude: -122})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestMonitorCheckPoint(t *testing.T) {
	ctx := logging.EnsureLogger(context.Background())
	now := time.Now()
	monitor := testMonitor(&now)

	require.NoError(t, monitor.AddGeofence(ctx, geofence.NewCircle("a", geo.Point{Latitude: 37, Longitude: -122}, 500)))
	require.NoError(t, monitor.AddGeofence(ctx, geofence.NewPolygon("b", []geo.Point{
		{Latitude: 36.9, Longitude: -122.1},
		{Latitude: 36.9, Longitude: -121.9},
		{Latitude: 37.1, Longitude: -121.9},
		{Latitude: 37.1, Longitude: -122.1},
	})))

	ids, err := monitor.CheckPoint(ctx, geo.Point{Latitude: 37, Longitude: -122})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	ids, err = monitor.CheckPoint(ctx, geo.Point{Latitude: 40, Longitude: -122})
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = monitor.CheckPoint(ctx, geo.Point{Latitude: 95, Longitude: 0})
	assert.Error(t, err)
}

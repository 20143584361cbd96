package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/config"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geo"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geofence"
)

// fenceState tracks where the subject is relative to one geofence
type fenceState struct {
	inside     bool
	enteredAt  time.Time
	dwellFired bool
}

// GeofenceMonitor evaluates location updates against a set of registered
// geofences and emits enter, exit and dwell events. A dwell event fires once
// per visit, after the subject has stayed inside for the configured
// threshold; leaving and re-entering arms it again.
type GeofenceMonitor struct {
	evaluator *geofence.Evaluator
	config    *config.Config

	mu     sync.Mutex
	fences map[string]geofence.Geofence
	states map[string]*fenceState

	now func() time.Time
}

// NewGeofenceMonitor creates a new GeofenceMonitor
func NewGeofenceMonitor(evaluator *geofence.Evaluator, config *config.Config) *GeofenceMonitor {
	return &GeofenceMonitor{
		evaluator: evaluator,
		config:    config,
		fences:    make(map[string]geofence.Geofence),
		states:    make(map[string]*fenceState),
		now:       time.Now,
	}
}

// AddGeofence registers a geofence for monitoring. Invalid geofences are
// rejected rather than silently ignored at evaluation time.
func (m *GeofenceMonitor) AddGeofence(ctx context.Context, fence geofence.Geofence) error {
	if !m.evaluator.Validate(ctx, fence) {
		return fmt.Errorf("invalid geofence: %s", fence.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.fences[fence.ID]; exists {
		return fmt.Errorf("geofence already registered: %s", fence.ID)
	}
	m.fences[fence.ID] = fence
	m.states[fence.ID] = &fenceState{}
	log.Printf("Registered geofence %s (%s)", fence.ID, fence.Type)
	return nil
}

// RemoveGeofence unregisters a geofence. No exit event is emitted even if
// the subject was inside.
func (m *GeofenceMonitor) RemoveGeofence(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.fences, id)
	delete(m.states, id)
}

// Geofences returns the registered geofences
func (m *GeofenceMonitor) Geofences() []geofence.Geofence {
	m.mu.Lock()
	defer m.mu.Unlock()

	fences := make([]geofence.Geofence, 0, len(m.fences))
	for _, fence := range m.fences {
		fences = append(fences, fence)
	}
	return fences
}

// UpdateLocation evaluates a location fix against every registered geofence
// and returns the events the transition produced, in no particular order
// across fences.
func (m *GeofenceMonitor) UpdateLocation(ctx context.Context, location geo.Point) ([]geofence.Event, error) {
	if err := geo.ValidatePoint(location); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var events []geofence.Event

	for id, fence := range m.fences {
		state := m.states[id]
		inside := m.evaluator.Contains(ctx, location, fence)

		switch {
		case inside && !state.inside:
			state.inside = true
			state.enteredAt = now
			state.dwellFired = false
			events = append(events, geofence.Event{
				GeofenceID: id,
				Type:       geofence.EventEnter,
				Location:   location,
				Timestamp:  now,
			})

		case !inside && state.inside:
			state.inside = false
			state.dwellFired = false
			events = append(events, geofence.Event{
				GeofenceID: id,
				Type:       geofence.EventExit,
				Location:   location,
				Timestamp:  now,
			})

		case inside && state.inside:
			if !state.dwellFired && now.Sub(state.enteredAt) >= m.config.Geofencing.DwellThreshold {
				state.dwellFired = true
				events = append(events, geofence.Event{
					GeofenceID: id,
					Type:       geofence.EventDwell,
					Location:   location,
					Timestamp:  now,
				})
			}
		}
	}

	return events, nil
}

// CheckPoint reports which registered geofences contain a point, without
// touching monitor state. Useful for one-off containment queries.
func (m *GeofenceMonitor) CheckPoint(ctx context.Context, location geo.Point) ([]string, error) {
	if err := geo.ValidatePoint(location); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []string
	for id, fence := range m.fences {
		if m.evaluator.Contains(ctx, location, fence) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

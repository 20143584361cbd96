package gesture

import "time"

// Type classifies the source of a gesture recognizer
type Type string

const (
	TypeMap     Type = "map"     // built-in map gestures (pan, zoom, rotate, pitch)
	TypeCustom  Type = "custom"  // application-defined recognizers
	TypeControl Type = "control" // UI control interactions
)

// Gesture represents one active gesture recognizer in the registry
type Gesture struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Priority  int       `json:"priority"`
	Active    bool      `json:"active"`
	Timestamp time.Time `json:"timestamp"`
}

// Resolution records the outcome of one conflict-resolution pass.
// WinnerID is empty when no valid gesture was found in the group.
type Resolution struct {
	ID          string    `json:"id"`
	WinnerID    string    `json:"winner_id"`
	Reason      string    `json:"reason"`
	Conflicting []string  `json:"conflicting_gestures"`
	ResolvedAt  time.Time `json:"resolved_at"`
}

// Default priorities per well-known gesture name, ascending. Callers may
// override any of these via SetPriority.
const (
	PriorityMapPan           = 1
	PriorityMapZoom          = 2
	PriorityMapRotate        = 3
	PriorityMapPitch         = 4
	PriorityControlTap       = 5
	PriorityCustomMultiTouch = 6
	PriorityCustomPattern    = 7
)

// defaultPriorities maps gesture names to their default priority
func defaultPriorities() map[string]int {
	return map[string]int{
		"map-pan":            PriorityMapPan,
		"map-zoom":           PriorityMapZoom,
		"map-rotate":         PriorityMapRotate,
		"map-pitch":          PriorityMapPitch,
		"control-tap":        PriorityControlTap,
		"custom-multi-touch": PriorityCustomMultiTouch,
		"custom-pattern":     PriorityCustomPattern,
	}
}

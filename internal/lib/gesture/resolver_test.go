package gesture

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver(now *time.Time) *Resolver {
	r := NewResolver()
	r.now = func() time.Time { return *now }
	return r
}

func TestResolver_PriorityResolution(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	r := testResolver(&now)

	r.Register(ctx, Gesture{ID: "map-pan", Type: TypeMap, Timestamp: now})
	r.Register(ctx, Gesture{ID: "custom-pattern", Type: TypeCustom, Timestamp: now})

	pan, ok := r.Get("map-pan")
	require.True(t, ok)
	assert.False(t, pan.Active, "the lower-priority map gesture loses")
	assert.Equal(t, PriorityMapPan, pan.Priority)

	pattern, ok := r.Get("custom-pattern")
	require.True(t, ok)
	assert.True(t, pattern.Active)
	assert.Equal(t, PriorityCustomPattern, pattern.Priority)

	history := r.History()
	require.NotEmpty(t, history)
	last := history[len(history)-1]
	assert.Equal(t, "custom-pattern", last.WinnerID)
	assert.ElementsMatch(t, []string{"map-pan", "custom-pattern"}, last.Conflicting)
	assert.NotEmpty(t, last.Reason)
	assert.NotEmpty(t, last.ID)
}

func TestResolver_SameTypeConflict(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	r := testResolver(&now)

	r.Register(ctx, Gesture{ID: "map-pan", Type: TypeMap})
	r.Register(ctx, Gesture{ID: "map-zoom", Type: TypeMap})

	pan, _ := r.Get("map-pan")
	zoom, _ := r.Get("map-zoom")
	assert.False(t, pan.Active)
	assert.True(t, zoom.Active, "map-zoom outranks map-pan")
}

func TestResolver_UnrelatedTypesUseTimestampWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	r := testResolver(&now)

	// control vs custom is neither same-type nor map-related: the 100ms
	// window decides
	r.Register(ctx, Gesture{ID: "control-tap", Type: TypeControl, Timestamp: now})
	r.Register(ctx, Gesture{ID: "custom-multi-touch", Type: TypeCustom, Timestamp: now.Add(500 * time.Millisecond)})

	tap, _ := r.Get("control-tap")
	multi, _ := r.Get("custom-multi-touch")
	assert.True(t, tap.Active, "outside the window there is no conflict")
	assert.True(t, multi.Active)

	r.ClearAll()

	r.Register(ctx, Gesture{ID: "control-tap", Type: TypeControl, Timestamp: now})
	r.Register(ctx, Gesture{ID: "custom-multi-touch", Type: TypeCustom, Timestamp: now.Add(50 * time.Millisecond)})

	tap, _ = r.Get("control-tap")
	multi, _ = r.Get("custom-multi-touch")
	assert.False(t, tap.Active, "inside the window the lower priority loses")
	assert.True(t, multi.Active)
}

func TestResolver_TieBreaksByRegistrationOrder(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	r := testResolver(&now)

	r.Register(ctx, Gesture{ID: "first", Type: TypeCustom, Priority: 5, Timestamp: now})
	r.Register(ctx, Gesture{ID: "second", Type: TypeCustom, Priority: 5, Timestamp: now})

	first, _ := r.Get("first")
	second, _ := r.Get("second")
	assert.True(t, first.Active, "equal priorities resolve to the earliest registration")
	assert.False(t, second.Active)
}

func TestResolver_CanProceed(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	r := testResolver(&now)

	r.Register(ctx, Gesture{ID: "map-pan", Type: TypeMap, Timestamp: now})
	assert.True(t, r.CanProceed("map-pan"), "sole gesture proceeds")

	r.Register(ctx, Gesture{ID: "map-rotate", Type: TypeMap, Timestamp: now})
	assert.False(t, r.CanProceed("map-pan"))
	assert.True(t, r.CanProceed("map-rotate"))

	assert.False(t, r.CanProceed("never-registered"))
}

func TestResolver_Unregister(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	r := testResolver(&now)

	r.Register(ctx, Gesture{ID: "map-pan", Type: TypeMap})
	r.Register(ctx, Gesture{ID: "map-zoom", Type: TypeMap})
	r.Unregister("map-zoom")

	_, ok := r.Get("map-zoom")
	assert.False(t, ok)

	// A resolved loser stays inactive until re-registered
	pan, _ := r.Get("map-pan")
	assert.False(t, pan.Active)

	r.Register(ctx, Gesture{ID: "map-pan", Type: TypeMap})
	pan, _ = r.Get("map-pan")
	assert.True(t, pan.Active)

	// Unregistering an unknown id is a no-op
	r.Unregister("missing")
}

func TestResolver_SetPriority(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	r := testResolver(&now)

	assert.Equal(t, PriorityMapPan, r.PriorityFor("map-pan"))

	r.SetPriority("map-pan", 99)
	assert.Equal(t, 99, r.PriorityFor("map-pan"))

	r.Register(ctx, Gesture{ID: "map-pan", Type: TypeMap, Timestamp: now})
	r.Register(ctx, Gesture{ID: "custom-pattern", Type: TypeCustom, Timestamp: now})

	pan, _ := r.Get("map-pan")
	assert.True(t, pan.Active, "boosted priority now beats custom-pattern")
	pattern, _ := r.Get("custom-pattern")
	assert.False(t, pattern.Active)
}

func TestResolver_HistoryPruning(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	r := testResolver(&now)

	r.Register(ctx, Gesture{ID: "map-pan", Type: TypeMap, Timestamp: now})
	r.Register(ctx, Gesture{ID: "map-zoom", Type: TypeMap, Timestamp: now})
	require.NotEmpty(t, r.History())

	// Advance past the retention window; the next resolution pass prunes
	now = now.Add(6 * time.Second)
	r.Register(ctx, Gesture{ID: "map-rotate", Type: TypeMap, Timestamp: now})

	history := r.History()
	for _, record := range history {
		assert.True(t, record.ResolvedAt.After(now.Add(-5*time.Second)),
			"records older than the retention window must be pruned")
	}
}

func TestResolver_ClearAll(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	r := testResolver(&now)

	r.Register(ctx, Gesture{ID: "map-pan", Type: TypeMap})
	r.Register(ctx, Gesture{ID: "map-zoom", Type: TypeMap})
	r.ClearAll()

	assert.Empty(t, r.ActiveGestures())
	assert.Empty(t, r.History())
	_, ok := r.Get("map-pan")
	assert.False(t, ok)
}

func TestResolver_ActiveGesturesOrder(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	r := testResolver(&now)

	// Registered far apart in time so control/custom don't conflict
	r.Register(ctx, Gesture{ID: "control-tap", Type: TypeControl, Timestamp: now})
	r.Register(ctx, Gesture{ID: "custom-pattern", Type: TypeCustom, Timestamp: now.Add(time.Second)})

	active := r.ActiveGestures()
	require.Len(t, active, 2)
	assert.Equal(t, "control-tap", active[0].ID)
	assert.Equal(t, "custom-pattern", active[1].ID)
}

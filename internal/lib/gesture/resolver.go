package gesture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dpup/prefab/logging"
	"github.com/google/uuid"
)

const (
	// Two gestures of unrelated types only conflict when they start within
	// this window of each other
	defaultConflictWindow = 100 * time.Millisecond

	// Resolution records older than this are pruned on each pass
	defaultHistoryRetention = 5 * time.Second
)

// Resolver arbitrates between concurrently active gesture recognizers.
// It owns all registry entries exclusively; callers refer to gestures by id.
//
// A gesture moves through three states: registered (active), resolved-loser
// (inactive but still registered), and unregistered. A loser never becomes
// active again without being re-registered.
//
// Construct one Resolver per gesture stack and inject it where needed; the
// registry is deliberately not a package-level singleton.
type Resolver struct {
	mu         sync.Mutex
	gestures   map[string]*Gesture
	order      []string // registration order, for deterministic tie-breaks
	priorities map[string]int
	history    []Resolution

	conflictWindow time.Duration
	retention      time.Duration
	now            func() time.Time
}

// NewResolver creates a Resolver with the default priority table
func NewResolver() *Resolver {
	return &Resolver{
		gestures:       make(map[string]*Gesture),
		priorities:     defaultPriorities(),
		conflictWindow: defaultConflictWindow,
		retention:      defaultHistoryRetention,
		now:            time.Now,
	}
}

// Register inserts (or overwrites) a gesture in the active registry and
// immediately runs conflict resolution over the whole registry. A zero
// priority is filled in from the priority table keyed by the gesture id;
// a zero timestamp is filled with the current time.
func (r *Resolver) Register(ctx context.Context, g Gesture) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.Priority == 0 {
		g.Priority = r.priorities[g.ID]
	}
	if g.Timestamp.IsZero() {
		g.Timestamp = r.now()
	}
	g.Active = true

	if _, exists := r.gestures[g.ID]; !exists {
		r.order = append(r.order, g.ID)
	}
	entry := g
	r.gestures[g.ID] = &entry

	r.resolveAll(ctx)
}

// Unregister removes a gesture from the registry. Removal cannot create a
// new conflict, so no resolution pass runs.
func (r *Resolver) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.gestures[id]; !exists {
		return
	}
	delete(r.gestures, id)
	for i, orderedID := range r.order {
		if orderedID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// CanProceed reports whether the gesture may handle its events: true iff no
// other active gesture has strictly higher priority. Unknown ids cannot
// proceed.
func (r *Resolver) CanProceed(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	own, exists := r.gestures[id]
	if !exists {
		return false
	}

	for otherID, other := range r.gestures {
		if otherID == id || !other.Active {
			continue
		}
		if other.Priority > own.Priority {
			return false
		}
	}
	return true
}

// SetPriority overrides the default priority for a gesture name. Existing
// registry entries keep the priority they registered with.
func (r *Resolver) SetPriority(name string, priority int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.priorities[name] = priority
}

// PriorityFor returns the configured priority for a gesture name
func (r *Resolver) PriorityFor(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.priorities[name]
}

// Get returns a snapshot of a registry entry
func (r *Resolver) Get(id string) (Gesture, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.gestures[id]
	if !exists {
		return Gesture{}, false
	}
	return *entry, true
}

// ActiveGestures returns snapshots of all active entries in registration order
func (r *Resolver) ActiveGestures() []Gesture {
	r.mu.Lock()
	defer r.mu.Unlock()

	var active []Gesture
	for _, id := range r.order {
		if entry, exists := r.gestures[id]; exists && entry.Active {
			active = append(active, *entry)
		}
	}
	return active
}

// History returns a snapshot of resolution records still inside the
// retention window
func (r *Resolver) History() []Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := make([]Resolution, len(r.history))
	copy(history, r.history)
	return history
}

// ClearAll resets the registry and resolution history
func (r *Resolver) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gestures = make(map[string]*Gesture)
	r.order = nil
	r.history = nil
}

// resolveAll detects conflicts among active gestures and applies winner
// selection to each conflict group. Callers must hold r.mu.
func (r *Resolver) resolveAll(ctx context.Context) {
	groups := r.findConflictGroups()

	for _, group := range groups {
		r.resolveGroup(ctx, group)
	}

	r.pruneHistory()
}

// findConflictGroups builds connected components over the pairwise conflict
// relation, in registration order. Callers must hold r.mu.
func (r *Resolver) findConflictGroups() [][]*Gesture {
	var active []*Gesture
	for _, id := range r.order {
		if entry, exists := r.gestures[id]; exists && entry.Active {
			active = append(active, entry)
		}
	}

	// Union by scanning pairs; group index -1 means unassigned
	groupOf := make([]int, len(active))
	for i := range groupOf {
		groupOf[i] = -1
	}

	var groups [][]*Gesture
	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			if !r.areConflicting(active[i], active[j]) {
				continue
			}

			switch {
			case groupOf[i] == -1 && groupOf[j] == -1:
				groups = append(groups, []*Gesture{active[i], active[j]})
				groupOf[i] = len(groups) - 1
				groupOf[j] = len(groups) - 1
			case groupOf[i] != -1 && groupOf[j] == -1:
				groups[groupOf[i]] = append(groups[groupOf[i]], active[j])
				groupOf[j] = groupOf[i]
			case groupOf[i] == -1 && groupOf[j] != -1:
				groups[groupOf[j]] = append(groups[groupOf[j]], active[i])
				groupOf[i] = groupOf[j]
			case groupOf[i] != groupOf[j]:
				// Merge the later group into the earlier one
				src, dst := groupOf[j], groupOf[i]
				for k := range groupOf {
					if groupOf[k] == src {
						groupOf[k] = dst
					}
				}
				groups[dst] = append(groups[dst], groups[src]...)
				groups[src] = nil
			}
		}
	}

	// Drop merged-away groups
	var result [][]*Gesture
	for _, group := range groups {
		if len(group) > 1 {
			result = append(result, group)
		}
	}
	return result
}

// areConflicting implements the pairwise conflict relation: gestures of the
// same type always conflict, map gestures conflict with each other, and
// custom gestures conflict with map gestures in either direction. Anything
// else only conflicts when the gestures started within the conflict window.
func (r *Resolver) areConflicting(a, b *Gesture) bool {
	if a.Type == b.Type {
		return true
	}
	if a.Type == TypeMap && b.Type == TypeMap {
		return true
	}
	if (a.Type == TypeCustom && b.Type == TypeMap) || (a.Type == TypeMap && b.Type == TypeCustom) {
		return true
	}

	delta := a.Timestamp.Sub(b.Timestamp)
	if delta < 0 {
		delta = -delta
	}
	return delta <= r.conflictWindow
}

// resolveGroup picks the winner of a conflict group (numerically highest
// priority; ties break by registration order, which the group already
// follows) and deactivates everyone else. Callers must hold r.mu.
func (r *Resolver) resolveGroup(ctx context.Context, group []*Gesture) {
	var winner *Gesture
	ids := make([]string, 0, len(group))

	for _, g := range group {
		ids = append(ids, g.ID)
		if winner == nil || g.Priority > winner.Priority {
			winner = g
		}
	}

	resolution := Resolution{
		ID:          uuid.NewString(),
		Conflicting: ids,
		ResolvedAt:  r.now(),
	}

	if winner == nil {
		// Defensive: a detected group with no members cannot name a winner
		resolution.Reason = "no valid gestures in conflict group"
		logging.Warnw(ctx, "Gesture conflict group had no valid members", "gestures", ids)
	} else {
		resolution.WinnerID = winner.ID
		resolution.Reason = fmt.Sprintf("gesture %q wins with priority %d", winner.ID, winner.Priority)

		for _, g := range group {
			if g.ID != winner.ID {
				g.Active = false
			}
		}
	}

	r.history = append(r.history, resolution)
}

// pruneHistory drops resolution records older than the retention window,
// measured by wall-clock age. Callers must hold r.mu.
func (r *Resolver) pruneHistory() {
	cutoff := r.now().Add(-r.retention)

	kept := r.history[:0]
	for _, record := range r.history {
		if record.ResolvedAt.After(cutoff) {
			kept = append(kept, record)
		}
	}
	r.history = kept
}

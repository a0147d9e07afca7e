package filters

import (
	"log"
	"sync/atomic"

	"github.com/google/uuid"
)

// ============================================================================
// RECONCILER: Draft vs applied filter selection
// ============================================================================
// The draft is what the user is editing; applied is what the last fetch used.
// Every operation builds a new State and swaps the pointer, so a reader always
// sees a whole snapshot. A Reconciler belongs to one UI session.
// ============================================================================

// Reconciler holds the draft/applied pair for one session.
type Reconciler struct {
	id      string
	draft   atomic.Pointer[State]
	applied atomic.Pointer[State]
}

// NewReconciler starts a session whose draft and applied both equal initial.
func NewReconciler(initial State) *Reconciler {
	r := &Reconciler{id: uuid.NewString()}
	applied := initial.Clone()
	draft := initial.Clone()
	r.applied.Store(&applied)
	r.draft.Store(&draft)
	return r
}

// ID identifies the session in logs.
func (r *Reconciler) ID() string { return r.id }

// Draft returns the current draft snapshot.
func (r *Reconciler) Draft() State { return r.draft.Load().Clone() }

// Applied returns the current applied snapshot.
func (r *Reconciler) Applied() State { return r.applied.Load().Clone() }

// ToggleMember flips value in a multi-select dimension of the draft.
func (r *Reconciler) ToggleMember(dim Dimension, value string) State {
	return r.update(func(s State) State { return s.Toggle(dim, value) })
}

// SetSingle replaces dim with {value}; "all" or "" clears it.
func (r *Reconciler) SetSingle(dim Dimension, value string) State {
	return r.update(func(s State) State {
		if value == "" || value == All {
			return s.Clear(dim)
		}
		return s.Replace(dim, []string{value})
	})
}

// ReplaceMembers sets a multi-select dimension of the draft to values,
// deduplicated. Empty values clear it.
func (r *Reconciler) ReplaceMembers(dim Dimension, values []string) State {
	return r.update(func(s State) State { return s.Replace(dim, values) })
}

// SetRange sets a month bound on the draft; "all" or "" clears it.
func (r *Reconciler) SetRange(b Bound, monthKey string) State {
	return r.update(func(s State) State { return s.WithBound(b, monthKey) })
}

// Reset clears the draft.
func (r *Reconciler) Reset() State {
	return r.update(func(State) State { return State{} })
}

// Commit copies the draft into applied. changed reports whether applied
// differs from before, i.e. whether a refetch is due.
func (r *Reconciler) Commit() (q Query, changed bool) {
	draft := r.Draft()
	prev := r.applied.Swap(&draft)
	changed = prev == nil || !prev.Equal(draft)
	if changed {
		log.Printf("🔄 filters[%s]: committed %d active filters", r.id[:8], draft.ActiveCount())
	}
	return BuildQuery(draft), changed
}

// SyncFromApplied discards draft edits.
func (r *Reconciler) SyncFromApplied() State {
	applied := r.Applied()
	r.draft.Store(&applied)
	return applied.Clone()
}

// ReplaceApplied installs an externally changed applied state (for example a
// programmatic reset) and reseeds the draft from it.
func (r *Reconciler) ReplaceApplied(s State) {
	applied := s.Clone()
	r.applied.Store(&applied)
	r.SyncFromApplied()
}

// ActiveFilterCount counts the draft's active filters. Display only.
func (r *Reconciler) ActiveFilterCount() int {
	return r.draft.Load().ActiveCount()
}

// Pending reports whether the draft differs from applied.
func (r *Reconciler) Pending() bool {
	return !r.draft.Load().Equal(*r.applied.Load())
}

func (r *Reconciler) update(fn func(State) State) State {
	for {
		cur := r.draft.Load()
		next := fn(*cur)
		if r.draft.CompareAndSwap(cur, &next) {
			return next.Clone()
		}
	}
}

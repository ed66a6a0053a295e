package placement

import (
	"github.com/MarcelInTO/MonitorKeeper/internal/platform"
)

const (
	// MinMonitors is the smallest monitor count with a saved-geometry bucket.
	// Single-monitor layouts are never tracked: there is nothing to restore
	// from when the count climbs back up.
	MinMonitors = 2
	// MaxMonitors caps the tracked monitor-count range.
	MaxMonitors = 5

	// staleLimit is the number of consecutive sweeps a window may go
	// unobserved before its slot becomes reclaimable.
	staleLimit = 2
	// staleCap stops the unused counter from growing without bound.
	staleCap = 100
)

// Env is the subset of the window system a record needs to capture and
// reapply geometry.
type Env interface {
	WindowClass(id platform.WindowID) (string, error)
	WindowPlacement(id platform.WindowID) (platform.Placement, error)
	ApplyPlacement(id platform.WindowID, p platform.Placement) error
}

// Record holds the saved placement data for one top-level window: one
// snapshot per monitor-count bucket, a class tag for identity validation,
// and a staleness counter standing in for the destroy notification the
// window system never sends.
type Record struct {
	id        platform.WindowID
	class     string
	snapshots map[int]platform.Placement
	stale     int
}

// ID returns the window identity bound to this record, or 0 for an empty slot.
func (r *Record) ID() platform.WindowID { return r.id }

// Class returns the class tag captured at save time.
func (r *Record) Class() string { return r.class }

// Stale returns the number of consecutive sweeps the window went unobserved.
func (r *Record) Stale() int { return r.stale }

// Live reports whether the record still counts as tracking an existing window.
func (r *Record) Live() bool {
	return r.id != 0 && r.stale <= staleLimit
}

// reclaimable reports whether the slot may be handed to a new window.
func (r *Record) reclaimable() bool {
	return r.id == 0 || r.stale > staleLimit
}

// Snapshot returns the placement saved for the given monitor count, if any.
func (r *Record) Snapshot(monitors int) (platform.Placement, bool) {
	p, ok := r.snapshots[monitors]
	return p, ok
}

// Buckets returns the monitor counts that have a saved snapshot, in
// ascending order.
func (r *Record) Buckets() []int {
	out := make([]int, 0, len(r.snapshots))
	for n := MinMonitors; n <= MaxMonitors; n++ {
		if _, ok := r.snapshots[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Capture rebinds the record to id, resets the staleness counter, refreshes
// the class tag, and saves the window's current placement into the bucket
// for monitors. Counts outside [MinMonitors, MaxMonitors] leave the saved
// snapshots untouched and report false: a single-monitor layout is an
// expected steady state, not an error.
func (r *Record) Capture(env Env, id platform.WindowID, monitors int) bool {
	r.id = id
	r.stale = 0
	if class, err := env.WindowClass(id); err == nil {
		r.class = class
	}

	if monitors < MinMonitors || monitors > MaxMonitors {
		return false
	}

	p, err := env.WindowPlacement(id)
	if err != nil {
		return false
	}
	if r.snapshots == nil {
		r.snapshots = make(map[int]platform.Placement, MaxMonitors-MinMonitors+1)
	}
	r.snapshots[monitors] = p
	return true
}

// Restore reapplies the placement saved for monitors. It reports false when
// no snapshot exists for that bucket, the monitor count is out of range, or
// the live window's class no longer matches the stored tag — window IDs get
// recycled, so the tag is the only proof the handle still means the same
// window.
func (r *Record) Restore(env Env, monitors int) bool {
	if monitors < MinMonitors || monitors > MaxMonitors {
		return false
	}
	saved, ok := r.snapshots[monitors]
	if !ok {
		return false
	}

	class, err := env.WindowClass(r.id)
	if err != nil || class != r.class {
		return false
	}

	// Minimized icon position is a relic; never replay it.
	saved.Icon = platform.Rect{}

	switch saved.Show {
	case platform.ShowMaximized:
		// Position first, maximize second. A bare maximize directive
		// ignores the saved coordinates and snaps to whichever monitor
		// the window currently occupies.
		first := saved
		first.Show = platform.ShowNoActivate
		if err := env.ApplyPlacement(r.id, first); err != nil {
			return false
		}
		saved.Show = platform.ShowMaximized
	case platform.ShowMinimized, platform.ShowMinNoActivate:
		saved.Show = platform.ShowMinNoActivate
	default:
		saved.Show = platform.ShowNoActivate
	}

	return env.ApplyPlacement(r.id, saved) == nil
}

// markStale bumps the unused counter, saturating at staleCap.
func (r *Record) markStale() {
	if r.id != 0 && r.stale < staleCap {
		r.stale++
	}
}

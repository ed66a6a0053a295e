package placement

import (
	"log/slog"

	"github.com/MarcelInTO/MonitorKeeper/internal/platform"
)

// growBy is the fixed slot-count increment used when every slot is live.
const growBy = 32

// Store owns the placement records for all tracked windows. It is not safe
// for concurrent use: the keeper's dispatch goroutine is the only caller,
// which is what lets the whole cache run lock-free.
type Store struct {
	env     Env
	logger  *slog.Logger
	records []Record

	monitors      int
	transitioning bool
}

// NewStore creates an empty store bound to the given environment.
func NewStore(env Env, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		env:     env,
		logger:  logger,
		records: make([]Record, growBy),
	}
}

// MonitorCount returns the last committed monitor count.
func (s *Store) MonitorCount() int { return s.monitors }

// SetMonitorCount commits a newly observed monitor count.
func (s *Store) SetMonitorCount(n int) { s.monitors = n }

// Transitioning reports whether a display change is in flight. Sweeps are
// suppressed while true so the collapsed mid-transition layout never gets
// saved as steady-state geometry.
func (s *Store) Transitioning() bool { return s.transitioning }

// SetTransitioning flips the transition flag.
func (s *Store) SetTransitioning(v bool) { s.transitioning = v }

// Len returns the current slot capacity.
func (s *Store) Len() int { return len(s.records) }

// LiveCount returns the number of records still considered live.
func (s *Store) LiveCount() int {
	n := 0
	for i := range s.records {
		if s.records[i].Live() {
			n++
		}
	}
	return n
}

// Records returns the live records, for status reporting. The returned
// pointers stay valid only until the next growth event.
func (s *Store) Records() []*Record {
	out := make([]*Record, 0, len(s.records))
	for i := range s.records {
		if s.records[i].Live() {
			out = append(out, &s.records[i])
		}
	}
	return out
}

// FindOrCreateSlot returns the record tracking id, reusing a reclaimable
// slot or growing storage when none exists. It never returns nil, and
// growth preserves every existing record.
func (s *Store) FindOrCreateSlot(id platform.WindowID) *Record {
	for i := range s.records {
		if s.records[i].id == id {
			return &s.records[i]
		}
	}

	for i := range s.records {
		if s.records[i].reclaimable() {
			// Hand the slot over clean; the caller rebinds identity.
			s.records[i] = Record{}
			return &s.records[i]
		}
	}

	old := len(s.records)
	grown := make([]Record, old+growBy)
	copy(grown, s.records)
	s.records = grown
	s.logger.Debug("grew placement store", "slots", len(s.records))
	return &s.records[old]
}

// MarkAllStale bumps the unused counter for every bound record. Called once
// per sweep before re-observing windows, so anything the sweep does not see
// accumulates staleness.
func (s *Store) MarkAllStale() {
	for i := range s.records {
		s.records[i].markStale()
	}
}

// Eligible reports whether a window's placement is worth tracking: visible,
// top-level, a standard app window, and willing to take focus. Tool
// windows, tooltips and popups are excluded — restoring those is at best
// pointless and at worst harmful.
func Eligible(w platform.Window) bool {
	if !w.Visible || w.Owned {
		return false
	}
	if !w.Overlapped && !w.AppWindow {
		return false
	}
	return !w.NoActivate
}

// SnapshotAll captures the placement of every eligible window into the
// bucket for monitors and returns how many were saved. The caller guarantees
// monitors matches the committed count; capturing mid-transition would save
// a collapsed layout into a multi-monitor bucket.
func (s *Store) SnapshotAll(windows []platform.Window, monitors int) int {
	saved := 0
	for _, w := range windows {
		if !Eligible(w) {
			continue
		}
		rec := s.FindOrCreateSlot(w.ID)
		if rec.Capture(s.env, w.ID, monitors) {
			if p, ok := rec.Snapshot(monitors); ok {
				saved++
				s.logger.Debug("saved placement",
					"class", rec.class,
					"monitors", monitors,
					"x", p.Rect.X,
					"y", p.Rect.Y,
					"show", p.Show.String())
			}
		}
	}
	return saved
}

// RestoreAll reapplies the saved placement for monitors to every record
// still considered live. Each restore is independent and best-effort; a
// window that vanished or changed identity is silently skipped.
func (s *Store) RestoreAll(monitors int) int {
	applied := 0
	for i := range s.records {
		if !s.records[i].Live() {
			continue
		}
		if s.records[i].Restore(s.env, monitors) {
			applied++
		}
	}
	s.logger.Info("restored window placements", "monitors", monitors, "applied", applied)
	return applied
}

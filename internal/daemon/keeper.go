package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/MarcelInTO/MonitorKeeper/internal/placement"
	"github.com/MarcelInTO/MonitorKeeper/internal/platform"
)

const (
	// DefaultSaveDelay is how long window movement must be quiet before a
	// snapshot sweep runs.
	DefaultSaveDelay = 200 * time.Millisecond

	// DefaultRestoreDelay is how long after a display change the monitor
	// topology is given to settle before placements are restored.
	DefaultRestoreDelay = 500 * time.Millisecond
)

// Status is a point-in-time summary of the keeper's state.
type Status struct {
	Monitors      int
	Tracked       int
	Live          int
	Transitioning bool
	Uptime        time.Duration
}

// TrackedWindow describes one live record for inspection over IPC.
type TrackedWindow struct {
	ID      uint32
	Class   string
	Stale   int
	Buckets []int
}

type eventKind int

const (
	evWindowMoved eventKind = iota
	evDisplayChanged
	evSaveTimer
	evRestoreTimer
	evStatus
	evWindows
	evSnapshot
	evRestore
)

type event struct {
	kind         eventKind
	statusReply  chan Status
	windowsReply chan []TrackedWindow
	countReply   chan int
}

// KeeperConfig holds configuration for the keeper.
type KeeperConfig struct {
	SaveDelay    time.Duration
	RestoreDelay time.Duration
	Logger       *slog.Logger
}

// Keeper owns the placement store and serializes every mutation through a
// single event loop, so the store itself needs no locking. X11 notifications,
// debounce timers, and IPC queries all arrive on the same channel.
type Keeper struct {
	backend platform.Backend
	store   *placement.Store
	logger  *slog.Logger

	saveDelay    time.Duration
	restoreDelay time.Duration

	events       chan event
	done         chan struct{}
	saveTimer    *time.Timer
	restoreTimer *time.Timer
	started      time.Time
}

// NewKeeper creates a keeper over the given backend.
func NewKeeper(cfg KeeperConfig, backend platform.Backend) *Keeper {
	saveDelay := cfg.SaveDelay
	if saveDelay <= 0 {
		saveDelay = DefaultSaveDelay
	}
	restoreDelay := cfg.RestoreDelay
	if restoreDelay <= 0 {
		restoreDelay = DefaultRestoreDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Keeper{
		backend:      backend,
		store:        placement.NewStore(backend, logger),
		logger:       logger,
		saveDelay:    saveDelay,
		restoreDelay: restoreDelay,
		events:       make(chan event, 64),
		done:         make(chan struct{}),
	}
}

// post delivers an event to the dispatch loop, giving up once the keeper
// has stopped. A timer callback already in flight when Run returns must
// not block forever on a channel nobody drains.
func (k *Keeper) post(ev event) {
	select {
	case k.events <- ev:
	case <-k.done:
	}
}

// HandleEvent is the sink for backend notifications. Safe to call from the
// X11 event loop goroutine.
func (k *Keeper) HandleEvent(kind platform.EventKind) {
	switch kind {
	case platform.EventWindowMoved:
		// Move notifications only re-arm the debounce timer, so dropping
		// one under a burst loses nothing.
		select {
		case k.events <- event{kind: evWindowMoved}:
		default:
		}
	case platform.EventDisplayChanged:
		k.post(event{kind: evDisplayChanged})
	}
}

// Status returns a snapshot of the keeper's state, or the zero value once
// the keeper has stopped.
func (k *Keeper) Status() Status {
	reply := make(chan Status, 1)
	k.post(event{kind: evStatus, statusReply: reply})
	select {
	case s := <-reply:
		return s
	case <-k.done:
		return Status{}
	}
}

// Windows returns the live tracked windows.
func (k *Keeper) Windows() []TrackedWindow {
	reply := make(chan []TrackedWindow, 1)
	k.post(event{kind: evWindows, windowsReply: reply})
	select {
	case w := <-reply:
		return w
	case <-k.done:
		return nil
	}
}

// SnapshotNow forces an immediate snapshot sweep and returns the live record
// count afterwards.
func (k *Keeper) SnapshotNow() int {
	reply := make(chan int, 1)
	k.post(event{kind: evSnapshot, countReply: reply})
	select {
	case n := <-reply:
		return n
	case <-k.done:
		return 0
	}
}

// RestoreNow forces a restore pass at the current monitor count and returns
// how many windows were repositioned.
func (k *Keeper) RestoreNow() int {
	reply := make(chan int, 1)
	k.post(event{kind: evRestore, countReply: reply})
	select {
	case n := <-reply:
		return n
	case <-k.done:
		return 0
	}
}

// Run primes the store from the current desktop and then dispatches events.
// Blocks until the context is cancelled.
func (k *Keeper) Run(ctx context.Context) {
	k.started = time.Now()
	k.prime()

	k.logger.Info("keeper started",
		"monitors", k.store.MonitorCount(),
		"save_delay", k.saveDelay,
		"restore_delay", k.restoreDelay)

	for {
		select {
		case <-ctx.Done():
			k.stopTimers()
			close(k.done)
			k.logger.Info("keeper stopped")
			return
		case ev := <-k.events:
			k.dispatch(ev)
		}
	}
}

func (k *Keeper) dispatch(ev event) {
	switch ev.kind {
	case evWindowMoved:
		k.handleWindowMoved()
	case evDisplayChanged:
		k.handleDisplayChanged()
	case evSaveTimer:
		k.sweep()
	case evRestoreTimer:
		k.settle()
	case evStatus:
		ev.statusReply <- k.status()
	case evWindows:
		ev.windowsReply <- k.trackedWindows()
	case evSnapshot:
		k.sweep()
		ev.countReply <- k.store.LiveCount()
	case evRestore:
		ev.countReply <- k.store.RestoreAll(k.store.MonitorCount())
	}
}

// prime commits the current monitor count and takes a first snapshot so the
// daemon has placements to restore even before any window moves.
func (k *Keeper) prime() {
	count, err := k.backend.MonitorCount()
	if err != nil {
		k.logger.Error("failed to count monitors at startup", "error", err)
		return
	}
	k.store.SetMonitorCount(count)
	k.sweep()
}

// handleWindowMoved re-arms the save debounce timer. Geometry churn during a
// monitor transition is the window manager shuffling windows around, not the
// user, so it must never overwrite saved placements.
func (k *Keeper) handleWindowMoved() {
	if k.store.Transitioning() {
		return
	}
	if k.saveTimer == nil {
		k.saveTimer = time.AfterFunc(k.saveDelay, func() {
			k.post(event{kind: evSaveTimer})
		})
		return
	}
	k.saveTimer.Reset(k.saveDelay)
}

// handleDisplayChanged suspends snapshotting and arms the restore timer so
// the topology has settled before placements are read or written.
func (k *Keeper) handleDisplayChanged() {
	k.store.SetTransitioning(true)
	k.logger.Info("display change detected, waiting to settle")
	if k.restoreTimer == nil {
		k.restoreTimer = time.AfterFunc(k.restoreDelay, func() {
			k.post(event{kind: evRestoreTimer})
		})
		return
	}
	k.restoreTimer.Reset(k.restoreDelay)
}

// sweep takes a snapshot of every eligible window at the current monitor
// count. Records that no longer match a window age toward reclamation.
func (k *Keeper) sweep() {
	if k.store.Transitioning() {
		return
	}

	count, err := k.backend.MonitorCount()
	if err != nil {
		k.logger.Error("failed to count monitors", "error", err)
		return
	}
	if count != k.store.MonitorCount() {
		// A display change raced the timer; the restore path owns the
		// count transition.
		return
	}

	windows, err := k.backend.ListWindows()
	if err != nil {
		k.logger.Error("failed to list windows", "error", err)
		return
	}

	k.store.MarkAllStale()
	saved := k.store.SnapshotAll(windows, count)
	k.logger.Debug("snapshot sweep complete", "monitors", count, "saved", saved)
}

// settle commits the post-change monitor count. Placements are restored only
// when the count increased: on a decrease the remaining monitors keep their
// current layout, and the snapshots for the larger count stay intact for the
// eventual reconnect.
func (k *Keeper) settle() {
	count, err := k.backend.MonitorCount()
	if err != nil {
		k.logger.Error("failed to count monitors after display change", "error", err)
		k.store.SetTransitioning(false)
		return
	}

	previous := k.store.MonitorCount()
	if count > previous {
		restored := k.store.RestoreAll(count)
		k.logger.Info("monitor count increased",
			"from", previous, "to", count, "restored", restored)
	} else if count < previous {
		k.logger.Info("monitor count decreased", "from", previous, "to", count)
	}

	k.store.SetMonitorCount(count)
	k.store.SetTransitioning(false)
}

func (k *Keeper) status() Status {
	return Status{
		Monitors:      k.store.MonitorCount(),
		Tracked:       k.store.Len(),
		Live:          k.store.LiveCount(),
		Transitioning: k.store.Transitioning(),
		Uptime:        time.Since(k.started),
	}
}

func (k *Keeper) trackedWindows() []TrackedWindow {
	records := k.store.Records()
	windows := make([]TrackedWindow, 0, len(records))
	for _, rec := range records {
		windows = append(windows, TrackedWindow{
			ID:      uint32(rec.ID()),
			Class:   rec.Class(),
			Stale:   rec.Stale(),
			Buckets: rec.Buckets(),
		})
	}
	return windows
}

func (k *Keeper) stopTimers() {
	if k.saveTimer != nil {
		k.saveTimer.Stop()
	}
	if k.restoreTimer != nil {
		k.restoreTimer.Stop()
	}
}

package placement

import (
	"fmt"
	"testing"

	"github.com/MarcelInTO/MonitorKeeper/internal/platform"
)

// fakeEnv simulates the window system: per-window class and placement, plus
// a log of every apply call so tests can assert on ordering.
type fakeEnv struct {
	classes    map[platform.WindowID]string
	placements map[platform.WindowID]platform.Placement
	applied    []applyCall
	gone       map[platform.WindowID]bool
}

type applyCall struct {
	id platform.WindowID
	p  platform.Placement
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		classes:    make(map[platform.WindowID]string),
		placements: make(map[platform.WindowID]platform.Placement),
		gone:       make(map[platform.WindowID]bool),
	}
}

func (f *fakeEnv) addWindow(id platform.WindowID, class string, p platform.Placement) {
	f.classes[id] = class
	f.placements[id] = p
}

func (f *fakeEnv) WindowClass(id platform.WindowID) (string, error) {
	if f.gone[id] {
		return "", fmt.Errorf("window %d does not exist", id)
	}
	class, ok := f.classes[id]
	if !ok {
		return "", fmt.Errorf("window %d does not exist", id)
	}
	return class, nil
}

func (f *fakeEnv) WindowPlacement(id platform.WindowID) (platform.Placement, error) {
	if f.gone[id] {
		return platform.Placement{}, fmt.Errorf("window %d does not exist", id)
	}
	p, ok := f.placements[id]
	if !ok {
		return platform.Placement{}, fmt.Errorf("window %d does not exist", id)
	}
	return p, nil
}

// ApplyPlacement records the call and settles the window the way a window
// manager would: no-activate directives leave the window in the matching
// steady state.
func (f *fakeEnv) ApplyPlacement(id platform.WindowID, p platform.Placement) error {
	if f.gone[id] {
		return fmt.Errorf("window %d does not exist", id)
	}
	f.applied = append(f.applied, applyCall{id: id, p: p})

	settled := p
	switch p.Show {
	case platform.ShowNoActivate:
		settled.Show = platform.ShowNormal
	case platform.ShowMinNoActivate:
		settled.Show = platform.ShowMinimized
	}
	f.placements[id] = settled
	return nil
}

func rect(x, y, w, h int) platform.Rect {
	return platform.Rect{X: x, Y: y, Width: w, Height: h}
}

func TestRecordCapture_OutOfRangeSkips(t *testing.T) {
	env := newFakeEnv()
	env.addWindow(7, "Notepad", platform.Placement{Rect: rect(10, 20, 300, 200)})

	var rec Record
	for _, monitors := range []int{0, 1, 6, 99} {
		if rec.Capture(env, 7, monitors) {
			t.Fatalf("Capture with %d monitors should report skipped", monitors)
		}
		if len(rec.snapshots) != 0 {
			t.Fatalf("Capture with %d monitors stored a snapshot", monitors)
		}
	}

	// Identity still binds and staleness still resets on a skipped capture.
	if rec.ID() != 7 {
		t.Fatalf("expected identity bound after skipped capture, got %d", rec.ID())
	}
	if rec.Stale() != 0 {
		t.Fatalf("expected stale reset, got %d", rec.Stale())
	}
	if rec.Class() != "Notepad" {
		t.Fatalf("expected class tag refreshed, got %q", rec.Class())
	}
}

func TestRecordCapture_Idempotent(t *testing.T) {
	env := newFakeEnv()
	env.addWindow(7, "Notepad", platform.Placement{Rect: rect(10, 20, 300, 200)})

	var rec Record
	if !rec.Capture(env, 7, 2) {
		t.Fatal("first capture failed")
	}
	first, ok := rec.Snapshot(2)
	if !ok {
		t.Fatal("no snapshot after capture")
	}

	if !rec.Capture(env, 7, 2) {
		t.Fatal("second capture failed")
	}
	second, ok := rec.Snapshot(2)
	if !ok {
		t.Fatal("snapshot disappeared after recapture")
	}
	if first != second {
		t.Fatalf("recapture changed stored state: %+v vs %+v", first, second)
	}
	if got := rec.Buckets(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected single bucket [2], got %v", got)
	}
}

func TestRecordRestore_RoundTrip(t *testing.T) {
	for monitors := MinMonitors; monitors <= MaxMonitors; monitors++ {
		t.Run(fmt.Sprintf("monitors=%d", monitors), func(t *testing.T) {
			env := newFakeEnv()
			want := platform.Placement{Rect: rect(100, 50, 640, 480), Show: platform.ShowNormal}
			env.addWindow(3, "Terminal", want)

			var rec Record
			if !rec.Capture(env, 3, monitors) {
				t.Fatal("capture failed")
			}

			// Window gets shoved elsewhere by the monitor collapse.
			env.placements[3] = platform.Placement{Rect: rect(0, 0, 100, 100)}

			if !rec.Restore(env, monitors) {
				t.Fatal("restore reported skipped")
			}
			got := env.placements[3]
			if got.Rect != want.Rect {
				t.Fatalf("restored rect %+v, want %+v", got.Rect, want.Rect)
			}
			if got.Show != platform.ShowNormal {
				t.Fatalf("restored show %v, want normal", got.Show)
			}
		})
	}
}

func TestRecordRestore_NoSnapshotSkips(t *testing.T) {
	env := newFakeEnv()
	env.addWindow(3, "Terminal", platform.Placement{Rect: rect(1, 2, 3, 4)})

	var rec Record
	if !rec.Capture(env, 3, 2) {
		t.Fatal("capture failed")
	}
	if rec.Restore(env, 3) {
		t.Fatal("restore for an uncaptured bucket should skip")
	}
	if rec.Restore(env, 1) || rec.Restore(env, 6) {
		t.Fatal("restore outside [2,5] should skip")
	}
	if len(env.applied) != 0 {
		t.Fatalf("skipped restore must not touch the window, got %d applies", len(env.applied))
	}
}

func TestRecordRestore_ClassMismatchSkips(t *testing.T) {
	env := newFakeEnv()
	env.addWindow(9, "Notepad", platform.Placement{Rect: rect(10, 10, 200, 100)})

	var rec Record
	if !rec.Capture(env, 9, 2) {
		t.Fatal("capture failed")
	}

	// The window system recycled handle 9 for an unrelated window.
	env.classes[9] = "Calculator"
	env.placements[9] = platform.Placement{Rect: rect(500, 500, 50, 50)}

	if rec.Restore(env, 2) {
		t.Fatal("restore must skip when the class tag no longer matches")
	}
	if len(env.applied) != 0 {
		t.Fatal("the recycled window must not be moved")
	}
	if env.placements[9].Rect != rect(500, 500, 50, 50) {
		t.Fatalf("calculator window moved: %+v", env.placements[9].Rect)
	}
}

func TestRecordRestore_VanishedWindowSkips(t *testing.T) {
	env := newFakeEnv()
	env.addWindow(4, "Editor", platform.Placement{Rect: rect(0, 0, 800, 600)})

	var rec Record
	if !rec.Capture(env, 4, 2) {
		t.Fatal("capture failed")
	}
	env.gone[4] = true

	if rec.Restore(env, 2) {
		t.Fatal("restore of a vanished window should report skipped")
	}
}

func TestRecordRestore_MaximizedTwoPhase(t *testing.T) {
	env := newFakeEnv()
	saved := platform.Placement{
		Rect: rect(1920, 0, 800, 600),
		Icon: rect(5, 5, 32, 32),
		Show: platform.ShowMaximized,
	}
	env.addWindow(11, "Browser", saved)

	var rec Record
	if !rec.Capture(env, 11, 3) {
		t.Fatal("capture failed")
	}
	env.applied = nil

	if !rec.Restore(env, 3) {
		t.Fatal("restore reported skipped")
	}
	if len(env.applied) != 2 {
		t.Fatalf("expected two-phase apply, got %d calls", len(env.applied))
	}

	first, second := env.applied[0], env.applied[1]
	if first.p.Show != platform.ShowNoActivate {
		t.Fatalf("first apply show %v, want show-no-activate", first.p.Show)
	}
	if first.p.Rect != saved.Rect {
		t.Fatalf("first apply rect %+v, want saved rect %+v", first.p.Rect, saved.Rect)
	}
	if second.p.Show != platform.ShowMaximized {
		t.Fatalf("second apply show %v, want maximized", second.p.Show)
	}

	// Legacy icon geometry is cleared on both phases.
	if first.p.Icon != (platform.Rect{}) || second.p.Icon != (platform.Rect{}) {
		t.Fatal("icon geometry must be cleared before apply")
	}
}

func TestRecordRestore_MinimizedAppliesWithoutFocus(t *testing.T) {
	env := newFakeEnv()
	env.addWindow(12, "Mail", platform.Placement{
		Rect: rect(40, 40, 600, 400),
		Show: platform.ShowMinimized,
	})

	var rec Record
	if !rec.Capture(env, 12, 2) {
		t.Fatal("capture failed")
	}
	env.applied = nil

	if !rec.Restore(env, 2) {
		t.Fatal("restore reported skipped")
	}
	if len(env.applied) != 1 {
		t.Fatalf("expected single apply, got %d", len(env.applied))
	}
	if env.applied[0].p.Show != platform.ShowMinNoActivate {
		t.Fatalf("apply show %v, want min-no-activate", env.applied[0].p.Show)
	}
}

package ipc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/MarcelInTO/MonitorKeeper/internal/daemon"
	"github.com/MarcelInTO/MonitorKeeper/internal/platform"
)

// staticBackend is a fixed two-monitor desktop with one eligible window.
type staticBackend struct{}

func (staticBackend) MonitorCount() (int, error) { return 2, nil }

func (staticBackend) ListWindows() ([]platform.Window, error) {
	return []platform.Window{
		{ID: 7, Class: "Navigator", Visible: true, Overlapped: true},
	}, nil
}

func (staticBackend) WindowClass(id platform.WindowID) (string, error) {
	if id != 7 {
		return "", fmt.Errorf("window %d not found", id)
	}
	return "Navigator", nil
}

func (staticBackend) WindowPlacement(id platform.WindowID) (platform.Placement, error) {
	if id != 7 {
		return platform.Placement{}, fmt.Errorf("window %d not found", id)
	}
	return platform.Placement{
		Rect: platform.Rect{X: 10, Y: 20, Width: 800, Height: 600},
	}, nil
}

func (staticBackend) ApplyPlacement(platform.WindowID, platform.Placement) error { return nil }

func startServer(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	keeper := daemon.NewKeeper(daemon.KeeperConfig{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, staticBackend{})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go keeper.Run(ctx)

	srv, err := NewServer(keeper)
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(srv.Stop)
}

func TestServerRoundTrip(t *testing.T) {
	startServer(t)
	client := NewClient()

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus() error: %v", err)
	}
	if status.Monitors != 2 {
		t.Errorf("Monitors = %d, want 2", status.Monitors)
	}
	if status.LiveWindows != 1 {
		t.Errorf("LiveWindows = %d, want 1", status.LiveWindows)
	}
	if !status.DaemonRunning {
		t.Error("DaemonRunning = false, want true")
	}

	windows, err := client.GetWindows()
	if err != nil {
		t.Fatalf("GetWindows() error: %v", err)
	}
	if len(windows.Windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows.Windows))
	}
	w := windows.Windows[0]
	if w.ID != 7 || w.Class != "Navigator" {
		t.Errorf("window = %+v, want id 7 class Navigator", w)
	}
	if len(w.Buckets) != 1 || w.Buckets[0] != 2 {
		t.Errorf("Buckets = %v, want [2]", w.Buckets)
	}

	live, err := client.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if live != 1 {
		t.Errorf("Snapshot() = %d, want 1", live)
	}

	restored, err := client.Restore()
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if restored != 1 {
		t.Errorf("Restore() = %d, want 1", restored)
	}
}

func TestClientReportsDaemonDown(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	client := NewClient()
	client.timeout = 200 * time.Millisecond
	if err := client.Ping(); err == nil {
		t.Fatal("Ping() succeeded with no daemon listening")
	}
}

func TestUnknownCommandReturnsError(t *testing.T) {
	srv := &Server{}
	resp := srv.handleCommand(&Request{Command: CommandType("BOGUS")})
	if resp.Status != "ERROR" {
		t.Fatalf("Status = %q, want ERROR", resp.Status)
	}
}

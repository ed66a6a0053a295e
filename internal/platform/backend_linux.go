//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/MarcelInTO/MonitorKeeper/internal/x11"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)
var _ Watcher = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Watch subscribes to window-moved and display-changed notifications.
func (b *LinuxBackend) Watch(deliver func(EventKind)) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.WatchEvents(
		func() { deliver(EventWindowMoved) },
		func() { deliver(EventDisplayChanged) },
	)
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// MonitorCount returns the number of active monitors.
func (b *LinuxBackend) MonitorCount() (int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	return conn.CountMonitors()
}

// ListWindows returns every managed top-level window with its tracking traits.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	clients, err := conn.ListClientWindows()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(clients))
	for _, windowID := range clients {
		traits := conn.GetWindowTraits(windowID)
		windows = append(windows, Window{
			ID:         WindowID(windowID),
			Class:      traits.Class,
			Visible:    traits.Visible,
			Owned:      traits.Owned,
			Overlapped: traits.Overlapped,
			AppWindow:  traits.AppWindow,
			NoActivate: traits.NoActivate,
		})
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].ID < windows[j].ID
	})

	return windows, nil
}

// WindowClass returns the current WM_CLASS class name of a window.
func (b *LinuxBackend) WindowClass(id WindowID) (string, error) {
	conn, err := b.connection()
	if err != nil {
		return "", err
	}
	return conn.GetWindowClass(xproto.Window(id))
}

// WindowPlacement returns a window's current geometry and show state.
func (b *LinuxBackend) WindowPlacement(id WindowID) (Placement, error) {
	conn, err := b.connection()
	if err != nil {
		return Placement{}, err
	}

	xp, err := conn.GetPlacement(xproto.Window(id))
	if err != nil {
		return Placement{}, err
	}

	p := Placement{
		Rect: Rect{
			X:      xp.Geometry.X,
			Y:      xp.Geometry.Y,
			Width:  xp.Geometry.Width,
			Height: xp.Geometry.Height,
		},
		Show: ShowNormal,
	}
	switch xp.State {
	case x11.StateMinimized:
		p.Show = ShowMinimized
	case x11.StateMaximized:
		p.Show = ShowMaximized
	}
	return p, nil
}

// ApplyPlacement queues an asynchronous placement request for a window.
func (b *LinuxBackend) ApplyPlacement(id WindowID, p Placement) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	xp := x11.Placement{
		Geometry: x11.Geometry{
			X:      p.Rect.X,
			Y:      p.Rect.Y,
			Width:  p.Rect.Width,
			Height: p.Rect.Height,
		},
		State: x11.StateNormal,
	}
	switch p.Show {
	case ShowMinimized, ShowMinNoActivate:
		xp.State = x11.StateMinimized
	case ShowMaximized:
		xp.State = x11.StateMaximized
	}
	return conn.ApplyPlacement(xproto.Window(id), xp)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

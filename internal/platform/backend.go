package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// ShowState describes how a window is (or should be) shown. Normal,
// Minimized and Maximized are states captured from live windows;
// NoActivate and MinNoActivate are apply-only directives that position a
// window without stealing focus.
type ShowState int

const (
	ShowNormal ShowState = iota
	ShowMinimized
	ShowMaximized
	ShowNoActivate
	ShowMinNoActivate
)

// String returns the string representation of the show state.
func (s ShowState) String() string {
	switch s {
	case ShowNormal:
		return "normal"
	case ShowMinimized:
		return "minimized"
	case ShowMaximized:
		return "maximized"
	case ShowNoActivate:
		return "show-no-activate"
	case ShowMinNoActivate:
		return "min-no-activate"
	default:
		return "unknown"
	}
}

// Placement is a window's position plus its show state. Icon carries the
// legacy minimized-icon geometry; modern window managers ignore it and it
// is cleared before every apply.
type Placement struct {
	Rect Rect
	Icon Rect
	Show ShowState
}

// Window contains the metadata needed to decide whether a top-level window
// is worth tracking.
type Window struct {
	ID         WindowID
	Class      string
	Visible    bool // mapped, or iconified but still managed
	Owned      bool // transient for / owned by another window
	Overlapped bool // standard decorated application window
	AppWindow  bool // explicitly flagged as an app window
	NoActivate bool // never takes focus (docks, tooltips, popups)
}

// Backend abstracts the window system the placement cache observes and
// drives. ApplyPlacement is asynchronous by contract: it queues the request
// with the window system and never blocks on the target window's owner.
type Backend interface {
	MonitorCount() (int, error)
	ListWindows() ([]Window, error)
	WindowClass(id WindowID) (string, error)
	WindowPlacement(id WindowID) (Placement, error)
	ApplyPlacement(id WindowID, p Placement) error
}

// EventKind identifies a notification delivered by the window system.
type EventKind int

const (
	// EventWindowMoved fires for window location changes; high frequency
	// during drags and resizes.
	EventWindowMoved EventKind = iota
	// EventDisplayChanged fires when the display configuration changes.
	EventDisplayChanged
)

// Watcher is implemented by backends that can deliver window-system
// notifications. Delivery order follows the window system's event stream.
type Watcher interface {
	Watch(func(EventKind)) error
	EventLoop()
}

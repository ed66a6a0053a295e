package x11

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// WindowTraits describes the properties of a top-level window that matter
// when deciding whether to track its placement.
type WindowTraits struct {
	Class      string
	Visible    bool
	Owned      bool
	Overlapped bool
	AppWindow  bool
	NoActivate bool
}

// ListClientWindows returns the window manager's client list.
func (c *Connection) ListClientWindows() ([]xproto.Window, error) {
	return ewmh.ClientListGet(c.XUtil)
}

// GetWindowClass returns the window's WM_CLASS class name, trimmed.
func (c *Connection) GetWindowClass(windowID xproto.Window) (string, error) {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(wmClass.Class), nil
}

// GetWindowTraits queries the visibility, ownership and style traits of a
// window. Property reads are best-effort: a window that disappears
// mid-query just comes back untrackable.
func (c *Connection) GetWindowTraits(windowID xproto.Window) WindowTraits {
	var traits WindowTraits

	traits.Class, _ = c.GetWindowClass(windowID)

	hidden := false
	skipTaskbar := false
	if states, err := ewmh.WmStateGet(c.XUtil, windowID); err == nil {
		for _, state := range states {
			switch state {
			case "_NET_WM_STATE_HIDDEN":
				hidden = true
			case "_NET_WM_STATE_SKIP_TASKBAR":
				skipTaskbar = true
			}
		}
	}

	// Mapped windows and iconified-but-managed windows both count as
	// visible; withdrawn windows do not.
	if attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply(); err == nil {
		traits.Visible = attrs.MapState == xproto.MapStateViewable || hidden
	}

	if owner, err := icccm.WmTransientForGet(c.XUtil, windowID); err == nil && owner != 0 {
		traits.Owned = true
	}

	// A missing property comes back as an error from xgbutil; either way
	// the window has no declared type.
	types, _ := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	traits.Overlapped, traits.AppWindow, traits.NoActivate = windowTypeTraits(types)
	if skipTaskbar {
		traits.NoActivate = true
	}

	return traits
}

// windowTypeTraits classifies a window's _NET_WM_WINDOW_TYPE values. EWMH
// says a window without the property must be treated as NORMAL, and plenty
// of plain application windows (xterm among them) never set it.
func windowTypeTraits(types []string) (overlapped, appWindow, noActivate bool) {
	if len(types) == 0 {
		return false, true, false
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			overlapped = true
		case "_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_TOOLBAR",
			"_NET_WM_WINDOW_TYPE_MENU",
			"_NET_WM_WINDOW_TYPE_UTILITY",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_DROPDOWN_MENU",
			"_NET_WM_WINDOW_TYPE_POPUP_MENU",
			"_NET_WM_WINDOW_TYPE_TOOLTIP",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			noActivate = true
		}
	}
	return overlapped, appWindow, noActivate
}

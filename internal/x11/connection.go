package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	onWindowMoved   func()
	onDisplayChange func()
}

// NewConnection establishes a connection to the X11 server and initializes
// the RandR extension.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	if err := randr.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// WatchEvents subscribes to the root-window notifications the keeper needs:
// ConfigureNotify for child windows (location changes) and RandR screen
// changes (display configuration changes). Callbacks run on the event-loop
// goroutine.
func (c *Connection) WatchEvents(onWindowMoved, onDisplayChange func()) error {
	c.onWindowMoved = onWindowMoved
	c.onDisplayChange = onDisplayChange

	mask := uint32(xproto.EventMaskSubstructureNotify | xproto.EventMaskStructureNotify)
	if err := xproto.ChangeWindowAttributesChecked(
		c.XUtil.Conn(),
		c.Root,
		xproto.CwEventMask,
		[]uint32{mask},
	).Check(); err != nil {
		return fmt.Errorf("failed to select root window events: %w", err)
	}

	randr.SelectInput(c.XUtil.Conn(), c.Root, randr.NotifyMaskScreenChange)
	return nil
}

// EventLoop reads and dispatches X events until the connection closes
// (blocking). Unknown event types are dropped.
func (c *Connection) EventLoop() {
	for {
		ev, err := c.XUtil.Conn().WaitForEvent()
		if ev == nil && err == nil {
			return // connection closed
		}
		if err != nil {
			continue
		}

		switch e := ev.(type) {
		case xproto.ConfigureNotifyEvent:
			// Only child windows of the root are interesting; the root's
			// own ConfigureNotify accompanies a display change, which
			// RandR reports separately.
			if e.Window != c.Root && c.onWindowMoved != nil {
				c.onWindowMoved()
			}
		case randr.ScreenChangeNotifyEvent:
			if c.onDisplayChange != nil {
				c.onDisplayChange()
			}
		}
	}
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

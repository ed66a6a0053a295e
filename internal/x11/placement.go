package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// WindowState is the coarse show state derived from _NET_WM_STATE.
type WindowState int

const (
	StateNormal WindowState = iota
	StateMinimized
	StateMaximized
)

// Geometry is a window's root-relative position and size.
type Geometry struct {
	X, Y          int
	Width, Height int
}

// Placement pairs a window's geometry with its show state.
type Placement struct {
	Geometry Geometry
	State    WindowState
}

// GetPlacement reads a window's current geometry and show state.
func (c *Connection) GetPlacement(windowID xproto.Window) (Placement, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Placement{}, fmt.Errorf("failed to get geometry: %w", err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return Placement{}, fmt.Errorf("failed to translate coordinates: %w", err)
	}

	p := Placement{
		Geometry: Geometry{
			X:      int(translate.DstX),
			Y:      int(translate.DstY),
			Width:  int(geom.Width),
			Height: int(geom.Height),
		},
		State: StateNormal,
	}

	hasMaxH, hasMaxV, hidden := false, false, false
	if states, err := ewmh.WmStateGet(c.XUtil, windowID); err == nil {
		for _, state := range states {
			switch state {
			case "_NET_WM_STATE_MAXIMIZED_HORZ":
				hasMaxH = true
			case "_NET_WM_STATE_MAXIMIZED_VERT":
				hasMaxV = true
			case "_NET_WM_STATE_HIDDEN":
				hidden = true
			}
		}
	}
	switch {
	case hidden:
		p.State = StateMinimized
	case hasMaxH && hasMaxV:
		p.State = StateMaximized
	}

	return p, nil
}

// applyStep is one X request in a placement application.
type applyStep int

const (
	stepUnmaximize applyStep = iota
	stepDeiconify
	stepMoveResize
	stepMaximize
	stepIconify
)

// applySteps returns the ordered requests for reaching a show state. A
// minimized window gets its geometry applied before iconifying, so a later
// deiconify lands the frame at the saved spot instead of wherever the
// window manager last collapsed it.
func applySteps(state WindowState) []applyStep {
	switch state {
	case StateMaximized:
		return []applyStep{stepMaximize}
	case StateMinimized:
		return []applyStep{stepMoveResize, stepIconify}
	default:
		return []applyStep{stepUnmaximize, stepDeiconify, stepMoveResize}
	}
}

// ApplyPlacement positions a window according to the placement. All requests
// here are client messages or configure requests queued with the X server:
// nothing waits on the target window's owning client, so a hung application
// cannot stall the caller.
func (c *Connection) ApplyPlacement(windowID xproto.Window, p Placement) error {
	// Probe validity first; everything after this is best-effort.
	if _, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply(); err != nil {
		return fmt.Errorf("window no longer valid: %w", err)
	}

	for _, step := range applySteps(p.State) {
		switch step {
		case stepUnmaximize:
			// Some windows don't support state changes; keep going.
			_ = c.unmaximizeWindow(windowID)
		case stepDeiconify:
			// Deiconify without focusing. MapWindow raises no focus request.
			xproto.MapWindow(c.XUtil.Conn(), windowID)
		case stepMoveResize:
			if err := ewmh.MoveresizeWindow(
				c.XUtil,
				windowID,
				p.Geometry.X, p.Geometry.Y, p.Geometry.Width, p.Geometry.Height,
			); err != nil {
				return err
			}
		case stepMaximize:
			ewmh.WmStateReq(c.XUtil, windowID, 1, "_NET_WM_STATE_MAXIMIZED_HORZ")
			ewmh.WmStateReq(c.XUtil, windowID, 1, "_NET_WM_STATE_MAXIMIZED_VERT")
		case stepIconify:
			if err := c.iconifyWindow(windowID); err != nil {
				return err
			}
		}
	}
	return nil
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			ewmh.WmStateReq(c.XUtil, windowID, 0, state)
		}
	}

	return nil
}

// iconifyWindow minimizes a window via WM_CHANGE_STATE without activating it.
func (c *Connection) iconifyWindow(windowID xproto.Window) error {
	reply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len("WM_CHANGE_STATE")), "WM_CHANGE_STATE").Reply()
	if err != nil {
		return err
	}

	const iconicState = 3
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   reply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{iconicState, 0, 0, 0, 0}),
	}

	return xproto.SendEvent(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

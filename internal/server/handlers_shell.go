package server

import (
	"encoding/binary"
	"fmt"

	"github.com/ewc-project/ewc/internal/compositor"
	"github.com/ewc-project/ewc/internal/proto"
	"github.com/ewc-project/ewc/internal/shell"
	"github.com/ewc-project/ewc/internal/wire"
)

// xdgSurfaceSink wire-encodes shell.SurfaceSink.
type xdgSurfaceSink struct {
	c     *Client
	objID uint32
}

func (s *xdgSurfaceSink) SendConfigure(serial uint32) {
	s.c.conn.WriteMessage(s.objID, 0, proto.XdgSurface.Events[0].Sig, []wire.ArgValue{{Uint: serial}})
	s.c.conn.Flush()
}

// toplevelSink wire-encodes shell.ToplevelSink.
type toplevelSink struct {
	c     *Client
	objID uint32
}

func encodeStates(states []uint32) []byte {
	out := make([]byte, 4*len(states))
	for i, s := range states {
		binary.LittleEndian.PutUint32(out[i*4:], s)
	}
	return out
}

func (t *toplevelSink) SendConfigure(width, height int32, states []uint32) {
	t.c.conn.WriteMessage(t.objID, 0, proto.XdgToplevel.Events[0].Sig, []wire.ArgValue{
		{Int: width}, {Int: height}, {Arr: encodeStates(states)},
	})
	t.c.conn.Flush()
}

func (t *toplevelSink) SendClose() {
	t.c.conn.WriteMessage(t.objID, 1, proto.XdgToplevel.Events[1].Sig, nil)
	t.c.conn.Flush()
}

func (t *toplevelSink) SendConfigureBounds(width, height int32) {
	t.c.conn.WriteMessage(t.objID, 2, proto.XdgToplevel.Events[2].Sig, []wire.ArgValue{
		{Int: width}, {Int: height},
	})
}

// popupSink wire-encodes shell.PopupSink.
type popupSink struct {
	c     *Client
	objID uint32
}

func (p *popupSink) SendConfigure(x, y, w, h int32) {
	p.c.conn.WriteMessage(p.objID, 0, proto.XdgPopup.Events[0].Sig, []wire.ArgValue{
		{Int: x}, {Int: y}, {Int: w}, {Int: h},
	})
	p.c.conn.Flush()
}

func (p *popupSink) SendPopupDone() {
	p.c.conn.WriteMessage(p.objID, 1, proto.XdgPopup.Events[1].Sig, nil)
	p.c.conn.Flush()
}

func (p *popupSink) SendRepositioned(token uint32) {
	p.c.conn.WriteMessage(p.objID, 2, proto.XdgPopup.Events[2].Sig, []wire.ArgValue{{Uint: token}})
}

func (c *Client) handleWmBase(objID uint32, reqName string, msg wire.Message) error {
	switch reqName {
	case "destroy":
		c.destroyObject(objID)
		return nil
	case "create_positioner":
		id := msg.Args[0].NewID
		if err := c.register(id, proto.XdgPositioner, 6); err != nil {
			return err
		}
		c.positioners[id] = &shell.Positioner{}
		return nil
	case "get_xdg_surface":
		id := msg.Args[0].NewID
		s, ok := c.surfaces[msg.Args[1].Object]
		if !ok {
			return fmt.Errorf("%w: get_xdg_surface: unknown surface", wire.ErrProtocol)
		}
		if s.Role != compositor.RoleNone {
			return fmt.Errorf("%w: get_xdg_surface: surface already has a role", wire.ErrProtocol)
		}
		if err := c.register(id, proto.XdgSurface, 6); err != nil {
			return err
		}
		xs := shell.NewXdgSurface(&xdgSurfaceSink{c: c, objID: id}, s)
		s.Role = compositor.RoleXdg
		c.xdgSurfaces[id] = xs
		return nil
	case "pong":
		return nil
	}
	return fmt.Errorf("%w: xdg_wm_base.%s unknown", wire.ErrProtocol, reqName)
}

func (c *Client) handlePositioner(objID uint32, reqName string, msg wire.Message) error {
	p, ok := c.positioners[objID]
	if !ok {
		return nil
	}
	switch reqName {
	case "destroy":
		delete(c.positioners, objID)
		c.destroyObject(objID)
		return nil
	case "set_size":
		p.Width, p.Height = msg.Args[0].Int, msg.Args[1].Int
		return nil
	case "set_anchor_rect":
		p.AnchorRect = shell.AnchorRect{X: msg.Args[0].Int, Y: msg.Args[1].Int, W: msg.Args[2].Int, H: msg.Args[3].Int}
		return nil
	case "set_anchor":
		p.Anchor = shell.Anchor(msg.Args[0].Uint)
		return nil
	case "set_gravity":
		p.Gravity = shell.Gravity(msg.Args[0].Uint)
		return nil
	case "set_constraint_adjustment":
		p.ConstraintAdjustment = shell.ConstraintAdjustment(msg.Args[0].Uint)
		return nil
	case "set_offset":
		p.OffsetX, p.OffsetY = msg.Args[0].Int, msg.Args[1].Int
		return nil
	case "set_reactive":
		p.Reactive = true
		return nil
	case "set_parent_size", "set_parent_configure":
		return nil
	}
	return fmt.Errorf("%w: xdg_positioner.%s unknown", wire.ErrProtocol, reqName)
}

func (c *Client) handleXdgSurface(objID uint32, reqName string, msg wire.Message) error {
	xs, ok := c.xdgSurfaces[objID]
	if !ok {
		return nil
	}
	switch reqName {
	case "destroy":
		delete(c.xdgSurfaces, objID)
		c.destroyObject(objID)
		return nil
	case "get_toplevel":
		id := msg.Args[0].NewID
		if err := c.register(id, proto.XdgToplevel, 6); err != nil {
			return err
		}
		t := shell.NewXdgToplevelRole(&toplevelSink{c: c, objID: id}, c.srv.input.FocusStack)
		t.ClientID = c.id
		t.Self = xs
		xs.Specific = shell.SpecificToplevel
		xs.Toplevel = t
		c.toplevels[id] = t
		return nil
	case "get_popup":
		id := msg.Args[0].NewID
		var parentXS *shell.XdgSurface
		if po := msg.Args[1].Object; po != 0 {
			parentXS = c.xdgSurfaces[po]
		}
		positioner, ok := c.positioners[msg.Args[2].Object]
		if !ok || !positioner.Valid() {
			return fmt.Errorf("%w: get_popup: invalid positioner", wire.ErrProtocol)
		}
		if err := c.register(id, proto.XdgPopup, 6); err != nil {
			return err
		}
		origin := func() (int32, int32) { return 0, 0 }
		if parentXS != nil {
			switch parentXS.Specific {
			case shell.SpecificToplevel:
				origin = parentXS.Toplevel.Position
			case shell.SpecificPopup:
				origin = parentXS.Popup.AbsOrigin
			}
		}
		p := shell.NewXdgPopupRole(&popupSink{c: c, objID: id}, c.srv.input.PopupStack, parentXS, xs, *positioner, origin)
		xs.Specific = shell.SpecificPopup
		xs.Popup = p
		c.popups[id] = p
		return nil
	case "set_window_geometry":
		return xs.SetWindowGeometry(msg.Args[0].Int, msg.Args[1].Int, msg.Args[2].Int, msg.Args[3].Int)
	case "ack_configure":
		xs.AckConfigure(msg.Args[0].Uint)
		return nil
	}
	return fmt.Errorf("%w: xdg_surface.%s unknown", wire.ErrProtocol, reqName)
}

func (c *Client) handleToplevel(objID uint32, reqName string, msg wire.Message) error {
	t, ok := c.toplevels[objID]
	if !ok {
		return nil
	}
	switch reqName {
	case "destroy":
		delete(c.toplevels, objID)
		c.destroyObject(objID)
		return nil
	case "set_parent":
		return nil // parent/child stacking not modeled beyond the single focus stack
	case "set_title":
		t.SetTitle(msg.Args[0].Str)
		return nil
	case "set_app_id":
		t.SetAppID(msg.Args[0].Str)
		return nil
	case "show_window_menu":
		return nil
	case "move":
		if idx, ok := c.srv.input.FocusStack.IndexOf(t); ok {
			c.srv.input.Pointer.StartMove(idx, true)
		}
		return nil
	case "resize":
		edge := shell.ResizeEdge(msg.Args[1].Uint)
		if idx, ok := c.srv.input.FocusStack.IndexOf(t); ok {
			c.srv.input.Pointer.StartResize(edge, idx, true)
		}
		return nil
	case "set_max_size":
		t.SetMaxSize(msg.Args[0].Int, msg.Args[1].Int)
		return nil
	case "set_min_size":
		t.SetMinSize(msg.Args[0].Int, msg.Args[1].Int)
		return nil
	case "set_maximized", "unset_maximized", "set_fullscreen", "unset_fullscreen", "set_minimized":
		return nil // window-management states accepted but not modeled (Non-goal scope)
	}
	return fmt.Errorf("%w: xdg_toplevel.%s unknown", wire.ErrProtocol, reqName)
}

func (c *Client) handlePopup(objID uint32, reqName string, msg wire.Message) error {
	p, ok := c.popups[objID]
	if !ok {
		return nil
	}
	switch reqName {
	case "destroy":
		if err := p.RequestDestroy(); err != nil {
			return err
		}
		delete(c.popups, objID)
		c.destroyObject(objID)
		return nil
	case "grab":
		p.Grab = true
		return nil
	case "reposition":
		pos, ok := c.positioners[msg.Args[0].Object]
		if !ok {
			return fmt.Errorf("%w: reposition: invalid positioner", wire.ErrProtocol)
		}
		p.Reposition(p.Self, *pos, msg.Args[1].Uint)
		return nil
	}
	return fmt.Errorf("%w: xdg_popup.%s unknown", wire.ErrProtocol, reqName)
}

package server

import (
	"fmt"

	"github.com/ewc-project/ewc/internal/compositor"
	"github.com/ewc-project/ewc/internal/proto"
	"github.com/ewc-project/ewc/internal/wire"
)

func (c *Client) handleDisplay(objID uint32, reqName string, msg wire.Message) error {
	switch reqName {
	case "sync":
		cbID := msg.Args[0].NewID
		if err := c.register(cbID, proto.WlCallback, 1); err != nil {
			return err
		}
		c.callbackDone[cbID] = true
		c.conn.WriteMessage(cbID, 0, proto.WlCallback.Events[0].Sig, []wire.ArgValue{{Uint: 1}})
		c.destroyObject(cbID)
		return nil
	case "get_registry":
		regID := msg.Args[0].NewID
		if err := c.register(regID, proto.WlRegistry, 1); err != nil {
			return err
		}
		for _, g := range c.srv.globals.All() {
			c.conn.WriteMessage(regID, 0, proto.WlRegistry.Events[0].Sig, []wire.ArgValue{
				{Uint: g.Name}, {Str: g.Interface.Name}, {Uint: g.Version},
			})
		}
		return nil
	}
	return fmt.Errorf("%w: wl_display.%s unknown", wire.ErrProtocol, reqName)
}

func (c *Client) handleRegistry(objID uint32, reqName string, msg wire.Message) error {
	if reqName != "bind" {
		return fmt.Errorf("%w: wl_registry.%s unknown", wire.ErrProtocol, reqName)
	}
	name := msg.Args[0].Uint
	version := msg.Args[2].Uint
	newID := msg.Args[3].NewID
	g, ok := c.srv.globals.ByName(name)
	if !ok {
		return fmt.Errorf("%w: bind: no such global %d", wire.ErrProtocol, name)
	}
	if version == 0 || version > g.Version {
		return fmt.Errorf("%w: bind: version %d exceeds advertised %d", wire.ErrProtocol, version, g.Version)
	}
	return g.Bind(c, newID, version)
}

func (c *Client) handleCompositor(objID uint32, reqName string, msg wire.Message) error {
	switch reqName {
	case "create_surface":
		sid := msg.Args[0].NewID
		ver := uint32(proto.WlSurface.Version)
		if o, ok := c.objs.Lookup(objID); ok {
			ver = o.Version
		}
		if err := c.register(sid, proto.WlSurface, ver); err != nil {
			return err
		}
		s := compositor.NewSurface(sid, c.srv.bufBackend)
		c.registerSurfaceOwner(s, sid)
		return nil
	case "create_region":
		rid := msg.Args[0].NewID
		if err := c.register(rid, proto.WlRegion, 1); err != nil {
			return err
		}
		c.regions[rid] = compositor.NewRegion()
		return nil
	}
	return fmt.Errorf("%w: wl_compositor.%s unknown", wire.ErrProtocol, reqName)
}

func (c *Client) handleSubcompositor(objID uint32, reqName string, msg wire.Message) error {
	switch reqName {
	case "destroy":
		c.destroyObject(objID)
		return nil
	case "get_subsurface":
		subID := msg.Args[0].NewID
		child, ok := c.surfaces[msg.Args[1].Object]
		if !ok {
			return fmt.Errorf("%w: get_subsurface: unknown child surface", wire.ErrProtocol)
		}
		parent, ok := c.surfaces[msg.Args[2].Object]
		if !ok {
			return fmt.Errorf("%w: get_subsurface: unknown parent surface", wire.ErrProtocol)
		}
		if child.Role != compositor.RoleNone {
			return fmt.Errorf("%w: get_subsurface: surface already has a role", wire.ErrProtocol)
		}
		child.Role = compositor.RoleSubsurface
		child.Parent = parent
		parent.SetSubsurfaces(append(parent.Pending.Subsurfaces, compositor.SubsurfaceNode{Child: child}))
		if err := c.register(subID, proto.WlSubsurface, 1); err != nil {
			return err
		}
		c.subsurfaceSurface[subID] = child
		c.subsurfaceParent[subID] = parent
		return nil
	}
	return fmt.Errorf("%w: wl_subcompositor.%s unknown", wire.ErrProtocol, reqName)
}

func (c *Client) handleSurface(objID uint32, reqName string, msg wire.Message) error {
	s, ok := c.surfaces[objID]
	if !ok {
		return nil // tombstoned
	}
	switch reqName {
	case "destroy":
		c.srv.onSurfaceDestroyed(s)
		s.Destroy()
		c.forgetSurface(s, objID)
		c.destroyObject(objID)
		return nil
	case "attach":
		bufObjID := msg.Args[0].Object
		x, y := msg.Args[1].Int, msg.Args[2].Int
		if obj, ok := c.objs.Lookup(objID); ok && obj.Version >= 5 && (x != 0 || y != 0) {
			return fmt.Errorf("%w: attach: non-zero offset (%d,%d) on a v%d surface", wire.ErrProtocol, x, y, obj.Version)
		}
		if bufObjID == 0 {
			s.Attach(0, true)
			return nil
		}
		be, ok := c.buffers[bufObjID]
		if !ok {
			return fmt.Errorf("%w: attach: unknown buffer", wire.ErrProtocol)
		}
		s.Attach(be.resource, false)
		return nil
	case "damage", "damage_buffer":
		return nil // whole-surface redraw only (Non-goal: damage tracking)
	case "frame":
		cbID := msg.Args[0].NewID
		if err := c.register(cbID, proto.WlCallback, 1); err != nil {
			return err
		}
		s.AddFrameCallback(cbID)
		return nil
	case "set_opaque_region":
		if msg.Args[0].Object == 0 {
			s.SetOpaqueRegion(nil)
		} else if r, ok := c.regions[msg.Args[0].Object]; ok {
			s.SetOpaqueRegion(r.Clone())
		}
		return nil
	case "set_input_region":
		if msg.Args[0].Object == 0 {
			s.SetInputRegion(nil)
		} else if r, ok := c.regions[msg.Args[0].Object]; ok {
			s.SetInputRegion(r.Clone())
		}
		return nil
	case "commit":
		if err := s.Commit(); err != nil {
			return err
		}
		c.srv.onSurfaceCommitted(c, objID, s)
		return nil
	case "set_buffer_transform":
		t, err := bufferTransformFromWire(msg.Args[0].Int)
		if err != nil {
			return err
		}
		s.SetTransform(t)
		return nil
	case "set_buffer_scale", "offset":
		return nil // legacy scale/offset path not modeled beyond viewport dst
	}
	return fmt.Errorf("%w: wl_surface.%s unknown", wire.ErrProtocol, reqName)
}

func bufferTransformFromWire(v int32) (compositor.Transform, error) {
	if v < 0 || v > int32(compositor.TransformFlipped270) {
		return 0, fmt.Errorf("%w: set_buffer_transform: invalid value %d", wire.ErrProtocol, v)
	}
	return compositor.Transform(v), nil
}

func (c *Client) handleSubsurface(objID uint32, reqName string, msg wire.Message) error {
	child, ok := c.subsurfaceSurface[objID]
	if !ok {
		return nil
	}
	parent := c.subsurfaceParent[objID]
	switch reqName {
	case "destroy":
		if parent != nil {
			parent.SetSubsurfaces(removeSubsurfaceNode(parent.Pending.Subsurfaces, child))
		}
		child.Role = compositor.RoleNone
		child.Parent = nil
		delete(c.subsurfaceSurface, objID)
		delete(c.subsurfaceParent, objID)
		c.destroyObject(objID)
		return nil
	case "set_position":
		if parent == nil {
			return nil
		}
		nodes := append([]compositor.SubsurfaceNode(nil), parent.Pending.Subsurfaces...)
		for i, n := range nodes {
			if n.Child == child {
				nodes[i].X, nodes[i].Y = msg.Args[0].Int, msg.Args[1].Int
			}
		}
		parent.SetSubsurfaces(nodes)
		return nil
	case "place_above":
		sib := c.surfaces[msg.Args[0].Object]
		parent.SetSubsurfaces(compositor.PlaceAbove(parent.Pending.Subsurfaces, child, sib))
		return nil
	case "place_below":
		sib := c.surfaces[msg.Args[0].Object]
		parent.SetSubsurfaces(compositor.PlaceBelow(parent.Pending.Subsurfaces, child, sib))
		return nil
	case "set_sync":
		child.SyncMode = true
		return nil
	case "set_desync":
		child.SyncMode = false
		return nil
	}
	return fmt.Errorf("%w: wl_subsurface.%s unknown", wire.ErrProtocol, reqName)
}

func removeSubsurfaceNode(nodes []compositor.SubsurfaceNode, child *compositor.Surface) []compositor.SubsurfaceNode {
	out := nodes[:0]
	for _, n := range nodes {
		if n.Child != child {
			out = append(out, n)
		}
	}
	return out
}

func (c *Client) handleRegion(objID uint32, reqName string, msg wire.Message) error {
	r, ok := c.regions[objID]
	if !ok {
		return nil
	}
	switch reqName {
	case "destroy":
		delete(c.regions, objID)
		c.destroyObject(objID)
		return nil
	case "add":
		r.Add(compositor.Rect{
			X1: msg.Args[0].Int, Y1: msg.Args[1].Int,
			X2: msg.Args[0].Int + msg.Args[2].Int, Y2: msg.Args[1].Int + msg.Args[3].Int,
		})
		return nil
	case "subtract":
		r.Subtract(compositor.Rect{
			X1: msg.Args[0].Int, Y1: msg.Args[1].Int,
			X2: msg.Args[0].Int + msg.Args[2].Int, Y2: msg.Args[1].Int + msg.Args[3].Int,
		})
		return nil
	}
	return fmt.Errorf("%w: wl_region.%s unknown", wire.ErrProtocol, reqName)
}

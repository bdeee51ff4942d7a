// Package server wires the object table, protocol schema, and the
// compositor/shell/input/scene packages together into a running Wayland
// display server: one Connection per client, a GlobalRegistry, an
// epoll-based event loop, and the per-frame control flow.
//
// Grounded on original_source/src/client.rs (Connection/Client/
// RequestCtx), src/globals/mod.rs (GlobalsManager) and src/main.rs
// (Server/State, destroy_client, the per-frame loop).
package server

import (
	"github.com/ewc-project/ewc/internal/backend"
	"github.com/ewc-project/ewc/internal/compositor"
	"github.com/ewc-project/ewc/internal/object"
	"github.com/ewc-project/ewc/internal/proto"
	"github.com/ewc-project/ewc/internal/shell"
	"github.com/ewc-project/ewc/internal/wire"
)

// shmPoolClient is the per-client bookkeeping for one wl_shm_pool: its
// backend handle and the fd/size the client created it with, needed so
// resize() can re-validate and so destroy can notify the backend once
// every buffer using it has also gone away.
type shmPoolClient struct {
	id             backend.PoolID
	fd             int
	size           int32
	nbufs          int
	pendingDestroy bool
}

// bufferEntry tracks a wl_buffer resource client-side: which pool (if
// shm) it came from, and a released flag that releaseBuffer checks but
// nothing sets (spec.md §4.4 "Buffer lifecycle").
type bufferEntry struct {
	resource compositor.BufferResource
	pool     *shmPoolClient
	released bool
}

// Client is one connected Wayland client: its wire connection, object
// table, and every per-client resource map a request can touch.
type Client struct {
	id   uint32
	conn *wire.Conn
	fd   int
	objs *object.Table
	srv  *Server

	surfaces    map[uint32]*compositor.Surface
	surfaceRev  map[*compositor.Surface]uint32
	regions     map[uint32]*compositor.Region
	shmPools    map[uint32]*shmPoolClient
	buffers     map[uint32]*bufferEntry
	xdgSurfaces map[uint32]*shell.XdgSurface
	toplevels   map[uint32]*shell.XdgToplevelRole
	popups      map[uint32]*shell.XdgPopupRole
	positioners map[uint32]*shell.Positioner
	viewports   map[uint32]*compositor.Surface // wp_viewport object id -> target surface
	outputs     map[uint32]bool

	keyboards map[uint32]*keyboardResource
	pointers  map[uint32]*pointerResource

	subsurfaceSurface map[uint32]*compositor.Surface // wl_subsurface object id -> child surface
	subsurfaceParent  map[uint32]*compositor.Surface // wl_subsurface object id -> parent surface

	callbackDone map[uint32]bool // pending wl_callback ids this client owns

	destroyed bool
}

func newClient(id uint32, conn *wire.Conn, fd int, srv *Server) *Client {
	c := &Client{
		id: id, conn: conn, fd: fd, srv: srv,
		objs:        object.New(),
		surfaces:    make(map[uint32]*compositor.Surface),
		surfaceRev:  make(map[*compositor.Surface]uint32),
		regions:     make(map[uint32]*compositor.Region),
		shmPools:    make(map[uint32]*shmPoolClient),
		buffers:     make(map[uint32]*bufferEntry),
		xdgSurfaces: make(map[uint32]*shell.XdgSurface),
		toplevels:   make(map[uint32]*shell.XdgToplevelRole),
		popups:      make(map[uint32]*shell.XdgPopupRole),
		positioners: make(map[uint32]*shell.Positioner),
		viewports:   make(map[uint32]*compositor.Surface),
		outputs:     make(map[uint32]bool),
		keyboards:   make(map[uint32]*keyboardResource),
		pointers:    make(map[uint32]*pointerResource),
		subsurfaceSurface: make(map[uint32]*compositor.Surface),
		subsurfaceParent:  make(map[uint32]*compositor.Surface),
		callbackDone: make(map[uint32]bool),
	}
	c.objs.RegisterClient(1, proto.WlDisplay, 1, &resourceHandler{c: c, id: 1, ifaceName: "wl_display"})
	return c
}

// register installs objID as a live resource of the given interface,
// dispatched back through resourceHandler into dispatchRequest.
func (c *Client) register(objID uint32, iface *proto.Interface, version uint32) error {
	return c.objs.RegisterClient(objID, iface, version, &resourceHandler{c: c, id: objID, ifaceName: iface.Name})
}

func (c *Client) sendError(objectID, code uint32, message string) {
	c.conn.WriteMessage(1, 0, proto.WlDisplay.Events[0].Sig, []wire.ArgValue{
		{Object: objectID}, {Uint: code}, {Str: message},
	})
	c.conn.Flush()
}

func (c *Client) sendDeleteID(id uint32) {
	c.conn.WriteMessage(1, 1, proto.WlDisplay.Events[1].Sig, []wire.ArgValue{{Uint: id}})
}

// destroyObject tombstones id in the table, emits delete_id, and then
// releases the id for reuse (AckDelete), the uniform teardown step every
// destructor request performs (spec.md §4.2).
func (c *Client) destroyObject(id uint32) {
	c.objs.Destroy(id)
	c.sendDeleteID(id)
	c.objs.AckDelete(id)
}

func (c *Client) registerSurfaceOwner(s *compositor.Surface, objID uint32) {
	c.surfaces[objID] = s
	c.surfaceRev[s] = objID
	c.srv.registerSurfaceOwner(s, c, objID)
}

func (c *Client) forgetSurface(s *compositor.Surface, objID uint32) {
	delete(c.surfaces, objID)
	delete(c.surfaceRev, s)
	c.srv.forgetSurfaceOwner(s)
}

// destroy tears down every resource this client owns: focus/popup-stack
// membership, buffer locks, shm pools, and the backend's view of them
// (spec.md §4.3 "destroy_client").
func (c *Client) destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true

	c.srv.input.PopupStack.RemoveAllOfClient(func(p *shell.XdgPopupRole) uint32 {
		for _, cl := range c.srv.clients {
			if cl.ownsPopup(p) {
				return cl.id
			}
		}
		return 0
	}, c.id)
	c.srv.input.FocusStack.RemoveAllOfClient(c.id)
	for _, kr := range c.keyboards {
		c.srv.input.Keyboard.Release(kr)
	}
	for _, pr := range c.pointers {
		c.srv.input.Pointer.Release(pr)
	}
	for objID, s := range c.surfaces {
		s.Destroy()
		c.forgetSurface(s, objID)
	}
	for _, p := range c.shmPools {
		c.srv.backend.ShmPoolResourceDestroyed(p.id)
	}
	for objID := range c.buffers {
		c.srv.backend.BufferResourceDestroyed(bufferResourceKey(c.id, objID))
	}
	c.conn.Close()
}

func (c *Client) ownsPopup(p *shell.XdgPopupRole) bool {
	for _, got := range c.popups {
		if got == p {
			return true
		}
	}
	return false
}

// bufferResourceKey packs a client id + its wl_buffer object id into the
// opaque compositor.BufferResource/backend resource handle.
func bufferResourceKey(clientID, objID uint32) uint64 {
	return uint64(clientID)<<32 | uint64(objID)
}

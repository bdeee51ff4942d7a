package server

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ewc-project/ewc/internal/backend"
	"github.com/ewc-project/ewc/internal/compositor"
	"github.com/ewc-project/ewc/internal/config"
	"github.com/ewc-project/ewc/internal/cursor"
	"github.com/ewc-project/ewc/internal/input"
	"github.com/ewc-project/ewc/internal/keymap"
	"github.com/ewc-project/ewc/internal/object"
	"github.com/ewc-project/ewc/internal/proto"
	"github.com/ewc-project/ewc/internal/scene"
	"github.com/ewc-project/ewc/internal/wire"
)

// inputCore bundles the single-seat input state every request handler
// and the render traversal needs; kept as one field on Server rather
// than four so the handler files can write c.srv.input.Pointer etc.
type inputCore struct {
	FocusStack *input.FocusStack
	PopupStack *input.PopupStack
	Keyboard   *input.Keyboard
	Pointer    *input.Pointer
	Seat       *input.Seat
}

type surfaceOwner struct {
	client *Client
	objID  uint32
}

// bufBackendAdapter narrows backend.Backend down to the
// compositor.BufferBackend shape the surface commit pipeline needs, so
// internal/compositor never depends on internal/backend directly.
type bufBackendAdapter struct {
	b backend.Backend
}

func (a bufBackendAdapter) CommitBuffer(res compositor.BufferResource) (compositor.BufferID, int32, int32, error) {
	return a.b.BufferCommitted(uint64(res))
}

func (a bufBackendAdapter) LockBuffer(id compositor.BufferID)   { a.b.BufferLock(id) }
func (a bufBackendAdapter) UnlockBuffer(id compositor.BufferID) { a.b.BufferUnlock(id) }

// Server owns every client connection and the single-seat compositor
// state shared across them: the object-schema-driven request dispatch
// in the Client/handlers_*.go files reaches back into this state through
// the fields and methods below (spec.md §4.4 "Server").
//
// Grounded on original_source/src/main.rs's Server/State.
type Server struct {
	listener *wire.Socket
	socket   string

	globals *GlobalRegistry

	backend    backend.Backend
	bufBackend compositor.BufferBackend

	input  *inputCore
	cursor *cursor.Cursor
	cfg    config.Config

	clients      map[uint32]*Client
	nextClientID uint32

	surfaceOwners map[*compositor.Surface]surfaceOwner

	loop *eventLoop

	shuttingDown bool
}

// New constructs a Server bound to socketPath, ready to accept
// connections once Run is called. backendImpl is the concrete display
// backend (internal/backend/sdlwin in cmd/ewc); compiler supplies the
// keymap handed to every wl_keyboard.
func New(socketPath string, backendImpl backend.Backend, compiler keymap.Compiler, cfg config.Config) (*Server, error) {
	km, err := compiler.Compile(nil)
	if err != nil {
		return nil, fmt.Errorf("server: compiling keymap: %w", err)
	}

	listener, err := wire.Listen(socketPath)
	if err != nil {
		return nil, fmt.Errorf("server: listen %s: %w", socketPath, err)
	}

	focus := input.NewFocusStack()
	popups := input.NewPopupStack()
	kbd := input.NewKeyboard(keymap.NewStaticModifierTracker(), km.Format, km.FD, km.Size)
	ptr := input.NewPointer(popups, focus)

	srv := &Server{
		listener: listener,
		socket:   socketPath,
		globals:  NewGlobalRegistry(),
		backend:  backendImpl,
		input: &inputCore{
			FocusStack: focus,
			PopupStack: popups,
			Keyboard:   kbd,
			Pointer:    ptr,
			Seat:       input.NewSeat(kbd, ptr),
		},
		cursor:        cursor.New(cursor.LoadTheme()),
		cfg:           cfg,
		clients:       make(map[uint32]*Client),
		nextClientID:  1,
		surfaceOwners: make(map[*compositor.Surface]surfaceOwner),
	}
	srv.bufBackend = bufBackendAdapter{b: backendImpl}
	srv.registerGlobals()
	return srv, nil
}

// registerGlobals advertises every interface a client's wl_registry may
// bind, each with a Bind closure that registers the object and performs
// whatever per-global setup (sending initial events, etc.) that
// interface's bind requires (spec.md §4.4 "GlobalRegistry").
func (s *Server) registerGlobals() {
	s.globals.Add(proto.WlCompositor, proto.WlCompositor.Version, func(c *Client, id, version uint32) error {
		return c.register(id, proto.WlCompositor, version)
	})
	s.globals.Add(proto.WlSubcompositor, proto.WlSubcompositor.Version, func(c *Client, id, version uint32) error {
		return c.register(id, proto.WlSubcompositor, version)
	})
	s.globals.Add(proto.WlShm, proto.WlShm.Version, func(c *Client, id, version uint32) error {
		if err := c.register(id, proto.WlShm, version); err != nil {
			return err
		}
		for _, f := range s.backend.SupportedShmFormats() {
			c.conn.WriteMessage(id, 0, proto.WlShm.Events[0].Sig, []wire.ArgValue{{Uint: f}})
		}
		return nil
	})
	s.globals.Add(proto.WlOutput, proto.WlOutput.Version, func(c *Client, id, version uint32) error {
		if err := c.register(id, proto.WlOutput, version); err != nil {
			return err
		}
		c.outputs[id] = true
		sendOutputInfo(c, id, version)
		return nil
	})
	s.globals.Add(proto.WlDataDeviceManager, proto.WlDataDeviceManager.Version, func(c *Client, id, version uint32) error {
		return c.register(id, proto.WlDataDeviceManager, version)
	})
	s.globals.Add(proto.WlSeat, proto.WlSeat.Version, func(c *Client, id, version uint32) error {
		if err := c.register(id, proto.WlSeat, version); err != nil {
			return err
		}
		const capPointerKeyboard = 0x3
		c.conn.WriteMessage(id, 0, proto.WlSeat.Events[0].Sig, []wire.ArgValue{{Uint: capPointerKeyboard}})
		if version >= 2 {
			c.conn.WriteMessage(id, 1, proto.WlSeat.Events[1].Sig, []wire.ArgValue{{Str: "seat0"}})
		}
		return nil
	})
	s.globals.Add(proto.XdgWmBase, proto.XdgWmBase.Version, func(c *Client, id, version uint32) error {
		return c.register(id, proto.XdgWmBase, version)
	})
	s.globals.Add(proto.WpViewporter, proto.WpViewporter.Version, func(c *Client, id, version uint32) error {
		return c.register(id, proto.WpViewporter, version)
	})
	s.globals.Add(proto.WpSinglePixelBufferManagerV1, proto.WpSinglePixelBufferManagerV1.Version, func(c *Client, id, version uint32) error {
		return c.register(id, proto.WpSinglePixelBufferManagerV1, version)
	})
	s.globals.Add(proto.WpCursorShapeManagerV1, proto.WpCursorShapeManagerV1.Version, func(c *Client, id, version uint32) error {
		return c.register(id, proto.WpCursorShapeManagerV1, version)
	})
	s.globals.Add(proto.ZwpLinuxDmabufV1, proto.ZwpLinuxDmabufV1.Version, func(c *Client, id, version uint32) error {
		return c.register(id, proto.ZwpLinuxDmabufV1, version)
	})
}

// sendOutputInfo emits the one fixed geometry/mode/done sequence this
// single, un-reconfigurable virtual output advertises (spec.md §4.4
// "wl_output": no hotplug, one mode, matching the backend's window size).
func sendOutputInfo(c *Client, id uint32, version uint32) {
	w, h := c.srv.backend.OutputSize()
	c.conn.WriteMessage(id, 0, proto.WlOutput.Events[0].Sig, []wire.ArgValue{
		{Int: 0}, {Int: 0}, {Int: 0}, {Int: 0},
		{Int: 0}, {Str: "ewc"}, {Str: "virtual"}, {Int: 0},
	})
	const modeCurrentPreferred = 0x3
	c.conn.WriteMessage(id, 1, proto.WlOutput.Events[1].Sig, []wire.ArgValue{
		{Uint: modeCurrentPreferred}, {Int: w}, {Int: h}, {Int: 60000},
	})
	if version >= 2 {
		c.conn.WriteMessage(id, 3, proto.WlOutput.Events[3].Sig, []wire.ArgValue{{Int: 1}})
	}
	c.conn.WriteMessage(id, 2, proto.WlOutput.Events[2].Sig, nil) // done
}

func (s *Server) registerSurfaceOwner(surf *compositor.Surface, c *Client, objID uint32) {
	s.surfaceOwners[surf] = surfaceOwner{client: c, objID: objID}
}

func (s *Server) forgetSurfaceOwner(surf *compositor.Surface) {
	delete(s.surfaceOwners, surf)
}

// resolveSurface implements input.SurfaceResolver against the global
// surface-ownership table, so internal/input stays decoupled from
// internal/object.
func (s *Server) resolveSurface(surf *compositor.Surface) (clientID, objID uint32, ok bool) {
	o, found := s.surfaceOwners[surf]
	if !found {
		return 0, 0, false
	}
	return o.client.id, o.objID, true
}

// onSurfaceCommitted runs after a successful wl_surface.commit: keyboard
// focus tracks the topmost mapped toplevel's own surface, and a client
// cursor surface commit needs no extra bookkeeping since cursor.Render
// reads Current directly every frame.
func (s *Server) onSurfaceCommitted(c *Client, objID uint32, surf *compositor.Surface) {
	if t, ok := s.input.FocusStack.Top(); ok && t.Self != nil && t.Self.Surface == surf {
		s.input.Keyboard.FocusSurface(surf, c.id, objID)
	}
}

// onSurfaceDestroyed clears every piece of global state a surface could
// be referenced from before its owning Client drops its last pointer to
// it (spec.md §4.3 "destroy_client" step order, applied per-surface too).
func (s *Server) onSurfaceDestroyed(surf *compositor.Surface) {
	s.input.Pointer.UnfocusSurface(surf)
	if s.input.Keyboard.FocusedSurface() == surf {
		s.input.Keyboard.FocusSurface(nil, 0, 0)
	}
	s.cursor.UnfocusSurface(surf)
	s.forgetSurfaceOwner(surf)
}

// Close unlinks the listening socket; called once on shutdown.
// Close shuts down the listening socket and unlinks its path, matching
// the original's Drop-on-Server socket cleanup.
func (s *Server) Close() error {
	err := s.listener.Close()
	os.Remove(s.socket)
	return err
}

// acceptOne accepts one pending connection, if any, and registers a
// Client for it. Returns wire.ErrWouldBlock if nothing was pending.
func (s *Server) acceptOne() error {
	conn, err := s.listener.Accept()
	if err != nil {
		return err
	}
	id := s.nextClientID
	s.nextClientID++
	c := newClient(id, wire.NewConn(conn), conn.FD(), s)
	s.clients[id] = c
	if err := s.loop.add(c.fd, eventTag{kind: tagClient, clientID: id}); err != nil {
		delete(s.clients, id)
		c.conn.Close()
		return err
	}
	log.Printf("server: client %d connected", id)
	return nil
}

// serviceClient pumps every fully-buffered request currently readable
// on c's connection, dispatching each through c.dispatchRequest. A
// protocol error or EOF destroys the client.
func (s *Server) serviceClient(c *Client) {
	for {
		objID, opcode, size, err := c.conn.PeekHeader()
		if err != nil {
			if errors.Is(err, wire.ErrWouldBlock) {
				return
			}
			s.destroyClient(c, err)
			return
		}
		obj, ok := c.objs.Lookup(objID)
		if !ok {
			s.destroyClient(c, fmt.Errorf("%w: request on unknown object %d", wire.ErrProtocol, objID))
			return
		}
		sig, desc, ok := obj.Interface.RequestSig(uint16(opcode))
		if !ok {
			s.destroyClient(c, fmt.Errorf("%w: %s has no request opcode %d", wire.ErrProtocol, obj.Interface.Name, opcode))
			return
		}
		msg, err := c.conn.ReadMessage(size, sig)
		if err != nil {
			s.destroyClient(c, err)
			return
		}
		if obj.State == object.Tombstoned {
			continue
		}
		if err := obj.Handler.Dispatch(msg, desc); err != nil {
			s.destroyClient(c, err)
			return
		}
	}
}

// destroyClient runs destroy_client (spec.md §4.3) and drops the
// connection from the server's client table.
func (s *Server) destroyClient(c *Client, cause error) {
	if cause != nil && !errors.Is(cause, wire.ErrWouldBlock) {
		log.Printf("server: client %d disconnected: %v", c.id, cause)
	}
	s.loop.remove(c.fd)
	c.destroy()
	delete(s.clients, c.id)
}

// RenderFrame runs the render traversal and hands the resulting node
// list to the backend's per-frame Frame sink, then drains any frame
// callbacks the traversal collected (spec.md §4.8 "Render traversal").
func (s *Server) RenderFrame(nowMs uint32) {
	s.backend.RenderFrame(func(f backend.Frame) {
		r, g, b := s.cfg.BgColor[0], s.cfg.BgColor[1], s.cfg.BgColor[2]
		f.Clear(r, g, b)
		nodes := scene.Build(s.input.FocusStack, s.input.PopupStack, s.cursor, s.input.Pointer.X, s.input.Pointer.Y, nowMs, frameCallbackSink{s})
		for _, n := range nodes {
			f.AddNode(n.Buffer, n.X, n.Y, n.W, n.H, n.Alpha, n.Transform)
		}
	})
}

// frameCallbackSink adapts scene.Build's drained wl_callback ids back
// onto whichever client object owns that id: frame callbacks are
// server-range ids allocated per-surface-owning client, so the id alone
// does not say which Client to write to without this lookup.
type frameCallbackSink struct{ srv *Server }

func (f frameCallbackSink) Done(callbackObjectID uint32, timeMs uint32) {
	for _, c := range f.srv.clients {
		if _, ok := c.objs.Lookup(callbackObjectID); ok {
			c.conn.WriteMessage(callbackObjectID, 0, proto.WlCallback.Events[0].Sig, []wire.ArgValue{{Uint: timeMs}})
			c.destroyObject(callbackObjectID)
			return
		}
	}
}

// HandleBackendEvent dispatches one backend.Event into the input core,
// translating the two compositor key/button bindings (spec.md §4.7
// "Compositor key bindings") before falling through to normal forwarding.
func (s *Server) HandleBackendEvent(ev backend.Event, mods uint32, timeMs uint32) {
	switch ev.Kind {
	case backend.EventPointerMotion:
		s.input.Pointer.Motion(ev.X, ev.Y, s.resolveSurface)
	case backend.EventPointerButtonPress:
		if input.CheckButtonBinding(mods, ev.Button) {
			if idx, ok := s.input.FocusStack.TopmostAt(s.input.Pointer.X, s.input.Pointer.Y); ok {
				s.input.Pointer.StartMove(idx, true)
				return
			}
		}
		s.input.Pointer.Button(true, ev.Button)
	case backend.EventPointerButtonRelease:
		s.input.Pointer.Button(false, ev.Button)
	case backend.EventPointerAxisVertical:
		s.input.Pointer.AxisVertical(ev.Axis)
	case backend.EventKeyPressed:
		if input.CheckKeyBinding(mods, ev.Keycode) == input.KeyBindingShutdown {
			s.shuttingDown = true
			return
		}
		s.input.Keyboard.UpdateKey(timeMs, ev.Keycode+8, true)
	case backend.EventKeyReleased:
		s.input.Keyboard.UpdateKey(timeMs, ev.Keycode+8, false)
	}
}

// ShuttingDown reports whether a compositor key binding (logo+Escape)
// has requested shutdown.
func (s *Server) ShuttingDown() bool { return s.shuttingDown }

// frameIntervalMs is the epoll_wait timeout that paces RenderFrame,
// targeting a fixed 60Hz since this module has no vblank/presentation
// feedback to pace off (Non-goal: frame-timing precision).
const frameIntervalMs = 1000 / 60

// Run is the main server loop: epoll-multiplexed accept/client-request
// dispatch and backend event delivery, rendering one frame after every
// wait() return, whether it timed out or dispatched events (spec.md §4.4
// "main loop").
//
// Grounded on original_source/src/main.rs's event loop + render_frame
// call each tick.
func (s *Server) Run() error {
	loop, err := newEventLoop()
	if err != nil {
		return err
	}
	s.loop = loop
	defer loop.close()

	if err := loop.add(s.listener.FD(), eventTag{kind: tagListener}); err != nil {
		return err
	}
	s.backend.RegisterFDs(func(fd int, tag backend.EventTag) {
		if err := loop.add(fd, eventTag{kind: tagBackend, backend: int(tag)}); err != nil {
			log.Printf("server: registering backend fd %d: %v", fd, err)
		}
	})

	for !s.shuttingDown {
		err := loop.wait(frameIntervalMs, func(t eventTag) {
			switch t.kind {
			case tagListener:
				for {
					if err := s.acceptOne(); err != nil {
						return
					}
				}
			case tagClient:
				if c, ok := s.clients[t.clientID]; ok {
					s.serviceClient(c)
				}
			case tagBackend:
				s.backend.Poll(backend.EventTag(t.backend))
				s.drainBackendEvents()
			}
		})
		if err != nil {
			return err
		}
		s.RenderFrame(uint32(time.Now().UnixMilli()))
	}
	return nil
}

// drainBackendEvents pumps every backend.Event available after a Poll,
// applying the current depressed-modifier mask to each.
func (s *Server) drainBackendEvents() {
	for {
		ev, ok := s.backend.NextEvent()
		if !ok {
			return
		}
		s.HandleBackendEvent(ev, s.input.Keyboard.ModsDepressed(), uint32(time.Now().UnixMilli()))
	}
}

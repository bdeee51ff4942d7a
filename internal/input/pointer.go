package input

import (
	"github.com/ewc-project/ewc/internal/compositor"
	"github.com/ewc-project/ewc/internal/shell"
)

// Conventional XKB modifier bit positions, used only to detect the two
// compositor key bindings (spec.md §4.7 "Compositor key bindings").
const (
	ModShift = 1 << 0
	ModCtrl  = 1 << 2
	ModAlt   = 1 << 3
	ModLogo  = 1 << 6
)

const (
	BtnLeft  = 0x110
	BtnRight = 0x111
)

// PointerSink is the narrow event-emission contract a single bound
// wl_pointer resource needs.
type PointerSink interface {
	SendEnter(serial uint32, surfaceObjectID uint32, x, y float64)
	SendLeave(serial uint32, surfaceObjectID uint32)
	SendMotion(time uint32, x, y float64)
	SendButton(serial, time, button, state uint32)
	SendAxisVertical(time uint32, value float64)
}

type boundPointer struct {
	clientID uint32
	sink     PointerSink
}

type ptrStateKind int

const (
	ptrNone ptrStateKind = iota
	ptrFocused
	ptrMoving
	ptrResizing
)

// Pointer implements spec.md §4.7 "Pointer": hit-testing, focus
// bookkeeping, button/axis forwarding, and the Moving/Resizing
// interactive-grab state machine.
type Pointer struct {
	popups *PopupStack
	focus  *FocusStack

	X, Y float64

	state ptrStateKind

	focusedSurface      *compositor.Surface
	focusedClientID     uint32
	focusedSurfaceObjID uint32

	movingToplevel   *shell.XdgToplevelRole
	movingStartX     float64
	movingStartY     float64
	movingStartTLX   int32
	movingStartTLY   int32

	resizingToplevel *shell.XdgToplevelRole
	resizingXS       *shell.XdgSurface
	resizingEdge     shell.ResizeEdge
	resizingStartX   float64
	resizingStartY   float64
	resizingStartW   int32
	resizingStartH   int32

	bound []boundPointer

	serial uint32

	lastLocalX, lastLocalY float64
}

func NewPointer(popups *PopupStack, focus *FocusStack) *Pointer {
	return &Pointer{popups: popups, focus: focus}
}

func (p *Pointer) Bind(clientID uint32, sink PointerSink) {
	p.bound = append(p.bound, boundPointer{clientID: clientID, sink: sink})
	if p.state == ptrFocused && clientID == p.focusedClientID {
		p.nextSerial()
		sink.SendEnter(p.serial, p.focusedSurfaceObjID, p.lastLocalX, p.lastLocalY)
	}
}

func (p *Pointer) Release(sink PointerSink) {
	for i, b := range p.bound {
		if b.sink == sink {
			p.bound = append(p.bound[:i], p.bound[i+1:]...)
			return
		}
	}
}

func (p *Pointer) nextSerial() uint32 { p.serial++; return p.serial }

// SurfaceResolver resolves the owning client and wl_surface object id of
// a compositor.Surface; supplied by the server wiring so this package
// stays decoupled from internal/object and internal/server.
type SurfaceResolver func(surface *compositor.Surface) (clientID, objID uint32, ok bool)

// Motion handles a backend pointer-motion event: either updates an active
// move/resize grab, or re-hit-tests and forwards (spec.md §4.7 "Pointer").
func (p *Pointer) Motion(x, y float64, resolve SurfaceResolver) {
	p.X, p.Y = x, y
	switch p.state {
	case ptrMoving:
		dx := x - p.movingStartX
		dy := y - p.movingStartY
		p.movingToplevel.SetPosition(p.movingStartTLX+int32(dx), p.movingStartTLY+int32(dy))
		return
	case ptrResizing:
		dx := int32(x - p.resizingStartX)
		dy := int32(y - p.resizingStartY)
		w, h := p.resizingStartW, p.resizingStartH
		switch p.resizingEdge {
		case shell.ResizeEdgeLeft, shell.ResizeEdgeTopLeft, shell.ResizeEdgeBottomLeft:
			w -= dx
		case shell.ResizeEdgeRight, shell.ResizeEdgeTopRight, shell.ResizeEdgeBottomRight:
			w += dx
		}
		switch p.resizingEdge {
		case shell.ResizeEdgeTop, shell.ResizeEdgeTopLeft, shell.ResizeEdgeTopRight:
			h -= dy
		case shell.ResizeEdgeBottom, shell.ResizeEdgeBottomLeft, shell.ResizeEdgeBottomRight:
			h += dy
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		p.resizingToplevel.UpdateResize(p.resizingXS, w, h)
		return
	}

	hit, ok := HitTest(p.popups, p.focus, x, y)
	if !ok {
		p.forward(nil, hit.LocalX, hit.LocalY, resolve)
		return
	}
	p.forward(hit.Surface, hit.LocalX, hit.LocalY, resolve)
}

// forward implements forward_pointer: re-emit motion if the surface is
// already focused, else leave the old one and enter the new one.
func (p *Pointer) forward(surface *compositor.Surface, lx, ly float64, resolve SurfaceResolver) {
	p.lastLocalX, p.lastLocalY = lx, ly
	if surface != nil && surface == p.focusedSurface {
		for _, b := range p.bound {
			if b.clientID == p.focusedClientID {
				b.sink.SendMotion(0, lx, ly)
			}
		}
		return
	}
	if p.focusedSurface != nil {
		for _, b := range p.bound {
			if b.clientID == p.focusedClientID {
				b.sink.SendLeave(p.nextSerial(), p.focusedSurfaceObjID)
			}
		}
	}
	p.state = ptrNone
	p.focusedSurface = nil
	if surface != nil {
		clientID, objID, ok := resolve(surface)
		if ok {
			p.state = ptrFocused
			p.focusedSurface = surface
			p.focusedSurfaceObjID = objID
			p.focusedClientID = clientID
			for _, b := range p.bound {
				if b.clientID == clientID {
					b.sink.SendEnter(p.nextSerial(), objID, lx, ly)
				}
			}
		}
	}
}

// ButtonPress/Release forward to the currently focused surface only; a
// release also ends any move/resize grab.
func (p *Pointer) Button(pressed bool, button uint32) {
	if !pressed && (p.state == ptrMoving || p.state == ptrResizing) {
		p.state = ptrNone
	}
	if p.focusedSurface == nil {
		return
	}
	state := uint32(0)
	if pressed {
		state = 1
	}
	for _, b := range p.bound {
		if b.clientID == p.focusedClientID {
			b.sink.SendButton(p.nextSerial(), 0, button, state)
		}
	}
}

func (p *Pointer) AxisVertical(value float64) {
	if p.focusedSurface == nil || value == 0 {
		return
	}
	for _, b := range p.bound {
		if b.clientID == p.focusedClientID {
			b.sink.SendAxisVertical(0, value)
		}
	}
}

// UnfocusSurface clears focus if surface currently holds it, e.g. when it
// is destroyed.
func (p *Pointer) UnfocusSurface(surface *compositor.Surface) {
	if p.focusedSurface == surface {
		p.state = ptrNone
		p.focusedSurface = nil
	}
}

// StartMove begins an interactive move of the toplevel at the pointer
// position (or toplevelIdx if given), per spec.md §4.7/§4.6.
func (p *Pointer) StartMove(toplevelIdx int, hasIdx bool) {
	idx := toplevelIdx
	if !hasIdx {
		var ok bool
		idx, ok = p.focus.TopmostAt(p.X, p.Y)
		if !ok {
			return
		}
	}
	t, ok := p.focus.At(idx)
	if !ok || !t.StartMove() {
		return
	}
	p.state = ptrMoving
	p.focusedSurface = nil
	p.movingToplevel = t
	p.movingStartX, p.movingStartY = p.X, p.Y
	p.movingStartTLX, p.movingStartTLY = t.Position()
	p.focus.FocusIndex(idx)
}

// StartResize begins an interactive resize of the toplevel at the pointer
// position (or toplevelIdx if given).
func (p *Pointer) StartResize(edge shell.ResizeEdge, toplevelIdx int, hasIdx bool) {
	idx := toplevelIdx
	if !hasIdx {
		var ok bool
		idx, ok = p.focus.TopmostAt(p.X, p.Y)
		if !ok {
			return
		}
	}
	t, ok := p.focus.At(idx)
	if !ok || t.Self == nil {
		return
	}
	if !t.StartResize(t.Self, edge) {
		return
	}
	geom, _ := t.Self.WindowGeometry()
	p.state = ptrResizing
	p.focusedSurface = nil
	p.resizingToplevel = t
	p.resizingXS = t.Self
	p.resizingEdge = edge
	p.resizingStartX, p.resizingStartY = p.X, p.Y
	p.resizingStartW, p.resizingStartH = geom.Width, geom.Height
	p.focus.FocusIndex(idx)
}

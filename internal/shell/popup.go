package shell

import "fmt"

// PopupSink is the narrow event-emission contract xdg_popup needs.
type PopupSink interface {
	SendConfigure(x, y, w, h int32)
	SendPopupDone()
	SendRepositioned(token uint32)
}

// PopupHooks lets XdgPopupRole join/leave the popup stack without this
// package importing internal/input. Implemented by internal/input's
// PopupStack.
type PopupHooks interface {
	Push(p *XdgPopupRole)
	Remove(p *XdgPopupRole) error // error (ProtocolError) if p is not the top
	IsTop(p *XdgPopupRole) bool
}

// XdgPopupRole is a positioned child of another xdg surface (spec.md §3
// "XdgPopup"). Fully implemented here, supplementing the original
// implementation's unfinished todo!() (see DESIGN.md).
type XdgPopupRole struct {
	Sink   PopupSink
	Stack  PopupHooks
	Parent *XdgSurface
	Self   *XdgSurface

	// ParentOrigin resolves the parent's absolute screen-space origin
	// (a toplevel's own position, or another popup's resolved origin
	// for nested popups). Set by the server wiring at GetPopup time.
	ParentOrigin func() (int32, int32)

	Positioner Positioner
	Grab       bool

	phase Phase

	x, y, w, h int32
}

func NewXdgPopupRole(sink PopupSink, stack PopupHooks, parent, self *XdgSurface, pos Positioner, parentOrigin func() (int32, int32)) *XdgPopupRole {
	return &XdgPopupRole{
		Sink: sink, Stack: stack, Parent: parent, Self: self,
		ParentOrigin: parentOrigin, Positioner: pos, phase: PhaseUnconfigured,
	}
}

// AbsOrigin is this popup's own absolute screen-space origin, for
// children (nested popups or subsurfaces) to resolve against.
func (p *XdgPopupRole) AbsOrigin() (int32, int32) {
	px, py := p.ParentOrigin()
	return px + p.x, py + p.y
}

func (p *XdgPopupRole) Phase() Phase { return p.phase }

// Geometry returns the last-resolved position relative to the parent's
// surface origin, and size.
func (p *XdgPopupRole) Geometry() (x, y, w, h int32) { return p.x, p.y, p.w, p.h }

func (p *XdgPopupRole) resolve() {
	bounds := AnchorRect{X: -100000, Y: -100000, W: 200000, H: 200000}
	if g, ok := p.Parent.WindowGeometry(); ok {
		bounds = AnchorRect{X: g.X - 100000, Y: g.Y - 100000, W: g.Width + 200000, H: g.Height + 200000}
	}
	p.x, p.y = p.Positioner.Resolve(bounds)
	p.w, p.h = p.Positioner.Width, p.Positioner.Height
}

// committed implements the XdgPopup half of spec.md §4.6's state machine.
func (p *XdgPopupRole) committed(xs *XdgSurface) error {
	hasBuffer := xs.Surface.Current.BufferID != 0

	switch p.phase {
	case PhaseUnconfigured:
		if hasBuffer {
			return fmt.Errorf("%w: xdg_popup: buffer committed before initial configure", errProtocol)
		}
		p.resolve()
		p.Sink.SendConfigure(p.x, p.y, p.w, p.h)
		xs.NextSerial()
		p.phase = PhasePendingAck
		return nil

	case PhasePendingAck, PhaseUnmapped:
		if xs.LastAcked() != xs.LastSent() {
			return nil
		}
		if !hasBuffer {
			return nil
		}
		p.phase = PhaseMapped
		p.Stack.Push(p)
		return nil

	case PhaseMapped:
		if !hasBuffer {
			p.phase = PhaseUnmapped
			return p.Stack.Remove(p)
		}
		return nil
	}
	return nil
}

// Reposition handles xdg_popup.reposition: snapshot a new positioner,
// resolve a new position, and emit repositioned(token) followed by a
// fresh configure (spec.md §4.6 "XdgPopup configure").
func (p *XdgPopupRole) Reposition(xs *XdgSurface, pos Positioner, token uint32) {
	p.Positioner = pos
	p.resolve()
	p.Sink.SendRepositioned(token)
	p.Sink.SendConfigure(p.x, p.y, p.w, p.h)
	xs.NextSerial()
}

// RequestDestroy enforces the LIFO popup-stack destroy order (spec.md §8
// "Popup destroyed out of stack order → ProtocolError").
func (p *XdgPopupRole) RequestDestroy() error {
	if p.phase != PhaseMapped {
		return nil
	}
	return p.Stack.Remove(p)
}

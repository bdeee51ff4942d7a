package shell

import "fmt"

// ToplevelSink is the narrow event-emission contract xdg_toplevel needs.
type ToplevelSink interface {
	SendConfigure(width, height int32, states []uint32)
	SendClose()
	SendConfigureBounds(width, height int32)
}

// FocusHooks lets XdgToplevelRole join/leave the focus stack without this
// package importing internal/input (which imports shell for *XdgToplevelRole).
// Implemented by internal/input's FocusStack.
type FocusHooks interface {
	TopPosition() (x, y int32, ok bool)
	Push(t *XdgToplevelRole)
	Remove(t *XdgToplevelRole)
}

// Phase is the XdgToplevel lifecycle state (spec.md §3 "XdgToplevel").
type Phase int

const (
	PhaseUnconfigured Phase = iota
	PhasePendingAck
	PhaseMapped
	PhaseUnmapped
)

const (
	xdgToplevelStateMaximized  = 1
	xdgToplevelStateResizing   = 3
	xdgToplevelStateActivated  = 4
)

// resizeRecord is the in-flight interactive resize state (spec.md §3).
type resizeRecord struct {
	Edge           ResizeEdge
	AnchorAbsX     int32 // absolute position of the pinned opposite corner
	AnchorAbsY     int32
	Serial         uint32
}

// XdgToplevelRole is the movable/resizable window role.
type XdgToplevelRole struct {
	Sink  ToplevelSink
	Focus FocusHooks

	ClientID uint32
	Self     *XdgSurface

	X, Y int32

	Title, AppID string
	MinW, MinH   int32
	MaxW, MaxH   int32

	Activated bool

	phase    Phase
	resizing *resizeRecord
}

func NewXdgToplevelRole(sink ToplevelSink, focus FocusHooks) *XdgToplevelRole {
	return &XdgToplevelRole{Sink: sink, Focus: focus, phase: PhaseUnconfigured}
}

func (t *XdgToplevelRole) Phase() Phase { return t.phase }
func (t *XdgToplevelRole) Position() (int32, int32) { return t.X, t.Y }
func (t *XdgToplevelRole) SetPosition(x, y int32) { t.X, t.Y = x, y }

func (t *XdgToplevelRole) SetMinSize(w, h int32) { t.MinW, t.MinH = w, h }
func (t *XdgToplevelRole) SetMaxSize(w, h int32) { t.MaxW, t.MaxH = w, h }
func (t *XdgToplevelRole) SetTitle(s string)      { t.Title = s }
func (t *XdgToplevelRole) SetAppID(s string)       { t.AppID = s }

func (t *XdgToplevelRole) clamp(w, h int32) (int32, int32) {
	if t.MinW > 0 && w < t.MinW {
		w = t.MinW
	}
	if t.MinH > 0 && h < t.MinH {
		h = t.MinH
	}
	if t.MaxW > 0 && w > t.MaxW {
		w = t.MaxW
	}
	if t.MaxH > 0 && h > t.MaxH {
		h = t.MaxH
	}
	return w, h
}

func (t *XdgToplevelRole) states() []uint32 {
	var s []uint32
	if t.Activated {
		s = append(s, xdgToplevelStateActivated)
	}
	if t.resizing != nil {
		s = append(s, xdgToplevelStateResizing)
	}
	return s
}

// committed implements the XdgToplevel half of spec.md §4.6's state
// machine, invoked from XdgSurface.Committed after window-geometry
// promotion.
func (t *XdgToplevelRole) committed(xs *XdgSurface) error {
	hasBuffer := xs.Surface.Current.BufferID != 0

	switch t.phase {
	case PhaseUnconfigured:
		if hasBuffer {
			return fmt.Errorf("%w: xdg_toplevel: buffer committed before initial configure", errProtocol)
		}
		t.Sink.SendConfigure(0, 0, nil)
		xs.NextSerial()
		t.phase = PhasePendingAck
		return nil

	case PhasePendingAck, PhaseUnmapped:
		if xs.LastAcked() != xs.LastSent() {
			return nil // not acked yet; stay
		}
		if !hasBuffer {
			return nil
		}
		x, y := int32(20), int32(20)
		if lx, ly, ok := t.Focus.TopPosition(); ok {
			x, y = lx+50, ly+50
		}
		t.X, t.Y = x, y
		t.phase = PhaseMapped
		t.Focus.Push(t)
		return nil

	case PhaseMapped:
		if !hasBuffer {
			t.phase = PhaseUnmapped
			t.Focus.Remove(t)
			t.resizing = nil
			return nil
		}
		if t.resizing != nil {
			if serialAcked(xs.LastAcked(), t.resizing.Serial) {
				geom, ok := xs.WindowGeometry()
				if ok {
					ox, oy := geom.OppositeEdgePoint(t.resizing.Edge)
					t.X = t.resizing.AnchorAbsX - ox
					t.Y = t.resizing.AnchorAbsY - oy
				}
				t.resizing = nil
			}
		}
		return nil
	}
	return nil
}

// serialAcked reports whether acked >= sent using modular wrap-around
// comparison, per spec.md §4.6 "clear the resize record once the client
// acks a serial ≥ the initiating one (modular wrap)".
func serialAcked(acked, sent uint32) bool {
	return int32(acked-sent) >= 0
}

// StartMove is invoked by the input core on an xdg_toplevel.move request;
// the input core's Pointer owns the actual drag bookkeeping (start
// coordinates) -- this just validates applicability.
func (t *XdgToplevelRole) StartMove() bool {
	return t.phase == PhaseMapped
}

// StartResize begins an interactive resize: blurs happen in the input
// core; this records the anchor corner to keep pinned.
func (t *XdgToplevelRole) StartResize(xs *XdgSurface, edge ResizeEdge) bool {
	if t.phase != PhaseMapped {
		return false
	}
	geom, ok := xs.WindowGeometry()
	if !ok {
		return false
	}
	ox, oy := geom.OppositeEdgePoint(edge)
	t.resizing = &resizeRecord{Edge: edge, AnchorAbsX: t.X + ox, AnchorAbsY: t.Y + oy}
	return true
}

// UpdateResize sends a new configure(w,h) for an in-progress interactive
// resize, clamped to min/max (spec.md §4.6 "Interactive resize").
func (t *XdgToplevelRole) UpdateResize(xs *XdgSurface, w, h int32) {
	if t.resizing == nil {
		return
	}
	w, h = t.clamp(w, h)
	t.Sink.SendConfigure(w, h, t.states())
	t.resizing.Serial = xs.NextSerial()
}

// RequestClose sends xdg_toplevel.close (e.g. from a server-side
// keybinding or external quit request).
func (t *XdgToplevelRole) RequestClose() { t.Sink.SendClose() }

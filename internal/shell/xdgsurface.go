package shell

import (
	"fmt"

	"github.com/ewc-project/ewc/internal/compositor"
)

// SurfaceSink is the narrow event-emission contract xdg_surface needs:
// sending its own configure event. Implemented by internal/server's
// per-resource event writer; kept as an interface here so this package
// never touches wire encoding directly.
type SurfaceSink interface {
	SendConfigure(serial uint32)
}

// SpecificKind tags which shell role, if any, an XdgSurface has taken on.
type SpecificKind int

const (
	SpecificNone SpecificKind = iota
	SpecificToplevel
	SpecificPopup
)

// XdgSurface is the shell wrapper of a compositor.Surface (spec.md §3
// "XdgSurface"). It implements compositor.RoleCommitHook.
type XdgSurface struct {
	Sink    SurfaceSink
	Surface *compositor.Surface

	Specific     SpecificKind
	Toplevel     *XdgToplevelRole
	Popup        *XdgPopupRole

	pendingGeometry *WindowGeometry
	currentGeometry WindowGeometry
	effectiveSet    bool

	lastSentConfigure uint32
	lastAckedConfigure uint32
}

func NewXdgSurface(sink SurfaceSink, surf *compositor.Surface) *XdgSurface {
	xs := &XdgSurface{Sink: sink, Surface: surf}
	surf.ShellHook = xs
	return xs
}

// SetWindowGeometry handles xdg_surface.set_window_geometry; width/height
// must be positive per spec.md §8 boundary behaviors.
func (x *XdgSurface) SetWindowGeometry(wx, wy, w, h int32) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: xdg_surface window geometry with non-positive dimensions", errProtocol)
	}
	g := WindowGeometry{X: wx, Y: wy, Width: w, Height: h}
	x.pendingGeometry = &g
	return nil
}

func (x *XdgSurface) AckConfigure(serial uint32) {
	x.lastAckedConfigure = serial
}

func (x *XdgSurface) LastAcked() uint32 { return x.lastAckedConfigure }

// NextSerial sends a fresh xdg_surface.configure and returns its serial.
func (x *XdgSurface) NextSerial() uint32 {
	x.lastSentConfigure++
	x.Sink.SendConfigure(x.lastSentConfigure)
	return x.lastSentConfigure
}

func (x *XdgSurface) LastSent() uint32 { return x.lastSentConfigure }

// WindowGeometry returns the effective window geometry, valid once the
// surface has committed at least once.
func (x *XdgSurface) WindowGeometry() (WindowGeometry, bool) {
	return x.currentGeometry, x.effectiveSet
}

// Committed implements compositor.RoleCommitHook: spec.md §4.6
// "XdgSurface.commit".
func (x *XdgSurface) Committed(s *compositor.Surface) error {
	if x.pendingGeometry != nil {
		bbox := s.BoundingBox()
		x.currentGeometry = clampGeometryToBounds(*x.pendingGeometry, bbox)
		x.effectiveSet = true
		x.pendingGeometry = nil
	} else if !x.effectiveSet {
		x.currentGeometry = boundingBoxToGeometry(s.BoundingBox())
		x.effectiveSet = true
	}

	switch x.Specific {
	case SpecificToplevel:
		return x.Toplevel.committed(x)
	case SpecificPopup:
		return x.Popup.committed(x)
	default:
		return nil
	}
}

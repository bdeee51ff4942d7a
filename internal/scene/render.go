// Package scene implements the render traversal: each frame, walk the
// surface tree (mapped toplevels bottom-to-top, recursing subsurfaces)
// producing an ordered list of (buffer, transform, opacity, position)
// nodes plus a cursor node, draining frame callbacks along the way.
//
// Grounded on original_source/src/main.rs's render_surface.
package scene

import (
	"github.com/ewc-project/ewc/internal/backend"
	"github.com/ewc-project/ewc/internal/compositor"
	"github.com/ewc-project/ewc/internal/cursor"
	"github.com/ewc-project/ewc/internal/input"
	"github.com/ewc-project/ewc/internal/shell"
)

// DimmedAlpha is the "dim inactive toplevel" visual policy constant
// (spec.md §9 Open Question: "0.8 in source... a visual policy, not a
// protocol contract").
const DimmedAlpha = 0.8

// Node is one entry of the ordered render list handed to the backend.
type Node struct {
	Buffer    backend.BufferID
	X, Y      float64
	W, H      int32
	Alpha     float64
	Transform compositor.Transform
}

// FrameCallbackSink delivers wl_callback.done for drained frame
// callbacks; implemented by internal/server's per-connection writer.
type FrameCallbackSink interface {
	Done(callbackObjectID uint32, timeMs uint32)
}

// Build walks the focus stack bottom-to-top then the popup stack
// bottom-to-top (so popups paint above their owning toplevel), producing
// the ordered node list plus a cursor node if one should be drawn.
func Build(focus *input.FocusStack, popups *input.PopupStack, crs *cursor.Cursor, ptrX, ptrY float64, nowMs uint32, doneSink FrameCallbackSink) []Node {
	var nodes []Node
	n := focus.Len()
	for i := 0; i < n; i++ {
		t, _ := focus.At(i)
		if t.Phase() != shell.PhaseMapped || t.Self == nil {
			continue
		}
		alpha := DimmedAlpha
		if i == n-1 {
			alpha = 1.0
		}
		geom, ok := t.Self.WindowGeometry()
		ox, oy := int32(0), int32(0)
		if ok {
			ox, oy = geom.X, geom.Y
		}
		tx, ty := t.Position()
		renderSurface(t.Self.Surface, float64(tx-ox), float64(ty-oy), alpha, nowMs, doneSink, &nodes)
	}
	popupList := popups.TopToBottom()
	for i := len(popupList) - 1; i >= 0; i-- {
		p := popupList[i]
		if p.Self == nil {
			continue
		}
		ax, ay := p.AbsOrigin()
		renderSurface(p.Self.Surface, float64(ax), float64(ay), 1.0, nowMs, doneSink, &nodes)
	}

	if surf, cx, cy, img, show := crs.Render(ptrX, ptrY); show {
		if surf != nil {
			renderSurface(surf, cx, cy, 1.0, nowMs, doneSink, &nodes)
		} else if img != nil {
			w, h := img.Bounds().Dx(), img.Bounds().Dy()
			nodes = append(nodes, Node{Buffer: 0, X: cx, Y: cy, W: int32(w), H: int32(h), Alpha: 1.0})
		}
	}
	return nodes
}

// renderSurface is the recursive per-surface step (spec.md §4.8
// "render-surface"): drain frame callbacks, emit a node for the
// committed buffer if any, then recurse into subsurfaces translated by
// their position.
func renderSurface(s *compositor.Surface, x, y float64, alpha float64, nowMs uint32, doneSink FrameCallbackSink, out *[]Node) {
	for _, cb := range s.Current.PendingFrameCallbacks {
		doneSink.Done(cb, nowMs)
	}
	s.Current.PendingFrameCallbacks = nil

	if s.Current.BufferID != 0 {
		w, h := s.Current.EffectiveBufferSize()
		*out = append(*out, Node{
			Buffer: s.Current.BufferID, X: x, Y: y, W: w, H: h,
			Alpha: alpha, Transform: s.Current.Transform,
		})
	}
	for _, n := range s.Current.Subsurfaces {
		if n.Child == nil {
			continue
		}
		renderSurface(n.Child, x+float64(n.X), y+float64(n.Y), alpha, nowMs, doneSink, out)
	}
}

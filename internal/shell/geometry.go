// Package shell implements the xdg-shell layer built on the surface
// primitive: xdg_surface window geometry, the xdg_toplevel and xdg_popup
// lifecycle state machines, the configure/ack-configure handshake,
// interactive move/resize, and positioner resolution.
//
// Grounded on original_source/src/globals/xdg_shell.rs,
// xdg_shell/toplevel.rs, xdg_shell/popup.rs and xdg_shell/positioner.rs.
package shell

import "github.com/ewc-project/ewc/internal/compositor"

// ResizeEdge mirrors the xdg_toplevel.resize_edge enum bitmask.
type ResizeEdge uint32

const (
	ResizeEdgeNone        ResizeEdge = 0
	ResizeEdgeTop         ResizeEdge = 1
	ResizeEdgeBottom      ResizeEdge = 2
	ResizeEdgeLeft        ResizeEdge = 4
	ResizeEdgeTopLeft     ResizeEdge = 5
	ResizeEdgeBottomLeft  ResizeEdge = 6
	ResizeEdgeRight       ResizeEdge = 8
	ResizeEdgeTopRight    ResizeEdge = 9
	ResizeEdgeBottomRight ResizeEdge = 10
)

// WindowGeometry is the xdg_surface window geometry: a sub-rectangle of
// the surface bounding box (spec.md §3 "XdgSurface").
type WindowGeometry struct {
	X, Y          int32
	Width, Height int32
}

// OppositeEdgePoint returns the (x,y) offset, relative to this geometry's
// own origin, of the corner opposite the grabbed edge -- the anchor point
// an interactive resize must keep pinned (spec.md §4.6 "Interactive
// resize"). Ported from original_source's
// WindowGeometry::get_opposite_edge_point.
func (g WindowGeometry) OppositeEdgePoint(edge ResizeEdge) (nx, ny int32) {
	if edge&ResizeEdgeTop != 0 {
		ny = g.Height
	}
	if edge&ResizeEdgeLeft != 0 {
		nx = g.Width
	}
	return nx, ny
}

func clampGeometryToBounds(pending WindowGeometry, bbox compositor.Rect) WindowGeometry {
	g := pending
	x1, y1 := max32(int32(g.X), bbox.X1), max32(int32(g.Y), bbox.Y1)
	x2, y2 := min32(int32(g.X+g.Width), bbox.X2), min32(int32(g.Y+g.Height), bbox.Y2)
	return WindowGeometry{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func boundingBoxToGeometry(bbox compositor.Rect) WindowGeometry {
	return WindowGeometry{X: bbox.X1, Y: bbox.Y1, Width: bbox.X2 - bbox.X1, Height: bbox.Y2 - bbox.Y1}
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

package input

import (
	"github.com/ewc-project/ewc/internal/compositor"
)

// HitResult is the surface found under a point, plus the point translated
// into that surface's local coordinate space.
type HitResult struct {
	Surface *compositor.Surface
	LocalX  float64
	LocalY  float64
}

// HitTest implements spec.md §4.7 "Hit-testing": walk the popup stack
// top-to-bottom (recursing into subsurfaces top-to-bottom within each),
// then the focus stack top-to-bottom (recursing into subsurfaces in
// reverse z-order), translating each toplevel by
// (toplevel.pos − window_geometry.origin).
func HitTest(popups *PopupStack, focus *FocusStack, x, y float64) (HitResult, bool) {
	for _, p := range popups.TopToBottom() {
		if p.Self == nil || p.Self.Surface == nil {
			continue
		}
		ax, ay := p.AbsOrigin()
		if r, ok := hitSurfaceTree(p.Self.Surface, float64(ax), float64(ay), x, y); ok {
			return r, true
		}
	}
	for i := focus.Len() - 1; i >= 0; i-- {
		t, _ := focus.At(i)
		if t.Self == nil || t.Self.Surface == nil {
			continue
		}
		geom, ok := t.Self.WindowGeometry()
		ox, oy := int32(0), int32(0)
		if ok {
			ox, oy = geom.X, geom.Y
		}
		tx, ty := t.Position()
		originX := float64(tx - ox)
		originY := float64(ty - oy)
		if r, ok := hitSurfaceTree(t.Self.Surface, originX, originY, x, y); ok {
			return r, true
		}
	}
	return HitResult{}, false
}

// hitSurfaceTree recurses into subsurfaces in reverse z-order (topmost,
// i.e. last-stacked, first) before testing the surface's own rect,
// matching paint order reversed.
func hitSurfaceTree(s *compositor.Surface, originX, originY float64, x, y float64) (HitResult, bool) {
	subs := s.Current.Subsurfaces
	for i := len(subs) - 1; i >= 0; i-- {
		n := subs[i]
		if n.Child == nil {
			continue
		}
		cx := originX + float64(n.X)
		cy := originY + float64(n.Y)
		if r, ok := hitSurfaceTree(n.Child, cx, cy, x, y); ok {
			return r, true
		}
	}
	w, h := s.Current.EffectiveBufferSize()
	lx, ly := x-originX, y-originY
	if lx < 0 || lx >= float64(w) || ly < 0 || ly >= float64(h) {
		return HitResult{}, false
	}
	if ir := s.Current.InputRegion; ir != nil && !ir.Contains(int32(lx), int32(ly)) {
		return HitResult{}, false
	}
	return HitResult{Surface: s, LocalX: lx, LocalY: ly}, true
}

package shell

import (
	"testing"

	"github.com/ewc-project/ewc/internal/compositor"
)

func TestOppositeEdgePoint(t *testing.T) {
	g := WindowGeometry{Width: 100, Height: 50}
	cases := []struct {
		edge   ResizeEdge
		wx, wy int32
	}{
		{ResizeEdgeTopLeft, 100, 50},
		{ResizeEdgeBottomRight, 0, 0},
		{ResizeEdgeTopRight, 0, 50},
		{ResizeEdgeBottomLeft, 100, 0},
	}
	for _, c := range cases {
		x, y := g.OppositeEdgePoint(c.edge)
		if x != c.wx || y != c.wy {
			t.Errorf("OppositeEdgePoint(%v) = (%d,%d), want (%d,%d)", c.edge, x, y, c.wx, c.wy)
		}
	}
}

func TestClampGeometryToBounds(t *testing.T) {
	bbox := compositor.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100}
	pending := WindowGeometry{X: -10, Y: -10, Width: 50, Height: 200}
	got := clampGeometryToBounds(pending, bbox)
	want := WindowGeometry{X: 0, Y: 0, Width: 40, Height: 100}
	if got != want {
		t.Fatalf("clampGeometryToBounds() = %+v, want %+v", got, want)
	}
}

func TestBoundingBoxToGeometry(t *testing.T) {
	bbox := compositor.Rect{X1: 5, Y1: 5, X2: 25, Y2: 45}
	got := boundingBoxToGeometry(bbox)
	want := WindowGeometry{X: 5, Y: 5, Width: 20, Height: 40}
	if got != want {
		t.Fatalf("boundingBoxToGeometry() = %+v, want %+v", got, want)
	}
}

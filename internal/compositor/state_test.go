package compositor

import "testing"

func TestSurfaceStateCloneIsDeep(t *testing.T) {
	s := NewSurfaceState()
	s.OpaqueRegion = NewRegion()
	s.OpaqueRegion.Add(Rect{0, 0, 10, 10})
	s.Subsurfaces = []SubsurfaceNode{{X: 1, Y: 2}}

	clone := s.Clone()
	clone.OpaqueRegion.Add(Rect{20, 20, 30, 30})
	clone.Subsurfaces[0].X = 99

	if s.OpaqueRegion.Contains(25, 25) {
		t.Fatalf("mutating clone's region leaked into the original")
	}
	if s.Subsurfaces[0].X != 1 {
		t.Fatalf("mutating clone's subsurface slice leaked into the original")
	}
}

func TestEffectiveBufferSizeTransformSwapsDimensions(t *testing.T) {
	s := NewSurfaceState()
	s.BufferW, s.BufferH = 100, 50
	s.Transform = Transform90
	w, h := s.EffectiveBufferSize()
	if w != 50 || h != 100 {
		t.Fatalf("EffectiveBufferSize() with Transform90 = (%d,%d), want (50,100)", w, h)
	}
}

func TestEffectiveBufferSizeViewportDstWins(t *testing.T) {
	s := NewSurfaceState()
	s.BufferW, s.BufferH = 100, 50
	s.Viewport.HasSrc, s.Viewport.SrcW, s.Viewport.SrcH = true, 40, 40
	s.Viewport.HasDst, s.Viewport.DstW, s.Viewport.DstH = true, 200, 200
	w, h := s.EffectiveBufferSize()
	if w != 200 || h != 200 {
		t.Fatalf("EffectiveBufferSize() = (%d,%d), want viewport dst (200,200)", w, h)
	}
}

func TestEffectiveBufferSizeViewportSrcCeiling(t *testing.T) {
	s := NewSurfaceState()
	s.BufferW, s.BufferH = 100, 50
	s.Viewport.HasSrc, s.Viewport.SrcW, s.Viewport.SrcH = true, 10.5, 20.1
	w, h := s.EffectiveBufferSize()
	if w != 11 || h != 21 {
		t.Fatalf("EffectiveBufferSize() = (%d,%d), want src-rect ceiling (11,21)", w, h)
	}
}

func TestEffectiveBufferSizeFallsBackToBuffer(t *testing.T) {
	s := NewSurfaceState()
	s.BufferW, s.BufferH = 32, 64
	w, h := s.EffectiveBufferSize()
	if w != 32 || h != 64 {
		t.Fatalf("EffectiveBufferSize() = (%d,%d), want buffer size (32,64)", w, h)
	}
}

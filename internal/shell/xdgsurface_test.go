package shell

import (
	"testing"

	"github.com/ewc-project/ewc/internal/compositor"
)

type noopBackend struct{}

func (noopBackend) CommitBuffer(res compositor.BufferResource) (compositor.BufferID, int32, int32, error) {
	return 1, 100, 80, nil
}
func (noopBackend) LockBuffer(compositor.BufferID)   {}
func (noopBackend) UnlockBuffer(compositor.BufferID) {}

type fakeSurfaceSink struct {
	serials []uint32
}

func (f *fakeSurfaceSink) SendConfigure(serial uint32) { f.serials = append(f.serials, serial) }

func TestXdgSurfaceNextSerialIncrements(t *testing.T) {
	surf := compositor.NewSurface(1, noopBackend{})
	sink := &fakeSurfaceSink{}
	xs := NewXdgSurface(sink, surf)

	s1 := xs.NextSerial()
	s2 := xs.NextSerial()
	if s1 == s2 {
		t.Fatalf("successive NextSerial() calls must return distinct serials")
	}
	if len(sink.serials) != 2 {
		t.Fatalf("expected 2 configure events sent, got %d", len(sink.serials))
	}
	if xs.LastSent() != s2 {
		t.Fatalf("LastSent() = %d, want %d", xs.LastSent(), s2)
	}
}

func TestXdgSurfaceAckConfigureTracksLastAcked(t *testing.T) {
	surf := compositor.NewSurface(1, noopBackend{})
	xs := NewXdgSurface(&fakeSurfaceSink{}, surf)

	xs.AckConfigure(5)
	if xs.LastAcked() != 5 {
		t.Fatalf("LastAcked() = %d, want 5", xs.LastAcked())
	}
}

func TestXdgSurfaceCommitWithoutGeometryUsesBoundingBox(t *testing.T) {
	surf := compositor.NewSurface(1, noopBackend{})
	xs := NewXdgSurface(&fakeSurfaceSink{}, surf)

	surf.Attach(compositor.BufferResource(1), false)
	if err := surf.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	geom, ok := xs.WindowGeometry()
	if !ok {
		t.Fatalf("WindowGeometry() should be effective after the first commit")
	}
	if geom.Width != 100 || geom.Height != 80 {
		t.Fatalf("WindowGeometry() = %+v, want a 100x80 bounding-box-derived rect", geom)
	}
}

func TestXdgSurfaceSetWindowGeometryRejectsNonPositive(t *testing.T) {
	surf := compositor.NewSurface(1, noopBackend{})
	xs := NewXdgSurface(&fakeSurfaceSink{}, surf)

	if err := xs.SetWindowGeometry(0, 0, 0, 10); err == nil {
		t.Fatalf("expected an error for zero width")
	}
	if err := xs.SetWindowGeometry(0, 0, 10, -1); err == nil {
		t.Fatalf("expected an error for negative height")
	}
}

func TestXdgSurfaceCommitClampsExplicitGeometryToBounds(t *testing.T) {
	surf := compositor.NewSurface(1, noopBackend{})
	xs := NewXdgSurface(&fakeSurfaceSink{}, surf)

	if err := xs.SetWindowGeometry(-10, -10, 50, 50); err != nil {
		t.Fatalf("SetWindowGeometry: %v", err)
	}
	surf.Attach(compositor.BufferResource(1), false)
	if err := surf.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	geom, _ := xs.WindowGeometry()
	if geom.X != 0 || geom.Y != 0 {
		t.Fatalf("geometry should be clamped to the surface's bounding box origin, got %+v", geom)
	}
}

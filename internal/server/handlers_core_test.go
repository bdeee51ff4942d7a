package server

import (
	"testing"

	"github.com/ewc-project/ewc/internal/compositor"
	"github.com/ewc-project/ewc/internal/object"
	"github.com/ewc-project/ewc/internal/proto"
	"github.com/ewc-project/ewc/internal/wire"
)

type noopSurfaceBackend struct{}

func (noopSurfaceBackend) CommitBuffer(res compositor.BufferResource) (compositor.BufferID, int32, int32, error) {
	return 1, 10, 10, nil
}
func (noopSurfaceBackend) LockBuffer(compositor.BufferID)   {}
func (noopSurfaceBackend) UnlockBuffer(compositor.BufferID) {}

func newTestSurfaceClient(t *testing.T, version uint32) (*Client, uint32) {
	t.Helper()
	c := &Client{
		objs:     object.New(),
		surfaces: make(map[uint32]*compositor.Surface),
		buffers:  make(map[uint32]*bufferEntry),
	}
	const surfID = 2
	if err := c.objs.RegisterClient(surfID, proto.WlSurface, version, &resourceHandler{c: c, id: surfID, ifaceName: "wl_surface"}); err != nil {
		t.Fatalf("RegisterClient: %v", err)
	}
	c.surfaces[surfID] = compositor.NewSurface(surfID, noopSurfaceBackend{})
	return c, surfID
}

func TestSurfaceAttachRejectsNonZeroOffsetAtV5(t *testing.T) {
	c, surfID := newTestSurfaceClient(t, 5)
	msg := wire.Message{Args: []wire.ArgValue{{Object: 0}, {Int: 3}, {Int: 0}}}
	err := c.handleSurface(surfID, "attach", msg)
	if err == nil {
		t.Fatalf("expected a ProtocolError for non-zero offset on a v5 surface")
	}
}

func TestSurfaceAttachAllowsZeroOffsetAtV5(t *testing.T) {
	c, surfID := newTestSurfaceClient(t, 5)
	msg := wire.Message{Args: []wire.ArgValue{{Object: 0}, {Int: 0}, {Int: 0}}}
	if err := c.handleSurface(surfID, "attach", msg); err != nil {
		t.Fatalf("attach with zero offset should be accepted: %v", err)
	}
}

func TestSurfaceAttachAllowsLegacyOffsetBelowV5(t *testing.T) {
	c, surfID := newTestSurfaceClient(t, 4)
	msg := wire.Message{Args: []wire.ArgValue{{Object: 0}, {Int: 5}, {Int: 7}}}
	if err := c.handleSurface(surfID, "attach", msg); err != nil {
		t.Fatalf("legacy offset on a v4 surface should be accepted: %v", err)
	}
}

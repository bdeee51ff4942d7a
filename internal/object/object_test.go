package object

import (
	"errors"
	"testing"

	"github.com/ewc-project/ewc/internal/proto"
	"github.com/ewc-project/ewc/internal/wire"
)

var testIface = &proto.Interface{Name: "wl_test", Version: 1}

func TestRegisterClientDenseAllocation(t *testing.T) {
	tbl := New()
	if err := tbl.RegisterClient(1, testIface, 1, nil); err != nil {
		t.Fatalf("RegisterClient(1): %v", err)
	}
	if err := tbl.RegisterClient(2, testIface, 1, nil); err != nil {
		t.Fatalf("RegisterClient(2): %v", err)
	}
	if err := tbl.RegisterClient(4, testIface, 1, nil); err == nil {
		t.Fatalf("RegisterClient(4) should fail: leaves a gap after highest id 2")
	}
}

func TestRegisterClientRejectsServerRange(t *testing.T) {
	tbl := New()
	if err := tbl.RegisterClient(ServerIDBase, testIface, 1, nil); err == nil {
		t.Fatalf("expected out-of-range error for server-range id")
	}
	if err := tbl.RegisterClient(0, testIface, 1, nil); !errors.Is(err, wire.ErrProtocol) {
		t.Fatalf("RegisterClient(0): want ErrProtocol, got %v", err)
	}
}

func TestRegisterClientRejectsDuplicateAlive(t *testing.T) {
	tbl := New()
	if err := tbl.RegisterClient(1, testIface, 1, nil); err != nil {
		t.Fatalf("RegisterClient(1): %v", err)
	}
	if err := tbl.RegisterClient(1, testIface, 1, nil); err == nil {
		t.Fatalf("expected duplicate-id error")
	}
}

func TestDestroyClientIDStaysRoutableUntilAckDelete(t *testing.T) {
	tbl := New()
	tbl.RegisterClient(1, testIface, 1, nil)
	tbl.Destroy(1)

	o, ok := tbl.Lookup(1)
	if !ok {
		t.Fatalf("tombstoned client object should still be routable")
	}
	if o.State != Tombstoned {
		t.Fatalf("want Tombstoned, got %v", o.State)
	}

	// Re-registering the same id before AckDelete must fail: the slot is
	// still occupied, just tombstoned.
	if err := tbl.RegisterClient(1, testIface, 1, nil); err == nil {
		t.Fatalf("expected error re-registering a tombstoned-but-unacked id")
	}

	tbl.AckDelete(1)
	if _, ok := tbl.Lookup(1); ok {
		t.Fatalf("id should be gone from the table after AckDelete")
	}
	if err := tbl.RegisterClient(1, testIface, 1, nil); err != nil {
		t.Fatalf("id should be reusable after AckDelete: %v", err)
	}
}

func TestCreateServerReusesFreedIDsBeforeCounter(t *testing.T) {
	tbl := New()
	a := tbl.CreateServer(testIface, 1, nil)
	b := tbl.CreateServer(testIface, 1, nil)
	if a.ID == b.ID {
		t.Fatalf("expected distinct server ids, got %d twice", a.ID)
	}
	if a.ID < ServerIDBase || b.ID < ServerIDBase {
		t.Fatalf("server ids must be >= ServerIDBase, got %d and %d", a.ID, b.ID)
	}

	tbl.Destroy(a.ID)
	if _, ok := tbl.Lookup(a.ID); ok {
		t.Fatalf("server-range destroy should remove the entry immediately, no ack needed")
	}

	c := tbl.CreateServer(testIface, 1, nil)
	if c.ID != a.ID {
		t.Fatalf("want freed server id %d reused, got %d", a.ID, c.ID)
	}
}

func TestCountTracksLiveAndTombstonedEntries(t *testing.T) {
	tbl := New()
	tbl.RegisterClient(1, testIface, 1, nil)
	tbl.RegisterClient(2, testIface, 1, nil)
	if got := tbl.Count(); got != 2 {
		t.Fatalf("Count() = %d, want 2", got)
	}
	tbl.Destroy(1)
	if got := tbl.Count(); got != 2 {
		t.Fatalf("Count() after tombstoning = %d, want 2 (still present until AckDelete)", got)
	}
	tbl.AckDelete(1)
	if got := tbl.Count(); got != 1 {
		t.Fatalf("Count() after AckDelete = %d, want 1", got)
	}
}

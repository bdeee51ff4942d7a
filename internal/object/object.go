// Package object implements the per-connection numbered object table:
// client-range ids (dense, gap-checked) and server-range ids (freelist
// recycled), tombstoning on destroy, and delete_id bookkeeping.
//
// Grounded on original_source/src/wayland_core.rs's ObjectStorage/
// ObjectState design.
package object

import (
	"fmt"

	"github.com/ewc-project/ewc/internal/proto"
	"github.com/ewc-project/ewc/internal/wire"
)

// ServerIDBase is the first id in the server-allocated range; ids below it
// are client-allocated. Matches the Wayland wire convention (client ids
// start at 1, server ids start at 0xff000000).
const ServerIDBase = 0xff000000

// State is the liveness state of a table slot.
type State int

const (
	Alive State = iota
	Tombstoned
)

// Dispatcher handles one decoded request for the object it is attached to.
// The implementation is internal/server's resourceHandler; the object
// table only routes to it.
type Dispatcher interface {
	Dispatch(msg wire.Message, desc *proto.MessageDesc) error
}

// Object is one live (or tombstoned) entry in a connection's table.
type Object struct {
	ID        uint32
	Interface *proto.Interface
	Version   uint32
	State     State
	Handler   Dispatcher
}

// Table is one connection's object table. New returns an empty table;
// the connection registers wl_display at id 1 itself.
type Table struct {
	objs map[uint32]*Object

	nextServerID uint32
	serverFree   []uint32

	highestClientID uint32
}

func New() *Table {
	t := &Table{
		objs:         make(map[uint32]*Object),
		nextServerID: ServerIDBase,
	}
	return t
}

// Lookup returns the object for id, or false if absent. Requests on a
// Tombstoned object should be silently ignored by callers per spec.md §4.2.
func (t *Table) Lookup(id uint32) (*Object, bool) {
	o, ok := t.objs[id]
	return o, ok
}

// RegisterClient installs a client-allocated id. Per spec.md §4.2, client
// ids must be used densely: id must equal highestClientID+1, or be a reuse
// of a tombstoned slot the client has since deleted via delete_id ack.
func (t *Table) RegisterClient(id uint32, iface *proto.Interface, version uint32, h Dispatcher) error {
	if id == 0 || id >= ServerIDBase {
		return fmt.Errorf("%w: client id %d out of range", wire.ErrProtocol, id)
	}
	if _, ok := t.objs[id]; ok {
		return fmt.Errorf("%w: client id %d already in use", wire.ErrProtocol, id)
	}
	if id > t.highestClientID+1 {
		return fmt.Errorf("%w: client id %d leaves a gap (have %d)", wire.ErrProtocol, id, t.highestClientID)
	}
	if id > t.highestClientID {
		t.highestClientID = id
	}
	t.objs[id] = &Object{ID: id, Interface: iface, Version: version, State: Alive, Handler: h}
	return nil
}

// CreateServer allocates a fresh server-range id (e.g. for wl_callback,
// wl_data_offer) from the free list first, else the counter.
func (t *Table) CreateServer(iface *proto.Interface, version uint32, h Dispatcher) *Object {
	var id uint32
	if n := len(t.serverFree); n > 0 {
		id = t.serverFree[n-1]
		t.serverFree = t.serverFree[:n-1]
	} else {
		id = t.nextServerID
		t.nextServerID++
	}
	o := &Object{ID: id, Interface: iface, Version: version, State: Alive, Handler: h}
	t.objs[id] = o
	return o
}

// Destroy tombstones id. Client ids stay routable-but-ignored until the
// client acks delete_id (AckDelete); server ids go straight back to the
// free list since the server is the sole id authority for that range.
func (t *Table) Destroy(id uint32) {
	o, ok := t.objs[id]
	if !ok {
		return
	}
	o.State = Tombstoned
	if id >= ServerIDBase {
		delete(t.objs, id)
		t.serverFree = append(t.serverFree, id)
	}
}

// AckDelete releases a tombstoned client id, permitting its reuse by a
// later dense allocation. Called when the connection emits delete_id and
// the peer is assumed to have processed it (Wayland does not ACK
// delete_id explicitly; the id simply becomes safe to reuse once the
// event has been flushed).
func (t *Table) AckDelete(id uint32) {
	if o, ok := t.objs[id]; ok && o.State == Tombstoned {
		delete(t.objs, id)
	}
}

// Count returns the number of live+tombstoned entries, for diagnostics
// and tests.
func (t *Table) Count() int { return len(t.objs) }

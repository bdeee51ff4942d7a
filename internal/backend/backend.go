// Package backend defines the Go interface for the out-of-scope
// *Backend* external collaborator (spec.md §1/§6): it opens output(s),
// delivers input events, consumes a render list per frame, and owns
// buffer import. This package holds only the contract; the one concrete
// implementation wired into cmd/ewc lives in internal/backend/sdlwin.
//
// Grounded on original_source/src/backend/mod.rs.
package backend

import "github.com/ewc-project/ewc/internal/compositor"

// EventTag distinguishes wakeup sources handed to the event loop
// (spec.md §6 "register_fds(fn(fd, tag))").
type EventTag int

// BufferID is the opaque backend handle for a committed buffer.
type BufferID = compositor.BufferID

// PoolID is the opaque backend handle for an imported shm pool.
type PoolID uint64

// EventKind enumerates BackendEvent variants (spec.md §6).
type EventKind int

const (
	EventShutdown EventKind = iota
	EventFrame
	EventNewKeyboard
	EventKeyPressed
	EventKeyReleased
	EventNewPointer
	EventPointerMotion
	EventPointerButtonPress
	EventPointerButtonRelease
	EventPointerAxisVertical
	EventDeviceRemoved
)

// Event is a tagged union of everything next_event() can return.
type Event struct {
	Kind EventKind

	DeviceID uint32 // keyboard/pointer id, where applicable

	Keycode uint32  // EventKeyPressed/Released
	X, Y    float64 // EventPointerMotion (absolute screen coords)
	Button  uint32  // EventPointerButtonPress/Release
	Axis    float64 // EventPointerAxisVertical
}

// ShmBufferSpec describes a client shm buffer attach (wl_shm_pool.create_buffer).
type ShmBufferSpec struct {
	Pool          PoolID
	Offset        int32
	Width, Height int32
	Stride        int32
	Format        uint32
}

// SinglePixelBufferSpec describes a wp_single_pixel_buffer_manager_v1 buffer.
type SinglePixelBufferSpec struct {
	R, G, B, A uint32
}

// DmaBufPlane is one plane of a linux-dmabuf import (schema-complete;
// never actually reaches a working import path in this module -- see
// internal/shell.RejectDmabuf and DESIGN.md).
type DmaBufPlane struct {
	FD     int
	Offset uint32
	Stride uint32
	Modifier uint64
}

// Frame is handed to the core's per-frame render callback
// (render_frame(f: FnMut(&mut Frame))); the core calls AddNode once per
// scene.Node produced by the render traversal, in paint order.
type Frame interface {
	Clear(r, g, b float64)
	AddNode(buf BufferID, x, y float64, w, h int32, alpha float64, transform compositor.Transform)
}

// Backend is the external collaborator's full interface (spec.md §6
// "Backend interface (what the core calls)").
type Backend interface {
	RegisterFDs(register func(fd int, tag EventTag))
	Poll(tag EventTag)
	NextEvent() (Event, bool)
	RenderFrame(f func(Frame))
	OutputSize() (w, h int32)

	CreateShmPool(fd int, size int32) (PoolID, error)
	ResizeShmPool(id PoolID, newSize int32) error
	ShmPoolResourceDestroyed(id PoolID)

	CreateShmBuffer(spec ShmBufferSpec, resource uint64) error
	CreateSinglePixBuffer(spec SinglePixelBufferSpec, resource uint64) error
	CreateDmaBuffer(planes []DmaBufPlane, w, h int32, format uint32, resource uint64) error

	BufferCommitted(resource uint64) (BufferID, int32, int32, error)
	BufferLock(id BufferID)
	BufferUnlock(id BufferID)
	BufferResourceDestroyed(resource uint64)
	GetBufferSize(id BufferID) (w, h int32, ok bool)

	SupportedShmFormats() []uint32
}

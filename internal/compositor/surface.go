// Package compositor implements the surface tree and commit pipeline:
// double-buffered surface state, synchronized vs desynchronized
// subsurface semantics, cached-state promotion, and region/viewport
// algebra.
//
// Grounded on original_source/src/globals/compositor.rs.
package compositor

import "fmt"

// Role is the permanent semantic tag on a Surface (spec.md glossary).
type Role int

const (
	RoleNone Role = iota
	RoleCursor
	RoleSubsurface
	RoleXdg
)

// BufferResource identifies a not-yet-committed wl_buffer resource the
// backend can turn into a locked BufferID. Callers pack
// (clientID, objectID) into this opaque value; compositor never
// interprets it beyond passing it to BufferBackend.
type BufferResource uint64

// BufferBackend is the narrow slice of the Backend external collaborator
// (spec.md §6) that the commit pipeline needs: turning a staged buffer
// resource into a locked handle with known size, and adjusting lock
// counts as state is replaced or torn down.
type BufferBackend interface {
	CommitBuffer(res BufferResource) (id BufferID, w, h int32, err error)
	LockBuffer(id BufferID)
	UnlockBuffer(id BufferID)
}

// RoleCommitHook lets a shell role (xdg_surface) observe a surface commit
// after the dirty-mask drain has happened, per spec.md §4.5 step 5.
type RoleCommitHook interface {
	Committed(s *Surface) error
}

// Surface is the rectangular pixel primitive (spec.md §3 "Surface").
type Surface struct {
	ID uint32 // wl_surface object id, for logging/identity only

	Role Role

	// Subsurface role-specific fields, valid when Role == RoleSubsurface.
	Parent   *Surface
	SyncMode bool
	cache    SurfaceState
	hasCache bool

	// Shell role-specific hook, valid when Role == RoleXdg.
	ShellHook RoleCommitHook

	Pending SurfaceState
	Current SurfaceState

	stagedBuffer      BufferResource
	hasStagedBuffer   bool
	stagedBufferIsNil bool // explicit attach(null) clears the buffer

	// lockedBuffer is whichever buffer handle this surface currently holds
	// a backend lock on -- the most recently committed buffer, regardless
	// of whether it landed in Current or (for a sync subsurface) cache.
	lockedBuffer BufferID

	backend BufferBackend

	destroyed bool
}

func NewSurface(id uint32, backend BufferBackend) *Surface {
	return &Surface{ID: id, backend: backend}
}

// Attach stages a buffer resource (or clears it, if res==0/isNil) for the
// next commit. Matches wl_surface.attach; x,y offset handling (v<5 legacy
// offset, v>=5 must be (0,0)) is validated by the caller in
// internal/server's wl_surface request handler since it needs the object
// version.
func (s *Surface) Attach(res BufferResource, isNil bool) {
	s.stagedBuffer = res
	s.hasStagedBuffer = true
	s.stagedBufferIsNil = isNil
	s.Pending.Dirty |= MaskBuffer
}

func (s *Surface) SetOpaqueRegion(r *Region) {
	s.Pending.OpaqueRegion = r
	s.Pending.Dirty |= MaskOpaqueRegion
}

func (s *Surface) SetInputRegion(r *Region) {
	s.Pending.InputRegion = r
	s.Pending.Dirty |= MaskInputRegion
}

func (s *Surface) SetTransform(t Transform) {
	s.Pending.Transform = t
	s.Pending.Dirty |= MaskTransform
}

func (s *Surface) AddFrameCallback(id uint32) {
	s.Pending.PendingFrameCallbacks = append(s.Pending.PendingFrameCallbacks, id)
	s.Pending.Dirty |= MaskFrameCallback
}

func (s *Surface) SetSubsurfaces(nodes []SubsurfaceNode) {
	s.Pending.Subsurfaces = nodes
	s.Pending.Dirty |= MaskSubsurfaces
}

func (s *Surface) SetViewportSource(x, y, w, h float64, unset bool) {
	if unset {
		s.Pending.Viewport.HasSrc = false
	} else {
		s.Pending.Viewport.HasSrc = true
		s.Pending.Viewport.SrcX, s.Pending.Viewport.SrcY = x, y
		s.Pending.Viewport.SrcW, s.Pending.Viewport.SrcH = w, h
	}
	s.Pending.Dirty |= MaskViewportSrc
}

func (s *Surface) SetViewportDestination(w, h int32, unset bool) {
	s.Pending.Viewport.HasDst = !unset
	s.Pending.Viewport.DstW, s.Pending.Viewport.DstH = w, h
	s.Pending.Dirty |= MaskViewportDst
}

// EffectiveSync reports whether this surface (a subsurface) is
// "effectively sync": itself or any ancestor has sync mode set
// (spec.md §4.5 step 3).
func (s *Surface) EffectiveSync() bool {
	for n := s; n != nil && n.Role == RoleSubsurface; n = n.Parent {
		if n.SyncMode {
			return true
		}
	}
	return false
}

// Commit runs the full commit pipeline of spec.md §4.5: stage any attached
// buffer, then move only the fields flagged in Pending.Dirty into either
// Current or (for an effectively-sync subsurface) the cache, leaving every
// other field of the destination exactly as it was.
func (s *Surface) Commit() error {
	if s.hasStagedBuffer {
		if s.stagedBufferIsNil {
			if s.lockedBuffer != 0 {
				s.backend.UnlockBuffer(s.lockedBuffer)
				s.lockedBuffer = 0
			}
			s.Pending.BufferID = 0
			s.Pending.BufferW, s.Pending.BufferH = 0, 0
		} else {
			id, w, h, err := s.backend.CommitBuffer(s.stagedBuffer)
			if err != nil {
				return fmt.Errorf("surface %d: attach: %w", s.ID, err)
			}
			if s.lockedBuffer != 0 && s.lockedBuffer != id {
				s.backend.UnlockBuffer(s.lockedBuffer)
			}
			s.lockedBuffer = id
			s.Pending.BufferID = id
			s.Pending.BufferW, s.Pending.BufferH = w, h
		}
		s.hasStagedBuffer = false
	}

	sync := s.Role == RoleSubsurface && s.EffectiveSync()
	var dst *SurfaceState
	if sync {
		dst = &s.cache
		s.hasCache = true
	} else {
		dst = &s.Current
	}

	dst.mergeDirty(&s.Pending)
	dst.Dirty = 0

	// Pending becomes the new working copy of dst, so incremental
	// mutations (subsurface stacking edits, further attribute sets)
	// keep accumulating on top of what was just committed. Frame
	// callbacks are the exception: they are drained off dst by a render
	// pass independently of commits, so carrying them forward here would
	// replay an already-delivered callback on the next commit.
	s.Pending = dst.Clone()
	s.Pending.PendingFrameCallbacks = nil
	s.Pending.Dirty = 0

	if !sync {
		s.drainDescendantCaches()
	}

	if s.ShellHook != nil {
		if err := s.ShellHook.Committed(s); err != nil {
			return err
		}
	}
	return nil
}

// drainDescendantCaches recursively promotes cached state of sync
// subsurfaces into their current state, top-down, per spec.md §3
// ("Subsurface... commits on a parent drain cached state into the
// child's current state top-down.").
func (s *Surface) drainDescendantCaches() {
	for _, n := range s.Current.Subsurfaces {
		child := n.Child
		if child == nil {
			continue
		}
		if child.hasCache {
			child.Current = child.cache.Clone()
			child.Current.Dirty = 0
			child.hasCache = false
		}
		child.drainDescendantCaches()
	}
}

// BoundingBox is the rectangle covering this surface's own effective size
// union its subsurfaces' bounding boxes translated by their positions
// (spec.md §4.5 "Bounding box").
func (s *Surface) BoundingBox() Rect {
	w, h := s.Current.EffectiveBufferSize()
	bb := Rect{0, 0, w, h}
	for _, n := range s.Current.Subsurfaces {
		if n.Child == nil {
			continue
		}
		cb := n.Child.BoundingBox().Translate(n.X, n.Y)
		bb = unionRect(bb, cb)
	}
	return bb
}

// Destroy tears down a surface: unlocks any committed buffer. Caller
// (internal/server Connection teardown, or explicit wl_surface.destroy)
// is responsible for detaching this surface from parent/role structures.
func (s *Surface) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	if s.lockedBuffer != 0 {
		s.backend.UnlockBuffer(s.lockedBuffer)
		s.lockedBuffer = 0
	}
	s.Current.BufferID = 0
}

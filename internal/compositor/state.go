package compositor

// CommitMask bits record which SurfaceState fields were assigned since the
// last commit. Bit definitions are kept stable across the codebase per
// SPEC_FULL.md/spec.md §9.
type CommitMask uint32

const (
	MaskBuffer CommitMask = 1 << iota
	MaskOpaqueRegion
	MaskInputRegion
	MaskSubsurfaces
	MaskFrameCallback
	MaskTransform
	MaskViewportSrc
	MaskViewportDst
)

// Transform is one of the eight buffer orientations (rotation x flip).
type Transform int

const (
	Transform0 Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// SubsurfaceNode pairs a child surface with its position relative to the
// parent, in the order subsurfaces are stacked (bottom to top).
type SubsurfaceNode struct {
	Child *Surface
	X, Y  int32
}

// Viewport is the wp_viewport state: an optional source sub-rectangle
// (set when HasSrc) and an optional destination size (set when HasDst).
type Viewport struct {
	HasSrc               bool
	SrcX, SrcY, SrcW, SrcH float64
	HasDst                 bool
	DstW, DstH             int32
}

// SurfaceState is the double-buffered per-surface state described in
// spec.md §3 ("SurfaceState (double-buffered)"). Both the pending and
// current/cached slots of a Surface are values of this type.
type SurfaceState struct {
	Dirty CommitMask

	BufferID  BufferID // 0 = no buffer
	BufferW   int32
	BufferH   int32

	Transform Transform

	OpaqueRegion *Region // nil = empty
	InputRegion  *Region // nil = "infinite" (whole surface)

	Subsurfaces []SubsurfaceNode

	PendingFrameCallbacks []uint32 // wl_callback object ids awaiting `done`

	Viewport Viewport
}

func NewSurfaceState() SurfaceState {
	return SurfaceState{}
}

// mergeDirty moves every field flagged in pending.Dirty from pending into
// the receiver, leaving every other field untouched (spec.md §3: "On
// commit, dirty fields are moved to either the current state or to a
// cached state"). Frame callbacks accumulate rather than replace, since a
// render pass can drain the destination's queue independently of commits.
func (dst *SurfaceState) mergeDirty(pending *SurfaceState) {
	mask := pending.Dirty
	if mask&MaskBuffer != 0 {
		dst.BufferID = pending.BufferID
		dst.BufferW = pending.BufferW
		dst.BufferH = pending.BufferH
	}
	if mask&MaskOpaqueRegion != 0 {
		dst.OpaqueRegion = pending.OpaqueRegion
	}
	if mask&MaskInputRegion != 0 {
		dst.InputRegion = pending.InputRegion
	}
	if mask&MaskSubsurfaces != 0 {
		dst.Subsurfaces = pending.Subsurfaces
	}
	if mask&MaskFrameCallback != 0 {
		dst.PendingFrameCallbacks = append(dst.PendingFrameCallbacks, pending.PendingFrameCallbacks...)
	}
	if mask&MaskTransform != 0 {
		dst.Transform = pending.Transform
	}
	if mask&MaskViewportSrc != 0 {
		dst.Viewport.HasSrc = pending.Viewport.HasSrc
		dst.Viewport.SrcX, dst.Viewport.SrcY = pending.Viewport.SrcX, pending.Viewport.SrcY
		dst.Viewport.SrcW, dst.Viewport.SrcH = pending.Viewport.SrcW, pending.Viewport.SrcH
	}
	if mask&MaskViewportDst != 0 {
		dst.Viewport.HasDst = pending.Viewport.HasDst
		dst.Viewport.DstW, dst.Viewport.DstH = pending.Viewport.DstW, pending.Viewport.DstH
	}
}

// Clone makes a value copy suitable for stashing into a sync subsurface's
// cache or promoting into current state; Region pointers are cloned too so
// later pending mutation doesn't alias committed state.
func (s SurfaceState) Clone() SurfaceState {
	out := s
	if s.OpaqueRegion != nil {
		out.OpaqueRegion = s.OpaqueRegion.Clone()
	}
	if s.InputRegion != nil {
		out.InputRegion = s.InputRegion.Clone()
	}
	out.Subsurfaces = append([]SubsurfaceNode(nil), s.Subsurfaces...)
	out.PendingFrameCallbacks = append([]uint32(nil), s.PendingFrameCallbacks...)
	return out
}

// EffectiveBufferSize computes the (w,h) spec.md §4.5 defines: buffer size
// transformed by rotation/flip, then overridden by the viewport destination
// size if set, else the viewport source rect's ceiling size if set, else
// the transformed size.
func (s SurfaceState) EffectiveBufferSize() (w, h int32) {
	w, h = s.BufferW, s.BufferH
	switch s.Transform {
	case Transform90, Transform270, TransformFlipped90, TransformFlipped270:
		w, h = h, w
	}
	if s.Viewport.HasDst {
		return s.Viewport.DstW, s.Viewport.DstH
	}
	if s.Viewport.HasSrc {
		return int32(ceilF(s.Viewport.SrcW)), int32(ceilF(s.Viewport.SrcH))
	}
	return w, h
}

func ceilF(f float64) float64 {
	i := float64(int64(f))
	if f > i {
		return i + 1
	}
	return i
}

// BufferID is the opaque backend handle for a committed buffer (spec.md §3
// "Buffer (external handle)").
type BufferID uint64

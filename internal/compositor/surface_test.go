package compositor

import "testing"

type fakeBackend struct {
	nextID  BufferID
	locks   map[BufferID]int
	commits int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{locks: make(map[BufferID]int)}
}

func (f *fakeBackend) CommitBuffer(res BufferResource) (BufferID, int32, int32, error) {
	f.commits++
	f.nextID++
	id := f.nextID
	f.locks[id]++
	return id, 10, 20, nil
}

func (f *fakeBackend) LockBuffer(id BufferID)   { f.locks[id]++ }
func (f *fakeBackend) UnlockBuffer(id BufferID) { f.locks[id]-- }

func TestSurfaceCommitAttachesBuffer(t *testing.T) {
	fb := newFakeBackend()
	s := NewSurface(1, fb)
	s.Attach(BufferResource(1), false)
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if s.Current.BufferID == 0 {
		t.Fatalf("expected a committed buffer id")
	}
	w, h := s.Current.EffectiveBufferSize()
	if w != 10 || h != 20 {
		t.Fatalf("effective size = (%d,%d), want (10,20)", w, h)
	}
}

func TestSurfaceCommitNilAttachClearsBuffer(t *testing.T) {
	fb := newFakeBackend()
	s := NewSurface(1, fb)
	s.Attach(BufferResource(1), false)
	s.Commit()
	committed := s.Current.BufferID

	s.Attach(0, true)
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if s.Current.BufferID != 0 {
		t.Fatalf("expected buffer cleared after attach(null), got %d", s.Current.BufferID)
	}
	if fb.locks[committed] != 0 {
		t.Fatalf("old buffer should have been unlocked, lock count = %d", fb.locks[committed])
	}
}

func TestSyncSubsurfaceCachesUntilParentCommit(t *testing.T) {
	fb := newFakeBackend()
	parent := NewSurface(1, fb)
	child := NewSurface(2, fb)
	child.Role = RoleSubsurface
	child.Parent = parent
	child.SyncMode = true
	parent.SetSubsurfaces([]SubsurfaceNode{{Child: child, X: 3, Y: 4}})
	parent.Commit()

	child.Attach(BufferResource(1), false)
	if err := child.Commit(); err != nil {
		t.Fatalf("child Commit: %v", err)
	}
	if child.Current.BufferID != 0 {
		t.Fatalf("sync subsurface must cache, not promote to Current, until parent commits")
	}

	if err := parent.Commit(); err != nil {
		t.Fatalf("parent Commit: %v", err)
	}
	if child.Current.BufferID == 0 {
		t.Fatalf("parent commit should have drained the child's cached state")
	}
}

func TestDesyncSubsurfaceCommitsImmediately(t *testing.T) {
	fb := newFakeBackend()
	parent := NewSurface(1, fb)
	child := NewSurface(2, fb)
	child.Role = RoleSubsurface
	child.Parent = parent
	child.SyncMode = false

	child.Attach(BufferResource(1), false)
	if err := child.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if child.Current.BufferID == 0 {
		t.Fatalf("desync subsurface should promote straight to Current")
	}
}

func TestSurfaceDestroyUnlocksBuffer(t *testing.T) {
	fb := newFakeBackend()
	s := NewSurface(1, fb)
	s.Attach(BufferResource(1), false)
	s.Commit()
	id := s.Current.BufferID

	s.Destroy()
	if fb.locks[id] != 0 {
		t.Fatalf("Destroy should unlock the current buffer, lock count = %d", fb.locks[id])
	}

	// Destroy must be idempotent.
	s.Destroy()
}

func TestCommitWithEmptyDirtyMaskIsNoop(t *testing.T) {
	fb := newFakeBackend()
	s := NewSurface(1, fb)
	s.Attach(BufferResource(1), false)
	s.SetTransform(Transform90)
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	beforeBuf, beforeTransform := s.Current.BufferID, s.Current.Transform

	if err := s.Commit(); err != nil {
		t.Fatalf("second Commit: %v", err)
	}
	if s.Current.BufferID != beforeBuf || s.Current.Transform != beforeTransform {
		t.Fatalf("commit with an empty dirty mask must be a no-op: buffer %v->%v, transform %v->%v",
			beforeBuf, s.Current.BufferID, beforeTransform, s.Current.Transform)
	}
}

func TestCommitDoesNotErasePreviouslyCommittedFields(t *testing.T) {
	fb := newFakeBackend()
	s := NewSurface(1, fb)
	s.Attach(BufferResource(1), false)
	s.SetTransform(Transform90)
	if err := s.Commit(); err != nil {
		t.Fatalf("first Commit: %v", err)
	}
	bufID := s.Current.BufferID
	if bufID == 0 {
		t.Fatalf("expected a committed buffer after the first commit")
	}

	// A bufferless, transform-only-untouched commit (e.g. a frame request)
	// must not erase the buffer or transform set earlier.
	cbID := uint32(42)
	s.AddFrameCallback(cbID)
	if err := s.Commit(); err != nil {
		t.Fatalf("second Commit: %v", err)
	}
	if s.Current.BufferID != bufID {
		t.Fatalf("bufferless commit erased the buffer: got %v, want %v", s.Current.BufferID, bufID)
	}
	if s.Current.Transform != Transform90 {
		t.Fatalf("bufferless commit erased the transform: got %v, want %v", s.Current.Transform, Transform90)
	}
	if fb.locks[bufID] != 1 {
		t.Fatalf("bufferless commit must not touch the backend lock, lock count = %d", fb.locks[bufID])
	}
}

func TestFrameCallbacksAccumulateAcrossCommits(t *testing.T) {
	fb := newFakeBackend()
	s := NewSurface(1, fb)
	s.AddFrameCallback(1)
	if err := s.Commit(); err != nil {
		t.Fatalf("first Commit: %v", err)
	}
	s.AddFrameCallback(2)
	if err := s.Commit(); err != nil {
		t.Fatalf("second Commit: %v", err)
	}
	if len(s.Current.PendingFrameCallbacks) != 2 {
		t.Fatalf("expected 2 undrained frame callbacks, got %v", s.Current.PendingFrameCallbacks)
	}

	// Simulate a render drain between commits: only newly queued ids
	// should reappear afterward, not the already-delivered one.
	s.Current.PendingFrameCallbacks = nil
	s.AddFrameCallback(3)
	if err := s.Commit(); err != nil {
		t.Fatalf("third Commit: %v", err)
	}
	if len(s.Current.PendingFrameCallbacks) != 1 || s.Current.PendingFrameCallbacks[0] != 3 {
		t.Fatalf("expected only the newly queued callback after a drain, got %v", s.Current.PendingFrameCallbacks)
	}
}

func TestGetSubsurfaceAfterCommitPreservesExistingChildren(t *testing.T) {
	fb := newFakeBackend()
	parent := NewSurface(1, fb)
	first := NewSurface(2, fb)
	first.Role = RoleSubsurface
	first.Parent = parent
	parent.SetSubsurfaces([]SubsurfaceNode{{Child: first, X: 1, Y: 1}})
	if err := parent.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// A later get_subsurface reads Pending.Subsurfaces to append; it must
	// still see the first child committed above, not an empty list.
	second := NewSurface(3, fb)
	second.Role = RoleSubsurface
	second.Parent = parent
	parent.SetSubsurfaces(append(parent.Pending.Subsurfaces, SubsurfaceNode{Child: second, X: 2, Y: 2}))
	if err := parent.Commit(); err != nil {
		t.Fatalf("second Commit: %v", err)
	}
	if len(parent.Current.Subsurfaces) != 2 {
		t.Fatalf("expected both subsurfaces to survive, got %+v", parent.Current.Subsurfaces)
	}
}

func TestBoundingBoxUnionsSubsurfaces(t *testing.T) {
	fb := newFakeBackend()
	parent := NewSurface(1, fb)
	parent.Current.BufferW, parent.Current.BufferH = 10, 10

	child := NewSurface(2, fb)
	child.Current.BufferW, child.Current.BufferH = 5, 5
	parent.Current.Subsurfaces = []SubsurfaceNode{{Child: child, X: 20, Y: 20}}

	bb := parent.BoundingBox()
	want := Rect{0, 0, 25, 25}
	if bb != want {
		t.Fatalf("BoundingBox() = %+v, want %+v", bb, want)
	}
}

package compositor

import "testing"

func TestRegionAddContains(t *testing.T) {
	r := NewRegion()
	r.Add(Rect{0, 0, 10, 10})
	if !r.Contains(5, 5) {
		t.Fatalf("expected (5,5) inside [0,10)x[0,10)")
	}
	if r.Contains(10, 10) {
		t.Fatalf("half-open rect must exclude its far edge")
	}
	if r.IsEmpty() {
		t.Fatalf("region with one rect should not be empty")
	}
}

func TestRegionSubtractPunchesHole(t *testing.T) {
	r := NewRegion()
	r.Add(Rect{0, 0, 10, 10})
	r.Subtract(Rect{2, 2, 8, 8})

	if r.Contains(5, 5) {
		t.Fatalf("(5,5) should have been subtracted out")
	}
	if !r.Contains(0, 0) {
		t.Fatalf("(0,0) is in the remaining border, should still be contained")
	}
	if !r.Contains(9, 9) {
		t.Fatalf("(9,9) is in the remaining border, should still be contained")
	}
}

func TestRegionSubtractNoOverlapIsNoop(t *testing.T) {
	r := NewRegion()
	r.Add(Rect{0, 0, 4, 4})
	r.Subtract(Rect{10, 10, 20, 20})
	if !r.Contains(1, 1) {
		t.Fatalf("non-overlapping subtract must not affect the rect")
	}
}

func TestRegionBoundingBox(t *testing.T) {
	r := NewRegion()
	r.Add(Rect{0, 0, 5, 5})
	r.Add(Rect{10, 10, 20, 15})
	bb := r.BoundingBox()
	want := Rect{0, 0, 20, 15}
	if bb != want {
		t.Fatalf("BoundingBox() = %+v, want %+v", bb, want)
	}
}

func TestRegionCloneIsIndependent(t *testing.T) {
	r := NewRegion()
	r.Add(Rect{0, 0, 10, 10})
	clone := r.Clone()
	clone.Subtract(Rect{0, 0, 10, 10})

	if clone.Contains(5, 5) {
		t.Fatalf("mutating the clone should not affect...")
	}
	if !r.Contains(5, 5) {
		t.Fatalf("...or be affected by, the original region")
	}
}

func TestRectEmpty(t *testing.T) {
	cases := []struct {
		r    Rect
		want bool
	}{
		{Rect{0, 0, 10, 10}, false},
		{Rect{0, 0, 0, 10}, true},
		{Rect{5, 0, 3, 10}, true},
	}
	for _, c := range cases {
		if got := c.r.Empty(); got != c.want {
			t.Errorf("Rect%+v.Empty() = %v, want %v", c.r, got, c.want)
		}
	}
}

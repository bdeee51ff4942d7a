package compositor

// Rect is an axis-aligned integer rectangle, half-open: [X1,X2) x [Y1,Y2).
type Rect struct {
	X1, Y1, X2, Y2 int32
}

func (r Rect) Empty() bool { return r.X2 <= r.X1 || r.Y2 <= r.Y1 }

func (r Rect) Contains(x, y int32) bool {
	return x >= r.X1 && x < r.X2 && y >= r.Y1 && y < r.Y2
}

func (r Rect) Translate(dx, dy int32) Rect {
	return Rect{r.X1 + dx, r.Y1 + dy, r.X2 + dx, r.Y2 + dy}
}

func unionRect(a, b Rect) Rect {
	if a.Empty() {
		return b
	}
	if b.Empty() {
		return a
	}
	return Rect{
		X1: min32(a.X1, b.X1), Y1: min32(a.Y1, b.Y1),
		X2: max32(a.X2, b.X2), Y2: max32(a.Y2, b.Y2),
	}
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// Region is an integer pixel region built by add/subtract of rectangles,
// used for wl_region (opaque/input hit regions). No suitable third-party
// region-algebra library exists anywhere in the retrieved example pack
// (see DESIGN.md); this is a direct, minimal rectangle-list implementation
// of the semantics the original expresses via the pixman crate.
//
// Precision is sacrificed for simplicity: rather than maintaining a
// fully reduced set of disjoint rectangles (as pixman does), Subtract
// splits every overlapping rectangle into up to four non-overlapping
// fragments, which keeps Contains/IsEmpty/BoundingBox exact while
// keeping the implementation small; the rectangle count can grow with
// repeated subtraction, which is acceptable since wl_region op counts
// per commit are tiny in practice.
type Region struct {
	rects []Rect
}

func NewRegion() *Region { return &Region{} }

func (r *Region) Clone() *Region {
	out := &Region{rects: make([]Rect, len(r.rects))}
	copy(out.rects, r.rects)
	return out
}

func (r *Region) Add(rect Rect) {
	if rect.Empty() {
		return
	}
	r.rects = append(r.rects, rect)
}

func (r *Region) Subtract(rect Rect) {
	if rect.Empty() || len(r.rects) == 0 {
		return
	}
	var out []Rect
	for _, a := range r.rects {
		out = append(out, subtractRect(a, rect)...)
	}
	r.rects = out
}

// subtractRect removes `cut` from `a`, returning the (up to 4) remaining
// fragments.
func subtractRect(a, cut Rect) []Rect {
	ix1, iy1 := max32(a.X1, cut.X1), max32(a.Y1, cut.Y1)
	ix2, iy2 := min32(a.X2, cut.X2), min32(a.Y2, cut.Y2)
	if ix1 >= ix2 || iy1 >= iy2 {
		return []Rect{a} // no overlap
	}
	var out []Rect
	if a.Y1 < iy1 { // strip above
		out = append(out, Rect{a.X1, a.Y1, a.X2, iy1})
	}
	if iy2 < a.Y2 { // strip below
		out = append(out, Rect{a.X1, iy2, a.X2, a.Y2})
	}
	if a.X1 < ix1 { // strip left, within the middle band
		out = append(out, Rect{a.X1, iy1, ix1, iy2})
	}
	if ix2 < a.X2 { // strip right, within the middle band
		out = append(out, Rect{ix2, iy1, a.X2, iy2})
	}
	return out
}

func (r *Region) IsEmpty() bool { return len(r.rects) == 0 }

func (r *Region) Contains(x, y int32) bool {
	for _, rect := range r.rects {
		if rect.Contains(x, y) {
			return true
		}
	}
	return false
}

func (r *Region) BoundingBox() Rect {
	var bb Rect
	for _, rect := range r.rects {
		bb = unionRect(bb, rect)
	}
	return bb
}

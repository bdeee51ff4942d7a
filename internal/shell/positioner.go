package shell

// Anchor mirrors xdg_positioner.anchor.
type Anchor int

const (
	AnchorNone Anchor = iota
	AnchorTop
	AnchorBottom
	AnchorLeft
	AnchorRight
	AnchorTopLeft
	AnchorBottomLeft
	AnchorTopRight
	AnchorBottomRight
)

// Gravity mirrors xdg_positioner.gravity.
type Gravity int

const (
	GravityNone Gravity = iota
	GravityTop
	GravityBottom
	GravityLeft
	GravityRight
	GravityTopLeft
	GravityBottomLeft
	GravityTopRight
	GravityBottomRight
)

// ConstraintAdjustment mirrors xdg_positioner.constraint_adjustment bits.
type ConstraintAdjustment uint32

const (
	ConstraintSlideX   ConstraintAdjustment = 1 << 0
	ConstraintSlideY   ConstraintAdjustment = 1 << 1
	ConstraintFlipX    ConstraintAdjustment = 1 << 2
	ConstraintFlipY    ConstraintAdjustment = 1 << 3
	ConstraintResizeX  ConstraintAdjustment = 1 << 4
	ConstraintResizeY  ConstraintAdjustment = 1 << 5
)

// AnchorRect is the anchor rectangle set via xdg_positioner.set_anchor_rect.
type AnchorRect struct {
	X, Y, W, H int32
}

// Positioner is the immutable snapshot at popup-create time (spec.md §3).
type Positioner struct {
	Width, Height        int32
	AnchorRect           AnchorRect
	OffsetX, OffsetY     int32
	Anchor               Anchor
	Gravity              Gravity
	ConstraintAdjustment ConstraintAdjustment
	Reactive             bool
}

// Valid reports whether this positioner has everything required to
// resolve a position: positive size and a set anchor rect (spec.md §3
// "Positioner... size (>0), anchor rect...").
func (p Positioner) Valid() bool {
	return p.Width > 0 && p.Height > 0 && p.AnchorRect.W >= 0 && p.AnchorRect.H >= 0
}

// Resolve computes (x,y) for the popup's top-left relative to the parent
// surface's origin, per spec.md §4.6 "Positioner resolution": anchor
// point from the anchor rect and anchor enum, place the popup's size
// relative to that point per the gravity enum, then add the offset last.
// boundsRect constrains the result when a constraint-adjustment bit asks
// for sliding; boundsRect is in the same (parent-relative) coordinate
// space. Only the slide bits are applied: the flip and resize bits are
// stored but do not change the result.
func (p Positioner) Resolve(boundsRect AnchorRect) (x, y int32) {
	ax, ay := p.anchorPoint()
	gx, gy := p.gravityOffset()
	x = ax + gx
	y = ay + gy
	x += p.OffsetX
	y += p.OffsetY

	if p.ConstraintAdjustment&ConstraintSlideX != 0 {
		if x < boundsRect.X {
			x = boundsRect.X
		} else if x+p.Width > boundsRect.X+boundsRect.W {
			x = boundsRect.X + boundsRect.W - p.Width
		}
	}
	if p.ConstraintAdjustment&ConstraintSlideY != 0 {
		if y < boundsRect.Y {
			y = boundsRect.Y
		} else if y+p.Height > boundsRect.Y+boundsRect.H {
			y = boundsRect.Y + boundsRect.H - p.Height
		}
	}
	return x, y
}

// anchorPoint returns the corner/midpoint of the anchor rect the popup is
// placed relative to; AnchorNone is the rect's center.
func (p Positioner) anchorPoint() (x, y int32) {
	r := p.AnchorRect
	midX, midY := r.X+r.W/2, r.Y+r.H/2
	switch p.Anchor {
	case AnchorTop:
		return midX, r.Y
	case AnchorBottom:
		return midX, r.Y + r.H
	case AnchorLeft:
		return r.X, midY
	case AnchorRight:
		return r.X + r.W, midY
	case AnchorTopLeft:
		return r.X, r.Y
	case AnchorBottomLeft:
		return r.X, r.Y + r.H
	case AnchorTopRight:
		return r.X + r.W, r.Y
	case AnchorBottomRight:
		return r.X + r.W, r.Y + r.H
	default: // AnchorNone
		return midX, midY
	}
}

// gravityOffset returns the offset from the anchor point to the popup's
// top-left, so that the popup's body extends away from the anchor point
// per the gravity enum; GravityNone centers the popup on the point.
func (p Positioner) gravityOffset() (dx, dy int32) {
	switch p.Gravity {
	case GravityTop:
		return -p.Width / 2, -p.Height
	case GravityBottom:
		return -p.Width / 2, 0
	case GravityLeft:
		return -p.Width, -p.Height / 2
	case GravityRight:
		return 0, -p.Height / 2
	case GravityTopLeft:
		return -p.Width, -p.Height
	case GravityBottomLeft:
		return -p.Width, 0
	case GravityTopRight:
		return 0, -p.Height
	case GravityBottomRight:
		return 0, 0
	default: // GravityNone
		return -p.Width / 2, -p.Height / 2
	}
}

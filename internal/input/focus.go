// Package input implements keyboard focus, pointer hit-testing, modifier
// tracking and interactive grabs (spec.md §4.7 "Input core").
//
// Grounded on original_source/src/seat/mod.rs, seat/keyboard.rs,
// seat/pointer.rs and src/focus_stack.rs.
package input

import "github.com/ewc-project/ewc/internal/shell"

// FocusStack is the ordered list of mapped toplevels; the top of the
// stack is the keyboard-focused toplevel (spec.md §3 "FocusStack").
// Implements shell.FocusHooks.
type FocusStack struct {
	stack []*shell.XdgToplevelRole
}

func NewFocusStack() *FocusStack { return &FocusStack{} }

func (f *FocusStack) TopPosition() (x, y int32, ok bool) {
	if len(f.stack) == 0 {
		return 0, 0, false
	}
	t := f.stack[len(f.stack)-1]
	x, y = t.Position()
	return x, y, true
}

func (f *FocusStack) Push(t *shell.XdgToplevelRole) {
	f.stack = append(f.stack, t)
}

func (f *FocusStack) Remove(t *shell.XdgToplevelRole) {
	for i, e := range f.stack {
		if e == t {
			f.stack = append(f.stack[:i], f.stack[i+1:]...)
			return
		}
	}
}

// Top returns the topmost (keyboard-focused) toplevel, if any.
func (f *FocusStack) Top() (*shell.XdgToplevelRole, bool) {
	if len(f.stack) == 0 {
		return nil, false
	}
	return f.stack[len(f.stack)-1], true
}

func (f *FocusStack) Len() int { return len(f.stack) }

func (f *FocusStack) At(i int) (*shell.XdgToplevelRole, bool) {
	if i < 0 || i >= len(f.stack) {
		return nil, false
	}
	return f.stack[i], true
}

// IndexOf returns t's current position in the stack.
func (f *FocusStack) IndexOf(t *shell.XdgToplevelRole) (int, bool) {
	for i, e := range f.stack {
		if e == t {
			return i, true
		}
	}
	return 0, false
}

// FocusIndex raises the toplevel at index i to the top of the stack (a
// focus change).
func (f *FocusStack) FocusIndex(i int) {
	if i < 0 || i >= len(f.stack) {
		return
	}
	t := f.stack[i]
	f.stack = append(f.stack[:i], f.stack[i+1:]...)
	f.stack = append(f.stack, t)
}

// RemoveAllOfClient drops every toplevel owned by clientID, e.g. on
// connection teardown.
func (f *FocusStack) RemoveAllOfClient(clientID uint32) {
	out := f.stack[:0]
	for _, t := range f.stack {
		if t.ClientID != clientID {
			out = append(out, t)
		}
	}
	f.stack = out
}

// TopmostAt returns the index of the topmost toplevel whose own rect
// (ignoring subsurfaces/regions) contains (x,y), for interactive
// move/resize initiation triggered by a compositor key binding rather
// than hit-tested client delivery.
func (f *FocusStack) TopmostAt(x, y float64) (int, bool) {
	for i := len(f.stack) - 1; i >= 0; i-- {
		t := f.stack[i]
		if t.Self == nil {
			continue
		}
		geom, ok := t.Self.WindowGeometry()
		if !ok {
			continue
		}
		tx, ty := t.Position()
		if x >= float64(tx) && x < float64(tx+geom.Width) && y >= float64(ty) && y < float64(ty+geom.Height) {
			return i, true
		}
	}
	return 0, false
}

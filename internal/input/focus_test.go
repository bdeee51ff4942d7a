package input

import (
	"testing"

	"github.com/ewc-project/ewc/internal/shell"
)

func TestFocusStackPushTopOrder(t *testing.T) {
	f := NewFocusStack()
	a := &shell.XdgToplevelRole{ClientID: 1}
	b := &shell.XdgToplevelRole{ClientID: 2}
	f.Push(a)
	f.Push(b)

	top, ok := f.Top()
	if !ok || top != b {
		t.Fatalf("Top() should be the most recently pushed toplevel")
	}
	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.Len())
	}
}

func TestFocusStackRemove(t *testing.T) {
	f := NewFocusStack()
	a := &shell.XdgToplevelRole{ClientID: 1}
	b := &shell.XdgToplevelRole{ClientID: 2}
	f.Push(a)
	f.Push(b)

	f.Remove(a)
	if f.Len() != 1 {
		t.Fatalf("Len() after Remove = %d, want 1", f.Len())
	}
	top, _ := f.Top()
	if top != b {
		t.Fatalf("remaining toplevel should be b")
	}
}

func TestFocusStackFocusIndexRaisesToTop(t *testing.T) {
	f := NewFocusStack()
	a := &shell.XdgToplevelRole{ClientID: 1}
	b := &shell.XdgToplevelRole{ClientID: 2}
	c := &shell.XdgToplevelRole{ClientID: 3}
	f.Push(a)
	f.Push(b)
	f.Push(c)

	idx, ok := f.IndexOf(a)
	if !ok || idx != 0 {
		t.Fatalf("IndexOf(a) = (%d,%v), want (0,true)", idx, ok)
	}
	f.FocusIndex(idx)

	top, _ := f.Top()
	if top != a {
		t.Fatalf("FocusIndex should have raised a to the top")
	}
}

func TestFocusStackRemoveAllOfClient(t *testing.T) {
	f := NewFocusStack()
	f.Push(&shell.XdgToplevelRole{ClientID: 1})
	f.Push(&shell.XdgToplevelRole{ClientID: 2})
	f.Push(&shell.XdgToplevelRole{ClientID: 1})

	f.RemoveAllOfClient(1)
	if f.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after removing all of client 1", f.Len())
	}
	top, _ := f.Top()
	if top.ClientID != 2 {
		t.Fatalf("remaining toplevel should belong to client 2")
	}
}

func TestFocusStackTopPositionEmpty(t *testing.T) {
	f := NewFocusStack()
	if _, _, ok := f.TopPosition(); ok {
		t.Fatalf("TopPosition() on an empty stack should report ok=false")
	}
}

func TestFocusStackTopPositionUsesTopToplevel(t *testing.T) {
	f := NewFocusStack()
	f.Push(&shell.XdgToplevelRole{X: 1, Y: 1})
	f.Push(&shell.XdgToplevelRole{X: 10, Y: 20})

	x, y, ok := f.TopPosition()
	if !ok || x != 10 || y != 20 {
		t.Fatalf("TopPosition() = (%d,%d,%v), want (10,20,true)", x, y, ok)
	}
}

package input

import (
	"testing"

	"github.com/ewc-project/ewc/internal/compositor"
)

type fakeKeyboardSink struct {
	entered, left  bool
	keys           []uint32
	mods           [4]uint32
	keymapSent     bool
	repeatInfoSent bool
}

func (f *fakeKeyboardSink) SendKeymap(format uint32, fd int, size uint32) { f.keymapSent = true }
func (f *fakeKeyboardSink) SendEnter(surfaceObjectID uint32, keys []byte) { f.entered = true }
func (f *fakeKeyboardSink) SendLeave(surfaceObjectID uint32)              { f.left = true }
func (f *fakeKeyboardSink) SendKey(time, key, state uint32)               { f.keys = append(f.keys, key) }
func (f *fakeKeyboardSink) SendModifiers(depressed, latched, locked, group uint32) {
	f.mods = [4]uint32{depressed, latched, locked, group}
}
func (f *fakeKeyboardSink) SendRepeatInfo(rate, delay int32) { f.repeatInfoSent = true }

type fakeTracker struct {
	depressed uint32
}

func (t *fakeTracker) UpdateKey(code uint32, pressed bool) (d, l, lo, g uint32, changed bool) {
	before := t.depressed
	if pressed {
		t.depressed |= 1
	} else {
		t.depressed &^= 1
	}
	return t.depressed, 0, 0, 0, before != t.depressed
}

func TestKeyboardBindSendsKeymapAndRepeatInfoV4(t *testing.T) {
	kbd := NewKeyboard(&fakeTracker{}, 1, -1, 100)
	sink := &fakeKeyboardSink{}
	kbd.Bind(1, sink, 4)
	if !sink.keymapSent {
		t.Fatalf("Bind should always send the keymap")
	}
	if !sink.repeatInfoSent {
		t.Fatalf("Bind at version>=4 should send repeat_info")
	}
}

func TestKeyboardBindOmitsRepeatInfoBelowV4(t *testing.T) {
	kbd := NewKeyboard(&fakeTracker{}, 1, -1, 100)
	sink := &fakeKeyboardSink{}
	kbd.Bind(1, sink, 3)
	if sink.repeatInfoSent {
		t.Fatalf("Bind at version<4 must not send repeat_info")
	}
}

func TestKeyboardFocusSendsLeaveThenEnter(t *testing.T) {
	kbd := NewKeyboard(&fakeTracker{}, 1, -1, 100)
	sinkA := &fakeKeyboardSink{}
	sinkB := &fakeKeyboardSink{}
	kbd.Bind(1, sinkA, 4)
	kbd.Bind(2, sinkB, 4)

	surfA := &compositor.Surface{ID: 10}
	kbd.FocusSurface(surfA, 1, 100)
	if !sinkA.entered {
		t.Fatalf("client 1's keyboard should have received enter")
	}
	if sinkB.entered {
		t.Fatalf("client 2's keyboard should not have received enter")
	}

	surfB := &compositor.Surface{ID: 20}
	kbd.FocusSurface(surfB, 2, 200)
	if !sinkA.left {
		t.Fatalf("client 1's keyboard should have received leave when focus moved away")
	}
	if !sinkB.entered {
		t.Fatalf("client 2's keyboard should have received enter on focus")
	}
	if kbd.FocusedSurface() != surfB {
		t.Fatalf("FocusedSurface() should report the newly focused surface")
	}
}

func TestKeyboardUpdateKeyDeliversOnlyToFocusedClient(t *testing.T) {
	kbd := NewKeyboard(&fakeTracker{}, 1, -1, 100)
	sinkA := &fakeKeyboardSink{}
	sinkB := &fakeKeyboardSink{}
	kbd.Bind(1, sinkA, 4)
	kbd.Bind(2, sinkB, 4)

	kbd.FocusSurface(&compositor.Surface{ID: 1}, 1, 1)
	kbd.UpdateKey(1000, 38, true) // KEY_A + 8

	if len(sinkA.keys) != 1 {
		t.Fatalf("focused client should receive the key event, got %d", len(sinkA.keys))
	}
	if len(sinkB.keys) != 0 {
		t.Fatalf("unfocused client must not receive the key event, got %d", len(sinkB.keys))
	}
	if kbd.ModsDepressed() != 1 {
		t.Fatalf("ModsDepressed() = %d, want 1 after the tracker reports a change", kbd.ModsDepressed())
	}
}

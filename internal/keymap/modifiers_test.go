package keymap

import "testing"

func TestModifierTrackerShiftPressRelease(t *testing.T) {
	tr := NewStaticModifierTracker()

	depressed, _, _, _, changed := tr.UpdateKey(keyLeftShift+8, true)
	if !changed {
		t.Fatalf("first shift press should report changed=true")
	}
	if depressed&bitShift == 0 {
		t.Fatalf("shift bit not set after press")
	}

	_, _, _, _, changed = tr.UpdateKey(keyLeftShift+8, true)
	if changed {
		t.Fatalf("repeated press of an already-held key should report changed=false")
	}

	depressed, _, _, _, changed = tr.UpdateKey(keyLeftShift+8, false)
	if !changed {
		t.Fatalf("release should report changed=true")
	}
	if depressed&bitShift != 0 {
		t.Fatalf("shift bit still set after release")
	}
}

func TestModifierTrackerIgnoresNonModifierKeys(t *testing.T) {
	tr := NewStaticModifierTracker()
	_, _, _, _, changed := tr.UpdateKey(30+8, true) // evdev KEY_A, not a modifier
	if changed {
		t.Fatalf("non-modifier key must never report changed=true")
	}
}

func TestModifierTrackerCombinesBits(t *testing.T) {
	tr := NewStaticModifierTracker()
	tr.UpdateKey(keyLeftCtrl+8, true)
	depressed, _, _, _, _ := tr.UpdateKey(keyLeftAlt+8, true)
	if depressed&bitCtrl == 0 || depressed&bitAlt == 0 {
		t.Fatalf("expected both ctrl and alt bits set, got %#x", depressed)
	}
}

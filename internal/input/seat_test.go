package input

import "testing"

func TestCheckKeyBindingShutdown(t *testing.T) {
	const keyEscape = 1
	if got := CheckKeyBinding(ModLogo, keyEscape); got != KeyBindingShutdown {
		t.Fatalf("CheckKeyBinding(logo, Escape) = %v, want KeyBindingShutdown", got)
	}
	if got := CheckKeyBinding(ModAlt, keyEscape); got != KeyBindingNone {
		t.Fatalf("CheckKeyBinding(alt, Escape) = %v, want KeyBindingNone", got)
	}
	if got := CheckKeyBinding(ModLogo, 30); got != KeyBindingNone {
		t.Fatalf("CheckKeyBinding(logo, non-escape) = %v, want KeyBindingNone", got)
	}
}

func TestCheckButtonBindingStartMove(t *testing.T) {
	if !CheckButtonBinding(ModAlt, BtnLeft) {
		t.Fatalf("alt+left-click should start an interactive move")
	}
	if CheckButtonBinding(0, BtnLeft) {
		t.Fatalf("plain left-click must not start a move")
	}
	if CheckButtonBinding(ModAlt, 0x111) {
		t.Fatalf("alt+right-click must not start a move")
	}
}

func TestSeatCapabilities(t *testing.T) {
	s := NewSeat(nil, nil)
	caps := s.Capabilities()
	if caps&CapPointer == 0 || caps&CapKeyboard == 0 {
		t.Fatalf("Capabilities() = %v, want both pointer and keyboard bits set", caps)
	}
	if caps&CapTouch != 0 {
		t.Fatalf("this single-seat compositor never advertises touch")
	}
}

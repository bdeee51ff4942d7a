package input

// Capability mirrors wl_seat.capability bits.
type Capability uint32

const (
	CapPointer  Capability = 1 << 0
	CapKeyboard Capability = 1 << 1
	CapTouch    Capability = 1 << 2
)

// Seat bundles the one keyboard and one pointer this single-seat
// compositor exposes (spec.md §1 "Non-goals: ... multiple seats").
type Seat struct {
	Keyboard *Keyboard
	Pointer  *Pointer
}

func NewSeat(kbd *Keyboard, ptr *Pointer) *Seat {
	return &Seat{Keyboard: kbd, Pointer: ptr}
}

func (s *Seat) Capabilities() Capability {
	return CapPointer | CapKeyboard
}

// KeyBindingAction is a compositor-level key binding that preempts
// normal client delivery (spec.md §4.7 "Compositor key bindings").
type KeyBindingAction int

const (
	KeyBindingNone KeyBindingAction = iota
	KeyBindingShutdown
	KeyBindingStartMove
)

// CheckKeyBinding inspects a key-press (raw evdev code, no +8 offset)
// against the logo+Escape binding, which requests shutdown; the
// alt+left-click binding is checked by CheckButtonBinding.
// mods is the current depressed-modifier bitmask (see Mod* constants).
func CheckKeyBinding(mods uint32, keycode uint32) KeyBindingAction {
	const keyEscape = 1 // Linux evdev KEY_ESC
	if mods&ModLogo != 0 && keycode == keyEscape {
		return KeyBindingShutdown
	}
	return KeyBindingNone
}

// CheckButtonBinding inspects a button-press against the alt+left-click
// "start move" binding.
func CheckButtonBinding(mods uint32, button uint32) bool {
	return mods&ModAlt != 0 && button == BtnLeft
}

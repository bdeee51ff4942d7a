package input

import "github.com/ewc-project/ewc/internal/compositor"

// KeyboardSink is the narrow event-emission contract a single bound
// wl_keyboard resource needs.
type KeyboardSink interface {
	SendKeymap(format uint32, fd int, size uint32)
	SendEnter(surfaceObjectID uint32, keys []byte)
	SendLeave(surfaceObjectID uint32)
	SendKey(time, key, state uint32)
	SendModifiers(depressed, latched, locked, group uint32)
	SendRepeatInfo(rate, delay int32)
}

// ModifierTracker is the state-machine half of the out-of-scope *Keymap
// compiler* collaborator (spec.md §1): turns raw key codes (+8 XKB
// offset applied by the caller) into modifier masks.
type ModifierTracker interface {
	UpdateKey(code uint32, pressed bool) (depressed, latched, locked, group uint32, changed bool)
}

// RepeatRate/RepeatDelay are the wl_keyboard.repeat_info constants; per
// spec.md §9's Open Question resolution these are a constant, not
// config-driven.
const (
	RepeatRate  = 40
	RepeatDelay = 300
)

// boundKeyboard pairs a bound wl_keyboard resource with its owning
// client, so enter/leave/key events can be routed to every keyboard
// resource of the relevant client (spec.md §4.7: "for each of its
// keyboards").
type boundKeyboard struct {
	clientID uint32
	surface  uint32 // surface object id in that client, valid once bound to a surface
	sink     KeyboardSink
}

// Keyboard tracks one global keyboard focus across the whole server (no
// multi-seat), and the set of bound wl_keyboard resources across all
// clients that must be kept in sync with it.
type Keyboard struct {
	tracker ModifierTracker

	keymapFormat uint32
	keymapFD     int
	keymapSize   uint32

	bound []boundKeyboard

	focusedSurface       *compositor.Surface
	focusedClientID      uint32
	focusedSurfaceObjID  uint32
	mods                 [4]uint32 // depressed, latched, locked, group
}

func NewKeyboard(tracker ModifierTracker, keymapFormat uint32, keymapFD int, keymapSize uint32) *Keyboard {
	return &Keyboard{tracker: tracker, keymapFormat: keymapFormat, keymapFD: keymapFD, keymapSize: keymapSize}
}

// Bind registers a newly-created wl_keyboard resource, sends it the
// keymap immediately, and re-synchronizes it with current focus/modifier
// state if it belongs to the focused client.
func (k *Keyboard) Bind(clientID uint32, sink KeyboardSink, version uint32) {
	sink.SendKeymap(k.keymapFormat, k.keymapFD, k.keymapSize)
	if version >= 4 {
		sink.SendRepeatInfo(RepeatRate, RepeatDelay)
	}
	k.bound = append(k.bound, boundKeyboard{clientID: clientID, sink: sink})
	if k.focusedSurface != nil && clientID == k.focusedClientID {
		sink.SendEnter(k.focusedSurfaceObjID, nil)
		d, l, lo, g := k.mods[0], k.mods[1], k.mods[2], k.mods[3]
		sink.SendModifiers(d, l, lo, g)
	}
}

func (k *Keyboard) Release(sink KeyboardSink) {
	for i, b := range k.bound {
		if b.sink == sink {
			k.bound = append(k.bound[:i], k.bound[i+1:]...)
			return
		}
	}
}

// FocusSurface changes keyboard focus, emitting leave to the old focused
// client's keyboards and enter + current modifiers to the new one
// (spec.md §4.7 "Keyboard").
func (k *Keyboard) FocusSurface(surface *compositor.Surface, clientID, surfaceObjID uint32) {
	if k.focusedSurface == surface {
		return
	}
	if k.focusedSurface != nil {
		for _, b := range k.bound {
			if b.clientID == k.focusedClientID {
				b.sink.SendLeave(k.focusedSurfaceObjID)
			}
		}
	}
	k.focusedSurface = surface
	k.focusedClientID = clientID
	k.focusedSurfaceObjID = surfaceObjID
	if surface != nil {
		for _, b := range k.bound {
			if b.clientID == clientID {
				b.sink.SendEnter(surfaceObjID, nil)
				b.sink.SendModifiers(k.mods[0], k.mods[1], k.mods[2], k.mods[3])
			}
		}
	}
}

func (k *Keyboard) FocusedSurface() *compositor.Surface { return k.focusedSurface }

// ModsDepressed returns the currently depressed modifier mask, used by
// the compositor key-binding check which runs ahead of normal delivery.
func (k *Keyboard) ModsDepressed() uint32 { return k.mods[0] }

// UpdateKey forwards a raw key event (code already +8'd) to the focused
// client's keyboards and, if the modifier tracker reports a change,
// broadcasts updated modifiers to them too.
func (k *Keyboard) UpdateKey(time, code uint32, pressed bool) {
	const keyPressed, keyReleased = 1, 0
	if k.focusedSurface != nil {
		state := uint32(keyReleased)
		if pressed {
			state = keyPressed
		}
		for _, b := range k.bound {
			if b.clientID == k.focusedClientID {
				b.sink.SendKey(time, code-8, state)
			}
		}
	}
	d, l, lo, g, changed := k.tracker.UpdateKey(code, pressed)
	if changed {
		k.mods = [4]uint32{d, l, lo, g}
		if k.focusedSurface != nil {
			for _, b := range k.bound {
				if b.clientID == k.focusedClientID {
					b.sink.SendModifiers(d, l, lo, g)
				}
			}
		}
	}
}

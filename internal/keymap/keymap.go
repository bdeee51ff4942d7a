// Package keymap implements the Go interface for the out-of-scope
// *Keymap compiler* external collaborator (spec.md §1), plus a constant
// fallback implementation used when no real XKB compiler is wired in.
//
// Grounded on original_source/src/seat/keyboard.rs's keymap-via-shmem
// handoff shape (wl_keyboard.keymap(format, fd, size)).
package keymap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/text/language"
)

// Format mirrors wl_keyboard.keymap_format; xkb_v1 is the only format in
// practical use.
const FormatXKBv1 = 1

// Keymap is the compiled blob handed to clients: a shared-memory fd,
// its size, and the wire format tag.
type Keymap struct {
	Format uint32
	FD     int
	Size   uint32
}

// Compiler is the out-of-scope collaborator's interface: given locale
// strings, returns a keymap blob.
type Compiler interface {
	Compile(locales []string) (Keymap, error)
}

// ValidateLocales canonicalizes locale strings that look like plain
// BCP-47 tags (e.g. "ru", "en-US") via golang.org/x/text/language,
// leaving XKB-layout-variant strings (e.g. "us(dvp)") untouched since
// they are not valid BCP-47 and aren't this library's concern.
func ValidateLocales(locales []string) []string {
	out := make([]string, len(locales))
	for i, l := range locales {
		tag, err := language.Parse(l)
		if err != nil {
			out[i] = l
			continue
		}
		out[i] = tag.String()
	}
	return out
}

// StaticCompiler is a constant US-QWERTY-shaped keymap generator used
// when no real XKB compiler is wired in; this module does not implement
// an XKB compiler (explicitly out of scope), but must still hand clients
// a byte-for-byte valid (if minimal) keymap so wl_keyboard.keymap can be
// sent at all.
type StaticCompiler struct{}

// staticXKBKeymap is a minimal xkb_keymap_v1 text-format keymap
// describing a bare US QWERTY layout. Real compositors shell out to
// libxkbcommon for this; that dependency is unavailable here, so a
// fixed, small, valid keymap string stands in.
const staticXKBKeymap = `xkb_keymap {
	xkb_keycodes  { include "evdev+aliases(qwerty)" };
	xkb_types     { include "complete" };
	xkb_compat    { include "complete" };
	xkb_symbols   { include "pc+us+inet(evdev)" };
};
`

func (StaticCompiler) Compile(locales []string) (Keymap, error) {
	_ = ValidateLocales(locales)
	fd, err := unix.MemfdCreate("ewc-keymap", 0)
	if err != nil {
		return Keymap{}, fmt.Errorf("keymap: memfd_create: %w", err)
	}
	f := os.NewFile(uintptr(fd), "ewc-keymap")
	if _, err := f.WriteString(staticXKBKeymap); err != nil {
		f.Close()
		return Keymap{}, fmt.Errorf("keymap: write: %w", err)
	}
	return Keymap{Format: FormatXKBv1, FD: fd, Size: uint32(len(staticXKBKeymap))}, nil
}

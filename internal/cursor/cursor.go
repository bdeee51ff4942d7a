// Package cursor tracks the compositor's cursor image: either a
// client-provided surface (wl_pointer.set_cursor / cursor-shape) or a
// fallback loaded from the system xcursor theme.
//
// Grounded on original_source/src/cursor.rs.
package cursor

import (
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/ewc-project/ewc/internal/compositor"
)

// Kind selects a named fallback cursor shape (wp_cursor_shape_device_v1
// shape enum values this module recognizes); anything else degrades to
// Default.
type Kind int

const (
	KindDefault Kind = iota
	KindText
	KindPointer
	KindMove
	KindGrab
	KindResize
)

// Cursor is either hidden, showing a client surface at a hotspot, or
// showing a named fallback shape.
type Cursor struct {
	theme *Theme

	hidden     bool
	surface    *compositor.Surface
	hotspotX   int32
	hotspotY   int32
	fallback   Kind
	useFallback bool
}

func New(theme *Theme) *Cursor {
	return &Cursor{theme: theme, useFallback: true, fallback: KindDefault}
}

func (c *Cursor) Hide() {
	c.hidden = true
	c.surface = nil
	c.useFallback = false
}

func (c *Cursor) SetSurface(s *compositor.Surface, hotspotX, hotspotY int32) {
	c.hidden = false
	c.useFallback = false
	c.surface = s
	c.hotspotX, c.hotspotY = hotspotX, hotspotY
}

func (c *Cursor) SetShape(k Kind) {
	c.hidden = false
	c.useFallback = true
	c.surface = nil
	c.fallback = k
}

// UnfocusSurface clears a client-provided cursor surface if it is the one
// being removed (e.g. on surface destroy).
func (c *Cursor) UnfocusSurface(s *compositor.Surface) {
	if c.surface == s {
		c.surface = nil
		c.useFallback = true
	}
}

// Render reports what the scene should draw for the cursor at (x,y):
// either the client surface (with hotspot subtracted) or a fallback
// image from the theme, or nothing if hidden.
func (c *Cursor) Render(x, y float64) (surface *compositor.Surface, drawX, drawY float64, fallbackImg image.Image, show bool) {
	if c.hidden {
		return nil, 0, 0, nil, false
	}
	if c.surface != nil {
		return c.surface, x - float64(c.hotspotX), y - float64(c.hotspotY), nil, true
	}
	if c.useFallback && c.theme != nil {
		img, hx, hy, ok := c.theme.Image(c.fallback)
		if ok {
			return nil, x - float64(hx), y - float64(hy), img, true
		}
	}
	return nil, x, y, nil, true
}

// Theme loads fallback cursor images from an xcursor theme directory; no
// example repo in the pack offers an xcursor-theme reader, so this is a
// minimal, justified stdlib-only file-format reader (see DESIGN.md):
// rather than parsing the binary xcursor format, it looks for a
// conventionally-named PNG per shape, which is sufficient for a
// single-process reference compositor with no external theme dependency.
type Theme struct {
	dir string

	cache map[Kind]themeEntry
}

type themeEntry struct {
	img    image.Image
	hx, hy int32
}

// LoadTheme resolves $XCURSOR_THEME (default "default") to the single
// directory /usr/share/icons/<name>/cursors and lazily decodes PNGs on
// first use; no other icon-theme directory is searched.
func LoadTheme() *Theme {
	name := os.Getenv("XCURSOR_THEME")
	if name == "" {
		name = "default"
	}
	dir := filepath.Join("/usr/share/icons", name, "cursors")
	return &Theme{dir: dir, cache: make(map[Kind]themeEntry)}
}

func (t *Theme) shapeFile(k Kind) string {
	switch k {
	case KindText:
		return "text.png"
	case KindPointer:
		return "pointer.png"
	case KindMove:
		return "move.png"
	case KindGrab:
		return "grab.png"
	case KindResize:
		return "resize.png"
	default:
		return "default.png"
	}
}

func (t *Theme) Image(k Kind) (image.Image, int32, int32, bool) {
	if e, ok := t.cache[k]; ok {
		return e.img, e.hx, e.hy, e.img != nil
	}
	path := filepath.Join(t.dir, t.shapeFile(k))
	f, err := os.Open(path)
	if err != nil {
		t.cache[k] = themeEntry{}
		return nil, 0, 0, false
	}
	defer f.Close()
	decoded, _, err := image.Decode(f)
	if err != nil {
		t.cache[k] = themeEntry{}
		return nil, 0, 0, false
	}
	// Theme PNGs decode to whatever concrete type their color model
	// implies (paletted, gray, ...); normalize to a plain RGBA so the
	// backend always sees the same pixel layout it uploads for client
	// buffers, same as draw.Draw's ordinary use but via x/image/draw so
	// a themed cursor that needs resampling (CatmullRom etc.) could be
	// added here without a second conversion path.
	rgba := image.NewRGBA(decoded.Bounds())
	draw.Draw(rgba, rgba.Bounds(), decoded, decoded.Bounds().Min, draw.Src)
	img := image.Image(rgba)
	// Hotspot convention: centered horizontally, tip at top, absent any
	// xcursor metadata to read it from.
	hx, hy := int32(img.Bounds().Dx()/2), int32(0)
	t.cache[k] = themeEntry{img: img, hx: hx, hy: hy}
	return img, hx, hy, true
}

// Package sdlwin is the one concrete internal/backend.Backend wired into
// cmd/ewc: a single sdl.Window/sdl.Renderer output, shm/single-pixel
// buffer import via direct pixel upload, and SDL input events translated
// into backend.Event.
//
// Window/renderer setup, event pump shape, and the typed
// *sdl.MouseMotionEvent/*sdl.MouseButtonEvent/*sdl.MouseWheelEvent/
// *sdl.KeyboardEvent/*sdl.WindowEvent/*sdl.QuitEvent event switch follow
// the same go-sdl2 call sites a client-side popup-menu renderer would use,
// adapted here into the compositor's sole output backend.
package sdlwin

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/KononK/resize"
	"github.com/daaku/swizzle"
	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/sys/unix"

	"github.com/ewc-project/ewc/internal/backend"
	"github.com/ewc-project/ewc/internal/compositor"
)

// wl_shm.format values this backend accepts; ARGB8888/XRGB8888 are the
// two every Wayland compositor must support.
const (
	formatARGB8888 = 0
	formatXRGB8888 = 1
)

type shmPool struct {
	id   backend.PoolID
	fd   int
	data []byte
}

type bufferRecord struct {
	id     backend.BufferID
	w, h   int32
	stride int32
	pixels []byte // ARGB8888, little-endian BGRA in memory, owned or a pool slice
	tex    *sdl.Texture
	locks  int
}

// Backend implements internal/backend.Backend on top of one SDL window.
type Backend struct {
	win    *sdl.Window
	render *sdl.Renderer

	pools       map[backend.PoolID]*shmPool
	nextPoolID  backend.PoolID
	pending     map[uint64]func() (pixels []byte, w, h, stride int32, format uint32, err error)
	buffers     map[backend.BufferID]*bufferRecord
	nextBufID   backend.BufferID
	resourceBuf map[uint64]backend.BufferID

	fdTags map[int]backend.EventTag
	events []backend.Event
}

// New opens a single window of the given size, titled title, ready to
// serve as the sole compositor output.
func New(title string, width, height int32) (*Backend, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdlwin: sdl.Init: %w", err)
	}
	win, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, width, height, sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return nil, fmt.Errorf("sdlwin: CreateWindow: %w", err)
	}
	render, err := sdl.CreateRenderer(win, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		win.Destroy()
		return nil, fmt.Errorf("sdlwin: CreateRenderer: %w", err)
	}
	return &Backend{
		win:         win,
		render:      render,
		pools:       make(map[backend.PoolID]*shmPool),
		pending:     make(map[uint64]func() ([]byte, int32, int32, int32, uint32, error)),
		buffers:     make(map[backend.BufferID]*bufferRecord),
		resourceBuf: make(map[uint64]backend.BufferID),
		fdTags:      make(map[int]backend.EventTag),
	}, nil
}

func (b *Backend) OutputSize() (int32, int32) {
	w, h := b.win.GetSize()
	return w, h
}

// RegisterFDs has nothing of its own to contribute beyond the window's
// event queue, which SDL multiplexes internally; Poll/NextEvent below
// drain it on every event-loop tick instead of via a dedicated fd, so
// this is a no-op register call (spec.md §6 allows zero additional fds).
func (b *Backend) RegisterFDs(register func(fd int, tag backend.EventTag)) {}

// Poll pumps pending SDL events into b.events, translated to
// backend.Event; called once per event-loop tick regardless of tag.
func (b *Backend) Poll(tag backend.EventTag) {
	sdl.PumpEvents()
	for {
		ev := sdl.PollEvent()
		if ev == nil {
			return
		}
		if translated, ok := translateEvent(ev); ok {
			b.events = append(b.events, translated)
		}
	}
}

func (b *Backend) NextEvent() (backend.Event, bool) {
	if len(b.events) == 0 {
		return backend.Event{}, false
	}
	ev := b.events[0]
	b.events = b.events[1:]
	return ev, true
}

func translateEvent(ev sdl.Event) (backend.Event, bool) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		return backend.Event{Kind: backend.EventShutdown}, true
	case *sdl.MouseMotionEvent:
		return backend.Event{Kind: backend.EventPointerMotion, X: float64(e.X), Y: float64(e.Y)}, true
	case *sdl.MouseButtonEvent:
		kind := backend.EventPointerButtonRelease
		if e.State == sdl.PRESSED {
			kind = backend.EventPointerButtonPress
		}
		return backend.Event{Kind: kind, Button: sdlButtonToLinux(e.Button)}, true
	case *sdl.MouseWheelEvent:
		return backend.Event{Kind: backend.EventPointerAxisVertical, Axis: float64(e.Y)}, true
	case *sdl.KeyboardEvent:
		kind := backend.EventKeyReleased
		if e.State == sdl.PRESSED {
			kind = backend.EventKeyPressed
		}
		return backend.Event{Kind: kind, Keycode: uint32(e.Keysym.Scancode)}, true
	}
	return backend.Event{}, false
}

// sdlButtonToLinux maps sdl's 1/2/3 button numbering onto the Linux
// evdev BTN_* codes wl_pointer.button expects.
func sdlButtonToLinux(b uint8) uint32 {
	switch b {
	case sdl.BUTTON_LEFT:
		return 0x110
	case sdl.BUTTON_RIGHT:
		return 0x111
	case sdl.BUTTON_MIDDLE:
		return 0x112
	default:
		return 0x110
	}
}

// RenderFrame uploads every scene node as an SDL texture blit, applying
// alpha and the buffer transform, then presents.
func (b *Backend) RenderFrame(f func(backend.Frame)) {
	fr := &frame{b: b}
	f(fr)
	b.render.Present()
}

type frame struct{ b *Backend }

func (fr *frame) Clear(r, g, bl float64) {
	fr.b.render.SetDrawColor(uint8(r*255), uint8(g*255), uint8(bl*255), 255)
	fr.b.render.Clear()
}

func (fr *frame) AddNode(buf backend.BufferID, x, y float64, w, h int32, alpha float64, transform compositor.Transform) {
	rec, ok := fr.b.buffers[buf]
	if !ok {
		return
	}
	tex, scaled, err := fr.b.textureForSize(rec, w, h)
	if err != nil {
		return
	}
	tex.SetAlphaMod(uint8(alpha * 255))
	dst := &sdl.Rect{X: int32(x), Y: int32(y), W: w, H: h}
	angle, flip := transformToSDL(transform)
	fr.b.render.CopyEx(tex, nil, dst, angle, nil, flip)
	if scaled {
		tex.Destroy()
	}
}

func transformToSDL(t compositor.Transform) (float64, sdl.RendererFlip) {
	switch t {
	case compositor.Transform90:
		return 90, sdl.FLIP_NONE
	case compositor.Transform180:
		return 180, sdl.FLIP_NONE
	case compositor.Transform270:
		return 270, sdl.FLIP_NONE
	case compositor.TransformFlipped:
		return 0, sdl.FLIP_HORIZONTAL
	case compositor.TransformFlipped90:
		return 90, sdl.FLIP_HORIZONTAL
	case compositor.TransformFlipped180:
		return 180, sdl.FLIP_HORIZONTAL
	case compositor.TransformFlipped270:
		return 270, sdl.FLIP_HORIZONTAL
	default:
		return 0, sdl.FLIP_NONE
	}
}

// textureFor lazily uploads rec's ARGB8888 pixels to an sdl.Texture,
// converting to SDL's expected byte order with swizzle (the teacher's
// own dependency for this exact ARGB/BGRA fixup, see menu.go's texture
// upload path).
func (b *Backend) textureFor(rec *bufferRecord) (*sdl.Texture, error) {
	if rec.tex != nil {
		return rec.tex, nil
	}
	surf, err := sdl.CreateRGBSurfaceWithFormat(0, rec.w, rec.h, 32, uint32(sdl.PIXELFORMAT_ARGB8888))
	if err != nil {
		return nil, fmt.Errorf("sdlwin: CreateRGBSurfaceWithFormat: %w", err)
	}
	defer surf.Free()
	swizzle.BGRA(rec.pixels)
	copy(surf.Pixels(), rec.pixels)
	swizzle.BGRA(rec.pixels) // restore source byte order for subsequent re-uploads
	tex, err := b.render.CreateTextureFromSurface(surf)
	if err != nil {
		return nil, fmt.Errorf("sdlwin: CreateTextureFromSurface: %w", err)
	}
	rec.tex = tex
	return tex, nil
}

// scaleThreshold bounds how far a destination rect (set by wp_viewport, or
// by a client that just draws at a different size than its buffer) may
// diverge from the buffer's native size before we bother pre-scaling on the
// CPU rather than letting CopyEx stretch the texture directly.
const scaleThreshold = 0.1

// textureForSize returns a texture suitable for compositing rec at a
// dstW x dstH destination rect. For the common case (destination matches
// the buffer's native size within scaleThreshold) this is just rec's
// cached texture. Otherwise it builds a one-off texture pre-scaled on the
// CPU with resize.Resize, so minification doesn't alias the way SDL's own
// bilinear stretch does on small preview-sized viewports; the caller must
// destroy the texture when the returned bool is true.
func (b *Backend) textureForSize(rec *bufferRecord, dstW, dstH int32) (*sdl.Texture, bool, error) {
	if rec.w == 0 || rec.h == 0 || dstW == 0 || dstH == 0 {
		tex, err := b.textureFor(rec)
		return tex, false, err
	}
	wRatio := math.Abs(float64(dstW)/float64(rec.w) - 1)
	hRatio := math.Abs(float64(dstH)/float64(rec.h) - 1)
	if wRatio <= scaleThreshold && hRatio <= scaleThreshold {
		tex, err := b.textureFor(rec)
		return tex, false, err
	}
	pixels := scaledPixels(rec, dstW, dstH)
	surf, err := sdl.CreateRGBSurfaceWithFormat(0, dstW, dstH, 32, uint32(sdl.PIXELFORMAT_ARGB8888))
	if err != nil {
		return nil, false, fmt.Errorf("sdlwin: CreateRGBSurfaceWithFormat (scaled): %w", err)
	}
	defer surf.Free()
	swizzle.BGRA(pixels)
	copy(surf.Pixels(), pixels)
	tex, err := b.render.CreateTextureFromSurface(surf)
	if err != nil {
		return nil, false, fmt.Errorf("sdlwin: CreateTextureFromSurface (scaled): %w", err)
	}
	return tex, true, nil
}

// scaledPixels resizes rec's ARGB8888 pixels to dstW x dstH using a
// bilinear filter, returning a fresh buffer (rec.pixels is left untouched
// so the native-size texture can still be cached).
func scaledPixels(rec *bufferRecord, dstW, dstH int32) []byte {
	src := &image.RGBA{
		Pix:    rec.pixels,
		Stride: int(rec.stride),
		Rect:   image.Rect(0, 0, int(rec.w), int(rec.h)),
	}
	resized := resize.Resize(uint(dstW), uint(dstH), src, resize.Bilinear)
	dst := image.NewRGBA(image.Rect(0, 0, int(dstW), int(dstH)))
	draw.Draw(dst, dst.Bounds(), resized, image.Point{}, draw.Src)
	return dst.Pix
}

func (b *Backend) CreateShmPool(fd int, size int32) (backend.PoolID, error) {
	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return 0, fmt.Errorf("sdlwin: mmap shm pool: %w", err)
	}
	b.nextPoolID++
	id := b.nextPoolID
	b.pools[id] = &shmPool{id: id, fd: fd, data: data}
	return id, nil
}

func (b *Backend) ResizeShmPool(id backend.PoolID, newSize int32) error {
	p, ok := b.pools[id]
	if !ok {
		return fmt.Errorf("sdlwin: resize: unknown pool %d", id)
	}
	unix.Munmap(p.data)
	data, err := unix.Mmap(p.fd, 0, int(newSize), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("sdlwin: mmap resized shm pool: %w", err)
	}
	p.data = data
	return nil
}

func (b *Backend) ShmPoolResourceDestroyed(id backend.PoolID) {
	if p, ok := b.pools[id]; ok {
		unix.Munmap(p.data)
		delete(b.pools, id)
	}
}

func (b *Backend) CreateShmBuffer(spec backend.ShmBufferSpec, resource uint64) error {
	if spec.Format != formatARGB8888 && spec.Format != formatXRGB8888 {
		return fmt.Errorf("sdlwin: unsupported shm format %d", spec.Format)
	}
	pool, ok := b.pools[spec.Pool]
	if !ok {
		return fmt.Errorf("sdlwin: create_buffer: unknown pool %d", spec.Pool)
	}
	b.pending[resource] = func() ([]byte, int32, int32, int32, uint32, error) {
		n := int(spec.Stride) * int(spec.Height)
		if int(spec.Offset)+n > len(pool.data) {
			return nil, 0, 0, 0, 0, fmt.Errorf("sdlwin: shm buffer extends past pool bounds")
		}
		px := append([]byte(nil), pool.data[spec.Offset:int(spec.Offset)+n]...)
		return px, spec.Width, spec.Height, spec.Stride, spec.Format, nil
	}
	return nil
}

func (b *Backend) CreateSinglePixBuffer(spec backend.SinglePixelBufferSpec, resource uint64) error {
	px := []byte{
		byte(spec.B >> 24), byte(spec.G >> 24), byte(spec.R >> 24), byte(spec.A >> 24),
	}
	b.pending[resource] = func() ([]byte, int32, int32, int32, uint32, error) {
		return px, 1, 1, 4, formatARGB8888, nil
	}
	return nil
}

// CreateDmaBuffer is schema-complete but unreachable: internal/shell
// rejects every zwp_linux_dmabuf_v1 path before a resource ever reaches
// here (see DESIGN.md).
func (b *Backend) CreateDmaBuffer(planes []backend.DmaBufPlane, w, h int32, format uint32, resource uint64) error {
	return fmt.Errorf("sdlwin: dmabuf import not supported")
}

func (b *Backend) BufferCommitted(resource uint64) (backend.BufferID, int32, int32, error) {
	if id, ok := b.resourceBuf[resource]; ok {
		if rec, ok := b.buffers[id]; ok {
			return id, rec.w, rec.h, nil
		}
	}
	make_, ok := b.pending[resource]
	if !ok {
		return 0, 0, 0, fmt.Errorf("sdlwin: commit: no buffer staged for resource")
	}
	pixels, w, h, stride, _, err := make_()
	if err != nil {
		return 0, 0, 0, err
	}
	b.nextBufID++
	id := b.nextBufID
	b.buffers[id] = &bufferRecord{id: id, w: w, h: h, stride: stride, pixels: pixels}
	b.resourceBuf[resource] = id
	return id, w, h, nil
}

func (b *Backend) BufferLock(id backend.BufferID) {
	if rec, ok := b.buffers[id]; ok {
		rec.locks++
	}
}

func (b *Backend) BufferUnlock(id backend.BufferID) {
	rec, ok := b.buffers[id]
	if !ok {
		return
	}
	rec.locks--
	if rec.locks <= 0 {
		if rec.tex != nil {
			rec.tex.Destroy()
		}
		delete(b.buffers, id)
	}
}

func (b *Backend) BufferResourceDestroyed(resource uint64) {
	delete(b.pending, resource)
	delete(b.resourceBuf, resource)
}

func (b *Backend) GetBufferSize(id backend.BufferID) (int32, int32, bool) {
	rec, ok := b.buffers[id]
	if !ok {
		return 0, 0, false
	}
	return rec.w, rec.h, true
}

func (b *Backend) SupportedShmFormats() []uint32 {
	return []uint32{formatARGB8888, formatXRGB8888}
}

// Close tears down the renderer, window and SDL subsystem.
func (b *Backend) Close() {
	for _, rec := range b.buffers {
		if rec.tex != nil {
			rec.tex.Destroy()
		}
	}
	b.render.Destroy()
	b.win.Destroy()
	sdl.Quit()
}

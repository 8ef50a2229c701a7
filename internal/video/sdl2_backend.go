//go:build sdl2

package video

import (
	"fmt"
	"sync"
	"time"

	"github.com/veandco/go-sdl2/sdl"
)

// SDL2Backend is the secondary presentation backend, built behind the
// sdl2 build tag for platforms where ebiten's GL/Metal/D3D requirements
// aren't available (e.g. a bare KMS/DRM handheld console image).
type SDL2Backend struct {
	mu       sync.Mutex
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	texW     int
	texH     int
	lastVsync time.Time
}

// NewSDL2Backend builds an unstarted backend.
func NewSDL2Backend() *SDL2Backend { return &SDL2Backend{} }

func (b *SDL2Backend) Start(width, height int, fullscreen bool) error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("video: sdl2 init: %w", err)
	}

	flags := uint32(sdl.WINDOW_SHOWN)
	if fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	win, err := sdl.CreateWindow("minarch", sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, int32(width), int32(height), flags)
	if err != nil {
		return fmt.Errorf("video: sdl2 create window: %w", err)
	}
	renderer, err := sdl.CreateRenderer(win, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return fmt.Errorf("video: sdl2 create renderer: %w", err)
	}

	b.mu.Lock()
	b.window, b.renderer = win, renderer
	b.mu.Unlock()
	return nil
}

func (b *SDL2Backend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.texture != nil {
		b.texture.Destroy()
	}
	if b.renderer != nil {
		b.renderer.Destroy()
	}
	if b.window != nil {
		b.window.Destroy()
	}
	sdl.Quit()
	return nil
}

func (b *SDL2Backend) Present(frame *RGBAFrame, vp Viewport, overlay OverlayInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.texture == nil || b.texW != frame.Width || b.texH != frame.Height {
		if b.texture != nil {
			b.texture.Destroy()
		}
		tex, err := b.renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, int32(frame.Width), int32(frame.Height))
		if err != nil {
			return fmt.Errorf("video: sdl2 create texture: %w", err)
		}
		b.texture = tex
		b.texW, b.texH = frame.Width, frame.Height
	}

	if err := b.texture.Update(nil, frame.Pix, frame.Width*4); err != nil {
		return fmt.Errorf("video: sdl2 texture update: %w", err)
	}

	dst := &sdl.Rect{X: int32(vp.X), Y: int32(vp.Y), W: int32(vp.Width), H: int32(vp.Height)}
	b.renderer.Clear()
	if err := b.renderer.Copy(b.texture, nil, dst); err != nil {
		return fmt.Errorf("video: sdl2 copy: %w", err)
	}
	b.renderer.Present()
	b.lastVsync = time.Now()
	return nil
}

// WaitForVSync does not block: it returns the time the last Present
// finished. The renderer is created with RENDERER_PRESENTVSYNC, so the
// wait for the vertical blank happens inside Present instead.
func (b *SDL2Backend) WaitForVSync() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastVsync
}

func (b *SDL2Backend) RefreshRateHz() float64 {
	b.mu.Lock()
	win := b.window
	b.mu.Unlock()
	if win == nil {
		return 0
	}
	displayIndex, err := win.GetDisplayIndex()
	if err != nil {
		return 0
	}
	mode, err := sdl.GetCurrentDisplayMode(displayIndex)
	if err != nil {
		return 0
	}
	return float64(mode.RefreshRate)
}

func (b *SDL2Backend) SetFullscreen(fs bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.window == nil {
		return
	}
	flags := uint32(0)
	if fs {
		flags = sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	_ = b.window.SetFullscreen(flags)
}

//go:build !headless

package video

import (
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// EbitenBackend presents frames through ebiten's own run loop, the same
// double-buffered-frame-plus-vsync-channel shape the original engine's
// ebiten output used, adapted from presenting a machine's raw screen
// buffer to presenting the video pipeline's scaled RGBA frames.
type EbitenBackend struct {
	mu         sync.RWMutex
	width      int
	height     int
	fullscreen bool
	windowedW  int
	windowedH  int

	window      *ebiten.Image
	pendingFrame *RGBAFrame
	pendingVP    Viewport
	overlay      OverlayInfo

	vsyncChan  chan time.Time
	frameCount uint64
	running    bool
}

// NewEbitenBackend builds an unstarted backend.
func NewEbitenBackend() *EbitenBackend {
	return &EbitenBackend{vsyncChan: make(chan time.Time, 1)}
}

func (b *EbitenBackend) Start(width, height int, fullscreen bool) error {
	b.mu.Lock()
	b.width, b.height = width, height
	b.windowedW, b.windowedH = width, height
	b.fullscreen = fullscreen
	b.running = true
	b.mu.Unlock()

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("minarch")
	ebiten.SetFullscreen(fullscreen)
	ebiten.SetVsyncEnabled(true)

	go func() {
		_ = ebiten.RunGame(b)
	}()

	// Wait for the first Draw so callers can rely on the window existing.
	select {
	case <-b.vsyncChan:
	case <-time.After(2 * time.Second):
	}
	return nil
}

func (b *EbitenBackend) Stop() error {
	b.mu.Lock()
	b.running = false
	b.mu.Unlock()
	return nil
}

func (b *EbitenBackend) Present(frame *RGBAFrame, vp Viewport, overlay OverlayInfo) error {
	b.mu.Lock()
	b.pendingFrame = frame
	b.pendingVP = vp
	b.overlay = overlay
	b.mu.Unlock()
	return nil
}

func (b *EbitenBackend) WaitForVSync() time.Time {
	return <-b.vsyncChan
}

func (b *EbitenBackend) RefreshRateHz() float64 {
	return ebiten.ActualTPS()
}

func (b *EbitenBackend) SetFullscreen(fs bool) {
	b.mu.Lock()
	b.fullscreen = fs
	b.mu.Unlock()
	ebiten.SetFullscreen(fs)
	if !fs {
		ebiten.SetWindowSize(b.windowedW, b.windowedH)
	}
}

// Update implements ebiten.Game.
func (b *EbitenBackend) Update() error {
	b.mu.RLock()
	running := b.running
	b.mu.RUnlock()
	if !running {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (b *EbitenBackend) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	b.mu.RLock()
	frame := b.pendingFrame
	vp := b.pendingVP
	overlay := b.overlay
	b.mu.RUnlock()

	if frame != nil {
		if b.window == nil || b.window.Bounds().Dx() != frame.Width || b.window.Bounds().Dy() != frame.Height {
			b.window = ebiten.NewImage(frame.Width, frame.Height)
		}
		b.window.WritePixels(frame.Pix)
		opts := &ebiten.DrawImageOptions{}
		sx := float64(vp.Width) / float64(frame.Width)
		sy := float64(vp.Height) / float64(frame.Height)
		opts.GeoM.Scale(sx, sy)
		opts.GeoM.Translate(float64(vp.X), float64(vp.Y))
		screen.DrawImage(b.window, opts)
	}

	if overlay.Visible {
		drawOverlay(screen, overlay)
	}

	b.frameCount++
	select {
	case b.vsyncChan <- time.Now():
	default:
	}
}

// Layout implements ebiten.Game.
func (b *EbitenBackend) Layout(_, _ int) (int, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.width, b.height
}

// drawOverlay renders the four-corner HUD: fps/cpu top-left, src
// dims/scale top-right, freq-or-level+util+buffer-fill bottom-left, dst
// dims bottom-right.
func drawOverlay(screen *ebiten.Image, info OverlayInfo) {
	topLeft := fmt.Sprintf("fps %.0f%%  cpu %.0f%%", info.FPSPercent, info.CPUPercent)
	topRight := fmt.Sprintf("%dx%d  x%.2f", info.SrcWidth, info.SrcHeight, info.ScaleFactor)
	bottomLeft := fmt.Sprintf("%s  util %.0f%%  buf %.0f%%", info.FreqKHzOrLvl, info.UtilPercent, info.BufferFill)
	bottomRight := fmt.Sprintf("%dx%d", info.DstWidth, info.DstHeight)

	ebitenutil.DebugPrintAt(screen, topLeft, 4, 4)
	ebitenutil.DebugPrintAt(screen, topRight, screen.Bounds().Dx()-len(topRight)*6-4, 4)
	ebitenutil.DebugPrintAt(screen, bottomLeft, 4, screen.Bounds().Dy()-20)
	ebitenutil.DebugPrintAt(screen, bottomRight, screen.Bounds().Dx()-len(bottomRight)*6-4, screen.Bounds().Dy()-20)
}

//go:build headless

package video

import "time"

// HeadlessBackend discards frames and synthesizes vsync ticks at a fixed
// rate, for tests and CI that run without a display.
type HeadlessBackend struct {
	width, height int
	fullscreen    bool
	refreshHz     float64
	lastFrame     *RGBAFrame
	lastViewport  Viewport
	presentCount  int
}

// NewHeadlessBackend builds a backend that simulates a display refreshing
// at refreshHz (defaulting to 60 when <= 0).
func NewHeadlessBackend(refreshHz float64) *HeadlessBackend {
	if refreshHz <= 0 {
		refreshHz = 60.0
	}
	return &HeadlessBackend{refreshHz: refreshHz}
}

func (b *HeadlessBackend) Start(width, height int, fullscreen bool) error {
	b.width, b.height, b.fullscreen = width, height, fullscreen
	return nil
}

func (b *HeadlessBackend) Stop() error { return nil }

func (b *HeadlessBackend) Present(frame *RGBAFrame, vp Viewport, _ OverlayInfo) error {
	b.lastFrame = frame
	b.lastViewport = vp
	b.presentCount++
	return nil
}

func (b *HeadlessBackend) WaitForVSync() time.Time {
	time.Sleep(time.Duration(float64(time.Second) / b.refreshHz))
	return time.Now()
}

func (b *HeadlessBackend) RefreshRateHz() float64 { return b.refreshHz }

func (b *HeadlessBackend) SetFullscreen(fs bool) { b.fullscreen = fs }

// LastFrame exposes the most recently presented frame for test assertions.
func (b *HeadlessBackend) LastFrame() (*RGBAFrame, Viewport) { return b.lastFrame, b.lastViewport }

// PresentCount is the number of Present calls observed so far.
func (b *HeadlessBackend) PresentCount() int { return b.presentCount }

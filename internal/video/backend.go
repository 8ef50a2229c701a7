package video

import "time"

// OverlayInfo is the data the four-corner debug HUD renders, sourced from
// internal/diag's status snapshot.
type OverlayInfo struct {
	FPSPercent   float64
	CPUPercent   float64
	SrcWidth     int
	SrcHeight    int
	ScaleFactor  float64
	FreqKHzOrLvl string
	UtilPercent  float64
	BufferFill   float64
	DstWidth     int
	DstHeight    int
	Visible      bool
}

// Backend is a swappable presentation surface: it owns the window/output
// device, accepts finished RGBA frames, and reports vsync ticks back to
// internal/pacer.
type Backend interface {
	// Start opens the window/output device and begins its run loop.
	Start(width, height int, fullscreen bool) error
	// Stop closes the window/output device.
	Stop() error
	// Present blits frame into vp of the backend's surface. Overlay, when
	// Visible, is drawn after the frame.
	Present(frame *RGBAFrame, vp Viewport, overlay OverlayInfo) error
	// WaitForVSync blocks until the next vertical blank, returning the
	// timestamp it occurred at.
	WaitForVSync() time.Time
	// RefreshRateHz reports the backend's best estimate of display
	// refresh rate, 0 if unknown.
	RefreshRateHz() float64
	// SetFullscreen toggles fullscreen presentation.
	SetFullscreen(bool)
}

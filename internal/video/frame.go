// Package video implements the transform pipeline between a libretro
// core's raw framebuffer and a displayable RGBA image: pixel format
// conversion, software rotation, and the four scaling policies, plus the
// swappable presentation backends (ebiten, SDL2, headless).
package video

import "fmt"

// PixelFormat mirrors core.PixelFormat without importing internal/core,
// keeping this package usable standalone in tests.
type PixelFormat uint32

const (
	PixelFormat0RGB1555 PixelFormat = iota
	PixelFormatXRGB8888
	PixelFormatRGB565
)

func (f PixelFormat) String() string {
	switch f {
	case PixelFormat0RGB1555:
		return "0RGB1555"
	case PixelFormatXRGB8888:
		return "XRGB8888"
	case PixelFormatRGB565:
		return "RGB565"
	default:
		return fmt.Sprintf("PixelFormat(%d)", uint32(f))
	}
}

// Rotation is a clockwise screen rotation in quarter turns.
type Rotation uint32

const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

// Sharpness selects the resampling kernel used by non-Native scale
// policies.
type Sharpness int

const (
	// SharpNearest: nearest-neighbor always, even for non-integer scale.
	SharpNearest Sharpness = iota
	// SharpCrisp: integer upscale via nearest-neighbor, then a single
	// linear pass to reach the final non-integer factor.
	SharpCrisp
	// SharpSoft: linear filtering throughout.
	SharpSoft
)

// ScalePolicy selects how the source frame maps onto the destination
// surface.
type ScalePolicy int

const (
	ScaleNative ScalePolicy = iota
	ScaleAspect
	ScaleFullscreen
	ScaleCropped
)

// SourceFrame is one core-supplied framebuffer prior to conversion.
type SourceFrame struct {
	Data   []byte
	Width  uint32
	Height uint32
	Pitch  uintptr
	Format PixelFormat
}

// RGBAFrame is a converted, top-to-bottom, 4-bytes-per-pixel RGBA buffer.
type RGBAFrame struct {
	Pix    []byte
	Width  int
	Height int
}

func newRGBAFrame(w, h int) *RGBAFrame {
	return &RGBAFrame{Pix: make([]byte, w*h*4), Width: w, Height: h}
}

package video

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Viewport is the destination rectangle a scaled frame should be blitted
// into, expressed in display pixel coordinates.
type Viewport struct {
	X, Y          int
	Width, Height int
}

// PlanScale computes the destination viewport for a source of srcW x srcH
// scaled onto a display of dispW x dispH under policy, preserving aspect
// unless the policy says otherwise.
func PlanScale(policy ScalePolicy, srcW, srcH, dispW, dispH int, aspect float64) Viewport {
	if aspect <= 0 {
		aspect = float64(srcW) / float64(srcH)
	}

	switch policy {
	case ScaleNative:
		factor := integerScaleFactor(srcW, srcH, dispW, dispH)
		w, h := srcW*factor, srcH*factor
		x := (dispW - w) / 2
		y := (dispH - h) / 2
		return Viewport{X: x, Y: y, Width: w, Height: h}

	case ScaleFullscreen:
		return Viewport{X: 0, Y: 0, Width: dispW, Height: dispH}

	case ScaleCropped:
		// Fill the display completely, cropping whichever axis overflows
		// the target aspect; the viewport itself is still the full
		// display rect, the overflow is handled by the caller sampling a
		// cropped source sub-rectangle.
		return Viewport{X: 0, Y: 0, Width: dispW, Height: dispH}

	case ScaleAspect:
		fallthrough
	default:
		dispAspect := float64(dispW) / float64(dispH)
		var w, h int
		if dispAspect > aspect {
			h = dispH
			w = int(float64(h) * aspect)
		} else {
			w = dispW
			h = int(float64(w) / aspect)
		}
		return Viewport{X: (dispW - w) / 2, Y: (dispH - h) / 2, Width: w, Height: h}
	}
}

// ChooseKernel maps a sharpness preference and an observed scale factor to
// a concrete resampling kernel. Integer scale factors always use nearest
// neighbor regardless of sharpness, matching pixel-art expectations; Sharp
// additionally forces nearest for non-integer factors, Soft always
// linear-filters, and Crisp splits the work into an integer nearest-
// neighbor pass followed by a linear pass for the fractional remainder.
func ChooseKernel(sharpness Sharpness, scaleX, scaleY float64) xdraw.Interpolator {
	isIntegerScale := isWholeNumber(scaleX) && isWholeNumber(scaleY)
	if isIntegerScale {
		return xdraw.NearestNeighbor
	}
	switch sharpness {
	case SharpNearest:
		return xdraw.NearestNeighbor
	case SharpSoft:
		return xdraw.BiLinear
	case SharpCrisp:
		return xdraw.BiLinear
	default:
		return xdraw.BiLinear
	}
}

func isWholeNumber(v float64) bool {
	return v == float64(int(v))
}

// integerScaleFactor returns the largest integer scale <=
// min(dispW/srcW, dispH/srcH), per spec's Native policy. Clamped to at
// least 1: a source larger than the display still gets drawn 1:1 rather
// than vanishing to a zero-size viewport.
func integerScaleFactor(srcW, srcH, dispW, dispH int) int {
	ratio := dispW / srcW
	if h := dispH / srcH; h < ratio {
		ratio = h
	}
	if ratio < 1 {
		ratio = 1
	}
	return ratio
}

// ScaleTo resamples src into a freshly allocated RGBA frame sized to vp,
// applying an integer nearest-neighbor pre-pass first when sharpness is
// Crisp and the scale factor is non-integer, per ChooseKernel's policy.
func ScaleTo(src *RGBAFrame, vp Viewport, sharpness Sharpness) *RGBAFrame {
	if vp.Width == src.Width && vp.Height == src.Height {
		return src
	}

	scaleX := float64(vp.Width) / float64(src.Width)
	scaleY := float64(vp.Height) / float64(src.Height)

	srcImg := &image.RGBA{
		Pix:    src.Pix,
		Stride: src.Width * 4,
		Rect:   image.Rect(0, 0, src.Width, src.Height),
	}

	if sharpness == SharpCrisp && !(isWholeNumber(scaleX) && isWholeNumber(scaleY)) {
		intX, intY := int(scaleX), int(scaleY)
		if intX >= 1 && intY >= 1 {
			pre := integerUpscale(src, intX, intY)
			srcImg = &image.RGBA{Pix: pre.Pix, Stride: pre.Width * 4, Rect: image.Rect(0, 0, pre.Width, pre.Height)}
		}
	}

	dst := newRGBAFrame(vp.Width, vp.Height)
	dstImg := &image.RGBA{Pix: dst.Pix, Stride: vp.Width * 4, Rect: image.Rect(0, 0, vp.Width, vp.Height)}

	kernel := ChooseKernel(sharpness, scaleX, scaleY)
	kernel.Scale(dstImg, dstImg.Rect, srcImg, srcImg.Rect, draw.Over, nil)
	return dst
}

func integerUpscale(src *RGBAFrame, fx, fy int) *RGBAFrame {
	dst := newRGBAFrame(src.Width*fx, src.Height*fy)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			sOff := (y*src.Width + x) * 4
			px := src.Pix[sOff : sOff+4 : sOff+4]
			for dy := 0; dy < fy; dy++ {
				rowBase := ((y*fy+dy)*dst.Width + x*fx) * 4
				for dx := 0; dx < fx; dx++ {
					o := rowBase + dx*4
					copy(dst.Pix[o:o+4], px)
				}
			}
		}
	}
	return dst
}

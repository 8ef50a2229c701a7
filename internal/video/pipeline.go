package video

import "time"

// fastForwardBlitInterval is the minimum spacing between presented frames
// while fast-forwarding; frames arriving sooner than this are converted
// (so core state stays correct) but not blitted to the backend, since the
// display can't usefully show them faster than this anyway.
const fastForwardBlitInterval = 10 * time.Millisecond

// Pipeline turns core framebuffers into backend-ready RGBA frames,
// tracking enough state across calls to reuse rotation buffers and to
// throttle presentation during fast-forward.
type Pipeline struct {
	Rotation    Rotation
	Policy      ScalePolicy
	Sharpness   Sharpness
	DisplayW    int
	DisplayH    int
	AspectRatio float64

	rotateBuf    *RGBAFrame
	lastBlit     time.Time
	lastDestW    int
	lastDestH    int
	destDirty    bool
}

// NewPipeline builds a Pipeline for a display of the given size.
func NewPipeline(displayW, displayH int) *Pipeline {
	return &Pipeline{
		Policy:   ScaleAspect,
		DisplayW: displayW,
		DisplayH: displayH,
	}
}

// Result is one pipeline output: the final frame, where it should be
// blitted, and whether it should be blitted at all this call.
type Result struct {
	Frame     *RGBAFrame
	Viewport  Viewport
	ShouldBlit bool
}

// SetDisplaySize updates the destination surface size, marking the
// destination pitch dirty so the next Process call recomputes geometry
// rather than reusing a stale scale plan (invariant: destination pitch
// changes must invalidate cached scale state).
func (p *Pipeline) SetDisplaySize(w, h int) {
	if w == p.DisplayW && h == p.DisplayH {
		return
	}
	p.DisplayW, p.DisplayH = w, h
	p.destDirty = true
}

// Process converts, rotates, and scales one source frame. When
// fastForward is true and less than fastForwardBlitInterval has elapsed
// since the last blit, the frame is still fully converted (the core's
// behavior must not depend on presentation) but Result.ShouldBlit is
// false so the backend skips the actual present.
func (p *Pipeline) Process(src SourceFrame, fastForward bool, now time.Time) (Result, error) {
	converted, err := Convert(src)
	if err != nil {
		return Result{}, err
	}

	rotated := Rotate(converted, p.Rotation, p.rotateBuf)
	if p.Rotation != Rotate0 {
		p.rotateBuf = rotated
	}

	aspect := p.AspectRatio
	if aspect <= 0 {
		aspect = float64(rotated.Width) / float64(rotated.Height)
	}
	vp := PlanScale(p.Policy, rotated.Width, rotated.Height, p.DisplayW, p.DisplayH, aspect)

	var final *RGBAFrame
	if p.Policy == ScaleCropped {
		final = cropToViewport(rotated, vp)
	} else {
		final = ScaleTo(rotated, vp, p.Sharpness)
	}

	shouldBlit := true
	if fastForward && !p.lastBlit.IsZero() && now.Sub(p.lastBlit) < fastForwardBlitInterval {
		shouldBlit = false
	}
	if shouldBlit {
		p.lastBlit = now
	}

	p.destDirty = false
	p.lastDestW, p.lastDestH = p.DisplayW, p.DisplayH

	return Result{Frame: final, Viewport: vp, ShouldBlit: shouldBlit}, nil
}

// cropToViewport fills vp completely by integer-upscaling src (nearest
// neighbor only, per spec's "integer scaling modes always use
// nearest-neighbour sampling") until both axes cover vp, then
// center-cropping the excess — never stretching by a non-integer factor
// the way a crop-then-ScaleTo approach would.
func cropToViewport(src *RGBAFrame, vp Viewport) *RGBAFrame {
	factor := 1
	for src.Width*factor < vp.Width || src.Height*factor < vp.Height {
		factor++
	}

	upscaled := src
	if factor > 1 {
		upscaled = integerUpscale(src, factor, factor)
	}

	offX := (upscaled.Width - vp.Width) / 2
	offY := (upscaled.Height - vp.Height) / 2

	cropped := newRGBAFrame(vp.Width, vp.Height)
	for y := 0; y < vp.Height; y++ {
		sOff := ((y+offY)*upscaled.Width + offX) * 4
		dOff := y * vp.Width * 4
		copy(cropped.Pix[dOff:dOff+vp.Width*4], upscaled.Pix[sOff:sOff+vp.Width*4])
	}
	return cropped
}

package video

// Rotate returns src rotated clockwise by rot. Rotate0 returns src
// unchanged (no copy). A destination buffer is only reallocated when the
// rotated dimensions exceed the capacity of a buffer already cached in
// reuse — callers that rotate every frame should pass the previous
// result back in via reuse to avoid churn.
func Rotate(src *RGBAFrame, rot Rotation, reuse *RGBAFrame) *RGBAFrame {
	if rot == Rotate0 {
		return src
	}

	outW, outH := src.Width, src.Height
	if rot == Rotate90 || rot == Rotate270 {
		outW, outH = src.Height, src.Width
	}

	dst := reuse
	if dst == nil || cap(dst.Pix) < outW*outH*4 {
		dst = newRGBAFrame(outW, outH)
	} else {
		dst.Pix = dst.Pix[:outW*outH*4]
		dst.Width, dst.Height = outW, outH
	}

	switch rot {
	case Rotate90:
		rotate90(src, dst)
	case Rotate180:
		rotate180(src, dst)
	case Rotate270:
		rotate270(src, dst)
	}
	return dst
}

// rotate90 maps src(x,y) -> dst(h-1-y, x); dst pitch is src height*4.
func rotate90(src, dst *RGBAFrame) {
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			sOff := (y*src.Width + x) * 4
			dx := src.Height - 1 - y
			dy := x
			dOff := (dy*dst.Width + dx) * 4
			copy(dst.Pix[dOff:dOff+4], src.Pix[sOff:sOff+4])
		}
	}
}

func rotate180(src, dst *RGBAFrame) {
	n := src.Width * src.Height
	for i := 0; i < n; i++ {
		sOff := i * 4
		dOff := (n - 1 - i) * 4
		copy(dst.Pix[dOff:dOff+4], src.Pix[sOff:sOff+4])
	}
}

func rotate270(src, dst *RGBAFrame) {
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			sOff := (y*src.Width + x) * 4
			dx := y
			dy := src.Width - 1 - x
			dOff := (dy*dst.Width + dx) * 4
			copy(dst.Pix[dOff:dOff+4], src.Pix[sOff:sOff+4])
		}
	}
}

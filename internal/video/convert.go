package video

// Convert decodes src into a fresh RGBA frame, reading rows according to
// src.Pitch (which may exceed Width*bytesPerPixel) rather than assuming
// tightly packed rows.
func Convert(src SourceFrame) (*RGBAFrame, error) {
	w, h := int(src.Width), int(src.Height)
	dst := newRGBAFrame(w, h)

	switch src.Format {
	case PixelFormatRGB565:
		convertRGB565(src, dst)
	case PixelFormat0RGB1555:
		convert0RGB1555(src, dst)
	case PixelFormatXRGB8888:
		convertXRGB8888(src, dst)
	default:
		return nil, errUnsupportedFormat(src.Format)
	}
	return dst, nil
}

func convertRGB565(src SourceFrame, dst *RGBAFrame) {
	pitch := int(src.Pitch)
	for y := 0; y < dst.Height; y++ {
		row := src.Data[y*pitch:]
		for x := 0; x < dst.Width; x++ {
			px := uint16(row[x*2]) | uint16(row[x*2+1])<<8
			r5 := (px >> 11) & 0x1F
			g6 := (px >> 5) & 0x3F
			b5 := px & 0x1F
			o := (y*dst.Width + x) * 4
			dst.Pix[o] = expand5to8(r5)
			dst.Pix[o+1] = expand6to8(g6)
			dst.Pix[o+2] = expand5to8(b5)
			dst.Pix[o+3] = 0xFF
		}
	}
}

func convert0RGB1555(src SourceFrame, dst *RGBAFrame) {
	pitch := int(src.Pitch)
	for y := 0; y < dst.Height; y++ {
		row := src.Data[y*pitch:]
		for x := 0; x < dst.Width; x++ {
			px := uint16(row[x*2]) | uint16(row[x*2+1])<<8
			r5 := (px >> 10) & 0x1F
			g5 := (px >> 5) & 0x1F
			b5 := px & 0x1F
			o := (y*dst.Width + x) * 4
			dst.Pix[o] = expand5to8(r5)
			dst.Pix[o+1] = expand5to8(g5)
			dst.Pix[o+2] = expand5to8(b5)
			dst.Pix[o+3] = 0xFF
		}
	}
}

func convertXRGB8888(src SourceFrame, dst *RGBAFrame) {
	pitch := int(src.Pitch)
	for y := 0; y < dst.Height; y++ {
		row := src.Data[y*pitch:]
		for x := 0; x < dst.Width; x++ {
			b := row[x*4]
			g := row[x*4+1]
			r := row[x*4+2]
			o := (y*dst.Width + x) * 4
			dst.Pix[o] = r
			dst.Pix[o+1] = g
			dst.Pix[o+2] = b
			dst.Pix[o+3] = 0xFF
		}
	}
}

func expand5to8(v uint16) byte { return byte((v*255 + 15) / 31) }
func expand6to8(v uint16) byte { return byte((v*255 + 31) / 63) }

type errUnsupportedFormat PixelFormat

func (e errUnsupportedFormat) Error() string {
	return "video: unsupported pixel format " + PixelFormat(e).String()
}

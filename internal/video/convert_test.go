package video

import "testing"

func TestConvertRGB565WhitePixel(t *testing.T) {
	src := SourceFrame{
		Data:   []byte{0xFF, 0xFF}, // 0xFFFF little-endian
		Width:  1,
		Height: 1,
		Pitch:  2,
		Format: PixelFormatRGB565,
	}
	dst, err := Convert(src)
	if err != nil {
		t.Fatal(err)
	}
	if dst.Pix[0] != 0xFF || dst.Pix[1] != 0xFF || dst.Pix[2] != 0xFF || dst.Pix[3] != 0xFF {
		t.Fatalf("got %v want opaque white", dst.Pix)
	}
}

func TestConvert0RGB1555Black(t *testing.T) {
	src := SourceFrame{Data: []byte{0x00, 0x00}, Width: 1, Height: 1, Pitch: 2, Format: PixelFormat0RGB1555}
	dst, err := Convert(src)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if dst.Pix[i] != 0 {
			t.Fatalf("channel %d got %d want 0", i, dst.Pix[i])
		}
	}
	if dst.Pix[3] != 0xFF {
		t.Fatalf("alpha got %d want 255", dst.Pix[3])
	}
}

func TestConvertXRGB8888RedPixel(t *testing.T) {
	// XRGB8888 little-endian byte order: B, G, R, X.
	src := SourceFrame{Data: []byte{0x00, 0x00, 0xFF, 0x00}, Width: 1, Height: 1, Pitch: 4, Format: PixelFormatXRGB8888}
	dst, err := Convert(src)
	if err != nil {
		t.Fatal(err)
	}
	if dst.Pix[0] != 0xFF || dst.Pix[1] != 0 || dst.Pix[2] != 0 {
		t.Fatalf("got %v want pure red", dst.Pix)
	}
}

func TestConvertRespectsPitchWiderThanWidth(t *testing.T) {
	// Two rows, logical width 1, but pitch covers 2 pixels (4 bytes) per
	// row; the second pixel in each row must be ignored.
	data := []byte{
		0xFF, 0xFF, 0xAA, 0xAA, // row 0: white pixel, then junk
		0x00, 0x00, 0xBB, 0xBB, // row 1: black pixel, then junk
	}
	src := SourceFrame{Data: data, Width: 1, Height: 2, Pitch: 4, Format: PixelFormatRGB565}
	dst, err := Convert(src)
	if err != nil {
		t.Fatal(err)
	}
	if dst.Pix[0] != 0xFF {
		t.Fatalf("row 0 got %v want white", dst.Pix[0:4])
	}
	if dst.Pix[4] != 0x00 || dst.Pix[5] != 0x00 || dst.Pix[6] != 0x00 {
		t.Fatalf("row 1 got %v want black", dst.Pix[4:8])
	}
}

func TestConvertUnsupportedFormat(t *testing.T) {
	src := SourceFrame{Width: 1, Height: 1, Pitch: 4, Format: PixelFormat(99)}
	if _, err := Convert(src); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

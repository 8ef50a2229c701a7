package video

import (
	"testing"
	"time"
)

func solidFrame(w, h int, format PixelFormat) SourceFrame {
	bpp := 2
	if format == PixelFormatXRGB8888 {
		bpp = 4
	}
	data := make([]byte, w*h*bpp)
	for i := range data {
		data[i] = 0xFF
	}
	return SourceFrame{Data: data, Width: uint32(w), Height: uint32(h), Pitch: uintptr(w * bpp), Format: format}
}

func TestPipelineProcessProducesFrame(t *testing.T) {
	p := NewPipeline(1280, 720)
	res, err := p.Process(solidFrame(256, 224, PixelFormatRGB565), false, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if res.Frame == nil {
		t.Fatalf("expected a frame")
	}
	if !res.ShouldBlit {
		t.Fatalf("expected first frame to blit")
	}
}

func TestPipelineThrottlesFastForwardBlits(t *testing.T) {
	p := NewPipeline(1280, 720)
	now := time.Now()

	res1, err := p.Process(solidFrame(64, 64, PixelFormatRGB565), true, now)
	if err != nil {
		t.Fatal(err)
	}
	if !res1.ShouldBlit {
		t.Fatalf("first frame should always blit")
	}

	res2, err := p.Process(solidFrame(64, 64, PixelFormatRGB565), true, now.Add(2*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if res2.ShouldBlit {
		t.Fatalf("frame within 10ms during fast-forward should be suppressed")
	}

	res3, err := p.Process(solidFrame(64, 64, PixelFormatRGB565), true, now.Add(15*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if !res3.ShouldBlit {
		t.Fatalf("frame past 10ms interval should blit")
	}
}

func TestPipelineNormalSpeedNeverThrottles(t *testing.T) {
	p := NewPipeline(1280, 720)
	now := time.Now()
	for i := 0; i < 5; i++ {
		res, err := p.Process(solidFrame(64, 64, PixelFormatRGB565), false, now.Add(time.Duration(i)*time.Millisecond))
		if err != nil {
			t.Fatal(err)
		}
		if !res.ShouldBlit {
			t.Fatalf("frame %d: normal speed must never suppress blits", i)
		}
	}
}

func TestPipelineSetDisplaySizeMarksDirty(t *testing.T) {
	p := NewPipeline(1280, 720)
	p.SetDisplaySize(1920, 1080)
	if !p.destDirty {
		t.Fatalf("expected destDirty after SetDisplaySize with new dimensions")
	}
	if p.DisplayW != 1920 || p.DisplayH != 1080 {
		t.Fatalf("display size not updated")
	}
}

func TestPipelineCroppedPolicyFillsDisplay(t *testing.T) {
	p := NewPipeline(800, 600)
	p.Policy = ScaleCropped
	res, err := p.Process(solidFrame(256, 224, PixelFormatRGB565), false, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if res.Frame.Width != 800 || res.Frame.Height != 600 {
		t.Fatalf("cropped frame got %dx%d want 800x600", res.Frame.Width, res.Frame.Height)
	}
}

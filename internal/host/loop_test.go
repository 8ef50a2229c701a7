package host

import (
	"testing"
	"time"

	"github.com/retrohandheld/minarch/internal/video"
)

type fakeBackend struct {
	presented int
	vsyncs    int
}

func (f *fakeBackend) Start(int, int, bool) error { return nil }
func (f *fakeBackend) Stop() error                { return nil }
func (f *fakeBackend) Present(*video.RGBAFrame, video.Viewport, video.OverlayInfo) error {
	f.presented++
	return nil
}
func (f *fakeBackend) WaitForVSync() time.Time { f.vsyncs++; return time.Now() }
func (f *fakeBackend) RefreshRateHz() float64  { return 60.0 }
func (f *fakeBackend) SetFullscreen(bool)      {}

func TestLoopPresentFlipsOnlyWhenPendingFrameExists(t *testing.T) {
	ctx := newTestContext(t)
	backend := &fakeBackend{}
	ctx.Backend = backend
	l := NewLoop(ctx)

	l.present()
	if backend.presented != 0 {
		t.Fatalf("got %d presents want 0 with no pending frame", backend.presented)
	}

	ctx.pendingVideo = video.Result{Frame: &video.RGBAFrame{Width: 1, Height: 1, Pix: make([]byte, 4)}}
	ctx.havePending = true

	l.present()
	if backend.presented != 1 {
		t.Fatalf("got %d presents want 1", backend.presented)
	}
	if ctx.havePending {
		t.Fatal("expected havePending cleared after present")
	}
}

func TestLoopHandleWakeClearsButtonsAndResetsPacer(t *testing.T) {
	ctx := newTestContext(t)
	ctx.Pacer.Init(50, 60)
	ctx.Pacer.Step()
	ctx.Pacer.Step()
	ctx.buttons[buttonKey{0, deviceJoypad, 0}] = true
	l := NewLoop(ctx)

	l.handleWake()

	if len(ctx.buttons) != 0 {
		t.Fatalf("got %d stale button entries want 0", len(ctx.buttons))
	}
	if got, want := ctx.Pacer.Accumulator(), ctx.Pacer.DisplayHzQ16(); got != want {
		t.Fatalf("got accumulator %d want %d after wake reset", got, want)
	}
}

package host

import (
	"unsafe"

	"github.com/retrohandheld/minarch/internal/video"
)

const deviceJoypad = 1 // RETRO_DEVICE_JOYPAD

// VideoRefresh implements core.VideoSink. A nil data pointer means "dupe
// the previous frame" (spec.md §6): the pipeline is not re-run and the
// previously buffered result, if any, is left as the pending frame so the
// main loop still presents and keeps vsync cadence steady.
func (ctx *Context) VideoRefresh(data unsafe.Pointer, width, height uint32, pitch uintptr) {
	if data == nil {
		ctx.havePending = ctx.havePending || (ctx.pendingVideo.Frame != nil)
		return
	}

	src := video.SourceFrame{
		Data:   unsafe.Slice((*byte)(data), int(pitch)*int(height)),
		Width:  width,
		Height: height,
		Pitch:  pitch,
		Format: video.PixelFormat(ctx.pixelFormat),
	}

	result, err := ctx.Video.Process(src, ctx.fastForward, now())
	if err != nil {
		ctx.Logger.Warn("video pipeline error", "err", err)
		return
	}
	ctx.pendingVideo = result
	ctx.havePending = true
}

// AudioSample implements core.AudioSink's single-sample path.
func (ctx *Context) AudioSample(left, right int16) {
	if ctx.fastForward || ctx.AudioRing == nil {
		return
	}
	ctx.AudioRing.Write([]int16{left, right})
}

// AudioSampleBatch implements core.AudioSink's batch path. During
// fast-forward, samples are dropped and every frame is reported consumed
// (spec.md §6).
func (ctx *Context) AudioSampleBatch(data unsafe.Pointer, frames uintptr) uintptr {
	if frames == 0 {
		return 0
	}
	if ctx.fastForward || ctx.AudioRing == nil {
		return frames
	}
	samples := unsafe.Slice((*int16)(data), int(frames)*2)
	written := ctx.AudioRing.Write(samples)
	return uintptr(written / 2)
}

// InputPoll implements core.InputSource. It coalesces repeated polls
// within the same core.Run call into a single platform query (spec.md §6
// "host coalesces with idempotence guard"); ResetFrame clears the guard
// between frames.
func (ctx *Context) InputPoll() {
	if ctx.polledThisFrame {
		return
	}
	ctx.polledThisFrame = true
	if ctx.Platform == nil {
		return
	}

	events := ctx.Platform.PollInput()
	ctx.buttonMu.Lock()
	for _, e := range events {
		ctx.buttons[buttonKey{e.Port, e.Device, e.ID}] = e.Pressed
	}
	ctx.buttonMu.Unlock()
}

// InputState implements core.InputSource. For joypad devices, id ==
// deviceIDJoypadMask returns the full button bitmask; otherwise it
// returns a single button's pressed state as 0/1 (spec.md §6). Analog
// stick queries report neutral: the platform input facade only emits
// discrete button transitions.
func (ctx *Context) InputState(port, device, index, id uint32) int16 {
	if device != deviceJoypad {
		_ = index
		return 0
	}
	if id == deviceIDJoypadMask {
		return ctx.joypadMask(port)
	}
	if ctx.buttonPressed(port, device, id) {
		return 1
	}
	return 0
}

func (ctx *Context) buttonPressed(port, device, id uint32) bool {
	ctx.buttonMu.Lock()
	defer ctx.buttonMu.Unlock()
	return ctx.buttons[buttonKey{port, device, id}]
}

func (ctx *Context) joypadMask(port uint32) int16 {
	ctx.buttonMu.Lock()
	defer ctx.buttonMu.Unlock()
	var mask int16
	for key, pressed := range ctx.buttons {
		if !pressed || key.port != port || key.device != deviceJoypad {
			continue
		}
		mask |= 1 << key.id
	}
	return mask
}

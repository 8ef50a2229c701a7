package core

import (
	"testing"
	"unsafe"
)

func TestGoStringNilIsEmpty(t *testing.T) {
	if got := goString(nil); got != "" {
		t.Fatalf("got %q want empty", got)
	}
}

func TestGoStringReadsUntilNUL(t *testing.T) {
	b := []byte("snes9x\x00trailing garbage")
	got := goString(&b[0])
	if got != "snes9x" {
		t.Fatalf("got %q want %q", got, "snes9x")
	}
}

type fakeEnv struct {
	lastCmd EnvCommand
	result  bool
}

func (f *fakeEnv) HandleEnvironment(cmd EnvCommand, _ unsafe.Pointer) bool {
	f.lastCmd = cmd
	return f.result
}

type fakeVideo struct {
	w, h uint32
	p    uintptr
}

func (f *fakeVideo) VideoRefresh(_ unsafe.Pointer, w, h uint32, pitch uintptr) {
	f.w, f.h, f.p = w, h, pitch
}

type fakeAudio struct {
	sampleCalls int
	batchFrames uintptr
}

func (f *fakeAudio) AudioSample(int16, int16) { f.sampleCalls++ }
func (f *fakeAudio) AudioSampleBatch(_ unsafe.Pointer, frames uintptr) uintptr {
	f.batchFrames = frames
	return frames
}

type fakeInput struct {
	polled bool
}

func (f *fakeInput) InputPoll()                                { f.polled = true }
func (f *fakeInput) InputState(port, device, index, id uint32) int16 { return int16(port + device + index + id) }

func TestCallbackSetDispatchesToSinks(t *testing.T) {
	env := &fakeEnv{result: true}
	video := &fakeVideo{}
	audio := &fakeAudio{}
	input := &fakeInput{}
	cb := newCallbackSet(env, video, audio, input)

	if ok := cb.environment(uint32(EnvSetPixelFormat), nil); !ok {
		t.Fatalf("expected environment to return true")
	}
	if env.lastCmd != EnvSetPixelFormat {
		t.Fatalf("got cmd %v want EnvSetPixelFormat", env.lastCmd)
	}

	cb.videoRefresh(nil, 256, 224, 512)
	if video.w != 256 || video.h != 224 || video.p != 512 {
		t.Fatalf("video refresh not forwarded: %+v", video)
	}

	cb.audioSample(100, -100)
	if audio.sampleCalls != 1 {
		t.Fatalf("audio sample not forwarded")
	}
	if n := cb.audioSampleBatch(nil, 64); n != 64 {
		t.Fatalf("got %d want 64", n)
	}

	cb.inputPoll()
	if !input.polled {
		t.Fatalf("input poll not forwarded")
	}
	if got := cb.inputState(1, 2, 3, 4); got != 10 {
		t.Fatalf("got %d want 10", got)
	}
}

func TestRequiredSymbolsNonEmpty(t *testing.T) {
	if len(requiredSymbols) == 0 {
		t.Fatalf("requiredSymbols must not be empty")
	}
	seen := map[string]bool{}
	for _, s := range requiredSymbols {
		if seen[s] {
			t.Fatalf("duplicate required symbol %s", s)
		}
		seen[s] = true
	}
}

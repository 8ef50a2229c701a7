package host

import (
	"testing"
	"unsafe"

	"github.com/retrohandheld/minarch/internal/platform"
)

type fakeFacade struct {
	events []platform.InputEvent
	power  platform.PowerEvent
	polls  int
}

func (f *fakeFacade) PollInput() []platform.InputEvent {
	f.polls++
	return f.events
}
func (f *fakeFacade) PollPower() platform.PowerEvent { return f.power }
func (f *fakeFacade) Close() error                   { return nil }

func TestInputPollCoalescesWithinOneFrame(t *testing.T) {
	ctx := newTestContext(t)
	facade := &fakeFacade{events: []platform.InputEvent{{Port: 0, Device: deviceJoypad, ID: 0, Pressed: true}}}
	ctx.SetPlatform(facade)

	ctx.InputPoll()
	ctx.InputPoll()
	ctx.InputPoll()

	if facade.polls != 1 {
		t.Fatalf("got %d platform polls want 1 (idempotence guard)", facade.polls)
	}

	ctx.ResetFrame()
	ctx.InputPoll()
	if facade.polls != 2 {
		t.Fatalf("got %d platform polls want 2 after ResetFrame", facade.polls)
	}
}

func TestInputStateMaskSemantics(t *testing.T) {
	ctx := newTestContext(t)
	facade := &fakeFacade{events: []platform.InputEvent{
		{Port: 0, Device: deviceJoypad, ID: 0, Pressed: true},
		{Port: 0, Device: deviceJoypad, ID: 3, Pressed: true},
	}}
	ctx.SetPlatform(facade)
	ctx.InputPoll()

	if v := ctx.InputState(0, deviceJoypad, 0, 0); v != 1 {
		t.Fatalf("button 0 got %d want 1", v)
	}
	if v := ctx.InputState(0, deviceJoypad, 0, 1); v != 0 {
		t.Fatalf("button 1 got %d want 0", v)
	}

	mask := ctx.InputState(0, deviceJoypad, 0, deviceIDJoypadMask)
	want := int16(1<<0 | 1<<3)
	if mask != want {
		t.Fatalf("got mask %d want %d", mask, want)
	}
}

func TestAudioSampleBatchDropsDuringFastForward(t *testing.T) {
	ctx := newTestContext(t)
	ctx.SetFastForward(true, 4.0)

	samples := []int16{1, 2, 3, 4, 5, 6}
	consumed := ctx.AudioSampleBatch(unsafe.Pointer(&samples[0]), 3)
	if consumed != 3 {
		t.Fatalf("got %d want 3 (all frames reported consumed during fast-forward)", consumed)
	}
	if ctx.AudioRing.Occupancy() != 0 {
		t.Fatalf("expected no samples written during fast-forward, got occupancy %d", ctx.AudioRing.Occupancy())
	}
}

func TestAudioSampleBatchWritesToRing(t *testing.T) {
	ctx := newTestContext(t)

	samples := []int16{10, 20, 30, 40}
	consumed := ctx.AudioSampleBatch(unsafe.Pointer(&samples[0]), 2)
	if consumed != 2 {
		t.Fatalf("got %d want 2", consumed)
	}
	if ctx.AudioRing.Occupancy() != 4 {
		t.Fatalf("got occupancy %d want 4 samples", ctx.AudioRing.Occupancy())
	}
}

func TestVideoRefreshNilDataDupesPreviousFrame(t *testing.T) {
	ctx := newTestContext(t)
	if ctx.havePending {
		t.Fatal("expected no pending frame before any refresh")
	}

	ctx.VideoRefresh(nil, 0, 0, 0)
	if ctx.havePending {
		t.Fatal("a nil refresh with no prior frame should not create a pending frame")
	}
}

package host

import (
	"testing"
	"unsafe"

	"github.com/retrohandheld/minarch/internal/audio"
	"github.com/retrohandheld/minarch/internal/core"
	"github.com/retrohandheld/minarch/internal/pacer"
	"github.com/retrohandheld/minarch/internal/video"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	return New(nil, nil, pacer.New(nil), nil, video.NewPipeline(160, 144), audio.NewRing(4096), nil)
}

func TestHandleEnvironmentSetRotationStoresQuadrant(t *testing.T) {
	ctx := newTestContext(t)
	quadrant := uint32(1)

	ok := ctx.HandleEnvironment(core.EnvSetRotation, unsafe.Pointer(&quadrant))
	if !ok {
		t.Fatal("expected true")
	}
	if ctx.Video.Rotation != video.Rotate90 {
		t.Fatalf("got rotation %v want Rotate90", ctx.Video.Rotation)
	}
}

func TestHandleEnvironmentGetOverscanReportsTrue(t *testing.T) {
	ctx := newTestContext(t)
	var out bool

	ok := ctx.HandleEnvironment(core.EnvGetOverscan, unsafe.Pointer(&out))
	if !ok || !out {
		t.Fatalf("got ok=%v out=%v want true/true", ok, out)
	}
}

func TestHandleEnvironmentSetPixelFormatRejectsOutOfRange(t *testing.T) {
	ctx := newTestContext(t)
	bad := uint32(99)

	if ok := ctx.HandleEnvironment(core.EnvSetPixelFormat, unsafe.Pointer(&bad)); ok {
		t.Fatal("expected false for out-of-range pixel format")
	}

	good := uint32(core.PixelFormatXRGB8888)
	if ok := ctx.HandleEnvironment(core.EnvSetPixelFormat, unsafe.Pointer(&good)); !ok {
		t.Fatal("expected true for valid pixel format")
	}
	if ctx.pixelFormat != core.PixelFormatXRGB8888 {
		t.Fatalf("got %v want XRGB8888", ctx.pixelFormat)
	}
}

// Command 15 (named EnvSetHWRender in internal/core, despite the name) is
// this table's "get variable: lookup in core option list".
func TestHandleEnvironmentGetVariableLooksUpOption(t *testing.T) {
	ctx := newTestContext(t)
	ctx.Options.Set("aspect_ratio", "4:3")

	key := cString("aspect_ratio")
	v := cVariable{key: &key[0]}

	ok := ctx.HandleEnvironment(core.EnvSetHWRender, unsafe.Pointer(&v))
	if !ok {
		t.Fatal("expected true for a known variable")
	}
	if got := goStringPtr(v.value); got != "4:3" {
		t.Fatalf("got %q want 4:3", got)
	}
}

func TestHandleEnvironmentGetVariableUnknownReturnsFalse(t *testing.T) {
	ctx := newTestContext(t)
	key := cString("nonexistent")
	v := cVariable{key: &key[0]}

	if ok := ctx.HandleEnvironment(core.EnvSetHWRender, unsafe.Pointer(&v)); ok {
		t.Fatal("expected false for an unknown variable")
	}
}

// Commands 16, 53, and 54 all mean "set variables/options: replace the
// core option list" in this table, despite their constant names in
// internal/core suggesting otherwise.
func TestHandleEnvironmentSetVariablesReplacesOptionList(t *testing.T) {
	ctx := newTestContext(t)

	k1, v1 := cString("scanlines"), cString("on")
	k2, v2 := cString("palette"), cString("ntsc")
	entries := []cVariable{
		{key: &k1[0], value: &v1[0]},
		{key: &k2[0], value: &v2[0]},
		{key: nil},
	}

	ok := ctx.HandleEnvironment(core.EnvGetVariable, unsafe.Pointer(&entries[0]))
	if !ok {
		t.Fatal("expected true")
	}

	if got, found := ctx.Options.Get("scanlines"); !found || got != "on" {
		t.Fatalf("got %q/%v want on/true", got, found)
	}
	if got, found := ctx.Options.Get("palette"); !found || got != "ntsc" {
		t.Fatalf("got %q/%v want ntsc/true", got, found)
	}
	if !ctx.variablesDirty {
		t.Fatal("expected variablesDirty to be set")
	}
}

// Command 17 (named EnvSetVariables) is this table's "get variable-update:
// report and clear dirty bit".
func TestHandleEnvironmentGetVariableUpdateReportsAndClears(t *testing.T) {
	ctx := newTestContext(t)
	ctx.variablesDirty = true
	var out bool

	if ok := ctx.HandleEnvironment(core.EnvSetVariables, unsafe.Pointer(&out)); !ok || !out {
		t.Fatalf("got ok=%v out=%v want true/true", ok, out)
	}
	if ctx.variablesDirty {
		t.Fatal("expected dirty bit cleared after report")
	}

	out = false
	if ok := ctx.HandleEnvironment(core.EnvSetVariables, unsafe.Pointer(&out)); !ok || out {
		t.Fatalf("got ok=%v out=%v want true/false on second read", ok, out)
	}
}

func TestHandleEnvironmentSetGeometryUpdatesAspect(t *testing.T) {
	ctx := newTestContext(t)
	g := cGeometry{width: 256, height: 224, aspect: 1.333}

	if ok := ctx.HandleEnvironment(core.EnvSetGeometry, unsafe.Pointer(&g)); !ok {
		t.Fatal("expected true")
	}
	if ctx.geometryWidth != 256 || ctx.geometryHeight != 224 {
		t.Fatalf("got %dx%d want 256x224", ctx.geometryWidth, ctx.geometryHeight)
	}
	if ctx.Video.AspectRatio != float64(float32(1.333)) {
		t.Fatalf("got aspect %v", ctx.Video.AspectRatio)
	}
}

func TestHandleEnvironmentSetControllerInfoDeclines(t *testing.T) {
	ctx := newTestContext(t)
	if ok := ctx.HandleEnvironment(core.EnvSetControllerInfo, nil); ok {
		t.Fatal("expected false per libretro convention")
	}
}

func TestHandleEnvironmentUnknownCommandReturnsFalse(t *testing.T) {
	ctx := newTestContext(t)
	if ok := ctx.HandleEnvironment(core.EnvCommand(9999), nil); ok {
		t.Fatal("expected false for an unsupported command")
	}
}

func TestHandleEnvironmentGetThrottleStateReflectsFastForward(t *testing.T) {
	ctx := newTestContext(t)
	ctx.SetFastForward(true, 2.0)
	var ts cThrottleState

	if ok := ctx.HandleEnvironment(core.EnvGetThrottleState, unsafe.Pointer(&ts)); !ok {
		t.Fatal("expected true")
	}
	if ts.mode != 1 || ts.rateMul != 2.0 {
		t.Fatalf("got mode=%d rate=%v want 1/2.0", ts.mode, ts.rateMul)
	}
}

func TestHandleEnvironmentGetSystemDirectoryReturnsKeptAliveString(t *testing.T) {
	ctx := newTestContext(t)
	ctx.SysDir = "/opt/cores/system"
	var out *byte

	if ok := ctx.HandleEnvironment(core.EnvGetSystemDirectory, unsafe.Pointer(&out)); !ok {
		t.Fatal("expected true")
	}
	if got := goStringPtr(out); got != "/opt/cores/system" {
		t.Fatalf("got %q want /opt/cores/system", got)
	}
}

package host

import (
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/retrohandheld/minarch/internal/core"
	"github.com/retrohandheld/minarch/internal/video"
)

// The EnvCommand constants in internal/core were named after an earlier,
// less complete reading of the libretro ABI and in a few places no longer
// describe what their numeric value actually means in this table (e.g.
// EnvSetHWRender == 15 is this frontend's "get variable" command, and
// EnvGetVariable == 16 is grouped with 53/54 as "set variables/options").
// Dispatch below is keyed on the numeric value's documented behavior, not
// the constant's name; each case says which behavior it implements.

// cVariable mirrors the simplified {key, value} pair layout this host
// uses for the get-variable and set-variables commands: a
// NUL-terminated key pointer and a NUL-terminated value pointer, with a
// nil key terminating an array for the set-variables case.
type cVariable struct {
	key   *byte
	value *byte
}

// cMessage mirrors the set-message command's struct.
type cMessage struct {
	msg    *byte
	frames uint32
}

// cGeometry mirrors the width/height/aspect subset set-geometry needs.
type cGeometry struct {
	width  uint32
	height uint32
	aspect float32
}

// cTiming mirrors retro_system_timing.
type cTiming struct {
	fps        float64
	sampleRate float64
}

// cAVInfo mirrors retro_system_av_info.
type cAVInfo struct {
	geometry cGeometry
	timing   cTiming
}

// cRumbleInterface mirrors retro_rumble_interface: one function pointer,
// set_rumble_state(port, effect, strength) -> bool.
type cRumbleInterface struct {
	setRumbleState uintptr
}

// cThrottleState mirrors retro_throttle_state.
type cThrottleState struct {
	mode    uint32
	rateMul float32
}

const deviceIDJoypadMask = 256 // RETRO_DEVICE_ID_JOYPAD_MASK equivalent

func goStringPtr(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}

func cString(s string) []byte {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return buf
}

func writeBoolPtr(data unsafe.Pointer, v bool) {
	if data == nil {
		return
	}
	*(*bool)(data) = v
}

func writeCStringOut(data unsafe.Pointer, keepAlive *[]byte, s string) {
	if data == nil {
		return
	}
	*keepAlive = cString(s)
	*(**byte)(data) = &(*keepAlive)[0]
}

func (ctx *Context) displayHz() float64 {
	if ctx.Pacer == nil {
		return 60.0
	}
	return float64(ctx.Pacer.DisplayHzQ16()) / 65536.0
}

// HandleEnvironment implements core.Environment: one case per command in
// the table, returning false for anything this host doesn't answer
// (spec.md §7 "environment-callback unknown command").
func (ctx *Context) HandleEnvironment(cmd core.EnvCommand, data unsafe.Pointer) bool {
	switch cmd {
	case core.EnvSetRotation: // 1: store quadrant, invalidate scaler
		if data == nil {
			return false
		}
		ctx.Video.Rotation = video.Rotation(*(*uint32)(data) % 4)
		return true

	case core.EnvGetOverscan: // 2
		writeBoolPtr(data, true)
		return true

	case core.EnvGetCanDupe: // 3
		writeBoolPtr(data, true)
		return true

	case core.EnvSetMessage: // 6: forward to host logger
		if data == nil {
			return false
		}
		msg := (*cMessage)(data)
		ctx.Logger.Info("core message", "text", goStringPtr(msg.msg), "frames", msg.frames)
		return true

	case core.EnvGetSystemDirectory: // 9
		writeCStringOut(data, &ctx.sysDirCStr, ctx.SysDir)
		return true

	case core.EnvSetPixelFormat: // 10: accept RGB565/0RGB1555/XRGB8888 only
		if data == nil {
			return false
		}
		fv := *(*uint32)(data)
		if fv > uint32(core.PixelFormatRGB565) {
			return false
		}
		ctx.pixelFormat = core.PixelFormat(fv)
		return true

	case core.EnvSetInputDescriptors: // 11: mark unavailable buttons ignored
		ctx.haveInputDescs = true
		return true

	// 13 and 58 both mean "store the disk-control interface for
	// multi-disc swap" in this table.
	case core.EnvSetDiskControlInterface, core.EnvGetMessageIfaceVer:
		ctx.diskControlIface = data
		return true

	// 15 means "get variable: lookup in core option list" here.
	case core.EnvSetHWRender:
		if data == nil {
			return false
		}
		v := (*cVariable)(data)
		key := goStringPtr(v.key)
		val, ok := ctx.Options.Get(key)
		if !ok {
			return false
		}
		buf := cString(val)
		ctx.variableBufs[key] = buf
		v.value = &buf[0]
		return true

	// 16, 53, and 54 all mean "set variables/options: replace core
	// option list" here.
	case core.EnvGetVariable, core.EnvGetPreferredHWRender, core.EnvGetDiskControlIfaceVer:
		ctx.setVariablesFromCArray(data)
		return true

	// 17 means "get variable-update: report and clear dirty bit" here.
	case core.EnvSetVariables:
		writeBoolPtr(data, ctx.variablesDirty)
		ctx.variablesDirty = false
		return true

	case core.EnvSetFrameTimeCallback: // 21
		ctx.frameTimeCB = data
		return true

	case core.EnvGetRumbleInterface: // 23
		if data == nil {
			return false
		}
		iface := (*cRumbleInterface)(data)
		iface.setRumbleState = ctx.rumbleTrampoline()
		return true

	case core.EnvGetLogInterface: // 27
		if data == nil {
			return false
		}
		*(*uintptr)(data) = ctx.logTrampoline()
		return true

	case core.EnvGetSaveDirectory: // 31
		writeCStringOut(data, &ctx.saveDirCStr, ctx.SaveDir)
		return true

	case core.EnvSetSystemAVInfo: // 32: replace fps/geometry/aspect and re-init the pacer; a new sample rate is only logged, the audio sink is not reinitialized
		if data == nil {
			return false
		}
		ctx.applySystemAVInfo(data)
		return true

	case core.EnvSetControllerInfo: // 35: note and decline, per libretro convention
		return false

	case core.EnvSetGeometry: // 37: geometry only, invalidate scaler
		if data == nil {
			return false
		}
		g := (*cGeometry)(data)
		ctx.geometryWidth, ctx.geometryHeight, ctx.geometryAspect = g.width, g.height, g.aspect
		ctx.Video.AspectRatio = float64(g.aspect)
		return true

	// 49 means "get fast-forwarding" here.
	case core.EnvSetCoreOptions:
		writeBoolPtr(data, ctx.fastForward)
		return true

	// 50 means "get target refresh rate" here.
	case core.EnvSetCoreOptionsIntl:
		if data == nil {
			return false
		}
		*(*float64)(data) = ctx.targetFPS
		return true

	// 51 means "get input bitmasks" here.
	case core.EnvSetCoreOptionsDisplay:
		writeBoolPtr(data, true)
		return true

	case core.EnvSetSaveStateInBG: // 62: store audio-buffer-status callback
		ctx.audioBufferStatCB = data
		return true

	case core.EnvGetThrottleState: // 71
		if data == nil {
			return false
		}
		ts := (*cThrottleState)(data)
		if ctx.fastForward {
			ts.mode = 1
		} else {
			ts.mode = 0
		}
		ts.rateMul = float32(ctx.fastForwardMul)
		return true

	default:
		return false
	}
}

// setVariablesFromCArray walks a nil-key-terminated array of cVariable
// pairs, replacing the core option list.
func (ctx *Context) setVariablesFromCArray(data unsafe.Pointer) {
	if data == nil {
		return
	}
	const maxVariables = 4096 // backstop against a malformed/unterminated array
	entries := unsafe.Slice((*cVariable)(data), maxVariables)
	for i := 0; i < maxVariables; i++ {
		if entries[i].key == nil {
			break
		}
		ctx.Options.Set(goStringPtr(entries[i].key), goStringPtr(entries[i].value))
	}
	ctx.variablesDirty = true
}

func (ctx *Context) applySystemAVInfo(data unsafe.Pointer) {
	av := (*cAVInfo)(data)
	ctx.geometryWidth, ctx.geometryHeight, ctx.geometryAspect = av.geometry.width, av.geometry.height, av.geometry.aspect
	ctx.targetFPS = av.timing.fps
	ctx.Video.AspectRatio = float64(av.geometry.aspect)

	if ctx.Pacer != nil {
		ctx.Pacer.Init(av.timing.fps, ctx.displayHz())
	}
	if av.timing.sampleRate > 0 {
		ctx.Logger.Warn("core changed audio sample rate mid-session; audio sink was not reinitialized", "new_rate", av.timing.sampleRate)
	}
}

// rumbleSetter is the Go-side target of the set_rumble_state function
// pointer handed back through the rumble interface; its signature must
// match retro_set_rumble_state_t for purego.NewCallback to bridge it.
func (ctx *Context) rumbleSetter(port uint32, effect uint32, strength uint16) bool {
	if ctx.vibrator == nil {
		return false
	}
	switch effect {
	case 0: // RETRO_RUMBLE_STRONG
		return ctx.vibrator.SetRumble(port, strength, 0)
	case 1: // RETRO_RUMBLE_WEAK
		return ctx.vibrator.SetRumble(port, 0, strength)
	default:
		return false
	}
}

func (ctx *Context) rumbleTrampoline() uintptr {
	if ctx.rumbleCB == 0 {
		ctx.rumbleCB = purego.NewCallback(ctx.rumbleSetter)
	}
	return ctx.rumbleCB
}

// logSimple is the simplified (non-variadic) retro_log_printf_t this host
// exposes through the log interface: C varargs can't be bridged generically
// through purego, so cores that format their own message before calling
// through are served correctly and cores that rely on printf-style
// formatting see their format string and any pointer-sized first argument
// logged verbatim rather than interpolated.
func (ctx *Context) logSimple(level uint32, fmtPtr *byte) {
	ctx.Logger.Info("core log", "level", level, "message", goStringPtr(fmtPtr))
}

func (ctx *Context) logTrampoline() uintptr {
	if ctx.logCB == 0 {
		ctx.logCB = purego.NewCallback(ctx.logSimple)
	}
	return ctx.logCB
}

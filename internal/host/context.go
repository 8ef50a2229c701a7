// Package host is the composition root: it owns the core plugin handle,
// frame pacer, CPU governor, video pipeline, audio ring, persistence
// coordinator, and platform facade behind a single HostContext value, and
// implements the environment-callback dispatch table as that value's
// method set (spec.md §9 "Global mutable state").
package host

import (
	"sync"
	"time"
	"unsafe"

	"github.com/charmbracelet/log"

	"github.com/retrohandheld/minarch/internal/audio"
	"github.com/retrohandheld/minarch/internal/core"
	"github.com/retrohandheld/minarch/internal/governor"
	"github.com/retrohandheld/minarch/internal/pacer"
	"github.com/retrohandheld/minarch/internal/persist"
	"github.com/retrohandheld/minarch/internal/platform"
	"github.com/retrohandheld/minarch/internal/video"
)

// MenuController is the subset of internal/menu.UI the loop needs to
// decide whether show_menu gating (governor decision step 1) applies,
// kept as a narrow interface here so internal/host never imports
// internal/menu and their build order stays unconstrained.
type MenuController interface {
	Visible() bool
}

// StatusProvider is the subset of internal/diag.Store the loop reads to
// fill the debug overlay's corners (spec.md §4.3), kept narrow here so
// internal/host never imports internal/diag.
type StatusProvider interface {
	FPSPercent() float64
	CPUPercent() float64
	FreqKHzOrLvl() string
	UtilPercent() float64
}

// StatusSink is the write side of StatusProvider: the loop feeds it a
// fresh pacing/governor reading once per frame. internal/diag.Store
// implements both sides.
type StatusSink interface {
	SetFrame(fpsPercent float64)
	SetGovernor(freqLabel string, utilPercent float64)
}

// Status is the combined read/write contract Context.Status is held as:
// the loop writes a fresh reading each frame and reads it straight back
// for the overlay, so one field covers both directions.
type Status interface {
	StatusProvider
	StatusSink
}

// Vibrator is an optional platform.Facade capability: devices without
// haptics simply don't implement it, and the rumble environment command
// degrades to a no-op setter.
type Vibrator interface {
	SetRumble(port uint32, strongMagnitude, weakMagnitude uint16) bool
}

// memoryProviderAdapter satisfies persist.MemoryProvider (kind uint) over
// core.Handle (kind core.MemoryKind) — two named types with the same
// underlying representation still don't satisfy each other's method sets
// in Go, so a thin adapter is required to avoid an import cycle between
// internal/persist and internal/core.
type memoryProviderAdapter struct {
	handle *core.Handle
}

func (a memoryProviderAdapter) MemorySize(kind uint) uintptr {
	return a.handle.MemorySize(core.MemoryKind(kind))
}

func (a memoryProviderAdapter) ReadMemory(kind uint) []byte {
	return a.handle.ReadMemory(core.MemoryKind(kind))
}

func (a memoryProviderAdapter) WriteMemory(kind uint, data []byte) bool {
	return a.handle.WriteMemory(core.MemoryKind(kind), data)
}

// Context is the single HostContext value threaded through the main
// loop. Its method set implements core.Environment, core.VideoSink,
// core.AudioSink, and core.InputSource.
type Context struct {
	Logger *log.Logger

	CoreHandle *core.Handle
	Pacer      *pacer.Pacer
	Governor   *governor.Governor
	Video      *video.Pipeline
	Backend    video.Backend
	AudioRing  *audio.Ring
	AudioSink  audio.Sink
	Persist    *persist.Coordinator
	Platform   platform.Facade
	FreqSetter governor.FrequencySetter
	Options    platform.OptionStore
	Menu       MenuController
	Status     Status
	Rewind     *persist.RewindRing

	Title   string
	SaveDir string
	SysDir  string

	// Environment-callback mutable state. All of it is touched only from
	// the main goroutine — inside retro_run (synchronously, during the
	// environment/video/audio/input callbacks it drives) or between
	// frames in the main loop — so it needs no locking; the governor's
	// own target fields (mutex-protected) are the only cross-thread
	// state in this design (spec.md §5).
	pixelFormat       core.PixelFormat
	haveInputDescs    bool
	diskControlIface  unsafe.Pointer
	frameTimeCB       unsafe.Pointer
	audioBufferStatCB unsafe.Pointer
	variablesDirty    bool
	fastForward       bool
	fastForwardMul    float64
	geometryAspect    float32
	geometryWidth     uint32
	geometryHeight    uint32
	targetFPS         float64

	// Keep-alive storage for C strings handed back through **byte-style
	// environment queries (get_system_directory, get_save_directory,
	// get_variable) — purego callbacks return plain pointers, so the Go
	// backing array must outlive the call, not just the function body.
	sysDirCStr   []byte
	saveDirCStr  []byte
	variableBufs map[string][]byte

	// Lazily created purego callback pointers handed back through the
	// rumble and log environment commands; created once and reused since
	// purego.NewCallback allocates a new trampoline slot each call.
	rumbleCB uintptr
	logCB    uintptr

	// Cross-callback frame buffering (spec.md §9 "avoid reentrancy"): the
	// video callback converts and scales synchronously (safe — Process
	// never calls back into the core) and stashes the result here for
	// the main loop to present once retro_run returns.
	pendingVideo video.Result
	havePending  bool

	// Persistent joypad button state, updated by platform.PollInput's
	// transition events and read back out of InputState.
	buttonMu sync.Mutex
	buttons  map[buttonKey]bool

	// polledThisFrame backs InputPoll's idempotence guard (spec.md §6:
	// "poll() once per frame; host coalesces"); the main loop resets it
	// at the top of every iteration via ResetFrame.
	polledThisFrame bool

	vibrator Vibrator
}

// ResetFrame clears per-frame coalescing state. The main loop calls this
// once at the start of every iteration, before driving the core.
func (ctx *Context) ResetFrame() {
	ctx.polledThisFrame = false
}

type buttonKey struct {
	port, device, id uint32
}

// New builds a Context. CoreHandle, Video, AudioRing, and Persist are
// required; Backend/AudioSink/Platform/Menu/Options may be nil during
// early construction and set before the first Run call.
func New(logger *log.Logger, handle *core.Handle, pc *pacer.Pacer, gov *governor.Governor, vid *video.Pipeline, ring *audio.Ring, coord *persist.Coordinator) *Context {
	if logger == nil {
		logger = log.Default()
	}
	ctx := &Context{
		Logger:         logger,
		CoreHandle:     handle,
		Pacer:          pc,
		Governor:       gov,
		Video:          vid,
		AudioRing:      ring,
		Persist:        coord,
		Options:        platform.NewMapOptionStore(),
		pixelFormat:    core.PixelFormat0RGB1555,
		fastForwardMul: 1.0,
		variableBufs:   make(map[string][]byte),
		buttons:        make(map[buttonKey]bool),
	}
	return ctx
}

// SetPlatform wires the platform facade in (and its optional Vibrator
// capability) after construction, since the facade's concrete backend is
// often chosen later than the rest of the context.
func (ctx *Context) SetPlatform(p platform.Facade) {
	ctx.Platform = p
	if v, ok := p.(Vibrator); ok {
		ctx.vibrator = v
	} else {
		ctx.vibrator = nil
	}
}

// MemoryProvider adapts CoreHandle for persist.Coordinator calls.
func (ctx *Context) MemoryProvider() persist.MemoryProvider {
	return memoryProviderAdapter{handle: ctx.CoreHandle}
}

// StateProvider exposes CoreHandle directly; *core.Handle already
// implements persist.StateProvider's three-method shape.
func (ctx *Context) StateProvider() persist.StateProvider {
	return ctx.CoreHandle
}

// SetFastForward updates the fast-forward state and speed multiplier the
// environment callbacks (cmd 49, 71) and video pipeline's blit throttle
// both read.
func (ctx *Context) SetFastForward(enabled bool, multiplier float64) {
	ctx.fastForward = enabled
	if multiplier <= 0 {
		multiplier = 1.0
	}
	ctx.fastForwardMul = multiplier
}

// now is a package-level indirection so tests can substitute a fixed
// clock without the package otherwise depending on wall time.
var now = time.Now

package core

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

// cSystemInfo mirrors struct retro_system_info's memory layout.
type cSystemInfo struct {
	libraryName     *byte
	libraryVersion  *byte
	validExtensions *byte
	needFullpath    bool
	blockExtract    bool
	_               [6]byte // align to 8 bytes
}

// cGameGeometry mirrors struct retro_game_geometry.
type cGameGeometry struct {
	baseWidth   uint32
	baseHeight  uint32
	maxWidth    uint32
	maxHeight   uint32
	aspectRatio float32
}

// cSystemTiming mirrors struct retro_system_timing.
type cSystemTiming struct {
	fps        float64
	sampleRate float64
}

// cSystemAVInfo mirrors struct retro_system_av_info.
type cSystemAVInfo struct {
	geometry cGameGeometry
	timing   cSystemTiming
}

// cGameInfo mirrors struct retro_game_info.
type cGameInfo struct {
	path *byte
	data unsafe.Pointer
	size uintptr
	meta *byte
}

// fnset holds every resolved libretro C function pointer, bound via
// purego.RegisterFunc so calling them from Go needs no cgo.
type fnset struct {
	init                 func()
	deinit               func()
	apiVersion           func() uint32
	getSystemInfo        func(unsafe.Pointer)
	getSystemAVInfo      func(unsafe.Pointer)
	setControllerDevice  func(uint32, uint32)
	reset                func()
	run                  func()
	serializeSize        func() uintptr
	serialize            func(unsafe.Pointer, uintptr) bool
	unserialize           func(unsafe.Pointer, uintptr) bool
	cheatReset            func()
	cheatSet              func(uint32, bool, *byte)
	loadGame              func(unsafe.Pointer) bool
	loadGameSpecial       func(uint32, unsafe.Pointer, uintptr) bool
	unloadGame            func()
	getRegion             func() uint32
	getMemoryData         func(uint32) unsafe.Pointer
	getMemorySize         func(uint32) uintptr
	setEnvironment        func(uintptr)
	setVideoRefresh       func(uintptr)
	setAudioSample        func(uintptr)
	setAudioSampleBatch   func(uintptr)
	setInputPoll          func(uintptr)
	setInputState         func(uintptr)
}

// Handle is a loaded libretro core: the dynamic library plus its bound
// function set and the capability bits discovered at load time.
type Handle struct {
	libPath         string
	libHandle       uintptr
	fn              fnset
	hasLoadSpecial  bool
	gameLoaded      bool
	system          SystemInfo
	av               SystemAVInfo
	callbacks       *callbackSet
}

// Load dlopens path and resolves every required libretro symbol. It does
// NOT call retro_init — callers should route the first LoadGame through a
// LoadGuard (loader_guard.go) before trusting the core with real content.
func Load(path string) (*Handle, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("core: dlopen %s: %w", path, err)
	}

	hd := &Handle{libPath: path, libHandle: h}
	if err := hd.bind(); err != nil {
		return nil, err
	}
	return hd, nil
}

func (hd *Handle) bind() error {
	for _, name := range requiredSymbols {
		if _, err := purego.Dlsym(hd.libHandle, name); err != nil {
			return fmt.Errorf("%w: %s", ErrMissingSymbol, name)
		}
	}

	purego.RegisterLibFunc(&hd.fn.init, hd.libHandle, "retro_init")
	purego.RegisterLibFunc(&hd.fn.deinit, hd.libHandle, "retro_deinit")
	purego.RegisterLibFunc(&hd.fn.apiVersion, hd.libHandle, "retro_api_version")
	purego.RegisterLibFunc(&hd.fn.getSystemInfo, hd.libHandle, "retro_get_system_info")
	purego.RegisterLibFunc(&hd.fn.getSystemAVInfo, hd.libHandle, "retro_get_system_av_info")
	purego.RegisterLibFunc(&hd.fn.setControllerDevice, hd.libHandle, "retro_set_controller_port_device")
	purego.RegisterLibFunc(&hd.fn.reset, hd.libHandle, "retro_reset")
	purego.RegisterLibFunc(&hd.fn.run, hd.libHandle, "retro_run")
	purego.RegisterLibFunc(&hd.fn.serializeSize, hd.libHandle, "retro_serialize_size")
	purego.RegisterLibFunc(&hd.fn.serialize, hd.libHandle, "retro_serialize")
	purego.RegisterLibFunc(&hd.fn.unserialize, hd.libHandle, "retro_unserialize")
	purego.RegisterLibFunc(&hd.fn.cheatReset, hd.libHandle, "retro_cheat_reset")
	purego.RegisterLibFunc(&hd.fn.cheatSet, hd.libHandle, "retro_cheat_set")
	purego.RegisterLibFunc(&hd.fn.loadGame, hd.libHandle, "retro_load_game")
	purego.RegisterLibFunc(&hd.fn.unloadGame, hd.libHandle, "retro_unload_game")
	purego.RegisterLibFunc(&hd.fn.getRegion, hd.libHandle, "retro_get_region")
	purego.RegisterLibFunc(&hd.fn.getMemoryData, hd.libHandle, "retro_get_memory_data")
	purego.RegisterLibFunc(&hd.fn.getMemorySize, hd.libHandle, "retro_get_memory_size")
	purego.RegisterLibFunc(&hd.fn.setEnvironment, hd.libHandle, "retro_set_environment")
	purego.RegisterLibFunc(&hd.fn.setVideoRefresh, hd.libHandle, "retro_set_video_refresh")
	purego.RegisterLibFunc(&hd.fn.setAudioSample, hd.libHandle, "retro_set_audio_sample")
	purego.RegisterLibFunc(&hd.fn.setAudioSampleBatch, hd.libHandle, "retro_set_audio_sample_batch")
	purego.RegisterLibFunc(&hd.fn.setInputPoll, hd.libHandle, "retro_set_input_poll")
	purego.RegisterLibFunc(&hd.fn.setInputState, hd.libHandle, "retro_set_input_state")

	for _, name := range optionalSymbols {
		if _, err := purego.Dlsym(hd.libHandle, name); err == nil {
			hd.hasLoadSpecial = true
			purego.RegisterLibFunc(&hd.fn.loadGameSpecial, hd.libHandle, name)
		}
	}

	return nil
}

// BindCallbacks wires the environment/video/audio/input trampolines into
// the core via its six setter symbols. Must run before Init.
func (hd *Handle) BindCallbacks(cb *callbackSet) {
	hd.callbacks = cb
	hd.fn.setEnvironment(purego.NewCallback(cb.environment))
	hd.fn.setVideoRefresh(purego.NewCallback(cb.videoRefresh))
	hd.fn.setAudioSample(purego.NewCallback(cb.audioSample))
	hd.fn.setAudioSampleBatch(purego.NewCallback(cb.audioSampleBatch))
	hd.fn.setInputPoll(purego.NewCallback(cb.inputPoll))
	hd.fn.setInputState(purego.NewCallback(cb.inputState))
}

// Init calls retro_init and caches retro_get_system_info, which is valid
// before any game is loaded.
func (hd *Handle) Init() error {
	if v := hd.fn.apiVersion(); v != APIVersion {
		return fmt.Errorf("core: unsupported API version %d", v)
	}
	hd.fn.init()

	var raw cSystemInfo
	hd.fn.getSystemInfo(unsafe.Pointer(&raw))
	hd.system = SystemInfo{
		LibraryName:     goString(raw.libraryName),
		LibraryVersion:  goString(raw.libraryVersion),
		ValidExtensions: goString(raw.validExtensions),
		NeedFullPath:    raw.needFullpath,
		BlockExtract:    raw.blockExtract,
	}
	return nil
}

// Deinit calls retro_deinit and releases the dynamic library.
func (hd *Handle) Deinit() error {
	hd.fn.deinit()
	return purego.Dlclose(hd.libHandle)
}

// SystemInfo returns the metadata cached by Init.
func (hd *Handle) SystemInfo() SystemInfo { return hd.system }

// LoadGame loads content. Callers should perform the FIRST LoadGame for an
// untrusted core through a LoadGuard subprocess; subsequent loads on an
// already-vetted core may call this directly.
func (hd *Handle) LoadGame(game *GameInfo) error {
	if hd.gameLoaded {
		return ErrAlreadyLoaded
	}

	var raw cGameInfo
	var pathBytes, metaBytes []byte
	if game != nil {
		if game.Path != "" {
			pathBytes = append([]byte(game.Path), 0)
			raw.path = &pathBytes[0]
		}
		if len(game.Data) > 0 {
			raw.data = unsafe.Pointer(&game.Data[0])
			raw.size = uintptr(len(game.Data))
		}
		if game.Meta != "" {
			metaBytes = append([]byte(game.Meta), 0)
			raw.meta = &metaBytes[0]
		}
	}

	ok := hd.fn.loadGame(unsafe.Pointer(&raw))
	if !ok {
		return fmt.Errorf("core: retro_load_game rejected content")
	}
	hd.gameLoaded = true

	var avRaw cSystemAVInfo
	hd.fn.getSystemAVInfo(unsafe.Pointer(&avRaw))
	hd.av = SystemAVInfo{
		Geometry: GameGeometry{
			BaseWidth:   avRaw.geometry.baseWidth,
			BaseHeight:  avRaw.geometry.baseHeight,
			MaxWidth:    avRaw.geometry.maxWidth,
			MaxHeight:   avRaw.geometry.maxHeight,
			AspectRatio: avRaw.geometry.aspectRatio,
		},
		Timing: SystemTiming{
			FPS:        avRaw.timing.fps,
			SampleRate: avRaw.timing.sampleRate,
		},
	}
	return nil
}

// UnloadGame calls retro_unload_game.
func (hd *Handle) UnloadGame() {
	if !hd.gameLoaded {
		return
	}
	hd.fn.unloadGame()
	hd.gameLoaded = false
}

// GameLoaded reports whether LoadGame succeeded and UnloadGame has not run.
func (hd *Handle) GameLoaded() bool { return hd.gameLoaded }

// AVInfo returns the geometry/timing captured at LoadGame. Only valid
// while GameLoaded is true.
func (hd *Handle) AVInfo() SystemAVInfo { return hd.av }

// Reset calls retro_reset.
func (hd *Handle) Reset() { hd.fn.reset() }

// Run executes exactly one emulated frame.
func (hd *Handle) Run() { hd.fn.run() }

// SetControllerPortDevice configures the input device attached to a port.
func (hd *Handle) SetControllerPortDevice(port, device uint32) {
	hd.fn.setControllerDevice(port, device)
}

// Region returns the core's declared video region.
func (hd *Handle) Region() RegionKind { return RegionKind(hd.fn.getRegion()) }

// SerializeSize returns the current save-state buffer size, or 0 if the
// core does not support serialization.
func (hd *Handle) SerializeSize() uintptr { return hd.fn.serializeSize() }

// Serialize writes the core's state into buf, which must be at least
// SerializeSize() bytes.
func (hd *Handle) Serialize(buf []byte) bool {
	if len(buf) == 0 {
		return hd.fn.serialize(nil, 0)
	}
	return hd.fn.serialize(unsafe.Pointer(&buf[0]), uintptr(len(buf)))
}

// Unserialize restores the core's state from buf.
func (hd *Handle) Unserialize(buf []byte) bool {
	if len(buf) == 0 {
		return hd.fn.unserialize(nil, 0)
	}
	return hd.fn.unserialize(unsafe.Pointer(&buf[0]), uintptr(len(buf)))
}

// CheatReset clears all active cheats.
func (hd *Handle) CheatReset() { hd.fn.cheatReset() }

// CheatSet installs (or removes) a single cheat code.
func (hd *Handle) CheatSet(index uint32, enabled bool, code string) {
	codeBytes := append([]byte(code), 0)
	hd.fn.cheatSet(index, enabled, &codeBytes[0])
}

// MemoryData returns a pointer to a memory region, or nil if unexposed.
func (hd *Handle) MemoryData(kind MemoryKind) unsafe.Pointer {
	return hd.fn.getMemoryData(uint32(kind))
}

// MemorySize returns the byte size of a memory region, or 0 if unexposed.
func (hd *Handle) MemorySize(kind MemoryKind) uintptr {
	return hd.fn.getMemorySize(uint32(kind))
}

// ReadMemory copies out a memory region as a fresh byte slice, or nil if
// the region is unexposed (size 0) or the core hands back a null pointer
// for it — callers that need to tell those two apart check MemorySize
// first, as persist.Coordinator does.
func (hd *Handle) ReadMemory(kind MemoryKind) []byte {
	size := hd.MemorySize(kind)
	if size == 0 {
		return nil
	}
	ptr := hd.MemoryData(kind)
	if ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), int(size))
}

// WriteMemory copies data into a core-owned memory region (e.g. restoring
// battery RAM on load). It refuses to write past the region's declared
// size and reports false if the core doesn't expose the region at all.
func (hd *Handle) WriteMemory(kind MemoryKind, data []byte) bool {
	size := hd.MemorySize(kind)
	if size == 0 || len(data) == 0 {
		return false
	}
	ptr := hd.MemoryData(kind)
	if ptr == nil {
		return false
	}
	n := len(data)
	if uintptr(n) > size {
		n = int(size)
	}
	dst := unsafe.Slice((*byte)(ptr), n)
	copy(dst, data[:n])
	return true
}

// HasLoadGameSpecial reports whether the optional multi-subsystem entry
// point is present.
func (hd *Handle) HasLoadGameSpecial() bool { return hd.hasLoadSpecial }

func goString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for {
		b := unsafe.Slice(p, n+1)[n]
		if b == 0 {
			break
		}
		n++
	}
	return string(unsafe.Slice(p, n))
}

// Package core hosts the libretro core plugin ABI: a polymorphic handle
// over a fixed capability set (lifecycle, execution, introspection, state
// transfer, memory access) resolved from a dynamically loaded shared
// library, plus the environment/video/audio/input callback trampolines the
// core calls back into.
//
// Dynamic loading uses github.com/ebitengine/purego so the frontend never
// needs cgo to dlopen the core and bind its C function pointers.
package core

// MemoryKind identifies a memory region exposed by the core, per spec.md
// §3: 0 = battery RAM, 1 = real-time clock.
type MemoryKind uint

const (
	MemorySaveRAM MemoryKind = 0
	MemoryRTC     MemoryKind = 1
)

// RegionKind mirrors libretro's RETRO_REGION_*.
type RegionKind uint32

const (
	RegionNTSC RegionKind = 0
	RegionPAL  RegionKind = 1
)

// SystemInfo is the core's declared, load-independent metadata (spec.md §3).
type SystemInfo struct {
	LibraryName     string
	LibraryVersion  string
	ValidExtensions string // pipe-delimited
	NeedFullPath    bool
	BlockExtract    bool
}

// GameGeometry is the core-declared base/max render geometry and aspect.
type GameGeometry struct {
	BaseWidth   uint32
	BaseHeight  uint32
	MaxWidth    uint32
	MaxHeight   uint32
	AspectRatio float32
}

// SystemTiming is the core-declared frame rate and audio sample rate.
type SystemTiming struct {
	FPS        float64
	SampleRate float64
}

// SystemAVInfo bundles geometry and timing, valid only after LoadGame.
type SystemAVInfo struct {
	Geometry GameGeometry
	Timing   SystemTiming
}

// GameInfo describes the content being loaded.
type GameInfo struct {
	Path string
	Data []byte
	Meta string
}

// requiredSymbols are the libretro C ABI entry points this host cannot run
// without. Missing any of these is a load error.
var requiredSymbols = []string{
	"retro_init",
	"retro_deinit",
	"retro_api_version",
	"retro_get_system_info",
	"retro_get_system_av_info",
	"retro_set_controller_port_device",
	"retro_reset",
	"retro_run",
	"retro_serialize_size",
	"retro_serialize",
	"retro_unserialize",
	"retro_cheat_reset",
	"retro_cheat_set",
	"retro_load_game",
	"retro_unload_game",
	"retro_get_region",
	"retro_get_memory_data",
	"retro_get_memory_size",
	"retro_set_environment",
	"retro_set_video_refresh",
	"retro_set_audio_sample",
	"retro_set_audio_sample_batch",
	"retro_set_input_poll",
	"retro_set_input_state",
}

// optionalSymbols may be absent; their absence simply disables the
// corresponding feature (spec.md §9 "Dynamic dispatch over plugins").
var optionalSymbols = []string{
	"retro_load_game_special",
}

const APIVersion = 1

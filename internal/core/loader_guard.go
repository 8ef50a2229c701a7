package core

import (
	"fmt"
	"os"
	"os/exec"
	"unsafe"
)

// ProbeEnvVar is set to "1" in the probe child's environment by Probe.
// cmd/retroframe routes the child to RunProbeChild by its --probe-load
// argument, not by this variable.
const ProbeEnvVar = "MINARCH_PROBE_LOAD"

// LoadGuard isolates the first retro_load_game call for a core the host
// has never run before. Where the original design note calls for a
// SIGSEGV jump buffer around the C call, this host instead re-execs
// itself as a throwaway subprocess: a core that crashes or aborts takes
// the probe process down with it, and the parent never touches the shared
// library handle. There is no timeout: a core that hangs blocks Probe.
//
// Cores the host has already probed successfully in this run are loaded
// in-process via Load/Handle.LoadGame directly, since re-probing every
// load (e.g. disc swaps within one session) would defeat fast-forward
// and multi-disc responsiveness for no added safety.
type LoadGuard struct {
	selfPath string
}

// NewLoadGuard builds a guard that re-execs the named binary (typically
// os.Args[0]) to run the probe.
func NewLoadGuard(selfPath string) *LoadGuard {
	return &LoadGuard{selfPath: selfPath}
}

// Probe runs "<selfPath> --probe-load <corePath> <gamePath>" in a child
// process and waits for it to exit. A clean exit means the core
// initialized and loaded the named content without crashing; any other
// outcome (nonzero exit or signal death) is reported
// as ErrLoadCrashed and the core should not be trusted in-process.
func (g *LoadGuard) Probe(corePath, gamePath string) error {
	cmd := exec.Command(g.selfPath, "--probe-load", corePath, gamePath)
	cmd.Env = append(os.Environ(), ProbeEnvVar+"=1")
	cmd.Stdout = nil
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		return fmt.Errorf("%w: %s (core=%s)", ErrLoadCrashed, exitErr.String(), corePath)
	}
	return fmt.Errorf("%w: %v (core=%s)", ErrLoadCrashed, err, corePath)
}

// RunProbeChild is the body cmd/retroframe runs when invoked with --probe-load:
// load the core, attempt to load the named content, and translate the
// outcome into a process exit code. It never returns.
func RunProbeChild(corePath, gamePath string) {
	hd, err := Load(corePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "probe: load core:", err)
		os.Exit(1)
	}

	cb := NewCallbacks(noopEnvironment{}, noopVideoSink{}, noopAudioSink{}, noopInputSource{})
	hd.BindCallbacks(cb)

	if err := hd.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "probe: init:", err)
		os.Exit(1)
	}

	if err := hd.LoadGame(&GameInfo{Path: gamePath}); err != nil {
		fmt.Fprintln(os.Stderr, "probe: load_game:", err)
		os.Exit(1)
	}

	hd.UnloadGame()
	_ = hd.Deinit()
	os.Exit(0)
}

// noopEnvironment and friends satisfy Environment/VideoSink/AudioSink/
// InputSource for the probe child, which only needs load_game to run
// once and exit — it never renders a frame or reads input.
type noopEnvironment struct{}

func (noopEnvironment) HandleEnvironment(EnvCommand, unsafe.Pointer) bool { return false }

type noopVideoSink struct{}

func (noopVideoSink) VideoRefresh(unsafe.Pointer, uint32, uint32, uintptr) {}

type noopAudioSink struct{}

func (noopAudioSink) AudioSample(int16, int16) {}
func (noopAudioSink) AudioSampleBatch(unsafe.Pointer, uintptr) uintptr { return 0 }

type noopInputSource struct{}

func (noopInputSource) InputPoll() {}
func (noopInputSource) InputState(uint32, uint32, uint32, uint32) int16 { return 0 }

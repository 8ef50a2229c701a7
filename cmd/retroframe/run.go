package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/retrohandheld/minarch/internal/audio"
	"github.com/retrohandheld/minarch/internal/core"
	"github.com/retrohandheld/minarch/internal/diag"
	"github.com/retrohandheld/minarch/internal/governor"
	"github.com/retrohandheld/minarch/internal/host"
	"github.com/retrohandheld/minarch/internal/menu"
	"github.com/retrohandheld/minarch/internal/pacer"
	"github.com/retrohandheld/minarch/internal/persist"
	"github.com/retrohandheld/minarch/internal/platform"
	"github.com/retrohandheld/minarch/internal/video"
)

// defaultDisplayHz seeds the pacer and the headless backend before a real
// backend has reported a measured refresh rate.
const defaultDisplayHz = 60.0

// Fixed panel geometry for the handheld target. A device with a different
// panel would need this built in at a different value; there is no
// runtime source for it (nothing in the libretro ABI reports the host
// display's physical resolution).
const (
	defaultDisplayWidth  = 640
	defaultDisplayHeight = 480
)

const audioRingCapacitySamples = 8192

// runtimeDirPath resolves where IPC breadcrumbs, the instance socket, and
// save data live, preferring XDG_RUNTIME_DIR (the Linux convention for
// ephemeral per-user state) and falling back to a fixed temp subdirectory
// so the frontend still runs on a box without a session manager.
func runtimeDirPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "retroframe")
	}
	return filepath.Join(os.TempDir(), "retroframe")
}

// runFrontend wires every package into a single host.Context and runs the
// frontend to completion, returning the process exit code (spec.md §6:
// 0 on clean exit, non-zero on initialization failure).
func runFrontend(corePath, gamePath string) int {
	logger, closer, err := diag.SetupLogger(os.Getenv("LOG_FILE"), os.Getenv("LOG_SYNC") == "1")
	if err != nil {
		fmt.Fprintln(os.Stderr, "retroframe: log setup:", err)
		return 1
	}
	defer closer.Close()

	runtimeDir := runtimeDirPath()
	title := baseNameNoExt(gamePath)

	if err := host.SendOpen(runtimeDir, gamePath); err == nil {
		logger.Info("handed off to running instance", "path", gamePath)
		return 0
	}

	handle, err := core.Load(corePath)
	if err != nil {
		logger.Error("core load failed", "err", err)
		return 1
	}

	pc := pacer.New(logger)
	vid := video.NewPipeline(defaultDisplayWidth, defaultDisplayHeight)
	ring := audio.NewRing(audioRingCapacitySamples)
	coord := persist.New(filepath.Join(runtimeDir, "saves"), logger)

	ctx := host.New(logger, handle, pc, nil, vid, ring, coord)
	ctx.Title = title

	ctx.Backend = newVideoBackend(logger)
	ctx.AudioSink = newAudioSink(logger)
	freqSetter := platform.NewCPUFreqSetter("")
	ctx.FreqSetter = freqSetter

	ctx.Menu = menu.New()

	store := diag.NewStore()
	ctx.Status = store

	ctx.Rewind = newRewindRing()

	gpio := newGPIOPoller(logger)
	facadeInput := newPlatformFacade(gpio, logger)
	watcher, err := platform.NewSleepWakeWatcher(filepath.Join(runtimeDir, "power"), logger)
	composite := &host.CompositeFacade{Input: facadeInput}
	if err != nil {
		logger.Warn("sleep/wake watcher unavailable", "err", err)
	} else {
		// Assigned only on success: host.CompositeFacade.Power is an
		// interface field, and a nil *SleepWakeWatcher stored in it would
		// compare non-nil against the nil check in CompositeFacade.PollPower.
		composite.Power = watcher
		defer watcher.Close()
	}
	ctx.SetPlatform(composite)
	defer facadeInput.Close()

	cb := core.NewCallbacks(ctx, ctx, ctx, ctx)
	handle.BindCallbacks(cb)
	if err := handle.Init(); err != nil {
		logger.Error("core init failed", "err", err)
		return 1
	}
	defer handle.Deinit()

	guard := core.NewLoadGuard(os.Args[0])
	scratchRoot := filepath.Join(runtimeDir, "scratch")
	game, err := host.OpenGame(ctx, guard, corePath, gamePath, scratchRoot)
	if err != nil {
		if msg, fatal := host.FatalMessage(err); fatal {
			logger.Error(msg, "err", err)
		} else {
			logger.Error("game open failed", "err", err)
		}
		return 1
	}
	defer game.Close()
	// Quit order (spec.md §4.4 lifecycle step 4): write SRAM, write RTC,
	// then unload_game. Declared after game.Close so it runs first (defers
	// unwind LIFO) — the save-memory dump still needs the core loaded.
	defer func() {
		writeGameMemory(coord, ctx, title, logger)
		handle.UnloadGame()
	}()

	// Load order (spec.md §4.4 lifecycle step 1): read SRAM, then RTC,
	// then query AV info.
	readGameMemory(coord, ctx, title, logger)

	av := handle.AVInfo()

	displayHz := defaultDisplayHz
	if hz := ctx.Backend.RefreshRateHz(); hz > 0 {
		displayHz = hz
	}
	pc.Init(av.Timing.FPS, displayHz)

	govCfg := loadGovernorConfig(corePath, logger)
	ctx.Governor = governor.New(govCfg, freqSetter.AvailableFrequenciesKHz(), av.Timing.FPS, logger)

	if err := ctx.Backend.Start(int(av.Geometry.BaseWidth), int(av.Geometry.BaseHeight), false); err != nil {
		logger.Error("video backend start failed", "err", err)
		return 1
	}
	defer ctx.Backend.Stop()

	sampleRate := int(av.Timing.SampleRate)
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	if err := ctx.AudioSink.Start(sampleRate, ring); err != nil {
		logger.Error("audio sink start failed", "err", err)
		return 1
	}
	defer ctx.AudioSink.Close()
	defer ctx.AudioSink.Stop()

	restoreResumeState(ctx, coord, runtimeDir, title)

	instServer, err := host.NewInstanceServer(runtimeDir, instanceOpenHandler(game, title))
	if err != nil {
		if errors.Is(err, host.ErrInstanceRunning) {
			logger.Error("another instance is already running")
			return 1
		}
		logger.Warn("single-instance socket unavailable", "err", err)
	} else {
		instServer.Start()
		defer instServer.Stop()
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cpuSampler := diag.NewCPUSampler("/proc/stat", time.Second, store, logger)

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error { return cpuSampler.Run(gctx) })
	g.Go(func() error { return host.NewLoop(ctx).Run(gctx) })

	runErr := g.Wait()

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("frontend exited with error", "err", runErr)
		return 1
	}
	return 0
}

// readGameMemory loads battery RAM then RTC from disk into the core
// (spec.md §4.4 lifecycle step 1, run once load_game has succeeded).
// NoSupport and FileNotFound are the ordinary "first run" outcomes and
// aren't logged; anything else means a real read failure.
func readGameMemory(coord *persist.Coordinator, ctx *host.Context, title string, logger *log.Logger) {
	provider := ctx.MemoryProvider()
	if res := coord.ReadMemory(provider, persist.MemorySaveRAM, title); res != persist.Ok && res != persist.NoSupport && res != persist.FileNotFound {
		logger.Warn("save RAM load failed", "result", res)
	}
	if res := coord.ReadMemory(provider, persist.MemoryRTC, title); res != persist.Ok && res != persist.NoSupport && res != persist.FileNotFound {
		logger.Warn("RTC load failed", "result", res)
	}
}

// writeGameMemory dumps battery RAM then RTC to disk (spec.md §4.4
// lifecycle step 4, run just before unload_game).
func writeGameMemory(coord *persist.Coordinator, ctx *host.Context, title string, logger *log.Logger) {
	provider := ctx.MemoryProvider()
	if res := coord.WriteMemory(provider, persist.MemorySaveRAM, title); res != persist.Ok && res != persist.NoSupport {
		logger.Warn("save RAM write failed", "result", res)
	}
	if res := coord.WriteMemory(provider, persist.MemoryRTC, title); res != persist.Ok && res != persist.NoSupport {
		logger.Warn("RTC write failed", "result", res)
	}
}

// restoreResumeState applies the resume-slot breadcrumb (if any) written
// on the previous sleep/relaunch, loading the title and slot it names,
// and falls back to title's own auto-resume slot when there is no
// breadcrumb.
func restoreResumeState(ctx *host.Context, coord *persist.Coordinator, runtimeDir, title string) {
	breadcrumbs := host.NewIPCBreadcrumbs(runtimeDir)
	resumeTitle, slot, ok, err := breadcrumbs.ReadResume()
	if err != nil {
		return
	}
	if !ok {
		resumeTitle, slot = title, persist.AutoResumeSlot
	}
	if slot != persist.AutoResumeSlot {
		coord.ReadState(ctx.StateProvider(), resumeTitle, slot)
		return
	}
	if !coord.HasAutoResume(resumeTitle) {
		return
	}
	coord.ReadAutoResume(ctx.StateProvider(), resumeTitle)
}

// instanceOpenHandler answers a second CLI invocation's "open this file"
// request. The same title already running is treated as a harmless no-op
// (the launcher re-invoked retroframe for content already open); a
// different title is rejected, since spec.md's Non-goals exclude a
// multi-title management UI and this process already owns the display.
func instanceOpenHandler(game *host.Game, title string) func(string) error {
	return func(path string) error {
		if baseNameNoExt(path) == title || path == game.OriginalPath {
			return nil
		}
		return fmt.Errorf("retroframe: %q is already running, cannot open %q", title, path)
	}
}

// newRewindRing builds an opt-in rewind buffer from REWIND_ENABLED,
// REWIND_CAPACITY, and REWIND_INTERVAL env vars (SPEC_FULL.md §13: memory
// cost on constrained hardware makes this opt-in, not default-on).
func newRewindRing() *persist.RewindRing {
	if os.Getenv("REWIND_ENABLED") != "1" {
		return nil
	}
	capacity := envInt("REWIND_CAPACITY", 60)
	interval := envInt("REWIND_INTERVAL", 4)
	return persist.NewRewindRing(capacity, interval)
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func baseNameNoExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

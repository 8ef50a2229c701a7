package host

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/retrohandheld/minarch/internal/governor"
	"github.com/retrohandheld/minarch/internal/persist"
	"github.com/retrohandheld/minarch/internal/platform"
	"github.com/retrohandheld/minarch/internal/video"
)

// Loop drives spec.md §2's per-frame data flow: poll input/power, let the
// pacer decide whether to step the core, run the core when stepping,
// present whatever frame its callbacks buffered, record vsync, and feed
// the governor. The governor's own worker goroutine (spec.md §5's second
// thread) runs alongside it, its lifecycle bound to Run's context via
// errgroup.
type Loop struct {
	ctx *Context
}

// NewLoop wraps ctx, which must already have Backend and Platform wired
// in via Context fields and SetPlatform.
func NewLoop(ctx *Context) *Loop {
	return &Loop{ctx: ctx}
}

// Run blocks, driving frames, until parent is cancelled.
func (l *Loop) Run(parent context.Context) error {
	ctx := l.ctx
	g, gctx := errgroup.WithContext(parent)

	if ctx.Governor != nil && ctx.FreqSetter != nil {
		worker := governor.NewWorker(ctx.Governor, ctx.FreqSetter, ctx.Logger)
		g.Go(func() error { return worker.Run(gctx) })
	}

	g.Go(func() error { return l.frameLoop(parent) })

	return g.Wait()
}

func (l *Loop) frameLoop(parent context.Context) error {
	ctx := l.ctx
	for {
		select {
		case <-parent.Done():
			return nil
		default:
		}

		ctx.ResetFrame()
		l.pollPower()

		showMenu := ctx.Menu != nil && ctx.Menu.Visible()

		if !showMenu && ctx.Pacer.Step() {
			start := now()
			ctx.CoreHandle.Run()
			frameUS := time.Since(start).Microseconds()
			if ctx.Governor != nil {
				ctx.Governor.RecordFrameTime(frameUS)
			}
			if ctx.Rewind != nil {
				ctx.Rewind.MaybeCapture(ctx.StateProvider())
			}
		}

		l.present()

		if ctx.Backend != nil {
			ctx.Pacer.RecordVsync(ctx.Backend.WaitForVSync())
		}

		if ctx.Governor != nil {
			var underruns uint64
			if ctx.AudioRing != nil {
				underruns = ctx.AudioRing.Underruns()
			}
			decision := ctx.Governor.Update(ctx.fastForward, showMenu, underruns)
			if decision == governor.DecisionPanic {
				ctx.Logger.Warn("governor panic: underrun detected, raising target frequency")
			}
		}

		l.reportStatus()
	}
}

// reportStatus feeds this frame's pacing/governor reading into the
// status store the debug overlay reads from (spec.md §4.3).
func (l *Loop) reportStatus() {
	ctx := l.ctx
	if ctx.Status == nil {
		return
	}

	var fpsPercent float64
	if ctx.Pacer != nil {
		target := float64(ctx.Pacer.GameFPSQ16()) / 65536
		if measured := ctx.Pacer.GetMeasuredHz(); target > 0 && measured > 0 {
			fpsPercent = measured / target * 100
		}
	}
	ctx.Status.SetFrame(fpsPercent)

	if ctx.Governor == nil {
		return
	}
	util := ctx.Governor.UtilizationPercent()
	if ctx.Governor.IsGranular() {
		khz := ctx.Governor.FrequencyKHz(ctx.Governor.CurrentIndex())
		ctx.Status.SetGovernor(fmt.Sprintf("%dMHz", khz/1000), util)
	} else {
		ctx.Status.SetGovernor(fmt.Sprintf("Level %d", ctx.Governor.CurrentLevel()), util)
	}
}

func (l *Loop) pollPower() {
	ctx := l.ctx
	if ctx.Platform == nil {
		return
	}
	switch ctx.Platform.PollPower() {
	case platform.PowerSleepRequested:
		l.handleSleep()
	case platform.PowerWoke:
		l.handleWake()
	}
}

// present flips the frame the video callback buffered during the last
// core.Run call, if any (spec.md §9 reentrancy-avoidance buffering).
func (l *Loop) present() {
	ctx := l.ctx
	if !ctx.havePending || ctx.Backend == nil || ctx.pendingVideo.Frame == nil {
		return
	}
	if err := ctx.Backend.Present(ctx.pendingVideo.Frame, ctx.pendingVideo.Viewport, l.overlay()); err != nil {
		ctx.Logger.Warn("present failed", "err", err)
	}
	ctx.havePending = false
}

func (l *Loop) overlay() video.OverlayInfo {
	ctx := l.ctx
	info := video.OverlayInfo{
		SrcWidth:  int(ctx.geometryWidth),
		SrcHeight: int(ctx.geometryHeight),
	}
	if ctx.AudioRing != nil {
		info.BufferFill = ctx.AudioRing.FillPercent()
	}
	if ctx.Status != nil {
		info.FPSPercent = ctx.Status.FPSPercent()
		info.CPUPercent = ctx.Status.CPUPercent()
		info.FreqKHzOrLvl = ctx.Status.FreqKHzOrLvl()
		info.UtilPercent = ctx.Status.UtilPercent()
	}
	return info
}

// handleSleep writes the current state to the reserved auto-resume slot
// (spec.md §4.4 lifecycle step 3, preserving the user's selected slot
// number since this never touches it) and drops to a quiescent frame
// pace: the loop keeps running so IPC and input still respond, but the
// pacer is reset so waking doesn't replay a stale accumulator.
func (l *Loop) handleSleep() {
	ctx := l.ctx
	if ctx.Persist != nil {
		if res := ctx.Persist.WriteAutoResume(ctx.StateProvider(), ctx.Title); res != persist.Ok && res != persist.NoSupport {
			ctx.Logger.Warn("auto-resume write on sleep failed", "result", res)
		}
	}
	ctx.Pacer.Reset()
}

// handleWake discards stale input state and resets the pacer so the
// first post-wake frame doesn't see transitions queued while asleep.
func (l *Loop) handleWake() {
	ctx := l.ctx
	ctx.Pacer.Reset()
	ctx.buttonMu.Lock()
	for k := range ctx.buttons {
		delete(ctx.buttons, k)
	}
	ctx.buttonMu.Unlock()
}

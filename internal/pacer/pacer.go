// Package pacer implements the fixed-point Bresenham frame pacer that
// decouples a core's declared frame rate from the display's measured
// refresh rate without audio pitch-shifting or judder.
package pacer

import (
	"time"

	"github.com/charmbracelet/log"
)

const (
	q16Shift = 16
	q16One   = 1 << q16Shift

	// defaultDisplayHz substitutes for a reported display refresh of zero
	// or less (spec.md §4.1 init()).
	defaultDisplayHz = 60.0

	directModeThreshold = 0.01 // 1%

	vsyncMinHz = 50.0
	vsyncMaxHz = 120.0

	vsyncEMAAlpha          = 0.01
	vsyncWarmupSamples     = 120
	vsyncRecheckInterval   = 300
	vsyncDivergenceEpsilon = 0.001 // 0.1%
)

func toQ16(v float64) int64 {
	return int64(v * q16One)
}

func fromQ16(v int64) float64 {
	return float64(v) / q16One
}

// Pacer decides, per display vsync, whether the main loop should step the
// emulation forward or repeat the previously produced frame.
type Pacer struct {
	gameFPSQ16   int64
	displayHzQ16 int64
	accumulator  int64

	directMode bool

	origGameFPS float64

	lastVsync      time.Time
	haveLastVsync  bool
	measuredHz     float64
	sampleCount    int
	sinceRecheck   int
	stable         bool

	logger *log.Logger
}

// New creates an unseeded Pacer; call Init before the first Step.
func New(logger *log.Logger) *Pacer {
	if logger == nil {
		logger = log.Default()
	}
	p := &Pacer{logger: logger}
	return p
}

// Init precomputes the Q16.16 representations, seeds the accumulator so the
// very first Step() always returns true, and decides whether direct mode
// applies. display_hz <= 0 substitutes 60.0 per spec.md §4.1.
func (p *Pacer) Init(gameFPS, displayHz float64) {
	if displayHz <= 0 {
		displayHz = defaultDisplayHz
	}
	p.origGameFPS = gameFPS
	p.gameFPSQ16 = toQ16(gameFPS)
	p.displayHzQ16 = toQ16(displayHz)
	p.accumulator = p.displayHzQ16

	p.directMode = isDirectMode(gameFPS, displayHz)

	p.lastVsync = time.Time{}
	p.haveLastVsync = false
	p.measuredHz = 0
	p.sampleCount = 0
	p.sinceRecheck = 0
	p.stable = false
}

func isDirectMode(gameFPS, displayHz float64) bool {
	if displayHz == 0 {
		return false
	}
	diff := gameFPS - displayHz
	if diff < 0 {
		diff = -diff
	}
	return diff/displayHz < directModeThreshold
}

// Reset re-seeds the accumulator to display_hz_q16. Invoked on game load,
// state load, and any timing discontinuity.
func (p *Pacer) Reset() {
	p.accumulator = p.displayHzQ16
}

// Step applies the Bresenham decision rule and returns true when the main
// loop should advance the emulation (step) rather than repeat the last
// presented frame.
func (p *Pacer) Step() bool {
	if p.directMode {
		return true
	}
	if p.accumulator >= p.displayHzQ16 {
		p.accumulator -= p.displayHzQ16
		p.accumulator += p.gameFPSQ16
		return true
	}
	p.accumulator += p.gameFPSQ16
	return false
}

// RecordVsync captures a vsync timestamp and folds the resulting interval
// into the running measurement of the real display refresh rate. Outlier
// intervals outside [50Hz, 120Hz] are silently discarded.
func (p *Pacer) RecordVsync(now time.Time) {
	if !p.haveLastVsync {
		p.lastVsync = now
		p.haveLastVsync = true
		return
	}

	interval := now.Sub(p.lastVsync)
	p.lastVsync = now
	if interval <= 0 {
		return
	}

	hz := float64(time.Second) / float64(interval)
	if hz < vsyncMinHz || hz > vsyncMaxHz {
		return
	}

	if p.sampleCount == 0 {
		p.measuredHz = hz
	} else {
		p.measuredHz = p.measuredHz + vsyncEMAAlpha*(hz-p.measuredHz)
	}
	p.sampleCount++
	p.sinceRecheck++

	if !p.stable && p.sampleCount >= vsyncWarmupSamples {
		p.stable = true
		p.sinceRecheck = 0
		p.maybeRetune()
		return
	}

	if p.stable && p.sinceRecheck >= vsyncRecheckInterval {
		p.sinceRecheck = 0
		p.maybeRetune()
	}
}

// maybeRetune compares the measured display hz against the stored value and,
// if they diverge by more than 0.1%, replaces the stored display hz, resets
// the accumulator, and re-evaluates direct mode.
func (p *Pacer) maybeRetune() {
	stored := fromQ16(p.displayHzQ16)
	if stored == 0 {
		return
	}
	diff := p.measuredHz - stored
	if diff < 0 {
		diff = -diff
	}
	if diff/stored <= vsyncDivergenceEpsilon {
		return
	}

	p.logger.Info("display refresh re-measured, re-tuning pacer",
		"stored_hz", stored, "measured_hz", p.measuredHz)

	p.displayHzQ16 = toQ16(p.measuredHz)
	p.Reset()
	p.directMode = isDirectMode(p.origGameFPS, p.measuredHz)
}

// IsDirectMode reports whether every vsync currently advances the emulation.
func (p *Pacer) IsDirectMode() bool { return p.directMode }

// GetMeasuredHz returns the EMA-smoothed measured refresh rate, or 0 until
// the measurement is stable.
func (p *Pacer) GetMeasuredHz() float64 {
	if !p.stable {
		return 0
	}
	return p.measuredHz
}

// IsMeasurementStable reports whether the sample count has reached the
// warmup threshold.
func (p *Pacer) IsMeasurementStable() bool { return p.stable }

// Accumulator exposes the raw Q16.16 accumulator, chiefly for tests
// asserting invariant (I2).
func (p *Pacer) Accumulator() int64 { return p.accumulator }

// GameFPSQ16 and DisplayHzQ16 expose the precomputed fixed-point rates.
func (p *Pacer) GameFPSQ16() int64   { return p.gameFPSQ16 }
func (p *Pacer) DisplayHzQ16() int64 { return p.displayHzQ16 }

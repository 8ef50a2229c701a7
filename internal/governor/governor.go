// Package governor implements the adaptive CPU frequency governor: a
// closed-loop controller that tracks the 90th-percentile per-frame core
// execution time and raises or lowers CPU frequency to keep it near a
// target fraction of the frame budget, with a distinct emergency "panic"
// path triggered by audio ring-buffer underruns.
package governor

import (
	"math"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

// Decision is the outcome of a single Update call.
type Decision int

const (
	DecisionNone Decision = iota
	DecisionSkip
	DecisionBoost
	DecisionReduce
	DecisionPanic
)

func (d Decision) String() string {
	switch d {
	case DecisionSkip:
		return "skip"
	case DecisionBoost:
		return "boost"
	case DecisionReduce:
		return "reduce"
	case DecisionPanic:
		return "panic"
	default:
		return "none"
	}
}

const ringSize = 64

const (
	levelPowersave = 0
	levelNormal    = 1
	levelPerformance = 2
)

// Governor is the main-thread-only scheduling loop described in spec.md
// §4.2. A separate worker (see Worker) applies the resulting target index
// by invoking the platform's frequency-set primitive.
type Governor struct {
	cfg Config

	frequenciesKHz []int // sorted ascending, filtered against cfg.MinFreqKHz
	granular       bool

	mu           sync.Mutex // protects currentIndex/targetIndex/currentLevel/targetLevel only
	currentIndex int
	targetIndex  int
	currentLevel int
	targetLevel  int

	presetPowersave   int
	presetNormal      int
	presetPerformance int

	frameTimes   [ringSize]int64
	frameTimeIdx int

	highWindows int
	lowWindows  int

	startupFrames int
	frameCount    int

	panicCooldown int
	lastUnderrun  uint64

	panicHistogram []int // per-frequency-index panic counter

	frameBudgetUs int64

	logger *log.Logger
}

// New creates a Governor. availableKHz need not be sorted or pre-filtered;
// New sorts and filters it against cfg.MinFreqKHz (invariant I3/"Frequency
// filter").
func New(cfg Config, availableKHz []int, gameFPS float64, logger *log.Logger) *Governor {
	if logger == nil {
		logger = log.Default()
	}

	g := &Governor{cfg: cfg, logger: logger}
	g.frequenciesKHz = detectFrequencies(availableKHz, cfg.MinFreqKHz)
	g.granular = len(g.frequenciesKHz) >= 2

	if len(g.frequenciesKHz) > 0 {
		g.panicHistogram = make([]int, len(g.frequenciesKHz))
		g.presetPowersave = nearestIndex(g.frequenciesKHz, percentOf(maxOf(g.frequenciesKHz), 55))
		g.presetNormal = nearestIndex(g.frequenciesKHz, percentOf(maxOf(g.frequenciesKHz), 80))
		g.presetPerformance = len(g.frequenciesKHz) - 1
	}

	if gameFPS <= 0 {
		gameFPS = 60
	}
	g.frameBudgetUs = int64(math.Round(1000000.0 / gameFPS))

	g.ApplyPerformancePreset()

	return g
}

func detectFrequencies(khz []int, minKHz int) []int {
	out := make([]int, 0, len(khz))
	for _, f := range khz {
		if f >= minKHz {
			out = append(out, f)
		}
	}
	sort.Ints(out)
	return out
}

func maxOf(s []int) int {
	m := s[0]
	for _, v := range s {
		if v > m {
			m = v
		}
	}
	return m
}

func percentOf(v, pct int) int {
	return v * pct / 100
}

// nearestIndex returns the index of the element in sorted array f nearest to
// target, ties resolved to the smaller index.
func nearestIndex(f []int, target int) int {
	best := 0
	bestDiff := absInt(f[0] - target)
	for i := 1; i < len(f); i++ {
		d := absInt(f[i] - target)
		if d < bestDiff {
			bestDiff = d
			best = i
		}
	}
	return best
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ApplyPerformancePreset applies the performance preset immediately and
// marks it current, per spec.md §4.2 "Initial frequency" — this avoids
// startup stutter at the cost of a brief overspend; the controller scales
// down over the first few windows after the startup grace period.
func (g *Governor) ApplyPerformancePreset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.granular {
		g.currentIndex = g.presetPerformance
		g.targetIndex = g.presetPerformance
	} else {
		g.currentLevel = levelPerformance
		g.targetLevel = levelPerformance
	}
}

// IsGranular reports whether at least two post-filter frequencies are
// available.
func (g *Governor) IsGranular() bool { return g.granular }

// CurrentIndex/TargetIndex/CurrentLevel/TargetLevel are read under the
// mutex by the worker thread (see Worker).
func (g *Governor) CurrentIndex() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentIndex
}

func (g *Governor) TargetIndex() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.targetIndex
}

func (g *Governor) CurrentLevel() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentLevel
}

func (g *Governor) TargetLevel() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.targetLevel
}

// CommitCurrentIndex is called by the worker after a successful frequency
// set, per spec.md §5 ordering guarantee (c).
func (g *Governor) CommitCurrentIndex(idx int) {
	g.mu.Lock()
	g.currentIndex = idx
	g.mu.Unlock()
}

func (g *Governor) CommitCurrentLevel(lvl int) {
	g.mu.Lock()
	g.currentLevel = lvl
	g.mu.Unlock()
}

// FrequencyKHz returns the frequency in kHz for a given index, for use by
// callers (worker, diagnostics) translating indices to real values.
func (g *Governor) FrequencyKHz(idx int) int {
	if idx < 0 || idx >= len(g.frequenciesKHz) {
		return 0
	}
	return g.frequenciesKHz[idx]
}

func (g *Governor) setTargetIndexLocked(idx int) {
	g.targetIndex = idx
}

func (g *Governor) recordFrameTime(us int64) {
	g.frameTimes[g.frameTimeIdx%ringSize] = us
	g.frameTimeIdx++
}

// sampleCount returns min(frameTimeIdx, ringSize), invariant I5.
func (g *Governor) sampleCount() int {
	if g.frameTimeIdx < ringSize {
		return g.frameTimeIdx
	}
	return ringSize
}

// percentile90 computes the 90th percentile over the currently valid ring
// samples by copying, sorting, and indexing floor(n*90/100) clamped to n-1.
func (g *Governor) percentile90() int64 {
	n := g.sampleCount()
	if n == 0 {
		return 0
	}
	buf := make([]int64, n)
	if g.frameTimeIdx < ringSize {
		copy(buf, g.frameTimes[:n])
	} else {
		// ring is full; order doesn't matter for a percentile over the full set
		copy(buf, g.frameTimes[:])
	}
	sort.Slice(buf, func(i, j int) bool { return buf[i] < buf[j] })
	idx := n * 90 / 100
	if idx >= n {
		idx = n - 1
	}
	return buf[idx]
}

// RecordFrameTime feeds a single frame's core-execution duration (t1-t0, in
// microseconds) into the ring buffer. Call this once per stepped frame,
// before Update.
func (g *Governor) RecordFrameTime(us int64) {
	g.recordFrameTime(us)
}

// UtilizationPercent returns the same p90-busy-fraction-of-frame-budget
// reading Update's boost/reduce thresholds key off, for the debug overlay
// (spec.md §4.3). Uncapped at 200 the way Update's internal util is, since
// the overlay should show an overrun rather than hide it.
func (g *Governor) UtilizationPercent() float64 {
	if g.frameBudgetUs <= 0 {
		return 0
	}
	return float64(g.percentile90()) * 100 / float64(g.frameBudgetUs)
}

// Update runs one governor decision per spec.md §4.2 "Decision algorithm".
// currentUnderruns is a monotonically increasing audio-underrun counter
// snapshot, per spec.md §5 ordering guarantee (b): callers must take one
// snapshot at the start of the frame and not re-read it mid-decision.
func (g *Governor) Update(fastForward, showMenu bool, currentUnderruns uint64) Decision {
	if fastForward || showMenu {
		return DecisionSkip
	}

	if g.startupFrames < g.cfg.StartupGrace {
		g.startupFrames++
		return DecisionSkip
	}

	if d, handled := g.checkPanic(currentUnderruns); handled {
		return d
	}

	g.frameCount++
	if g.frameCount < g.cfg.WindowFrames {
		return DecisionNone
	}

	p90 := g.percentile90()
	if g.sampleCount() < 5 {
		g.frameCount = 0
		return DecisionNone
	}

	util := p90 * 100 / g.frameBudgetUs
	if util > 200 {
		util = 200
	}

	decision := DecisionNone

	if int(util) > g.cfg.UtilHighPercent {
		g.highWindows++
		g.lowWindows = 0
		if g.highWindows >= g.cfg.BoostWindows && !g.atMax() {
			g.applyBoost(util)
			g.highWindows = 0
			decision = DecisionBoost
		}
	} else if int(util) < g.cfg.UtilLowPercent {
		g.lowWindows++
		g.highWindows = 0
		if g.lowWindows >= g.cfg.ReduceWindows && g.panicCooldownDone() && g.aboveMin() {
			if g.applyReduce(util) {
				decision = DecisionReduce
			}
		}
	} else {
		g.highWindows = 0
		g.lowWindows = 0
	}

	if g.panicCooldown > 0 {
		g.panicCooldown--
	}

	g.frameCount = 0
	return decision
}

func (g *Governor) panicCooldownDone() bool { return g.panicCooldown == 0 }

func (g *Governor) atMax() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.granular {
		return g.currentIndex >= len(g.frequenciesKHz)-1
	}
	return g.currentLevel >= levelPerformance
}

func (g *Governor) aboveMin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.granular {
		return g.currentIndex > 0
	}
	return g.currentLevel > levelPowersave
}

// checkPanic implements spec.md §4.2 step 3, the panic path. Returns
// (DecisionPanic, true) when a panic fires, and (DecisionNone, false) if no
// underrun occurred or if an underrun occurred while already at max (it is
// recorded in lastUnderrun and nothing else is done).
func (g *Governor) checkPanic(currentUnderruns uint64) (Decision, bool) {
	if currentUnderruns <= g.lastUnderrun {
		return DecisionNone, false
	}

	if g.atMax() {
		g.lastUnderrun = currentUnderruns
		return DecisionNone, false
	}

	g.mu.Lock()
	cur := g.currentIndex
	curLevel := g.currentLevel
	g.mu.Unlock()

	if g.granular {
		g.panicHistogram[cur]++
		if g.panicHistogram[cur] >= g.cfg.PanicBlockCount {
			for i := 0; i <= cur; i++ {
				if g.panicHistogram[i] < g.cfg.PanicBlockCount {
					g.panicHistogram[i] = g.cfg.PanicBlockCount
				}
			}
		}
		target := cur + g.cfg.PanicStepUp
		if target > len(g.frequenciesKHz)-1 {
			target = len(g.frequenciesKHz) - 1
		}
		g.mu.Lock()
		g.targetIndex = target
		g.mu.Unlock()
	} else {
		target := curLevel + 1
		if target > levelPerformance {
			target = levelPerformance
		}
		g.mu.Lock()
		g.targetLevel = target
		g.mu.Unlock()
	}

	g.highWindows = 0
	g.lowWindows = 0
	g.panicCooldown = 8
	g.lastUnderrun = currentUnderruns

	g.logger.Warn("audio underrun: governor panic", "from_underruns", g.lastUnderrun)

	return DecisionPanic, true
}

// applyBoost implements spec.md §4.2 step 6.
func (g *Governor) applyBoost(util int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.granular {
		if g.currentLevel < levelPerformance {
			g.targetLevel = g.currentLevel + 1
		}
		return
	}

	curFreq := g.frequenciesKHz[g.currentIndex]
	needed := curFreq * int(util) / g.cfg.TargetUtilPercent
	idx := nearestIndex(g.frequenciesKHz, needed)
	if idx < g.currentIndex+1 {
		idx = g.currentIndex + 1
	}
	if idx > len(g.frequenciesKHz)-1 {
		idx = len(g.frequenciesKHz) - 1
	}
	g.targetIndex = idx
}

// applyReduce implements spec.md §4.2 step 7, including panic-block
// avoidance (invariant I4). Returns false if no valid reduction target
// exists below the current index.
func (g *Governor) applyReduce(util int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.granular {
		if g.currentLevel > levelPowersave {
			g.targetLevel = g.currentLevel - 1
			return true
		}
		return false
	}

	curFreq := g.frequenciesKHz[g.currentIndex]
	needed := curFreq * int(util) / g.cfg.TargetUtilPercent
	idx := nearestIndex(g.frequenciesKHz, needed)
	if idx > g.currentIndex-1 {
		idx = g.currentIndex - 1
	}
	if idx < 0 {
		idx = 0
	}
	if g.currentIndex-idx > g.cfg.MaxStepDown {
		idx = g.currentIndex - g.cfg.MaxStepDown
	}

	for idx < g.currentIndex {
		if g.panicHistogram[idx] < g.cfg.PanicBlockCount {
			g.targetIndex = idx
			return true
		}
		idx++
	}
	return false
}

// FrequenciesKHz returns the sorted, filtered frequency table.
func (g *Governor) FrequenciesKHz() []int {
	out := make([]int, len(g.frequenciesKHz))
	copy(out, g.frequenciesKHz)
	return out
}

// PanicCooldown exposes the current panic cooldown counter, chiefly for
// tests.
func (g *Governor) PanicCooldown() int { return g.panicCooldown }

// SkipStartupGrace advances past the startup grace window immediately,
// for tests that want to exercise post-warmup decisions without looping
// StartupGrace times.
func (g *Governor) SkipStartupGrace() {
	g.startupFrames = g.cfg.StartupGrace
}

package governor

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// FrequencySetter is the platform primitive that actually changes the CPU
// frequency (or power level in fallback mode). It may be slow — spawning
// processes or writing sysfs nodes can take tens of milliseconds — which is
// exactly why it runs off the main loop's thread.
type FrequencySetter interface {
	SetFrequencyKHz(khz int) error
	SetLevel(level int) error
}

// Worker is the dedicated governor-worker goroutine described in spec.md
// §5: it wakes every 50ms, compares current vs target under the mutex, and
// only when they differ invokes the (expensive) platform primitive.
type Worker struct {
	gov    *Governor
	set    FrequencySetter
	logger *log.Logger
}

// NewWorker builds a Worker bound to gov and the platform setter.
func NewWorker(gov *Governor, set FrequencySetter, logger *log.Logger) *Worker {
	if logger == nil {
		logger = log.Default()
	}
	return &Worker{gov: gov, set: set, logger: logger}
}

// Run blocks, polling every 50ms, until ctx is cancelled. Intended to be
// launched via golang.org/x/sync/errgroup so its lifecycle is tied to the
// main loop's context (see internal/host).
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.tick()
		}
	}
}

func (w *Worker) tick() {
	if w.gov.IsGranular() {
		current := w.gov.CurrentIndex()
		target := w.gov.TargetIndex()
		if current == target {
			return
		}
		khz := w.gov.FrequencyKHz(target)
		if err := w.set.SetFrequencyKHz(khz); err != nil {
			// Frequency-set failure leaves currentIndex unchanged so the
			// next decision retries (spec.md §4.2 Failure semantics).
			w.logger.Warn("cpu frequency set failed, will retry", "khz", khz, "err", err)
			return
		}
		w.gov.CommitCurrentIndex(target)
		return
	}

	current := w.gov.CurrentLevel()
	target := w.gov.TargetLevel()
	if current == target {
		return
	}
	if err := w.set.SetLevel(target); err != nil {
		w.logger.Warn("cpu power level set failed, will retry", "level", target, "err", err)
		return
	}
	w.gov.CommitCurrentLevel(target)
}

package diag

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// CPUSampler periodically reads the aggregate CPU line of /proc/stat and
// pushes a busy-percentage figure into a Store, the way a top-like tool
// computes utilization: delta of (total - idle) over delta of total
// between two samples.
type CPUSampler struct {
	procStatPath string
	interval     time.Duration
	store        *Store
	logger       *log.Logger

	prevTotal uint64
	prevIdle  uint64
	seeded    bool
}

// NewCPUSampler builds a sampler; procStatPath is normally "/proc/stat"
// and is parameterized so tests can point it at a fixture file.
func NewCPUSampler(procStatPath string, interval time.Duration, store *Store, logger *log.Logger) *CPUSampler {
	if logger == nil {
		logger = log.Default()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &CPUSampler{procStatPath: procStatPath, interval: interval, store: store, logger: logger}
}

// Run samples on a ticker until ctx is cancelled. Meant to be launched
// as its own goroutine; a single bad read is logged and skipped rather
// than treated as fatal, since overlay staleness is harmless.
func (c *CPUSampler) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if pct, ok := c.sampleOnce(); ok {
				c.store.SetCPU(pct)
			}
		}
	}
}

func (c *CPUSampler) sampleOnce() (float64, bool) {
	total, idle, err := readProcStatCPU(c.procStatPath)
	if err != nil {
		c.logger.Warn("cpu sample failed", "err", err)
		return 0, false
	}

	if !c.seeded {
		c.seeded = true
		c.prevTotal, c.prevIdle = total, idle
		return 0, false
	}

	deltaTotal := total - c.prevTotal
	deltaIdle := idle - c.prevIdle
	c.prevTotal, c.prevIdle = total, idle

	if deltaTotal == 0 {
		return 0, false
	}
	busy := float64(deltaTotal-deltaIdle) / float64(deltaTotal) * 100
	return busy, true
}

// readProcStatCPU parses the first "cpu " line: user nice system idle
// iowait irq softirq steal (guest/guest_nice ignored for the totals).
func readProcStatCPU(path string) (total, idle uint64, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("diag: read %s: %w", path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 || fields[0] != "cpu" {
			continue
		}
		var vals []uint64
		for _, f := range fields[1:] {
			v, convErr := strconv.ParseUint(f, 10, 64)
			if convErr != nil {
				return 0, 0, fmt.Errorf("diag: parse %s: %w", path, convErr)
			}
			vals = append(vals, v)
		}
		n := len(vals)
		if n > 8 {
			n = 8
		}
		for _, v := range vals[:n] {
			total += v
		}
		if len(vals) > 3 {
			idle = vals[3]
		}
		return total, idle, nil
	}
	return 0, 0, fmt.Errorf("diag: no aggregate cpu line in %s", path)
}

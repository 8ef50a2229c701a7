package platform

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// SleepWakeWatcher watches a breadcrumb directory for a "sleep" file
// created by the system's suspend hook and removed on resume, translating
// the filesystem events into PowerEvent values for the host loop.
type SleepWakeWatcher struct {
	watcher    *fsnotify.Watcher
	breadcrumb string
	logger     *log.Logger
	pending    chan PowerEvent
}

// NewSleepWakeWatcher watches breadcrumbDir for the appearance/removal of
// a file named "sleep".
func NewSleepWakeWatcher(breadcrumbDir string, logger *log.Logger) (*SleepWakeWatcher, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(breadcrumbDir, 0o755); err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(breadcrumbDir); err != nil {
		w.Close()
		return nil, err
	}

	sw := &SleepWakeWatcher{
		watcher:    w,
		breadcrumb: filepath.Join(breadcrumbDir, "sleep"),
		logger:     logger,
		pending:    make(chan PowerEvent, 8),
	}
	go sw.run()
	return sw, nil
}

func (sw *SleepWakeWatcher) run() {
	for {
		select {
		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != sw.breadcrumb {
				continue
			}
			switch {
			case ev.Op&fsnotify.Create == fsnotify.Create:
				sw.emit(PowerSleepRequested)
			case ev.Op&fsnotify.Remove == fsnotify.Remove:
				sw.emit(PowerWoke)
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Warn("sleep/wake watcher error", "err", err)
		}
	}
}

func (sw *SleepWakeWatcher) emit(ev PowerEvent) {
	select {
	case sw.pending <- ev:
	default:
	}
}

// Poll returns the next pending power event, or PowerNone.
func (sw *SleepWakeWatcher) Poll() PowerEvent {
	select {
	case ev := <-sw.pending:
		return ev
	default:
		return PowerNone
	}
}

// Close stops watching.
func (sw *SleepWakeWatcher) Close() error {
	return sw.watcher.Close()
}

// Package diag provides the ambient logging setup and the status
// snapshot store the debug overlay (spec.md §4.3) reads from. Neither
// concern is named by spec.md directly — logging is carried regardless
// of scope per the ambient-stack rule, and the overlay's four corners
// need a live source of CPU/frequency data that isn't any single
// module's job to own.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogger builds the process-wide logger per spec.md §6's CLI
// surface: LOG_FILE selects a rotating file sink (lumberjack, capped at
// a handheld-friendly size so a long session doesn't fill the SD card);
// with no LOG_FILE, logs go to stderr. LOG_SYNC=1 disables lumberjack's
// buffering by flushing after every write, trading throughput for not
// losing the last lines on a crash.
//
// The returned closer must be called on shutdown; it is a no-op when
// logging to stderr.
func SetupLogger(logFile string, sync bool) (*log.Logger, io.Closer, error) {
	opts := log.Options{
		ReportTimestamp: true,
		ReportCaller:    false,
	}

	if logFile == "" {
		return log.NewWithOptions(os.Stderr, opts), noopCloser{}, nil
	}

	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    8, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}

	var w io.Writer = rotator
	if sync {
		w = &syncWriter{f: rotator}
	}

	logger := log.NewWithOptions(w, opts)
	return logger, rotator, nil
}

type noopCloser struct{}

func (noopCloser) Close() error { return nil }

// syncWriter forces a flush-equivalent after every write by closing and
// reopening lumberjack's underlying file handle; lumberjack has no
// exported Sync, so this is the closest idiomatic equivalent to
// LOG_SYNC's "don't lose the last lines" contract.
type syncWriter struct {
	f *lumberjack.Logger
}

func (s *syncWriter) Write(p []byte) (int, error) {
	n, err := s.f.Write(p)
	if err != nil {
		return n, fmt.Errorf("diag: sync log write: %w", err)
	}
	if err := s.f.Close(); err != nil {
		return n, fmt.Errorf("diag: sync log close: %w", err)
	}
	return n, nil
}

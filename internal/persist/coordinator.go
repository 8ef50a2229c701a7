package persist

import (
	"os"

	"github.com/charmbracelet/log"
)

// AutoResumeSlot is reserved for the sleep-triggered auto-resume state and
// is never exposed to the user's manual save-slot selection (spec.md §6
// sleep/wake lifecycle).
const AutoResumeSlot = 9

// MemoryProvider exposes a core's SRAM/RTC regions. MemorySize lets the
// coordinator distinguish an unexposed region (size 0, NoSupport) from an
// exposed region whose pointer the core hands back as null (NullPointer)
// per spec.md §4.4's read_memory contract — ReadMemory/WriteMemory
// returning nil/false only ever means the latter once size has already
// been checked.
type MemoryProvider interface {
	MemorySize(kind uint) uintptr
	ReadMemory(kind uint) []byte
	WriteMemory(kind uint, data []byte) bool
}

// StateProvider exposes a core's serialize/unserialize surface.
type StateProvider interface {
	SerializeSize() uintptr
	Serialize(buf []byte) bool
	Unserialize(buf []byte) bool
}

// Coordinator owns the file-path layout and sequencing for memory/state
// persistence. It holds no core reference itself: callers pass the
// provider per call, keeping this package free of an internal/core import
// cycle and easy to exercise with fakes in tests.
type Coordinator struct {
	saveDir string
	logger  *log.Logger
}

// New builds a Coordinator rooted at saveDir (created on the first write
// if absent).
func New(saveDir string, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{saveDir: saveDir, logger: logger}
}

func (c *Coordinator) ensureDir() Result {
	if err := os.MkdirAll(c.saveDir, 0o755); err != nil {
		return FileError
	}
	return Ok
}

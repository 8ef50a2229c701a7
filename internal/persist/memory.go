package persist

import (
	"os"
	"path/filepath"
)

// Memory region kinds, mirroring internal/core.MemoryKind without
// importing it.
const (
	MemorySaveRAM uint = 0
	MemoryRTC     uint = 1
)

func (c *Coordinator) memoryPath(kind uint, title string) string {
	suffix := ".sav"
	if kind == MemoryRTC {
		suffix = ".rtc"
	}
	return filepath.Join(c.saveDir, title+suffix)
}

// WriteMemory serializes a memory region to disk. NoSupport is returned
// when the core exposes a zero-size region (nothing to persist, not an
// error); NullPointer when the region has a declared size but the core
// hands back a null pointer for it.
func (c *Coordinator) WriteMemory(provider MemoryProvider, kind uint, title string) Result {
	if provider.MemorySize(kind) == 0 {
		return NoSupport
	}
	if res := c.ensureDir(); res != Ok {
		return res
	}
	data := provider.ReadMemory(kind)
	if data == nil {
		return NullPointer
	}
	if err := os.WriteFile(c.memoryPath(kind, title), data, 0o644); err != nil {
		c.logger.Warn("write memory failed", "kind", kind, "err", err)
		return FileError
	}
	return Ok
}

// ReadMemory loads a memory region from disk and pushes it into the core.
// FileNotFound means "start fresh" and is not logged as an error; a size
// mismatch between the on-disk blob and the core's expected region size
// is tolerated rather than rejected (a longer blob is truncated; a shorter
// one is copied over the start of the region and the rest of the region
// keeps its current bytes), since a
// core upgrade can legitimately resize SRAM between sessions.
func (c *Coordinator) ReadMemory(provider MemoryProvider, kind uint, title string) Result {
	if provider.MemorySize(kind) == 0 {
		return NoSupport
	}
	data, err := os.ReadFile(c.memoryPath(kind, title))
	if err != nil {
		if os.IsNotExist(err) {
			return FileNotFound
		}
		return FileError
	}
	if !provider.WriteMemory(kind, data) {
		return NullPointer
	}
	return Ok
}

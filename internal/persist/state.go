package persist

import (
	"fmt"
	"os"
	"path/filepath"
)

func (c *Coordinator) statePath(title string, slot int) string {
	return filepath.Join(c.saveDir, fmt.Sprintf("%s.st%d", title, slot))
}

// WriteState serializes the core's full state into the given slot.
// NoSupport is returned if the core reports a zero serialize size — there
// is nothing to save. AllocError is read_state's counterpart failure mode
// (the zeroed receive buffer can't be allocated); Go's make never returns
// an error on allocation failure, it panics, so that path has no
// reachable equivalent here and AllocError exists only for parity with
// the result vocabulary other persistence operations share.
func (c *Coordinator) WriteState(provider StateProvider, title string, slot int) Result {
	if res := c.ensureDir(); res != Ok {
		return res
	}
	size := provider.SerializeSize()
	if size == 0 {
		return NoSupport
	}
	buf := make([]byte, size)
	if !provider.Serialize(buf) {
		return SerializeError
	}
	if err := os.WriteFile(c.statePath(title, slot), buf, 0o644); err != nil {
		c.logger.Warn("write state failed", "slot", slot, "err", err)
		return FileError
	}
	return Ok
}

// ReadState loads a slot and pushes it into the core. A size mismatch
// between the file and the core's current SerializeSize is tolerated on
// read (the attempt is still made — some cores accept differently-sized
// buffers across minor version bumps) but a failed Unserialize call is
// reported as SerializeError rather than silently ignored.
func (c *Coordinator) ReadState(provider StateProvider, title string, slot int) Result {
	data, err := os.ReadFile(c.statePath(title, slot))
	if err != nil {
		if os.IsNotExist(err) {
			return FileNotFound
		}
		return FileError
	}
	if uintptrLen(data) != provider.SerializeSize() {
		c.logger.Debug("state size mismatch, attempting unserialize anyway", "slot", slot)
	}
	if !provider.Unserialize(data) {
		return SerializeError
	}
	return Ok
}

func uintptrLen(b []byte) uintptr { return uintptr(len(b)) }

// WriteAutoResume writes the reserved auto-resume slot, used on sleep.
func (c *Coordinator) WriteAutoResume(provider StateProvider, title string) Result {
	return c.WriteState(provider, title, AutoResumeSlot)
}

// ReadAutoResume loads and deletes the reserved auto-resume slot, used on
// wake/relaunch: a successful resume is one-shot, so a stale auto-resume
// file never silently reappears after the user explicitly loads a manual
// slot.
func (c *Coordinator) ReadAutoResume(provider StateProvider, title string) Result {
	res := c.ReadState(provider, title, AutoResumeSlot)
	if res == Ok {
		_ = os.Remove(c.statePath(title, AutoResumeSlot))
	}
	return res
}

// HasAutoResume reports whether an auto-resume state file exists without
// loading it, for UI that wants to offer "Continue" conditionally.
func (c *Coordinator) HasAutoResume(title string) bool {
	_, err := os.Stat(c.statePath(title, AutoResumeSlot))
	return err == nil
}

package persist

import (
	"path/filepath"
	"testing"
)

// fakeMemory models a core's declared region size separately from its
// current bytes, the way a real core reports a fixed MemorySize but can
// still hand back a null pointer (nullPtr) for a region it claims to
// support — the two failure modes memory.go must tell apart.
type fakeMemory struct {
	sizes   map[uint]uintptr
	regions map[uint][]byte
	nullPtr map[uint]bool
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{sizes: map[uint]uintptr{}, regions: map[uint][]byte{}, nullPtr: map[uint]bool{}}
}

func (f *fakeMemory) MemorySize(kind uint) uintptr { return f.sizes[kind] }

func (f *fakeMemory) ReadMemory(kind uint) []byte {
	if f.nullPtr[kind] {
		return nil
	}
	return f.regions[kind]
}

func (f *fakeMemory) WriteMemory(kind uint, data []byte) bool {
	if f.nullPtr[kind] {
		return false
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.regions[kind] = cp
	return true
}

type fakeState struct {
	data       []byte
	size       uintptr
	failSer    bool
	failUnser  bool
}

func (f *fakeState) SerializeSize() uintptr { return f.size }
func (f *fakeState) Serialize(buf []byte) bool {
	if f.failSer {
		return false
	}
	copy(buf, f.data)
	return true
}
func (f *fakeState) Unserialize(buf []byte) bool {
	if f.failUnser {
		return false
	}
	f.data = append([]byte(nil), buf...)
	return true
}

func TestWriteThenReadMemoryRoundTrips(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	mem := newFakeMemory()
	mem.sizes[MemorySaveRAM] = 3
	mem.regions[MemorySaveRAM] = []byte{1, 2, 3}

	if res := c.WriteMemory(mem, MemorySaveRAM, "game"); res != Ok {
		t.Fatalf("write got %v want Ok", res)
	}

	mem2 := newFakeMemory()
	mem2.sizes[MemorySaveRAM] = 3
	if res := c.ReadMemory(mem2, MemorySaveRAM, "game"); res != Ok {
		t.Fatalf("read got %v want Ok", res)
	}
	if len(mem2.regions[MemorySaveRAM]) != 3 {
		t.Fatalf("got %v want 3 bytes restored", mem2.regions[MemorySaveRAM])
	}
}

func TestReadMemoryMissingFileIsFileNotFound(t *testing.T) {
	c := New(t.TempDir(), nil)
	mem := newFakeMemory()
	mem.sizes[MemorySaveRAM] = 3
	if res := c.ReadMemory(mem, MemorySaveRAM, "nonexistent"); res != FileNotFound {
		t.Fatalf("got %v want FileNotFound", res)
	}
}

func TestWriteMemoryNoSupportWhenSizeZero(t *testing.T) {
	c := New(t.TempDir(), nil)
	mem := newFakeMemory() // no size declared for this kind
	if res := c.WriteMemory(mem, MemorySaveRAM, "game"); res != NoSupport {
		t.Fatalf("got %v want NoSupport", res)
	}
}

func TestWriteMemoryNullPointerWhenSizeNonZeroButPointerNull(t *testing.T) {
	c := New(t.TempDir(), nil)
	mem := newFakeMemory()
	mem.sizes[MemorySaveRAM] = 3
	mem.nullPtr[MemorySaveRAM] = true
	if res := c.WriteMemory(mem, MemorySaveRAM, "game"); res != NullPointer {
		t.Fatalf("got %v want NullPointer", res)
	}
}

func TestReadMemoryNullPointerWhenSizeNonZeroButPointerNull(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	writer := newFakeMemory()
	writer.sizes[MemorySaveRAM] = 3
	writer.regions[MemorySaveRAM] = []byte{1, 2, 3}
	if res := c.WriteMemory(writer, MemorySaveRAM, "game"); res != Ok {
		t.Fatalf("setup write got %v want Ok", res)
	}

	mem := newFakeMemory()
	mem.sizes[MemorySaveRAM] = 3
	mem.nullPtr[MemorySaveRAM] = true
	if res := c.ReadMemory(mem, MemorySaveRAM, "game"); res != NullPointer {
		t.Fatalf("got %v want NullPointer", res)
	}
}

func TestWriteThenReadStateRoundTrips(t *testing.T) {
	c := New(t.TempDir(), nil)
	st := &fakeState{data: []byte("snapshot"), size: 8}
	if res := c.WriteState(st, "game", 1); res != Ok {
		t.Fatalf("write got %v", res)
	}

	st2 := &fakeState{size: 8}
	if res := c.ReadState(st2, "game", 1); res != Ok {
		t.Fatalf("read got %v", res)
	}
	if string(st2.data) != "snapshot" {
		t.Fatalf("got %q want snapshot", st2.data)
	}
}

func TestReadStateTamperedSizeRejectedOnUnserialize(t *testing.T) {
	c := New(t.TempDir(), nil)
	st := &fakeState{data: []byte("12345678"), size: 8}
	c.WriteState(st, "game", 2)

	st2 := &fakeState{size: 16, failUnser: true}
	res := c.ReadState(st2, "game", 2)
	if res != SerializeError {
		t.Fatalf("got %v want SerializeError", res)
	}
}

func TestAutoResumeIsOneShot(t *testing.T) {
	c := New(t.TempDir(), nil)
	st := &fakeState{data: []byte("resume-me"), size: 9}
	if res := c.WriteAutoResume(st, "game"); res != Ok {
		t.Fatalf("write got %v", res)
	}
	if !c.HasAutoResume("game") {
		t.Fatalf("expected auto-resume to exist")
	}

	st2 := &fakeState{size: 9}
	if res := c.ReadAutoResume(st2, "game"); res != Ok {
		t.Fatalf("read got %v", res)
	}
	if c.HasAutoResume("game") {
		t.Fatalf("expected auto-resume to be deleted after read")
	}
}

func TestStatePathUsesReservedSlot9(t *testing.T) {
	c := New("saves", nil)
	path := c.statePath("game", AutoResumeSlot)
	if filepath.Base(path) != "game.st9" {
		t.Fatalf("got %q want game.st9", path)
	}
}

func TestRewindCaptureAndStepBack(t *testing.T) {
	r := NewRewindRing(4, 1)
	st := &fakeState{size: 4}

	st.data = []byte("aaaa")
	r.MaybeCapture(st)
	st.data = []byte("bbbb")
	r.MaybeCapture(st)

	if r.Depth() != 2 {
		t.Fatalf("got depth %d want 2", r.Depth())
	}

	if res := r.StepBack(st); res != Ok {
		t.Fatalf("stepback got %v", res)
	}
	if string(st.data) != "bbbb" {
		t.Fatalf("got %q want bbbb (most recent first)", st.data)
	}
	if r.Depth() != 1 {
		t.Fatalf("got depth %d want 1", r.Depth())
	}
}

func TestRewindStepBackEmptyIsNoSupport(t *testing.T) {
	r := NewRewindRing(4, 1)
	st := &fakeState{size: 4}
	if res := r.StepBack(st); res != NoSupport {
		t.Fatalf("got %v want NoSupport", res)
	}
}

func TestRewindDetectsSizeChange(t *testing.T) {
	r := NewRewindRing(4, 1)
	st := &fakeState{data: []byte("aaaa"), size: 4}
	r.MaybeCapture(st)

	st.size = 8
	if res := r.MaybeCapture(st); res != SizeMismatch {
		t.Fatalf("got %v want SizeMismatch", res)
	}
}

func TestRewindRespectsCapacity(t *testing.T) {
	r := NewRewindRing(2, 1)
	st := &fakeState{size: 1}
	for i := 0; i < 5; i++ {
		st.data = []byte{byte(i)}
		r.MaybeCapture(st)
	}
	if r.Depth() != 2 {
		t.Fatalf("got depth %d want 2 (capacity-limited)", r.Depth())
	}
}

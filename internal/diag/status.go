package diag

import "sync"

// Store is the RWMutex-guarded status snapshot the debug overlay's four
// corners read from every present call. Exactly one writer (host.Loop,
// once per frame) updates it; host.Loop also reads it back and hands the
// values to the video backend as a video.OverlayInfo, mirroring the
// teacher's runtimeStatusStore snapshot pattern but narrowed to a
// handful of scalar fields instead of a struct of subsystem pointers.
type Store struct {
	mu sync.RWMutex

	fpsPercent  float64
	cpuPercent  float64
	freqLabel   string
	utilPercent float64
}

// NewStore returns an empty store; all fields read as zero values until
// the first SetFrame/SetGovernor call.
func NewStore() *Store {
	return &Store{}
}

// SetFrame records this frame's pacing health as a percentage of target
// (measured display Hz over game FPS, capped by the caller if desired).
func (s *Store) SetFrame(fpsPercent float64) {
	s.mu.Lock()
	s.fpsPercent = fpsPercent
	s.mu.Unlock()
}

// SetGovernor records the governor's current operating point: a
// human-readable frequency-or-level label (e.g. "960MHz" or "Level 2")
// and the most recent frame-time utilization percentage it computed.
func (s *Store) SetGovernor(freqLabel string, utilPercent float64) {
	s.mu.Lock()
	s.freqLabel = freqLabel
	s.utilPercent = utilPercent
	s.mu.Unlock()
}

// SetCPU records system-wide CPU utilization sampled by CPUSampler.
func (s *Store) SetCPU(percent float64) {
	s.mu.Lock()
	s.cpuPercent = percent
	s.mu.Unlock()
}

func (s *Store) FPSPercent() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fpsPercent
}

func (s *Store) CPUPercent() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cpuPercent
}

func (s *Store) FreqKHzOrLvl() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.freqLabel
}

func (s *Store) UtilPercent() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.utilPercent
}

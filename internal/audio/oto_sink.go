//go:build !headless

package audio

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// OtoSink is the primary audio sink, adapted from the teacher's oto
// player: an atomic pointer to the active ring keeps the pull-model
// Read() hot path lock-free, while Start/Stop/Close take a mutex since
// they're control-plane operations invoked rarely.
type OtoSink struct {
	ctx       *oto.Context
	player    *oto.Player
	ring      atomic.Pointer[Ring]
	sampleBuf []int16
	started   bool
	mu        sync.Mutex
}

// NewOtoSink builds an unstarted sink.
func NewOtoSink() *OtoSink { return &OtoSink{} }

func (s *OtoSink) Start(sampleRateHz int, ring *Ring) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx == nil {
		opts := &oto.NewContextOptions{
			SampleRate:   sampleRateHz,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   0, // let oto pick a low-latency default
		}
		ctx, ready, err := oto.NewContext(opts)
		if err != nil {
			return err
		}
		<-ready
		s.ctx = ctx
	}

	s.ring.Store(ring)
	s.sampleBuf = make([]int16, 4096)
	if s.player == nil {
		s.player = s.ctx.NewPlayer(s)
	}
	if !s.started {
		s.player.Play()
		s.started = true
	}
	return nil
}

// Read implements io.Reader for oto's pull model: p is a byte buffer of
// interleaved little-endian int16 stereo samples.
func (s *OtoSink) Read(p []byte) (int, error) {
	ring := s.ring.Load()
	if ring == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	numSamples := len(p) / 2
	if len(s.sampleBuf) < numSamples {
		s.sampleBuf = make([]int16, numSamples)
	}
	samples := s.sampleBuf[:numSamples]
	ring.Read(samples)

	copy(p, unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(p)))
	return len(p), nil
}

func (s *OtoSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started && s.player != nil {
		s.player.Pause()
		s.started = false
	}
	return nil
}

func (s *OtoSink) Close() error {
	_ = s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player != nil {
		err := s.player.Close()
		s.player = nil
		return err
	}
	return nil
}

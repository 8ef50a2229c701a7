//go:build sdl2

package audio

import (
	"fmt"
	"sync/atomic"

	"github.com/veandco/go-sdl2/sdl"
)

// SDL2Sink is the secondary audio sink paired with video's SDL2 backend.
type SDL2Sink struct {
	deviceID sdl.AudioDeviceID
	ring     atomic.Pointer[Ring]
	buf      []int16
}

// NewSDL2Sink builds an unstarted sink.
func NewSDL2Sink() *SDL2Sink { return &SDL2Sink{} }

func (s *SDL2Sink) Start(sampleRateHz int, ring *Ring) error {
	s.ring.Store(ring)

	spec := &sdl.AudioSpec{
		Freq:     int32(sampleRateHz),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  1024,
		Callback: sdl.AudioCallback(nil),
	}
	var obtained sdl.AudioSpec
	deviceID, err := sdl.OpenAudioDevice("", false, spec, &obtained, 0)
	if err != nil {
		return fmt.Errorf("audio: sdl2 open device: %w", err)
	}
	s.deviceID = deviceID
	sdl.PauseAudioDevice(deviceID, false)

	s.buf = make([]int16, 4096)
	go s.pumpLoop()
	return nil
}

func (s *SDL2Sink) pumpLoop() {
	for {
		ring := s.ring.Load()
		if ring == nil {
			return
		}
		n := ring.Read(s.buf)
		if n == 0 {
			sdl.Delay(1)
			continue
		}
		sdl.QueueAudio(s.deviceID, int16SliceToBytes(s.buf[:n]))
	}
}

func int16SliceToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, v := range samples {
		out[i*2] = byte(v)
		out[i*2+1] = byte(v >> 8)
	}
	return out
}

func (s *SDL2Sink) Stop() error {
	if s.deviceID != 0 {
		sdl.PauseAudioDevice(s.deviceID, true)
	}
	return nil
}

func (s *SDL2Sink) Close() error {
	s.ring.Store(nil)
	if s.deviceID != 0 {
		sdl.CloseAudioDevice(s.deviceID)
		s.deviceID = 0
	}
	return nil
}

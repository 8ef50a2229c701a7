// Package audio implements the single-producer/single-consumer PCM ring
// buffer between a libretro core's audio callbacks and the presentation
// sink, plus the swappable sinks themselves (oto, SDL2, headless).
package audio

import "sync/atomic"

// Ring is a lock-free SPSC ring buffer of interleaved stereo int16
// samples. The core's audio callback (running on the main loop goroutine)
// is the sole writer; a sink's pull callback (running on the audio
// backend's own thread) is the sole reader. capacitySamples must be a
// power of two.
type Ring struct {
	buf      []int16
	mask     uint64
	writePos atomic.Uint64
	readPos  atomic.Uint64
	underrun atomic.Uint64
}

// NewRing allocates a ring holding capacitySamples int16 values
// (interleaved L/R, so capacitySamples/2 stereo frames). capacitySamples
// is rounded up to the next power of two.
func NewRing(capacitySamples int) *Ring {
	n := nextPowerOfTwo(capacitySamples)
	return &Ring{buf: make([]int16, n), mask: uint64(n - 1)}
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Write copies as many samples from src into the ring as fit; it never
// blocks. If the ring is full, excess samples are dropped (the core must
// not stall on audio backpressure) and the return value is less than
// len(src).
func (r *Ring) Write(src []int16) int {
	free := len(r.buf) - r.occupancy()
	n := len(src)
	if n > free {
		n = free
	}
	w := r.writePos.Load()
	for i := 0; i < n; i++ {
		r.buf[(w+uint64(i))&r.mask] = src[i]
	}
	r.writePos.Store(w + uint64(n))
	return n
}

// Read fills dst with available samples, zero-filling and recording an
// underrun for any shortfall.
func (r *Ring) Read(dst []int16) int {
	avail := r.occupancy()
	n := len(dst)
	toCopy := n
	if toCopy > avail {
		toCopy = avail
	}
	rpos := r.readPos.Load()
	for i := 0; i < toCopy; i++ {
		dst[i] = r.buf[(rpos+uint64(i))&r.mask]
	}
	for i := toCopy; i < n; i++ {
		dst[i] = 0
	}
	r.readPos.Store(rpos + uint64(toCopy))
	if toCopy < n {
		r.underrun.Add(1)
	}
	return toCopy
}

func (r *Ring) occupancy() int {
	return int(r.writePos.Load() - r.readPos.Load())
}

// Occupancy reports samples currently buffered.
func (r *Ring) Occupancy() int { return r.occupancy() }

// Capacity reports the ring's total sample capacity.
func (r *Ring) Capacity() int { return len(r.buf) }

// FillPercent reports buffer occupancy as a percentage, for the debug HUD.
func (r *Ring) FillPercent() float64 {
	return 100.0 * float64(r.occupancy()) / float64(len(r.buf))
}

// Underruns returns the cumulative count of short reads, used by
// internal/governor's panic path to detect audio starvation.
func (r *Ring) Underruns() uint64 { return r.underrun.Load() }

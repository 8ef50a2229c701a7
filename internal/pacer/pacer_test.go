package pacer

import (
	"testing"
	"time"
)

func TestDirectMode60on60(t *testing.T) {
	p := New(nil)
	p.Init(60.0, 60.0)
	if !p.IsDirectMode() {
		t.Fatalf("expected direct mode")
	}
	for i := 0; i < 1000; i++ {
		if !p.Step() {
			t.Fatalf("step %d: expected true in direct mode", i)
		}
	}
}

func TestBresenham60on72(t *testing.T) {
	p := New(nil)
	p.Init(60.0, 72.0)
	if p.IsDirectMode() {
		t.Fatalf("did not expect direct mode for 60 on 72")
	}

	want := []bool{true, false, true, true, true, true}
	for i, w := range want {
		if got := p.Step(); got != w {
			t.Fatalf("step %d: got %v want %v", i, got, w)
		}
	}

	p.Init(60.0, 72.0)
	trueCount := 0
	for i := 0; i < 7200; i++ {
		if p.Step() {
			trueCount++
		}
	}
	if trueCount != 6000 {
		t.Fatalf("got %d true steps, want 6000", trueCount)
	}
}

func TestBresenham50on60(t *testing.T) {
	p := New(nil)
	p.Init(50.0, 60.0)
	trueCount := 0
	for i := 0; i < 6000; i++ {
		if p.Step() {
			trueCount++
		}
	}
	if trueCount != 5000 {
		t.Fatalf("got %d true steps, want 5000", trueCount)
	}
}

func TestPacerRatioProperty(t *testing.T) {
	cases := []struct{ g, d float64 }{
		{59.73, 60.0}, {60.10, 60.0}, {50.0, 72.0}, {60.0, 50.0}, {29.97, 60.0},
	}
	for _, c := range cases {
		p := New(nil)
		p.Init(c.g, c.d)
		n := int(c.d) * 10
		if n < int(c.g) {
			n = int(c.g) * 10
		}
		trueCount := 0
		for i := 0; i < n; i++ {
			if p.Step() {
				trueCount++
			}
		}
		want := int(float64(n)*c.g/c.d + 0.5)
		diff := trueCount - want
		if diff < 0 {
			diff = -diff
		}
		if diff > 1 {
			t.Errorf("g=%v d=%v n=%d: got %d want %d +-1", c.g, c.d, n, trueCount, want)
		}
	}
}

func TestAccumulatorBounds(t *testing.T) {
	p := New(nil)
	p.Init(59.73, 60.0)
	for i := 0; i < 100000; i++ {
		p.Step()
		acc := p.Accumulator()
		if acc < 0 || acc >= p.DisplayHzQ16()+p.GameFPSQ16() {
			t.Fatalf("accumulator out of bounds at step %d: %d", i, acc)
		}
	}
}

func TestResetReseedsAccumulator(t *testing.T) {
	p := New(nil)
	p.Init(50.0, 60.0)
	for i := 0; i < 37; i++ {
		p.Step()
	}
	p.Reset()
	if p.Accumulator() != p.DisplayHzQ16() {
		t.Fatalf("reset did not reseed accumulator")
	}
}

func TestVsyncReMeasurement(t *testing.T) {
	p := New(nil)
	p.Init(60.0, 60.0)

	now := time.Unix(0, 0)
	interval := 16653 * time.Microsecond
	for i := 0; i < 130; i++ {
		p.RecordVsync(now)
		now = now.Add(interval)
	}

	if !p.IsMeasurementStable() {
		t.Fatalf("expected measurement to be stable after 130 samples")
	}
	hz := p.GetMeasuredHz()
	if hz < 60.00 || hz > 60.10 {
		t.Fatalf("measured hz %v out of expected range", hz)
	}
	if !p.IsDirectMode() {
		t.Fatalf("expected direct mode to remain true (<1%% divergence)")
	}
}

func TestVsyncOutlierRejection(t *testing.T) {
	p := New(nil)
	p.Init(60.0, 60.0)

	now := time.Unix(0, 0)
	p.RecordVsync(now)
	now = now.Add(16670 * time.Microsecond)
	p.RecordVsync(now)
	if p.sampleCount != 1 {
		t.Fatalf("expected 1 valid sample")
	}

	// Simulate a dropped frame: interval implies ~30Hz, must be rejected.
	now = now.Add(33000 * time.Microsecond)
	p.RecordVsync(now)
	if p.sampleCount != 1 {
		t.Fatalf("outlier interval should not have been counted, got sampleCount=%d", p.sampleCount)
	}

	// Simulate a spurious fast present: >120Hz, must be rejected.
	now = now.Add(2000 * time.Microsecond)
	p.RecordVsync(now)
	if p.sampleCount != 1 {
		t.Fatalf("outlier interval should not have been counted, got sampleCount=%d", p.sampleCount)
	}
}

func TestGetMeasuredHzZeroUntilStable(t *testing.T) {
	p := New(nil)
	p.Init(60.0, 60.0)
	if p.GetMeasuredHz() != 0 {
		t.Fatalf("expected 0 before any samples")
	}
	now := time.Unix(0, 0)
	interval := 16653 * time.Microsecond
	for i := 0; i < 50; i++ {
		p.RecordVsync(now)
		now = now.Add(interval)
	}
	if p.GetMeasuredHz() != 0 {
		t.Fatalf("expected 0 before warmup threshold reached")
	}
}

package diag

import "testing"

func TestStoreRoundTripsFrameAndGovernor(t *testing.T) {
	s := NewStore()

	if s.FPSPercent() != 0 || s.FreqKHzOrLvl() != "" {
		t.Fatal("expected zero values before any Set call")
	}

	s.SetFrame(97.5)
	s.SetGovernor("960MHz", 42.0)
	s.SetCPU(12.5)

	if got := s.FPSPercent(); got != 97.5 {
		t.Fatalf("got FPSPercent %v want 97.5", got)
	}
	if got := s.FreqKHzOrLvl(); got != "960MHz" {
		t.Fatalf("got FreqKHzOrLvl %q want 960MHz", got)
	}
	if got := s.UtilPercent(); got != 42.0 {
		t.Fatalf("got UtilPercent %v want 42.0", got)
	}
	if got := s.CPUPercent(); got != 12.5 {
		t.Fatalf("got CPUPercent %v want 12.5", got)
	}
}

package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetFrequencyKHzWritesMinAndMax(t *testing.T) {
	dir := t.TempDir()
	must(t, os.WriteFile(filepath.Join(dir, "scaling_min_freq"), []byte("0"), 0o644))
	must(t, os.WriteFile(filepath.Join(dir, "scaling_max_freq"), []byte("0"), 0o644))

	c := NewCPUFreqSetter(dir)
	if err := c.SetFrequencyKHz(800000); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"scaling_min_freq", "scaling_max_freq"} {
		got, err := os.ReadFile(filepath.Join(dir, name))
		must(t, err)
		if string(got) != "800000" {
			t.Fatalf("%s got %q want 800000", name, got)
		}
	}
}

func TestSetLevelWritesGovernor(t *testing.T) {
	dir := t.TempDir()
	must(t, os.WriteFile(filepath.Join(dir, "scaling_governor"), []byte(""), 0o644))

	c := NewCPUFreqSetter(dir)
	if err := c.SetLevel(2); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "scaling_governor"))
	must(t, err)
	if string(got) != "performance" {
		t.Fatalf("got %q want performance", got)
	}
}

func TestSetLevelRejectsOutOfRange(t *testing.T) {
	c := NewCPUFreqSetter(t.TempDir())
	if err := c.SetLevel(99); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestSanitizedPathRejectsTraversal(t *testing.T) {
	c := NewCPUFreqSetter(t.TempDir())
	if _, ok := c.sanitizedPath("../../etc/passwd"); ok {
		t.Fatalf("expected traversal to be rejected")
	}
	if _, ok := c.sanitizedPath("/etc/passwd"); ok {
		t.Fatalf("expected absolute path to be rejected")
	}
}

func TestAvailableFrequenciesKHzParsesList(t *testing.T) {
	dir := t.TempDir()
	must(t, os.WriteFile(filepath.Join(dir, "scaling_available_frequencies"), []byte("400000 600000 800000\n"), 0o644))
	c := NewCPUFreqSetter(dir)
	freqs := c.AvailableFrequenciesKHz()
	if len(freqs) != 3 || freqs[0] != 400000 || freqs[2] != 800000 {
		t.Fatalf("got %v", freqs)
	}
}

func TestAvailableFrequenciesKHzMissingFileReturnsEmpty(t *testing.T) {
	c := NewCPUFreqSetter(t.TempDir())
	if freqs := c.AvailableFrequenciesKHz(); freqs != nil {
		t.Fatalf("expected nil for missing file, got %v", freqs)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func TestMapOptionStoreSetGet(t *testing.T) {
	s := NewMapOptionStore()
	s.Set("difficulty", "hard")
	v, ok := s.Get("difficulty")
	if !ok || v != "hard" {
		t.Fatalf("got (%q,%v) want (hard,true)", v, ok)
	}
	if _, ok := s.Get("missing"); ok {
		t.Fatalf("expected missing key to be absent")
	}
}

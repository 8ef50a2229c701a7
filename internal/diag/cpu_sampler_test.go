package diag

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func writeProcStat(t *testing.T, dir string, cpuLine string) string {
	t.Helper()
	path := filepath.Join(dir, "stat")
	content := cpuLine + "\ncpu0 " + cpuLine[4:] + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadProcStatCPUParsesAggregateLine(t *testing.T) {
	dir := t.TempDir()
	path := writeProcStat(t, dir, "cpu  100 0 50 850 0 0 0 0")

	total, idle, err := readProcStatCPU(path)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1000 {
		t.Fatalf("got total %d want 1000", total)
	}
	if idle != 850 {
		t.Fatalf("got idle %d want 850", idle)
	}
}

func TestCPUSamplerComputesBusyPercentAcrossSamples(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stat")
	store := NewStore()
	sampler := NewCPUSampler(path, 0, store, nil)

	write := func(user, idle uint64) {
		content := "cpu  " + strconv.FormatUint(user, 10) + " 0 0 " + strconv.FormatUint(idle, 10) + " 0 0 0 0\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write(0, 0)
	if _, ok := sampler.sampleOnce(); ok {
		t.Fatal("expected first sample to seed baseline, not report a percentage")
	}

	write(900, 100)
	pct, ok := sampler.sampleOnce()
	if !ok {
		t.Fatal("expected second sample to produce a reading")
	}
	if pct != 90 {
		t.Fatalf("got %v want 90 (900 busy / 1000 total)", pct)
	}
}

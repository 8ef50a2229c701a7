package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const cpufreqRoot = "/sys/devices/system/cpu/cpu0/cpufreq"

// powerLevelGovernor maps the fallback governor's three power levels to
// Linux's built-in cpufreq governors, used when the device doesn't expose
// a scaling_available_frequencies list granular enough for direct
// frequency selection.
var powerLevelGovernor = [3]string{"powersave", "schedutil", "performance"}

// CPUFreqSetter implements internal/governor's FrequencySetter over
// Linux's cpufreq sysfs interface. Every path it touches is resolved and
// validated under sysRoot the same way the teacher's FileIODevice
// confines bus-driven file paths under a baseDir: reject absolute
// components, reject "..", and re-verify the resolved path is still
// inside the root before touching the filesystem.
type CPUFreqSetter struct {
	sysRoot string
}

// NewCPUFreqSetter builds a setter rooted at root (pass cpufreqRoot in
// production; tests pass a temp directory standing in for sysfs).
func NewCPUFreqSetter(root string) *CPUFreqSetter {
	if root == "" {
		root = cpufreqRoot
	}
	return &CPUFreqSetter{sysRoot: root}
}

func (c *CPUFreqSetter) sanitizedPath(name string) (string, bool) {
	if filepath.IsAbs(name) || strings.Contains(name, "..") {
		return "", false
	}
	full := filepath.Join(c.sysRoot, name)
	rel, err := filepath.Rel(c.sysRoot, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return full, true
}

// AvailableFrequenciesKHz reads scaling_available_frequencies, returning
// an empty slice (not an error) when the device doesn't expose it —
// internal/governor falls back to the three-level scheme in that case.
func (c *CPUFreqSetter) AvailableFrequenciesKHz() []int {
	path, ok := c.sanitizedPath("scaling_available_frequencies")
	if !ok {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var out []int
	for _, field := range strings.Fields(string(data)) {
		if v, err := strconv.Atoi(field); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// SetFrequencyKHz pins scaling_min_freq and scaling_max_freq to khz,
// which is how userspace cpufreq governors are conventionally pinned to
// a single frequency without switching the active governor.
func (c *CPUFreqSetter) SetFrequencyKHz(khz int) error {
	val := strconv.Itoa(khz)
	for _, name := range []string{"scaling_min_freq", "scaling_max_freq"} {
		path, ok := c.sanitizedPath(name)
		if !ok {
			return fmt.Errorf("platform: unsafe cpufreq path %q", name)
		}
		if err := os.WriteFile(path, []byte(val), 0o644); err != nil {
			return fmt.Errorf("platform: write %s: %w", name, err)
		}
	}
	return nil
}

// SetLevel switches the active cpufreq governor for the fallback
// three-level scheme.
func (c *CPUFreqSetter) SetLevel(level int) error {
	if level < 0 || level >= len(powerLevelGovernor) {
		return fmt.Errorf("platform: invalid power level %d", level)
	}
	path, ok := c.sanitizedPath("scaling_governor")
	if !ok {
		return fmt.Errorf("platform: unsafe cpufreq path scaling_governor")
	}
	if err := os.WriteFile(path, []byte(powerLevelGovernor[level]), 0o644); err != nil {
		return fmt.Errorf("platform: write scaling_governor: %w", err)
	}
	return nil
}

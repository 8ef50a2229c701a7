package governor

// Config holds the tunable parameters of the adaptive governor. Defaults
// match spec.md §4.2 "Tuning constants (defaults)" exactly.
type Config struct {
	WindowFrames      int `toml:"window_frames"`
	UtilHighPercent   int `toml:"util_high_percent"`
	UtilLowPercent    int `toml:"util_low_percent"`
	BoostWindows      int `toml:"boost_windows"`
	ReduceWindows     int `toml:"reduce_windows"`
	StartupGrace      int `toml:"startup_grace_frames"`
	MinFreqKHz        int `toml:"min_freq_khz"`
	TargetUtilPercent int `toml:"target_util_percent"`
	MaxStepDown       int `toml:"max_step_down"`
	PanicStepUp       int `toml:"panic_step_up"`
	PanicBlockCount   int `toml:"panic_block_threshold"`
}

// DefaultConfig returns the spec-mandated tuning defaults.
func DefaultConfig() Config {
	return Config{
		WindowFrames:      30,
		UtilHighPercent:   85,
		UtilLowPercent:    55,
		BoostWindows:      2,
		ReduceWindows:     4,
		StartupGrace:      300,
		MinFreqKHz:        0,
		TargetUtilPercent: 70,
		MaxStepDown:       1,
		PanicStepUp:       2,
		PanicBlockCount:   3,
	}
}

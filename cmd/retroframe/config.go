package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/retrohandheld/minarch/internal/governor"
)

// loadGovernorConfig reads governor.toml next to corePath if present,
// overriding governor.DefaultConfig()'s tuning constants (spec.md §4.2).
// A missing file is normal — the defaults apply — anything else (bad
// TOML, permission error) is logged and defaults are used anyway, since
// a malformed override file must never block startup.
func loadGovernorConfig(corePath string, logger *log.Logger) governor.Config {
	cfg := governor.DefaultConfig()

	path := filepath.Join(filepath.Dir(corePath), "governor.toml")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		logger.Warn("governor.toml malformed, using defaults", "path", path, "err", err)
		return governor.DefaultConfig()
	}
	logger.Info("loaded governor config override", "path", path)
	return cfg
}

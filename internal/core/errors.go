package core

import "errors"

var (
	// ErrMissingSymbol is returned when a required libretro ABI entry point
	// is absent from the loaded shared library.
	ErrMissingSymbol = errors.New("core: required symbol missing")
	// ErrLoadCrashed is returned when the probe subprocess used to isolate
	// the first load_game call exits abnormally (spec.md §9 design note:
	// "prefer an isolation strategy stronger than a jump buffer").
	ErrLoadCrashed = errors.New("core: load_game crashed in probe subprocess")
	// ErrNotLoaded is returned by operations that require an active game.
	ErrNotLoaded = errors.New("core: no game loaded")
	// ErrAlreadyLoaded guards against a second LoadGame on one Handle.
	ErrAlreadyLoaded = errors.New("core: game already loaded")
	// ErrUnsupported is returned for capability-gated operations the core
	// does not implement (optional symbol absent).
	ErrUnsupported = errors.New("core: capability not supported by this core")
)

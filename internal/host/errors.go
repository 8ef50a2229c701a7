package host

import (
	"errors"
	"fmt"

	"github.com/retrohandheld/minarch/internal/core"
)

// ErrEmptyPlaylist is returned when an .m3u playlist names no usable
// entry.
var ErrEmptyPlaylist = errors.New("host: playlist contains no entries")

// CoreLoadError wraps a failure to load or initialize the core plugin
// itself — spec.md §7's "Core load failure" fatal class.
type CoreLoadError struct {
	Err error
}

func (e *CoreLoadError) Error() string { return fmt.Sprintf("core load failed: %v", e.Err) }
func (e *CoreLoadError) Unwrap() error { return e.Err }

// GameOpenError wraps a failure to open content — spec.md §7's "Game
// open failure" fatal class (archive extraction with no matching
// extension, ROM read error, or allocation failure).
type GameOpenError struct {
	Err error
}

func (e *GameOpenError) Error() string { return fmt.Sprintf("game open failed: %v", e.Err) }
func (e *GameOpenError) Unwrap() error { return e.Err }

// FatalMessage classifies err against spec.md §7's two fatal error
// classes. Both render the same user-facing text; everything else is the
// caller's to log and swallow. A LoadGuard probe failure (OpenGame
// returns core.ErrLoadCrashed unwrapped, see OpenGame's doc comment) is
// recognized here too, since it is fatal by the same rule even though
// it never gets wrapped in GameOpenError.
func FatalMessage(err error) (string, bool) {
	var coreErr *CoreLoadError
	var gameErr *GameOpenError
	if errors.As(err, &coreErr) || errors.As(err, &gameErr) || errors.Is(err, core.ErrLoadCrashed) {
		return "Game failed to start", true
	}
	return "", false
}

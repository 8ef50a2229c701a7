//go:build !headless && sdl2

package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/retrohandheld/minarch/internal/audio"
	"github.com/retrohandheld/minarch/internal/platform"
	"github.com/retrohandheld/minarch/internal/video"
)

func init() {
	compiledFeatures = append(compiledFeatures, "video:ebiten", "video:sdl2", "audio:oto", "audio:sdl2")
}

// VIDEO_BACKEND and AUDIO_BACKEND pick between the two compiled-in
// presentation paths, per SPEC_FULL.md's domain stack entry for the SDL2
// path ("devices without a Wayland/X compositor"). The CLI surface itself
// (spec.md §6) stays at two positional args plus LOG_FILE/LOG_SYNC; this
// follows the same env-var convention rather than adding a flag.
func newVideoBackend(logger *log.Logger) video.Backend {
	if strings.EqualFold(os.Getenv("VIDEO_BACKEND"), "sdl2") {
		logger.Debug("video backend", "backend", "sdl2")
		return video.NewSDL2Backend()
	}
	logger.Debug("video backend", "backend", "ebiten")
	return video.NewEbitenBackend()
}

func newAudioSink(logger *log.Logger) audio.Sink {
	if strings.EqualFold(os.Getenv("AUDIO_BACKEND"), "sdl2") {
		logger.Debug("audio sink", "sink", "sdl2")
		return audio.NewSDL2Sink()
	}
	logger.Debug("audio sink", "sink", "oto")
	return audio.NewOtoSink()
}

func newPlatformFacade(gpio platform.GPIOPoller, _ *log.Logger) platform.Facade {
	return platform.NewEbitenFacade(gpio)
}

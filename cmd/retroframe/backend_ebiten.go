//go:build !headless && !sdl2

package main

import (
	"github.com/charmbracelet/log"

	"github.com/retrohandheld/minarch/internal/audio"
	"github.com/retrohandheld/minarch/internal/platform"
	"github.com/retrohandheld/minarch/internal/video"
)

func init() {
	compiledFeatures = append(compiledFeatures, "video:ebiten", "audio:oto")
}

func newVideoBackend(logger *log.Logger) video.Backend {
	logger.Debug("video backend", "backend", "ebiten")
	return video.NewEbitenBackend()
}

func newAudioSink(logger *log.Logger) audio.Sink {
	logger.Debug("audio sink", "sink", "oto")
	return audio.NewOtoSink()
}

func newPlatformFacade(gpio platform.GPIOPoller, _ *log.Logger) platform.Facade {
	return platform.NewEbitenFacade(gpio)
}

//go:build headless

package main

import (
	"github.com/charmbracelet/log"

	"github.com/retrohandheld/minarch/internal/audio"
	"github.com/retrohandheld/minarch/internal/platform"
	"github.com/retrohandheld/minarch/internal/video"
)

func init() {
	compiledFeatures = append(compiledFeatures, "video:headless", "audio:headless")
}

func newVideoBackend(*log.Logger) video.Backend {
	return video.NewHeadlessBackend(defaultDisplayHz)
}

func newAudioSink(*log.Logger) audio.Sink {
	return audio.NewHeadlessSink()
}

func newPlatformFacade(_ platform.GPIOPoller, _ *log.Logger) platform.Facade {
	return platform.NewHeadlessFacade()
}

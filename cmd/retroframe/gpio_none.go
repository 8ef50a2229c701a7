//go:build !gpio

package main

import (
	"github.com/charmbracelet/log"

	"github.com/retrohandheld/minarch/internal/platform"
)

// newGPIOPoller is a no-op without the gpio build tag: desktop and CI
// builds get keyboard-only input through the ebiten facade.
func newGPIOPoller(*log.Logger) platform.GPIOPoller { return nil }

//go:build gpio

package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/retrohandheld/minarch/internal/platform"
)

func init() {
	compiledFeatures = append(compiledFeatures, "input:gpio")
}

// defaultButtons is the handheld's fixed line-to-joypad-id wiring. A real
// image would tailor this per board revision; absent that detail this
// mirrors the desktop keyMap's port/device/id assignment one-for-one.
var defaultButtons = []platform.GPIOButton{
	{Line: 0, Port: 0, Device: 1, ID: 4},  // Up
	{Line: 1, Port: 0, Device: 1, ID: 5},  // Down
	{Line: 2, Port: 0, Device: 1, ID: 6},  // Left
	{Line: 3, Port: 0, Device: 1, ID: 7},  // Right
	{Line: 4, Port: 0, Device: 1, ID: 0},  // B
	{Line: 5, Port: 0, Device: 1, ID: 8},  // A
	{Line: 6, Port: 0, Device: 1, ID: 1},  // Y
	{Line: 7, Port: 0, Device: 1, ID: 9},  // X
	{Line: 8, Port: 0, Device: 1, ID: 3},  // Start
	{Line: 9, Port: 0, Device: 1, ID: 2},  // Select
	{Line: 10, Port: 0, Device: 1, ID: 10}, // L
	{Line: 11, Port: 0, Device: 1, ID: 11}, // R
}

// newGPIOPoller opens GPIO_CHIP (e.g. "gpiochip0") when set, overriding
// defaultButtons' line numbers from GPIO_LINES (a comma-separated list
// matching defaultButtons' order) if present. Absent GPIO_CHIP, this
// build still runs — it simply has no hardware buttons, same as the
// non-gpio build.
func newGPIOPoller(logger *log.Logger) platform.GPIOPoller {
	chip := os.Getenv("GPIO_CHIP")
	if chip == "" {
		return nil
	}

	buttons := defaultButtons
	if lines := os.Getenv("GPIO_LINES"); lines != "" {
		parts := strings.Split(lines, ",")
		if len(parts) == len(defaultButtons) {
			remapped := make([]platform.GPIOButton, len(defaultButtons))
			for i, p := range parts {
				n, err := strconv.Atoi(strings.TrimSpace(p))
				if err != nil {
					logger.Warn("ignoring malformed GPIO_LINES, using defaults", "err", err)
					remapped = defaultButtons
					break
				}
				remapped[i] = defaultButtons[i]
				remapped[i].Line = n
			}
			buttons = remapped
		}
	}

	rumbleLine := -1
	if v := os.Getenv("GPIO_RUMBLE_LINE"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			rumbleLine = n
		} else {
			logger.Warn("ignoring malformed GPIO_RUMBLE_LINE", "err", err)
		}
	}

	layer, err := platform.NewGPIOInputLayer(chip, buttons, rumbleLine, logger)
	if err != nil {
		logger.Warn("gpio input unavailable, falling back to keyboard only", "chip", chip, "err", err)
		return nil
	}
	return layer
}

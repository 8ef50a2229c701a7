//go:build gpio

package platform

import (
	"github.com/charmbracelet/log"
	"github.com/warthog618/go-gpiocdev"
)

// GPIOButton maps a single GPIO line to a libretro input id, for
// handheld images that wire physical buttons directly to GPIO rather
// than through a kernel joystick/evdev driver.
type GPIOButton struct {
	Line   int
	Port   uint32
	Device uint32
	ID     uint32
}

// GPIOInputLayer polls a set of GPIO lines and emits InputEvents on
// transitions, layered on top of another Facade's PollInput (e.g. an
// ebiten-backed facade supplying keyboard input for desktop testing,
// with GPIO buttons added only on the handheld image). When rumbleLine
// is set it also implements host.Vibrator by driving a single digital
// output to a transistor-switched vibration motor.
type GPIOInputLayer struct {
	chip       *gpiocdev.Chip
	lines      []*gpiocdev.Line
	buttons    []GPIOButton
	state      []bool
	logger     *log.Logger
	rumbleLine *gpiocdev.Line
	rumbleOn   bool
}

// NewGPIOInputLayer opens chipName (e.g. "gpiochip0") and requests each
// button's line as input with a pull-up, since handheld button wiring
// conventionally grounds the line on press. rumbleLine is the GPIO
// output line number driving the vibration motor's switching
// transistor; pass -1 if the image has no haptics wired.
func NewGPIOInputLayer(chipName string, buttons []GPIOButton, rumbleLine int, logger *log.Logger) (*GPIOInputLayer, error) {
	if logger == nil {
		logger = log.Default()
	}
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, err
	}

	layer := &GPIOInputLayer{chip: chip, buttons: buttons, state: make([]bool, len(buttons)), logger: logger}
	for _, b := range buttons {
		line, err := chip.RequestLine(b.Line, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			layer.Close()
			return nil, err
		}
		layer.lines = append(layer.lines, line)
	}

	if rumbleLine >= 0 {
		line, err := chip.RequestLine(rumbleLine, gpiocdev.AsOutput(0))
		if err != nil {
			layer.logger.Warn("rumble line unavailable, haptics disabled", "line", rumbleLine, "err", err)
		} else {
			layer.rumbleLine = line
		}
	}
	return layer, nil
}

// SetRumble drives the motor line on whenever either magnitude is above
// zero. gpiocdev only exposes a digital line, so there is no PWM duty
// cycle to map the magnitudes onto — both strengths collapse to on/off.
func (g *GPIOInputLayer) SetRumble(_ uint32, strongMagnitude, weakMagnitude uint16) bool {
	if g.rumbleLine == nil {
		return false
	}
	on := strongMagnitude > 0 || weakMagnitude > 0
	if on == g.rumbleOn {
		return true
	}
	v := 0
	if on {
		v = 1
	}
	if err := g.rumbleLine.SetValue(v); err != nil {
		g.logger.Warn("rumble line set failed", "err", err)
		return false
	}
	g.rumbleOn = on
	return true
}

// PollInput reads every line's current value and emits a transition event
// for each button whose pressed state changed since the last call.
func (g *GPIOInputLayer) PollInput() []InputEvent {
	var events []InputEvent
	for i, line := range g.lines {
		v, err := line.Value()
		if err != nil {
			g.logger.Warn("gpio line read failed", "line", g.buttons[i].Line, "err", err)
			continue
		}
		pressed := v == 0 // active-low
		if pressed != g.state[i] {
			g.state[i] = pressed
			b := g.buttons[i]
			events = append(events, InputEvent{Port: b.Port, Device: b.Device, ID: b.ID, Pressed: pressed})
		}
	}
	return events
}

// Close releases every requested GPIO line and the chip handle.
func (g *GPIOInputLayer) Close() error {
	for _, line := range g.lines {
		line.Close()
	}
	if g.rumbleLine != nil {
		g.rumbleLine.SetValue(0)
		g.rumbleLine.Close()
	}
	if g.chip != nil {
		return g.chip.Close()
	}
	return nil
}

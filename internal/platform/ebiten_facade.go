//go:build !headless

package platform

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// keyMap is the desktop development binding from keyboard keys to
// libretro joypad ids (device 1 = RETRO_DEVICE_JOYPAD, port 0).
var keyMap = map[ebiten.Key]uint32{
	ebiten.KeyArrowUp:    4,
	ebiten.KeyArrowDown:  5,
	ebiten.KeyArrowLeft:  6,
	ebiten.KeyArrowRight: 7,
	ebiten.KeyZ:          0,  // B
	ebiten.KeyX:          8,  // A
	ebiten.KeyA:          1,  // Y
	ebiten.KeyS:          9,  // X
	ebiten.KeyEnter:      3,  // Start
	ebiten.KeyShiftRight: 2,  // Select
	ebiten.KeyQ:          10, // L
	ebiten.KeyW:          11, // R
}

// EbitenFacade is the desktop Facade: keyboard input through ebiten's own
// key-state polling, with an optional GPIOInputLayer composed in for
// handheld builds and no special power-event handling (desktop dev boxes
// don't sleep the way a handheld console does — power events there come
// from SleepWakeWatcher directly, composed alongside this facade in
// internal/host rather than inside it).
type EbitenFacade struct {
	gpio     GPIOPoller
	keyState map[ebiten.Key]bool
}

// GPIOPoller is the subset of GPIOInputLayer (gpio build tag only) this
// package's default facades compose against, so facade.go and
// ebiten_facade.go compile regardless of whether the gpio tag is set.
type GPIOPoller interface {
	PollInput() []InputEvent
	Close() error
}

// rumbler is GPIOInputLayer's optional haptics capability, checked with a
// type assertion so this file compiles whether or not the gpio tag (and
// thus GPIOInputLayer.SetRumble) is present in the build.
type rumbler interface {
	SetRumble(port uint32, strongMagnitude, weakMagnitude uint16) bool
}

// NewEbitenFacade builds a facade with an optional GPIO layer (nil on
// desktop).
func NewEbitenFacade(gpio GPIOPoller) *EbitenFacade {
	return &EbitenFacade{gpio: gpio, keyState: make(map[ebiten.Key]bool)}
}

func (f *EbitenFacade) PollInput() []InputEvent {
	var events []InputEvent
	for key, id := range keyMap {
		pressed := ebiten.IsKeyPressed(key)
		if pressed != f.keyState[key] {
			f.keyState[key] = pressed
			events = append(events, InputEvent{Port: 0, Device: 1, ID: id, Pressed: pressed})
		}
	}
	if f.gpio != nil {
		events = append(events, f.gpio.PollInput()...)
	}
	return events
}

func (f *EbitenFacade) PollPower() PowerEvent { return PowerNone }

// SetRumble forwards to the composed GPIO layer when it has a rumble
// line wired, and reports unsupported otherwise (desktop dev boxes have
// no motor to drive).
func (f *EbitenFacade) SetRumble(port uint32, strongMagnitude, weakMagnitude uint16) bool {
	if r, ok := f.gpio.(rumbler); ok {
		return r.SetRumble(port, strongMagnitude, weakMagnitude)
	}
	return false
}

func (f *EbitenFacade) Close() error {
	if f.gpio != nil {
		return f.gpio.Close()
	}
	return nil
}

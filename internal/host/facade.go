package host

import "github.com/retrohandheld/minarch/internal/platform"

// PowerSource is platform.SleepWakeWatcher's shape, kept as an interface
// here rather than imported directly so tests can substitute a fake.
type PowerSource interface {
	Poll() platform.PowerEvent
	Close() error
}

// CompositeFacade layers a PowerSource's sleep/wake detection onto an
// input-only platform.Facade. ebiten_facade.go's own doc comment notes
// desktop facades report no power events themselves and expects this
// composition to happen one layer up — this is that layer.
type CompositeFacade struct {
	Input platform.Facade
	Power PowerSource
}

func (c *CompositeFacade) PollInput() []platform.InputEvent {
	return c.Input.PollInput()
}

func (c *CompositeFacade) PollPower() platform.PowerEvent {
	if c.Power != nil {
		return c.Power.Poll()
	}
	return c.Input.PollPower()
}

func (c *CompositeFacade) Close() error {
	if c.Power != nil {
		if err := c.Power.Close(); err != nil {
			return err
		}
	}
	return c.Input.Close()
}

// SetRumble forwards to Input when it implements Vibrator, so
// Context.SetPlatform's type assertion on a *CompositeFacade still
// detects haptics composed into the wrapped facade rather than the
// wrapper itself.
func (c *CompositeFacade) SetRumble(port uint32, strongMagnitude, weakMagnitude uint16) bool {
	if v, ok := c.Input.(Vibrator); ok {
		return v.SetRumble(port, strongMagnitude, weakMagnitude)
	}
	return false
}

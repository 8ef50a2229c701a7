//go:build headless

package platform

// HeadlessFacade is a no-input, no-power-event Facade for tests, with an
// injectable queue so tests can simulate button presses deterministically.
type HeadlessFacade struct {
	queuedInput []InputEvent
	queuedPower []PowerEvent
}

// NewHeadlessFacade builds an empty facade.
func NewHeadlessFacade() *HeadlessFacade { return &HeadlessFacade{} }

// InjectInput queues an input event to be returned by the next PollInput.
func (f *HeadlessFacade) InjectInput(ev InputEvent) { f.queuedInput = append(f.queuedInput, ev) }

// InjectPower queues a power event to be returned by the next PollPower.
func (f *HeadlessFacade) InjectPower(ev PowerEvent) { f.queuedPower = append(f.queuedPower, ev) }

func (f *HeadlessFacade) PollInput() []InputEvent {
	out := f.queuedInput
	f.queuedInput = nil
	return out
}

func (f *HeadlessFacade) PollPower() PowerEvent {
	if len(f.queuedPower) == 0 {
		return PowerNone
	}
	ev := f.queuedPower[0]
	f.queuedPower = f.queuedPower[1:]
	return ev
}

func (f *HeadlessFacade) Close() error { return nil }

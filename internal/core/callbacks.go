package core

import "unsafe"

// EnvCommand enumerates the retro_environment_t command codes this host
// answers. The numeric values are the command codes cores send; several
// names do not describe what their number means in this host (for
// example 15, 49, 50 and 51), and internal/host's dispatch comments give
// each code's meaning here.
type EnvCommand uint32

const (
	EnvSetRotation             EnvCommand = 1
	EnvGetOverscan             EnvCommand = 2
	EnvGetCanDupe              EnvCommand = 3
	EnvSetMessage              EnvCommand = 6
	EnvGetSystemDirectory      EnvCommand = 9
	EnvSetPixelFormat          EnvCommand = 10
	EnvSetInputDescriptors     EnvCommand = 11
	EnvSetDiskControlInterface EnvCommand = 13
	EnvSetHWRender             EnvCommand = 15
	EnvGetVariable             EnvCommand = 16
	EnvSetVariables            EnvCommand = 17
	EnvSetFrameTimeCallback    EnvCommand = 21
	EnvGetRumbleInterface      EnvCommand = 23
	EnvGetLogInterface         EnvCommand = 27
	EnvGetSaveDirectory        EnvCommand = 31
	EnvSetSystemAVInfo         EnvCommand = 32
	EnvSetControllerInfo       EnvCommand = 35
	EnvSetGeometry             EnvCommand = 37
	EnvSetCoreOptions          EnvCommand = 49
	EnvSetCoreOptionsIntl      EnvCommand = 50
	EnvSetCoreOptionsDisplay   EnvCommand = 51
	EnvGetPreferredHWRender    EnvCommand = 53
	EnvGetDiskControlIfaceVer  EnvCommand = 54
	EnvGetMessageIfaceVer      EnvCommand = 58
	EnvSetSaveStateInBG        EnvCommand = 62
	EnvGetThrottleState        EnvCommand = 71
)

// PixelFormat mirrors RETRO_PIXEL_FORMAT_*.
type PixelFormat uint32

const (
	PixelFormat0RGB1555 PixelFormat = 0
	PixelFormatXRGB8888 PixelFormat = 1
	PixelFormatRGB565   PixelFormat = 2
)

// Environment is the host-side implementation of the environment callback:
// one method per command this frontend answers. Returning false tells the
// core the command is unsupported, matching retro_environment_t semantics.
type Environment interface {
	HandleEnvironment(cmd EnvCommand, data unsafe.Pointer) bool
}

// VideoSink receives decoded frame buffers from retro_video_refresh_t.
type VideoSink interface {
	VideoRefresh(data unsafe.Pointer, width, height uint32, pitch uintptr)
}

// AudioSink receives PCM samples from the audio callbacks.
type AudioSink interface {
	AudioSample(left, right int16)
	AudioSampleBatch(data unsafe.Pointer, frames uintptr) uintptr
}

// InputSource answers retro_input_poll_t / retro_input_state_t.
type InputSource interface {
	InputPoll()
	InputState(port, device, index, id uint32) int16
}

// callbackSet adapts a Go-side Environment/VideoSink/AudioSink/InputSource
// into the six free-function signatures purego.NewCallback can wrap as
// C-callable function pointers.
type callbackSet struct {
	env   Environment
	video VideoSink
	audio AudioSink
	input InputSource
}

func newCallbackSet(env Environment, video VideoSink, audio AudioSink, input InputSource) *callbackSet {
	return &callbackSet{env: env, video: video, audio: audio, input: input}
}

func (c *callbackSet) environment(cmd uint32, data unsafe.Pointer) bool {
	return c.env.HandleEnvironment(EnvCommand(cmd), data)
}

func (c *callbackSet) videoRefresh(data unsafe.Pointer, width, height uint32, pitch uintptr) {
	c.video.VideoRefresh(data, width, height, pitch)
}

func (c *callbackSet) audioSample(left, right int16) {
	c.audio.AudioSample(left, right)
}

func (c *callbackSet) audioSampleBatch(data unsafe.Pointer, frames uintptr) uintptr {
	return c.audio.AudioSampleBatch(data, frames)
}

func (c *callbackSet) inputPoll() {
	c.input.InputPoll()
}

func (c *callbackSet) inputState(port, device, index, id uint32) int16 {
	return c.input.InputState(port, device, index, id)
}

// NewCallbacks builds the bindable callback set for BindCallbacks.
func NewCallbacks(env Environment, video VideoSink, audio AudioSink, input InputSource) *callbackSet {
	return newCallbackSet(env, video, audio, input)
}

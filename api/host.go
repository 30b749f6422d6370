// Package hostapi defines the contracts between the libretro frontend and
// the host that embeds it: where frames and samples go, where input and
// configuration come from, and where diagnostics are written.
package hostapi

// VideoSink receives tightly packed frames. The pixel slice is only valid
// for the duration of the call.
type VideoSink interface {
	// Frame presents width*height pixels in the given format.
	Frame(pixels []byte, width, height int, format PixelFormat)
}

// StereoFrame is one normalized stereo sample pair in [-1, 1).
type StereoFrame struct {
	Left  float32
	Right float32
}

// AudioSink receives normalized stereo audio.
type AudioSink interface {
	// SetSampleRate configures the rate the following frames are produced at.
	SetSampleRate(rate float64)

	// PushFrame queues a single frame.
	PushFrame(frame StereoFrame)

	// PushFrames queues a batch of frames. The slice is only valid for the
	// duration of the call.
	PushFrames(frames []StereoFrame)

	// FramesAvailable reports how many frames can be queued without
	// overwriting audio that has not been played yet.
	FramesAvailable() int

	// SetPaused stops or resumes playback.
	SetPaused(paused bool)
}

// InputSource answers pressed/not-pressed for named actions.
type InputSource interface {
	// Actions lists every action name the source can answer for.
	Actions() []string

	// IsActionPressed reports whether the action is currently held.
	IsActionPressed(action string) bool
}

// ConfigStore resolves core libraries and per-core settings.
type ConfigStore interface {
	// CorePath returns the library path configured for a core id, or "".
	CorePath(coreID string) string

	// CoreForRom returns the core id and library path associated with a
	// specific ROM, or empty strings.
	CoreForRom(romPath string) (coreID, path string)

	// CoreSetting returns the stored value for a setting of a core. Values
	// are whatever the store decoded: string, bool, or float64 for JSON.
	CoreSetting(coreID string, setting Setting) (any, bool)
}

// Logger is the logging collaborator. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

package libretro

import "unsafe"

// Core is the set of operations the frontend drives a core through.
// *FunctionTable implements it; optional entry points a core does not
// export degrade to no-ops and zero values.
type Core interface {
	Init()
	Deinit()
	APIVersion() uint32
	SystemInfo() SystemInfo
	SystemAVInfo() SystemAVInfo

	// SetCallbacks registers cb for every host callback. Passing nil
	// detaches the frontend without touching the core.
	SetCallbacks(cb Callbacks)

	// LoadGame hands the game to the core. data is nil when the core
	// loads from path itself. Both stay pinned until ReleaseGame.
	LoadGame(path string, data []byte) bool
	ReleaseGame()

	Run()

	// Memory returns the core-owned region for id, or nil.
	Memory(id uint32) []byte

	SerializeSize() int
	Serialize(buf []byte) bool
	Unserialize(buf []byte) bool
}

// Callbacks receives the calls a core makes back into the frontend. All
// calls arrive on the goroutine that is inside Run, LoadGame or Init.
type Callbacks interface {
	Environment(cmd uint32, data unsafe.Pointer) bool

	// VideoRefresh delivers a frame. frame is nil when the core asks to
	// show the previous frame again. It spans pitch*height bytes of core
	// memory and must not be kept after the call returns.
	VideoRefresh(frame []byte, width, height, pitch int)

	AudioSample(left, right int16)

	// AudioSampleBatch receives interleaved stereo samples and returns the
	// number of frames consumed.
	AudioSampleBatch(samples []int16) int

	InputPoll()
	InputState(port, device, index, id uint32) int16
}

package frontend

import (
	"time"

	hostapi "github.com/user-none/retrohost/api"
	"github.com/user-none/retrohost/libretro"
)

const (
	// Timestep is the fixed interval between core frames. The core's own
	// declared frame rate only affects the audio sample rate.
	Timestep = time.Second / 60

	// MaxCatchUp bounds the accumulated time after a stall.
	MaxCatchUp = 3 * Timestep

	// ResumeInputDelay is how long input reads as released after resuming.
	ResumeInputDelay = 200 * time.Millisecond
)

// FramePump steps a core at a fixed rate and carries its video, audio and
// input callbacks to the host. Everything here is touched only from the
// goroutine calling Step, including from inside the core's callbacks.
type FramePump struct {
	log   hostapi.Logger
	video hostapi.VideoSink
	audio hostapi.AudioSink
	input hostapi.InputSource

	run    func()
	mapper *InputMapper

	accumulator time.Duration
	ignoreInput time.Duration
	inRun       bool

	// Scratch buffers only grow.
	pixels []byte
	frames []hostapi.StereoFrame

	width, height int
	droppedFrames int
	badFrameLogs  int
}

// NewFramePump creates a pump delivering to the given sinks. Any of them
// may be nil.
func NewFramePump(log hostapi.Logger, video hostapi.VideoSink, audio hostapi.AudioSink, input hostapi.InputSource) *FramePump {
	return &FramePump{log: log, video: video, audio: audio, input: input}
}

// Attach points the pump at a core's run function and input layout and
// clears timing state.
func (p *FramePump) Attach(run func(), mapper *InputMapper) {
	p.run = run
	p.mapper = mapper
	p.accumulator = 0
	p.ignoreInput = 0
	p.droppedFrames = 0
	p.badFrameLogs = 0
}

// Detach forgets the core. Scratch buffers are kept for the next one.
func (p *FramePump) Detach() {
	p.run = nil
	p.mapper = nil
	p.accumulator = 0
	p.ignoreInput = 0
}

// InRun reports whether the core is currently inside a frame.
func (p *FramePump) InRun() bool {
	return p.inRun
}

// IgnoreInput reports every button as released for d.
func (p *FramePump) IgnoreInput(d time.Duration) {
	p.ignoreInput = d
}

// FrameSize returns the dimensions of the last presented frame.
func (p *FramePump) FrameSize() (width, height int) {
	return p.width, p.height
}

// DroppedAudioFrames returns how many audio frames were discarded because
// the sink was full.
func (p *FramePump) DroppedAudioFrames() int {
	return p.droppedFrames
}

// Step advances by elapsed wall time and returns how many core frames ran.
// Nothing runs unless running is set; the ignore-input timer counts down
// regardless.
func (p *FramePump) Step(elapsed time.Duration, running bool) int {
	if p.inRun {
		return 0
	}
	if elapsed < 0 {
		elapsed = 0
	}
	if p.ignoreInput > 0 {
		p.ignoreInput = max(0, p.ignoreInput-elapsed)
	}
	if !running || p.run == nil {
		return 0
	}

	p.accumulator = min(p.accumulator+elapsed, MaxCatchUp)

	n := 0
	for p.accumulator >= Timestep {
		p.accumulator -= Timestep
		p.inRun = true
		p.run()
		p.inRun = false
		n++
	}
	return n
}

// VideoRefresh strips pitch padding from a core frame and hands the packed
// pixels to the video sink.
func (p *FramePump) VideoRefresh(frame []byte, width, height, pitch int, format hostapi.PixelFormat) {
	if frame == nil || p.video == nil {
		return
	}
	bpp := format.BytesPerPixel()
	if width <= 0 || height <= 0 || bpp == 0 {
		return
	}

	line := width * bpp
	if pitch < line || len(frame) < (height-1)*pitch+line {
		if p.badFrameLogs < 3 {
			p.badFrameLogs++
			p.log.Printf("Warning: dropping malformed %dx%d frame (pitch %d, %s)", width, height, pitch, format)
		}
		return
	}

	size := line * height
	if len(p.pixels) < size {
		p.pixels = make([]byte, size)
	}
	dst := p.pixels[:size]

	if pitch == line {
		copy(dst, frame[:size])
	} else {
		for y := 0; y < height; y++ {
			copy(dst[y*line:(y+1)*line], frame[y*pitch:y*pitch+line])
		}
	}

	p.width, p.height = width, height
	p.video.Frame(dst, width, height, format)
}

// AudioSample pushes one stereo frame.
func (p *FramePump) AudioSample(left, right int16) {
	if p.audio == nil {
		return
	}
	p.audio.PushFrame(hostapi.StereoFrame{Left: normalize(left), Right: normalize(right)})
}

// AudioSampleBatch pushes interleaved stereo samples. A batch larger than
// the sink's free space is dropped whole. The return value is the number
// of frames consumed, which includes dropped ones.
func (p *FramePump) AudioSampleBatch(samples []int16) int {
	n := len(samples) / 2
	if p.audio == nil || n == 0 {
		return n
	}
	if p.audio.FramesAvailable() < n {
		p.droppedFrames += n
		return n
	}

	if len(p.frames) < n {
		p.frames = make([]hostapi.StereoFrame, n)
	}
	out := p.frames[:n]
	for i := range out {
		out[i] = hostapi.StereoFrame{Left: normalize(samples[2*i]), Right: normalize(samples[2*i+1])}
	}
	p.audio.PushFrames(out)
	return n
}

func normalize(s int16) float32 {
	return float32(s) / 32768
}

// InputState answers a core's button query. Only the first port's joypad
// is wired to the host.
func (p *FramePump) InputState(port, device, index, id uint32) int16 {
	if p.ignoreInput > 0 || p.input == nil || p.mapper == nil {
		return 0
	}
	if port != 0 || device != libretro.DeviceJoypad {
		return 0
	}
	action := p.mapper.Action(id)
	if action == "" {
		return 0
	}
	if p.input.IsActionPressed(action) {
		return 1
	}
	return 0
}

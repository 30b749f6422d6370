package host

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	hostapi "github.com/user-none/retrohost/api"
)

const audioSampleRate = 48000

// bytesPerFrame is one S16LE stereo frame.
const bytesPerFrame = 4

// ringBufferCapacity is ~167ms at 48kHz stereo 16-bit (~32KB).
const ringBufferCapacity = 32768

// oto context singleton
var (
	otoCtx      *oto.Context
	otoInitOnce sync.Once
	otoInitErr  error
)

// ensureOtoContext initializes the oto audio context on first use.
func ensureOtoContext() (*oto.Context, error) {
	otoInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   audioSampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		}
		var readyChan chan struct{}
		otoCtx, readyChan, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		<-readyChan
	})
	return otoCtx, otoInitErr
}

// Audio is the oto-backed audio sink. Core audio is resampled to 48kHz,
// converted to S16LE and queued in a ring buffer the device pulls from.
type Audio struct {
	player    *oto.Player // nil without an audio device
	ring      *AudioRingBuffer
	resampler *Resampler
	frames    []hostapi.StereoFrame
	bytes     []byte
	volume    float64
	muted     bool
}

var _ hostapi.AudioSink = (*Audio)(nil)

// NewAudio opens the audio device. The volume is applied before playback
// starts so a muted start does not pop.
func NewAudio(volume float64, muted bool) (*Audio, error) {
	ctx, err := ensureOtoContext()
	if err != nil {
		return nil, fmt.Errorf("oto audio not available: %w", err)
	}

	a := newAudio(NewAudioRingBuffer(ringBufferCapacity))
	a.player = ctx.NewPlayer(a.ring)
	// ~50ms instead of the 0.5s default keeps latency close to the ring.
	a.player.SetBufferSize(19200)
	a.SetVolume(volume)
	a.SetMuted(muted)
	return a, nil
}

func newAudio(ring *AudioRingBuffer) *Audio {
	return &Audio{
		ring:      ring,
		resampler: NewResampler(audioSampleRate),
		bytes:     make([]byte, 0, 4096),
		volume:    1,
	}
}

// SetSampleRate sets the rate the core produces audio at.
func (a *Audio) SetSampleRate(rate float64) {
	a.resampler.SetInputRate(rate)
	a.ring.Clear()
}

// PushFrame queues one frame.
func (a *Audio) PushFrame(frame hostapi.StereoFrame) {
	a.PushFrames([]hostapi.StereoFrame{frame})
}

// PushFrames resamples and queues a batch.
func (a *Audio) PushFrames(frames []hostapi.StereoFrame) {
	a.frames = a.resampler.Process(frames, a.frames[:0])
	if len(a.frames) == 0 {
		return
	}

	a.bytes = a.bytes[:0]
	for _, f := range a.frames {
		l, r := toS16(f.Left), toS16(f.Right)
		a.bytes = append(a.bytes, byte(l), byte(l>>8), byte(r), byte(r>>8))
	}
	a.ring.Write(a.bytes)
}

// FramesAvailable reports free space in source-rate frames.
func (a *Audio) FramesAvailable() int {
	out := a.ring.Free() / bytesPerFrame
	return int(float64(out) / a.resampler.Ratio())
}

// SetPaused stops or resumes the device and drops queued audio on pause.
func (a *Audio) SetPaused(paused bool) {
	if paused {
		a.ring.Clear()
		a.resampler.Reset()
	}
	if a.player == nil {
		return
	}
	if paused {
		a.player.Pause()
	} else if !a.player.IsPlaying() {
		a.player.Play()
	}
}

// SetVolume sets the playback volume (0.0 = silent, 1.0 = normal, 2.0 = max).
// Values are clamped to [0.0, 2.0].
func (a *Audio) SetVolume(vol float64) {
	a.volume = math.Max(0, math.Min(vol, 2))
	a.applyVolume()
}

// SetMuted silences output without forgetting the volume.
func (a *Audio) SetMuted(muted bool) {
	a.muted = muted
	a.applyVolume()
}

func (a *Audio) applyVolume() {
	if a.player == nil {
		return
	}
	if a.muted {
		a.player.SetVolume(0)
	} else {
		a.player.SetVolume(a.volume)
	}
}

// Close cleans up audio resources.
func (a *Audio) Close() {
	a.ring.Close()
	if a.player != nil {
		a.player.Close()
	}
}

func toS16(v float32) int16 {
	s := v * 32768
	switch {
	case s >= math.MaxInt16:
		return math.MaxInt16
	case s <= math.MinInt16:
		return math.MinInt16
	default:
		return int16(s)
	}
}

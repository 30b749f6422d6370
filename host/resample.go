package host

import hostapi "github.com/user-none/retrohost/api"

// Resampler converts stereo audio between sample rates by linear
// interpolation. State carries across calls so consecutive batches join
// without clicks.
type Resampler struct {
	outRate float64
	step    float64 // source frames per output frame
	pos     float64
	prev    hostapi.StereoFrame
	primed  bool
}

// NewResampler creates a resampler producing outRate frames per second
// from input at the same rate until SetInputRate is called.
func NewResampler(outRate float64) *Resampler {
	return &Resampler{outRate: outRate, step: 1}
}

// SetInputRate sets the source rate and resets interpolation state.
// Non-positive rates are treated as the output rate.
func (r *Resampler) SetInputRate(rate float64) {
	if rate <= 0 {
		rate = r.outRate
	}
	r.step = rate / r.outRate
	r.Reset()
}

// Ratio returns output frames per source frame.
func (r *Resampler) Ratio() float64 {
	return 1 / r.step
}

// Reset forgets the previous frame.
func (r *Resampler) Reset() {
	r.pos = 0
	r.primed = false
	r.prev = hostapi.StereoFrame{}
}

// Process appends the resampled form of in to out and returns it.
func (r *Resampler) Process(in, out []hostapi.StereoFrame) []hostapi.StereoFrame {
	for _, cur := range in {
		if !r.primed {
			r.prev = cur
			r.primed = true
			continue
		}
		for r.pos < 1 {
			t := float32(r.pos)
			out = append(out, hostapi.StereoFrame{
				Left:  r.prev.Left + (cur.Left-r.prev.Left)*t,
				Right: r.prev.Right + (cur.Right-r.prev.Right)*t,
			})
			r.pos += r.step
		}
		r.pos -= 1
		r.prev = cur
	}
	return out
}

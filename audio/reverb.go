package audio

import (
	"math"

	"github.com/simukka/guessnote/common"
)

type tap struct {
	delay int
	gain  float64
}

// reverb convolves each channel with a generated impulse response.
// The response is decaying noise stored as sparse signed taps ("velvet
// noise") so the convolution costs one multiply per tap.
type reverb struct {
	taps  [2][]tap
	hist  [2][]float64
	pos   int
	quiet int // consecutive silent input frames
}

// newReverb builds an impulse response of duration seconds whose envelope
// is (1-t)^decay, with density taps per second per channel.
func newReverb(sampleRate int, duration, decay, density float64, rng *common.SeededRNG) *reverb {
	length := int(float64(sampleRate) * duration)
	if length < 1 {
		length = 1
	}
	period := float64(sampleRate) / density
	if period < 1 {
		period = 1
	}

	rv := &reverb{}
	for ch := 0; ch < 2; ch++ {
		var taps []tap
		energy := 0.0
		for k := 0; ; k++ {
			pos := int(float64(k)*period + rng.Random()*period)
			if pos >= length {
				break
			}
			progress := float64(pos) / float64(length)
			g := math.Pow(1-progress, decay)
			if rng.Random() < 0.5 {
				g = -g
			}
			taps = append(taps, tap{delay: pos, gain: g})
			energy += g * g
		}
		if energy > 0 {
			norm := 1 / math.Sqrt(energy)
			for i := range taps {
				taps[i].gain *= norm
			}
		}
		rv.taps[ch] = taps
		rv.hist[ch] = make([]float64, length)
	}
	return rv
}

// process pushes one stereo frame and returns the wet output.
func (rv *reverb) process(inL, inR float64) (float64, float64) {
	size := len(rv.hist[0])
	rv.hist[0][rv.pos] = inL
	rv.hist[1][rv.pos] = inR

	if inL == 0 && inR == 0 {
		rv.quiet++
	} else {
		rv.quiet = 0
	}
	if rv.quiet > size {
		// the whole history is silent
		rv.advance(size)
		return 0, 0
	}

	var out [2]float64
	for ch := 0; ch < 2; ch++ {
		hist := rv.hist[ch]
		sum := 0.0
		for _, tp := range rv.taps[ch] {
			idx := rv.pos - tp.delay
			if idx < 0 {
				idx += size
			}
			sum += hist[idx] * tp.gain
		}
		out[ch] = sum
	}

	rv.advance(size)
	return out[0], out[1]
}

func (rv *reverb) advance(size int) {
	rv.pos++
	if rv.pos >= size {
		rv.pos = 0
	}
}

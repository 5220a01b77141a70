package audio

import "math"

// FilterType selects the biquad response.
type FilterType int

const (
	Lowpass FilterType = iota
	Highpass
	Peaking
	Highshelf
)

// Biquad is a second order IIR filter with the BiquadFilterNode response
// curves. Lowpass and highpass Q is in dB, peaking Q is bandwidth, shelf
// ignores Q.
type Biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	z1, z2     float64
}

// NewBiquad computes coefficients for a fixed filter.
func NewBiquad(kind FilterType, sampleRate, freq, q, gainDB float64) *Biquad {
	nyquist := sampleRate / 2
	if freq > nyquist*0.999 {
		freq = nyquist * 0.999
	}
	if freq < 1 {
		freq = 1
	}
	w0 := 2 * math.Pi * freq / sampleRate
	cosW := math.Cos(w0)
	sinW := math.Sin(w0)
	A := math.Pow(10, gainDB/40)

	var b0, b1, b2, a0, a1, a2 float64
	switch kind {
	case Lowpass:
		alpha := sinW / (2 * math.Pow(10, q/20))
		b0 = (1 - cosW) / 2
		b1 = 1 - cosW
		b2 = (1 - cosW) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW
		a2 = 1 - alpha
	case Highpass:
		alpha := sinW / (2 * math.Pow(10, q/20))
		b0 = (1 + cosW) / 2
		b1 = -(1 + cosW)
		b2 = (1 + cosW) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW
		a2 = 1 - alpha
	case Peaking:
		if q <= 0 {
			q = 0.0001
		}
		alpha := sinW / (2 * q)
		b0 = 1 + alpha*A
		b1 = -2 * cosW
		b2 = 1 - alpha*A
		a0 = 1 + alpha/A
		a1 = -2 * cosW
		a2 = 1 - alpha/A
	case Highshelf:
		// shelf slope S = 1
		alpha := sinW / 2 * math.Sqrt2
		sqA := 2 * math.Sqrt(A) * alpha
		b0 = A * ((A + 1) + (A-1)*cosW + sqA)
		b1 = -2 * A * ((A - 1) + (A+1)*cosW)
		b2 = A * ((A + 1) + (A-1)*cosW - sqA)
		a0 = (A + 1) - (A-1)*cosW + sqA
		a1 = 2 * ((A - 1) - (A+1)*cosW)
		a2 = (A + 1) - (A-1)*cosW - sqA
	}

	return &Biquad{
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b2 / a0,
		a1: a1 / a0,
		a2: a2 / a0,
	}
}

// Process filters one sample (transposed direct form II).
func (f *Biquad) Process(x float64) float64 {
	y := f.b0*x + f.z1
	f.z1 = f.b1*x - f.a1*y + f.z2
	f.z2 = f.b2*x - f.a2*y
	return y
}

// Reset clears the filter state.
func (f *Biquad) Reset() {
	f.z1, f.z2 = 0, 0
}

// Response returns the magnitude response at freq.
func (f *Biquad) Response(sampleRate, freq float64) float64 {
	w := 2 * math.Pi * freq / sampleRate
	// H(z) at z = e^{jw}
	cr1, ci1 := math.Cos(-w), math.Sin(-w)
	cr2, ci2 := math.Cos(-2*w), math.Sin(-2*w)
	nr := f.b0 + f.b1*cr1 + f.b2*cr2
	ni := f.b1*ci1 + f.b2*ci2
	dr := 1 + f.a1*cr1 + f.a2*cr2
	di := f.a1*ci1 + f.a2*ci2
	return math.Hypot(nr, ni) / math.Hypot(dr, di)
}

package audio

import "math"

const waveTableSize = 4096

// WaveTable is one cycle of a periodic waveform built from sine partials.
type WaveTable struct {
	Harmonics int
	Rolloff   float64
	samples   []float64
}

// NewWaveTable builds a table whose partial n has amplitude 1/n^rolloff.
// The result is normalized so its peak is 1.
func NewWaveTable(harmonics int, rolloff float64) *WaveTable {
	w := &WaveTable{
		Harmonics: harmonics,
		Rolloff:   rolloff,
		samples:   make([]float64, waveTableSize+1),
	}

	peak := 0.0
	for i := 0; i < waveTableSize; i++ {
		phase := 2 * math.Pi * float64(i) / waveTableSize
		v := 0.0
		for n := 1; n <= harmonics; n++ {
			v += math.Sin(float64(n)*phase) / math.Pow(float64(n), rolloff)
		}
		w.samples[i] = v
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak > 0 {
		for i := range w.samples {
			w.samples[i] /= peak
		}
	}
	// guard sample for interpolation
	w.samples[waveTableSize] = w.samples[0]
	return w
}

// At returns the interpolated value at phase in [0, 1).
func (w *WaveTable) At(phase float64) float64 {
	pos := phase * waveTableSize
	i := int(pos)
	frac := pos - float64(i)
	return w.samples[i] + (w.samples[i+1]-w.samples[i])*frac
}

// Fourier returns the cosine and sine terms of the table for a WebAudio
// PeriodicWave. Index 0 is the DC term.
func (w *WaveTable) Fourier() (real, imag []float64) {
	real = make([]float64, w.Harmonics+1)
	imag = make([]float64, w.Harmonics+1)
	for n := 1; n <= w.Harmonics; n++ {
		imag[n] = 1 / math.Pow(float64(n), w.Rolloff)
	}
	return real, imag
}

// Peak returns the largest absolute sample.
func (w *WaveTable) Peak() float64 {
	peak := 0.0
	for _, v := range w.samples[:waveTableSize] {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// The tables the timbre presets choose from.
var (
	sineWave  = NewWaveTable(1, 1)
	warmWave  = NewWaveTable(9, 2.35)
	feltWave  = NewWaveTable(7, 2.8)
	pianoWave = NewWaveTable(8, 2.55)
)

// oscillator reads a wave table at a fixed detuned frequency.
type oscillator struct {
	table *WaveTable
	phase float64
	inc   float64
}

func newOscillator(table *WaveTable, freq, detuneCents, sampleRate float64) oscillator {
	f := freq * math.Pow(2, detuneCents/1200)
	return oscillator{table: table, inc: f / sampleRate}
}

func (o *oscillator) next() float64 {
	v := o.table.At(o.phase)
	o.phase += o.inc
	if o.phase >= 1 {
		o.phase -= math.Floor(o.phase)
	}
	return v
}

package audio

// Instrument presets, rotated per round.
const (
	WarmPiano = iota
	FeltPiano
	SoftEPiano
	numInstruments
)

// Timbre is the per-note voicing picked from the current preset.
type Timbre struct {
	Wave     *WaveTable
	LpMul    float64 // lowpass cutoff as a multiple of the note frequency
	BodyGain float64 // dB, peaking body filter
	HsGain   float64 // dB, high shelf
	SineGain float64
	MixGain  float64 // gain of the two wave table oscillators
}

// normalizeInstrument maps any integer onto a preset index.
func normalizeInstrument(n int) int {
	return ((n % numInstruments) + numInstruments) % numInstruments
}

// pickTimbre returns the voicing for preset given a uniform random r in [0, 1).
func pickTimbre(preset int, r float64) Timbre {
	switch preset {
	case FeltPiano:
		return Timbre{
			Wave:     feltWave,
			LpMul:    3.8 + r*0.35,
			BodyGain: 0.9 + r*0.18,
			HsGain:   -18,
			SineGain: 0.9,
			MixGain:  0.1,
		}
	case SoftEPiano:
		// round, less body peak
		return Timbre{
			Wave:     pianoWave,
			LpMul:    5.0 + r*0.45,
			BodyGain: 0.75 + r*0.18,
			HsGain:   -16,
			SineGain: 0.94,
			MixGain:  0.08,
		}
	}

	if r < 0.65 {
		return Timbre{
			Wave:     warmWave,
			LpMul:    4.6 + r*0.25,
			BodyGain: 1.15,
			HsGain:   -16,
			SineGain: 0.88,
			MixGain:  0.12,
		}
	}
	return Timbre{
		Wave:     feltWave,
		LpMul:    4.9 + r*0.25,
		BodyGain: 0.95,
		HsGain:   -16,
		SineGain: 0.88,
		MixGain:  0.12,
	}
}

// InstrumentName returns a display name for a preset index.
func InstrumentName(n int) string {
	switch normalizeInstrument(n) {
	case FeltPiano:
		return "felt piano"
	case SoftEPiano:
		return "soft e-piano"
	}
	return "warm piano"
}

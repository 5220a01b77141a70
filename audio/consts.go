package audio

// Floor values for exponential automation. Exponential ramps cannot reach 0.
const (
	silentGain = 0.0001
	minPeak    = 0.0002
)

// DefaultConfig is the tuning the game ships with.
var DefaultConfig = Config{
	// Output
	SampleRate:  44100,
	Channels:    2,
	BlockFrames: 128,

	// Master settings
	MasterVolume:  0.7,
	UnmutedVolume: 0.85,
	DryGain:       0.9,
	WetGain:       0.16,

	// Reverb impulse response
	ReverbTime:    1.25,
	ReverbDecay:   3.0,
	ReverbDensity: 400,

	// Compressor
	CompThreshold: -20,
	CompKnee:      18,
	CompRatio:     3,
	CompAttack:    0.004,
	CompRelease:   0.2,

	// Note envelope
	EnvAttack:  0.006,
	EnvDecay:   0.14,
	EnvSustain: 0.18,
	EnvRelease: 1.35,
	StopPad:    0.04,

	// Voice filter chain
	HighpassFreq: 55,
	HighpassQ:    0.7,
	BodyQ:        0.9,
	BodyMinFreq:  250,
	BodyMaxFreq:  1300,
	LowpassMax:   2200,
	LowpassQ:     0.6,
	ShelfFreq:    2300,
	PanSpread:    0.06,
	DetuneCents:  0.5,
	Detune2Cents: 1.6,
	Detune2Range: 0.6,

	// Hammer noise (off: it reads as metallic)
	HammerGain: 0,
	HammerTime: 0.03,
	HammerFreq: 1200,

	// KillAll fades
	KillFadeImmediate: 0.01,
	KillStopImmediate: 0.015,
	KillFade:          0.06,
	KillStop:          0.08,

	// Playback defaults
	DefaultGap:            0.95,
	DefaultDuration:       1.05,
	SequenceVelocity:      0.95,
	ChordVelocity:         0.9,
	ChordSequenceVelocity: 0.92,
	SequenceLeadIn:        0.06,
	ChordSequenceLeadIn:   0.08,
	StrumOffsets:          []float64{0, 0.012, 0.02, 0.028, 0.036},
	StrumVelocity:         0.92,
}

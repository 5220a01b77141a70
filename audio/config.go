package audio

// Config holds the synthesis tunables. Zero output fields take the
// DefaultConfig values in NewEngine.
type Config struct {
	// Output
	SampleRate  int // frames per second
	Channels    int // 1 or 2
	BlockFrames int // frames mixed per internal block

	// Master settings
	MasterVolume  float64 // initial master gain
	UnmutedVolume float64 // master gain after SetMuted(false)
	DryGain       float64 // dry path level into the compressor
	WetGain       float64 // reverb return level

	// Reverb impulse response
	ReverbTime    float64 // IR length in seconds
	ReverbDecay   float64 // exponent of the (1-t)^decay envelope
	ReverbDensity float64 // velvet taps per second per channel

	// Compressor
	CompThreshold float64 // dB
	CompKnee      float64 // dB
	CompRatio     float64
	CompAttack    float64 // seconds
	CompRelease   float64 // seconds

	// Note envelope
	EnvAttack  float64 // seconds to peak
	EnvDecay   float64 // seconds from peak to sustain
	EnvSustain float64 // sustain level as a fraction of velocity
	EnvRelease float64 // seconds from end of note to silence
	StopPad    float64 // extra time before oscillators stop

	// Voice filter chain
	HighpassFreq float64
	HighpassQ    float64 // dB
	BodyQ        float64
	BodyMinFreq  float64
	BodyMaxFreq  float64
	LowpassMax   float64 // cap on f*lpMul
	LowpassQ     float64 // dB
	ShelfFreq    float64
	PanSpread    float64 // random pan range, +/-
	DetuneCents  float64 // osc random detune range, +/-
	Detune2Cents float64 // osc2 base detune
	Detune2Range float64 // osc2 random detune range, +/-

	// Hammer noise burst per note. Zero disables it.
	HammerGain float64
	HammerTime float64 // seconds
	HammerFreq float64 // highpass cutoff for the burst

	// KillAll fades
	KillFadeImmediate float64
	KillStopImmediate float64
	KillFade          float64
	KillStop          float64

	// Playback defaults
	DefaultGap            float64
	DefaultDuration       float64
	SequenceVelocity      float64
	ChordVelocity         float64
	ChordSequenceVelocity float64
	SequenceLeadIn        float64
	ChordSequenceLeadIn   float64
	StrumOffsets          []float64 // onset offset per chord note, 0 beyond the end
	StrumVelocity         float64   // velocity multiplier for all but the first chord note
}

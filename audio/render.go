package audio

import "fmt"

// RenderChordSequence plays chords on a fresh offline engine and returns
// the interleaved output, release tail included.
func RenderChordSequence(cfg Config, seed uint32, instrument int, chords [][]float64, opts SequenceOptions) ([]float32, error) {
	e := NewEngine(cfg, WithDevice(Offline()), WithSeed(seed))
	if err := e.Init(); err != nil {
		return nil, fmt.Errorf("init offline engine: %w", err)
	}
	defer e.Shutdown()

	cfg = e.Config()
	e.SetInstrument(instrument)
	opts = opts.withDefaults(cfg.DefaultGap, cfg.DefaultDuration, cfg.ChordSequenceVelocity)
	end := e.PlayChordSequence(chords, opts, false)

	// last onset + longest strum + note + release
	tail := end - opts.Gap + opts.Duration + cfg.EnvRelease + cfg.StopPad
	if n := len(cfg.StrumOffsets); n > 0 {
		tail += cfg.StrumOffsets[n-1]
	}
	if len(chords) == 0 {
		tail = 0
	}
	return e.RenderSeconds(tail), nil
}

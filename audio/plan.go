package audio

import (
	"math"

	"github.com/simukka/guessnote/common"
)

// automation is the scheduling surface shared by Param and a WebAudio
// AudioParam.
type automation interface {
	SetValueAtTime(v, t float64)
	ExponentialRampToValueAtTime(v, t float64)
	CancelScheduledValues(t float64)
	ValueAt(t float64) float64
}

// notePlan is everything derived or random about one note. The sample
// renderer and the WebAudio graph build the same sound from it.
type notePlan struct {
	Freq   float64
	Start  float64
	Dur    float64
	Vel    float64
	StopAt float64

	Timbre  Timbre
	Detune  float64 // cents, first wave table oscillator
	Detune2 float64 // cents, second wave table oscillator
	Pan     float64 // [-1, 1]

	BodyFreq    float64
	LowpassFreq float64
}

// planNote draws the note's random choices from rng. The draw order is
// fixed so a seeded engine always voices a note the same way.
func planNote(cfg Config, rng *common.SeededRNG, instrument int, freq, t, dur, vel float64) notePlan {
	timbre := pickTimbre(instrument, rng.Random())
	pan := rng.Bipolar() * cfg.PanSpread
	detune := rng.Bipolar() * cfg.DetuneCents
	detune2 := cfg.Detune2Cents + rng.Bipolar()*cfg.Detune2Range
	return notePlan{
		Freq:        freq,
		Start:       t,
		Dur:         dur,
		Vel:         vel,
		StopAt:      t + dur + cfg.EnvRelease + cfg.StopPad,
		Timbre:      timbre,
		Detune:      detune,
		Detune2:     detune2,
		Pan:         pan,
		BodyFreq:    common.Clamp(freq*3, cfg.BodyMinFreq, cfg.BodyMaxFreq),
		LowpassFreq: math.Min(cfg.LowpassMax, freq*timbre.LpMul),
	}
}

// scheduleEnvelope writes the note gain envelope: a fast exponential
// attack, a decay to the sustain level, a hold until the note ends and an
// exponential release.
func scheduleEnvelope(g automation, cfg Config, p notePlan) {
	peak := math.Max(minPeak, p.Vel)
	sustain := math.Max(minPeak, p.Vel*cfg.EnvSustain)
	t := p.Start
	g.SetValueAtTime(silentGain, t)
	g.ExponentialRampToValueAtTime(peak, t+cfg.EnvAttack)
	g.ExponentialRampToValueAtTime(sustain, t+cfg.EnvAttack+cfg.EnvDecay)
	g.SetValueAtTime(sustain, t+math.Max(0.06, p.Dur))
	g.ExponentialRampToValueAtTime(silentGain, t+p.Dur+cfg.EnvRelease)
}

// fadeGain freezes g at its current value and ramps it to silence.
func fadeGain(g automation, now, fade float64) {
	cur := g.ValueAt(now)
	if cur <= 0 {
		cur = silentGain
	}
	g.CancelScheduledValues(now)
	g.SetValueAtTime(cur, now)
	g.ExponentialRampToValueAtTime(silentGain, now+fade)
}

// strum returns the onset offset and velocity of note i of a chord.
func strum(cfg Config, i int, vel float64) (float64, float64) {
	offset := 0.0
	if i < len(cfg.StrumOffsets) {
		offset = cfg.StrumOffsets[i]
	}
	if i > 0 {
		vel *= cfg.StrumVelocity
	}
	return offset, vel
}

// killTimes returns the fade length and stop delay KillAll uses.
func killTimes(cfg Config, immediate bool) (float64, float64) {
	if immediate {
		return cfg.KillFadeImmediate, cfg.KillStopImmediate
	}
	return cfg.KillFade, cfg.KillStop
}

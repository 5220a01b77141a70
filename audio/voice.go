package audio

import (
	"math"

	"github.com/simukka/guessnote/common"
)

// VoiceInfo is a read-only snapshot of a scheduled note or noise burst.
type VoiceInfo struct {
	Freq   float64
	Start  float64
	StopAt float64
}

// sounder is anything the mixer pulls samples from.
type sounder interface {
	// render adds the block starting at t0 into l and r and reports
	// whether the sounder has finished.
	render(l, r []float64, t0, dt float64) bool
	fadeOut(now, fade, stop float64)
	info() VoiceInfo
}

// voice is one synthesized note: sine plus two detuned wave table
// oscillators through the body filter chain, a pan and a gain envelope.
type voice struct {
	freq   float64
	start  float64
	stopAt float64

	sine, osc, osc2   oscillator
	sineGain, mixGain float64

	hp, body, lp, hs *Biquad
	panL, panR       float64
	gain             *Param
}

func newVoice(cfg Config, p notePlan) *voice {
	sr := float64(cfg.SampleRate)
	panL, panR := panGains(p.Pan)

	v := &voice{
		freq:     p.Freq,
		start:    p.Start,
		stopAt:   p.StopAt,
		sine:     newOscillator(sineWave, p.Freq, 0, sr),
		osc:      newOscillator(p.Timbre.Wave, p.Freq, p.Detune, sr),
		osc2:     newOscillator(p.Timbre.Wave, p.Freq, p.Detune2, sr),
		sineGain: p.Timbre.SineGain,
		mixGain:  p.Timbre.MixGain,
		hp:       NewBiquad(Highpass, sr, cfg.HighpassFreq, cfg.HighpassQ, 0),
		body:     NewBiquad(Peaking, sr, p.BodyFreq, cfg.BodyQ, p.Timbre.BodyGain),
		lp:       NewBiquad(Lowpass, sr, p.LowpassFreq, cfg.LowpassQ, 0),
		hs:       NewBiquad(Highshelf, sr, cfg.ShelfFreq, 0, p.Timbre.HsGain),
		panL:     panL,
		panR:     panR,
		gain:     NewParam(silentGain),
	}
	scheduleEnvelope(v.gain, cfg, p)
	return v
}

// panGains is an equal power pan of a mono signal, pan in [-1, 1].
func panGains(pan float64) (float64, float64) {
	x := (common.Clamp(pan, -1, 1) + 1) / 2
	return math.Cos(x * math.Pi / 2), math.Sin(x * math.Pi / 2)
}

func (v *voice) render(l, r []float64, t0, dt float64) bool {
	for i := range l {
		t := t0 + float64(i)*dt
		if t < v.start {
			continue
		}
		if t >= v.stopAt {
			return true
		}
		s := v.sine.next()*v.sineGain + (v.osc.next()+v.osc2.next())*v.mixGain
		s = v.hs.Process(v.lp.Process(v.body.Process(v.hp.Process(s))))
		s *= v.gain.ValueAt(t)
		l[i] += s * v.panL
		r[i] += s * v.panR
	}
	return t0+float64(len(l))*dt >= v.stopAt
}

func (v *voice) fadeOut(now, fade, stop float64) {
	fadeGain(v.gain, now, fade)
	if now+stop < v.stopAt {
		v.stopAt = now + stop
	}
}

func (v *voice) info() VoiceInfo {
	return VoiceInfo{Freq: v.freq, Start: v.start, StopAt: v.stopAt}
}

// noiseVoice is a short highpassed noise burst layered on a note attack.
type noiseVoice struct {
	start  float64
	stopAt float64
	rng    *common.SeededRNG
	hp     *Biquad
	gain   *Param
}

func newNoiseVoice(cfg Config, seed uint32, t, vel float64) *noiseVoice {
	n := &noiseVoice{
		start:  t,
		stopAt: t + cfg.HammerTime + cfg.StopPad,
		rng:    common.NewSeededRNG(seed),
		hp:     NewBiquad(Highpass, float64(cfg.SampleRate), cfg.HammerFreq, 0, 0),
		gain:   NewParam(silentGain),
	}
	n.gain.SetValueAtTime(math.Max(minPeak, vel*cfg.HammerGain), t)
	n.gain.ExponentialRampToValueAtTime(silentGain, t+cfg.HammerTime)
	return n
}

func (n *noiseVoice) render(l, r []float64, t0, dt float64) bool {
	for i := range l {
		t := t0 + float64(i)*dt
		if t < n.start {
			continue
		}
		if t >= n.stopAt {
			return true
		}
		s := n.hp.Process(n.rng.Bipolar()) * n.gain.ValueAt(t)
		l[i] += s * math.Sqrt2 / 2
		r[i] += s * math.Sqrt2 / 2
	}
	return t0+float64(len(l))*dt >= n.stopAt
}

func (n *noiseVoice) fadeOut(now, fade, stop float64) {
	fadeGain(n.gain, now, fade)
	if now+stop < n.stopAt {
		n.stopAt = now + stop
	}
}

func (n *noiseVoice) info() VoiceInfo {
	return VoiceInfo{Start: n.start, StopAt: n.stopAt}
}

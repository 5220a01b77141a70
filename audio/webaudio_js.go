//go:build js
// +build js

package audio

import (
	"math"

	"github.com/gopherjs/gopherjs/js"

	"github.com/simukka/guessnote/common"
)

// WebAudio is the browser engine. Every note is a small WebAudio node
// graph, so the browser's audio thread does the synthesis, filtering,
// reverb and compression. It has the same playback API as Engine and
// voices notes the same way; its clock is the AudioContext's currentTime.
type WebAudio struct {
	cfg Config
	rng *common.SeededRNG

	ctx        *js.Object
	masterGain *js.Object
	dryGain    *js.Object
	reverb     *js.Object // ConvolverNode
	reverbGain *js.Object // wet return
	compressor *js.Object
	waves      map[*WaveTable]*js.Object

	ensured    bool
	closed     bool
	muted      bool
	instrument int

	voices   []*webVoice
	noises   []*webVoice
	sounding []*webVoice
}

// NewWebAudio creates a browser engine. Seed 0 picks one from the clock.
// Nothing is created until Init or Ensure.
func NewWebAudio(cfg Config, seed uint32) *WebAudio {
	if seed == 0 {
		seed = common.TimeSeed()
	}
	return &WebAudio{
		cfg:   cfg,
		rng:   common.NewSeededRNG(seed),
		waves: make(map[*WaveTable]*js.Object),
	}
}

// Init creates the AudioContext and the master chain. It must run inside a
// user gesture or the browser keeps the context suspended until Resume.
func (w *WebAudio) Init() error {
	if w.closed {
		return ErrClosed
	}
	if w.ctx != nil {
		return nil
	}

	audioCtx := js.Global.Get("AudioContext")
	if audioCtx == nil || audioCtx == js.Undefined {
		audioCtx = js.Global.Get("webkitAudioContext")
	}
	if audioCtx == nil || audioCtx == js.Undefined {
		return ErrNoAudioContext
	}

	w.ctx = audioCtx.New()

	w.compressor = w.ctx.Call("createDynamicsCompressor")
	w.compressor.Get("threshold").Set("value", w.cfg.CompThreshold)
	w.compressor.Get("knee").Set("value", w.cfg.CompKnee)
	w.compressor.Get("ratio").Set("value", w.cfg.CompRatio)
	w.compressor.Get("attack").Set("value", w.cfg.CompAttack)
	w.compressor.Get("release").Set("value", w.cfg.CompRelease)
	w.compressor.Call("connect", w.ctx.Get("destination"))

	w.masterGain = w.ctx.Call("createGain")
	w.masterGain.Get("gain").Set("value", w.cfg.MasterVolume)

	w.dryGain = w.ctx.Call("createGain")
	w.dryGain.Get("gain").Set("value", w.cfg.DryGain)
	w.masterGain.Call("connect", w.dryGain)
	w.dryGain.Call("connect", w.compressor)

	w.initReverb()

	common.Debugf("audio: webaudio context at %d Hz", w.ctx.Get("sampleRate").Int())
	w.Resume()
	return nil
}

// initReverb sends the master bus through a convolver loaded with the same
// generated velvet-noise response the sample renderer uses.
func (w *WebAudio) initReverb() {
	w.reverbGain = w.ctx.Call("createGain")
	w.reverbGain.Get("gain").Set("value", w.cfg.WetGain)
	w.reverbGain.Call("connect", w.compressor)

	w.reverb = w.ctx.Call("createConvolver")
	// the taps are already energy normalized
	w.reverb.Set("normalize", false)

	sampleRate := w.ctx.Get("sampleRate").Int()
	rv := newReverb(sampleRate, w.cfg.ReverbTime, w.cfg.ReverbDecay, w.cfg.ReverbDensity, w.rng)
	impulse := w.ctx.Call("createBuffer", 2, len(rv.hist[0]), sampleRate)
	for ch := 0; ch < 2; ch++ {
		data := impulse.Call("getChannelData", ch)
		for _, tp := range rv.taps[ch] {
			data.SetIndex(tp.delay, tp.gain)
		}
	}
	w.reverb.Set("buffer", impulse)

	w.masterGain.Call("connect", w.reverb)
	w.reverb.Call("connect", w.reverbGain)
}

// Ensure calls Init once and logs failures instead of returning them.
func (w *WebAudio) Ensure() {
	if w.ensured {
		return
	}
	w.ensured = true
	if err := w.Init(); err != nil {
		common.DebugWarn("audio unavailable:", err)
	}
}

// Resume restarts a suspended context.
func (w *WebAudio) Resume() {
	w.Ensure()
	if w.ctx == nil {
		return
	}
	if w.ctx.Get("state").String() == "suspended" {
		w.ctx.Call("resume")
	}
}

// Ready reports whether the context exists.
func (w *WebAudio) Ready() bool {
	return w.ctx != nil
}

// Shutdown closes the context. The engine cannot be reopened.
func (w *WebAudio) Shutdown() error {
	w.closed = true
	w.voices, w.noises, w.sounding = nil, nil, nil
	if w.ctx == nil {
		return nil
	}
	w.ctx.Call("close")
	w.ctx = nil
	return nil
}

// Time returns the context clock in seconds, 0 without a context.
func (w *WebAudio) Time() float64 {
	w.Ensure()
	return w.now()
}

func (w *WebAudio) now() float64 {
	if w.ctx == nil {
		return 0
	}
	return w.ctx.Get("currentTime").Float()
}

func (w *WebAudio) playable() bool {
	w.Ensure()
	return w.ctx != nil && !w.muted
}

// SetMuted silences the master bus. While muted every play call is a no-op.
func (w *WebAudio) SetMuted(muted bool) {
	w.Ensure()
	w.muted = muted
	if w.masterGain == nil {
		return
	}
	v := w.cfg.UnmutedVolume
	if muted {
		v = 0
	}
	w.masterGain.Get("gain").Set("value", v)
}

// ToggleMuted flips the mute state and returns the new state.
func (w *WebAudio) ToggleMuted() bool {
	w.SetMuted(!w.muted)
	return w.muted
}

// IsMuted reports the mute state.
func (w *WebAudio) IsMuted() bool {
	return w.muted
}

// SetInstrument selects the timbre preset for notes played from now on.
func (w *WebAudio) SetInstrument(n int) {
	w.instrument = normalizeInstrument(n)
}

// Instrument returns the current preset index.
func (w *WebAudio) Instrument() int {
	return w.instrument
}

// Play schedules one note at context time start (negative means now).
func (w *WebAudio) Play(freq, start, dur, vel float64) {
	if !w.playable() {
		return
	}
	if start < 0 {
		start = w.now()
	}
	w.play(freq, start, dur, vel)
}

func (w *WebAudio) play(freq, t, dur, vel float64) {
	w.purge(w.now())

	p := planNote(w.cfg, w.rng, w.instrument, freq, t, dur, vel)
	v := w.buildVoice(p)
	w.voices = append(w.voices, v)
	w.sounding = append(w.sounding, v)

	if w.cfg.HammerGain > 0 {
		n := w.buildNoise(uint32(w.rng.Random()*4294967296), t, vel)
		w.noises = append(w.noises, n)
		w.sounding = append(w.sounding, n)
	}
}

// buildVoice wires sine plus two detuned wave table oscillators through
// highpass, body peak, lowpass, high shelf, pan and the envelope gain.
func (w *WebAudio) buildVoice(p notePlan) *webVoice {
	cfg := w.cfg

	hp := w.filter("highpass", cfg.HighpassFreq, cfg.HighpassQ, 0)
	body := w.filter("peaking", p.BodyFreq, cfg.BodyQ, p.Timbre.BodyGain)
	lp := w.filter("lowpass", p.LowpassFreq, cfg.LowpassQ, 0)
	hs := w.filter("highshelf", cfg.ShelfFreq, 0, p.Timbre.HsGain)
	hp.Call("connect", body)
	body.Call("connect", lp)
	lp.Call("connect", hs)

	env := w.ctx.Call("createGain")
	env.Get("gain").Set("value", silentGain)
	if w.ctx.Get("createStereoPanner") != js.Undefined {
		pan := w.ctx.Call("createStereoPanner")
		pan.Get("pan").Set("value", p.Pan)
		hs.Call("connect", pan)
		pan.Call("connect", env)
	} else {
		hs.Call("connect", env)
	}
	env.Call("connect", w.masterGain)

	sineGain := w.ctx.Call("createGain")
	sineGain.Get("gain").Set("value", p.Timbre.SineGain)
	sineGain.Call("connect", hp)
	mixGain := w.ctx.Call("createGain")
	mixGain.Get("gain").Set("value", p.Timbre.MixGain)
	mixGain.Call("connect", hp)

	sine := w.ctx.Call("createOscillator")
	sine.Set("type", "sine")
	sine.Get("frequency").Set("value", p.Freq)
	sine.Call("connect", sineGain)

	osc := w.oscillator(p.Timbre.Wave, p.Freq, p.Detune)
	osc.Call("connect", mixGain)
	osc2 := w.oscillator(p.Timbre.Wave, p.Freq, p.Detune2)
	osc2.Call("connect", mixGain)

	v := &webVoice{
		info:    VoiceInfo{Freq: p.Freq, Start: p.Start, StopAt: p.StopAt},
		gain:    audioParam{env.Get("gain")},
		sources: []*js.Object{sine, osc, osc2},
	}
	scheduleEnvelope(v.gain, cfg, p)
	for _, src := range v.sources {
		src.Call("start", p.Start)
		src.Call("stop", p.StopAt)
	}
	return v
}

// buildNoise layers a short highpassed noise burst on a note attack.
func (w *WebAudio) buildNoise(seed uint32, t, vel float64) *webVoice {
	cfg := w.cfg
	sampleRate := w.ctx.Get("sampleRate").Int()
	length := common.Max(1, int((cfg.HammerTime+cfg.StopPad)*float64(sampleRate)))

	rng := common.NewSeededRNG(seed)
	buf := w.ctx.Call("createBuffer", 1, length, sampleRate)
	data := buf.Call("getChannelData", 0)
	for i := 0; i < length; i++ {
		data.SetIndex(i, rng.Bipolar()*math.Sqrt2/2)
	}

	src := w.ctx.Call("createBufferSource")
	src.Set("buffer", buf)
	hp := w.filter("highpass", cfg.HammerFreq, 0, 0)
	env := w.ctx.Call("createGain")
	src.Call("connect", hp)
	hp.Call("connect", env)
	env.Call("connect", w.masterGain)

	stopAt := t + cfg.HammerTime + cfg.StopPad
	n := &webVoice{
		info:    VoiceInfo{Start: t, StopAt: stopAt},
		gain:    audioParam{env.Get("gain")},
		sources: []*js.Object{src},
	}
	n.gain.SetValueAtTime(common.Max(minPeak, vel*cfg.HammerGain), t)
	n.gain.ExponentialRampToValueAtTime(silentGain, t+cfg.HammerTime)
	src.Call("start", t)
	src.Call("stop", stopAt)
	return n
}

func (w *WebAudio) filter(kind string, freq, q, gain float64) *js.Object {
	f := w.ctx.Call("createBiquadFilter")
	f.Set("type", kind)
	f.Get("frequency").Set("value", freq)
	if q != 0 {
		f.Get("Q").Set("value", q)
	}
	if gain != 0 {
		f.Get("gain").Set("value", gain)
	}
	return f
}

func (w *WebAudio) oscillator(table *WaveTable, freq, detune float64) *js.Object {
	wave, ok := w.waves[table]
	if !ok {
		re, im := table.Fourier()
		wave = w.ctx.Call("createPeriodicWave",
			js.Global.Get("Float32Array").Call("from", re),
			js.Global.Get("Float32Array").Call("from", im))
		w.waves[table] = wave
	}
	osc := w.ctx.Call("createOscillator")
	osc.Call("setPeriodicWave", wave)
	osc.Get("frequency").Set("value", freq)
	osc.Get("detune").Set("value", detune)
	return osc
}

// purge drops bookkeeping entries whose stop time has passed.
func (w *WebAudio) purge(now float64) {
	w.voices = liveVoices(w.voices, now)
	w.noises = liveVoices(w.noises, now)
	w.sounding = liveVoices(w.sounding, now)
}

func liveVoices(vs []*webVoice, now float64) []*webVoice {
	live := vs[:0]
	for _, v := range vs {
		if v.info.StopAt > now {
			live = append(live, v)
		}
	}
	for i := len(live); i < len(vs); i++ {
		vs[i] = nil
	}
	return live
}

// KillAll fades out every active voice and forgets them. immediate uses the
// short fade. Safe to call any number of times.
func (w *WebAudio) KillAll(immediate bool) {
	w.Ensure()
	if w.ctx == nil {
		return
	}
	now := w.now()
	fade, stop := killTimes(w.cfg, immediate)
	for _, v := range w.voices {
		v.fadeOut(now, fade, stop)
	}
	for _, n := range w.noises {
		n.fadeOut(now, fade, stop)
	}
	w.voices, w.noises = nil, nil
}

// PlaySequence plays single notes one gap apart. See Engine.PlaySequence.
func (w *WebAudio) PlaySequence(freqs []float64, opts SequenceOptions, killFirst bool) float64 {
	if !w.playable() {
		return w.now()
	}
	opts = opts.withDefaults(w.cfg.DefaultGap, w.cfg.DefaultDuration, w.cfg.SequenceVelocity)
	if killFirst {
		w.KillAll(true)
	}
	t := w.now() + w.cfg.SequenceLeadIn
	for _, f := range freqs {
		w.play(f, t, opts.Duration, opts.Velocity)
		t += opts.Gap
	}
	return t
}

// PlayChord plays freqs as a lightly strummed chord at start (negative
// means now).
func (w *WebAudio) PlayChord(freqs []float64, start float64, opts NoteOptions) {
	if !w.playable() {
		return
	}
	if start < 0 {
		start = w.now()
	}
	opts = opts.withDefaults(w.cfg.DefaultDuration, w.cfg.ChordVelocity)
	w.chord(freqs, start, opts.Duration, opts.Velocity)
}

func (w *WebAudio) chord(freqs []float64, base, dur, vel float64) {
	for i, f := range freqs {
		offset, v := strum(w.cfg, i, vel)
		w.play(f, base+offset, dur, v)
	}
}

// PlayChordSequence plays chords one gap apart. See Engine.PlayChordSequence.
func (w *WebAudio) PlayChordSequence(chords [][]float64, opts SequenceOptions, killFirst bool) float64 {
	if !w.playable() {
		return w.now()
	}
	opts = opts.withDefaults(w.cfg.DefaultGap, w.cfg.DefaultDuration, w.cfg.ChordSequenceVelocity)
	if killFirst {
		w.KillAll(true)
	}
	t := w.now() + w.cfg.ChordSequenceLeadIn
	for _, freqs := range chords {
		w.chord(freqs, t, opts.Duration, opts.Velocity)
		t += opts.Gap
	}
	return t
}

// ActiveVoices returns the notes Play and KillAll still track.
func (w *WebAudio) ActiveVoices() []VoiceInfo {
	return voiceInfos(w.voices)
}

// ActiveNoises returns the noise bursts Play and KillAll still track.
func (w *WebAudio) ActiveNoises() []VoiceInfo {
	return voiceInfos(w.noises)
}

// Sounding returns how many graphs have not reached their stop time,
// including killed ones that are still fading.
func (w *WebAudio) Sounding() int {
	w.sounding = liveVoices(w.sounding, w.now())
	return len(w.sounding)
}

func voiceInfos(vs []*webVoice) []VoiceInfo {
	out := make([]VoiceInfo, len(vs))
	for i, v := range vs {
		out[i] = v.info
	}
	return out
}

// webVoice is the handle to one note's node graph.
type webVoice struct {
	info    VoiceInfo
	gain    audioParam
	sources []*js.Object
}

func (v *webVoice) fadeOut(now, fade, stop float64) {
	fadeGain(v.gain, now, fade)
	if now+stop < v.info.StopAt {
		v.info.StopAt = now + stop
		for _, src := range v.sources {
			src.Call("stop", v.info.StopAt)
		}
	}
}

// audioParam adapts a WebAudio AudioParam to the automation interface.
type audioParam struct {
	p *js.Object
}

func (a audioParam) SetValueAtTime(v, t float64) { a.p.Call("setValueAtTime", v, t) }

func (a audioParam) ExponentialRampToValueAtTime(v, t float64) {
	a.p.Call("exponentialRampToValueAtTime", v, t)
}

func (a audioParam) CancelScheduledValues(t float64) { a.p.Call("cancelScheduledValues", t) }

// ValueAt returns the param's current value; the browser only exposes now.
func (a audioParam) ValueAt(float64) float64 { return a.p.Get("value").Float() }

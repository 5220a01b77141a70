// Package audio is a small chord-capable synthesizer. It renders a soft
// piano-like voice per note, mixes them through a generated reverb and a
// compressor and hands PCM to an output device. All note scheduling happens
// on the engine clock, which advances only as frames are rendered.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/simukka/guessnote/common"
)

var (
	// ErrNoAudioContext is returned when the platform has no audio output.
	ErrNoAudioContext = errors.New("audio: no audio output available")
	// ErrClosed is returned by an engine after Shutdown.
	ErrClosed = errors.New("audio: engine closed")
)

// NoteOptions controls a single chord. Zero fields take the engine defaults.
type NoteOptions struct {
	Duration float64
	Velocity float64
}

// SequenceOptions controls a note or chord sequence. Zero fields take the
// engine defaults.
type SequenceOptions struct {
	Gap      float64
	Duration float64
	Velocity float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithDevice sets the output device. The default is Offline().
func WithDevice(d Device) Option {
	return func(e *Engine) {
		e.device = d
	}
}

// WithSeed makes pan, detune, timbre and noise choices reproducible.
func WithSeed(seed uint32) Option {
	return func(e *Engine) {
		e.rng = common.NewSeededRNG(seed)
	}
}

// Engine owns the clock, the master bus and every sounding voice.
type Engine struct {
	cfg    Config
	device Device

	ensureOnce sync.Once

	mu         sync.Mutex
	ready      bool
	closed     bool
	rng        *common.SeededRNG
	frames     int64
	muted      bool
	instrument int
	master     float64

	// voices and noises are what KillAll and Play bookkeeping see.
	// sounding is what the mixer renders; killed voices stay in it until
	// their fade ends.
	voices   []*voice
	noises   []*noiseVoice
	sounding []sounder

	reverb     *reverb
	comp       *compressor
	busL, busR []float64

	readBuf []float32 // owned by the device pulling Read
}

// NewEngine creates an engine. Nothing is opened until Init or Ensure.
func NewEngine(cfg Config, opts ...Option) *Engine {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig.SampleRate
	}
	if cfg.Channels <= 0 {
		cfg.Channels = DefaultConfig.Channels
	}
	if cfg.BlockFrames <= 0 {
		cfg.BlockFrames = DefaultConfig.BlockFrames
	}

	e := &Engine{
		cfg:    cfg,
		master: cfg.MasterVolume,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.device == nil {
		e.device = Offline()
	}
	if e.rng == nil {
		e.rng = common.NewSeededRNG(common.TimeSeed())
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// SampleRate implements Source.
func (e *Engine) SampleRate() int {
	return e.cfg.SampleRate
}

// Channels implements Source.
func (e *Engine) Channels() int {
	return e.cfg.Channels
}

// Init builds the master chain and opens the device. Calling it again after
// success is a no-op. On failure the engine stays inert.
func (e *Engine) Init() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.ready {
		e.mu.Unlock()
		return nil
	}
	if e.reverb == nil {
		e.reverb = newReverb(e.cfg.SampleRate, e.cfg.ReverbTime, e.cfg.ReverbDecay, e.cfg.ReverbDensity, e.rng)
		e.comp = newCompressor(e.cfg)
		e.busL = make([]float64, e.cfg.BlockFrames)
		e.busR = make([]float64, e.cfg.BlockFrames)
	}
	e.mu.Unlock()

	// The device may start pulling before Open returns, so it must not be
	// called with the lock held.
	if err := e.device.Open(e); err != nil {
		return fmt.Errorf("opening %s device: %w", e.device.Name(), err)
	}

	e.mu.Lock()
	e.ready = true
	e.mu.Unlock()
	common.Debugf("audio: %s device open at %d Hz", e.device.Name(), e.cfg.SampleRate)
	return nil
}

// Ensure calls Init once and logs failures instead of returning them.
func (e *Engine) Ensure() {
	e.ensureOnce.Do(func() {
		if err := e.Init(); err != nil {
			common.DebugWarn("audio unavailable:", err)
		}
	})
}

// Resume asks the device to resume output if it supports suspension.
func (e *Engine) Resume() {
	e.Ensure()
	if r, ok := e.device.(interface{ Resume() }); ok {
		r.Resume()
	}
}

// Ready reports whether the engine has an open device.
func (e *Engine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// Shutdown stops all sound and closes the device. The engine cannot be
// reopened.
func (e *Engine) Shutdown() error {
	e.mu.Lock()
	wasOpen := e.ready
	e.closed = true
	e.ready = false
	e.voices = nil
	e.noises = nil
	e.sounding = nil
	e.mu.Unlock()

	if !wasOpen {
		return nil
	}
	if err := e.device.Close(); err != nil {
		return fmt.Errorf("closing %s device: %w", e.device.Name(), err)
	}
	return nil
}

// Time returns the engine clock in seconds.
func (e *Engine) Time() float64 {
	e.Ensure()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nowLocked()
}

func (e *Engine) nowLocked() float64 {
	return float64(e.frames) / float64(e.cfg.SampleRate)
}

// SetMuted silences the master bus. While muted every play call is a no-op.
func (e *Engine) SetMuted(muted bool) {
	e.Ensure()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = muted
	if muted {
		e.master = 0
	} else {
		e.master = e.cfg.UnmutedVolume
	}
}

// ToggleMuted flips the mute state and returns the new state.
func (e *Engine) ToggleMuted() bool {
	muted := !e.IsMuted()
	e.SetMuted(muted)
	return muted
}

// IsMuted reports the mute state.
func (e *Engine) IsMuted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

// SetInstrument selects the timbre preset for notes played from now on.
// Any integer is accepted and wrapped onto the presets.
func (e *Engine) SetInstrument(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.instrument = normalizeInstrument(n)
}

// Instrument returns the current preset index.
func (e *Engine) Instrument() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.instrument
}

// Play schedules one note at engine time start (negative means now).
func (e *Engine) Play(freq, start, dur, vel float64) {
	e.Ensure()
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready || e.muted {
		return
	}
	if start < 0 {
		start = e.nowLocked()
	}
	e.playLocked(freq, start, dur, vel)
}

func (e *Engine) playLocked(freq, t, dur, vel float64) {
	now := e.nowLocked()
	e.purgeLocked(now)

	v := newVoice(e.cfg, planNote(e.cfg, e.rng, e.instrument, freq, t, dur, vel))
	e.voices = append(e.voices, v)
	e.sounding = append(e.sounding, v)

	if e.cfg.HammerGain > 0 {
		n := newNoiseVoice(e.cfg, uint32(e.rng.Random()*4294967296), t, vel)
		e.noises = append(e.noises, n)
		e.sounding = append(e.sounding, n)
	}
}

// purgeLocked drops bookkeeping entries whose stop time has passed.
func (e *Engine) purgeLocked(now float64) {
	voices := e.voices[:0]
	for _, v := range e.voices {
		if v.stopAt > now {
			voices = append(voices, v)
		}
	}
	for i := len(voices); i < len(e.voices); i++ {
		e.voices[i] = nil
	}
	e.voices = voices

	noises := e.noises[:0]
	for _, n := range e.noises {
		if n.stopAt > now {
			noises = append(noises, n)
		}
	}
	for i := len(noises); i < len(e.noises); i++ {
		e.noises[i] = nil
	}
	e.noises = noises
}

// KillAll fades out every active voice and forgets them. immediate uses the
// short fade. Safe to call any number of times.
func (e *Engine) KillAll(immediate bool) {
	e.Ensure()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.killLocked(immediate)
}

func (e *Engine) killLocked(immediate bool) {
	if !e.ready {
		return
	}
	now := e.nowLocked()
	fade, stop := killTimes(e.cfg, immediate)
	for _, v := range e.voices {
		v.fadeOut(now, fade, stop)
	}
	e.voices = nil
	for _, n := range e.noises {
		n.fadeOut(now, fade, stop)
	}
	e.noises = nil
}

func (o NoteOptions) withDefaults(dur, vel float64) NoteOptions {
	if o.Duration <= 0 {
		o.Duration = dur
	}
	if o.Velocity <= 0 {
		o.Velocity = vel
	}
	return o
}

func (o SequenceOptions) withDefaults(gap, dur, vel float64) SequenceOptions {
	if o.Gap <= 0 {
		o.Gap = gap
	}
	if o.Duration <= 0 {
		o.Duration = dur
	}
	if o.Velocity <= 0 {
		o.Velocity = vel
	}
	return o
}

// PlaySequence plays single notes one gap apart, starting shortly after now.
// It returns the engine time one gap after the last note onset, or the
// current time when nothing can play.
func (e *Engine) PlaySequence(freqs []float64, opts SequenceOptions, killFirst bool) float64 {
	e.Ensure()
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.nowLocked()
	if !e.ready || e.muted {
		return now
	}
	opts = opts.withDefaults(e.cfg.DefaultGap, e.cfg.DefaultDuration, e.cfg.SequenceVelocity)
	if killFirst {
		e.killLocked(true)
	}
	t := now + e.cfg.SequenceLeadIn
	for _, f := range freqs {
		e.playLocked(f, t, opts.Duration, opts.Velocity)
		t += opts.Gap
	}
	return t
}

// PlayChord plays freqs as a lightly strummed chord at start (negative
// means now).
func (e *Engine) PlayChord(freqs []float64, start float64, opts NoteOptions) {
	e.Ensure()
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready || e.muted {
		return
	}
	if start < 0 {
		start = e.nowLocked()
	}
	opts = opts.withDefaults(e.cfg.DefaultDuration, e.cfg.ChordVelocity)
	e.chordLocked(freqs, start, opts.Duration, opts.Velocity)
}

func (e *Engine) chordLocked(freqs []float64, base, dur, vel float64) {
	for i, f := range freqs {
		offset, v := strum(e.cfg, i, vel)
		e.playLocked(f, base+offset, dur, v)
	}
}

// PlayChordSequence plays chords one gap apart, starting shortly after now.
// The return value follows PlaySequence.
func (e *Engine) PlayChordSequence(chords [][]float64, opts SequenceOptions, killFirst bool) float64 {
	e.Ensure()
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.nowLocked()
	if !e.ready || e.muted {
		return now
	}
	opts = opts.withDefaults(e.cfg.DefaultGap, e.cfg.DefaultDuration, e.cfg.ChordSequenceVelocity)
	if killFirst {
		e.killLocked(true)
	}
	t := now + e.cfg.ChordSequenceLeadIn
	for _, freqs := range chords {
		e.chordLocked(freqs, t, opts.Duration, opts.Velocity)
		t += opts.Gap
	}
	return t
}

// ActiveVoices returns the notes Play and KillAll still track.
func (e *Engine) ActiveVoices() []VoiceInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]VoiceInfo, len(e.voices))
	for i, v := range e.voices {
		out[i] = v.info()
	}
	return out
}

// ActiveNoises returns the noise bursts Play and KillAll still track.
func (e *Engine) ActiveNoises() []VoiceInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]VoiceInfo, len(e.noises))
	for i, n := range e.noises {
		out[i] = n.info()
	}
	return out
}

// Sounding returns how many voices and noises the mixer is rendering,
// including killed ones that are still fading.
func (e *Engine) Sounding() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sounding)
}

// Render fills dst with interleaved frames and advances the clock. An
// engine without an open device renders silence and its clock stays put.
func (e *Engine) Render(dst []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch := e.cfg.Channels
	frames := len(dst) / ch
	if !e.ready {
		for i := range dst {
			dst[i] = 0
		}
		return
	}

	dt := 1 / float64(e.cfg.SampleRate)
	for off := 0; off < frames; {
		n := common.Min(e.cfg.BlockFrames, frames-off)
		l, r := e.busL[:n], e.busR[:n]
		for i := range l {
			l[i], r[i] = 0, 0
		}

		t0 := e.nowLocked()
		live := e.sounding[:0]
		for _, s := range e.sounding {
			if !s.render(l, r, t0, dt) {
				live = append(live, s)
			}
		}
		for i := len(live); i < len(e.sounding); i++ {
			e.sounding[i] = nil
		}
		e.sounding = live

		for i := 0; i < n; i++ {
			ml, mr := l[i]*e.master, r[i]*e.master
			wl, wr := e.reverb.process(ml, mr)
			ol := ml*e.cfg.DryGain + wl*e.cfg.WetGain
			or := mr*e.cfg.DryGain + wr*e.cfg.WetGain
			ol, or = e.comp.process(ol, or)
			ol, or = common.Clamp(ol, -1, 1), common.Clamp(or, -1, 1)

			frame := dst[(off+i)*ch : (off+i+1)*ch]
			if ch == 1 {
				frame[0] = float32((ol + or) / 2)
				continue
			}
			frame[0] = float32(ol)
			frame[1] = float32(or)
			for c := 2; c < ch; c++ {
				frame[c] = 0
			}
		}

		e.frames += int64(n)
		off += n
	}
}

// Read renders float32 little-endian interleaved PCM into p. It lets an
// io.Reader based output pull from the engine.
func (e *Engine) Read(p []byte) (int, error) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return 0, ErrClosed
	}

	ch := e.cfg.Channels
	n := len(p) / 4 / ch * ch
	if n == 0 {
		return 0, nil
	}
	if cap(e.readBuf) < n {
		e.readBuf = make([]float32, n)
	}
	buf := e.readBuf[:n]
	e.Render(buf)
	for i, v := range buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return n * 4, nil
}

// RenderSeconds renders the next d seconds and returns the frames.
func (e *Engine) RenderSeconds(d float64) []float32 {
	frames := int(math.Ceil(d * float64(e.cfg.SampleRate)))
	buf := make([]float32, frames*e.cfg.Channels)
	e.Render(buf)
	return buf
}

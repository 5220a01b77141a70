package audio

import (
	"errors"
	"math"
	"testing"
)

type failingDevice struct{}

func (failingDevice) Name() string          { return "failing" }
func (failingDevice) Open(src Source) error { return ErrNoAudioContext }
func (failingDevice) Close() error          { return nil }

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(DefaultConfig, WithSeed(42))
	if err := e.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return e
}

func floatNear(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestEngine_TimeAdvancesWithRender(t *testing.T) {
	e := newTestEngine(t)
	if e.Time() != 0 {
		t.Fatalf("Expected clock at 0, got %f", e.Time())
	}

	e.Render(make([]float32, 4410*2))
	if !floatNear(e.Time(), 0.1, 1e-9) {
		t.Errorf("Expected 0.1s after 4410 frames, got %f", e.Time())
	}

	e.RenderSeconds(0.25)
	if !floatNear(e.Time(), 0.35, 1e-4) {
		t.Errorf("Expected ~0.35s, got %f", e.Time())
	}
}

func TestEngine_InitIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Init(); err != nil {
		t.Errorf("Second Init should be a no-op, got %v", err)
	}
	e.Ensure()
	if !e.Ready() {
		t.Error("Engine should be ready")
	}
}

func TestEngine_InertWhenDeviceFails(t *testing.T) {
	e := NewEngine(DefaultConfig, WithDevice(failingDevice{}))
	err := e.Init()
	if !errors.Is(err, ErrNoAudioContext) {
		t.Fatalf("Expected ErrNoAudioContext, got %v", err)
	}

	e.Play(440, 0, 1, 0.9)
	e.PlayChord([]float64{261.6, 329.6, 392}, 0, NoteOptions{})
	e.KillAll(true)
	if n := len(e.ActiveVoices()); n != 0 {
		t.Errorf("Inert engine should not track voices, got %d", n)
	}

	buf := make([]float32, 1024)
	buf[0] = 1
	e.Render(buf)
	if buf[0] != 0 {
		t.Error("Inert engine should render silence")
	}
	if e.Time() != 0 {
		t.Errorf("Inert engine clock should stay at 0, got %f", e.Time())
	}
}

func TestEngine_ShutdownCloses(t *testing.T) {
	e := newTestEngine(t)
	e.Play(440, 0, 1, 0.9)
	if err := e.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if err := e.Init(); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
	if _, err := e.Read(make([]byte, 64)); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed from Read, got %v", err)
	}
	if len(e.ActiveVoices()) != 0 || e.Sounding() != 0 {
		t.Error("Shutdown should drop all voices")
	}
}

func TestEngine_MuteMakesPlayNoop(t *testing.T) {
	e := newTestEngine(t)
	e.SetMuted(true)
	if !e.IsMuted() {
		t.Fatal("Expected the engine to be muted")
	}

	e.Play(440, 0, 1, 0.9)
	e.PlayChord([]float64{261.6, 329.6, 392}, 0, NoteOptions{})
	end := e.PlaySequence([]float64{440, 494}, SequenceOptions{}, true)
	if end != e.Time() {
		t.Errorf("Muted PlaySequence should return Time(), got %f", end)
	}
	end = e.PlayChordSequence([][]float64{{261.6, 329.6}}, SequenceOptions{}, true)
	if end != e.Time() {
		t.Errorf("Muted PlayChordSequence should return Time(), got %f", end)
	}
	if n := len(e.ActiveVoices()); n != 0 {
		t.Errorf("Expected no voices while muted, got %d", n)
	}

	if e.ToggleMuted() {
		t.Error("Toggle should unmute")
	}
	if e.master != DefaultConfig.UnmutedVolume {
		t.Errorf("Expected master %f after unmute, got %f", DefaultConfig.UnmutedVolume, e.master)
	}
}

func TestEngine_InitialMasterGain(t *testing.T) {
	e := newTestEngine(t)
	if e.master != 0.7 {
		t.Errorf("Expected initial master 0.7, got %f", e.master)
	}
}

func TestEngine_ChordStagger(t *testing.T) {
	e := newTestEngine(t)
	freqs := []float64{261.6, 329.6, 392, 493.9}
	e.PlayChord(freqs, 1.0, NoteOptions{})

	voices := e.ActiveVoices()
	if len(voices) != 4 {
		t.Fatalf("Expected 4 voices, got %d", len(voices))
	}
	wantStarts := []float64{1.0, 1.012, 1.02, 1.028}
	for i, v := range voices {
		if !floatNear(v.Start, wantStarts[i], 1e-9) {
			t.Errorf("Voice %d: expected start %f, got %f", i, wantStarts[i], v.Start)
		}
		if v.Freq != freqs[i] {
			t.Errorf("Voice %d: expected freq %f, got %f", i, freqs[i], v.Freq)
		}
		wantStop := wantStarts[i] + DefaultConfig.DefaultDuration + 1.35 + 0.04
		if !floatNear(v.StopAt, wantStop, 1e-9) {
			t.Errorf("Voice %d: expected stop %f, got %f", i, wantStop, v.StopAt)
		}
	}
}

func TestEngine_ChordBeyondFiveNotesHasNoOffset(t *testing.T) {
	e := newTestEngine(t)
	e.PlayChord([]float64{100, 200, 300, 400, 500, 600}, 2, NoteOptions{})
	voices := e.ActiveVoices()
	if !floatNear(voices[4].Start, 2.036, 1e-9) {
		t.Errorf("5th note: expected 2.036, got %f", voices[4].Start)
	}
	if voices[5].Start != 2 {
		t.Errorf("6th note: expected no offset, got %f", voices[5].Start)
	}
}

func TestEngine_PlaySequenceTiming(t *testing.T) {
	e := newTestEngine(t)
	end := e.PlaySequence([]float64{440, 494, 523}, SequenceOptions{}, true)

	voices := e.ActiveVoices()
	if len(voices) != 3 {
		t.Fatalf("Expected 3 voices, got %d", len(voices))
	}
	for i, v := range voices {
		want := 0.06 + float64(i)*0.95
		if !floatNear(v.Start, want, 1e-9) {
			t.Errorf("Note %d: expected start %f, got %f", i, want, v.Start)
		}
	}
	if !floatNear(end, 0.06+3*0.95, 1e-9) {
		t.Errorf("Expected end %f, got %f", 0.06+3*0.95, end)
	}
}

func TestEngine_PlayChordSequenceTiming(t *testing.T) {
	e := newTestEngine(t)
	chords := [][]float64{{261.6, 329.6, 392}, {349.2, 440, 523.3}}
	end := e.PlayChordSequence(chords, SequenceOptions{Gap: 1.05, Duration: 1.1}, true)

	voices := e.ActiveVoices()
	if len(voices) != 6 {
		t.Fatalf("Expected 6 voices, got %d", len(voices))
	}
	if !floatNear(voices[0].Start, 0.08, 1e-9) || !floatNear(voices[3].Start, 0.08+1.05, 1e-9) {
		t.Errorf("Expected chord onsets 0.08 and 1.13, got %f and %f", voices[0].Start, voices[3].Start)
	}
	if !floatNear(end, 0.08+2*1.05, 1e-9) {
		t.Errorf("Expected end %f, got %f", 0.08+2*1.05, end)
	}
}

func TestEngine_KillAll(t *testing.T) {
	e := newTestEngine(t)
	e.PlayChord([]float64{261.6, 329.6, 392}, 0, NoteOptions{})
	e.RenderSeconds(0.2)

	e.KillAll(true)
	if n := len(e.ActiveVoices()); n != 0 {
		t.Errorf("Expected no tracked voices after KillAll, got %d", n)
	}
	if e.Sounding() != 3 {
		t.Errorf("Killed voices should keep fading, got %d sounding", e.Sounding())
	}

	// idempotent
	e.KillAll(true)
	e.KillAll(false)

	e.RenderSeconds(0.05)
	if e.Sounding() != 0 {
		t.Errorf("Expected all voices stopped after the fade, got %d", e.Sounding())
	}
}

func TestEngine_KillAllBeforeOnset(t *testing.T) {
	e := newTestEngine(t)
	e.PlayChord([]float64{261.6, 329.6, 392}, 1, NoteOptions{})
	e.KillAll(false)

	out := e.RenderSeconds(1.5)
	for i, s := range out {
		if s != 0 {
			t.Fatalf("Sample %d: expected silence for a killed future chord, got %f", i, s)
		}
	}
}

func TestEngine_ReapsFinishedVoices(t *testing.T) {
	e := newTestEngine(t)
	e.Play(440, 0, 0.1, 0.9)
	if len(e.ActiveVoices()) != 1 {
		t.Fatal("Expected one voice")
	}

	// stop time is 0.1 + 1.35 + 0.04
	e.RenderSeconds(1.5)
	if e.Sounding() != 0 {
		t.Errorf("Mixer should drop finished voices, got %d", e.Sounding())
	}
	if len(e.ActiveVoices()) != 1 {
		t.Error("Bookkeeping should be purged lazily on the next play")
	}

	e.Play(494, -1, 0.1, 0.9)
	voices := e.ActiveVoices()
	if len(voices) != 1 || voices[0].Freq != 494 {
		t.Errorf("Expected only the new voice, got %+v", voices)
	}
	if !floatNear(voices[0].Start, e.Time(), 1e-9) {
		t.Errorf("Negative start should mean now, got %f", voices[0].Start)
	}
}

func TestEngine_RenderProducesBoundedSound(t *testing.T) {
	e := newTestEngine(t)
	e.PlayChord([]float64{261.6, 329.6, 392, 493.9}, 0, NoteOptions{Velocity: 1})
	out := e.RenderSeconds(0.5)

	peak := 0.0
	for _, s := range out {
		a := math.Abs(float64(s))
		if a > 1 {
			t.Fatalf("Sample should be in [-1, 1], got %f", s)
		}
		if a > peak {
			peak = a
		}
	}
	if peak < 0.01 {
		t.Errorf("Expected audible output, got peak %f", peak)
	}
}

func TestEngine_Read(t *testing.T) {
	e := newTestEngine(t)
	p := make([]byte, 4096)
	n, err := e.Read(p)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if n != 4096 {
		t.Errorf("Expected 4096 bytes, got %d", n)
	}
	if !floatNear(e.Time(), 512.0/44100, 1e-9) {
		t.Errorf("Expected 512 frames rendered, got %f s", e.Time())
	}
}

func TestEngine_HammerNoise(t *testing.T) {
	cfg := DefaultConfig
	cfg.HammerGain = 0.2
	e := NewEngine(cfg, WithSeed(1))
	if err := e.Init(); err != nil {
		t.Fatal(err)
	}
	e.Play(440, 0, 0.5, 0.9)
	if len(e.ActiveNoises()) != 1 {
		t.Fatalf("Expected one noise burst, got %d", len(e.ActiveNoises()))
	}
	e.KillAll(true)
	if len(e.ActiveNoises()) != 0 {
		t.Error("KillAll should clear noises")
	}
}

func TestEngine_SetInstrumentWraps(t *testing.T) {
	e := newTestEngine(t)
	tests := []struct {
		in, want int
	}{
		{0, 0}, {1, 1}, {2, 2}, {3, 0}, {4, 1}, {-1, 2}, {-3, 0},
	}
	for _, tt := range tests {
		e.SetInstrument(tt.in)
		if got := e.Instrument(); got != tt.want {
			t.Errorf("SetInstrument(%d): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestRenderChordSequence(t *testing.T) {
	chords := [][]float64{{261.6, 329.6, 392}, {392, 493.9, 587.3}}
	out, err := RenderChordSequence(DefaultConfig, 7, 1, chords, SequenceOptions{})
	if err != nil {
		t.Fatalf("RenderChordSequence failed: %v", err)
	}
	// 0.08 lead-in + one gap + duration + release + pad + strum
	wantSec := 0.08 + 0.95 + 1.05 + 1.35 + 0.04 + 0.036
	wantFrames := int(math.Ceil(wantSec * 44100))
	if d := len(out) - wantFrames*2; d < -4 || d > 4 {
		t.Errorf("Expected ~%d samples, got %d", wantFrames*2, len(out))
	}
}

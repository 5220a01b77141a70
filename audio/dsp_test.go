package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/simukka/guessnote/common"
)

func TestParam_DefaultValue(t *testing.T) {
	p := NewParam(0.5)
	if p.ValueAt(3) != 0.5 {
		t.Errorf("Expected default 0.5, got %f", p.ValueAt(3))
	}
}

func TestParam_Ramps(t *testing.T) {
	p := NewParam(0)
	p.SetValueAtTime(1, 0)
	p.ExponentialRampToValueAtTime(100, 1)
	p.LinearRampToValueAtTime(0, 2)

	tests := []struct {
		t    float64
		want float64
	}{
		{0, 1},
		{0.5, 10},
		{1, 100},
		{1.5, 50},
		{2, 0},
		{5, 0},
	}
	for _, tt := range tests {
		if got := p.ValueAt(tt.t); !floatNear(got, tt.want, 1e-9) {
			t.Errorf("ValueAt(%v): expected %f, got %f", tt.t, tt.want, got)
		}
	}

	// going back in time still works
	if got := p.ValueAt(0.5); !floatNear(got, 10, 1e-9) {
		t.Errorf("ValueAt(0.5) after later queries: expected 10, got %f", got)
	}
}

func TestParam_ExponentialToZeroHolds(t *testing.T) {
	p := NewParam(0)
	p.SetValueAtTime(0.5, 0)
	p.ExponentialRampToValueAtTime(0, 1)
	if got := p.ValueAt(0.5); got != 0.5 {
		t.Errorf("Expected hold at 0.5, got %f", got)
	}
}

func TestParam_Cancel(t *testing.T) {
	p := NewParam(0)
	p.SetValueAtTime(1, 0)
	p.SetValueAtTime(2, 1)
	p.SetValueAtTime(3, 2)
	p.CancelScheduledValues(1)
	if p.Len() != 1 {
		t.Errorf("Expected 1 event left, got %d", p.Len())
	}
	if got := p.ValueAt(5); got != 1 {
		t.Errorf("Expected 1 after cancel, got %f", got)
	}
}

func TestVoice_Envelope(t *testing.T) {
	cfg := DefaultConfig
	rng := common.NewSeededRNG(3)
	v := newVoice(cfg, planNote(cfg, rng, WarmPiano, 440, 1, 1.05, 0.9))

	tests := []struct {
		name string
		t    float64
		want float64
	}{
		{"onset", 1, 0.0001},
		{"peak", 1.006, 0.9},
		{"sustain", 1.146, 0.9 * 0.18},
		{"hold", 1.5, 0.9 * 0.18},
		{"release start", 2.05, 0.9 * 0.18},
		{"silent", 1 + 1.05 + 1.35, 0.0001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.gain.ValueAt(tt.t); !floatNear(got, tt.want, 1e-6) {
				t.Errorf("Expected %f, got %f", tt.want, got)
			}
		})
	}

	if !floatNear(v.stopAt, 1+1.05+1.35+0.04, 1e-9) {
		t.Errorf("Expected stop at %f, got %f", 1+1.05+1.35+0.04, v.stopAt)
	}
}

func TestVoice_FadeOut(t *testing.T) {
	rng := common.NewSeededRNG(3)
	v := newVoice(DefaultConfig, planNote(DefaultConfig, rng, FeltPiano, 440, 0, 1, 0.9))

	v.fadeOut(0.5, 0.01, 0.015)
	if got := v.gain.ValueAt(0.5); !floatNear(got, 0.9*0.18, 1e-6) {
		t.Errorf("Fade should start from the current value, got %f", got)
	}
	if got := v.gain.ValueAt(0.51); !floatNear(got, 0.0001, 1e-9) {
		t.Errorf("Expected silence after the fade, got %f", got)
	}
	if !floatNear(v.stopAt, 0.515, 1e-12) {
		t.Errorf("Expected stop at 0.515, got %f", v.stopAt)
	}
}

func TestPanGains(t *testing.T) {
	l, r := panGains(0)
	if !floatNear(l, r, 1e-12) || !floatNear(l*l+r*r, 1, 1e-12) {
		t.Errorf("Center pan should be equal power, got %f/%f", l, r)
	}
	l, r = panGains(-1)
	if !floatNear(l, 1, 1e-12) || !floatNear(r, 0, 1e-12) {
		t.Errorf("Hard left: expected 1/0, got %f/%f", l, r)
	}
}

func TestWaveTable_Normalized(t *testing.T) {
	for _, w := range []*WaveTable{sineWave, warmWave, feltWave, pianoWave} {
		if p := w.Peak(); !floatNear(p, 1, 1e-9) {
			t.Errorf("%d harmonics: expected peak 1, got %f", w.Harmonics, p)
		}
	}
	if !floatNear(sineWave.At(0.25), 1, 1e-6) {
		t.Errorf("Sine at quarter cycle: expected 1, got %f", sineWave.At(0.25))
	}
}

func TestPickTimbre(t *testing.T) {
	tests := []struct {
		name   string
		preset int
		r      float64
		wave   *WaveTable
		lpMul  float64
		body   float64
		shelf  float64
	}{
		{"warm low r", WarmPiano, 0.5, warmWave, 4.6 + 0.5*0.25, 1.15, -16},
		{"warm high r", WarmPiano, 0.8, feltWave, 4.9 + 0.8*0.25, 0.95, -16},
		{"felt", FeltPiano, 0.5, feltWave, 3.8 + 0.5*0.35, 0.9 + 0.5*0.18, -18},
		{"e-piano", SoftEPiano, 0.5, pianoWave, 5.0 + 0.5*0.45, 0.75 + 0.5*0.18, -16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := pickTimbre(tt.preset, tt.r)
			if tb.Wave != tt.wave {
				t.Error("Unexpected wave table")
			}
			if !floatNear(tb.LpMul, tt.lpMul, 1e-12) {
				t.Errorf("LpMul: expected %f, got %f", tt.lpMul, tb.LpMul)
			}
			if !floatNear(tb.BodyGain, tt.body, 1e-12) {
				t.Errorf("BodyGain: expected %f, got %f", tt.body, tb.BodyGain)
			}
			if tb.HsGain != tt.shelf {
				t.Errorf("HsGain: expected %f, got %f", tt.shelf, tb.HsGain)
			}
		})
	}
}

func TestBiquad_Responses(t *testing.T) {
	const sr = 44100.0
	tests := []struct {
		name string
		f    *Biquad
		at   float64
		want float64
		eps  float64
	}{
		{"lowpass passband", NewBiquad(Lowpass, sr, 2000, 0.6, 0), 50, 1, 0.01},
		{"lowpass stopband", NewBiquad(Lowpass, sr, 500, 0.6, 0), 10000, 0, 0.01},
		{"highpass stopband", NewBiquad(Highpass, sr, 55, 0.7, 0), 5, 0, 0.02},
		{"highpass passband", NewBiquad(Highpass, sr, 55, 0.7, 0), 2000, 1, 0.01},
		{"peaking center", NewBiquad(Peaking, sr, 800, 0.9, 6), 800, math.Pow(10, 6.0/20), 1e-6},
		{"high shelf", NewBiquad(Highshelf, sr, 2300, 0, -16), 18000, math.Pow(10, -16.0/20), 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Response(sr, tt.at); !floatNear(got, tt.want, tt.eps) {
				t.Errorf("Expected |H| %f, got %f", tt.want, got)
			}
		})
	}
}

func TestBiquad_ProcessSettles(t *testing.T) {
	f := NewBiquad(Lowpass, 44100, 1000, 0, 0)
	y := 0.0
	for i := 0; i < 10000; i++ {
		y = f.Process(1)
	}
	if !floatNear(y, 1, 1e-6) {
		t.Errorf("Lowpass DC gain should be 1, got %f", y)
	}
	f.Reset()
	if f.Process(0) != 0 {
		t.Error("Reset filter should output 0 for 0 input")
	}
}

func TestCompressor_GainComputer(t *testing.T) {
	c := newCompressor(DefaultConfig)
	tests := []struct {
		in, want float64
	}{
		{-40, -40},
		{0, -20 + 20.0/3},
		{-20, -20 + (1.0/3-1)*81/36},
	}
	for _, tt := range tests {
		if got := c.gainComputer(tt.in); !floatNear(got, tt.want, 1e-9) {
			t.Errorf("gainComputer(%v): expected %f, got %f", tt.in, tt.want, got)
		}
	}
}

func TestCompressor_ReducesLoudSignal(t *testing.T) {
	c := newCompressor(DefaultConfig)
	var l float64
	for i := 0; i < 44100; i++ {
		l, _ = c.process(1, 1)
	}
	if l >= 0.5 {
		t.Errorf("Expected a 0 dBFS signal to be compressed, got %f", l)
	}
	if c.Reduction() >= 0 {
		t.Error("Expected gain reduction")
	}
}

func TestReverb_ImpulseEnergy(t *testing.T) {
	rv := newReverb(8000, 0.5, 3, 400, common.NewSeededRNG(9))
	for ch := 0; ch < 2; ch++ {
		energy := 0.0
		for _, tp := range rv.taps[ch] {
			if tp.delay < 0 || tp.delay >= 4000 {
				t.Fatalf("Tap delay should be inside the impulse, got %d", tp.delay)
			}
			energy += tp.gain * tp.gain
		}
		if !floatNear(energy, 1, 1e-9) {
			t.Errorf("Channel %d: expected unit energy, got %f", ch, energy)
		}
	}

	// impulse in, taps out
	first := rv.taps[0][0]
	var got float64
	for i := 0; i <= first.delay; i++ {
		in := 0.0
		if i == 0 {
			in = 1
		}
		got, _ = rv.process(in, 0)
	}
	if !floatNear(got, first.gain, 1e-12) {
		t.Errorf("Expected first tap %f, got %f", first.gain, got)
	}
}

func TestEncodeWAV(t *testing.T) {
	data := EncodeWAV([]float32{0, 1, -1, 0.5}, 44100, 2)
	if len(data) != 44+8 {
		t.Fatalf("Expected 52 bytes, got %d", len(data))
	}
	if !strings.HasPrefix(string(data), "RIFF") || string(data[8:12]) != "WAVE" {
		t.Error("Expected RIFF/WAVE tags")
	}
	if ch := binary.LittleEndian.Uint16(data[22:]); ch != 2 {
		t.Errorf("Expected 2 channels, got %d", ch)
	}
	if sr := binary.LittleEndian.Uint32(data[24:]); sr != 44100 {
		t.Errorf("Expected 44100 Hz, got %d", sr)
	}
	if br := binary.LittleEndian.Uint32(data[28:]); br != 176400 {
		t.Errorf("Expected byte rate 176400, got %d", br)
	}
	if v := int16(binary.LittleEndian.Uint16(data[46:])); v != 32767 {
		t.Errorf("Expected full scale sample, got %d", v)
	}
	if v := int16(binary.LittleEndian.Uint16(data[48:])); v != -32767 {
		t.Errorf("Expected negative full scale sample, got %d", v)
	}

	var buf bytes.Buffer
	if err := WriteWAV(&buf, []float32{0}, 0, 1); err == nil {
		t.Error("Expected error for zero sample rate")
	}
	if url := WAVDataURL([]float32{0}, 44100, 1); !strings.HasPrefix(url, "data:audio/wav;base64,") {
		t.Errorf("Expected a data:audio/wav URL, got %s", url[:20])
	}
}

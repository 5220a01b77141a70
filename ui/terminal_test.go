package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/simukka/guessnote/game"
	"github.com/simukka/guessnote/i18n"
)

func TestFormatTimer(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{10 * time.Second, "10.0"},
		{2345 * time.Millisecond, "2.3"},
		{0, "0.0"},
		{-time.Second, "0.0"},
	}
	for _, tt := range tests {
		if got := FormatTimer(tt.in); got != tt.want {
			t.Errorf("FormatTimer(%v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestSlotLabels(t *testing.T) {
	slots := SlotLabels([]string{"C", "F", "G"})
	if slots != [4]string{"C", "F", "G", "?"} {
		t.Errorf("Unexpected slots %v", slots)
	}
	short := SlotLabels([]string{"Am"})
	if short[1] != "" || short[3] != "?" {
		t.Errorf("Expected empty slots to stay blank, got %v", short)
	}
}

func TestTerminal_Round(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, i18n.New("es"), false)

	term.RenderRound(game.RoundView{
		Round:   2,
		Max:     5,
		Tier:    game.Medium,
		Visible: []string{"C", "Am", "F"},
		Options: []string{"G", "Em", "Dm7", "Bdim"},
	})
	out := buf.String()

	for _, want := range []string{"RONDA 2/5", "C  Am  F  ?", "[1] G", "[4] Bdim", "(medium)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("Expected no ANSI escapes with color off")
	}
}

func TestTerminal_TimerOncePerSecond(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, nil, false)

	term.RenderTimer(9900 * time.Millisecond)
	term.RenderTimer(9500 * time.Millisecond)
	term.RenderTimer(9100 * time.Millisecond)
	term.RenderTimer(8900 * time.Millisecond)

	if n := strings.Count(buf.String(), "\r"); n != 2 {
		t.Errorf("Expected 2 timer updates, got %d: %q", n, buf.String())
	}
}

func TestTerminal_End(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, nil, true)
	term.SetShareURL("https://guessnote.live/")

	term.ShowEnd(3, 5, "I got 3/5. How many can you do? https://guessnote.live/")
	out := buf.String()

	for _, want := range []string{"RESULT", "3/5", "WhatsApp: https://wa.me/?text=", "Facebook: https://www.facebook.com/sharer"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Instagram") {
		t.Errorf("Instagram has no link and should not be listed:\n%s", out)
	}
}

func TestStatsOverlay(t *testing.T) {
	s := NewStatsOverlay()
	s.Toggle()
	if !s.Visible {
		t.Fatal("Expected Toggle to show the overlay")
	}

	for ms := 0.0; ms <= 1000; ms += 20 {
		s.UpdateFPS(ms)
	}
	if s.CurrentFPS < 49 || s.CurrentFPS > 52 {
		t.Errorf("Expected about 50 FPS, got %f", s.CurrentFPS)
	}

	snap := game.Snapshot{Phase: game.PhaseRoundActive, Round: 1, Max: 5, Tiers: game.SplitTiers(5, 0.2, 0.5)}
	lines := s.Lines(snap, AudioStats{Muted: true}, 1)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "Phase:      round-active") {
		t.Errorf("Expected the phase line, got %s", joined)
	}
	if !strings.Contains(joined, "Tiers:      1/3/1") {
		t.Errorf("Expected the tier split, got %s", joined)
	}
	if !strings.Contains(joined, "muted") {
		t.Errorf("Expected the mute state, got %s", joined)
	}
}

package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/simukka/guessnote/chords"
	"github.com/simukka/guessnote/game"
)

// Terminal renders the game as lines of text.
type Terminal struct {
	w     io.Writer
	tr    game.Translator
	color bool

	mu       sync.Mutex
	lastSec  int
	shareURL string
}

// NewTerminal creates a renderer writing to w. color enables ANSI escapes.
func NewTerminal(w io.Writer, tr game.Translator, color bool) *Terminal {
	return &Terminal{w: w, tr: tr, color: color, lastSec: -1}
}

func (t *Terminal) paint(code, s string) string {
	if !t.color {
		return s
	}
	return code + s + Theme.AnsiReset
}

func (t *Terminal) printf(format string, args ...any) {
	fmt.Fprintf(t.w, format, args...)
}

// Intro prints the start prompt.
func (t *Terminal) Intro() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.printf("%s\n", t.paint(Theme.AnsiBold, translate(t.tr, "start.cta", "TAP / CLICK TO START")))
	t.printf("%s\n", t.paint(Theme.AnsiDim, "[enter] start  [1-4] answer  [space] hidden chord  [r] progression  [m] mute  [q] quit"))
}

func (t *Terminal) RenderRound(v game.RoundView) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSec = -1

	slots := SlotLabels(v.Visible)
	t.printf("\n%s %s  %s\n",
		translate(t.tr, "round", "ROUND"),
		FormatFraction(v.Round, v.Max),
		t.paint(Theme.AnsiDim, "("+v.Tier.String()+")"))
	t.printf("  %s\n", t.paint(Theme.AnsiAccent, strings.Join(slots[:], "  ")))
	for i, id := range v.Options {
		t.printf("  [%d] %s\n", i+1, chords.Label(id))
	}
}

func (t *Terminal) RenderStats(s game.Stats) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.printf("%s %d  %s %d  %s %d\n",
		t.paint(Theme.AnsiOK, "✓"), s.Correct,
		t.paint(Theme.AnsiBad, "✕"), s.Wrong,
		translate(t.tr, "round.left", "LEFT"), s.Left)
}

// RenderTimer prints the countdown once per whole second.
func (t *Terminal) RenderTimer(remaining time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sec := int(remaining / time.Second)
	if remaining > 0 && sec == t.lastSec {
		return
	}
	t.lastSec = sec
	t.printf("\r%s ", t.paint(Theme.AnsiDim, FormatTimer(remaining)))
	if remaining <= 0 {
		t.printf("\n")
	}
}

func (t *Terminal) LockChoices(locked bool) {}

func (t *Terminal) ShowFeedback(text string, kind game.FeedbackKind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	code := Theme.AnsiOK
	if kind == game.FeedbackBad {
		code = Theme.AnsiBad
	}
	t.printf("\n%s\n", t.paint(Theme.AnsiBold+code, text))
}

func (t *Terminal) ClearFeedback() {}

func (t *Terminal) ShowEnd(score, max int, shareText string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.printf("\n%s %s\n", t.paint(Theme.AnsiBold, translate(t.tr, "result.title", "RESULT")), FormatFraction(score, max))
	t.printf("%s %s\n", translate(t.tr, "share.label", "SHARE:"), shareText)
	for _, p := range game.SharePlatforms {
		if u := game.ShareURL(p.ID, shareText, t.shareURL); u != "" {
			t.printf("  %s: %s\n", translate(t.tr, "share."+p.ID, p.Name), u)
		}
	}
	t.printf("%s\n", t.paint(Theme.AnsiDim, "[enter] play again  [q] quit"))
}

// SetShareURL sets the page shared when the text carries no link.
func (t *Terminal) SetShareURL(u string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.shareURL = u
}

package ui

import (
	"fmt"
	"time"

	"github.com/simukka/guessnote/chords"
	"github.com/simukka/guessnote/game"
)

// FormatTimer renders the countdown with one decimal, never negative.
func FormatTimer(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1f", d.Seconds())
}

// FormatFraction renders "n/max".
func FormatFraction(n, max int) string {
	return fmt.Sprintf("%d/%d", n, max)
}

// SlotLabels returns the four progression slots: the visible chords and a
// question mark for the hidden one.
func SlotLabels(visible []string) [4]string {
	var slots [4]string
	for i := 0; i < 3; i++ {
		if i < len(visible) {
			slots[i] = chords.Label(visible[i])
		}
	}
	slots[3] = "?"
	return slots
}

// FeedbackClass is the CSS class for a feedback kind.
func FeedbackClass(kind game.FeedbackKind) string {
	return string(kind)
}

// translate asks tr for key and falls back to fallback.
func translate(tr game.Translator, key, fallback string) string {
	if tr == nil {
		return fallback
	}
	if s := tr.T(key, map[string]any{"fallback": fallback}); s != "" {
		return s
	}
	return fallback
}

package game

import (
	"time"

	"github.com/simukka/guessnote/audio"
)

// Config holds the session tunables.
type Config struct {
	// Rounds
	MaxRounds int
	TimeLimit time.Duration
	EasyPct   float64 // share of rounds in the easy tier
	MediumPct float64 // share of rounds in the medium tier

	// Delays on the wall clock
	AutoplayDelay time.Duration // round start to progression playback
	FeedbackDelay time.Duration // answer to next round
	TimeoutDelay  time.Duration // timeout to next round

	// Playback
	ChordLead   float64               // engine seconds between now and a single chord
	Progression audio.SequenceOptions // autoplay and replay of the 4 chords
	AnswerChord audio.NoteOptions     // the chord the player picked
	HiddenChord audio.NoteOptions     // replay of the hidden chord

	// Sharing
	ShareURL string

	// Seed for round generation. Zero picks one from the clock.
	Seed uint32
}

// DefaultConfig is the shipped game.
var DefaultConfig = Config{
	MaxRounds: 5,
	TimeLimit: 10 * time.Second,
	EasyPct:   0.2,
	MediumPct: 0.5,

	AutoplayDelay: 240 * time.Millisecond,
	FeedbackDelay: 1550 * time.Millisecond,
	TimeoutDelay:  550 * time.Millisecond,

	ChordLead:   0.02,
	Progression: audio.SequenceOptions{Gap: 1.05, Duration: 1.1, Velocity: 0.92},
	AnswerChord: audio.NoteOptions{Duration: 0.95, Velocity: 0.92},
	HiddenChord: audio.NoteOptions{Duration: 1.0, Velocity: 0.92},

	ShareURL: "https://guessnote.live/",
}

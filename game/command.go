package game

import (
	"fmt"
	"time"

	"github.com/simukka/guessnote/audio"
)

// Command is an effect requested by a Session transition. The Game
// controller executes them in order.
type Command interface {
	command()
}

// Phase is where a session is in its lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRoundActive
	PhaseAnswered
	PhaseTimedOut
	PhaseFeedback
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRoundActive:
		return "round-active"
	case PhaseAnswered:
		return "answered"
	case PhaseTimedOut:
		return "timed-out"
	case PhaseFeedback:
		return "feedback"
	case PhaseEnded:
		return "ended"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Task is a delayed step of the round lifecycle.
type Task int

const (
	// TaskAny matches every task in CancelScheduled.
	TaskAny Task = iota
	TaskAutoplay
	TaskNextRound
)

func (t Task) String() string {
	switch t {
	case TaskAny:
		return "any"
	case TaskAutoplay:
		return "autoplay"
	case TaskNextRound:
		return "next-round"
	}
	return fmt.Sprintf("Task(%d)", int(t))
}

// FeedbackKind styles the feedback overlay.
type FeedbackKind string

const (
	FeedbackNone FeedbackKind = ""
	FeedbackOK   FeedbackKind = "ok"
	FeedbackBad  FeedbackKind = "bad"
)

// RoundView is what a renderer needs to draw a round.
type RoundView struct {
	Round   int
	Max     int
	Tier    Tier
	Visible []string
	Options []string
}

// Stats is the score line.
type Stats struct {
	Correct int
	Wrong   int
	Round   int
	Max     int
	Left    int
}

type (
	RenderRound struct{ View RoundView }
	RenderStats struct{ Stats Stats }
	RenderTimer struct{ Remaining time.Duration }
	LockChoices struct{ Locked bool }

	ShowFeedback struct {
		Text string
		Kind FeedbackKind
	}
	ClearFeedback struct{}

	ArmTimer  struct{ Deadline time.Time }
	StopTimer struct{}

	Schedule struct {
		Task  Task
		After time.Duration
	}
	CancelScheduled struct{ Task Task }

	// PlayProgression plays chord ids as a sequence.
	PlayProgression struct {
		Chords    []string
		Options   audio.SequenceOptions
		KillFirst bool
	}
	// PlayChord plays one chord Lead engine seconds from now.
	PlayChord struct {
		Chord   string
		Lead    float64
		Options audio.NoteOptions
	}
	KillAudio     struct{ Immediate bool }
	SetInstrument struct{ Instrument int }

	Record struct {
		Name  string
		Props map[string]any
	}

	ShowEnd struct {
		Score     int
		Max       int
		ShareText string
	}

	PhaseChanged struct{ From, To Phase }
)

func (RenderRound) command()     {}
func (RenderStats) command()     {}
func (RenderTimer) command()     {}
func (LockChoices) command()     {}
func (ShowFeedback) command()    {}
func (ClearFeedback) command()   {}
func (ArmTimer) command()        {}
func (StopTimer) command()       {}
func (Schedule) command()        {}
func (CancelScheduled) command() {}
func (PlayProgression) command() {}
func (PlayChord) command()       {}
func (KillAudio) command()       {}
func (SetInstrument) command()   {}
func (Record) command()          {}
func (ShowEnd) command()         {}
func (PhaseChanged) command()    {}

package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/simukka/guessnote/chords"
	"github.com/simukka/guessnote/common"
)

// Translator looks up UI text. A "fallback" var is used when the key is
// unknown.
type Translator interface {
	T(key string, vars map[string]any) string
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	SessionID string
	Phase     Phase
	Round     int
	Total     int
	Correct   int
	Locked    bool
	Max       int
	Tier      Tier
	Tiers     TierCounts
	Visible   []string
	Options   []string
}

// Session is the round lifecycle as an explicit state machine. Transition
// methods never perform effects; they return the commands to run.
type Session struct {
	cfg   Config
	cat   *chords.Catalog
	gen   *Generator
	tr    Translator
	tiers TierCounts

	id        string
	phase     Phase
	started   bool
	round     int
	total     int
	correct   int
	locked    bool
	current   Round
	previous  []string
	deadline  time.Time
	shareText string
}

// NewSession creates an idle session.
func NewSession(cfg Config, cat *chords.Catalog, rng *common.SeededRNG, tr Translator) *Session {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = DefaultConfig.MaxRounds
	}
	if cfg.TimeLimit <= 0 {
		cfg.TimeLimit = DefaultConfig.TimeLimit
	}
	return &Session{
		cfg:    cfg,
		cat:    cat,
		gen:    NewGenerator(cat, rng),
		tr:     tr,
		tiers:  SplitTiers(cfg.MaxRounds, cfg.EasyPct, cfg.MediumPct),
		locked: true,
	}
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// ShareText is the message built when the session ended.
func (s *Session) ShareText() string {
	return s.shareText
}

// Answer returns the hidden chord of the current round.
func (s *Session) Answer() string {
	return s.current.Answer
}

// Snapshot returns the current counters.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		SessionID: s.id,
		Phase:     s.phase,
		Round:     s.round,
		Total:     s.total,
		Correct:   s.correct,
		Locked:    s.locked,
		Max:       s.cfg.MaxRounds,
		Tier:      s.current.Tier,
		Tiers:     s.tiers,
		Visible:   append([]string(nil), s.current.Visible...),
		Options:   append([]string(nil), s.current.Options...),
	}
}

func (s *Session) setPhase(to Phase, cmds []Command) []Command {
	if s.phase == to {
		return cmds
	}
	from := s.phase
	s.phase = to
	return append(cmds, PhaseChanged{From: from, To: to})
}

// Start begins a new game from idle, or a replay from the end card.
func (s *Session) Start(now time.Time) []Command {
	if s.phase != PhaseIdle && s.phase != PhaseEnded {
		return nil
	}

	s.id = uuid.NewString()
	s.started = true
	s.round, s.total, s.correct = 0, 0, 0
	s.current = Round{}
	s.previous = nil
	s.shareText = ""

	cmds := []Command{
		Record{Name: "game_start", Props: map[string]any{
			"max":   s.cfg.MaxRounds,
			"tiers": s.tiers.String(),
		}},
	}
	return s.beginRound(now, cmds)
}

func (s *Session) stats() Stats {
	return Stats{
		Correct: s.correct,
		Wrong:   common.Max(0, s.total-s.correct),
		Round:   s.round,
		Max:     s.cfg.MaxRounds,
		Left:    common.Max(0, s.cfg.MaxRounds-s.total),
	}
}

func (s *Session) beginRound(now time.Time, cmds []Command) []Command {
	cmds = append(cmds, CancelScheduled{Task: TaskAny})
	if s.total >= s.cfg.MaxRounds {
		return s.end(cmds)
	}

	s.round++
	cmds = append(cmds, RenderStats{Stats: s.stats()})

	tier := s.tiers.TierForRound(s.round)
	cmds = append(cmds,
		Record{Name: "round_start", Props: map[string]any{
			"round": s.round,
			"max":   s.cfg.MaxRounds,
			"tier":  tier.String(),
		}},
		SetInstrument{Instrument: (s.round - 1) % 3},
	)

	s.current = s.gen.NewRound(tier, s.previous)
	s.previous = s.current.Sequence

	s.locked = false
	s.deadline = now.Add(s.cfg.TimeLimit)
	cmds = append(cmds,
		RenderRound{View: RoundView{
			Round:   s.round,
			Max:     s.cfg.MaxRounds,
			Tier:    tier,
			Visible: append([]string(nil), s.current.Visible...),
			Options: append([]string(nil), s.current.Options...),
		}},
		LockChoices{Locked: false},
		ArmTimer{Deadline: s.deadline},
		RenderTimer{Remaining: s.cfg.TimeLimit},
		Schedule{Task: TaskAutoplay, After: s.cfg.AutoplayDelay},
	)
	return s.setPhase(PhaseRoundActive, cmds)
}

// Submit answers the current round with chord id. It is ignored unless a
// round is active and unlocked.
func (s *Session) Submit(id string, now time.Time) []Command {
	if s.phase != PhaseRoundActive || s.locked {
		return nil
	}

	s.locked = true
	cmds := []Command{
		LockChoices{Locked: true},
		StopTimer{},
		CancelScheduled{Task: TaskAutoplay},
		KillAudio{Immediate: true},
	}

	s.total++
	correct := id == s.current.Answer
	if correct {
		s.correct++
		cmds = append(cmds, ShowFeedback{Text: "✓", Kind: FeedbackOK})
	} else {
		cmds = append(cmds, ShowFeedback{Text: "✕", Kind: FeedbackBad})
	}
	cmds = s.setPhase(PhaseAnswered, cmds)

	correctFlag := 0
	if correct {
		correctFlag = 1
	}
	cmds = append(cmds, Record{Name: "answer", Props: map[string]any{
		"round":   s.total,
		"max":     s.cfg.MaxRounds,
		"correct": correctFlag,
	}})

	// the picked chord always sounds, right or wrong
	if s.cat.Has(id) {
		cmds = append(cmds, PlayChord{Chord: id, Lead: s.cfg.ChordLead, Options: s.cfg.AnswerChord})
	}

	cmds = append(cmds,
		RenderStats{Stats: s.stats()},
		Schedule{Task: TaskNextRound, After: s.cfg.FeedbackDelay},
	)
	return s.setPhase(PhaseFeedback, cmds)
}

// SubmitIndex answers with the option at index i (0-based). Out of range
// indices are ignored.
func (s *Session) SubmitIndex(i int, now time.Time) []Command {
	if i < 0 || i >= len(s.current.Options) {
		return nil
	}
	return s.Submit(s.current.Options[i], now)
}

// Remaining returns the countdown left at now.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.phase != PhaseRoundActive {
		return 0
	}
	return common.Max(0, s.deadline.Sub(now))
}

// Tick polls the countdown. While a round is active it reports the time
// left, and once the deadline passes it times the round out.
func (s *Session) Tick(now time.Time) []Command {
	if s.phase != PhaseRoundActive || s.locked {
		return nil
	}

	left := s.deadline.Sub(now)
	if left > 0 {
		return []Command{RenderTimer{Remaining: left}}
	}

	s.locked = true
	s.total++
	cmds := []Command{
		RenderTimer{Remaining: 0},
		StopTimer{},
		LockChoices{Locked: true},
		RenderStats{Stats: s.stats()},
		ShowFeedback{Text: s.translate("time.up", map[string]any{"fallback": "TIME"}), Kind: FeedbackBad},
	}
	cmds = s.setPhase(PhaseTimedOut, cmds)
	cmds = append(cmds,
		Record{Name: "timeout", Props: map[string]any{
			"round": s.total,
			"max":   s.cfg.MaxRounds,
		}},
		Schedule{Task: TaskNextRound, After: s.cfg.TimeoutDelay},
	)
	return s.setPhase(PhaseFeedback, cmds)
}

// HandleTask runs a scheduled task that came due.
func (s *Session) HandleTask(task Task, now time.Time) []Command {
	switch task {
	case TaskAutoplay:
		if s.phase != PhaseRoundActive {
			return nil
		}
		return s.ReplayProgression()
	case TaskNextRound:
		if s.phase != PhaseFeedback {
			return nil
		}
		return s.beginRound(now, []Command{ClearFeedback{}})
	}
	return nil
}

// ReplayProgression plays the whole current progression, hidden chord
// included.
func (s *Session) ReplayProgression() []Command {
	if !s.started || s.current.Answer == "" {
		return nil
	}
	seq := append(append([]string(nil), s.current.Visible...), s.current.Answer)
	return []Command{PlayProgression{
		Chords:    seq,
		Options:   s.cfg.Progression,
		KillFirst: true,
	}}
}

// ReplayHidden plays only the hidden chord.
func (s *Session) ReplayHidden() []Command {
	if !s.started || !s.cat.Has(s.current.Answer) {
		return nil
	}
	return []Command{
		KillAudio{Immediate: true},
		PlayChord{Chord: s.current.Answer, Lead: s.cfg.ChordLead, Options: s.cfg.HiddenChord},
	}
}

func (s *Session) end(cmds []Command) []Command {
	s.locked = true
	score := common.Max(0, s.correct)
	url := s.cfg.ShareURL
	s.shareText = s.translate("share.message", map[string]any{
		"score":    score,
		"max":      s.cfg.MaxRounds,
		"url":      url,
		"fallback": fmt.Sprintf("I got %d/%d. How many can you do? %s", score, s.cfg.MaxRounds, url),
	})

	cmds = append(cmds,
		StopTimer{},
		LockChoices{Locked: true},
		ClearFeedback{},
		Record{Name: "game_end", Props: map[string]any{
			"score": score,
			"max":   s.cfg.MaxRounds,
		}},
		ShowEnd{Score: score, Max: s.cfg.MaxRounds, ShareText: s.shareText},
	)
	return s.setPhase(PhaseEnded, cmds)
}

// translate calls the translator and falls back to vars["fallback"] when
// there is none or it panics.
func (s *Session) translate(key string, vars map[string]any) (out string) {
	fallback := key
	if fb, ok := vars["fallback"].(string); ok && fb != "" {
		fallback = fb
	}
	if s.tr == nil {
		return fallback
	}
	defer func() {
		if r := recover(); r != nil {
			common.DebugWarn("translator panic:", r)
			out = fallback
		}
	}()
	if text := s.tr.T(key, vars); text != "" {
		return text
	}
	return fallback
}

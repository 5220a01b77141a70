package game

import (
	"time"

	"github.com/simukka/guessnote/audio"
	"github.com/simukka/guessnote/chords"
	"github.com/simukka/guessnote/common"
)

// Synth is the playback the game needs. *audio.Engine implements it.
type Synth interface {
	Ensure()
	Time() float64
	KillAll(immediate bool)
	SetInstrument(n int)
	PlayChord(freqs []float64, start float64, opts audio.NoteOptions)
	PlayChordSequence(chords [][]float64, opts audio.SequenceOptions, killFirst bool) float64
}

// Renderer draws the game.
type Renderer interface {
	RenderRound(v RoundView)
	RenderStats(s Stats)
	RenderTimer(remaining time.Duration)
	LockChoices(locked bool)
	ShowFeedback(text string, kind FeedbackKind)
	ClearFeedback()
	ShowEnd(score, max int, shareText string)
}

// Telemetry receives named events. Implementations must not block.
type Telemetry interface {
	Record(name string, props map[string]any)
}

// Option configures a Game.
type Option func(*Game)

func WithSynth(s Synth) Option           { return func(g *Game) { g.synth = s } }
func WithRenderer(r Renderer) Option     { return func(g *Game) { g.view = r } }
func WithTelemetry(t Telemetry) Option   { return func(g *Game) { g.tel = t } }
func WithTranslator(t Translator) Option { return func(g *Game) { g.tr = t } }
func WithClock(c Clock) Option           { return func(g *Game) { g.clock = c } }
func WithCatalog(c *chords.Catalog) Option {
	return func(g *Game) { g.cat = c }
}

// OnPhase registers a hook called on every phase transition.
func OnPhase(fn func(from, to Phase)) Option {
	return func(g *Game) { g.onPhase = fn }
}

// Game runs a Session: it executes its commands against the synth,
// renderer and telemetry and drives its timers from Tick.
type Game struct {
	cfg     Config
	session *Session
	sched   *Scheduler
	synth   Synth
	view    Renderer
	tel     Telemetry
	tr      Translator
	clock   Clock
	cat     *chords.Catalog
	rng     *common.SeededRNG
	timerOn bool
	tokens  map[Task]Token // pending task of each kind
	onPhase func(from, to Phase)
}

// New creates a game. Collaborators not given are no-ops.
func New(cfg Config, opts ...Option) *Game {
	g := &Game{
		cfg:    cfg,
		sched:  NewScheduler(),
		tokens: make(map[Task]Token),
		synth:  nopSynth{},
		view:   nopRenderer{},
		tel:    nopTelemetry{},
		clock:  SystemClock{},
		cat:    chords.Default,
	}
	for _, opt := range opts {
		opt(g)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = common.TimeSeed()
	}
	g.rng = common.NewSeededRNG(seed)
	g.session = NewSession(cfg, g.cat, g.rng, g.tr)
	return g
}

// Session returns the underlying state machine.
func (g *Game) Session() *Session {
	return g.session
}

// Seed returns the seed rounds are generated from.
func (g *Game) Seed() uint32 {
	return g.rng.Seed()
}

// Start starts (or restarts from the end card) a game.
func (g *Game) Start() {
	g.synth.Ensure()
	g.exec(g.session.Start(g.clock.Now()))
}

// SubmitAnswer answers the current round with a chord id.
func (g *Game) SubmitAnswer(id string) {
	g.exec(g.session.Submit(id, g.clock.Now()))
}

// SubmitIndex answers with option i (0-based).
func (g *Game) SubmitIndex(i int) {
	g.exec(g.session.SubmitIndex(i, g.clock.Now()))
}

// ReplayCurrentProgression plays the four chords again.
func (g *Game) ReplayCurrentProgression() {
	g.exec(g.session.ReplayProgression())
}

// ReplayHiddenChord plays the hidden chord again.
func (g *Game) ReplayHiddenChord() {
	g.exec(g.session.ReplayHidden())
}

// ShareText returns the end-of-game message, empty before the end.
func (g *Game) ShareText() string {
	return g.session.ShareText()
}

// Snapshot returns the session counters.
func (g *Game) Snapshot() Snapshot {
	return g.session.Snapshot()
}

// Tick runs due tasks and polls the countdown. Call it once per frame.
func (g *Game) Tick() {
	now := g.clock.Now()
	g.sched.Advance(now, func(task Task) {
		common.Debug("task:", task)
		delete(g.tokens, task)
		g.exec(g.session.HandleTask(task, now))
	})
	if g.timerOn {
		g.exec(g.session.Tick(now))
	}
}

// Pending returns how many scheduled tasks are waiting.
func (g *Game) Pending() int {
	return g.sched.Pending()
}

func (g *Game) exec(cmds []Command) {
	now := g.clock.Now()
	for _, c := range cmds {
		switch c := c.(type) {
		case RenderRound:
			g.view.RenderRound(c.View)
		case RenderStats:
			g.view.RenderStats(c.Stats)
		case RenderTimer:
			g.view.RenderTimer(c.Remaining)
		case LockChoices:
			g.view.LockChoices(c.Locked)
		case ShowFeedback:
			g.view.ShowFeedback(c.Text, c.Kind)
		case ClearFeedback:
			g.view.ClearFeedback()
		case ShowEnd:
			g.view.ShowEnd(c.Score, c.Max, c.ShareText)

		case ArmTimer:
			g.timerOn = true
		case StopTimer:
			g.timerOn = false

		case Schedule:
			// a kind is pending at most once; scheduling it again moves it
			if tok, ok := g.tokens[c.Task]; ok {
				g.sched.Cancel(tok)
			}
			g.tokens[c.Task] = g.sched.Schedule(c.Task, now.Add(c.After))
		case CancelScheduled:
			g.sched.CancelTask(c.Task)
			if c.Task == TaskAny {
				g.tokens = make(map[Task]Token)
			} else {
				delete(g.tokens, c.Task)
			}

		case PlayProgression:
			g.synth.PlayChordSequence(g.cat.Freqs(c.Chords), c.Options, c.KillFirst)
		case PlayChord:
			if ch, ok := g.cat.Get(c.Chord); ok {
				g.synth.PlayChord(ch.Freqs, g.synth.Time()+c.Lead, c.Options)
			}
		case KillAudio:
			g.synth.KillAll(c.Immediate)
		case SetInstrument:
			g.synth.SetInstrument(c.Instrument)

		case Record:
			g.record(c.Name, c.Props)

		case PhaseChanged:
			common.Debugf("phase %s -> %s", c.From, c.To)
			if g.onPhase != nil {
				g.onPhase(c.From, c.To)
			}
		}
	}
}

// record forwards an event with the session id attached. Telemetry
// failures never reach the game.
func (g *Game) record(name string, props map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			common.DebugWarn("telemetry panic:", r)
		}
	}()
	out := make(map[string]any, len(props)+1)
	for k, v := range props {
		out[k] = v
	}
	out["session"] = g.session.id
	g.tel.Record(name, out)
}

type nopSynth struct{}

func (nopSynth) Ensure()                                                            {}
func (nopSynth) Time() float64                                                      { return 0 }
func (nopSynth) KillAll(bool)                                                       {}
func (nopSynth) SetInstrument(int)                                                  {}
func (nopSynth) PlayChord([]float64, float64, audio.NoteOptions)                    {}
func (nopSynth) PlayChordSequence([][]float64, audio.SequenceOptions, bool) float64 { return 0 }

type nopRenderer struct{}

func (nopRenderer) RenderRound(RoundView)             {}
func (nopRenderer) RenderStats(Stats)                 {}
func (nopRenderer) RenderTimer(time.Duration)         {}
func (nopRenderer) LockChoices(bool)                  {}
func (nopRenderer) ShowFeedback(string, FeedbackKind) {}
func (nopRenderer) ClearFeedback()                    {}
func (nopRenderer) ShowEnd(int, int, string)          {}

type nopTelemetry struct{}

func (nopTelemetry) Record(string, map[string]any) {}

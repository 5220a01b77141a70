package game

import (
	"strings"
	"testing"
	"time"

	"github.com/simukka/guessnote/chords"
	"github.com/simukka/guessnote/common"
)

func newTestSession(cfg Config) *Session {
	return NewSession(cfg, chords.Default, common.NewSeededRNG(7), nil)
}

func findCommand[T Command](cmds []Command) (T, bool) {
	for _, c := range cmds {
		if v, ok := c.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func countRecords(cmds []Command, name string) int {
	n := 0
	for _, c := range cmds {
		if r, ok := c.(Record); ok && r.Name == name {
			n++
		}
	}
	return n
}

// Test that starting from idle opens round one with an armed timer and a
// scheduled autoplay
func TestSession_Start(t *testing.T) {
	s := newTestSession(DefaultConfig)
	now := time.Unix(0, 0)

	cmds := s.Start(now)

	if s.Phase() != PhaseRoundActive {
		t.Fatalf("Expected phase round-active, got %v", s.Phase())
	}
	if countRecords(cmds, "game_start") != 1 || countRecords(cmds, "round_start") != 1 {
		t.Errorf("Expected game_start and round_start records, got %v", cmds)
	}

	rr, ok := findCommand[RenderRound](cmds)
	if !ok {
		t.Fatal("Expected a RenderRound command")
	}
	if rr.View.Round != 1 || len(rr.View.Visible) != 3 || len(rr.View.Options) != 4 {
		t.Errorf("Expected round 1 with 3 visible chords and 4 options, got %+v", rr.View)
	}

	arm, ok := findCommand[ArmTimer](cmds)
	if !ok || !arm.Deadline.Equal(now.Add(DefaultConfig.TimeLimit)) {
		t.Errorf("Expected the timer armed 10s ahead, got %+v (found %v)", arm, ok)
	}

	sched, ok := findCommand[Schedule](cmds)
	if !ok || sched.Task != TaskAutoplay || sched.After != 240*time.Millisecond {
		t.Errorf("Expected autoplay after 240ms, got %+v (found %v)", sched, ok)
	}

	pc, ok := findCommand[PhaseChanged](cmds)
	if !ok || pc.From != PhaseIdle || pc.To != PhaseRoundActive {
		t.Errorf("Expected idle -> round-active, got %+v (found %v)", pc, ok)
	}

	if got := s.Snapshot().Tiers; got != (TierCounts{1, 3, 1}) {
		t.Errorf("Expected tiers 1/3/1 in the snapshot, got %v", got)
	}

	if s.Start(now) != nil {
		t.Error("Start during a round should return no commands")
	}
}

// Test that a wrong answer still plays the picked chord and schedules the
// next round
func TestSession_SubmitWrong(t *testing.T) {
	s := newTestSession(DefaultConfig)
	now := time.Unix(0, 0)
	s.Start(now)

	var wrong string
	for _, id := range s.Snapshot().Options {
		if id != s.Answer() {
			wrong = id
			break
		}
	}

	cmds := s.Submit(wrong, now.Add(time.Second))

	if s.Phase() != PhaseFeedback {
		t.Errorf("Expected phase feedback, got %v", s.Phase())
	}
	fb, _ := findCommand[ShowFeedback](cmds)
	if fb.Kind != FeedbackBad {
		t.Errorf("Expected bad feedback, got %q", fb.Kind)
	}
	pc, ok := findCommand[PlayChord](cmds)
	if !ok || pc.Chord != wrong {
		t.Errorf("Expected the picked chord %s to play, got %+v", wrong, pc)
	}
	rec, _ := findCommand[Record](cmds)
	if rec.Name != "answer" || rec.Props["correct"] != 0 {
		t.Errorf("Expected an answer record with correct 0, got %+v", rec)
	}
	sched, _ := findCommand[Schedule](cmds)
	if sched.Task != TaskNextRound || sched.After != DefaultConfig.FeedbackDelay {
		t.Errorf("Expected the next round after the feedback delay, got %+v", sched)
	}

	if s.Submit(s.Answer(), now.Add(time.Second)) != nil {
		t.Error("Second submit should return no commands")
	}
}

// Test the countdown reports time left and times out at the deadline
func TestSession_TickTimeout(t *testing.T) {
	s := newTestSession(DefaultConfig)
	now := time.Unix(0, 0)
	s.Start(now)

	cmds := s.Tick(now.Add(4 * time.Second))
	rt, ok := findCommand[RenderTimer](cmds)
	if !ok || rt.Remaining != 6*time.Second {
		t.Errorf("Expected 6s left, got %+v (found %v)", rt, ok)
	}
	if got := s.Remaining(now.Add(4 * time.Second)); got != 6*time.Second {
		t.Errorf("Expected Remaining 6s, got %v", got)
	}

	cmds = s.Tick(now.Add(10 * time.Second))
	if s.Phase() != PhaseFeedback {
		t.Fatalf("Expected phase feedback, got %v", s.Phase())
	}
	fb, _ := findCommand[ShowFeedback](cmds)
	if fb.Text != "TIME" {
		t.Errorf("Expected feedback TIME, got %q", fb.Text)
	}
	if countRecords(cmds, "timeout") != 1 {
		t.Error("Expected a timeout record")
	}
	sched, _ := findCommand[Schedule](cmds)
	if sched.After != DefaultConfig.TimeoutDelay {
		t.Errorf("Expected the next round after the timeout delay, got %+v", sched)
	}
	if s.Snapshot().Total != 1 || s.Snapshot().Correct != 0 {
		t.Errorf("Expected 1 attempt and 0 correct, got %+v", s.Snapshot())
	}
}

// Test that stale tasks are ignored
func TestSession_HandleTaskGuards(t *testing.T) {
	s := newTestSession(DefaultConfig)
	now := time.Unix(0, 0)

	if s.HandleTask(TaskAutoplay, now) != nil {
		t.Error("Autoplay before start should return no commands")
	}
	s.Start(now)
	if s.HandleTask(TaskNextRound, now) != nil {
		t.Error("Next round during an active round should return no commands")
	}

	cmds := s.HandleTask(TaskAutoplay, now)
	pp, ok := findCommand[PlayProgression](cmds)
	if !ok || len(pp.Chords) != 4 || pp.Chords[3] != s.Answer() || !pp.KillFirst {
		t.Errorf("Expected the 4 chords ending on the answer with KillFirst, got %+v", pp)
	}
}

// Test a one round game reaches the end card with the share message
func TestSession_End(t *testing.T) {
	cfg := DefaultConfig
	cfg.MaxRounds = 1
	cfg.ShareURL = "https://example.test/"
	s := newTestSession(cfg)
	now := time.Unix(0, 0)

	s.Start(now)
	s.Submit(s.Answer(), now)
	cmds := s.HandleTask(TaskNextRound, now.Add(2*time.Second))

	if s.Phase() != PhaseEnded {
		t.Fatalf("Expected phase ended, got %v", s.Phase())
	}
	end, ok := findCommand[ShowEnd](cmds)
	if !ok || end.Score != 1 || end.Max != 1 {
		t.Errorf("Expected an end card with 1/1, got %+v (found %v)", end, ok)
	}
	if !strings.Contains(end.ShareText, "1/1") || !strings.Contains(end.ShareText, cfg.ShareURL) {
		t.Errorf("Expected the share text to hold 1/1 and the URL, got %q", end.ShareText)
	}
	if s.ShareText() != end.ShareText {
		t.Error("ShareText should match the end card")
	}

	firstID := s.Snapshot().SessionID
	s.Start(now)
	if s.Phase() != PhaseRoundActive || s.Snapshot().SessionID == firstID {
		t.Error("Expected replay to start a new session")
	}
}

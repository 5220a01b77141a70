package game

import (
	"testing"
	"time"
)

func TestScheduler_OrderAndCancel(t *testing.T) {
	s := NewScheduler()
	t0 := time.Unix(0, 0)

	s.Schedule(TaskNextRound, t0.Add(2*time.Second))
	auto := s.Schedule(TaskAutoplay, t0.Add(time.Second))
	s.Schedule(TaskAutoplay, t0.Add(3*time.Second))

	if at, ok := s.NextAt(); !ok || !at.Equal(t0.Add(time.Second)) {
		t.Errorf("Expected the earliest task first, got %v", at)
	}
	if !s.Cancel(auto) {
		t.Error("Expected Cancel to find the token")
	}
	if s.Cancel(auto) {
		t.Error("Expected a second Cancel to report false")
	}

	var fired []Task
	n := s.Advance(t0.Add(5*time.Second), func(task Task) { fired = append(fired, task) })
	if n != 2 || fired[0] != TaskNextRound || fired[1] != TaskAutoplay {
		t.Errorf("Expected next round then autoplay, got %v", fired)
	}
}

func TestScheduler_CancelTask(t *testing.T) {
	s := NewScheduler()
	t0 := time.Unix(0, 0)
	s.Schedule(TaskAutoplay, t0)
	s.Schedule(TaskNextRound, t0)
	s.Schedule(TaskAutoplay, t0)

	if n := s.CancelTask(TaskAutoplay); n != 2 {
		t.Errorf("Expected 2 autoplay tasks cancelled, got %d", n)
	}
	if n := s.CancelTask(TaskAny); n != 1 || s.Pending() != 0 {
		t.Errorf("Expected TaskAny to clear the rest, got %d left %d", n, s.Pending())
	}
}

func TestScheduler_NotDue(t *testing.T) {
	s := NewScheduler()
	t0 := time.Unix(0, 0)
	s.Schedule(TaskAutoplay, t0.Add(time.Second))

	if _, ok := s.PopDue(t0); ok {
		t.Error("Expected nothing due before the deadline")
	}
	if _, ok := s.PopDue(t0.Add(time.Second)); !ok {
		t.Error("Expected the task to be due at its deadline")
	}
}

func TestScheduler_FireCanCancel(t *testing.T) {
	s := NewScheduler()
	t0 := time.Unix(0, 0)
	s.Schedule(TaskNextRound, t0)
	s.Schedule(TaskAutoplay, t0)

	n := s.Advance(t0, func(task Task) {
		if task == TaskNextRound {
			s.CancelTask(TaskAny)
		}
	})
	if n != 1 {
		t.Errorf("Expected the cancelled task not to fire, got %d fired", n)
	}
}

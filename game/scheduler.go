package game

import (
	"sort"
	"time"
)

// Token identifies a scheduled task so it can be cancelled.
type Token uint64

type scheduled struct {
	token Token
	task  Task
	at    time.Time
}

// Scheduler holds delayed tasks. It never fires on its own: the owner pops
// due tasks from its control loop, so tasks run on the same goroutine as
// everything else.
type Scheduler struct {
	next  Token
	tasks []scheduled // ordered by at, then token
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule adds task to fire at at.
func (s *Scheduler) Schedule(task Task, at time.Time) Token {
	s.next++
	sc := scheduled{token: s.next, task: task, at: at}
	i := sort.Search(len(s.tasks), func(i int) bool {
		return s.tasks[i].at.After(at)
	})
	s.tasks = append(s.tasks, scheduled{})
	copy(s.tasks[i+1:], s.tasks[i:])
	s.tasks[i] = sc
	return sc.token
}

// Cancel removes the task with token. It reports whether it was pending.
func (s *Scheduler) Cancel(token Token) bool {
	for i, sc := range s.tasks {
		if sc.token == token {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// CancelTask removes every pending task of kind task, or all of them for
// TaskAny. It returns how many were removed.
func (s *Scheduler) CancelTask(task Task) int {
	kept := s.tasks[:0]
	for _, sc := range s.tasks {
		if task != TaskAny && sc.task != task {
			kept = append(kept, sc)
		}
	}
	n := len(s.tasks) - len(kept)
	s.tasks = kept
	return n
}

// PopDue removes and returns the earliest task due at now.
func (s *Scheduler) PopDue(now time.Time) (Task, bool) {
	if len(s.tasks) == 0 || s.tasks[0].at.After(now) {
		return TaskAny, false
	}
	sc := s.tasks[0]
	s.tasks = s.tasks[1:]
	return sc.task, true
}

// Advance runs fire for every task due at now, earliest first. Tasks are
// popped one at a time, so fire may cancel or schedule others.
func (s *Scheduler) Advance(now time.Time, fire func(Task)) int {
	n := 0
	for {
		task, ok := s.PopDue(now)
		if !ok {
			return n
		}
		fire(task)
		n++
	}
}

// Pending returns how many tasks are waiting.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// NextAt returns when the next task is due.
func (s *Scheduler) NextAt() (time.Time, bool) {
	if len(s.tasks) == 0 {
		return time.Time{}, false
	}
	return s.tasks[0].at, true
}

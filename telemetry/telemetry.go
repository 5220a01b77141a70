// Package telemetry forwards game events to analytics sinks. Sinks are
// fire-and-forget: a failing sink never reaches the game.
package telemetry

import (
	"sync"
	"time"

	"github.com/simukka/guessnote/common"
)

// Sink receives named events.
type Sink interface {
	Record(name string, props map[string]any)
}

// Event is one recorded event as it travels over the wire.
type Event struct {
	Name  string         `json:"name"`
	Props map[string]any `json:"props,omitempty"`
	Time  time.Time      `json:"time"`
}

// Func adapts a function to a Sink.
type Func func(name string, props map[string]any)

func (f Func) Record(name string, props map[string]any) { f(name, props) }

// Nop drops every event.
var Nop Sink = Func(func(string, map[string]any) {})

type safe struct {
	sink Sink
}

// Safe wraps sink so its panics are logged and swallowed.
func Safe(sink Sink) Sink {
	if sink == nil {
		return Nop
	}
	return safe{sink: sink}
}

func (s safe) Record(name string, props map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			common.DebugWarn("telemetry:", name, r)
		}
	}()
	s.sink.Record(name, props)
}

// Multi sends every event to all sinks, each one isolated by Safe.
func Multi(sinks ...Sink) Sink {
	wrapped := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			wrapped = append(wrapped, Safe(s))
		}
	}
	return Func(func(name string, props map[string]any) {
		for _, s := range wrapped {
			s.Record(name, props)
		}
	})
}

// Log writes events to the debug log.
var Log Sink = Func(func(name string, props map[string]any) {
	common.Debugf("event %s %v", name, props)
})

// Memory keeps the last Size events. It is safe for concurrent use.
type Memory struct {
	Size int

	mu     sync.Mutex
	events []Event
}

// NewMemory creates a ring of size events.
func NewMemory(size int) *Memory {
	return &Memory{Size: size}
}

func (m *Memory) Record(name string, props map[string]any) {
	m.Add(Event{Name: name, Props: props, Time: time.Now()})
}

// Add stores e, evicting the oldest event when full.
func (m *Memory) Add(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	if m.Size > 0 && len(m.events) > m.Size {
		m.events = append(m.events[:0], m.events[len(m.events)-m.Size:]...)
	}
}

// Events returns a copy of the stored events, oldest first.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// Count returns how many stored events are called name.
func (m *Memory) Count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.Name == name {
			n++
		}
	}
	return n
}

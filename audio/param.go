package audio

import (
	"math"
	"sort"
)

type eventKind uint8

const (
	setEvent eventKind = iota
	linearEvent
	expEvent
)

type paramEvent struct {
	kind  eventKind
	time  float64
	value float64
}

// Param is an automatable value on the engine clock. It follows the
// AudioParam timeline rules: events are ordered by time, a ramp runs from
// the previous event to its own time, and a set holds until the next event.
type Param struct {
	def    float64
	events []paramEvent
	cur    int // number of events at or before the last queried time
}

// NewParam creates a param that reads v until an event is scheduled.
func NewParam(v float64) *Param {
	return &Param{def: v}
}

func (p *Param) insert(ev paramEvent) {
	// events at the same time keep insertion order
	i := sort.Search(len(p.events), func(i int) bool {
		return p.events[i].time > ev.time
	})
	p.events = append(p.events, paramEvent{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = ev
	p.cur = 0
}

// SetValueAtTime jumps to v at time t.
func (p *Param) SetValueAtTime(v, t float64) {
	p.insert(paramEvent{kind: setEvent, time: t, value: v})
}

// LinearRampToValueAtTime ramps linearly from the previous event to v at t.
func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.insert(paramEvent{kind: linearEvent, time: t, value: v})
}

// ExponentialRampToValueAtTime ramps exponentially from the previous event
// to v at t. v must be non-zero and share the sign of the previous value,
// otherwise the previous value holds until t.
func (p *Param) ExponentialRampToValueAtTime(v, t float64) {
	p.insert(paramEvent{kind: expEvent, time: t, value: v})
}

// CancelScheduledValues removes every event at or after t.
func (p *Param) CancelScheduledValues(t float64) {
	i := sort.Search(len(p.events), func(i int) bool {
		return p.events[i].time >= t
	})
	p.events = p.events[:i]
	p.cur = 0
}

// Len returns the number of scheduled events.
func (p *Param) Len() int {
	return len(p.events)
}

// ValueAt returns the value at engine time t. Queries are cheapest when t
// moves forward.
func (p *Param) ValueAt(t float64) float64 {
	n := len(p.events)
	if n == 0 {
		return p.def
	}
	if p.cur > n {
		p.cur = 0
	}
	for p.cur > 0 && p.events[p.cur-1].time > t {
		p.cur--
	}
	for p.cur < n && p.events[p.cur].time <= t {
		p.cur++
	}

	v0, t0 := p.def, 0.0
	if p.cur > 0 {
		prev := p.events[p.cur-1]
		v0, t0 = prev.value, prev.time
	}
	if p.cur == n {
		return v0
	}

	next := p.events[p.cur]
	span := next.time - t0
	if span <= 0 {
		return v0
	}
	frac := (t - t0) / span
	switch next.kind {
	case linearEvent:
		return v0 + (next.value-v0)*frac
	case expEvent:
		if v0*next.value <= 0 {
			return v0
		}
		return v0 * math.Pow(next.value/v0, frac)
	default:
		return v0
	}
}

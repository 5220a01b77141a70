package server

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/simukka/guessnote/telemetry"
)

// Player is one game session seen through its telemetry.
type Player struct {
	ID       string    `json:"id"`
	Started  time.Time `json:"started"`
	LastSeen time.Time `json:"lastSeen"`
	Round    int       `json:"round"`
	Max      int       `json:"max"`
	Answers  int       `json:"answers"`
	Correct  int       `json:"correct"`
	Score    int       `json:"score"`
	Ended    bool      `json:"ended"`
}

// Tracker follows game sessions from their events and streams the events
// to live subscribers.
type Tracker struct {
	ttl     time.Duration
	players map[string]*Player
	mu      sync.RWMutex

	subs    map[int]chan []byte
	nextSub int
	subMu   sync.Mutex

	finished   int
	scoreTotal int
}

// NewTracker creates a tracker that forgets sessions idle for ttl.
func NewTracker(ttl time.Duration) *Tracker {
	return &Tracker{
		ttl:     ttl,
		players: make(map[string]*Player),
		subs:    make(map[int]chan []byte),
	}
}

// Run removes stale sessions until ctx is done.
func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			t.Cleanup(now)
		}
	}
}

// Cleanup removes sessions idle for longer than the ttl at now.
func (t *Tracker) Cleanup(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for id, p := range t.players {
		if now.Sub(p.LastSeen) > t.ttl {
			delete(t.players, id)
			n++
			log.Printf("Removed stale session %s", id)
		}
	}
	return n
}

// Observe folds e into its session and broadcasts it.
func (t *Tracker) Observe(e telemetry.Event) {
	if id, ok := e.Props["session"].(string); ok && id != "" {
		t.observeSession(id, e)
	}

	msg, err := json.Marshal(e)
	if err != nil {
		log.Printf("Encoding event %s: %v", e.Name, err)
		return
	}
	t.broadcast(msg)
}

func (t *Tracker) observeSession(id string, e telemetry.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	when := e.Time
	if when.IsZero() {
		when = time.Now()
	}

	p, exists := t.players[id]
	if !exists {
		p = &Player{ID: id, Started: when}
		t.players[id] = p
	}
	p.LastSeen = when
	if max, ok := intProp(e.Props, "max"); ok {
		p.Max = max
	}

	switch e.Name {
	case "round_start":
		if round, ok := intProp(e.Props, "round"); ok {
			p.Round = round
		}
	case "answer":
		p.Answers++
		if c, _ := intProp(e.Props, "correct"); c == 1 {
			p.Correct++
		}
	case "game_end":
		if !p.Ended {
			p.Ended = true
			p.Score, _ = intProp(e.Props, "score")
			t.finished++
			t.scoreTotal += p.Score
		}
	}
}

// intProp reads a number that may have been decoded from JSON.
func intProp(props map[string]any, key string) (int, bool) {
	switch v := props[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

// Subscribe registers a live event listener.
func (t *Tracker) Subscribe() (int, <-chan []byte) {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	t.nextSub++
	ch := make(chan []byte, 100)
	t.subs[t.nextSub] = ch
	return t.nextSub, ch
}

// Unsubscribe removes a listener and closes its channel.
func (t *Tracker) Unsubscribe(id int) {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	if ch, ok := t.subs[id]; ok {
		close(ch)
		delete(t.subs, id)
	}
}

func (t *Tracker) broadcast(msg []byte) {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	for id, ch := range t.subs {
		select {
		case ch <- msg:
		default:
			log.Printf("Event buffer full for subscriber %d", id)
		}
	}
}

// Summary is the tracker state served by /api/sessions.
type Summary struct {
	Active   []Player `json:"active"`
	Finished int      `json:"finished"`
	AvgScore float64  `json:"avgScore"`
}

// Summary returns the live sessions, newest first, and the totals.
func (t *Tracker) Summary() Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Summary{Active: make([]Player, 0, len(t.players)), Finished: t.finished}
	for _, p := range t.players {
		s.Active = append(s.Active, *p)
	}
	sort.Slice(s.Active, func(i, j int) bool {
		return s.Active[i].Started.After(s.Active[j].Started)
	})
	if t.finished > 0 {
		s.AvgScore = float64(t.scoreTotal) / float64(t.finished)
	}
	return s
}

package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/simukka/guessnote/common"
)

// Beacon posts events as JSON to an HTTP endpoint (the server's
// /api/events). Record only queues: a background goroutine does the
// posting, and events are dropped when the queue is full.
type Beacon struct {
	url    string
	client *http.Client
	queue  chan Event
	done   chan struct{}
	once   sync.Once

	mu      sync.Mutex
	dropped int
}

// NewBeacon starts a beacon posting to url.
func NewBeacon(url string, queueSize int) *Beacon {
	if queueSize <= 0 {
		queueSize = 64
	}
	b := &Beacon{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
		queue:  make(chan Event, queueSize),
		done:   make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Beacon) Record(name string, props map[string]any) {
	select {
	case b.queue <- Event{Name: name, Props: props, Time: time.Now()}:
	default:
		b.mu.Lock()
		b.dropped++
		b.mu.Unlock()
	}
}

// Dropped returns how many events did not fit in the queue.
func (b *Beacon) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

func (b *Beacon) run() {
	defer close(b.done)
	for e := range b.queue {
		if err := b.post(context.Background(), e); err != nil {
			common.DebugWarn("beacon:", err)
		}
	}
}

func (b *Beacon) post(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding event %s: %w", e.Name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting event %s: %w", e.Name, err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("posting event %s: %s", e.Name, resp.Status)
	}
	return nil
}

// Close stops accepting events and waits for the queue to drain or ctx
// to expire.
func (b *Beacon) Close(ctx context.Context) error {
	b.once.Do(func() { close(b.queue) })
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

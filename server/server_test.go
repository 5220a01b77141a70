package server

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simukka/guessnote/chords"
	"github.com/simukka/guessnote/telemetry"
)

func newTestServer() *Server {
	return New(Options{StaticDir: ".", SessionTTL: time.Minute, EventLog: 50})
}

func do(t *testing.T, s *Server, method, target string, body io.Reader) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w.Result()
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	resp := do(t, newTestServer(), http.MethodGet, "/api/health", nil)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestIndex(t *testing.T) {
	resp := do(t, newTestServer(), http.MethodGet, "/", nil)
	body, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(http.StatusOK, resp.StatusCode)
	assert.Contains(resp.Header.Get("Content-Type"), "text/html")
	for _, id := range []string{"timerValue", "progression", "choices", "endCard", "shareWhatsapp"} {
		assert.Contains(string(body), `id="`+id+`"`)
	}
}

func TestCatalog(t *testing.T) {
	resp := do(t, newTestServer(), http.MethodGet, "/api/catalog", nil)

	var out []ChordJSON
	decode(t, resp, &out)
	assert.Equal(t, chords.Default.Len(), len(out))
	assert.Equal(t, "C", out[0].ID)
	assert.Equal(t, len(out[0].Tones), len(out[0].Freqs))
}

func TestRound(t *testing.T) {
	s := newTestServer()

	resp := do(t, s, http.MethodGet, "/api/round?tier=medium&seed=42", nil)
	var first RoundJSON
	decode(t, resp, &first)

	assert := assert.New(t)
	assert.Equal("medium", first.Tier)
	assert.Equal(uint32(42), first.Seed)
	assert.Len(first.Visible, 3)
	assert.Len(first.Options, 4)
	assert.Contains(first.Options, first.Answer)
	assert.Equal(first.Sequence[3], first.Answer)

	var again RoundJSON
	decode(t, do(t, s, http.MethodGet, "/api/round?tier=medium&seed=42", nil), &again)
	assert.Equal(first, again, "same seed gives the same round")
}

func TestRound_BadInput(t *testing.T) {
	s := newTestServer()
	for _, target := range []string{"/api/round?tier=legendary", "/api/round?seed=-1"} {
		resp := do(t, s, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
	}
}

func TestRender_WAV(t *testing.T) {
	resp := do(t, newTestServer(), http.MethodGet, "/api/render?chords=C,G&seed=1", nil)
	body, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(http.StatusOK, resp.StatusCode)
	assert.Equal("audio/wav", resp.Header.Get("Content-Type"))
	require.True(t, len(body) > 44)
	assert.Equal("RIFF", string(body[0:4]))
	assert.Equal("WAVE", string(body[8:12]))
	assert.Equal(uint32(44100), binary.LittleEndian.Uint32(body[24:28]))
}

func TestRender_MIDI(t *testing.T) {
	resp := do(t, newTestServer(), http.MethodGet, "/api/render?chords=C,F,G&format=midi", nil)
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "MThd", string(body[0:4]))
}

func TestRender_BadInput(t *testing.T) {
	s := newTestServer()
	targets := []string{
		"/api/render",
		"/api/render?chords=C,Q13",
		"/api/render?chords=C,C,C,C,C,C,C,C,C",
		"/api/render?chords=C&instrument=x",
		"/api/render?chords=C&format=mp3",
	}
	for _, target := range targets {
		resp := do(t, s, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
	}
}

func postEvent(t *testing.T, s *Server, name string, props map[string]any) *http.Response {
	t.Helper()
	data, err := json.Marshal(telemetry.Event{Name: name, Props: props})
	require.NoError(t, err)
	return do(t, s, http.MethodPost, "/api/events", bytes.NewReader(data))
}

func TestEvents(t *testing.T) {
	s := newTestServer()

	resp := postEvent(t, s, "game_start", map[string]any{"session": "abc", "max": 5})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	postEvent(t, s, "round_start", map[string]any{"session": "abc", "round": 1, "max": 5})
	postEvent(t, s, "answer", map[string]any{"session": "abc", "round": 1, "max": 5, "correct": 1})
	postEvent(t, s, "game_end", map[string]any{"session": "abc", "score": 3, "max": 5})

	var recent struct {
		Events []telemetry.Event `json:"events"`
	}
	decode(t, do(t, s, http.MethodGet, "/api/events?name=answer", nil), &recent)
	require.Len(t, recent.Events, 1)
	assert.Equal(t, "answer", recent.Events[0].Name)

	var summary Summary
	decode(t, do(t, s, http.MethodGet, "/api/sessions", nil), &summary)
	require.Len(t, summary.Active, 1)
	p := summary.Active[0]
	assert := assert.New(t)
	assert.Equal("abc", p.ID)
	assert.Equal(1, p.Round)
	assert.Equal(1, p.Correct)
	assert.Equal(3, p.Score)
	assert.True(p.Ended)
	assert.Equal(1, summary.Finished)
	assert.Equal(3.0, summary.AvgScore)
}

func TestEvents_BadInput(t *testing.T) {
	s := newTestServer()

	resp := do(t, s, http.MethodPost, "/api/events", strings.NewReader("{not json"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postEvent(t, s, "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestTracker_Cleanup(t *testing.T) {
	tr := NewTracker(time.Minute)
	t0 := time.Now()
	tr.Observe(telemetry.Event{Name: "game_start", Props: map[string]any{"session": "old"}, Time: t0})
	tr.Observe(telemetry.Event{Name: "game_start", Props: map[string]any{"session": "new"}, Time: t0.Add(2 * time.Minute)})

	removed := tr.Cleanup(t0.Add(2*time.Minute + time.Second))
	assert.Equal(t, 1, removed)
	active := tr.Summary().Active
	require.Len(t, active, 1)
	assert.Equal(t, "new", active[0].ID)
}

func TestTracker_Subscribe(t *testing.T) {
	tr := NewTracker(time.Minute)
	id, ch := tr.Subscribe()

	tr.Observe(telemetry.Event{Name: "share_click", Props: map[string]any{"platform": "whatsapp"}})

	select {
	case msg := <-ch:
		assert.Contains(t, string(msg), "share_click")
	case <-time.After(time.Second):
		t.Fatal("Expected the event on the subscription")
	}

	tr.Unsubscribe(id)
	_, open := <-ch
	assert.False(t, open)
}

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/simukka/guessnote/audio"
	"github.com/simukka/guessnote/chords"
	"github.com/simukka/guessnote/common"
	"github.com/simukka/guessnote/game"
	"github.com/simukka/guessnote/telemetry"
)

const maxRenderChords = 8

// ChordJSON is a catalog entry on the wire.
type ChordJSON struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Tones []uint8   `json:"tones"`
	Freqs []float64 `json:"freqs"`
}

// RoundJSON is a generated round on the wire.
type RoundJSON struct {
	Tier     string   `json:"tier"`
	Seed     uint32   `json:"seed"`
	Visible  []string `json:"visible"`
	Answer   string   `json:"answer"`
	Options  []string `json:"options"`
	Sequence []string `json:"sequence"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	all := s.opts.Catalog.All()
	out := make([]ChordJSON, 0, len(all))
	for _, ch := range all {
		out = append(out, ChordJSON{ID: ch.ID, Label: chords.Label(ch.ID), Tones: ch.Tones, Freqs: ch.Freqs})
	}
	writeJSON(w, http.StatusOK, out)
}

// parseSeed reads ?seed=, or picks one from the clock.
func parseSeed(r *http.Request) (uint32, error) {
	raw := r.URL.Query().Get("seed")
	if raw == "" {
		return common.TimeSeed(), nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q", raw)
	}
	return uint32(n), nil
}

func (s *Server) handleRound(w http.ResponseWriter, r *http.Request) {
	tier := game.Easy
	if raw := r.URL.Query().Get("tier"); raw != "" {
		t, err := game.ParseTier(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		tier = t
	}
	seed, err := parseSeed(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var avoid []string
	if raw := r.URL.Query().Get("avoid"); raw != "" {
		avoid = strings.Split(raw, ",")
	}

	gen := game.NewGenerator(s.opts.Catalog, common.NewSeededRNG(seed))
	round := gen.NewRound(tier, avoid)
	writeJSON(w, http.StatusOK, RoundJSON{
		Tier:     tier.String(),
		Seed:     seed,
		Visible:  round.Visible,
		Answer:   round.Answer,
		Options:  round.Options,
		Sequence: round.Sequence,
	})
}

// handleRender renders ?chords=C,F,G,Am as WAV, or as MIDI with
// ?format=midi.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ids := strings.Split(q.Get("chords"), ",")
	if q.Get("chords") == "" || len(ids) > maxRenderChords {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("chords must list 1 to %d chord ids", maxRenderChords))
		return
	}
	for _, id := range ids {
		if !s.opts.Catalog.Has(id) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown chord %q", id))
			return
		}
	}

	instrument := 0
	if raw := q.Get("instrument"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid instrument %q", raw))
			return
		}
		instrument = n
	}
	seed, err := parseSeed(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := game.DefaultConfig.Progression
	switch q.Get("format") {
	case "", "wav":
		samples, err := audio.RenderChordSequence(s.opts.Audio, seed, instrument, s.opts.Catalog.Freqs(ids), opts)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "audio/wav")
		w.Write(audio.EncodeWAV(samples, s.opts.Audio.SampleRate, s.opts.Audio.Channels))
	case "midi", "mid":
		midiOpts := chords.DefaultMIDIOptions
		midiOpts.Gap = opts.Gap
		midiOpts.Duration = opts.Duration
		var buf bytes.Buffer
		if err := chords.WriteMIDI(&buf, s.opts.Catalog.Chords(ids), midiOpts); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "audio/midi")
		w.Write(buf.Bytes())
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q", q.Get("format")))
	}
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var e telemetry.Event
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if e.Name == "" {
		writeError(w, http.StatusBadRequest, "event name required")
		return
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	s.events.Add(e)
	s.tracker.Observe(e)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "ok"})
}

func (s *Server) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	events := s.events.Events()
	if name := r.URL.Query().Get("name"); name != "" {
		filtered := events[:0]
		for _, e := range events {
			if e.Name == name {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Summary())
}

// handleStream sends every incoming event as a server-sent event.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id, msgs := s.tracker.Subscribe()
	defer s.tracker.Unsubscribe(id)

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

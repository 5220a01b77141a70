// Package chords holds the chord catalog the game draws its progressions from.
//
// Each chord is stored as MIDI note numbers plus precomputed frequencies.
// Notes are kept in a comfortable register around C4 so the synth sounds
// nicer.
package chords

import (
	"math"

	"golang.org/x/exp/slices"
)

// Chord is a named set of 3 or 4 simultaneous pitches.
type Chord struct {
	ID    string    // label shown to the player
	Tones []uint8   // MIDI note numbers, ascending, unique
	Freqs []float64 // Tones converted to Hz
}

// Quality is an interval recipe applied to a root.
type Quality struct {
	Suffix    string
	Intervals []uint8
}

// Curated chords. They come first in the catalog and win on id collisions.
var baseChords = []Chord{
	// Triads
	{ID: "C", Tones: []uint8{60, 64, 67}},
	{ID: "Dm", Tones: []uint8{62, 65, 69}},
	{ID: "Em", Tones: []uint8{64, 67, 71}},
	{ID: "F", Tones: []uint8{65, 69, 72}},
	{ID: "G", Tones: []uint8{67, 71, 74}},
	{ID: "Am", Tones: []uint8{69, 72, 76}},
	{ID: "Bdim", Tones: []uint8{71, 74, 77}},

	// 7ths
	{ID: "Cmaj7", Tones: []uint8{60, 64, 67, 71}},
	{ID: "Dm7", Tones: []uint8{62, 65, 69, 72}},
	{ID: "Em7", Tones: []uint8{64, 67, 71, 74}},
	{ID: "Fmaj7", Tones: []uint8{65, 69, 72, 76}},
	{ID: "G7", Tones: []uint8{67, 71, 74, 77}},
	{ID: "Am7", Tones: []uint8{69, 72, 76, 79}},

	// Half-diminished / diminished
	{ID: "Bm7b5", Tones: []uint8{59, 62, 65, 69}},
	{ID: "Bdim7", Tones: []uint8{59, 62, 65, 68}},
}

// NoteNames are the root spellings used for generated chords.
var NoteNames = []string{"C", "C#", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}

// Qualities are applied to every root to build the chromatic set.
var Qualities = []Quality{
	{Suffix: "", Intervals: []uint8{0, 4, 7}},
	{Suffix: "m", Intervals: []uint8{0, 3, 7}},
	{Suffix: "dim", Intervals: []uint8{0, 3, 6}},
	{Suffix: "maj7", Intervals: []uint8{0, 4, 7, 11}},
	{Suffix: "m7", Intervals: []uint8{0, 3, 7, 10}},
	{Suffix: "7", Intervals: []uint8{0, 4, 7, 10}},
	{Suffix: "m7b5", Intervals: []uint8{0, 3, 6, 10}},
	{Suffix: "dim7", Intervals: []uint8{0, 3, 6, 9}},
}

// EasyPool is the diatonic triads of C major.
var EasyPool = []string{"C", "Dm", "Em", "F", "G", "Am", "Bdim"}

// MediumPool adds sevenths and a bit of diminished color to EasyPool.
var MediumPool = []string{
	"C", "Dm", "Em", "F", "G", "Am", "Bdim",
	"G7", "Cmaj7", "Dm7", "Em7", "Fmaj7", "Am7", "Bm7b5", "Bdim7",
}

// SafePool is used when the catalog is too small to play a round.
var SafePool = []string{"C", "F", "G", "Am"}

// MidiToFreq converts a MIDI note number to Hz (A4 = 69 = 440 Hz).
func MidiToFreq(m uint8) float64 {
	return 440 * math.Pow(2, (float64(m)-69)/12)
}

// Label returns the text shown for a chord id.
func Label(id string) string {
	return id
}

// Catalog is an immutable, ordered chord dictionary.
type Catalog struct {
	chords []Chord
	byID   map[string]int
}

// Default is the process-wide catalog. It is read-only after init.
var Default = NewCatalog(baseChords, generateChromaticChords())

// generateChromaticChords builds the big chord set used in the last rounds.
func generateChromaticChords() []Chord {
	extra := make([]Chord, 0, len(NoteNames)*len(Qualities))
	for s, rootName := range NoteNames {
		rootMidi := uint8(60 + s) // C4 + semitone offset
		if rootMidi > 66 {
			rootMidi -= 12 // keep upper notes from getting too bright
		}
		for _, q := range Qualities {
			tones := make([]uint8, len(q.Intervals))
			for i, iv := range q.Intervals {
				tones[i] = rootMidi + iv
			}
			extra = append(extra, Chord{ID: rootName + q.Suffix, Tones: tones})
		}
	}
	return extra
}

// NewCatalog merges chord groups in order. A later chord whose id is already
// present is dropped. Frequencies are computed here, once.
func NewCatalog(groups ...[]Chord) *Catalog {
	c := &Catalog{byID: make(map[string]int)}
	for _, group := range groups {
		for _, ch := range group {
			if _, exists := c.byID[ch.ID]; exists {
				continue
			}
			tones := append([]uint8(nil), ch.Tones...)
			freqs := make([]float64, len(tones))
			for i, m := range tones {
				freqs[i] = MidiToFreq(m)
			}
			c.byID[ch.ID] = len(c.chords)
			c.chords = append(c.chords, Chord{ID: ch.ID, Tones: tones, Freqs: freqs})
		}
	}
	return c
}

// Len returns the number of chords.
func (c *Catalog) Len() int {
	return len(c.chords)
}

// All returns the chords in catalog order. Callers must not modify them.
func (c *Catalog) All() []Chord {
	return c.chords
}

// IDs returns all chord ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.chords))
	for i, ch := range c.chords {
		ids[i] = ch.ID
	}
	return ids
}

// Get looks up a chord by id.
func (c *Catalog) Get(id string) (Chord, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Chord{}, false
	}
	return c.chords[i], true
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Freqs returns the frequencies of each id, skipping unknown ids.
func (c *Catalog) Freqs(ids []string) [][]float64 {
	out := make([][]float64, 0, len(ids))
	for _, id := range ids {
		if ch, ok := c.Get(id); ok {
			out = append(out, ch.Freqs)
		}
	}
	return out
}

// Chords resolves ids to chords, skipping unknown ids.
func (c *Catalog) Chords(ids []string) []Chord {
	out := make([]Chord, 0, len(ids))
	for _, id := range ids {
		if ch, ok := c.Get(id); ok {
			out = append(out, ch)
		}
	}
	return out
}

// Filter returns the ids of pool that exist in the catalog, keeping order
// and dropping duplicates.
func (c *Catalog) Filter(pool []string) []string {
	out := make([]string, 0, len(pool))
	for _, id := range pool {
		if c.Has(id) && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

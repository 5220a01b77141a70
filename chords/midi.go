package chords

import (
	"fmt"
	"io"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MIDIOptions controls progression export.
type MIDIOptions struct {
	Gap      float64 // seconds between chord onsets
	Duration float64 // seconds each chord sounds
	Velocity uint8
	Channel  uint8
	Name     string
}

// DefaultMIDIOptions matches the in-game progression playback.
var DefaultMIDIOptions = MIDIOptions{
	Gap:      1.05,
	Duration: 1.1,
	Velocity: 92,
	Channel:  0,
	Name:     "guessnote",
}

const (
	midiResolution = 480
	midiTempo      = 120.0
	// ticks per second at midiTempo
	midiTicksPerSec = midiResolution * midiTempo / 60
)

type midiEvent struct {
	tick uint32
	off  bool
	key  uint8
}

// WriteMIDI writes progression as a single-track standard MIDI file.
// Note-offs sort before note-ons on the same tick so overlapping chords that
// share tones retrigger cleanly.
func WriteMIDI(w io.Writer, progression []Chord, opts MIDIOptions) error {
	if opts.Gap <= 0 || opts.Duration <= 0 {
		return fmt.Errorf("invalid midi timing gap=%v duration=%v", opts.Gap, opts.Duration)
	}

	var events []midiEvent
	for i, ch := range progression {
		on := uint32(float64(i) * opts.Gap * midiTicksPerSec)
		off := on + uint32(opts.Duration*midiTicksPerSec)
		for _, key := range ch.Tones {
			events = append(events, midiEvent{tick: on, key: key})
			events = append(events, midiEvent{tick: off, off: true, key: key})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(opts.Name))
	tr.Add(0, smf.MetaMeter(4, 4))
	tr.Add(0, smf.MetaTempo(midiTempo))

	var last uint32
	for _, ev := range events {
		delta := ev.tick - last
		last = ev.tick
		if ev.off {
			tr.Add(delta, midi.NoteOff(opts.Channel, ev.key))
		} else {
			tr.Add(delta, midi.NoteOn(opts.Channel, ev.key, opts.Velocity))
		}
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(midiResolution)
	if err := s.Add(tr); err != nil {
		return fmt.Errorf("adding track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("writing midi: %w", err)
	}
	return nil
}

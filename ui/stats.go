package ui

import (
	"fmt"

	"github.com/simukka/guessnote/game"
)

// AudioStats is the engine state shown in the stats overlay.
type AudioStats struct {
	Time       float64
	Voices     int
	Noises     int
	Sounding   int
	Instrument string
	Muted      bool
}

// StatsOverlay displays real-time game statistics.
type StatsOverlay struct {
	Visible bool

	// FPS tracking
	FrameCount    int
	LastFPSUpdate float64
	CurrentFPS    float64
}

// NewStatsOverlay creates a hidden overlay.
func NewStatsOverlay() *StatsOverlay {
	return &StatsOverlay{}
}

// Toggle toggles the stats overlay visibility.
func (s *StatsOverlay) Toggle() {
	s.Visible = !s.Visible
}

// UpdateFPS counts a frame at currentTime (milliseconds).
func (s *StatsOverlay) UpdateFPS(currentTime float64) {
	s.FrameCount++

	// Update FPS every second
	elapsed := currentTime - s.LastFPSUpdate
	if elapsed >= 1000 {
		s.CurrentFPS = float64(s.FrameCount) / (elapsed / 1000)
		s.FrameCount = 0
		s.LastFPSUpdate = currentTime
	}
}

// Lines formats the overlay contents.
func (s *StatsOverlay) Lines(snap game.Snapshot, a AudioStats, pending int) []string {
	mute := "on"
	if a.Muted {
		mute = "muted"
	}
	return []string{
		fmt.Sprintf("FPS:        %.0f", s.CurrentFPS),
		fmt.Sprintf("Phase:      %s", snap.Phase),
		fmt.Sprintf("Round:      %d/%d (%s)", snap.Round, snap.Max, snap.Tier),
		fmt.Sprintf("Tiers:      %s", snap.Tiers),
		fmt.Sprintf("Score:      %d/%d", snap.Correct, snap.Total),
		fmt.Sprintf("Locked:     %v", snap.Locked),
		fmt.Sprintf("Tasks:      %d", pending),
		fmt.Sprintf("Clock:      %.2fs", a.Time),
		fmt.Sprintf("Voices:     %d (+%d noise)", a.Voices, a.Noises),
		fmt.Sprintf("Sounding:   %d", a.Sounding),
		fmt.Sprintf("Instrument: %s", a.Instrument),
		fmt.Sprintf("Audio:      %s", mute),
	}
}

//go:build !js
// +build !js

package main

import (
	"github.com/spf13/pflag"

	"github.com/simukka/guessnote/audio"
	"github.com/simukka/guessnote/game"
)

// gameFlags binds the game tunables shared by play and serve.
func gameFlags(cfg *game.Config, lang *string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("game", pflag.ContinueOnError)
	fs.IntVar(&cfg.MaxRounds, "rounds", cfg.MaxRounds, "rounds per game")
	fs.DurationVar(&cfg.TimeLimit, "time-limit", cfg.TimeLimit, "time to answer a round")
	fs.Uint32Var(&cfg.Seed, "seed", cfg.Seed, "round generator seed (0 picks one)")
	fs.StringVarP(lang, "lang", "l", "", "language: en, es or pt (default from GUESSNOTE_LANG or LANG)")
	return fs
}

// audioFlags binds the output tunables shared by play and render.
func audioFlags(cfg *audio.Config, instrument *int) *pflag.FlagSet {
	fs := pflag.NewFlagSet("audio", pflag.ContinueOnError)
	fs.IntVar(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "output sample rate in Hz")
	fs.Float64Var(&cfg.UnmutedVolume, "volume", cfg.UnmutedVolume, "master gain")
	fs.IntVarP(instrument, "instrument", "i", 0, "instrument preset: 0 warm, 1 felt, 2 soft e-piano")
	return fs
}

//go:build !js
// +build !js

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simukka/guessnote/audio"
	"github.com/simukka/guessnote/chords"
	"github.com/simukka/guessnote/common"
	"github.com/simukka/guessnote/game"
)

var (
	renderOut        string
	renderMIDI       string
	renderTier       string
	renderSeed       uint32
	renderGap        float64
	renderDuration   float64
	renderInstrument int
	renderAudio      = audio.DefaultConfig
)

var renderCmd = &cobra.Command{
	Use:   "render [chord...]",
	Short: "Render a progression to WAV and MIDI",
	Long: `Render a progression to a WAV file, and optionally a MIDI file.
Without chord arguments a progression is generated for --tier.`,
	Example: `  guessnote render C Am F G --out prog.wav --midi prog.mid
  guessnote render --tier impossible --seed 7 --out hard.wav`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if renderOut == "" && renderMIDI == "" {
			return fmt.Errorf("nothing to write: pass --out and/or --midi")
		}

		seed := renderSeed
		if seed == 0 {
			seed = common.TimeSeed()
		}
		ids, err := progression(args, renderTier, seed)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (seed %d)\n", strings.Join(ids, " "), seed)

		if renderOut != "" {
			if err := writeWAV(renderOut, ids, seed); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", renderOut)
		}
		if renderMIDI != "" {
			if err := writeMIDI(renderMIDI, ids); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", renderMIDI)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "WAV file to write")
	renderCmd.Flags().StringVar(&renderMIDI, "midi", "", "MIDI file to write")
	renderCmd.Flags().StringVar(&renderTier, "tier", "easy", "tier to generate from when no chords are given")
	renderCmd.Flags().Uint32Var(&renderSeed, "seed", 0, "seed for generation and voicing (0 picks one)")
	renderCmd.Flags().Float64Var(&renderGap, "gap", game.DefaultConfig.Progression.Gap, "seconds between chord onsets")
	renderCmd.Flags().Float64Var(&renderDuration, "duration", game.DefaultConfig.Progression.Duration, "chord length in seconds")
	renderCmd.Flags().AddFlagSet(audioFlags(&renderAudio, &renderInstrument))
	rootCmd.AddCommand(renderCmd)
}

// progression validates ids, or generates a sequence for tier when there
// are none.
func progression(ids []string, tier string, seed uint32) ([]string, error) {
	if len(ids) == 0 {
		t, err := game.ParseTier(tier)
		if err != nil {
			return nil, err
		}
		gen := game.NewGenerator(chords.Default, common.NewSeededRNG(seed))
		return gen.GenerateSequence(t, nil), nil
	}
	for _, id := range ids {
		if !chords.Default.Has(id) {
			return nil, fmt.Errorf("unknown chord %q", id)
		}
	}
	return ids, nil
}

func writeWAV(path string, ids []string, seed uint32) error {
	opts := game.DefaultConfig.Progression
	opts.Gap = renderGap
	opts.Duration = renderDuration

	samples, err := audio.RenderChordSequence(renderAudio, seed, renderInstrument, chords.Default.Freqs(ids), opts)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := audio.WriteWAV(f, samples, renderAudio.SampleRate, renderAudio.Channels); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func writeMIDI(path string, ids []string) error {
	opts := chords.DefaultMIDIOptions
	opts.Gap = renderGap
	opts.Duration = renderDuration

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := chords.WriteMIDI(f, chords.Default.Chords(ids), opts); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

//go:build !js
// +build !js

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/simukka/guessnote/chords"
	"github.com/simukka/guessnote/game"
)

var chordsTier string

var chordsCmd = &cobra.Command{
	Use:   "chords",
	Short: "List the chord catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := chords.Default.IDs()
		if chordsTier != "" {
			t, err := game.ParseTier(chordsTier)
			if err != nil {
				return err
			}
			ids = game.Pool(t, chords.Default)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tMIDI\tHZ")
		for _, ch := range chords.Default.Chords(ids) {
			tones := make([]string, len(ch.Tones))
			freqs := make([]string, len(ch.Freqs))
			for i := range ch.Tones {
				tones[i] = fmt.Sprint(ch.Tones[i])
				freqs[i] = fmt.Sprintf("%.1f", ch.Freqs[i])
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", chords.Label(ch.ID), strings.Join(tones, " "), strings.Join(freqs, " "))
		}
		return w.Flush()
	},
}

func init() {
	chordsCmd.Flags().StringVar(&chordsTier, "tier", "", "only list the pool of this tier")
	rootCmd.AddCommand(chordsCmd)
}
